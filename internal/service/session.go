package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/krishisakhi/sakhi-session/internal/codec"
	"github.com/krishisakhi/sakhi-session/internal/logger"
	"github.com/krishisakhi/sakhi-session/internal/model"
)

// LoginFailedMessage is shown to the user when credentials could not be saved.
const LoginFailedMessage = "Failed to save login information"

// Startup outcomes recorded for the initial auth check.
const (
	StartupNoCredentials = "no_credentials"
	StartupVerified      = "verified"
	StartupRejected      = "rejected"
	StartupFailed        = "failed"
)

// Session states recorded on every transition.
const (
	StateAuthenticated   = "authenticated"
	StateUnauthenticated = "unauthenticated"
)

// SessionRecorder receives session lifecycle events for metrics.
type SessionRecorder interface {
	Transition(to string)
	Startup(outcome string)
}

// NoticeError is returned when a failure must be surfaced to the user.
type NoticeError struct {
	Message string
	Err     error
}

func (e *NoticeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *NoticeError) Unwrap() error {
	return e.Err
}

// SessionController owns the in-memory session and keeps it in step with the
// credential store. Login, Logout and CheckAuthStatus are expected to be
// triggered by distinct events and not to overlap.
type SessionController struct {
	store    model.CredentialStore
	verifier model.TokenVerifier
	reporter model.ErrorReporter
	notifier model.Notifier
	recorder SessionRecorder
	logger   *logger.Logger

	mu      sync.RWMutex
	state   model.Session
	checked bool
	subs    map[int]chan model.Session
	nextSub int
}

// NewSessionController creates a controller in the loading state.
// notifier and recorder may be nil.
func NewSessionController(
	store model.CredentialStore,
	verifier model.TokenVerifier,
	reporter model.ErrorReporter,
	notifier model.Notifier,
	recorder SessionRecorder,
	logger *logger.Logger,
) *SessionController {
	return &SessionController{
		store:    store,
		verifier: verifier,
		reporter: reporter,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
		state:    model.Session{IsLoading: true},
		subs:     make(map[int]chan model.Session),
	}
}

// State returns a snapshot of the current session.
func (c *SessionController) State() model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Subscribe returns a channel receiving a snapshot after every transition,
// starting with the current one. Slow readers only see the latest snapshot.
func (c *SessionController) Subscribe() (<-chan model.Session, func()) {
	ch := make(chan model.Session, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.Clone()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

// CheckAuthStatus restores the session from stored credentials. It runs once
// per controller; later calls return the current state untouched.
func (c *SessionController) CheckAuthStatus(ctx context.Context) model.Session {
	c.mu.Lock()
	if c.checked {
		s := c.state.Clone()
		c.mu.Unlock()
		return s
	}
	c.checked = true
	c.mu.Unlock()

	c.logger.Debug("Session controller: checking stored credentials")

	user, outcome := c.restore(ctx)
	if c.recorder != nil {
		c.recorder.Startup(outcome)
	}

	c.logger.Info("Session controller: auth check finished",
		"outcome", outcome)

	return c.transition(user, true)
}

func (c *SessionController) restore(ctx context.Context) (model.User, string) {
	token, hasToken, err := c.store.Get(ctx, model.KeyAuthToken)
	if err != nil {
		c.reporter.Report(fmt.Errorf("failed to read auth token: %w", err), model.TagCheckAuthStatus)
		return nil, StartupFailed
	}
	userData, hasUser, err := c.store.Get(ctx, model.KeyUserData)
	if err != nil {
		c.reporter.Report(fmt.Errorf("failed to read user data: %w", err), model.TagCheckAuthStatus)
		return nil, StartupFailed
	}
	if !hasToken || !hasUser || token == "" || userData == "" {
		return nil, StartupNoCredentials
	}

	valid, err := c.verifier.Verify(ctx, token)
	if err != nil {
		c.reporter.Report(fmt.Errorf("failed to verify auth token: %w", err), model.TagCheckAuthStatus)
		return nil, StartupFailed
	}
	if !valid {
		c.logger.Info("Session controller: stored token rejected, clearing credentials")
		if err := c.store.RemoveAll(ctx, model.KeyAuthToken, model.KeyUserData); err != nil {
			c.reporter.Report(fmt.Errorf("failed to clear rejected credentials: %w", err), model.TagCheckAuthStatus)
		}
		return nil, StartupRejected
	}

	user, err := codec.DecodeUser(userData)
	if err != nil {
		c.reporter.Report(fmt.Errorf("failed to decode stored user: %w", err), model.TagCheckAuthStatus)
		return nil, StartupFailed
	}
	return user, StartupVerified
}

// Login persists the credential pair and marks the session authenticated.
// On failure the session is left as it was and a *NoticeError is returned.
func (c *SessionController) Login(ctx context.Context, user model.User, token string) error {
	if token == "" {
		return c.loginFailed(model.ErrEmptyToken)
	}

	userData, err := codec.EncodeUser(user)
	if err != nil {
		return c.loginFailed(fmt.Errorf("failed to encode user: %w", err))
	}

	if err := c.store.Set(ctx, model.KeyAuthToken, token); err != nil {
		return c.loginFailed(fmt.Errorf("failed to store auth token: %w", err))
	}
	if err := c.store.Set(ctx, model.KeyUserData, userData); err != nil {
		return c.loginFailed(fmt.Errorf("failed to store user data: %w", err))
	}

	c.transition(user.Clone(), false)

	c.logger.Info("Session controller: user logged in",
		"user_id", user.ID())

	return nil
}

func (c *SessionController) loginFailed(err error) error {
	c.logger.Error("Session controller: login failed",
		"error", err.Error())
	c.reporter.Report(err, model.TagLogin)
	if c.notifier != nil {
		c.notifier.Notify(LoginFailedMessage)
	}
	return &NoticeError{Message: LoginFailedMessage, Err: err}
}

// Logout removes both stored keys and clears the session. If removal fails
// the session is left unchanged.
func (c *SessionController) Logout(ctx context.Context) error {
	if err := c.store.RemoveAll(ctx, model.KeyAuthToken, model.KeyUserData); err != nil {
		err = fmt.Errorf("failed to remove credentials: %w", err)
		c.logger.Error("Session controller: logout failed",
			"error", err.Error())
		c.reporter.Report(err, model.TagLogout)
		return err
	}

	c.transition(nil, false)

	c.logger.Info("Session controller: user logged out")

	return nil
}

// transition installs the new session and publishes it to subscribers.
// A nil user means unauthenticated.
func (c *SessionController) transition(user model.User, finishLoading bool) model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.User = user
	c.state.IsAuthenticated = user != nil
	if finishLoading {
		c.state.IsLoading = false
	}

	if c.recorder != nil {
		if user != nil {
			c.recorder.Transition(StateAuthenticated)
		} else {
			c.recorder.Transition(StateUnauthenticated)
		}
	}

	snapshot := c.state.Clone()
	for _, ch := range c.subs {
		select {
		case ch <- snapshot.Clone():
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot.Clone()
		}
	}
	return snapshot
}
