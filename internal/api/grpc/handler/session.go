package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/krishisakhi/sakhi-session/internal/logger"
	"github.com/krishisakhi/sakhi-session/internal/model"
	"github.com/krishisakhi/sakhi-session/internal/navigation"
)

// SessionController defines the session operations exposed to the UI shell.
type SessionController interface {
	State() model.Session
	Login(ctx context.Context, user model.User, token string) error
	Logout(ctx context.Context) error
	Subscribe() (<-chan model.Session, func())
}

var _ SessionServer = (*Session)(nil)

// Session handles gRPC endpoints of the session service.
type Session struct {
	controller SessionController
	logger     *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(controller SessionController, logger *logger.Logger) *Session {
	return &Session{controller: controller, logger: logger}
}

// State returns the current session and the shell to render.
func (h *Session) State(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return h.stateResponse(h.controller.State())
}

// Login stores the credentials sent by the login flow. The user object is
// stored as sent.
func (h *Session) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	userValue := req.GetFields()["user"].GetStructValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}
	if userValue == nil {
		return nil, status.Error(codes.InvalidArgument, "user must be an object")
	}

	user := model.User(userValue.AsMap())
	if err := h.controller.Login(ctx, user, token); err != nil {
		h.logger.Error("Session handler: login failed",
			"user_id", user.ID(),
			"error", err.Error())
		return nil, handleError(err)
	}

	return h.stateResponse(h.controller.State())
}

// Logout clears the stored credentials.
func (h *Session) Logout(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := h.controller.Logout(ctx); err != nil {
		h.logger.Error("Session handler: logout failed",
			"error", err.Error())
		return nil, handleError(err)
	}
	return h.stateResponse(h.controller.State())
}

// Allowed reports whether the shell may open the route in the current
// session.
func (h *Session) Allowed(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	route := req.GetValue()
	if route == "" {
		return nil, status.Error(codes.InvalidArgument, "route is required")
	}
	return wrapperspb.Bool(navigation.Allowed(h.controller.State(), navigation.Route(route))), nil
}

// Watch streams the session after every transition until the client leaves.
func (h *Session) Watch(_ *emptypb.Empty, stream grpc.ServerStream) error {
	updates, unsubscribe := h.controller.Subscribe()
	defer unsubscribe()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			resp, err := h.stateResponse(s)
			if err != nil {
				return err
			}
			if err := stream.SendMsg(resp); err != nil {
				return err
			}
		}
	}
}

func (h *Session) stateResponse(s model.Session) (*structpb.Struct, error) {
	resp, err := stateToStruct(s)
	if err != nil {
		h.logger.Error("Session handler: failed to encode state",
			"error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return resp, nil
}

func stateToStruct(s model.Session) (*structpb.Struct, error) {
	shell := navigation.Resolve(s)
	routes := navigation.Routes(shell)
	routeNames := make([]any, len(routes))
	for i, r := range routes {
		routeNames[i] = string(r)
	}

	fields := map[string]any{
		"isAuthenticated": s.IsAuthenticated,
		"isLoading":       s.IsLoading,
		"shell":           string(shell),
		"initialRoute":    string(navigation.InitialRoute(shell)),
		"routes":          routeNames,
	}
	if s.User != nil {
		u, err := userToMap(s.User)
		if err != nil {
			return nil, err
		}
		fields["user"] = u
	}
	return structpb.NewStruct(fields)
}

// userToMap converts the record to plain JSON values accepted by structpb.
func userToMap(u model.User) (map[string]any, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return m, nil
}
