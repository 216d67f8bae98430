package model

// Session is the in-memory view of the current sign-in.
type Session struct {
	IsAuthenticated bool
	User            User
	IsLoading       bool
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	s.User = s.User.Clone()
	return s
}

// Context tags identify the operation an error was reported from.
const (
	TagCheckAuthStatus = "checkAuthStatus"
	TagLogin           = "handleLogin"
	TagLogout          = "handleLogout"
)

// ErrorReporter is a fire-and-forget diagnostic sink.
// Report must not block the caller and must not panic.
type ErrorReporter interface {
	Report(err error, tag string)
}

// Notifier surfaces user-visible failure notices.
type Notifier interface {
	Notify(message string)
}
