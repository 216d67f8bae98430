// Package navigation decides which navigation shell the client renders for a
// given session and which routes are reachable from it.
package navigation

import "github.com/krishisakhi/sakhi-session/internal/model"

// Shell is the top-level navigation tree.
type Shell string

const (
	// ShellSplash is shown while the startup auth check runs.
	ShellSplash Shell = "splash"
	// ShellAuth holds the login flow.
	ShellAuth Shell = "auth"
	// ShellApp holds the tab/drawer app for signed-in users.
	ShellApp Shell = "app"
)

// Route names a screen.
type Route string

const (
	RouteLogin    Route = "Login"
	RouteRegister Route = "Register"
	RouteOTP      Route = "OTP"

	RouteHome      Route = "Home"
	RouteDiagnosis Route = "Diagnosis"
	RouteCommunity Route = "Community"
	RouteChat      Route = "Chat"
	RouteCalendar  Route = "Calendar"
	RouteWeather   Route = "Weather"
	RouteSchemes   Route = "Schemes"
	RouteKnowledge Route = "Knowledge"
	RouteProfile   Route = "Profile"
	RouteSettings  Route = "Settings"
)

var shellRoutes = map[Shell][]Route{
	ShellAuth: {RouteLogin, RouteRegister, RouteOTP},
	ShellApp: {
		RouteHome, RouteDiagnosis, RouteCommunity, RouteChat, RouteCalendar,
		RouteWeather, RouteSchemes, RouteKnowledge, RouteProfile, RouteSettings,
	},
}

// Resolve returns the shell to render for s.
func Resolve(s model.Session) Shell {
	switch {
	case s.IsLoading:
		return ShellSplash
	case s.IsAuthenticated && s.User != nil:
		return ShellApp
	default:
		return ShellAuth
	}
}

// Routes lists the routes of a shell in display order.
func Routes(shell Shell) []Route {
	return append([]Route(nil), shellRoutes[shell]...)
}

// InitialRoute is the first screen of the shell, empty for the splash.
func InitialRoute(shell Shell) Route {
	routes := shellRoutes[shell]
	if len(routes) == 0 {
		return ""
	}
	return routes[0]
}

// Allowed reports whether route is reachable for session s.
func Allowed(s model.Session, route Route) bool {
	for _, r := range shellRoutes[Resolve(s)] {
		if r == route {
			return true
		}
	}
	return false
}
