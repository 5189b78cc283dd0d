// Package guard decides whether a navigation target may be activated for the
// current session. Routes fall into five categories; each category pairs a
// prefix table with an access condition evaluated against a single snapshot
// of the session flags.
package guard

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/api/metrics"
	"github.com/filmstore/rental-system/internal/core/domain"
	"github.com/filmstore/rental-system/internal/core/ports"
)

// Mode selects what happens when a path matches a category whose condition
// fails. The historical behavior falls through to the remaining categories
// before the final deny; strict mode denies on the first failed match.
type Mode int

const (
	ModeFallthrough Mode = iota
	ModeStrict
)

// ParseMode maps a configuration string to a Mode, defaulting to
// fall-through for anything unrecognized.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return ModeStrict
	}
	return ModeFallthrough
}

// Category names, used for decision metrics and logs.
const (
	CategoryPublic    = "public"
	CategoryLogged    = "logged"
	CategoryAdmin     = "admin"
	CategoryGuest     = "guest"
	CategoryProfile   = "profile"
	CategoryUnmatched = "unmatched"
)

var publicRoutes = []string{"inicio", "sobre-nosotros", "ofertas", "not-found", "film-detail", "movies"}
var loggedRoutes = []string{"carrito", "tarjeta", "biblioteca", "favourite-list"}
var adminRoutes = []string{"biblioteca/:id", "admin-code", "showUsers", "entregas-pendientes"}
var guestRoutes = []string{"login", "registrarse", "recuperar-contrasena"}
var profileRoutes = []string{"perfil"}

// Session is the snapshot surface the evaluator reads. It never touches the
// stores directly.
type Session interface {
	LoginStatusStream() (<-chan domain.LoginStatus, func())
	IsAdmin() bool
}

// Evaluator is the route access decision function. Deny redirects to the
// landing route and returns false.
type Evaluator struct {
	session Session
	nav     ports.Navigator
	landing string
	mode    Mode
	log     zerolog.Logger
}

func New(session Session, nav ports.Navigator, landing string, mode Mode, log zerolog.Logger) *Evaluator {
	if landing == "" {
		landing = "inicio"
	}
	return &Evaluator{session: session, nav: nav, landing: landing, mode: mode, log: log}
}

// CanActivate evaluates access for the path segment of a requested route.
// The login flag is read once — a single value taken from the stream — so a
// re-emission mid-decision cannot split the snapshot.
func (e *Evaluator) CanActivate(path string) bool {
	allowed, category := e.Decide(path)
	decision := "allow"
	if !allowed {
		decision = "deny"
	}
	metrics.GuardDecisionsTotal.WithLabelValues(category, decision).Inc()
	if !allowed {
		e.log.Debug().Str("path", path).Str("category", category).Msg("navigation denied")
		if e.nav != nil {
			e.nav.NavigateTo(e.landing)
		}
	}
	return allowed
}

// Decide returns the access decision and the category that produced it
// without performing the redirect side effect.
func (e *Evaluator) Decide(path string) (bool, string) {
	statuses, cancel := e.session.LoginStatusStream()
	status := <-statuses
	cancel()
	isAdmin := e.session.IsAdmin()
	loggedIn := status.Active()

	checks := []struct {
		category string
		routes   []string
		allow    bool
	}{
		{CategoryPublic, publicRoutes, true},
		{CategoryLogged, loggedRoutes, loggedIn},
		{CategoryAdmin, adminRoutes, isAdmin},
		{CategoryGuest, guestRoutes, !loggedIn},
		{CategoryProfile, profileRoutes, loggedIn},
	}

	for _, check := range checks {
		if !matchesAny(path, check.routes) {
			continue
		}
		if check.allow {
			return true, check.category
		}
		if e.mode == ModeStrict {
			return false, check.category
		}
		// Fall through to the remaining categories before the final deny.
	}
	return false, CategoryUnmatched
}

// matchesAny reports whether path starts with any of the route patterns,
// with route parameters stripped from the pattern before comparison
// ("biblioteca/:id" matches the concrete path "biblioteca/7").
func matchesAny(path string, routes []string) bool {
	for _, route := range routes {
		if strings.HasPrefix(path, stripParams(route)) {
			return true
		}
	}
	return false
}

// stripParams removes ":param" placeholders from a route pattern, so
// "biblioteca/:id" compares as "biblioteca/".
func stripParams(route string) string {
	for {
		i := strings.IndexByte(route, ':')
		if i < 0 {
			return route
		}
		j := strings.IndexByte(route[i:], '/')
		if j < 0 {
			return route[:i]
		}
		route = route[:i] + route[i+j:]
	}
}
