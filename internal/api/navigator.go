package api

import (
	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/core/ports"
)

// logNavigator satisfies ports.Navigator on the server side. The actual
// navigation belongs to the client router; here a denied navigation or a
// logout only records where the client is being sent.
type logNavigator struct {
	log zerolog.Logger
}

// NewLogNavigator returns a Navigator that logs redirects instead of
// performing them.
func NewLogNavigator(log zerolog.Logger) ports.Navigator {
	return logNavigator{log: log}
}

func (n logNavigator) NavigateTo(route string) {
	n.log.Info().Str("route", route).Msg("redirecting client")
}
