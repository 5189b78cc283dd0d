package ports

// Navigator performs client-side redirects on behalf of the session core.
// The router owns the actual navigation; the core only names the route.
type Navigator interface {
	NavigateTo(route string)
}

// LoggedFlag mirrors the cross-cutting "globally logged" indicator other
// subsystems watch. Logout resets it alongside the session state.
type LoggedFlag interface {
	SetLogged(logged bool)
}
