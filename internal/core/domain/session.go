package domain

// LoginStatus is the tri-state login flag. Unknown means the session has not
// yet determined whether anyone is logged in (startup, before hydration
// settles); it is distinct from LoggedOut, which is a determined negative.
type LoginStatus int

const (
	LoginUnknown LoginStatus = iota
	LoggedOut
	LoggedIn
)

// Active reports whether the status resolves to a live login. Unknown and
// LoggedOut both count as inactive.
func (s LoginStatus) Active() bool {
	return s == LoggedIn
}

func (s LoginStatus) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case LoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// MutationResult is the envelope every identity mutation resolves to. Remote
// failures are swallowed at the service boundary and reported here; callers
// never see raw transport errors.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
