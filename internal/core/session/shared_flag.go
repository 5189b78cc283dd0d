package session

import "sync/atomic"

// SharedFlag is the cross-cutting "globally logged" indicator other
// subsystems watch. Logout resets it through the ports.LoggedFlag interface.
type SharedFlag struct {
	logged atomic.Bool
}

func NewSharedFlag() *SharedFlag {
	return &SharedFlag{}
}

func (f *SharedFlag) SetLogged(logged bool) {
	f.logged.Store(logged)
}

func (f *SharedFlag) Logged() bool {
	return f.logged.Load()
}
