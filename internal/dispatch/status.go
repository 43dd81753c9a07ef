// Package dispatch sends one notification per recipient, strictly one after
// the other, and tracks each recipient through a small state machine.
package dispatch

type Status string

const (
	StatusPending   Status = "pending"
	StatusSending   Status = "sending"
	StatusSucceeded Status = "success"
	StatusFailed    Status = "error"
)

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransition reports whether s -> to is legal. The empty status is the
// state of a recipient not yet enqueued.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case "":
		return to == StatusPending
	case StatusPending:
		return to == StatusSending
	case StatusSending:
		return to.Terminal()
	default:
		return false
	}
}
