// Package store holds the client-side state of the lines collection and the
// user session. State changes only through pure transitions applied to a
// Store; each remote command contributes one transition per phase.
package store

// Outcome is the phase of a command as seen by its transition: Submitted,
// Resolved or Rejected. The set is closed; transitions switch over it.
type Outcome[T any] interface {
	outcome() T
}

// Submitted marks a command that has been sent and not yet answered.
type Submitted[T any] struct{}

// Resolved carries the value of a successful command.
type Resolved[T any] struct {
	Value T
}

// Rejected carries the failure of a command. Transitions never inspect Err
// beyond its presence.
type Rejected[T any] struct {
	Err error
}

func (Submitted[T]) outcome() (zero T) { return zero }
func (r Resolved[T]) outcome() T       { return r.Value }
func (Rejected[T]) outcome() (zero T)  { return zero }

// Status is the ephemeral record of a store's in-flight and last outcome.
type Status struct {
	// Loading is true while a command is in flight.
	Loading bool
	// Message is the last user-facing outcome message, empty if none.
	Message string
}
