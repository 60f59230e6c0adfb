package protocol

import (
	"github.com/f3rmion/thresh/participants"
)

// Kind identifies what an Action asks the driver to do.
type Kind int

const (
	// Wait means the protocol cannot progress until it receives a message.
	Wait Kind = iota
	// SendMany delivers Data to every other participant.
	SendMany
	// SendPrivate delivers Data to To only.
	SendPrivate
	// Return ends the protocol with Output.
	Return
)

// String returns the name of k.
func (k Kind) String() string {
	switch k {
	case Wait:
		return "wait"
	case SendMany:
		return "send_many"
	case SendPrivate:
		return "send_private"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// Action is the result of poking a protocol.
type Action[T any] struct {
	Kind   Kind
	To     participants.Participant // SendPrivate only
	Data   []byte                   // SendMany and SendPrivate
	Output T                        // Return only
}

// Protocol is a single party's view of a running protocol.
type Protocol[T any] interface {
	// Poke advances the protocol and returns the next action.
	Poke() (Action[T], error)
	// Message delivers data sent by from.
	Message(from participants.Participant, data []byte)
}

// Close releases resources held by p if it is abandoned before finishing.
// Protocols that hold none are left alone.
func Close[T any](p Protocol[T]) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}
