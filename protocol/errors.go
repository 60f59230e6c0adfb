package protocol

import (
	"errors"
	"fmt"

	"github.com/f3rmion/thresh/participants"
)

var (
	// ErrBadParameters is the kind of every InitializationError.
	ErrBadParameters = errors.New("bad parameters")

	// ErrAssertionFailed is the kind of every ProtocolError.
	ErrAssertionFailed = errors.New("assertion failed")

	// ErrStalled is returned by drivers when every unfinished party is
	// waiting and no message is in flight.
	ErrStalled = errors.New("protocol stalled")

	// ErrUnknownParticipant is returned by drivers when a protocol
	// addresses a party that is not part of the run.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrClosed is returned from Comms.Recv once the protocol has been
	// closed by its driver.
	ErrClosed = errors.New("protocol closed")
)

// InitializationError reports parameters a protocol cannot start with.
type InitializationError struct {
	Reason string
}

func (e *InitializationError) Error() string {
	return "bad parameters: " + e.Reason
}

// Unwrap returns ErrBadParameters.
func (e *InitializationError) Unwrap() error {
	return ErrBadParameters
}

// BadParameters returns an InitializationError with a formatted reason.
func BadParameters(format string, args ...any) error {
	return &InitializationError{Reason: fmt.Sprintf(format, args...)}
}

// ProtocolError reports an inconsistency detected while running. From
// names the party whose message exposed it, when there is one.
type ProtocolError struct {
	Reason string
	From   *participants.Participant
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := "assertion failed: " + e.Reason
	if e.From != nil {
		msg = fmt.Sprintf("%s (from participant %d)", msg, *e.From)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrAssertionFailed and the underlying cause, if any.
func (e *ProtocolError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrAssertionFailed, e.Err}
	}
	return []error{ErrAssertionFailed}
}

// AssertionFailed returns a ProtocolError blaming from.
func AssertionFailed(from participants.Participant, format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...), From: &from}
}

// Failed returns a ProtocolError that blames no single party.
func Failed(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// Malformed returns a ProtocolError for a message from that could not be
// decoded.
func Malformed(from participants.Participant, what string, err error) error {
	return &ProtocolError{Reason: "malformed " + what, From: &from, Err: err}
}
