// Package protocol is the cooperative, message-driven substrate every
// multi-party protocol in this module runs on.
//
// # Contract
//
// A running protocol is a Protocol[T]. Its driver alternates between two
// calls:
//
//   - Poke advances the protocol as far as it can without new input and
//     returns the next Action: Wait, SendMany, SendPrivate or Return.
//   - Message hands it a message received from another participant.
//
// Poke never blocks. A Wait means the protocol needs more messages; poking
// again without delivering any returns Wait again and has no other effect.
// After Return or an error the protocol is finished and further Pokes
// repeat the terminal result.
//
// # Writing protocols
//
// Protocol bodies are ordinary sequential functions over a *Comms mailbox:
//
//	func body(c *protocol.Comms) (int, error) {
//	    c.SendMany(0, []byte("hello"))
//	    for range others {
//	        from, msg, err := c.Recv(0)
//	        ...
//	    }
//	    return 42, nil
//	}
//
// New wraps a body into a Protocol. The body only suspends inside Recv
// when the round it asks for has no queued messages; every send becomes
// one Action returned from Poke.
//
// # Drivers
//
// Run is a local simulator that pokes every party until all return.
// Multiplexer steps one party at a time, and RunRoundRobin uses it to
// drive all parties in turn. Package transport runs each party on its own
// goroutine over an in-memory network.
package protocol
