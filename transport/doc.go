// Package transport connects protocol instances that run on separate
// goroutines.
//
// Transport is the messaging contract a party needs: send bytes to a named
// peer and receive the next message addressed to it from anyone. Network
// is an in-memory implementation for tests, examples and the simulator
// command. Drive runs one party's protocol over a Transport, and
// RunConcurrent runs every party of a protocol on its own goroutine over a
// fresh Network.
//
// Usage:
//
//	net := transport.NewNetwork()
//	ep0 := net.Endpoint(0)
//	ep1 := net.Endpoint(1)
//
//	go func() { out0, err0 = transport.Drive(ctx, 0, list, p0, ep0) }()
//	out1, err1 := transport.Drive(ctx, 1, list, p1, ep1)
//
// The in-memory network has no encryption, authentication or loss and
// is not meant for production. Delivery is reliable and unbounded: Send
// never blocks.
package transport
