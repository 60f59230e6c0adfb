package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/transport"
)

const (
	schedulerLocal      = "local"
	schedulerRoundRobin = "roundrobin"
	schedulerConcurrent = "concurrent"
)

func checkScheduler(name string) error {
	switch name {
	case schedulerLocal, schedulerRoundRobin, schedulerConcurrent:
		return nil
	default:
		return protocol.BadParameters("unknown scheduler %q", name)
	}
}

// schedule runs entries to completion with the named scheduler.
func schedule[T any](ctx context.Context, name string, entries []protocol.Entry[T], log zerolog.Logger) ([]protocol.Result[T], error) {
	switch name {
	case schedulerLocal:
		return protocol.Run(entries, protocol.WithLogger(log))
	case schedulerRoundRobin:
		return protocol.RunRoundRobin(entries, protocol.WithLogger(log))
	case schedulerConcurrent:
		return transport.RunConcurrent(ctx, entries, transport.WithLogger(log))
	default:
		return nil, checkScheduler(name)
	}
}
