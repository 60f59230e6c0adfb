package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/f3rmion/thresh/bits"
	"github.com/f3rmion/thresh/cot"
	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/secp256k1"
	"github.com/f3rmion/thresh/session"
)

const (
	otSender   = 0
	otReceiver = 1
)

func newCOTCmd(logger func(*cobra.Command) (zerolog.Logger, error)) *cobra.Command {
	var (
		batch     int
		width     int
		seed      string
		scheduler string
	)
	cmd := &cobra.Command{
		Use:   "cot",
		Short: "Run a correlated OT extension between two parties and check the correlation",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger(cmd)
			if err != nil {
				return err
			}
			if err := checkScheduler(scheduler); err != nil {
				return err
			}
			var rng io.Reader = rand.Reader
			if seed != "" {
				b, err := hex.DecodeString(seed)
				if err != nil {
					return protocol.BadParameters("seed is not hex: %v", err)
				}
				rng = csprng.New(b)
			}
			return runCOT(cmd.Context(), rng, bits.Width(width), batch, scheduler, log, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 256, "number of correlated rows")
	cmd.Flags().IntVar(&width, "width", int(bits.Kappa), "row width in bits")
	cmd.Flags().StringVar(&seed, "seed", "", "hex seed for reproducible runs")
	cmd.Flags().StringVar(&scheduler, "scheduler", schedulerLocal, "scheduler: local, roundrobin or concurrent")
	return cmd
}

func randomSquare(w bits.Width, rng io.Reader) (bits.SquareBitMatrix, error) {
	m, err := w.RandomMatrix(rng, int(w))
	if err != nil {
		return bits.SquareBitMatrix{}, err
	}
	return w.Square(m)
}

// runCOT stands in for the base OTs with locally sampled keys, then runs
// the extension through two sessions.
func runCOT(ctx context.Context, rng io.Reader, w bits.Width, batch int, scheduler string, log zerolog.Logger, out io.Writer) error {
	if w < 1 {
		return protocol.BadParameters("width must be positive, found: %d", w)
	}
	if batch < 1 {
		return protocol.BadParameters("batch must be positive, found: %d", batch)
	}
	k0, err := randomSquare(w, rng)
	if err != nil {
		return err
	}
	k1, err := randomSquare(w, rng)
	if err != nil {
		return err
	}
	delta, err := w.Random(rng)
	if err != nil {
		return err
	}
	kDelta, err := cot.DeltaKeys(w, delta, k0, k1)
	if err != nil {
		return err
	}
	x, err := w.RandomMatrix(rng, batch)
	if err != nil {
		return err
	}
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return err
	}

	g := secp256k1.New()
	sender := session.New(g, otSender, session.WithLogger(log))
	receiver := session.New(g, otReceiver, session.WithLogger(log))
	sRun, err := sender.CorrelatedOTSender(id, otReceiver, batch, delta, kDelta)
	if err != nil {
		return err
	}
	rRun, err := receiver.CorrelatedOTReceiver(id, otSender, k0, k1, x)
	if err != nil {
		return err
	}

	results, err := schedule(ctx, scheduler, []protocol.Entry[bits.BitMatrix]{
		{Participant: otSender, Protocol: sRun.OT},
		{Participant: otReceiver, Protocol: rRun.OT},
	}, log)
	if err != nil {
		return err
	}
	var q, t bits.BitMatrix
	for _, r := range results {
		if r.Participant == otSender {
			q = r.Output
		} else {
			t = r.Output
		}
	}
	if !cot.Correlated(q, t, x, delta) {
		return protocol.Failed("outputs are not correlated")
	}
	fmt.Fprintf(out, "correlated ot %s: %d rows of %d bits, correlation holds\n", id, batch, w)
	return nil
}
