package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/dkg"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/polynomial"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/session"
)

func newSimulateCmd(logger func(*cobra.Command) (zerolog.Logger, error)) *cobra.Command {
	var (
		configPath string
		scheduler  string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run key generation, and optionally a reshare, from a TOML config",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger(cmd)
			if err != nil {
				return err
			}
			if err := checkScheduler(scheduler); err != nil {
				return err
			}
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			return simulate(cmd.Context(), cfg, scheduler, log, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "sim.toml", "path to the simulation config")
	cmd.Flags().StringVar(&scheduler, "scheduler", schedulerLocal, "scheduler: local, roundrobin or concurrent")
	return cmd
}

// simulation holds the parties of one simulate invocation.
type simulation struct {
	g         group.Group
	seed      []byte
	scheduler string
	log       zerolog.Logger
	sessions  map[participants.Participant]*session.Participant
}

func (s *simulation) party(p participants.Participant) *session.Participant {
	if sp, ok := s.sessions[p]; ok {
		return sp
	}
	var rng io.Reader = rand.Reader
	if s.seed != nil {
		rng = csprng.New(s.seed, p.Bytes())
	}
	sp := session.New(s.g, p, session.WithRand(rng), session.WithLogger(s.log))
	s.sessions[p] = sp
	return sp
}

// execute schedules runs and stores each party's output.
func (s *simulation) execute(ctx context.Context, runs map[participants.Participant]*session.Run, order []participants.Participant) ([]protocol.Result[*dkg.KeygenOutput], error) {
	entries := make([]protocol.Entry[*dkg.KeygenOutput], len(order))
	for i, p := range order {
		entries[i] = protocol.Entry[*dkg.KeygenOutput]{Participant: p, Protocol: runs[p].Keyshare}
	}
	results, err := schedule(ctx, s.scheduler, entries, s.log)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if err := s.sessions[r.Participant].Complete(runs[r.Participant], r.Output); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func simulate(ctx context.Context, cfg *Config, scheduler string, log zerolog.Logger, w io.Writer) error {
	g, err := groupByName(cfg.Curve)
	if err != nil {
		return err
	}
	seed, err := cfg.SeedBytes()
	if err != nil {
		return err
	}
	s := &simulation{
		g:         g,
		seed:      seed,
		scheduler: scheduler,
		log:       log,
		sessions:  make(map[participants.Participant]*session.Participant),
	}

	ps := toParticipants(cfg.Participants)
	runs := make(map[participants.Participant]*session.Run, len(ps))
	for _, p := range ps {
		run, err := s.party(p).Keygen(ps, cfg.Threshold)
		if err != nil {
			return err
		}
		runs[p] = run
	}
	results, err := s.execute(ctx, runs, ps)
	if err != nil {
		return errors.Wrap(err, "keygen")
	}
	if err := report(w, g, "keygen", results); err != nil {
		return err
	}
	if cfg.Reshare == nil {
		return nil
	}

	pk := results[0].Output.PublicKey
	newPs := toParticipants(cfg.Reshare.Participants)
	runs = make(map[participants.Participant]*session.Run, len(newPs))
	for _, p := range newPs {
		var run *session.Run
		if _, held := s.sessions[p]; held {
			run, err = s.sessions[p].Reshare(newPs, cfg.Reshare.Threshold)
		} else {
			run, err = s.party(p).Join(ps, cfg.Threshold, pk, newPs, cfg.Reshare.Threshold)
		}
		if err != nil {
			return err
		}
		runs[p] = run
	}
	results, err = s.execute(ctx, runs, newPs)
	if err != nil {
		return errors.Wrap(err, "reshare")
	}
	return report(w, g, "reshare", results)
}

// report prints the public key and every public share, after checking
// that the shares interpolate to the key.
func report(w io.Writer, g group.Group, stage string, results []protocol.Result[*dkg.KeygenOutput]) error {
	ps := make([]participants.Participant, len(results))
	shares := make([]group.Scalar, len(results))
	for i, r := range results {
		ps[i] = r.Participant
		shares[i] = r.Output.PrivateShare
	}
	list, _ := participants.New(ps)
	secret, err := polynomial.Interpolate(g, list, shares)
	if err != nil {
		return err
	}
	pk := results[0].Output.PublicKey
	if !g.NewPoint().ScalarMult(secret, g.Generator()).Equal(pk) {
		return protocol.Failed("%s shares do not interpolate to the public key", stage)
	}

	fmt.Fprintf(w, "%s: %d participants\n", stage, len(results))
	fmt.Fprintf(w, "  public key: %s\n", hex.EncodeToString(pk.Bytes()))
	for _, r := range results {
		fmt.Fprintf(w, "  participant %d: %s\n", r.Participant, hex.EncodeToString(r.Output.PublicShare(g).Bytes()))
	}
	return nil
}
