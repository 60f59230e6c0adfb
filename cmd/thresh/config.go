package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/f3rmion/thresh/bjj"
	"github.com/f3rmion/thresh/ed25519"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/secp256k1"
)

// Config describes a simulated key generation, optionally followed by a
// reshare to a new set.
type Config struct {
	Curve        string         `toml:"curve"`
	Participants []uint32       `toml:"participants"`
	Threshold    int            `toml:"threshold"`
	Seed         string         `toml:"seed"`
	Reshare      *ReshareConfig `toml:"reshare"`
}

// ReshareConfig is the target set and threshold of a reshare.
type ReshareConfig struct {
	Participants []uint32 `toml:"participants"`
	Threshold    int      `toml:"threshold"`
}

// LoadConfig reads and validates the TOML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a TOML document. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSet(ps []uint32, threshold int) error {
	if len(ps) < 2 {
		return protocol.BadParameters("participant count cannot be < 2, found: %d", len(ps))
	}
	if threshold < 1 {
		return protocol.BadParameters("threshold must be at least 1, found: %d", threshold)
	}
	if threshold > len(ps) {
		return protocol.BadParameters("threshold must be <= participant count")
	}
	if _, ok := participants.New(toParticipants(ps)); !ok {
		return protocol.BadParameters("participant list cannot contain duplicates")
	}
	return nil
}

// Validate checks the configuration with the same rules the protocols
// apply, so a bad file fails before anything runs.
func (c *Config) Validate() error {
	if _, err := groupByName(c.Curve); err != nil {
		return err
	}
	if err := validateSet(c.Participants, c.Threshold); err != nil {
		return err
	}
	if _, err := c.SeedBytes(); err != nil {
		return err
	}
	if c.Reshare == nil {
		return nil
	}
	if err := validateSet(c.Reshare.Participants, c.Reshare.Threshold); err != nil {
		return errors.Wrap(err, "reshare")
	}
	kept := 0
	for _, p := range c.Reshare.Participants {
		if slices.Contains(c.Participants, p) {
			kept++
		}
	}
	if kept < c.Threshold {
		return protocol.BadParameters("reshare keeps %d old participants, need at least %d", kept, c.Threshold)
	}
	return nil
}

// SeedBytes decodes the hex seed. An empty seed means fresh randomness.
func (c *Config) SeedBytes() ([]byte, error) {
	if c.Seed == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.Seed)
	if err != nil {
		return nil, protocol.BadParameters("seed is not hex: %v", err)
	}
	return b, nil
}

func groupByName(name string) (group.Group, error) {
	switch name {
	case "bjj":
		return &bjj.BJJ{}, nil
	case "secp256k1":
		return secp256k1.New(), nil
	case "ed25519":
		return ed25519.New(), nil
	default:
		return nil, protocol.BadParameters("unknown curve %q", name)
	}
}

func toParticipants(ids []uint32) []participants.Participant {
	out := make([]participants.Participant, len(ids))
	for i, id := range ids {
		out[i] = participants.Participant(id)
	}
	return out
}
