package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func publicKeys(out string) []string {
	var keys []string
	for _, line := range strings.Split(out, "\n") {
		if k, ok := strings.CutPrefix(strings.TrimSpace(line), "public key: "); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestSimulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	for _, scheduler := range []string{"local", "roundrobin", "concurrent"} {
		t.Run(scheduler, func(t *testing.T) {
			out, err := execute(t, "simulate", "--config", path, "--scheduler", scheduler, "--log-level", "warn")
			require.NoError(t, err)
			require.Contains(t, out, "keygen: 3 participants")
			require.Contains(t, out, "reshare: 3 participants")
			require.Contains(t, out, "participant 3:")

			keys := publicKeys(out)
			require.Len(t, keys, 2)
			require.Equal(t, keys[0], keys[1])
		})
	}
}

func TestSimulateSeededIsReproducible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	first, err := execute(t, "simulate", "--config", path)
	require.NoError(t, err)
	second, err := execute(t, "simulate", "--config", path)
	require.NoError(t, err)
	require.Equal(t, publicKeys(first), publicKeys(second))
}

func TestSimulateUnknownScheduler(t *testing.T) {
	_, err := execute(t, "simulate", "--config", "unused.toml", "--scheduler", "random")
	require.Error(t, err)
}

func TestCOT(t *testing.T) {
	out, err := execute(t, "cot", "--batch", "40", "--width", "64", "--seed", "abcd")
	require.NoError(t, err)
	require.Contains(t, out, "40 rows of 64 bits, correlation holds")

	_, err = execute(t, "cot", "--batch", "0")
	require.Error(t, err)
}
