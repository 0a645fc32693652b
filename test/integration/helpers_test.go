//go:build integration

// Package integration exercises the userctl binary surface end to end
// against the ECE simulator: real HTTP, real flag parsing, real output
// streams. Run with: go test -tags integration ./test/integration/
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"userctl/internal/ecesim"
	"userctl/pkg/cli"
)

// simAPIKey is accepted by every simulator in this package, credentialed
// or not.
const simAPIKey = "integration-test-key"

// ---------------------------------------------------------------------------
// Simulator setup
// ---------------------------------------------------------------------------

type simOpts struct {
	// Seed overrides the demo dataset.
	Seed *ecesim.Seed
	// Auth makes the simulator require credentials.
	Auth ecesim.Config
}

type testEnv struct {
	Server *httptest.Server
	Store  *ecesim.Store
}

// setupSimServer starts an in-process ECE simulator and registers its
// shutdown with the test.
func setupSimServer(t *testing.T, opts simOpts) *testEnv {
	t.Helper()

	seed := ecesim.DemoSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	store := ecesim.NewStore(seed)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(ecesim.NewHandler(store, opts.Auth, logger))
	t.Cleanup(srv.Close)

	return &testEnv{Server: srv, Store: store}
}

// cliArgs prefixes the flags every invocation needs: the simulator address
// and a credential, so credential prompting never triggers.
func cliArgs(env *testEnv, rest ...string) []string {
	return append([]string{"--host", env.Server.URL, "--api-key", simAPIKey}, rest...)
}

// ---------------------------------------------------------------------------
// CLI runner
// ---------------------------------------------------------------------------

type cliResult struct {
	Stdout string
	Stderr string
	Code   int
}

// runCLI executes the root command the way a shell would: os.Args carries
// the flags, stdin is a pipe fed with the given input, and stdout/stderr
// are captured separately. Profile and environment configuration are
// isolated first so only the passed flags steer the run.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	isolateEnv(t)

	oldArgs, oldStdin, oldStdout, oldStderr := os.Args, os.Stdin, os.Stdout, os.Stderr
	defer func() {
		os.Args, os.Stdin, os.Stdout, os.Stderr = oldArgs, oldStdin, oldStdout, oldStderr
	}()

	os.Args = append([]string{"userctl"}, args...)

	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	_, err = inW.WriteString(stdin)
	require.NoError(t, err)
	require.NoError(t, inW.Close())
	os.Stdin = inR

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = outW
	os.Stderr = errW

	var outBuf, errBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = outBuf.ReadFrom(outR)
	}()
	go func() {
		defer wg.Done()
		_, _ = errBuf.ReadFrom(errR)
	}()

	code := cli.Execute()

	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())
	wg.Wait()

	return cliResult{Stdout: outBuf.String(), Stderr: errBuf.String(), Code: code}
}

// isolateEnv points HOME at an empty directory and blanks the ECE_*
// variables so neither a real profile nor the caller's environment leaks
// into a run.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"ECE_HOST", "ECE_USERNAME", "ECE_PASSWORD", "ECE_API_KEY", "ECE_OUTPUT"} {
		t.Setenv(key, "")
	}
}

// ---------------------------------------------------------------------------
// Assertions
// ---------------------------------------------------------------------------

func parseJSON(t *testing.T, data string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(data), v), "invalid JSON: %s", data)
}
