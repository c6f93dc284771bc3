package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jyotish-lab/internal/app"
)

func run(t *testing.T, args ...string) (int, []byte) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	return app.Run(cmd), out.Bytes()
}

func TestIngest_MemoryStore(t *testing.T) {
	code, out := run(t, "--from", "2020-01-01", "--to", "2020-01-03", "--bodies", "saturn", "--cache", "memory")
	require.Equal(t, 0, code)

	var doc summary
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "mean", doc.Provider)
	assert.Equal(t, 3, doc.Stored)
	assert.Zero(t, doc.Errors)
}

func TestIngest_RequiresStore(t *testing.T) {
	code, out := run(t, "--from", "2020-01-01", "--to", "2020-01-03")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), `"error"`)
}

func TestIngest_InputCheckedBeforeStoreOpens(t *testing.T) {
	t.Setenv("JYOTISH_POSTGRES_DSN", "postgres://127.0.0.1:1/jyotish?sslmode=disable&connect_timeout=1")

	code, out := run(t, "--from", "2020-13-01", "--to", "2020-01-03", "--cache", "postgres")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")

	code, out = run(t, "--from", "2020-01-01", "--to", "2020-01-03", "--cache", "postgres", "--bodies", "pluto")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")
}
