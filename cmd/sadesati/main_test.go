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

func TestSadeSati_JSON(t *testing.T) {
	code, out := run(t, "1990", "5", "17", "8", "30")
	require.Equal(t, 0, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.NotNil(t, doc["natal_moon_sign"])
	assert.Contains(t, doc, "completion_percentage")
	assert.NotEmpty(t, doc["phase_label"])
	assert.Contains(t, doc, "phase1_start")
	assert.Contains(t, []any{"ok", "partial"}, doc["status"])
}

func TestSadeSati_Markdown(t *testing.T) {
	code, out := run(t, "1990", "5", "17", "8", "30", "--format", "markdown")
	require.Equal(t, 0, code)
	assert.Contains(t, string(out), "#")
}

func TestSadeSati_MalformedInput(t *testing.T) {
	code, out := run(t, "1990", "13", "17", "8", "30")
	assert.Equal(t, 1, code)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "input_validation", doc["kind"])
}

func TestSadeSati_NotAnInteger(t *testing.T) {
	code, out := run(t, "1990", "five", "17", "8", "30")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")
}

func TestSadeSati_UnknownFormat(t *testing.T) {
	code, out := run(t, "1990", "5", "17", "8", "30", "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")
}

func TestSadeSati_InputCheckedBeforeStoreOpens(t *testing.T) {
	t.Setenv("JYOTISH_POSTGRES_DSN", "postgres://127.0.0.1:1/jyotish?sslmode=disable&connect_timeout=1")

	code, out := run(t, "1990", "13", "17", "8", "30", "--cache", "postgres")
	assert.Equal(t, 1, code)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "input_validation", doc["kind"])
}
