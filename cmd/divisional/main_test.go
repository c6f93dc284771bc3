package main

import (
	"bytes"
	"encoding/json"
	"strings"
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

func TestDivisional_AllDivisions(t *testing.T) {
	code, out := run(t, "2000", "1", "1", "12", "0")
	require.Equal(t, 0, code)

	var doc struct {
		ChartID string                    `json:"chart_id"`
		Status  string                    `json:"status"`
		Bodies  map[string]map[string]any `json:"bodies"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "ok", doc.Status)
	assert.NotEmpty(t, doc.ChartID)
	require.Contains(t, doc.Bodies, "MOON")
	for _, key := range []string{"sign_number", "degree", "sign_name", "d2", "d9", "d30"} {
		assert.Contains(t, doc.Bodies["MOON"], key)
	}
}

func TestDivisional_SingleDivisionCSV(t *testing.T) {
	code, out := run(t, "2000", "1", "1", "12", "0", "--division", "9", "--format", "csv", "--bodies", "sun,moon")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "body,sign_number,sign_name,degree,d9,d9_part,error", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "MOON,"))
	assert.True(t, strings.HasPrefix(lines[2], "SUN,"))
}

func TestDivisional_UnsupportedDivision(t *testing.T) {
	code, out := run(t, "2000", "1", "1", "12", "0", "--division", "11")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "invalid_division")
}

func TestDivisional_UnknownBody(t *testing.T) {
	code, out := run(t, "2000", "1", "1", "12", "0", "--bodies", "pluto")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")
}

func TestDivisional_InputCheckedBeforeStoreOpens(t *testing.T) {
	t.Setenv("JYOTISH_POSTGRES_DSN", "postgres://127.0.0.1:1/jyotish?sslmode=disable&connect_timeout=1")

	code, out := run(t, "2000", "1", "x", "12", "0", "--cache", "postgres")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")

	code, out = run(t, "2000", "1", "1", "12", "0", "--cache", "postgres", "--bodies", "pluto")
	assert.Equal(t, 1, code)
	assert.Contains(t, string(out), "input_validation")
}
