package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordEphemerisCall("mean", 0.1, nil)
	m.RecordSearch("found", 10)
	m.RecordEngineResult("ok", "PEAK")
	m.RecordChart(nil)
	m.RecordDBQuery("postgres", "get", 0.01, nil)
	m.RecordSamplesStored(3)
}

func TestMetrics_RecordEphemerisCall(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordEphemerisCall("rpc", 0.2, nil)
	m.RecordEphemerisCall("rpc", 0.3, errors.New("timeout"))
	m.RecordEphemerisCall("rpc", 0.1, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EphemerisCalls.WithLabelValues("rpc", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EphemerisCalls.WithLabelValues("rpc", "error")))
}

func TestMetrics_RecordChart(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordChart(nil)
	m.RecordChart(nil)
	m.RecordChart(errors.New("ephemeris down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChartsAssembled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BodiesFailed))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("", reg)
	m.RecordSearch("found", 120)

	path := filepath.Join(t.TempDir(), "jyotish.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "jyotish_lab_search_outcomes_total"))
}
