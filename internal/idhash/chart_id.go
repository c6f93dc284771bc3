// Package idhash computes deterministic identifiers for computation requests.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"jyotish-lab/internal/domain"
)

// ComputeChartID computes a deterministic chart_id using SHA256.
// Formula: SHA256(chart|moment_unix_ms|sorted_bodies)
// Bodies are sorted first, so the order they were requested in does not matter.
// Returns hex-encoded hash (64 characters).
func ComputeChartID(moment time.Time, bodies []domain.Body) string {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = string(b)
	}
	slices.Sort(names)

	data := fmt.Sprintf("chart|%d|%s",
		moment.UnixMilli(),
		strings.Join(names, ","),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
