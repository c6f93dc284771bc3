package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"jyotish-lab/internal/domain"
)

// ComputeWindowID computes a deterministic window_id using SHA256.
// Formula: SHA256(window|body|natal_sign_number|natal_moment_unix_ms)
// Returns hex-encoded hash (64 characters).
func ComputeWindowID(body domain.Body, natal domain.Sign, natalMoment time.Time) string {
	data := fmt.Sprintf("window|%s|%d|%d",
		body,
		natal.Number(),
		natalMoment.UnixMilli(),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
