package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"jyotish-lab/internal/domain"
)

// ErrReported marks a failure whose document was already written, so the
// caller only needs to set the exit code.
var ErrReported = errors.New("failure already reported")

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CheckFormat rejects an output format outside allowed.
func CheckFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("format %q not one of %v: %w", format, allowed, domain.ErrInputValidation)
}
