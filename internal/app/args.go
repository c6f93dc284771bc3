package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/domain"
)

// MomentArgs is the number of positional arguments a moment takes:
// year, month, day, hour, minute.
const MomentArgs = 5

var momentFields = [MomentArgs]string{"year", "month", "day", "hour", "minute"}

// ParseMoment turns YEAR MONTH DAY HOUR MINUTE into a UTC instant,
// interpreting the wall clock in loc. Out-of-range or malformed fields
// are rejected rather than normalized.
func ParseMoment(args []string, loc *time.Location) (time.Time, error) {
	if len(args) != MomentArgs {
		return time.Time{}, fmt.Errorf("expected %d arguments (YEAR MONTH DAY HOUR MINUTE), got %d: %w",
			MomentArgs, len(args), domain.ErrInputValidation)
	}
	if loc == nil {
		loc = time.UTC
	}

	var v [MomentArgs]int
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s %q is not an integer: %w", momentFields[i], s, domain.ErrInputValidation)
		}
		v[i] = n
	}

	year, month, day, hour, minute := v[0], v[1], v[2], v[3], v[4]
	switch {
	case year < 1 || year > 9999:
		return time.Time{}, fmt.Errorf("year %d out of range: %w", year, domain.ErrInputValidation)
	case month < 1 || month > 12:
		return time.Time{}, fmt.Errorf("month %d out of range: %w", month, domain.ErrInputValidation)
	case hour < 0 || hour > 23:
		return time.Time{}, fmt.Errorf("hour %d out of range: %w", hour, domain.ErrInputValidation)
	case minute < 0 || minute > 59:
		return time.Time{}, fmt.Errorf("minute %d out of range: %w", minute, domain.ErrInputValidation)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if day < 1 || t.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d: %w", day, year, month, domain.ErrInputValidation)
	}
	return t.UTC(), nil
}

// ValidateMoment checks the positional moment as a cobra.PositionalArgs so
// malformed input is rejected before any store is opened. Range checks do not
// depend on the zone, so UTC stands in for the configured one.
func ValidateMoment(_ *cobra.Command, args []string) error {
	_, err := ParseMoment(args, time.UTC)
	return err
}

// ParseBodies resolves body names case-insensitively. An empty list selects
// every body.
func ParseBodies(names []string) ([]domain.Body, error) {
	if len(names) == 0 {
		return domain.Bodies, nil
	}
	out := make([]domain.Body, 0, len(names))
	for _, name := range names {
		b := domain.Body(strings.ToUpper(strings.TrimSpace(name)))
		if !b.IsValid() {
			return nil, fmt.Errorf("unknown body %q: %w", name, domain.ErrInputValidation)
		}
		out = append(out, b)
	}
	return out, nil
}

// ParseInstant accepts RFC 3339 or a YYYY-MM-DD date (midnight in loc).
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q is neither RFC 3339 nor YYYY-MM-DD: %w", s, domain.ErrInputValidation)
	}
	return t.UTC(), nil
}
