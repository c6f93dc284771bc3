package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jyotish-lab/internal/domain"
)

func TestParseMoment(t *testing.T) {
	got, err := ParseMoment([]string{"1990", "5", "17", "8", "30"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 5, 17, 8, 30, 0, 0, time.UTC), got)
}

func TestParseMoment_Location(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	got, err := ParseMoment([]string{"2000", "1", "1", "5", "30"}, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseMoment_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too few", []string{"2000", "1", "1", "0"}},
		{"too many", []string{"2000", "1", "1", "0", "0", "0"}},
		{"not a number", []string{"2000", "jan", "1", "0", "0"}},
		{"month 13", []string{"2000", "13", "1", "0", "0"}},
		{"month 0", []string{"2000", "0", "1", "0", "0"}},
		{"day 0", []string{"2000", "1", "0", "0", "0"}},
		{"feb 30", []string{"2001", "2", "30", "0", "0"}},
		{"hour 24", []string{"2000", "1", "1", "24", "0"}},
		{"minute 60", []string{"2000", "1", "1", "0", "60"}},
		{"negative minute", []string{"2000", "1", "1", "0", "-1"}},
		{"year 0", []string{"0", "1", "1", "0", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMoment(tt.args, time.UTC)
			assert.ErrorIs(t, err, domain.ErrInputValidation)
		})
	}
}

func TestParseMoment_LeapDay(t *testing.T) {
	_, err := ParseMoment([]string{"2000", "2", "29", "0", "0"}, nil)
	assert.NoError(t, err)
}

func TestValidateMoment(t *testing.T) {
	require.NoError(t, ValidateMoment(nil, []string{"1990", "5", "17", "8", "30"}))

	err := ValidateMoment(nil, []string{"1990", "5", "32", "8", "30"})
	assert.ErrorIs(t, err, domain.ErrInputValidation)

	err = ValidateMoment(nil, []string{"1990", "5"})
	assert.ErrorIs(t, err, domain.ErrInputValidation)
}

func TestParseBodies(t *testing.T) {
	all, err := ParseBodies(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Bodies, all)

	got, err := ParseBodies([]string{"moon", " Saturn "})
	require.NoError(t, err)
	assert.Equal(t, []domain.Body{domain.BodyMoon, domain.BodySaturn}, got)

	_, err = ParseBodies([]string{"pluto"})
	assert.ErrorIs(t, err, domain.ErrInputValidation)
}

func TestParseInstant(t *testing.T) {
	got, err := ParseInstant("2020-03-22", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 22, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseInstant("2020-03-22T10:00:00+02:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 22, 8, 0, 0, 0, time.UTC), got)

	_, err = ParseInstant("22/03/2020", time.UTC)
	assert.ErrorIs(t, err, domain.ErrInputValidation)
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat("csv", "json", "csv"))
	assert.ErrorIs(t, CheckFormat("xml", "json", "csv"), domain.ErrInputValidation)
}
