package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatesBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "inclusive of both endpoints",
			start:    "2024-01-01",
			end:      "2024-01-03",
			expected: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		},
		{
			name:     "single day",
			start:    "2024-02-29",
			end:      "2024-02-29",
			expected: []string{"2024-02-29"},
		},
		{
			name:     "inverted range is empty",
			start:    "2024-01-03",
			end:      "2024-01-01",
			expected: []string{},
		},
		{
			name:     "crosses month and leap day",
			start:    "2024-02-28",
			end:      "2024-03-01",
			expected: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
		{
			name:     "crosses year",
			start:    "2023-12-31",
			end:      "2024-01-01",
			expected: []string{"2023-12-31", "2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatesBetweenStrings(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDatesBetweenIsRestartable(t *testing.T) {
	start, end := MustParse("2024-03-30"), MustParse("2024-04-02")
	first := DatesBetween(start, end)
	second := DatesBetween(start, end)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestDatesBetweenStringsRejectsGarbage(t *testing.T) {
	_, err := DatesBetweenStrings("2024-13-01", "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFromTimeTruncates(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	d := FromTime(time.Date(2024, 3, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, "2024-03-10", d.String())
}

func TestRangeOverlaps(t *testing.T) {
	r := Range{Start: MustParse("2024-03-10"), End: MustParse("2024-03-12")}

	tests := []struct {
		name     string
		other    Range
		expected bool
	}{
		{"touching start", Range{MustParse("2024-03-08"), MustParse("2024-03-10")}, true},
		{"touching end", Range{MustParse("2024-03-12"), MustParse("2024-03-15")}, true},
		{"inside", Single(MustParse("2024-03-11")), true},
		{"enclosing", Range{MustParse("2024-03-01"), MustParse("2024-03-31")}, true},
		{"before", Range{MustParse("2024-03-01"), MustParse("2024-03-09")}, false},
		{"after", Single(MustParse("2024-03-13")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(r))
		})
	}
}

func TestNewRangeValidation(t *testing.T) {
	_, err := NewRange(MustParse("2024-03-12"), MustParse("2024-03-10"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	r, err := NewRange(MustParse("2024-03-10"), MustParse("2024-03-12"))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())
	assert.True(t, r.Contains(MustParse("2024-03-12")))
	assert.False(t, r.Contains(MustParse("2024-03-13")))
}

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-03-10")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", string(out))

	require.NoError(t, d.UnmarshalText([]byte("")))
	assert.True(t, d.IsZero())
}

func TestParseMonth(t *testing.T) {
	rng, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", rng.Start.String())
	assert.Equal(t, "2024-02-29", rng.End.String())
	assert.Equal(t, 29, rng.Days())

	_, err = ParseMonth("2024-13")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
