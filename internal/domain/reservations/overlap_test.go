package reservations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/domain/shared/daterange"
)

func day(s string) daterange.Date { return daterange.MustParse(s) }

func single(id, date string) Reservation {
	return Reservation{ID: ID(id), PropertyID: "p1", Date: day(date), Status: StatusConfirmed}
}

func ranged(id, start, end string) Reservation {
	return Reservation{ID: ID(id), PropertyID: "p1", Date: day(start), EndDate: day(end), Status: StatusConfirmed}
}

func TestIsDateReservedSingleDay(t *testing.T) {
	list := []Reservation{single("r1", "2024-03-10")}
	assert.True(t, IsDateReserved(day("2024-03-10"), list))
	assert.False(t, IsDateReserved(day("2024-03-11"), list))
}

func TestIsDateReservedRanged(t *testing.T) {
	list := []Reservation{ranged("r1", "2024-03-10", "2024-03-12")}

	tests := []struct {
		date     string
		expected bool
	}{
		{"2024-03-09", false},
		{"2024-03-10", true},
		{"2024-03-11", true},
		{"2024-03-12", true},
		{"2024-03-13", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDateReserved(day(tt.date), list))
		})
	}
}

func TestIsDateReservedEmptyList(t *testing.T) {
	assert.False(t, IsDateReserved(day("2024-03-10"), nil))
}

func TestFindReservationForDateFirstMatchWins(t *testing.T) {
	list := []Reservation{
		ranged("late", "2024-03-09", "2024-03-11"),
		single("early", "2024-03-10"),
	}
	got, ok := FindReservationForDate(day("2024-03-10"), list)
	require.True(t, ok)
	assert.Equal(t, ID("late"), got.ID)

	_, ok = FindReservationForDate(day("2024-03-20"), list)
	assert.False(t, ok)
}

func TestRangeIsFree(t *testing.T) {
	list := []Reservation{ranged("r1", "2024-03-10", "2024-03-12")}

	assert.True(t, RangeIsFree(daterange.Range{Start: day("2024-03-01"), End: day("2024-03-09")}, list))
	assert.False(t, RangeIsFree(daterange.Range{Start: day("2024-03-05"), End: day("2024-03-10")}, list))
	assert.False(t, RangeIsFree(daterange.Range{Start: day("2024-03-01"), End: day("2024-03-31")}, list))
}

func TestIntersectingAndCovering(t *testing.T) {
	list := []Reservation{
		single("a", "2024-03-01"),
		ranged("b", "2024-03-05", "2024-03-08"),
		single("c", "2024-03-20"),
	}
	got := Intersecting(daterange.Range{Start: day("2024-03-01"), End: day("2024-03-06")}, list)
	require.Len(t, got, 2)
	assert.Equal(t, ID("a"), got[0].ID)
	assert.Equal(t, ID("b"), got[1].ID)

	covering := CoveringDate(day("2024-03-07"), list)
	require.Len(t, covering, 1)
	assert.Equal(t, ID("b"), covering[0].ID)
}

func TestConflicts(t *testing.T) {
	list := []Reservation{
		ranged("a", "2024-03-10", "2024-03-12"),
		single("b", "2024-03-12"),
		ranged("c", "2024-03-11", "2024-03-15"),
		single("d", "2024-03-20"),
		{ID: "e", PropertyID: "p2", Date: day("2024-03-11")},
	}

	got := Conflicts(list)
	require.Len(t, got, 3)
	pairs := make([][2]ID, 0, len(got))
	for _, c := range got {
		pairs = append(pairs, [2]ID{c.First.ID, c.Second.ID})
	}
	assert.ElementsMatch(t, [][2]ID{{"a", "c"}, {"a", "b"}, {"c", "b"}}, pairs)

	for _, c := range got {
		if c.First.ID == "a" && c.Second.ID == "c" {
			assert.Equal(t, "2024-03-11..2024-03-12", c.Shared.String())
		}
	}
}

func TestNewValidatesRange(t *testing.T) {
	_, err := New(CreateParams{
		ID: "r1", OwnerID: "u1", PropertyID: "p1",
		Details: Details{Title: "Guest", Date: day("2024-03-12"), EndDate: day("2024-03-10")},
	})
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	_, err = New(CreateParams{
		ID: "r1", OwnerID: "u1", PropertyID: "p1",
		Details: Details{Title: "Guest", Date: day("2024-03-10"), StartTime: "25:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidTime)

	r, err := New(CreateParams{
		ID: "r1", OwnerID: "u1", PropertyID: "p1",
		Details: Details{Title: " Guest ", Date: day("2024-03-10"), EndDate: day("2024-03-12"), StartTime: "14:00"},
		Now:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Guest", r.Title)
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, 3, r.Days())
}
