package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO calendar date format used on every boundary.
const Layout = "2006-01-02"

var (
	ErrInvalidRange = errors.New("daterange: start must not be after end")
	ErrInvalidDate  = errors.New("daterange: invalid date")
)

// Date is a calendar day without a time-of-day component. Values are kept at
// UTC midnight so that stepping by one day never crosses a DST boundary.
type Date struct {
	t time.Time
}

func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return Date{t: t.UTC()}, nil
}

// MustParse is meant for fixtures and tests.
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	return FromTime(time.Now())
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.t.Before(other.t):
		return -1
	case d.t.After(other.t):
		return 1
	default:
		return 0
	}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatesBetween lists every day from start to end, both inclusive. An inverted
// range yields an empty slice.
func DatesBetween(start, end Date) []Date {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return []Date{}
	}
	days := int(end.t.Sub(start.t).Hours()/24) + 1
	out := make([]Date, 0, days)
	for cur := start; !cur.After(end); cur = cur.AddDays(1) {
		out = append(out, cur)
	}
	return out
}

// DatesBetweenStrings is DatesBetween over ISO strings.
func DatesBetweenStrings(start, end string) ([]string, error) {
	s, err := Parse(start)
	if err != nil {
		return nil, err
	}
	e, err := Parse(end)
	if err != nil {
		return nil, err
	}
	dates := DatesBetween(s, e)
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	return out, nil
}

// Range is a closed interval [Start, End] of calendar days.
type Range struct {
	Start Date
	End   Date
}

func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Single is the one-day range [d, d].
func Single(d Date) Range {
	return Range{Start: d, End: d}
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if r.Start.After(r.End) {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days covered, zero for an invalid range.
func (r Range) Days() int {
	if r.Validate() != nil {
		return 0
	}
	return int(r.End.t.Sub(r.Start.t).Hours()/24) + 1
}

func (r Range) Dates() []Date {
	return DatesBetween(r.Start, r.End)
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// MonthLayout is the YYYY-MM form used for calendar pages.
const MonthLayout = "2006-01"

// Month returns the range covering every day of the given month.
func Month(year int, month time.Month) Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: Date{t: first}, End: Date{t: first.AddDate(0, 1, -1)}}
}

func ParseMonth(value string) (Range, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return Month(t.Year(), t.Month()), nil
}
