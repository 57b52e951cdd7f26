package properties

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staycal/internal/domain/shared/daterange"
)

func price(v float64) *float64 { return &v }

func fixture(t *testing.T) Property {
	t.Helper()
	p, err := NewProperty(CreateParams{
		ID:           "prop-1",
		Name:         " Sea House ",
		OwnerID:      "user-1",
		DefaultPrice: price(100),
		Now:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func TestPriceForFallsBackToDefault(t *testing.T) {
	p := fixture(t)
	p.Pricing.DailyPrices["2024-03-10"] = 150

	got, ok := p.PriceFor(daterange.MustParse("2024-03-10"))
	require.True(t, ok)
	assert.Equal(t, 150.0, got)

	got, ok = p.PriceFor(daterange.MustParse("2024-03-11"))
	require.True(t, ok)
	assert.Equal(t, 100.0, got)
}

func TestPriceForWithoutDefault(t *testing.T) {
	p := fixture(t)
	p.Pricing.DefaultPrice = nil

	_, ok := p.PriceFor(daterange.MustParse("2024-03-11"))
	assert.False(t, ok)
	assert.Equal(t, "", p.PriceLabel(daterange.MustParse("2024-03-11")))
}

func TestSetPriceForRange(t *testing.T) {
	p := fixture(t)
	start, end := daterange.MustParse("2024-03-10"), daterange.MustParse("2024-03-12")

	once := SetPriceForRange(p, start, end, 180)
	twice := SetPriceForRange(SetPriceForRange(p, start, end, 180), start, end, 180)

	assert.Equal(t, map[string]float64{
		"2024-03-10": 180,
		"2024-03-11": 180,
		"2024-03-12": 180,
	}, once.Pricing.DailyPrices)
	assert.Equal(t, once.Pricing.DailyPrices, twice.Pricing.DailyPrices)
	assert.Empty(t, p.Pricing.DailyPrices, "input property must not be mutated")
}

func TestSetPriceForRangeInvertedIsNoop(t *testing.T) {
	p := fixture(t)
	out := SetPriceForRange(p, daterange.MustParse("2024-03-12"), daterange.MustParse("2024-03-10"), 99)
	assert.Empty(t, out.Pricing.DailyPrices)
}

func TestClearPriceForRange(t *testing.T) {
	p := SetPriceForRange(fixture(t), daterange.MustParse("2024-03-10"), daterange.MustParse("2024-03-14"), 120)
	out := ClearPriceForRange(p, daterange.MustParse("2024-03-11"), daterange.MustParse("2024-03-13"))

	assert.Equal(t, map[string]float64{"2024-03-10": 120, "2024-03-14": 120}, out.Pricing.DailyPrices)
	assert.Len(t, p.Pricing.DailyPrices, 5)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "150₺", FormatPrice(150, "₺"))
	assert.Equal(t, "99.5€", FormatPrice(99.5, "€"))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "150", want: 150},
		{raw: " 99,5 ", want: 99.5},
		{raw: "0", wantErr: true},
		{raw: "-10", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPriceParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPropertyValidation(t *testing.T) {
	_, err := NewProperty(CreateParams{ID: "p", OwnerID: "u"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewProperty(CreateParams{ID: "p", Name: "x"})
	assert.ErrorIs(t, err, ErrOwnerRequired)

	p := fixture(t)
	assert.Equal(t, "Sea House", p.Name)
	assert.Equal(t, DefaultCurrency, p.Pricing.CurrencySymbol())
}
