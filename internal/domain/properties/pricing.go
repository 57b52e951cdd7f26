package properties

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"staycal/internal/domain/shared/daterange"
)

// ErrPriceParse is returned when a price entered by a user is not a positive number.
var ErrPriceParse = errors.New("properties: price must be a positive number")

// Pricing holds the default nightly price and per-date overrides keyed by ISO date.
type Pricing struct {
	DefaultPrice *float64
	Currency     string
	DailyPrices  map[string]float64
}

func (p Pricing) clone() Pricing {
	out := Pricing{
		DefaultPrice: copyPrice(p.DefaultPrice),
		Currency:     p.Currency,
		DailyPrices:  make(map[string]float64, len(p.DailyPrices)),
	}
	for k, v := range p.DailyPrices {
		out.DailyPrices[k] = v
	}
	return out
}

func (p Pricing) CurrencySymbol() string {
	if strings.TrimSpace(p.Currency) == "" {
		return DefaultCurrency
	}
	return p.Currency
}

// PriceFor resolves the nightly price of date: the override first, then the
// default. ok is false when neither is set.
func (p Property) PriceFor(date daterange.Date) (price float64, ok bool) {
	if v, found := p.Pricing.DailyPrices[date.String()]; found {
		return v, true
	}
	if p.Pricing.DefaultPrice != nil {
		return *p.Pricing.DefaultPrice, true
	}
	return 0, false
}

// PriceLabel is PriceFor formatted with the property's currency, or "" when unpriced.
func (p Property) PriceLabel(date daterange.Date) string {
	price, ok := p.PriceFor(date)
	if !ok {
		return ""
	}
	return FormatPrice(price, p.Pricing.CurrencySymbol())
}

// FormatPrice concatenates the shortest decimal form of price with symbol.
func FormatPrice(price float64, symbol string) string {
	return strconv.FormatFloat(price, 'f', -1, 64) + symbol
}

// SetPriceForRange returns a copy of p whose overrides hold price for every day
// from start to end inclusive. p itself is left untouched. No validation of
// price happens here; see ParsePrice.
func SetPriceForRange(p Property, start, end daterange.Date, price float64) Property {
	out := p.Clone()
	for _, d := range daterange.DatesBetween(start, end) {
		out.Pricing.DailyPrices[d.String()] = price
	}
	return out
}

// ClearPriceForRange returns a copy of p without overrides between start and end.
func ClearPriceForRange(p Property, start, end daterange.Date) Property {
	out := p.Clone()
	for _, d := range daterange.DatesBetween(start, end) {
		delete(out.Pricing.DailyPrices, d.String())
	}
	return out
}

// ParsePrice validates user input before it reaches the resolver.
func ParsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, ",", ".")), 64)
	if err != nil {
		return 0, ErrPriceParse
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrPriceParse
	}
	return v, nil
}
