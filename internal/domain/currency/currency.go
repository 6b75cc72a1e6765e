// Package currency defines the conversion contract the import pipeline
// depends on.
//
// Live rate fetching belongs to an external service; this package carries
// the interface plus a fixed-table implementation good enough for filling
// missing USD values during import and for tests.
package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnconvertible reports a currency with no known rate.
var ErrUnconvertible = errors.New("unconvertible currency")

// Converter converts an amount in a named currency to USD for a value
// date. Implementations return the converted amount and the rate applied.
type Converter interface {
	Convert(ctx context.Context, amount float64, code string, date time.Time) (usd float64, rate float64, err error)
}

// Option applies a configuration option to the TableConverter.
type Option func(*TableConverter)

// WithRate sets or overrides the USD rate for one currency code.
func WithRate(code string, usdPerUnit float64) Option {
	return func(c *TableConverter) {
		if usdPerUnit > 0 {
			c.rates[strings.ToUpper(code)] = usdPerUnit
		}
	}
}

// TableConverter converts against an immutable in-memory rate table,
// expressed as USD per one unit of the currency.
type TableConverter struct {
	rates map[string]float64
}

// NewTableConverter builds a converter preloaded with a representative set
// of currencies the surrounding system supports.
func NewTableConverter(opts ...Option) *TableConverter {
	c := &TableConverter{
		rates: map[string]float64{
			"USD": 1.0,
			"EUR": 1.08,
			"GBP": 1.27,
			"JPY": 0.0067,
			"AUD": 0.66,
			"CAD": 0.74,
			"CHF": 1.13,
			"CNY": 0.14,
			"SEK": 0.095,
			"NOK": 0.094,
			"DKK": 0.145,
			"NZD": 0.61,
			"INR": 0.012,
			"KRW": 0.00073,
			"ZAR": 0.055,
			"BRL": 0.18,
			"MXN": 0.054,
			"TRY": 0.031,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts amount to USD using the table rate for code. The value
// date is part of the contract for historical converters and is ignored by
// the fixed table.
func (c *TableConverter) Convert(_ context.Context, amount float64, code string, _ time.Time) (float64, float64, error) {
	rate, ok := c.rates[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnconvertible, code)
	}
	return amount * rate, rate, nil
}

// Supported reports whether the table knows the currency code.
func (c *TableConverter) Supported(code string) bool {
	_, ok := c.rates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
