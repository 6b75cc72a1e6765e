// Package allocation validates percentage splits that are expected to
// cover a whole.
package allocation

import (
	"fmt"
	"math"
)

// DefaultTolerance is the allowed deviation from 100 percent.
const DefaultTolerance = 0.01

// Allocation is one (code, percentage) pair inside a split.
type Allocation struct {
	Code       string
	Percentage float64
}

// Result reports a sum-to-100 check. Warning is set only when the check
// failed and is phrased for display next to the offending form or row.
type Result struct {
	Valid   bool
	Total   float64
	Warning string
}

// Option applies a configuration option to validation.
type Option func(*checker)

// WithTolerance overrides the allowed deviation from 100.
func WithTolerance(t float64) Option {
	return func(c *checker) {
		if t >= 0 {
			c.tolerance = t
		}
	}
}

type checker struct {
	tolerance float64
}

// ValidateSumTo100 checks that the allocations sum to 100 within tolerance.
// An empty split is valid: it means "not yet allocated", not an error. The
// input is never mutated or rescaled here; silently correcting a person's
// explicit entries would hide data-entry mistakes.
func ValidateSumTo100(allocs []Allocation, opts ...Option) Result {
	c := &checker{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(c)
	}

	if len(allocs) == 0 {
		return Result{Valid: true, Total: 0}
	}

	var total float64
	for _, a := range allocs {
		total += a.Percentage
	}

	if math.Abs(total-100) <= c.tolerance {
		return Result{Valid: true, Total: total}
	}
	return Result{
		Valid:   false,
		Total:   total,
		Warning: fmt.Sprintf("allocations sum to %s%%, expected 100%%", trimFloat(total)),
	}
}

// Rescale returns a copy of the allocations scaled so their percentages sum
// to exactly 100. This is the opt-in normalization used for derived
// summaries; a zero-sum split is returned unchanged since there is nothing
// to scale against.
func Rescale(allocs []Allocation) []Allocation {
	out := make([]Allocation, len(allocs))
	copy(out, allocs)

	var total float64
	for _, a := range out {
		total += a.Percentage
	}
	if total == 0 {
		return out
	}

	factor := 100 / total
	for i := range out {
		out[i].Percentage *= factor
	}
	return out
}

// trimFloat renders a total without trailing zero noise ("50" rather than
// "50.00", but "99.99" stays fractional).
func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
