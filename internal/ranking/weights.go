package ranking

import (
	"fmt"
	"math"
)

// CategoryWeight is one scored dimension and its weight fraction.
type CategoryWeight struct {
	Name   string  `yaml:"name" json:"name" validate:"required"`
	Weight float64 `yaml:"weight" json:"weight" validate:"gte=0"`
}

// Weights is the ordered category weight table. The order is the display
// order of categories in tables and charts.
type Weights []CategoryWeight

// DefaultWeights returns the dinner club's weight distribution.
func DefaultWeights() Weights {
	return Weights{
		{Name: "Food Taste", Weight: 0.5},
		{Name: "Food Portion Size", Weight: 0.1},
		{Name: "Drinks", Weight: 0.1},
		{Name: "Service", Weight: 0.1},
		{Name: "Ambiance", Weight: 0.1},
		{Name: "Bathroom", Weight: 0.1},
	}
}

// Names returns the category names in order.
func (w Weights) Names() []string {
	names := make([]string, len(w))
	for i, c := range w {
		names[i] = c.Name
	}
	return names
}

// Sum returns the total of all weights. Weights are never renormalised; a
// caller compares this against 1.0 to detect misconfiguration.
func (w Weights) Sum() float64 {
	var total float64
	for _, c := range w {
		total += c.Weight
	}
	return total
}

// Balanced reports whether the weights sum to 1.0 (±0.001).
func (w Weights) Balanced() bool {
	return math.Abs(w.Sum()-1.0) <= 0.001
}

// Validate checks the table is usable: non-empty, unique names, no negative weight.
// It does not require the weights to sum to 1.0.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("no categories configured")
	}
	seen := make(map[string]bool, len(w))
	for _, c := range w {
		if c.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category: %s", c.Name)
		}
		seen[c.Name] = true
		if c.Weight < 0 {
			return fmt.Errorf("negative weight for %s: %f", c.Name, c.Weight)
		}
	}
	return nil
}

// Score computes the weighted sum of the present category values. A category
// whose value is missing contributes nothing; the remaining weights are not
// rescaled. A row with no present categories scores 0.
func Score(values map[string]*float64, w Weights) float64 {
	var total float64
	for _, c := range w {
		if v := values[c.Name]; v != nil {
			total += *v * c.Weight
		}
	}
	return total
}
