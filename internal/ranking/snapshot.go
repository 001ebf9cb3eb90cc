package ranking

import (
	"time"

	"github.com/google/uuid"
)

// Response is one submitted ranking. Values holds the coerced category
// scores, nil meaning missing. Cells keeps the full normalised row for export.
type Response struct {
	Respondent    string
	Restaurant    string
	Values        map[string]*float64
	WeightedScore float64
	Cells         []string
}

// Observed returns how many categories carry a value.
func (r Response) Observed() int {
	n := 0
	for _, v := range r.Values {
		if v != nil {
			n++
		}
	}
	return n
}

// Snapshot is the immutable result of one ingestion cycle. Nothing in it is
// modified after NewSnapshot returns; filters and aggregates derive new values.
type Snapshot struct {
	ID        uuid.UUID
	LoadedAt  time.Time
	Columns   []string
	Weights   Weights
	Responses []Response
}

// NewSnapshot validates the normalised table, coerces category cells and
// computes each response's weighted score. The table must carry the
// Restaurant and Respondent Name columns and one column per weighted
// category, otherwise a MissingColumnError names the first absent one.
func NewSnapshot(t *Table, w Weights, loadedAt time.Time) (*Snapshot, error) {
	restaurantIdx := t.Index(ColumnRestaurant)
	if restaurantIdx < 0 {
		return nil, &MissingColumnError{Column: ColumnRestaurant}
	}
	respondentIdx := t.Index(ColumnRespondent)
	if respondentIdx < 0 {
		return nil, &MissingColumnError{Column: ColumnRespondent}
	}
	catIdx := make([]int, len(w))
	for i, c := range w {
		idx := t.Index(c.Name)
		if idx < 0 {
			return nil, &MissingColumnError{Column: c.Name}
		}
		catIdx[i] = idx
	}

	responses := make([]Response, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make(map[string]*float64, len(w))
		for i, c := range w {
			values[c.Name] = ParseScore(row[catIdx[i]])
		}
		responses = append(responses, Response{
			Respondent:    row[respondentIdx],
			Restaurant:    row[restaurantIdx],
			Values:        values,
			WeightedScore: Score(values, w),
			Cells:         row,
		})
	}

	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	return &Snapshot{
		ID:        uuid.New(),
		LoadedAt:  loadedAt,
		Columns:   cols,
		Weights:   w,
		Responses: responses,
	}, nil
}

// Restaurants returns the distinct restaurants in first-appearance order.
func (s *Snapshot) Restaurants() []string {
	return distinct(s.Responses, func(r Response) string { return r.Restaurant })
}

// Respondents returns the distinct respondents in first-appearance order.
func (s *Snapshot) Respondents() []string {
	return distinct(s.Responses, func(r Response) string { return r.Respondent })
}

// MissingValues counts category cells that failed coercion.
func (s *Snapshot) MissingValues() int {
	n := 0
	for _, r := range s.Responses {
		n += len(r.Values) - r.Observed()
	}
	return n
}

func distinct(rs []Response, key func(Response) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rs {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
