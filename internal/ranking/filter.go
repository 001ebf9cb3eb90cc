package ranking

// All is the selector value meaning "no filter".
const All = "All"

// Filter selects responses by restaurant and respondent. An empty selector
// behaves like All.
type Filter struct {
	Restaurant string `json:"restaurant"`
	Respondent string `json:"respondent"`

	// ExcludeUnscored drops responses with no observed category values.
	ExcludeUnscored bool `json:"exclude_unscored,omitempty"`
}

func isAll(sel string) bool {
	return sel == "" || sel == All
}

// Matches reports whether r satisfies both selectors.
func (f Filter) Matches(r Response) bool {
	if !isAll(f.Restaurant) && r.Restaurant != f.Restaurant {
		return false
	}
	if !isAll(f.Respondent) && r.Respondent != f.Respondent {
		return false
	}
	if f.ExcludeUnscored && r.Observed() == 0 {
		return false
	}
	return true
}

// Apply returns the matching responses in input order. The result is never
// nil so an empty selection serialises as an empty list.
func (f Filter) Apply(rs []Response) []Response {
	out := make([]Response, 0, len(rs))
	for _, r := range rs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
