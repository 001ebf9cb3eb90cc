package ranking

import (
	"sort"
)

// RestaurantMeans is one row of the per-restaurant mean table. A category
// with no observed value in the group has a nil mean.
type RestaurantMeans struct {
	Restaurant             string              `json:"restaurant"`
	Responses              int                 `json:"responses"`
	Categories             map[string]*float64 `json:"categories"`
	AverageWeightedRanking float64             `json:"average_weighted_ranking"`
}

// RestaurantTable is the per-restaurant mean table, rows ordered by restaurant name.
type RestaurantTable struct {
	Categories []string          `json:"category_order"`
	Rows       []RestaurantMeans `json:"rows"`
}

// Get returns the row for a restaurant, if present.
func (t RestaurantTable) Get(restaurant string) (RestaurantMeans, bool) {
	for _, r := range t.Rows {
		if r.Restaurant == restaurant {
			return r, true
		}
	}
	return RestaurantMeans{}, false
}

// RespondentRestaurantScore is the mean weighted score of one respondent at one restaurant.
type RespondentRestaurantScore struct {
	Respondent        string  `json:"respondent"`
	Restaurant        string  `json:"restaurant"`
	MeanWeightedScore float64 `json:"mean_weighted_score"`
}

// RestaurantScore is a restaurant with its mean weighted score.
type RestaurantScore struct {
	Restaurant        string  `json:"restaurant"`
	MeanWeightedScore float64 `json:"mean_weighted_score"`
}

// PivotRow holds one respondent's mean weighted score per restaurant they
// rated, plus their average across those restaurants.
type PivotRow struct {
	Respondent    string             `json:"respondent"`
	Scores        map[string]float64 `json:"scores"`
	AverageRating float64            `json:"average_rating"`
}

// PivotTable is the respondent × restaurant view, rows ordered by
// AverageRating descending.
type PivotTable struct {
	Restaurants []string   `json:"restaurants"`
	Rows        []PivotRow `json:"rows"`
}

// Get returns the row for a respondent, if present.
func (p PivotTable) Get(respondent string) (PivotRow, bool) {
	for _, r := range p.Rows {
		if r.Respondent == respondent {
			return r, true
		}
	}
	return PivotRow{}, false
}

// RadarSeries is one restaurant's category means as plotted on the radar
// chart. Categories without an observed value plot as 0.
type RadarSeries struct {
	Restaurant string    `json:"restaurant"`
	Values     []float64 `json:"values"`
}

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAcc) mean() *float64 {
	if m.count == 0 {
		return nil
	}
	v := m.sum / float64(m.count)
	return &v
}

// group partitions responses by key, preserving first-appearance order of keys.
func group(rs []Response, key func(Response) string) ([]string, map[string][]Response) {
	var order []string
	groups := make(map[string][]Response)
	for _, r := range rs {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return order, groups
}

func meanWeighted(rs []Response) float64 {
	var acc meanAcc
	for _, r := range rs {
		acc.add(r.WeightedScore)
	}
	if m := acc.mean(); m != nil {
		return *m
	}
	return 0
}

// MeanByRestaurant averages each category and the weighted score per
// restaurant. Missing values are left out of both sum and denominator.
// Restaurants without responses in rs do not appear.
func MeanByRestaurant(rs []Response, categories []string) RestaurantTable {
	order, groups := group(rs, func(r Response) string { return r.Restaurant })
	sort.Strings(order)

	rows := make([]RestaurantMeans, 0, len(order))
	for _, name := range order {
		g := groups[name]
		cats := make(map[string]*float64, len(categories))
		for _, c := range categories {
			var acc meanAcc
			for _, r := range g {
				if v := r.Values[c]; v != nil {
					acc.add(*v)
				}
			}
			cats[c] = acc.mean()
		}
		rows = append(rows, RestaurantMeans{
			Restaurant:             name,
			Responses:              len(g),
			Categories:             cats,
			AverageWeightedRanking: meanWeighted(g),
		})
	}
	return RestaurantTable{Categories: categories, Rows: rows}
}

// RestaurantRanking orders restaurants by mean weighted score, highest first.
func RestaurantRanking(rs []Response) []RestaurantScore {
	order, groups := group(rs, func(r Response) string { return r.Restaurant })
	out := make([]RestaurantScore, 0, len(order))
	for _, name := range order {
		out = append(out, RestaurantScore{Restaurant: name, MeanWeightedScore: meanWeighted(groups[name])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeanWeightedScore > out[j].MeanWeightedScore
	})
	return out
}

// MeanByRespondentRestaurant averages the weighted score per (respondent,
// restaurant) pair and orders the pairs highest first. Equal scores keep the
// order in which the pair first appeared in rs.
func MeanByRespondentRestaurant(rs []Response) []RespondentRestaurantScore {
	type pair struct{ respondent, restaurant string }
	var order []pair
	accs := make(map[pair]*meanAcc)
	for _, r := range rs {
		k := pair{r.Respondent, r.Restaurant}
		acc, ok := accs[k]
		if !ok {
			acc = &meanAcc{}
			accs[k] = acc
			order = append(order, k)
		}
		acc.add(r.WeightedScore)
	}

	out := make([]RespondentRestaurantScore, 0, len(order))
	for _, k := range order {
		out = append(out, RespondentRestaurantScore{
			Respondent:        k.respondent,
			Restaurant:        k.restaurant,
			MeanWeightedScore: *accs[k].mean(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeanWeightedScore > out[j].MeanWeightedScore
	})
	return out
}

// Pivot reshapes the per-pair means into one row per respondent. Each row's
// AverageRating is the mean over the restaurants that respondent rated only.
// Rows are ordered by AverageRating descending, ties in first-appearance order.
func Pivot(rs []Response) PivotTable {
	pairs := MeanByRespondentRestaurant(rs)
	respondents, _ := group(rs, func(r Response) string { return r.Respondent })
	restaurants, _ := group(rs, func(r Response) string { return r.Restaurant })
	sort.Strings(restaurants)

	scores := make(map[string]map[string]float64, len(respondents))
	for _, p := range pairs {
		if scores[p.Respondent] == nil {
			scores[p.Respondent] = make(map[string]float64)
		}
		scores[p.Respondent][p.Restaurant] = p.MeanWeightedScore
	}

	rows := make([]PivotRow, 0, len(respondents))
	for _, name := range respondents {
		var acc meanAcc
		// Sum in column order so the average does not depend on map iteration.
		for _, rest := range restaurants {
			if v, ok := scores[name][rest]; ok {
				acc.add(v)
			}
		}
		avg := 0.0
		if m := acc.mean(); m != nil {
			avg = *m
		}
		rows = append(rows, PivotRow{Respondent: name, Scores: scores[name], AverageRating: avg})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AverageRating > rows[j].AverageRating
	})
	return PivotTable{Restaurants: restaurants, Rows: rows}
}

// Radar computes the per-restaurant category means plotted on the radar
// chart, restaurants in first-appearance order.
func Radar(rs []Response, categories []string) []RadarSeries {
	order, groups := group(rs, func(r Response) string { return r.Restaurant })
	out := make([]RadarSeries, 0, len(order))
	for _, name := range order {
		values := make([]float64, len(categories))
		for i, c := range categories {
			var acc meanAcc
			for _, r := range groups[name] {
				if v := r.Values[c]; v != nil {
					acc.add(*v)
				}
			}
			if m := acc.mean(); m != nil {
				values[i] = *m
			}
		}
		out = append(out, RadarSeries{Restaurant: name, Values: values})
	}
	return out
}
