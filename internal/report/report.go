package report

import (
	"time"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

type ResponseView struct {
	Respondent    string              `json:"respondent"`
	Restaurant    string              `json:"restaurant"`
	Values        map[string]*float64 `json:"values"`
	WeightedScore float64             `json:"weighted_score"`
}

// Report is every view over one filtered selection of a snapshot. Option
// lists always cover the whole snapshot so a filter can be widened again.
type Report struct {
	SnapshotID  string         `json:"snapshot_id"`
	LoadedAt    time.Time      `json:"loaded_at"`
	GeneratedAt time.Time      `json:"generated_at"`
	Filter      ranking.Filter `json:"filter"`

	Restaurants []string        `json:"restaurants"`
	Respondents []string        `json:"respondents"`
	Weights     ranking.Weights `json:"weights"`
	WeightSum   float64         `json:"weight_sum"`
	Balanced    bool            `json:"weights_balanced"`

	RestaurantMeans   ranking.RestaurantTable             `json:"restaurant_means"`
	RestaurantRanking []ranking.RestaurantScore           `json:"restaurant_ranking"`
	RespondentRanking []ranking.RespondentRestaurantScore `json:"respondent_ranking"`
	Pivot             ranking.PivotTable                  `json:"pivot"`
	Radar             []ranking.RadarSeries               `json:"radar"`
	Responses         []ResponseView                      `json:"responses"`
	MissingValues     int                                 `json:"missing_values"`
}

func NewReport(snap *ranking.Snapshot, f ranking.Filter, now time.Time) *Report {
	rs := f.Apply(snap.Responses)
	categories := snap.Weights.Names()

	views := make([]ResponseView, len(rs))
	for i, r := range rs {
		views[i] = ResponseView{
			Respondent:    r.Respondent,
			Restaurant:    r.Restaurant,
			Values:        r.Values,
			WeightedScore: r.WeightedScore,
		}
	}

	return &Report{
		SnapshotID:        snap.ID.String(),
		LoadedAt:          snap.LoadedAt,
		GeneratedAt:       now,
		Filter:            f,
		Restaurants:       snap.Restaurants(),
		Respondents:       snap.Respondents(),
		Weights:           snap.Weights,
		WeightSum:         snap.Weights.Sum(),
		Balanced:          snap.Weights.Balanced(),
		RestaurantMeans:   ranking.MeanByRestaurant(rs, categories),
		RestaurantRanking: ranking.RestaurantRanking(rs),
		RespondentRanking: ranking.MeanByRespondentRestaurant(rs),
		Pivot:             ranking.Pivot(rs),
		Radar:             ranking.Radar(rs, categories),
		Responses:         views,
		MissingValues:     snap.MissingValues(),
	}
}
