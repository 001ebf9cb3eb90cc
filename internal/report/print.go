package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

func fixed(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// WriteText prints the report as aligned plain-text tables: weight total,
// per-response scores, restaurant ranking and means, respondent ranking and
// the respondent × restaurant pivot.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Snapshot %s (%d responses)\n", r.SnapshotID, len(r.Responses))
	fmt.Fprintf(tw, "Weight total: %s\n", fixed(r.WeightSum))
	if !r.Balanced {
		fmt.Fprintln(tw, "Warning: category weights do not sum to 1")
	}

	fmt.Fprintln(tw, "\nResponses")
	fmt.Fprintln(tw, "Respondent\tRestaurant\tWeighted Ranking\t")
	for _, v := range r.Responses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", v.Respondent, v.Restaurant, fixed(v.WeightedScore))
	}

	fmt.Fprintln(tw, "\nRestaurant ranking")
	fmt.Fprintln(tw, "Restaurant\tAverage Weighted Ranking\t")
	for _, s := range r.RestaurantRanking {
		fmt.Fprintf(tw, "%s\t%s\t\n", s.Restaurant, fixed(s.MeanWeightedScore))
	}

	fmt.Fprintln(tw, "\nAverage ranking by restaurant")
	fmt.Fprint(tw, "Restaurant\t")
	for _, c := range r.RestaurantMeans.Categories {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw, "Average Weighted Ranking\t")
	for _, row := range r.RestaurantMeans.Rows {
		fmt.Fprintf(tw, "%s\t", row.Restaurant)
		for _, c := range r.RestaurantMeans.Categories {
			if v := row.Categories[c]; v != nil {
				fmt.Fprintf(tw, "%s\t", fixed(*v))
			} else {
				fmt.Fprint(tw, "-\t")
			}
		}
		fmt.Fprintf(tw, "%s\t\n", fixed(row.AverageWeightedRanking))
	}

	fmt.Fprintln(tw, "\nRespondent ranking")
	fmt.Fprintln(tw, "Respondent\tRestaurant\tWeighted Ranking\t")
	for _, s := range r.RespondentRanking {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", s.Respondent, s.Restaurant, fixed(s.MeanWeightedScore))
	}

	fmt.Fprintln(tw, "\nRespondent by restaurant")
	fmt.Fprint(tw, "Respondent\t")
	for _, name := range r.Pivot.Restaurants {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw, "Average Rating\t")
	for _, row := range r.Pivot.Rows {
		fmt.Fprintf(tw, "%s\t", row.Respondent)
		for _, name := range r.Pivot.Restaurants {
			if v, ok := row.Scores[name]; ok {
				fmt.Fprintf(tw, "%s\t", fixed(v))
			} else {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintf(tw, "%s\t\n", fixed(row.AverageRating))
	}

	return tw.Flush()
}
