package ranking

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

// buildSnapshot makes a snapshot from (respondent, restaurant, cells...) rows
// using the default weights; cells follow DefaultWeights order.
func buildSnapshot(t *testing.T, rows ...[]string) *Snapshot {
	t.Helper()
	header := append([]string{ColumnRespondent, ColumnRestaurant}, DefaultWeights().Names()...)
	snap, err := NewSnapshot(NewTable(header, rows), DefaultWeights(), time.Unix(0, 0))
	require.NoError(t, err)
	return snap
}

// uniform is a row where every category carries the same value, so its
// weighted score equals v under the default weights.
func uniform(respondent, restaurant string, v float64) []string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return []string{respondent, restaurant, s, s, s, s, s, s}
}
