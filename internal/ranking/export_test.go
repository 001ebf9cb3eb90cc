package ranking

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	n := NewNormalizer(surveyAliases(), DefaultWeights().Names())
	raw := NewTable(
		[]string{"Timestamp", "Respondent Name", "Restaurant", "Food Quality", "Food Portion Size (10 = Large, 1 = Small)", "Drinks", "Service", "Ambience ", "Bathroom Quality"},
		[][]string{
			{"1/2/2025 19:00", "Alice", "Pasta Place", "8", "6", "none", "7", "9", "5"},
			{"1/3/2025 20:00", "Bob", "Sushi, Bar", " 9 ", "9", "9", "9", "9", "9"},
		},
	)
	tbl, _ := n.Normalize(raw)
	snap, err := NewSnapshot(tbl, DefaultWeights(), time.Unix(0, 0))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap.Columns, snap.Weights, snap.Responses))

	want := "Timestamp,Respondent Name,Restaurant,Food Taste,Food Portion Size,Drinks,Service,Ambiance,Bathroom,Weighted Ranking\n" +
		"1/2/2025 19:00,Alice,Pasta Place,8,6,,7,9,5," + FormatScore(&snap.Responses[0].WeightedScore) + "\n" +
		"1/3/2025 20:00,Bob,\"Sushi, Bar\",9,9,9,9,9,9," + FormatScore(&snap.Responses[1].WeightedScore) + "\n"
	assert.Equal(t, want, buf.String())

	var again bytes.Buffer
	require.NoError(t, WriteCSV(&again, snap.Columns, snap.Weights, snap.Responses))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestWriteCSVEmptySelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"Restaurant"}, DefaultWeights(), nil))
	assert.Equal(t, "Restaurant,Weighted Ranking\n", buf.String())
}

func TestWriteCSVReplacesUpstreamWeightedRanking(t *testing.T) {
	n := NewNormalizer(surveyAliases(), DefaultWeights().Names())
	raw := NewTable(
		[]string{"Respondent Name", "Restaurant", "Food Quality (0 - 10)", "Food Portion Size (10 = Large, 1 = Small)", "Drinks", "Service", "Ambience ", "Bathroom Quality", "Weighted Ranking"},
		[][]string{
			{"Alice", "Pasta Place", "8", "8", "8", "8", "8", "8", "1.0"},
		},
	)
	tbl, _ := n.Normalize(raw)
	snap, err := NewSnapshot(tbl, DefaultWeights(), time.Unix(0, 0))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap.Columns, snap.Weights, snap.Responses))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Respondent Name", "Restaurant", "Food Taste", "Food Portion Size", "Drinks", "Service", "Ambiance", "Bathroom", "Weighted Ranking"}, records[0])
	require.Len(t, records[1], 9)
	score, err := strconv.ParseFloat(records[1][8], 64)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, score, 1e-9)
}
