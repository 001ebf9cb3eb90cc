package ranking

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV encodes responses as CSV. The header is columns followed by
// Weighted Ranking; when columns already carry a Weighted Ranking column, as
// exports fed back in as a source do, that column is overwritten in place
// with the computed score instead. Category cells are written from their
// coerced values so that a value that failed coercion exports as an empty
// cell; every other cell is written as loaded. Output depends only on the
// inputs.
func WriteCSV(w io.Writer, columns []string, weights Weights, rs []Response) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(columns)+1)
	header = append(header, columns...)
	scoreIdx := indexOf(columns, ColumnWeightedScore)
	if scoreIdx < 0 {
		scoreIdx = len(header)
		header = append(header, ColumnWeightedScore)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	isCategory := make(map[string]bool, len(weights))
	for _, c := range weights {
		isCategory[c.Name] = true
	}

	record := make([]string, len(header))
	for _, r := range rs {
		for i, col := range columns {
			switch {
			case i == scoreIdx:
				continue
			case isCategory[col]:
				record[i] = FormatScore(r.Values[col])
			case i < len(r.Cells):
				record[i] = r.Cells[i]
			default:
				record[i] = ""
			}
		}
		record[scoreIdx] = strconv.FormatFloat(r.WeightedScore, 'f', -1, 64)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
