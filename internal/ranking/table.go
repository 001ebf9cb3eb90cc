package ranking

// Column names the aggregator depends on.
const (
	ColumnRestaurant     = "Restaurant"
	ColumnRespondent     = "Respondent Name"
	ColumnWeightedScore  = "Weighted Ranking"
	ColumnAverageRanking = "Average Weighted Ranking"
	ColumnAverageRating  = "Average Rating"
)

// Table is a header-labelled grid of raw string cells, as yielded by a data source.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from a header row and data rows. Rows shorter than
// the header are padded with empty cells and longer rows are truncated, so
// every row has exactly len(header) cells.
func NewTable(header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	copy(cols, header)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, len(cols))
		copy(row, r)
		out = append(out, row)
	}
	return &Table{Columns: cols, Rows: out}
}

// FromRecords treats the first record as the header. An empty input yields an
// empty table.
func FromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	return NewTable(records[0], records[1:])
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
