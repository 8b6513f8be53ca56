package types

// ReportRenderer writes a table to a file in one format.
type ReportRenderer interface {
	Render(table *Table, path string) error
	SupportedFormat() ReportFormat
}

type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
)

const (
	DateHeader  = "Date"
	CountHeader = "Count"

	// DateLayout is the calendar day a bucket timestamp is reduced to.
	DateLayout = "2006-01-02"

	// CountNumberFormat shows values of a million (after rounding) and above
	// in millions, everything else in thousands, both with two decimals.
	CountNumberFormat = `[>=999950]0.00,,"M";[<=-999950]0.00,,"M";0.00,"K"`

	ChartTitle  = "Event Count Over Time"
	ChartAnchor = "E2"
)

// Row is one time bucket of the report.
type Row struct {
	Date  string
	Count int64
}

// Table holds the rows in the order the server returned the buckets.
type Table struct {
	Rows []Row
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
