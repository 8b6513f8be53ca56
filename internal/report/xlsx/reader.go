package xlsx

import (
	"fmt"
	"strconv"

	"github.com/logzilla/query2excel/internal/report/types"
	"github.com/xuri/excelize/v2"
)

// ReadTable loads the (Date, Count) table of a rendered report using raw
// cell values, so the count number format does not apply.
func ReadTable(path string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("report %s has no header", path)
	}
	if len(rows[0]) < 2 || rows[0][0] != types.DateHeader || rows[0][1] != types.CountHeader {
		return nil, fmt.Errorf("report %s has unexpected header %v", path, rows[0])
	}

	table := &types.Table{Rows: make([]types.Row, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d is incomplete", i+2)
		}
		count, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid count %q: %w", i+2, row[1], err)
		}
		table.Rows = append(table.Rows, types.Row{Date: row[0], Count: count})
	}
	return table, nil
}
