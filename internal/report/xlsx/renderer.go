package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/logzilla/query2excel/internal/report/types"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

// Render writes the table and its chart to path, replacing any existing
// file. Nothing is left at path if rendering fails.
func (r *Renderer) Render(table *types.Table, path string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := r.writeTable(f, sheet, table); err != nil {
		return err
	}

	if table.Len() == 0 {
		zap.S().Named("xlsx").Warn("Query returned no records, the report has no chart")
	} else if err := r.addChart(f, sheet, table.Len()); err != nil {
		return err
	}

	return save(f, path)
}

func (r *Renderer) writeTable(f *excelize.File, sheet string, table *types.Table) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{types.DateHeader, types.CountHeader}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{row.Date, row.Count}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if table.Len() == 0 {
		return nil
	}

	numFmt := types.CountNumberFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("creating count style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", table.Len()+1), style); err != nil {
		return fmt.Errorf("applying count style: %w", err)
	}
	return nil
}

func (r *Renderer) addChart(f *excelize.File, sheet string, rows int) error {
	lastRow := rows + 1
	err := f.AddChart(sheet, types.ChartAnchor, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", sheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, lastRow),
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, lastRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: types.ChartTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: types.DateHeader}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: types.CountHeader}},
		},
	})
	if err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}
	return nil
}

// save writes next to path first so a failed write never replaces or
// truncates an existing report.
func save(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
