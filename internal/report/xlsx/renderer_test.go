package xlsx_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/logzilla/query2excel/internal/report/types"
	"github.com/logzilla/query2excel/internal/report/xlsx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

// zipEntries returns the content of every part of the workbook whose name
// starts with prefix.
func zipEntries(path, prefix string) map[string]string {
	r, err := zip.OpenReader(path)
	Expect(err).To(BeNil())
	defer r.Close()

	entries := map[string]string{}
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		rc, err := f.Open()
		Expect(err).To(BeNil())
		content, err := io.ReadAll(rc)
		Expect(err).To(BeNil())
		_ = rc.Close()
		entries[f.Name] = string(content)
	}
	return entries
}

var _ = Describe("xlsx renderer", func() {
	var (
		dir    string
		path   string
		table  *types.Table
		render func() error
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "report.xlsx")
		table = &types.Table{Rows: []types.Row{
			{Date: "2023-11-14", Count: 5},
			{Date: "2023-11-15", Count: 1000000},
			{Date: "2023-11-16", Count: 42},
		}}
		render = func() error {
			return xlsx.NewRenderer().Render(table, path)
		}
	})

	It("supports the xlsx format", func() {
		Expect(xlsx.NewRenderer().SupportedFormat()).To(Equal(types.ReportFormatXLSX))
	})

	It("round trips the table", func() {
		Expect(render()).To(Succeed())

		read, err := xlsx.ReadTable(path)

		Expect(err).To(BeNil())
		Expect(read.Rows).To(Equal(table.Rows))
	})

	It("writes the header and stores counts as numbers", func() {
		Expect(render()).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).To(BeNil())
		defer f.Close()

		Expect(f.GetCellValue("Sheet1", "A1")).To(Equal("Date"))
		Expect(f.GetCellValue("Sheet1", "B1")).To(Equal("Count"))

		cellType, err := f.GetCellType("Sheet1", "B3")
		Expect(err).To(BeNil())
		Expect(cellType).NotTo(Equal(excelize.CellTypeSharedString))
		Expect(cellType).NotTo(Equal(excelize.CellTypeInlineString))
		Expect(f.GetCellValue("Sheet1", "B3", excelize.Options{RawCellValue: true})).To(Equal("1000000"))
	})

	It("applies the magnitude number format to every count cell", func() {
		Expect(render()).To(Succeed())

		f, err := excelize.OpenFile(path)
		Expect(err).To(BeNil())
		defer f.Close()

		for _, cell := range []string{"B2", "B3", "B4"} {
			idx, err := f.GetCellStyle("Sheet1", cell)
			Expect(err).To(BeNil())
			style, err := f.GetStyle(idx)
			Expect(err).To(BeNil())
			Expect(style.CustomNumFmt).NotTo(BeNil())
			Expect(*style.CustomNumFmt).To(Equal(types.CountNumberFormat))
		}

		headerStyle, err := f.GetCellStyle("Sheet1", "B1")
		Expect(err).To(BeNil())
		Expect(headerStyle).To(Equal(0))
	})

	It("embeds one titled line chart without legend at E2", func() {
		Expect(render()).To(Succeed())

		charts := zipEntries(path, "xl/charts/chart")
		Expect(charts).To(HaveLen(1))
		for _, chart := range charts {
			Expect(chart).To(ContainSubstring("lineChart"))
			Expect(chart).To(ContainSubstring(types.ChartTitle))
			Expect(chart).To(ContainSubstring("$A$2:$A$4"))
			Expect(chart).To(ContainSubstring("$B$2:$B$4"))
			Expect(chart).NotTo(ContainSubstring("c:legend>"))
		}

		drawings := zipEntries(path, "xl/drawings/drawing")
		Expect(drawings).To(HaveLen(1))
		for _, drawing := range drawings {
			Expect(drawing).To(ContainSubstring("<xdr:col>4</xdr:col>"))
			Expect(drawing).To(ContainSubstring("<xdr:row>1</xdr:row>"))
		}
	})

	It("writes only the header and no chart for an empty table", func() {
		table = &types.Table{}
		Expect(render()).To(Succeed())

		read, err := xlsx.ReadTable(path)
		Expect(err).To(BeNil())
		Expect(read.Rows).To(BeEmpty())
		Expect(zipEntries(path, "xl/charts/")).To(BeEmpty())
	})

	It("overwrites an existing report", func() {
		Expect(os.WriteFile(path, []byte("stale"), 0644)).To(Succeed())

		Expect(render()).To(Succeed())

		read, err := xlsx.ReadTable(path)
		Expect(err).To(BeNil())
		Expect(read.Rows).To(HaveLen(3))
	})

	It("leaves no temporary files behind", func() {
		Expect(render()).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).To(BeNil())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Name()).To(Equal("report.xlsx"))
	})

	It("fails without touching anything when the directory does not exist", func() {
		path = filepath.Join(dir, "missing", "report.xlsx")

		Expect(render()).NotTo(Succeed())
		_, err := os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})

var _ = Describe("ReadTable", func() {
	It("rejects a workbook with another layout", func() {
		path := filepath.Join(GinkgoT().TempDir(), "other.xlsx")
		f := excelize.NewFile()
		Expect(f.SetSheetRow("Sheet1", "A1", &[]any{"VM", "VM ID"})).To(Succeed())
		Expect(f.SaveAs(path)).To(Succeed())
		Expect(f.Close()).To(Succeed())

		_, err := xlsx.ReadTable(path)

		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(ContainSubstring("unexpected header"))
	})
})
