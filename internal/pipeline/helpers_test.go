package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"yardgate/internal/directory"
	"yardgate/internal/manifest"
)

// row builds a 44-column data row from sparse cell values.
func row(cells map[int]string) []string {
	r := make([]string, manifest.ColumnCount)
	for c, v := range cells {
		r[c] = v
	}
	return r
}

// bookingSheet assembles a sheet shaped like a submitted report: marker in
// A2, date in F2, canonical header in row 4, data from row 5.
func bookingSheet(dateCell string, dataRows ...[]string) *manifest.Sheet {
	s := manifest.NewSheet(nil)
	s.SetCell(manifest.MarkerRow, 0, manifest.BookingMarker)
	s.SetCell(manifest.DateRow, manifest.DateCol, dateCell)
	s.WriteCanonicalHeader()
	for i, r := range dataRows {
		for c, v := range r {
			if v != "" {
				s.SetCell(manifest.DataStart+i, c, v)
			}
		}
	}
	return s
}

// fclRow is a clean full-container row that passes every rule.
func fclRow(truck string) map[int]string {
	return map[int]string{
		manifest.ColMode:         "IMPORT",
		manifest.ColLoadType:     "FCL",
		manifest.ColRoute:        "TH-LA",
		manifest.ColCustomerName: "Sun Paper",
		manifest.ColCustomerID:   "2318",
		manifest.ColTruck:        truck,
		manifest.ColTruckSize:    "4WT",
		manifest.ColAct1:         "Admission GATE Fee 04 Wheels",
		manifest.ColRemark:       "paper rolls",
	}
}

func testDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"2318", "", "SUN PAPER HOLDING LAO", "SUN_PAPER_HOLDING"},
		{"20117", "", "SAVAN LOGISTICS", "SVL"},
		{"20500", "", "KING FREIGHT", "KING"},
		{"20600", "", "QTH TRANSPORT", "QTH"},
	}
	for i, r := range rows {
		for c, v := range r {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+4)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	d := directory.New(path)
	if err := d.Load(); err != nil {
		t.Fatal(err)
	}
	return d
}
