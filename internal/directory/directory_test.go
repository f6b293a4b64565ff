package directory

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeCustomerList(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+4)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.xlsx")
	writeCustomerList(t, path, [][]string{
		{"2318", "", "SUN PAPER HOLDING LAO", "SUN_PAPER_HOLDING"},
		{"20117", "", "SAVAN LOGISTICS", ""},
	})

	d := New(path)
	if err := d.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d", d.Len())
	}

	c, ok := d.Get("2318")
	if !ok || c.Short != "SUN_PAPER_HOLDING" {
		t.Errorf("Get(2318) = %+v, %v", c, ok)
	}

	c, ok = d.Get("20117")
	if !ok || c.Short != "SAVAN_LOGISTICS" {
		t.Errorf("derived short = %q", c.Short)
	}

	if _, ok := d.Get("9999"); ok {
		t.Error("unknown ID should miss")
	}
}

func TestResolveReloadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.xlsx")
	writeCustomerList(t, path, [][]string{
		{"100", "", "FIRST COMPANY", "FIRST"},
	})

	d := New(path)
	if err := d.Load(); err != nil {
		t.Fatal(err)
	}

	// Added behind the service's back; Resolve should pick it up.
	writeCustomerList(t, path, [][]string{
		{"100", "", "FIRST COMPANY", "FIRST"},
		{"200", "", "SECOND COMPANY", "SECOND"},
	})

	c, ok := d.Resolve("200")
	if !ok || c.Short != "SECOND" {
		t.Errorf("Resolve(200) = %+v, %v", c, ok)
	}
}

func TestMatchGroupName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.xlsx")
	writeCustomerList(t, path, [][]string{
		{"100", "", "SAVAN LOGISTICS", "SVL"},
		{"200", "", "KING FREIGHT", "KING"},
	})

	d := New(path)
	if err := d.Load(); err != nil {
		t.Fatal(err)
	}

	got := d.MatchGroupName("PA - King Freight Trucks")
	if len(got) != 1 || got[0] != "KING" {
		t.Errorf("MatchGroupName = %v", got)
	}

	if got := d.MatchGroupName("PA - Unrelated"); len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestShortFromName(t *testing.T) {
	if got := ShortFromName("Sun Paper Holding"); got != "SUN_PAPER_HOLDING" {
		t.Errorf("ShortFromName = %q", got)
	}
}
