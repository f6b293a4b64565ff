package manifest

import (
	"path/filepath"
	"testing"
)

func buildSheet() *Sheet {
	s := NewSheet(nil)
	s.SetCell(MarkerRow, 0, "TRUCK BOOKING REPORT - SVL")
	s.SetCell(DateRow, DateCol, "25.12.2025")
	s.SetCell(DataStart, ColTruck, "ບກ1234")
	s.SetCell(DataStart+1, ColTruck, "ບກ5678")
	s.SetCell(DataStart+2, ColRemark, "note only")
	return s
}

func TestSheetCellBounds(t *testing.T) {
	s := NewSheet([][]string{{"a"}})
	if got := s.Cell(5, 5); got != "" {
		t.Errorf("out of range read = %q", got)
	}
	if got := s.Cell(0, 0); got != "a" {
		t.Errorf("Cell(0,0) = %q", got)
	}
	s.SetCell(2, 3, "x")
	if got := s.Cell(2, 3); got != "x" {
		t.Errorf("after SetCell got %q", got)
	}
}

func TestLastTruckRow(t *testing.T) {
	s := buildSheet()
	if got := s.LastTruckRow(); got != DataStart+1 {
		t.Errorf("LastTruckRow = %d, want %d", got, DataStart+1)
	}

	empty := NewSheet(nil)
	if got := empty.LastTruckRow(); got != DataStart-1 {
		t.Errorf("LastTruckRow on empty sheet = %d", got)
	}
}

func TestDeleteRowsShiftsUp(t *testing.T) {
	s := NewSheet([][]string{{"r0"}, {"r1"}, {"r2"}, {"r3"}})
	s.DeleteRows(1, 2)
	if s.RowCount() != 2 {
		t.Fatalf("RowCount = %d", s.RowCount())
	}
	if s.Cell(1, 0) != "r3" {
		t.Errorf("row 1 = %q, want r3", s.Cell(1, 0))
	}
}

func TestRowEmpty(t *testing.T) {
	s := buildSheet()
	if s.RowEmpty(DataStart) {
		t.Error("row with truck should not be empty")
	}
	if !s.RowEmpty(DataStart + 2) {
		t.Error("row with only a remark should count as empty")
	}
}

func TestBookingMarker(t *testing.T) {
	s := buildSheet()
	if !s.HasBookingMarker() {
		t.Error("marker should be detected")
	}
	s.SetCell(MarkerRow, 0, "something else")
	if s.HasBookingMarker() {
		t.Error("marker should be absent")
	}
}

func TestHeaderFallback(t *testing.T) {
	s := buildSheet()
	if got := s.Header(ColTruck); got != "Truck In No." {
		t.Errorf("Header(ColTruck) = %q", got)
	}
	s.SetCell(HeaderRow, ColTruck, "Custom Truck")
	if got := s.Header(ColTruck); got != "Custom Truck" {
		t.Errorf("Header(ColTruck) = %q", got)
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	f := &File{SheetName: "Sheet1", Sheet: buildSheet()}
	f.Sheet.WriteCanonicalHeader()
	if err := Save(f, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !got.Sheet.HasBookingMarker() {
		t.Error("marker lost in round trip")
	}
	if got.Sheet.Cell(DataStart, ColTruck) != "ບກ1234" {
		t.Errorf("truck cell = %q", got.Sheet.Cell(DataStart, ColTruck))
	}
	if got.Sheet.Cell(HeaderRow, ColClose) != "Close" {
		t.Errorf("header cell = %q", got.Sheet.Cell(HeaderRow, ColClose))
	}
}
