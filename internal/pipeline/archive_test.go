package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yardgate/internal"
	"yardgate/internal/manifest"
)

func TestMonthFolder(t *testing.T) {
	d := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	if got := MonthFolder(d); got != "12 DECEMBER 2025 Walk-in Customer" {
		t.Errorf("MonthFolder = %q", got)
	}
}

func TestArchivePlacementAndName(t *testing.T) {
	root := t.TempDir()
	a := NewArchiver(root)

	s := bookingSheet("15.12.2025", row(fclRow("ກຂ1234")))
	f := &manifest.File{SheetName: "Sheet1", Sheet: s}
	useDate := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	cls := internal.Classification{TruckCount: 1, HasFCL: true}

	path, err := a.Archive(f, cls, "SVL", useDate, "1430", false)
	if err != nil {
		t.Fatal(err)
	}

	wantDir := filepath.Join(root, "12 DECEMBER 2025 Walk-in Customer", "15.12.2025")
	if filepath.Dir(path) != wantDir {
		t.Errorf("dir = %s, want %s", filepath.Dir(path), wantDir)
	}
	if got := filepath.Base(path); got != "01. SVL 1430 1T IMP TH-LA.xlsx" {
		t.Errorf("name = %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("archive file missing: %v", err)
	}

	// Second file the same day gets the next index.
	s2 := bookingSheet("15.12.2025", row(fclRow("ຄງ5678")))
	path2, err := a.Archive(&manifest.File{SheetName: "Sheet1", Sheet: s2}, cls, "SVL", useDate, "1500", false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(filepath.Base(path2), "02.") {
		t.Errorf("second name = %q", filepath.Base(path2))
	}
}

func TestArchiveLoloSubfolderAndFlags(t *testing.T) {
	a := NewArchiver(t.TempDir())
	s := bookingSheet("", row(fclRow("ກຂ1234")))
	useDate := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	cls := internal.Classification{TruckCount: 1, HasLolo: true}

	path, err := a.Archive(&manifest.File{Sheet: s}, cls, "SVL", useDate, "1430", true)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(filepath.Dir(path)) != "TRANSLOAD, LOLO" {
		t.Errorf("lolo file outside the transload folder: %s", path)
	}
	name := filepath.Base(path)
	if !strings.Contains(name, "LOLO") {
		t.Errorf("name missing LOLO tag: %q", name)
	}
	if !strings.Contains(name, "POSTPONE-15.12.2025") {
		t.Errorf("name missing postpone tag: %q", name)
	}
}

func TestWriteReEntryDerivative(t *testing.T) {
	a := NewArchiver(t.TempDir())

	cells := fclRow("ກຂ1234")
	cells[manifest.ColJobNo] = "SVLDP-2512-15-0001"
	cells[manifest.ColContainerIn1] = "ABCD1234567"
	cells[manifest.ColContainerSize] = "40HC"
	s := bookingSheet("", row(cells))
	f := &manifest.File{Sheet: s}
	useDate := time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)
	cls := internal.Classification{TruckCount: 1, HasFCL: true, HasContainer: true}

	path, err := a.WriteReEntry(f, cls, "SVL", useDate, "1430", false)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(filepath.Dir(path)) != "Empty Re-entry Trucks" {
		t.Errorf("re-entry copy outside its folder: %s", path)
	}
	if !strings.Contains(filepath.Base(path), "EMPTY") {
		t.Errorf("name = %q", filepath.Base(path))
	}

	// The original stays untouched.
	if got := s.Cell(manifest.DataStart, manifest.ColLoadType); got != "FCL" {
		t.Errorf("original load type = %q", got)
	}

	copyFile, err := manifest.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	cs := copyFile.Sheet
	if got := cs.Cell(manifest.DataStart, manifest.ColLoadType); got != "EMPTY" {
		t.Errorf("copy load type = %q", got)
	}
	if got := cs.Cell(manifest.DataStart, manifest.ColAct1); got != "" {
		t.Errorf("copy act1 = %q, want cleared", got)
	}
	if got := cs.Cell(manifest.DataStart, manifest.ColActOther); got != "Re-entry Truck" {
		t.Errorf("copy act other = %q", got)
	}
	if got := cs.Cell(manifest.DataStart, manifest.ColJobNo); got != "SVLDP-2512-15-0001-E" {
		t.Errorf("copy job no = %q", got)
	}
}
