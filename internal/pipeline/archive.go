package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"yardgate/internal"
	"yardgate/internal/manifest"
	"yardgate/internal/util"
)

var monthFolders = [...]string{
	"01 JANUARY", "02 FEBRUARY", "03 MARCH", "04 APRIL", "05 MAY", "06 JUNE",
	"07 JULY", "08 AUGUST", "09 SEPTEMBER", "10 OCTOBER", "11 NOVEMBER", "12 DECEMBER",
}

const reEntryFolder = "Empty Re-entry Trucks"

// Archiver files accepted manifests into the walk-in customer tree:
// <MM MONTH> YYYY Walk-in Customer/DD.MM.YYYY[/TRANSLOAD, LOLO]/NN. <name>.xlsx
type Archiver struct {
	root string
}

func NewArchiver(root string) *Archiver {
	return &Archiver{root: root}
}

// MonthFolder is the per-month directory name, e.g. "12 DECEMBER 2025 Walk-in Customer".
func MonthFolder(date time.Time) string {
	return fmt.Sprintf("%s %d Walk-in Customer", monthFolders[date.Month()-1], date.Year())
}

// DayFolder returns the dated directory under the archive root.
func (a *Archiver) DayFolder(date time.Time) string {
	return filepath.Join(a.root, MonthFolder(date), DateStr(date))
}

// Archive writes the normalized sheet into its dated folder with the next
// free index prefix and the canonical header row.
func (a *Archiver) Archive(f *manifest.File, cls internal.Classification, short string, useDate time.Time, timeStr string, postponed bool) (string, error) {
	dir := a.DayFolder(useDate)
	if cls.HasLolo {
		dir = filepath.Join(dir, "TRANSLOAD, LOLO")
	}

	name, err := a.buildName(f.Sheet, cls, short, useDate, timeStr, postponed, false, dir)
	if err != nil {
		return "", err
	}

	f.Sheet.WriteCanonicalHeader()
	path := filepath.Join(dir, name)
	if err := manifest.Save(f, path); err != nil {
		return "", fmt.Errorf("archive manifest: %w", err)
	}
	return path, nil
}

// WriteReEntry derives the empty re-entry copy for a full-container intake:
// same trucks coming back out empty, under a separate job number suffix.
func (a *Archiver) WriteReEntry(f *manifest.File, cls internal.Classification, short string, useDate time.Time, timeStr string, postponed bool) (string, error) {
	copy := &manifest.File{SheetName: f.SheetName, Sheet: f.Sheet.Clone()}
	s := copy.Sheet

	last := s.LastTruckRow()
	for r := manifest.DataStart; r <= last; r++ {
		if s.Cell(r, manifest.ColTruck) == "" {
			continue
		}
		s.SetCell(r, manifest.ColLoadType, "EMPTY")
		if s.Cell(r, manifest.ColAct1) != "" {
			s.SetCell(r, manifest.ColAct1, "")
		}
		s.SetCell(r, manifest.ColActOther, "Re-entry Truck")
		if job := s.Cell(r, manifest.ColJobNo); job != "" && !strings.HasSuffix(job, "-E") {
			s.SetCell(r, manifest.ColJobNo, job+"-E")
		}
	}

	dir := filepath.Join(a.DayFolder(useDate), reEntryFolder)
	name, err := a.buildName(s, cls, short, useDate, timeStr, postponed, true, dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := manifest.Save(copy, path); err != nil {
		return "", fmt.Errorf("write re-entry copy: %w", err)
	}
	return path, nil
}

func (a *Archiver) buildName(s *manifest.Sheet, cls internal.Classification, short string, useDate time.Time, timeStr string, postponed, reEntry bool, dir string) (string, error) {
	index, err := util.NextFileIndexInDir(dir)
	if err != nil {
		return "", err
	}

	mode := strings.ToUpper(s.Cell(manifest.DataStart, manifest.ColMode))
	if len(mode) > 3 {
		mode = mode[:3]
	}
	routing := strings.ToUpper(s.Cell(manifest.DataStart, manifest.ColRoute))
	consol := ""
	if strings.ToUpper(s.Cell(manifest.DataStart, manifest.ColLoadType)) == "CONSOL" {
		consol = "CONSOL"
	}

	parts := []string{fmt.Sprintf("%02d.", index)}
	if reEntry {
		parts = append(parts, "EMPTY")
	}
	parts = append(parts, short)
	if cls.HasLolo && !reEntry {
		parts = append(parts, "LOLO")
	}
	parts = append(parts, timeStr, fmt.Sprintf("%dT", cls.TruckCount), mode, routing)
	if consol != "" {
		parts = append(parts, consol)
	}
	if postponed {
		parts = append(parts, "POSTPONE-"+DateStr(useDate))
	}

	return strings.Join(parts, " ") + ".xlsx", nil
}
