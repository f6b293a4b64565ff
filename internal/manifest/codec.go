package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// File is a loaded manifest workbook: the first sheet as a grid plus where
// it came from.
type File struct {
	Path      string
	SheetName string
	Sheet     *Sheet
}

func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	f, err := OpenBytes(data)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

func OpenBytes(data []byte) (*File, error) {
	x, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := sheets[0]

	rows, err := x.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	return &File{SheetName: name, Sheet: NewSheet(rows)}, nil
}

// Save writes the grid to outputPath as a single-sheet workbook.
func Save(f *File, outputPath string) error {
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	if f.SheetName != "" && f.SheetName != sheet {
		x.SetSheetName(sheet, f.SheetName)
		sheet = f.SheetName
	}

	for r, row := range f.Sheet.Rows() {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = x.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return x.SaveAs(outputPath)
}
