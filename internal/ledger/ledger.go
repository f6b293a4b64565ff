package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// Ledger allocates job numbers from a shared workbook with one sheet per day
// (named DD.MM.YY) and rows of [customer name, job number, customer ID].
// Other tools write to the same file, so every lookup and allocation works
// on a fresh read from disk.
type Ledger struct {
	path   string
	prefix string

	mu sync.Mutex
}

func New(path, prefix string) *Ledger {
	return &Ledger{path: path, prefix: prefix}
}

// SheetName formats the day-sheet name for a date.
func SheetName(date time.Time) string {
	return date.Format("02.01.06")
}

// FormatJobNo builds PREFIX-YYMM-DD-SEQQ.
func (l *Ledger) FormatJobNo(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%04d", l.prefix, date.Format("0601"), date.Format("02"), seq)
}

// GetOrCreate returns the job number already issued to customerID on the
// date's sheet, or allocates the next one and appends it.
func (l *Ledger) GetOrCreate(customerID, customerName string, date time.Time) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if job, err := l.lookup(customerID, date); err != nil {
		return "", err
	} else if job != "" {
		return job, nil
	}

	return l.allocate(customerID, customerName, date)
}

func (l *Ledger) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(l.path)
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(err) {
		return excelize.NewFile(), nil
	}
	return nil, fmt.Errorf("open job ledger: %w", err)
}

func (l *Ledger) lookup(customerID string, date time.Time) (string, error) {
	f, err := l.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName(date))
	if err != nil {
		// Sheet does not exist yet for this date.
		return "", nil
	}
	for _, row := range rows {
		if cell(row, 2) == customerID {
			return cell(row, 1), nil
		}
	}
	return "", nil
}

func (l *Ledger) allocate(customerID, customerName string, date time.Time) (string, error) {
	f, err := l.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Another writer may have appended between the lookup and this fresh
	// read. Recheck the day sheet before issuing a new number.
	if rows, err := f.GetRows(SheetName(date)); err == nil {
		for _, row := range rows {
			if cell(row, 2) == customerID {
				return cell(row, 1), nil
			}
		}
	}

	seq := 1
	if lastJob := l.mostRecentJob(f, date); lastJob != "" {
		lastYYMM, lastSeq, ok := l.parseJobNo(lastJob)
		if ok && lastYYMM == date.Format("0601") {
			seq = lastSeq + 1
		}
	}

	sheet := SheetName(date)
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	rows, _ := f.GetRows(sheet)
	next := 0
	for i, row := range rows {
		if cell(row, 0) != "" || cell(row, 1) != "" || cell(row, 2) != "" {
			next = i + 1
		}
	}

	jobNo := l.FormatJobNo(date, seq)
	for c, v := range []string{customerName, jobNo, customerID} {
		name, _ := excelize.CoordinatesToCellName(c+1, next+1)
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return "", err
	}
	if err := f.SaveAs(l.path); err != nil {
		return "", fmt.Errorf("save job ledger: %w", err)
	}
	return jobNo, nil
}

// mostRecentJob scans backwards from the date's sheet through older sheets
// for the last issued job number.
func (l *Ledger) mostRecentJob(f *excelize.File, date time.Time) string {
	sheets := f.GetSheetList()
	start := len(sheets) - 1
	for i, name := range sheets {
		if name == SheetName(date) {
			start = i
			break
		}
	}

	for i := start; i >= 0; i-- {
		rows, err := f.GetRows(sheets[i])
		if err != nil {
			continue
		}
		for j := len(rows) - 1; j >= 0; j-- {
			job := cell(rows[j], 1)
			if strings.HasPrefix(job, l.prefix+"-") {
				return job
			}
		}
	}
	return ""
}

func (l *Ledger) parseJobNo(job string) (yymm string, seq int, ok bool) {
	rest := strings.TrimPrefix(job, l.prefix+"-")
	parts := strings.Split(rest, "-")
	if len(parts) != 3 {
		return "", 0, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, false
	}
	return parts[0], n, true
}

func cell(row []string, c int) string {
	if c < len(row) {
		return strings.TrimSpace(row[c])
	}
	return ""
}
