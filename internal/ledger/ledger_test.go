package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetName(t *testing.T) {
	d := time.Date(2025, 12, 25, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "25.12.25", SheetName(d))
}

func TestGetOrCreateIdempotent(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "jobs.xlsx"), "SVLDP")
	date := time.Date(2025, 12, 25, 9, 30, 0, 0, time.Local)

	first, err := l.GetOrCreate("20117", "SAVAN LOGISTICS", date)
	require.NoError(t, err)
	assert.Equal(t, "SVLDP-2512-25-0001", first)

	again, err := l.GetOrCreate("20117", "SAVAN LOGISTICS", date)
	require.NoError(t, err)
	assert.Equal(t, first, again, "same customer same day must reuse the job number")
}

func TestSequenceAdvancesPerCustomer(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "jobs.xlsx"), "SVLDP")
	date := time.Date(2025, 12, 25, 9, 30, 0, 0, time.Local)

	a, err := l.GetOrCreate("100", "A COMPANY", date)
	require.NoError(t, err)
	b, err := l.GetOrCreate("200", "B COMPANY", date)
	require.NoError(t, err)

	assert.Equal(t, "SVLDP-2512-25-0001", a)
	assert.Equal(t, "SVLDP-2512-25-0002", b)
}

func TestSequenceSpansDaysWithinMonth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	l := New(path, "SVLDP")

	day1 := time.Date(2025, 12, 25, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 12, 26, 9, 0, 0, 0, time.Local)

	_, err := l.GetOrCreate("100", "A COMPANY", day1)
	require.NoError(t, err)
	got, err := l.GetOrCreate("200", "B COMPANY", day2)
	require.NoError(t, err)

	assert.Equal(t, "SVLDP-2512-26-0002", got, "sequence continues across days in the same month")
}

func TestSequenceResetsOnNewMonth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	l := New(path, "SVLDP")

	dec := time.Date(2025, 12, 31, 9, 0, 0, 0, time.Local)
	jan := time.Date(2026, 1, 2, 9, 0, 0, 0, time.Local)

	_, err := l.GetOrCreate("100", "A COMPANY", dec)
	require.NoError(t, err)
	got, err := l.GetOrCreate("100", "A COMPANY", jan)
	require.NoError(t, err)

	assert.Equal(t, "SVLDP-2601-02-0001", got)
}

func TestAllocateRechecksDaySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	l := New(path, "SVLDP")
	date := time.Date(2025, 12, 25, 9, 0, 0, 0, time.Local)

	first, err := l.GetOrCreate("100", "A COMPANY", date)
	require.NoError(t, err)

	// Calling allocate directly models an entry landing on disk after the
	// lookup decided the customer was absent. The fresh read must find it.
	got, err := l.allocate("100", "A COMPANY", date)
	require.NoError(t, err)
	assert.Equal(t, first, got, "recheck must return the existing number")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName(date))
	require.NoError(t, err)

	count := 0
	for _, row := range rows {
		if cell(row, 2) == "100" {
			count++
		}
	}
	assert.Equal(t, 1, count, "customer must hold a single ledger row")
}

func TestParseJobNo(t *testing.T) {
	l := New("unused.xlsx", "SVLDP")

	yymm, seq, ok := l.parseJobNo("SVLDP-2512-25-0042")
	require.True(t, ok)
	assert.Equal(t, "2512", yymm)
	assert.Equal(t, 42, seq)

	_, _, ok = l.parseJobNo("OTHER-2512-25-0042")
	assert.False(t, ok, "foreign prefix should not parse")
}
