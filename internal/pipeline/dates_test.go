package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.December, 15, 14, 30, 0, 0, time.UTC)

func TestResolveDateBlankMeansToday(t *testing.T) {
	d := ResolveDate("", testNow, 7)
	if !d.OK() {
		t.Fatalf("unexpected error: %s", d.Err)
	}
	if !d.Date.Equal(testNow) {
		t.Errorf("date = %v, want %v", d.Date, testNow)
	}
}

func TestResolveDateSerial(t *testing.T) {
	target := time.Date(2025, time.December, 18, 0, 0, 0, 0, time.UTC)
	serial := target.Sub(time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24

	d := ResolveDate(fmt.Sprintf("%.0f", serial), testNow, 7)
	if !d.OK() {
		t.Fatalf("unexpected error: %s", d.Err)
	}
	if d.Date.Day() != 18 || d.Date.Month() != time.December || d.Date.Year() != 2025 {
		t.Errorf("date = %v, want 18.12.2025", d.Date)
	}
}

func TestResolveDateDayOfMonthGuess(t *testing.T) {
	d := ResolveDate("16", testNow, 7)
	if !d.OK() {
		t.Fatalf("unexpected error: %s", d.Err)
	}
	if d.Date.Day() != 16 || d.Date.Month() != time.December {
		t.Errorf("date = %v, want 16.12.2025", d.Date)
	}
}

func TestResolveDateDayGuessRollsToNextMonth(t *testing.T) {
	// Day 10 already passed, so the guess is January 10th, outside the window.
	d := ResolveDate("10", testNow, 7)
	if d.OK() {
		t.Fatal("expected a window violation")
	}
	if !strings.Contains(d.Err, "7") {
		t.Errorf("err = %q, want window message", d.Err)
	}
	if d.Date.Month() != time.January || d.Date.Year() != 2026 {
		t.Errorf("date = %v, want January 2026", d.Date)
	}
}

func TestResolveDateExplicitFormats(t *testing.T) {
	for _, raw := range []string{"17.12.2025", "17-12-2025", "17/12/2025"} {
		d := ResolveDate(raw, testNow, 7)
		if !d.OK() {
			t.Errorf("%q: unexpected error %s", raw, d.Err)
			continue
		}
		if d.Date.Day() != 17 || d.Date.Month() != time.December {
			t.Errorf("%q: date = %v", raw, d.Date)
		}
	}
}

func TestResolveDateBadFormat(t *testing.T) {
	d := ResolveDate("next tuesday", testNow, 7)
	if d.OK() {
		t.Fatal("expected a format error")
	}
	if !strings.Contains(d.Err, "next tuesday") {
		t.Errorf("err = %q, should echo the raw value", d.Err)
	}
}

func TestResolveDateOutsideWindow(t *testing.T) {
	if d := ResolveDate("30.12.2025", testNow, 7); d.OK() {
		t.Error("date 15 days out should violate the window")
	}
	if d := ResolveDate("14.12.2025", testNow, 7); d.OK() {
		t.Error("yesterday should violate the window")
	}
	if d := ResolveDate("22.12.2025", testNow, 7); !d.OK() {
		t.Errorf("window edge should pass, got %s", d.Err)
	}
}

func TestParsePostponeDate(t *testing.T) {
	d, ok := ParsePostponeDate("some note POSTPONE-25.12.2025 trailing", time.UTC)
	if !ok {
		t.Fatal("token not found")
	}
	if d.Day() != 25 || d.Month() != time.December || d.Year() != 2025 {
		t.Errorf("date = %v", d)
	}

	if _, ok := ParsePostponeDate("no token here", time.UTC); ok {
		t.Error("false positive")
	}
}
