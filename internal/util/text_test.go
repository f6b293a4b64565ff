package util

import "testing"

func TestCleanID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ab-1234", "AB1234"},
		{" kn 0458 ", "KN0458"},
		{"TCLU/120456.7", "TCLU1204567"},
		{"ຄ8817", "ຄ8817"},
		{"a\u200Bb\uFEFFc", "ABC"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanID(tc.in); got != tc.want {
			t.Errorf("CleanID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" 12-34 ", "1234"},
		{"t1.a", "T1A"},
		{"701 163", "701163"},
	}
	for _, tc := range cases {
		if got := CleanInput(tc.in); got != tc.want {
			t.Errorf("CleanInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename("AB 12/34*?"); got != "AB_12_34__" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeFilename("truck_01-B"); got != "truck_01-B" {
		t.Errorf("got %q", got)
	}
}

func TestNextFileIndex(t *testing.T) {
	cases := []struct {
		names []string
		want  int
	}{
		{nil, 1},
		{[]string{"1. A.xlsx", "2. B.xlsx"}, 3},
		{[]string{"1. A.xlsx", "3. C.xlsx"}, 2},
		{[]string{"notes.txt", "02 draft.xlsx"}, 1},
		{[]string{"2. B.xlsx"}, 1},
	}
	for _, tc := range cases {
		if got := NextFileIndex(tc.names); got != tc.want {
			t.Errorf("NextFileIndex(%v) = %d, want %d", tc.names, got, tc.want)
		}
	}
}
