package util

import (
	"os"
	"regexp"
	"strconv"
)

var reLeadingIndex = regexp.MustCompile(`^(\d+)\.`)

// NextFileIndex returns the smallest positive integer not already used as a
// "NN." prefix among the given file names. Gaps left by deleted files are
// reused before the sequence grows.
func NextFileIndex(names []string) int {
	used := map[int]bool{}
	for _, name := range names {
		m := reLeadingIndex.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		used[n] = true
	}
	for i := 1; ; i++ {
		if !used[i] {
			return i
		}
	}
}

// NextFileIndexInDir lists dir and applies NextFileIndex. A missing directory
// counts as empty.
func NextFileIndexInDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return NextFileIndex(names), nil
}
