package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"yardgate/internal/pipeline"
)

const reEntryFolder = "Empty Re-entry Trucks"

// findCustomerFiles walks the dated archive folder and returns every workbook
// whose name contains one of the customer shorts, newest first. The re-entry
// subfolder holds derived copies and is skipped unless asked for.
func findCustomerFiles(root string, customers []string, date time.Time, includeReEntry bool) []string {
	dayDir := filepath.Join(root, pipeline.MonthFolder(date), pipeline.DateStr(date))
	if _, err := os.Stat(dayDir); err != nil {
		return nil
	}

	uppers := make([]string, len(customers))
	for i, c := range customers {
		uppers[i] = strings.ToUpper(c)
	}

	var candidates []string
	_ = filepath.WalkDir(dayDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == reEntryFolder && !includeReEntry {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			return nil
		}
		upper := strings.ToUpper(name)
		for _, c := range uppers {
			if strings.Contains(upper, c) {
				candidates = append(candidates, path)
				break
			}
		}
		return nil
	})

	sort.Slice(candidates, func(i, j int) bool {
		return mtime(candidates[i]).After(mtime(candidates[j]))
	})
	return candidates
}

func isReEntryPath(path string) bool {
	return strings.Contains(strings.ToLower(path), strings.ToLower(reEntryFolder))
}

func mtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
