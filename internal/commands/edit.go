package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"yardgate/internal/manifest"
	"yardgate/internal/pipeline"
	"yardgate/internal/util"
)

// Edit is one old -> new replacement. Composite values join truck, trailer
// and container with slashes, e.g. "T1/Tr1 -> T2/Tr2".
type Edit struct {
	Old string
	New string
}

var (
	reEditWords = regexp.MustCompile(`(?i)@bot|@pa\s+bot|edit|revise`)
	reReupload  = regexp.MustCompile(`(?i)REUPLOAD`)
	reUploaded  = regexp.MustCompile(`(?i)UPLOADED`)
)

var (
	editCols     = []int{manifest.ColTruck, manifest.ColTrailer, manifest.ColContainerIn1}
	editColNames = []string{"TRUCK", "TRAILER", "CONTAINER"}
)

// ParseEdits reads one replacement per line. The first line may still carry
// the command words; lines without an arrow fall back to "old new" pairs.
func ParseEdits(body string) []Edit {
	var edits []Edit
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if i == 0 {
			line = strings.TrimSpace(reEditWords.ReplaceAllString(line, ""))
		}
		if line == "" {
			continue
		}

		var oldRaw, newRaw string
		if strings.Contains(line, "->") {
			parts := strings.SplitN(line, "->", 2)
			oldRaw, newRaw = parts[0], parts[1]
		} else {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			oldRaw, newRaw = fields[0], fields[1]
		}

		oldVal := util.CleanInput(oldRaw)
		newVal := util.CleanInput(newRaw)
		if oldVal != "" && newVal != "" {
			edits = append(edits, Edit{Old: oldVal, New: newVal})
		}
	}
	return edits
}

type editStatus struct {
	edit         Edit
	foundMain    bool
	foundReEntry bool
	matchedFiles []string
}

// Revise applies the edits to today's archived files for the given customers.
// Each edit is applied at most once per file category, the archived original
// and its re-entry copy, since trucks are unique within a day. Every change
// is logged into the Act Other cell of the touched row.
func (h *Handler) Revise(customers []string, edits []Edit) string {
	today := h.now()
	dateStr := pipeline.DateStr(today)

	files := findCustomerFiles(h.cfg.ArchiveRoot, customers, today, true)
	if len(files) == 0 {
		return fmt.Sprintf("ບໍ່ພົບໄຟລ໌ສຳລັບ %s ໃນວັນທີ %s", strings.Join(customers, ", "), dateStr)
	}

	statuses := make([]editStatus, len(edits))
	for i, e := range edits {
		statuses[i] = editStatus{edit: e}
	}

	total := 0
	for _, path := range files {
		f, err := manifest.Open(path)
		if err != nil {
			h.log.Warn("open archived file failed", zap.String("file", path), zap.Error(err))
			continue
		}

		isReEntry := isReEntryPath(path)
		fileChanged := false

		for i := range statuses {
			st := &statuses[i]
			if (isReEntry && st.foundReEntry) || (!isReEntry && st.foundMain) {
				continue
			}

			hits := applyEdit(f.Sheet, st.edit)
			if hits == 0 {
				continue
			}
			total += hits
			fileChanged = true
			if isReEntry {
				st.foundReEntry = true
			} else {
				st.foundMain = true
			}

			display := filepath.Base(path)
			if isReEntry {
				display += " (Empty re-entry)"
			}
			st.matchedFiles = append(st.matchedFiles, display)
		}

		if !fileChanged {
			continue
		}
		if err := manifest.Save(f, path); err != nil {
			h.log.Warn("save revised file failed", zap.String("file", path), zap.Error(err))
			continue
		}
		h.markReuploaded(path, statuses, isReEntry)
	}

	var msgs []string
	for _, st := range statuses {
		if len(st.matchedFiles) == 0 {
			msgs = append(msgs, fmt.Sprintf("❌ %s (Not Found)", st.edit.Old))
			continue
		}
		msg := fmt.Sprintf("✅ %s ➡️ %s", st.edit.Old, st.edit.New)
		for _, f := range st.matchedFiles {
			msg += "\nFile: " + f
		}
		msgs = append(msgs, msg)
	}

	if total == 0 {
		return "⚠️ ບໍ່ພົບຂໍ້ມູນທີ່ຕ້ອງການແກ້ໄຂ.\n" + strings.Join(msgs, "\n")
	}
	return fmt.Sprintf("📝 ແກ້ໄຂສຳເລັດ %d ລາຍການ.\n\n%s", total, strings.Join(msgs, "\n"))
}

// applyEdit scans the data rows for the edit's old value and rewrites the
// matching cells. Returns the number of rows changed.
func applyEdit(s *manifest.Sheet, e Edit) int {
	oldParts := splitComposite(e.Old)
	newParts := splitComposite(e.New)
	composite := len(oldParts) > 1 || len(newParts) > 1

	hits := 0
	for r := manifest.DataStart; r < s.RowCount(); r++ {
		if composite {
			if !compositeMatch(s, r, oldParts) {
				continue
			}
			var changes []string
			for k, val := range newParts {
				if k >= len(editCols) {
					break
				}
				prev := s.Cell(r, editCols[k])
				if prev != val {
					s.SetCell(r, editCols[k], val)
					changes = append(changes, fmt.Sprintf("%s '%s' -> '%s'", editColNames[k], prev, val))
				}
			}
			if len(changes) > 0 {
				appendHistory(s, r, "REVISED: "+strings.Join(changes, ", "))
				hits++
			}
			continue
		}

		for _, c := range editCols {
			if util.CleanInput(s.Cell(r, c)) != e.Old {
				continue
			}
			s.SetCell(r, c, e.New)
			appendHistory(s, r, fmt.Sprintf("CHANGED '%s' -> '%s'", e.Old, e.New))
			hits++
			break
		}
	}
	return hits
}

func compositeMatch(s *manifest.Sheet, r int, oldParts []string) bool {
	for k, part := range oldParts {
		if part == "" || k >= len(editCols) {
			continue
		}
		if util.CleanInput(s.Cell(r, editCols[k])) != part {
			return false
		}
	}
	return true
}

func splitComposite(v string) []string {
	parts := strings.Split(v, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func appendHistory(s *manifest.Sheet, r int, entry string) {
	if prev := s.Cell(r, manifest.ColActOther); prev != "" {
		entry = prev + " | " + entry
	}
	s.SetCell(r, manifest.ColActOther, entry)
}

// markReuploaded renames a revised file whose name carries the UPLOADED
// marker so the upload tooling picks it up again.
func (h *Handler) markReuploaded(path string, statuses []editStatus, isReEntry bool) {
	base := filepath.Base(path)
	if !strings.Contains(strings.ToUpper(base), "UPLOADED") {
		return
	}

	newBase := util.CollapseSpaces(reReupload.ReplaceAllString(base, ""))
	newBase = reUploaded.ReplaceAllString(newBase, "REUPLOAD")
	if newBase == base {
		return
	}

	newPath := filepath.Join(filepath.Dir(path), newBase)
	if err := os.Rename(path, newPath); err != nil {
		h.log.Warn("rename revised file failed", zap.String("file", path), zap.Error(err))
		return
	}

	oldDisp, newDisp := base, newBase
	if isReEntry {
		oldDisp += " (Empty re-entry)"
		newDisp += " (Empty re-entry)"
	}
	for i := range statuses {
		for j, f := range statuses[i].matchedFiles {
			if f == oldDisp {
				statuses[i].matchedFiles[j] = newDisp
			}
		}
	}
}
