package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"yardgate/internal"
	"yardgate/internal/manifest"
	"yardgate/internal/pipeline"
	"yardgate/internal/util"
)

// PostponeRequest moves trucks from one day's manifest to another. Items may
// be truck, trailer or container numbers.
type PostponeRequest struct {
	SourceDate string
	TargetDate string
	Items      []string
}

var (
	rePostponeCmd = regexp.MustCompile(`(?i)(?:@[\w\s]+\s+)?(\d{1,2}\.\d{1,2}\.\d{4})?\s*postpone\s+(.+)\s+to\s+(\d{1,2}\.\d{1,2}\.\d{4})`)
	reItemSep     = regexp.MustCompile(`[, ]+`)
)

func ParsePostpone(body string) (PostponeRequest, bool) {
	m := rePostponeCmd.FindStringSubmatch(body)
	if m == nil {
		return PostponeRequest{}, false
	}

	req := PostponeRequest{SourceDate: m[1], TargetDate: m[3]}
	for _, item := range reItemSep.Split(m[2], -1) {
		if v := util.CleanInput(item); v != "" {
			req.Items = append(req.Items, v)
		}
	}
	return req, true
}

// Postpone copies the matched rows out of the source day's archived files
// into a fresh manifest dated for the target day and runs it through the full
// intake flow, so the moved trucks get their own release papers, job number
// and archive copy under the new date.
func (h *Handler) Postpone(group string, customers []string, req PostponeRequest) string {
	now := h.now()

	sourceDate := now
	if req.SourceDate != "" {
		d, err := parseDMY(req.SourceDate, now.Location())
		if err != nil {
			return fmt.Sprintf("ຮູບແບບວັນທີບໍ່ຖືກ (%s)", req.SourceDate)
		}
		sourceDate = d
	}
	targetDate, err := parseDMY(req.TargetDate, now.Location())
	if err != nil {
		return fmt.Sprintf("ວັນທີປາຍທາງບໍ່ຖືກຕ້ອງ: %s", req.TargetDate)
	}
	sourceStr := pipeline.DateStr(sourceDate)
	targetStr := pipeline.DateStr(targetDate)

	files := findCustomerFiles(h.cfg.ArchiveRoot, customers, sourceDate, false)
	if len(files) == 0 {
		return fmt.Sprintf("ບໍ່ພົບໄຟລ໌ສຳລັບລູກຄ້າທີ່ລະບຸໃນວັນທີ %s", sourceStr)
	}

	var header [][]string
	var foundRows [][]string
	foundItems := map[string]bool{}

	for _, path := range files {
		if len(foundItems) == len(req.Items) {
			break
		}
		f, err := manifest.Open(path)
		if err != nil {
			h.log.Warn("open archived file failed", zap.String("file", path), zap.Error(err))
			continue
		}
		s := f.Sheet

		if header == nil {
			for r := 0; r < manifest.DataStart; r++ {
				row := make([]string, manifest.ColumnCount)
				for c := range row {
					row[c] = s.RawCell(r, c)
				}
				header = append(header, row)
			}
		}

		for r := manifest.DataStart; r < s.RowCount(); r++ {
			matched := ""
			for _, c := range editCols {
				v := util.CleanInput(s.Cell(r, c))
				if v != "" && !foundItems[v] && containsItem(req.Items, v) {
					matched = v
					break
				}
			}
			if matched == "" {
				continue
			}
			foundItems[matched] = true

			row := make([]string, manifest.ColumnCount)
			for c := range row {
				// Gate stamps stay behind; the truck re-enters fresh.
				if c == manifest.ColGateIn || c == manifest.ColGateOut {
					continue
				}
				row[c] = s.RawCell(r, c)
			}
			foundRows = append(foundRows, row)
		}
	}

	if len(foundRows) == 0 {
		return fmt.Sprintf("ບໍ່ພົບລົດ/ຫາງ/ຕູ້ ທີ່ລະບຸ (%s) ໃນວັນທີ %s", strings.Join(req.Items, ", "), sourceStr)
	}

	header[manifest.DateRow][manifest.DateCol] = targetStr
	sheet := manifest.NewSheet(append(header, foundRows...))

	custName := "UNKNOWN_CUSTOMER"
	if len(customers) > 0 {
		custName = customers[0]
	}
	tmpPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("POSTPONED_%s_%dTrucks.xlsx", util.SanitizeFilename(custName), len(foundRows)))
	out := &manifest.File{SheetName: "Postponed", Sheet: sheet}
	if err := manifest.Save(out, tmpPath); err != nil {
		return fmt.Sprintf("ສ້າງໄຟລ໌ບໍ່ສຳເລັດ: %v", err)
	}
	defer os.Remove(tmpPath)

	meta := internal.IntakeMeta{
		Filename:  filepath.Base(tmpPath),
		GroupName: group,
		Body:      "POSTPONE-" + targetStr,
		SentAt:    now,
	}
	outcome, err := h.svc.ProcessFile(tmpPath, meta)
	if err != nil {
		return fmt.Sprintf("ຍ້າຍຂໍ້ມູນແລ້ວ ແຕ່ການປະມວນຜົນຜິດພາດ: %v", err)
	}
	if !outcome.Accepted {
		return fmt.Sprintf("ຍ້າຍຂໍ້ມູນແລ້ວ ແຕ່ການປະມວນຜົນຜິດພາດ:\n%s", outcome.Reply)
	}
	return fmt.Sprintf("✅ ຍ້າຍຂໍ້ມູນ %d ລາຍການ ໄປວັນທີ %s ສຳເລັດ!", len(foundRows), req.TargetDate)
}

func containsItem(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func parseDMY(v string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("bad date: %s", v)
	}
	dd, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	yyyy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("bad date: %s", v)
	}
	if yyyy < 100 {
		yyyy += 2000
	}
	return time.Date(yyyy, time.Month(mm), dd, 0, 0, 0, 0, loc), nil
}
