package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"yardgate/internal"
	"yardgate/internal/manifest"
	"yardgate/internal/pipeline"
	"yardgate/internal/util"
)

const createHelpText = `ℹ️ *ຄຳແນະນຳການສ້າງໄຟລ໌ດ້ວຍຕົວເອງ:*
1️⃣ Shipment Mode (ໂໝດການຂົນສົ່ງ)? (IMP / EXP / DOM / TRANSIT)
2️⃣ Shipment Type (ປະເພດການຂົນສົ່ງ)? (FCL / EMPTY / CONSOL)
3️⃣ Route (ເສັ້ນທາງການຂົນສົ່ງ)? (TH-LA, LA-TH, VN-TH, TH-VN)
4️⃣ Customer ID (ໄອດີບໍລິສັດຜູ້ຈ່າຍເງິນ) ?
5️⃣ Truck No. / Trailer No. / Container No. (ເລກລົດ / ເລກຫາງ / ເລກຕູ້)?
6️⃣ Truck Size (ຈຳນວນລໍ້ລົດ ຫົວ + ຫາງ)? (4WT, 6WT, 10WT, 12WT, 18WT, 22WT)
7️⃣ Container Size (ຂະໜາດຕູ້)? (20 STD, 40HC, 45HC, 50HC)
8️⃣ Gross Weight (ນ້ຳໜັກ)? (ໂຕເລກເທົ່ານັ້ນ)
9️⃣ Cargo Value (ລາຄາເຄື່ອງ)? (ໂຕເລກເທົ່ານັ້ນ)
1️⃣0️⃣ Remark (ປະເພດສິນຄ້າ)?

💡 *ຕົວຢ່າງ:*
@bot create
IMP, FCL, TH-LA, 20183, 701163 / 701164 / TEST123465, 22WT, 45HC, 0, 0, ມັນຕົ້ນ
IMP, FCL, TH-LA, 20183, 701234 / 701235 / TEST790564, 22WT, 45HC, 0, 0, ມັນຕົ້ນ`

var (
	reCommandWords = regexp.MustCompile(`(?i)@bot|@pa\s+bot|create`)

	reModeToken  = regexp.MustCompile(`(?i)^(TRA|TRANSIT|DOM|DOMESTIC|IMP|IMPORT|EXP|EXPORT|LC|OUTSIDE)$`)
	reTypeToken  = regexp.MustCompile(`(?i)^(FCL|LCL|EMPTY|FTL|CONSOL)$`)
	reRouteToken = regexp.MustCompile(`(?i)^[A-Z]{2}-[A-Z]{2}$`)
	reCustToken  = regexp.MustCompile(`^\d{4,}$`)
	reSizeToken  = regexp.MustCompile(`(?i)^\d+\s?(WT|HC|FT|DC|STD|OT)$`)
	reLaoTruck   = regexp.MustCompile(`[ກ-ຮ]+\d+`)
	reNumToken   = regexp.MustCompile(`^\d+$`)
)

// Manual entries only allow the common lanes; the odd routes go through a
// submitted file.
var manualRoutes = map[string][]string{
	"TRANSIT":  {"TH-VN", "VN-TH"},
	"DOMESTIC": {"LA-LA"},
	"EXPORT":   {"LA-TH", "LA-VN", "LA-CN"},
	"IMPORT":   {"TH-LA", "VN-LA", "CN-LA"},
}

var modeAliases = map[string]string{
	"TRA": "TRANSIT", "DOM": "DOMESTIC", "IMP": "IMPORT", "EXP": "EXPORT",
}

type manualEntry struct {
	mode          string
	loadType      string
	route         string
	customerID    string
	truck         string
	trailer       string
	container     string
	truckSize     string
	containerSize string
	weight        string
	value         string
	remark        []string
}

// Create builds a manifest from free-text lines, one truck per line, tokens
// separated by commas and recognized by shape, then runs it through the full
// intake flow.
func (h *Handler) Create(group, input string) string {
	var entries []manualEntry
	var errs []string

	lineNo := 0
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineNo++

		entry := parseManualLine(line)

		var missing []string
		for _, f := range []struct{ name, val string }{
			{"mode", entry.mode},
			{"type", entry.loadType},
			{"route", entry.route},
			{"customerId", entry.customerID},
			{"truck", entry.truck},
			{"truckSize", entry.truckSize},
		} {
			if f.val == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("Line %d: ຂາດ %s", lineNo, strings.Join(missing, ", ")))
			continue
		}

		if lanes, ok := manualRoutes[entry.mode]; ok && !containsItem(lanes, entry.route) {
			errs = append(errs, fmt.Sprintf("Line %d: ຜິດພາດ %s ກັບ %s", lineNo, entry.mode, entry.route))
			continue
		}

		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		return fmt.Sprintf("⚠️ ພົບຂໍ້ຜິດພາດ:\n%s\n(ບໍ່ໄດ້ສ້າງໄຟລ໌)", strings.Join(errs, "\n"))
	}
	if len(entries) == 0 {
		return "⚠️ ບໍ່ພົບຂໍ້ມູນທີ່ຖືກຕ້ອງ."
	}

	now := h.now()
	sheet := h.buildManualSheet(entries, pipeline.DateStr(now))

	first := entries[0]
	tmpPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("MANUAL_%s_%s_%d.xlsx", util.SanitizeFilename(first.mode), first.customerID, now.UnixMilli()))
	out := &manifest.File{SheetName: "Manual", Sheet: sheet}
	if err := manifest.Save(out, tmpPath); err != nil {
		return fmt.Sprintf("ສ້າງໄຟລ໌ບໍ່ສຳເລັດ: %v", err)
	}
	defer os.Remove(tmpPath)

	meta := internal.IntakeMeta{
		Filename:  filepath.Base(tmpPath),
		GroupName: group,
		SentAt:    now,
	}
	outcome, err := h.svc.ProcessFile(tmpPath, meta)
	if err != nil {
		return fmt.Sprintf("ສ້າງໄຟລ໌ໄດ້ ແຕ່ການອັບໂຫຼດລົ້ມເຫຼວ: %v", err)
	}
	if !outcome.Accepted {
		return fmt.Sprintf("ສ້າງໄຟລ໌ໄດ້ ແຕ່ການອັບໂຫຼດລົ້ມເຫຼວ:\n%s", outcome.Reply)
	}
	return fmt.Sprintf("✅ ສ້າງ %d ລາຍການ ແລະ ອັບໂຫຼດສຳເລັດ!\n%s - %s", len(entries), first.mode, first.customerID)
}

// parseManualLine sniffs each comma-separated token by shape. Bare numbers
// fill customer ID, truck, weight and value in that order; anything
// unrecognized lands in the remark.
func parseManualLine(line string) manualEntry {
	var e manualEntry

	for _, token := range strings.Split(line, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		upper := strings.ToUpper(token)

		switch {
		case e.mode == "" && reModeToken.MatchString(token):
			if full, ok := modeAliases[upper]; ok {
				e.mode = full
			} else {
				e.mode = upper
			}

		case e.loadType == "" && reTypeToken.MatchString(token):
			e.loadType = upper

		case e.route == "" && reRouteToken.MatchString(token):
			e.route = upper

		case reSizeToken.MatchString(token):
			if strings.HasSuffix(strings.ReplaceAll(upper, " ", ""), "WT") {
				e.truckSize = strings.ReplaceAll(upper, " ", "")
			} else {
				e.containerSize = upper
			}

		case e.truck == "" && (strings.Contains(token, "/") || reLaoTruck.MatchString(token)):
			parts := splitComposite(token)
			e.truck = parts[0]
			if len(parts) > 1 {
				e.trailer = parts[1]
			}
			if len(parts) > 2 {
				e.container = parts[2]
			}

		case reNumToken.MatchString(token):
			switch {
			case e.customerID == "" && len(token) >= 4:
				e.customerID = token
			case e.truck == "":
				e.truck = token
			case e.weight == "":
				e.weight = token
			case e.value == "":
				e.value = token
			default:
				e.remark = append(e.remark, token)
			}

		default:
			e.remark = append(e.remark, token)
		}
	}
	return e
}

func (h *Handler) buildManualSheet(entries []manualEntry, dateStr string) *manifest.Sheet {
	s := manifest.NewSheet(nil)
	s.SetCell(manifest.MarkerRow, 0, manifest.BookingMarker)
	s.SetCell(manifest.DateRow, manifest.DateCol, dateStr)
	s.WriteCanonicalHeader()

	for i, e := range entries {
		r := manifest.DataStart + i
		s.SetCell(r, manifest.ColItem, fmt.Sprintf("%d", i+1))
		s.SetCell(r, manifest.ColMode, e.mode)
		s.SetCell(r, manifest.ColLoadType, e.loadType)
		s.SetCell(r, manifest.ColRoute, e.route)
		s.SetCell(r, manifest.ColCustomerName, "TEMP")
		s.SetCell(r, manifest.ColCustomerID, e.customerID)
		s.SetCell(r, manifest.ColTruck, e.truck)
		s.SetCell(r, manifest.ColTrailer, e.trailer)
		s.SetCell(r, manifest.ColContainerIn1, e.container)
		s.SetCell(r, manifest.ColTruckSize, e.truckSize)
		s.SetCell(r, manifest.ColContainerSize, e.containerSize)
		s.SetCell(r, manifest.ColGrossWeight, e.weight)
		s.SetCell(r, manifest.ColCargoValue, e.value)
		if e.loadType == "FCL" {
			if fee, ok := h.rules.AdmissionFees[e.truckSize]; ok {
				s.SetCell(r, manifest.ColAct1, fee)
			}
		}
		s.SetCell(r, manifest.ColRemark, strings.Join(e.remark, " "))
	}
	return s
}
