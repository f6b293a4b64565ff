package pipeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reDateSeps  = regexp.MustCompile(`[-.]`)
	rePostpone  = regexp.MustCompile(`(?i)POSTPONE-(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	spreadEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

// ResolvedDate is the outcome of reading the declared date cell. Date is
// always set when Err is a window violation, so callers can still show which
// day was declared.
type ResolvedDate struct {
	Date time.Time
	Err  string
}

func (d ResolvedDate) OK() bool { return d.Err == "" }

// ResolveDate interprets the F2 cell: blank means today, a spreadsheet serial
// number above 59 is counted from the 1899-12-30 epoch, a bare 1..31 is a
// day-of-month guess (rolling to next month when the day already passed), and
// anything else must parse as D.M.YYYY with dot, dash or slash separators.
// The resolved day must fall inside [today, today+windowDays].
func ResolveDate(raw string, now time.Time, windowDays int) ResolvedDate {
	today := stripTime(now)
	raw = strings.TrimSpace(raw)

	var parsed time.Time
	switch {
	case raw == "":
		parsed = now
	default:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			switch {
			case v > 59:
				parsed = spreadEpoch.Add(time.Duration(v * 86400 * float64(time.Second)))
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
					parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
			case v >= 1 && v <= 31:
				day := int(math.Trunc(v))
				month := today.Month()
				year := today.Year()
				if day < today.Day() {
					month++
					if month > 12 {
						month = 1
						year++
					}
				}
				parsed = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			default:
				return ResolvedDate{Err: badDateFormat(raw)}
			}
		} else {
			clean := reDateSeps.ReplaceAllString(raw, "/")
			parts := strings.Split(clean, "/")
			if len(parts) != 3 {
				return ResolvedDate{Err: badDateFormat(raw)}
			}
			dd, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			mm, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			yyyy, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err1 != nil || err2 != nil || err3 != nil {
				return ResolvedDate{Err: badDateFormat(raw)}
			}
			parsed = time.Date(yyyy, time.Month(mm), dd, 0, 0, 0, 0, now.Location())
		}
	}

	day := stripTime(parsed)
	if day.Before(today) || day.After(today.AddDate(0, 0, windowDays)) {
		return ResolvedDate{
			Date: parsed,
			Err: fmt.Sprintf("ວັນທີຢື່ນແຈ້ງລົດ (%s) ຕ້ອງຢູ່ໃນໄລຍະ %d ມື້ຂ້າງໜ້າ",
				day.Format("02/01/2006"), windowDays),
		}
	}
	return ResolvedDate{Date: parsed}
}

func badDateFormat(raw string) string {
	return fmt.Sprintf("ຮູບແບບວັນທີບໍ່ຖືກ (%s)", raw)
}

// ParsePostponeDate extracts a POSTPONE-D.M.YYYY token from a message body.
func ParsePostponeDate(body string, loc *time.Location) (time.Time, bool) {
	m := rePostpone.FindStringSubmatch(body)
	if m == nil {
		return time.Time{}, false
	}
	dd, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	yyyy, _ := strconv.Atoi(m[3])
	return time.Date(yyyy, time.Month(mm), dd, 0, 0, 0, 0, loc), true
}

func stripTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateStr formats a date the way folder and file names carry it.
func DateStr(t time.Time) string { return t.Format("02.01.2006") }
