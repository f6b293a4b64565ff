package pipeline

import (
	"strings"

	"yardgate/internal"
	"yardgate/internal/manifest"
	"yardgate/internal/rules"
)

// Matcher decides which trucks get a release paper printed. Normal trucks
// print directly; in a LOLO transload only the receiving side prints, found
// by pairing a full container's inbound reference with the empty truck that
// lifts it out.
type Matcher struct {
	rules *rules.Rulebook
}

func NewMatcher(rb *rules.Rulebook) *Matcher {
	return &Matcher{rules: rb}
}

func (m *Matcher) SelectPrintJobs(s *manifest.Sheet, cls internal.Classification, short, dateStr string) []internal.PrintJob {
	jobs := []internal.PrintJob{}
	usedPairs := map[string]bool{}

	shortUpper := strings.ToUpper(short)
	isHardCase := m.rules.IsHardCase(shortUpper)
	isPrintAll := m.rules.IsPrintAllCase(shortUpper)

	last := s.LastTruckRow()
	for r := manifest.DataStart; r <= last; r++ {
		truck := s.Cell(r, manifest.ColTruck)
		if truck == "" {
			continue
		}
		trailer := s.Cell(r, manifest.ColTrailer)
		loadType := strings.ToUpper(s.Cell(r, manifest.ColLoadType))

		if isPrintAll {
			jobs = append(jobs, printJob(short, truck, trailer, dateStr, false))
			continue
		}

		if cls.MixedOverride {
			// Mixed file: the full legs stay inside, only the rest prints.
			if loadType == "FCL" {
				continue
			}
			jobs = append(jobs, printJob(short, truck, trailer, dateStr, false))
			continue
		}

		if rowIsLolo(s, r) && !isHardCase {
			switch {
			case loadType == "FCL" && s.Cell(r, manifest.ColContainerIn1) != "":
				ref := s.Cell(r, manifest.ColContainerIn1)
				if er, ok := m.findEmptyForRef(s, last, ref, usedPairs); ok {
					jobs = appendIfAbsent(jobs, printJob(short, s.Cell(er, manifest.ColTruck), s.Cell(er, manifest.ColTrailer), dateStr, true))
					usedPairs[pairKey(s.Cell(er, manifest.ColTruck), ref)] = true
				}
			case loadType == "EMPTY":
				key := pairKey(truck, s.Cell(r, manifest.ColContainerOut1))
				if usedPairs[key] {
					continue
				}
				if m.hasLiftMarker(s.Cell(r, manifest.ColActOther)) {
					jobs = appendIfAbsent(jobs, printJob(short, truck, trailer, dateStr, true))
					usedPairs[key] = true
				}
			}
			continue
		}

		jobs = append(jobs, printJob(short, truck, trailer, dateStr, false))
	}

	return jobs
}

// findEmptyForRef locates an unconsumed EMPTY row whose outbound container
// matches ref.
func (m *Matcher) findEmptyForRef(s *manifest.Sheet, last int, ref string, usedPairs map[string]bool) (int, bool) {
	for r := manifest.DataStart; r <= last; r++ {
		if s.Cell(r, manifest.ColContainerOut1) != ref {
			continue
		}
		if strings.ToUpper(s.Cell(r, manifest.ColLoadType)) != "EMPTY" {
			continue
		}
		if usedPairs[pairKey(s.Cell(r, manifest.ColTruck), ref)] {
			continue
		}
		return r, true
	}
	return 0, false
}

func (m *Matcher) hasLiftMarker(actOther string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(actOther), ""))
	for _, marker := range m.rules.LiftMarkers {
		if strings.Contains(compact, marker) {
			return true
		}
	}
	return false
}

func printJob(short, truck, trailer, dateStr string, lolo bool) internal.PrintJob {
	return internal.PrintJob{
		CustomerName: short,
		TruckNo:      truck,
		TrailerNo:    trailer,
		Date:         dateStr,
		IsLoloCase:   lolo,
	}
}

func appendIfAbsent(jobs []internal.PrintJob, job internal.PrintJob) []internal.PrintJob {
	for _, existing := range jobs {
		if existing.TruckNo == job.TruckNo {
			return jobs
		}
	}
	return append(jobs, job)
}

func pairKey(truck, ref string) string {
	return truck + "|" + ref
}
