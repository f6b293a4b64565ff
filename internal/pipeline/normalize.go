package pipeline

import (
	"strings"

	"yardgate/internal"
	"yardgate/internal/manifest"
	"yardgate/internal/util"
)

// NormalizeResult is what the normalizer learned about the manifest while
// cleaning it.
type NormalizeResult struct {
	Cleaned      bool
	LastTruckRow int
	Class        internal.Classification
}

// Normalize rewrites an accepted sheet into archive form: banner rows
// cleared, trailing junk truncated, lazy rows blanked, identifier columns
// deep-cleaned and uppercased, every truck row stamped CLOSE and given the
// resolved customer name.
func Normalize(s *manifest.Sheet, customer RunCustomer) NormalizeResult {
	res := NormalizeResult{}

	s.ClearRow(0)
	s.ClearRow(2)

	last := s.LastTruckRow()
	s.Truncate(last)
	res.LastTruckRow = last

	for r := manifest.DataStart; r <= last; r++ {
		if s.Cell(r, manifest.ColTruck) == "" {
			s.ClearRow(r)
			continue
		}

		s.SetCell(r, manifest.ColClose, "CLOSE")

		for _, c := range manifest.CleanCols {
			original := s.RawCell(r, c)
			if original == "" {
				continue
			}
			cleaned := util.CleanID(original)
			if cleaned != original {
				res.Cleaned = true
				s.SetCell(r, c, cleaned)
			}
			if c == manifest.ColTruck {
				res.Class.TruckCount++
			}
		}

		s.SetCell(r, manifest.ColCustomerName, customer.Name)
	}

	res.Class = classify(s, last, res.Class.TruckCount)
	return res
}

func classify(s *manifest.Sheet, last, truckCount int) internal.Classification {
	cls := internal.Classification{TruckCount: truckCount, MissingRemark: true}
	for r := manifest.DataStart; r <= last; r++ {
		if s.Cell(r, manifest.ColTruck) == "" {
			continue
		}
		switch strings.ToUpper(s.Cell(r, manifest.ColLoadType)) {
		case "FCL":
			cls.HasFCL = true
		case "EMPTY":
			cls.HasEmpty = true
		}
		if s.Cell(r, manifest.ColContainerIn1) != "" {
			cls.HasContainer = true
		}
		if rowIsLolo(s, r) {
			cls.HasLolo = true
		}
		if s.Cell(r, manifest.ColRemark) != "" {
			cls.MissingRemark = false
		}
	}
	cls.MixedOverride = cls.HasFCL && cls.HasEmpty
	return cls
}

// rowIsLolo: a container going out, or a lift activity in Act2/Act3.
func rowIsLolo(s *manifest.Sheet, r int) bool {
	return s.Cell(r, manifest.ColContainerOut1) != "" ||
		s.Cell(r, manifest.ColAct2) != "" ||
		s.Cell(r, manifest.ColAct3) != ""
}

// StampJobNo writes the job number into every truck row.
func StampJobNo(s *manifest.Sheet, jobNo string) {
	for r := manifest.DataStart; r < s.RowCount(); r++ {
		if s.Cell(r, manifest.ColTruck) == "" {
			continue
		}
		s.SetCell(r, manifest.ColJobNo, jobNo)
	}
}
