package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"yardgate/internal"
	"yardgate/internal/directory"
	"yardgate/internal/manifest"
	"yardgate/internal/rules"
)

var (
	reDigits     = regexp.MustCompile(`^\d+$`)
	reFourDigits = regexp.MustCompile(`^\d{4}$`)
)

// RunCustomer is the customer a manifest resolved to. One manifest belongs to
// exactly one paying customer.
type RunCustomer struct {
	ID    string
	Name  string
	Short string
}

type Validator struct {
	rules *rules.Rulebook
	dir   *directory.Directory
}

func NewValidator(rb *rules.Rulebook, dir *directory.Directory) *Validator {
	return &Validator{rules: rb, dir: dir}
}

// RowKindOf classifies a data row.
func RowKindOf(s *manifest.Sheet, r int) internal.RowKind {
	if s.Cell(r, manifest.ColTruck) != "" {
		return internal.RowData
	}
	if s.RowEmpty(r) {
		return internal.RowEmpty
	}
	return internal.RowLazy
}

// Validate walks every data row, accumulating all violations per row instead
// of stopping at the first. As a side effect, rows with a resolvable customer
// ID get their customer name cell rewritten from the directory.
func (v *Validator) Validate(s *manifest.Sheet) (*internal.ValidationReport, RunCustomer) {
	report := &internal.ValidationReport{}
	var customer RunCustomer

	// Ordered first-seen customer IDs with the rows that carry them.
	idOrder := []string{}
	idRows := map[string][]int{}

	lazyStarted := false

	for r := manifest.DataStart; r < s.RowCount(); r++ {
		display := r - manifest.DataStart + 1

		rawID := s.Cell(r, manifest.ColCustomerID)
		if reDigits.MatchString(rawID) {
			id := v.rules.ResolveID(rawID)
			if _, seen := idRows[id]; !seen {
				idOrder = append(idOrder, id)
			}
			idRows[id] = append(idRows[id], display)
		}

		switch RowKindOf(s, r) {
		case internal.RowEmpty:
			continue
		case internal.RowLazy:
			lazyStarted = true
			continue
		}

		truck := s.Cell(r, manifest.ColTruck)
		if lazyStarted {
			report.Add(display, fmt.Sprintf("ພົບຂໍ້ມູນລົດ (%s) ຫຼັງຈາກແຖວທີ່ວ່າງ, ກະລຸນາຈັດລຽງຂໍ້ມູນໃຫ້ຕໍ່ກັນ", truck))
		}

		v.validateRow(s, r, display, report, &customer)
	}

	if len(idOrder) > 1 {
		for _, otherID := range idOrder[1:] {
			for _, display := range idRows[otherID] {
				report.Add(display, fmt.Sprintf("Customer ID (ລະຫັດບໍລິສັດ) %s ບໍ່ຄືກັບລະຫັດໃນແຖວກ່ອນໜ້າ, ບໍ່ຄວນໃສ່ລະຫັດເກີນ 1 ບໍລິສັດ/ໄຟລ໌", otherID))
			}
		}
	}

	return report, customer
}

func (v *Validator) validateRow(s *manifest.Sheet, r, display int, report *internal.ValidationReport, customer *RunCustomer) {
	add := func(msg string) { report.Add(display, msg) }
	header := s.Header

	mode := s.Cell(r, manifest.ColMode)
	loadType := s.Cell(r, manifest.ColLoadType)
	route := s.Cell(r, manifest.ColRoute)
	name := s.Cell(r, manifest.ColCustomerName)
	rawID := s.Cell(r, manifest.ColCustomerID)
	truck := s.Cell(r, manifest.ColTruck)
	trailer := s.Cell(r, manifest.ColTrailer)
	containerIn := s.Cell(r, manifest.ColContainerIn1)
	truckSize := s.Cell(r, manifest.ColTruckSize)
	containerSize := s.Cell(r, manifest.ColContainerSize)
	act1 := s.Cell(r, manifest.ColAct1)

	if truckSize == "" {
		add(fmt.Sprintf("%s (ຂະໜາດລົດ), ບໍ່ຄວນວ່າງ", header(manifest.ColTruckSize)))
	}
	if reFourDigits.MatchString(truck) {
		add(fmt.Sprintf("%s (ລົດ), ບໍ່ອະນຸຍາດໃຫ້ໃສ່ເລກ 4 ໂຕລ້ວນ (ຕ້ອງມີຕົວອັກສອນລາວ ຕົວຢ່າງ: ບກ%s)", header(manifest.ColTruck), truck))
	}

	// Act2..Act8 must come from the activity list; Act1 is covered by the
	// admission fee rule below.
	for c := manifest.ColAct2; c <= manifest.ColAct1+7; c++ {
		act := s.Cell(r, c)
		if act == "" {
			continue
		}
		if _, err := strconv.ParseFloat(act, 64); err == nil {
			add(fmt.Sprintf("%s ບໍ່ອະນຸຍາດໃຫ້ໃສ່ຕົວເລກ (%s), ຕ້ອງເລືອກຈາກລາຍການ", header(c), act))
		} else if !v.rules.ValidActivity(act) {
			add(fmt.Sprintf("%s (%s) ບໍ່ຢູ່ໃນລາຍການທີ່ອະນຸຍາດ", header(c), act))
		}
	}

	if mode != "" && v.rules.KnownMode(mode) && !v.rules.ValidRoute(mode, route) {
		add(fmt.Sprintf("%s (ເສັ້ນທາງຂົນສົ່ງ), ບໍ່ຖືກຕາມ %s", header(manifest.ColRoute), mode))
	}

	if mode == "" {
		add(fmt.Sprintf("%s (ປະເພດຂົນສົ່ງ), ບໍ່ຄວນວ່າງ", header(manifest.ColMode)))
	}
	if loadType == "" {
		add(fmt.Sprintf("%s (ຕູ້ເຕັມ ຫຼື ເປົ່າ), ບໍ່ຄວນວ່າງ", header(manifest.ColLoadType)))
	}
	if route == "" {
		add(fmt.Sprintf("%s (ເສັ້ນທາງຂົນສົ່ງ), ບໍ່ຄວນວ່າງ", header(manifest.ColRoute)))
	}
	if name == "" {
		add(fmt.Sprintf("%s (ຊື່ເຕັມບໍລິສັດ), ບໍ່ຄວນວ່າງ", header(manifest.ColCustomerName)))
	}

	if !reDigits.MatchString(rawID) {
		add(fmt.Sprintf("%s (ໄອດີບໍລິສັດ), ຕ້ອງເປັນຕົວເລກ", header(manifest.ColCustomerID)))
	} else {
		id := v.rules.ResolveID(rawID)
		if c, ok := v.dir.Resolve(id); ok {
			s.SetCell(r, manifest.ColCustomerName, c.Name)
			if customer.ID == "" {
				customer.ID = id
				customer.Name = c.Name
				customer.Short = c.Short
			}
		} else {
			add(fmt.Sprintf("%s (ໄອດີ %s), ບໍ່ພົບໃນລາຍຊື່ລູກຄ້າ", header(manifest.ColCustomerID), id))
		}
	}

	if truckSize != "" && !v.rules.ValidTruckSize(truckSize) {
		add(fmt.Sprintf("%s ປະເພດລົດບໍ່ຖືກຕ້ອງ", header(manifest.ColTruckSize)))
	}

	for _, c := range manifest.MustBeEmptyCols {
		if s.Cell(r, c) != "" {
			add(fmt.Sprintf("%s ບໍ່ຄວນມີຂໍ້ມູນ", header(c)))
		}
	}

	if trailer != "" && v.rules.IsNoTrailerTruck(truckSize) {
		add(fmt.Sprintf("%s ບໍ່ຄວນເປັນ %s ເມື່ອມີ %s", header(manifest.ColTruckSize), strings.Join(v.rules.NoTrailerTrucks, ", "), header(manifest.ColTrailer)))
	}

	if containerIn != "" {
		if containerSize == "" {
			add(fmt.Sprintf("%s ບໍ່ຄວນວ່າງເມື່ອມີເລກຕູ້", header(manifest.ColContainerSize)))
		} else if !v.rules.ValidContainerSize(containerSize) {
			add(fmt.Sprintf("%s ຂະໜາດຕູ້ບໍ່ຖືກຕ້ອງ", header(manifest.ColContainerSize)))
		}
	} else if containerSize != "" {
		add(fmt.Sprintf("%s ບໍ່ຄວນລະບຸຂະໜາດຕູ້ເມື່ອບໍ່ມີເລກຕູ້", header(manifest.ColContainerIn1)))
	}

	if loadType == "FCL" {
		if act1 == "" {
			add(fmt.Sprintf("%s ບໍ່ໄດ້ໃສ່ຄ່າຜ່ານລົດ", header(manifest.ColAct1)))
		} else if fee, ok := v.rules.AdmissionFees[truckSize]; ok && act1 != fee {
			add(fmt.Sprintf("%s ຄ່າຜ່ານລົດບໍ່ຕົງກັບ %s", header(manifest.ColAct1), truckSize))
		}
	}
}

// ShiftLeadingEmptyRows drops empty rows between the header and the first
// data row so data always starts at row 5.
func ShiftLeadingEmptyRows(s *manifest.Sheet) {
	first := -1
	for r := manifest.DataStart; r < s.RowCount(); r++ {
		if !s.RowEmpty(r) {
			first = r
			break
		}
	}
	if first > manifest.DataStart {
		s.DeleteRows(manifest.DataStart, first-1)
	}
}
