package manifest

import "strings"

// Column indexes of the truck booking report, zero-based.
const (
	ColItem          = 0
	ColJobNo         = 1
	ColMode          = 3
	ColLoadType      = 4
	ColRoute         = 5
	ColCustomerName  = 6
	ColCustomerID    = 7
	ColGateIn        = 11
	ColGateOut       = 12
	ColTruck         = 13
	ColTrailer       = 15
	ColContainerIn1  = 17
	ColContainerIn2  = 19
	ColContainerOut1 = 22
	ColContainerOut2 = 24
	ColTruckSize     = 25
	ColContainerSize = 26
	ColGrossWeight   = 28
	ColCargoValue    = 29
	ColAct1          = 33
	ColAct2          = 34
	ColAct3          = 35
	ColActOther      = 41
	ColRemark        = 42
	ColClose         = 43

	// Row layout: the booking marker sits in A2, the declared date in F2,
	// headers in row 4, data from row 5.
	MarkerRow = 1
	DateRow   = 1
	DateCol   = 5
	HeaderRow = 3
	DataStart = 4

	ColumnCount = 44

	BookingMarker = "TRUCK BOOKING REPORT"
)

// MustBeEmptyCols are filled in by the gate, never by the customer.
var MustBeEmptyCols = []int{8, 9, 10, 11, 12, 14, 16, 18, 20, 21, 23, 27, 30, 31, 32}

// EmptyCheckCols decide whether a row counts as empty at all.
var EmptyCheckCols = []int{ColMode, ColLoadType, ColRoute, ColCustomerName, ColCustomerID, ColTruck, ColTruckSize}

// CleanCols get the aggressive identifier cleanup during normalization.
var CleanCols = []int{ColTruck, ColTrailer, ColContainerIn1, ColContainerIn2, ColContainerOut1, ColContainerOut2}

// CanonicalHeader is the header row every archived file carries, whatever
// state the submitted file's header was in.
var CanonicalHeader = []string{
	"ITEM", "Job  No.", "Mode**", "Shipment Mode", "Shipment Type", "Routing",
	"Customer Name", "Customer ID", "Shipper", "Consignee", "Bill To",
	"Gate In Date & Time", "Gate Out Date & Time", "Truck In No.",
	"Truck Plate - Front Image", "Trailer In No.", "Trailer Plate - Rear Image",
	"Container In 1", "Container In 1 - Image", "Container In 2",
	"Truck Out No.", "Trailer Out No.", "Container Out 1",
	"Container Out 1 - Image", "Container Out 2", "TRUCK / Size **",
	"CONTAINER / SIZE*", "Seal No.", "Gross Weight (Kgs)", "Cargo Value",
	"Pickup Location", "Delivery Place", "Master List No.",
	"Act1", "Act2", "Act3", "Act4", "Act5", "Act6", "Act7", "Act8",
	"Act Other", "Remark", "Close",
}

// Sheet is an in-memory cell grid. All pipeline stages mutate the grid and
// the codec writes it back out, so nothing outside the touched cells is lost.
type Sheet struct {
	rows [][]string
}

func NewSheet(rows [][]string) *Sheet {
	return &Sheet{rows: rows}
}

// Cell returns the trimmed value at r,c; out-of-range reads are empty.
func (s *Sheet) Cell(r, c int) string {
	if r < 0 || r >= len(s.rows) {
		return ""
	}
	row := s.rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}

// RawCell returns the value without trimming.
func (s *Sheet) RawCell(r, c int) string {
	if r < 0 || r >= len(s.rows) {
		return ""
	}
	row := s.rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

func (s *Sheet) SetCell(r, c int, v string) {
	for r >= len(s.rows) {
		s.rows = append(s.rows, nil)
	}
	for c >= len(s.rows[r]) {
		s.rows[r] = append(s.rows[r], "")
	}
	s.rows[r][c] = v
}

func (s *Sheet) ClearRow(r int) {
	if r >= 0 && r < len(s.rows) {
		s.rows[r] = nil
	}
}

// DeleteRows removes rows from..to inclusive, shifting the rest up.
func (s *Sheet) DeleteRows(from, to int) {
	if from < 0 || from >= len(s.rows) || to < from {
		return
	}
	if to >= len(s.rows) {
		to = len(s.rows) - 1
	}
	s.rows = append(s.rows[:from], s.rows[to+1:]...)
}

// Truncate drops every row after r.
func (s *Sheet) Truncate(r int) {
	if r+1 < len(s.rows) {
		s.rows = s.rows[:r+1]
	}
}

func (s *Sheet) RowCount() int { return len(s.rows) }

func (s *Sheet) Rows() [][]string { return s.rows }

// Clone deep-copies the grid. The re-entry derivative edits a copy while the
// archived original must stay intact.
func (s *Sheet) Clone() *Sheet {
	rows := make([][]string, len(s.rows))
	for i, row := range s.rows {
		rows[i] = append([]string(nil), row...)
	}
	return &Sheet{rows: rows}
}

// RowEmpty reports whether all EmptyCheckCols are blank in row r.
func (s *Sheet) RowEmpty(r int) bool {
	for _, c := range EmptyCheckCols {
		if s.Cell(r, c) != "" {
			return false
		}
	}
	return true
}

// LastTruckRow returns the index of the last data row with a truck number,
// or DataStart-1 when there is none.
func (s *Sheet) LastTruckRow() int {
	last := DataStart - 1
	for r := DataStart; r < len(s.rows); r++ {
		if s.Cell(r, ColTruck) != "" {
			last = r
		}
	}
	return last
}

// HasBookingMarker checks the A2 guard cell.
func (s *Sheet) HasBookingMarker() bool {
	return strings.Contains(s.Cell(MarkerRow, 0), BookingMarker)
}

// Header returns the header cell for column c, with a positional fallback
// when the submitted file left it blank.
func (s *Sheet) Header(c int) string {
	if h := s.Cell(HeaderRow, c); h != "" {
		return h
	}
	if c >= 0 && c < len(CanonicalHeader) {
		return CanonicalHeader[c]
	}
	return ""
}

// WriteCanonicalHeader overwrites row 4 with the canonical header names.
func (s *Sheet) WriteCanonicalHeader() {
	for c, h := range CanonicalHeader {
		s.SetCell(HeaderRow, c, h)
	}
}
