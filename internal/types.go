package internal

import "time"

type RowKind int

const (
	// RowData has a truck number and goes through full validation.
	RowData RowKind = iota
	// RowLazy carries some data but no truck number. It passes on its own,
	// but no data row may follow it.
	RowLazy
	// RowEmpty is blank in every key column.
	RowEmpty
)

// IntakeMeta is transport-level metadata that arrives alongside a manifest.
type IntakeMeta struct {
	Filename  string
	GroupName string
	Body      string
	SentAt    time.Time
	Shipping  bool
}

type RowIssues struct {
	Row      int
	Problems []string
}

// ValidationReport accumulates per-row violations in row order plus an
// optional manifest-level date error. Row numbers are 1-based display numbers.
type ValidationReport struct {
	DateError string
	Rows      []RowIssues
}

func (r *ValidationReport) Add(row int, problem string) {
	for i := range r.Rows {
		if r.Rows[i].Row == row {
			r.Rows[i].Problems = append(r.Rows[i].Problems, problem)
			return
		}
	}
	r.Rows = append(r.Rows, RowIssues{Row: row, Problems: []string{problem}})
}

func (r *ValidationReport) Empty() bool {
	return r.DateError == "" && len(r.Rows) == 0
}

type Customer struct {
	Name  string
	Short string
}

type PrintJob struct {
	CustomerName string `json:"customerName"`
	TruckNo      string `json:"truck_no"`
	TrailerNo    string `json:"trailer_no"`
	Date         string `json:"date"`
	IsLoloCase   bool   `json:"isLoloCase"`
}

// Classification carries the manifest-level flags the normalizer derives and
// the matcher and archive steps consume.
type Classification struct {
	TruckCount    int
	HasLolo       bool
	HasContainer  bool
	HasFCL        bool
	HasEmpty      bool
	MixedOverride bool
	MissingRemark bool
}

type ManifestRow struct {
	ID         int
	Filename   string
	GroupName  string
	Hash       string
	Status     string
	CustomerID string
	JobNo      string
	ArchiveRef string
	ReceivedAt string
}

// Outcome is what a full processing run produces for the caller: the reply
// text to send back, plus the artifacts of an accepted manifest.
type Outcome struct {
	Accepted    bool
	Reply       string
	Warnings    []string
	JobNo       string
	CustomerID  string
	ArchivePath string
	PrintPaths  []string
}
