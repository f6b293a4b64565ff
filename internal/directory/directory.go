package directory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"yardgate/internal"
)

// Directory serves customer lookups from the shared customer list workbook.
// The list is edited by hand throughout the day, so an unknown ID triggers
// one reload before it is reported as missing.
type Directory struct {
	path string

	mu        sync.RWMutex
	customers map[string]internal.Customer
}

func New(path string) *Directory {
	return &Directory{path: path, customers: map[string]internal.Customer{}}
}

// Load reads the workbook: IDs in column A, full names in column C, short
// names in column D, data from row 4.
func (d *Directory) Load() error {
	f, err := excelize.OpenFile(d.path)
	if err != nil {
		return fmt.Errorf("open customer list: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("customer list has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read customer list: %w", err)
	}

	customers := map[string]internal.Customer{}
	for i := 3; i < len(rows); i++ {
		row := rows[i]
		id := cell(row, 0)
		name := cell(row, 2)
		short := cell(row, 3)
		if id == "" || name == "" {
			continue
		}
		if short == "" {
			short = ShortFromName(name)
		}
		customers[id] = internal.Customer{Name: name, Short: short}
	}

	d.mu.Lock()
	d.customers = customers
	d.mu.Unlock()
	return nil
}

func (d *Directory) Get(id string) (internal.Customer, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.customers[id]
	return c, ok
}

// Resolve looks up id, reloading the list once when it is not found.
func (d *Directory) Resolve(id string) (internal.Customer, bool) {
	if c, ok := d.Get(id); ok {
		return c, true
	}
	if err := d.Load(); err != nil {
		return internal.Customer{}, false
	}
	return d.Get(id)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.customers)
}

// All returns a snapshot of the directory, for group name matching.
func (d *Directory) All() []internal.Customer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]internal.Customer, 0, len(d.customers))
	for _, c := range d.customers {
		out = append(out, c)
	}
	return out
}

// MatchGroupName returns the short names of every customer whose full or
// short name appears in the chat group name.
func (d *Directory) MatchGroupName(groupName string) []string {
	upper := strings.ToUpper(groupName)
	seen := map[string]bool{}
	out := []string{}
	for _, c := range d.All() {
		if strings.Contains(upper, strings.ToUpper(c.Name)) || strings.Contains(upper, strings.ToUpper(c.Short)) {
			if !seen[c.Short] {
				seen[c.Short] = true
				out = append(out, c.Short)
			}
		}
	}
	return out
}

// ShortFromName derives a short name when the list has none: words joined
// with underscores, uppercased.
func ShortFromName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), "_"))
}

func cell(row []string, c int) string {
	if c < len(row) {
		return strings.TrimSpace(row[c])
	}
	return ""
}
