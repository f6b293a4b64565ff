package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yardgate/internal"
	"yardgate/internal/rules"
	"yardgate/internal/util"
)

const (
	tierIncoming   = "Incoming"
	tierReadySVL   = "ReadyToPrintSVL"
	tierReadyPrint = "ReadyToPrint"
)

// Dispatcher drops one JSON file per release paper into the print queue. The
// folder tier decides who handles it: hard-case customers go to Incoming for
// manual review, member shipping lines to ReadyToPrintSVL, everyone else
// straight to ReadyToPrint.
type Dispatcher struct {
	queueDir string
	rules    *rules.Rulebook
}

func NewDispatcher(queueDir string, rb *rules.Rulebook) *Dispatcher {
	return &Dispatcher{queueDir: queueDir, rules: rb}
}

func (d *Dispatcher) Dispatch(jobs []internal.PrintJob, cls internal.Classification, dateStr string) ([]string, error) {
	written := make([]string, 0, len(jobs))
	printedLolo := map[string]bool{}

	for _, job := range jobs {
		if job.IsLoloCase {
			if printedLolo[job.TruckNo] {
				continue
			}
			printedLolo[job.TruckNo] = true
		}

		path, err := d.writeJob(job, cls, dateStr)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (d *Dispatcher) writeJob(job internal.PrintJob, cls internal.Classification, dateStr string) (string, error) {
	safeCustomer := util.SanitizeFilename(job.CustomerName)
	safeTruck := util.SanitizeFilename(job.TruckNo)
	safeTrailer := util.SanitizeFilename(job.TrailerNo)

	tier := tierReadyPrint
	upper := strings.ToUpper(job.CustomerName)
	switch {
	case d.rules.IsHardCase(upper) && !cls.MixedOverride:
		tier = tierIncoming
	case d.rules.IsMemberCase(upper):
		tier = tierReadySVL
	}

	dir := filepath.Join(d.queueDir, dateStr, tier, safeCustomer)
	base := fmt.Sprintf("%s--%s--%s", safeCustomer, safeTruck, safeTrailer)

	var path string
	for suffix := 0; ; suffix++ {
		name := base + ".json"
		if suffix > 0 {
			name = fmt.Sprintf("%s--%dT.json", base, suffix)
		}
		path = filepath.Join(dir, name)
		// A name is taken only when Stat proves it exists. On any failure
		// the name counts as free and the write below reports the cause.
		if _, err := os.Stat(path); err != nil {
			break
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write print job: %w", err)
	}
	return path, nil
}
