package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"yardgate/internal"
	"yardgate/internal/rules"
)

func TestDispatchTiers(t *testing.T) {
	queue := t.TempDir()
	d := NewDispatcher(queue, rules.Default())

	cases := []struct {
		customer string
		tier     string
	}{
		{"QTH", "Incoming"},
		{"NAPHA_MUM", "ReadyToPrintSVL"},
		{"SVL", "ReadyToPrint"},
	}

	for _, tc := range cases {
		jobs := []internal.PrintJob{{CustomerName: tc.customer, TruckNo: "T1", Date: "15.12.2025"}}
		paths, err := d.Dispatch(jobs, internal.Classification{}, "15.12.2025")
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) != 1 {
			t.Fatalf("%s: paths = %d", tc.customer, len(paths))
		}
		want := filepath.Join(queue, "15.12.2025", tc.tier, tc.customer)
		if filepath.Dir(paths[0]) != want {
			t.Errorf("%s: dir = %s, want %s", tc.customer, filepath.Dir(paths[0]), want)
		}
	}
}

func TestDispatchHardCaseMixedOverrideDowngrades(t *testing.T) {
	d := NewDispatcher(t.TempDir(), rules.Default())
	jobs := []internal.PrintJob{{CustomerName: "QTH", TruckNo: "T1", Date: "15.12.2025"}}

	paths, err := d.Dispatch(jobs, internal.Classification{MixedOverride: true}, "15.12.2025")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(filepath.Dir(filepath.Dir(paths[0]))) != "ReadyToPrint" {
		t.Errorf("mixed hard case should print directly, got %s", paths[0])
	}
}

func TestDispatchCollisionSuffix(t *testing.T) {
	d := NewDispatcher(t.TempDir(), rules.Default())
	job := internal.PrintJob{CustomerName: "SVL", TruckNo: "T1", TrailerNo: "TR1", Date: "15.12.2025"}

	first, err := d.Dispatch([]internal.PrintJob{job}, internal.Classification{}, "15.12.2025")
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Dispatch([]internal.PrintJob{job}, internal.Classification{}, "15.12.2025")
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(first[0]) != "SVL--T1--TR1.json" {
		t.Errorf("first = %s", filepath.Base(first[0]))
	}
	if filepath.Base(second[0]) != "SVL--T1--TR1--1T.json" {
		t.Errorf("second = %s", filepath.Base(second[0]))
	}
}

func TestDispatchBrokenQueueFailsFast(t *testing.T) {
	// A regular file where the queue root should be makes every Stat in the
	// collision scan fail with ENOTDIR. That must surface as an error from
	// the write, not an endless scan for a free name.
	queue := filepath.Join(t.TempDir(), "queue")
	if err := os.WriteFile(queue, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(queue, rules.Default())
	jobs := []internal.PrintJob{{CustomerName: "SVL", TruckNo: "T1", Date: "15.12.2025"}}
	if _, err := d.Dispatch(jobs, internal.Classification{}, "15.12.2025"); err == nil {
		t.Fatal("expected an error from an unusable queue dir")
	}
}

func TestDispatchDedupesLoloTrucks(t *testing.T) {
	d := NewDispatcher(t.TempDir(), rules.Default())
	jobs := []internal.PrintJob{
		{CustomerName: "SVL", TruckNo: "T1", Date: "15.12.2025", IsLoloCase: true},
		{CustomerName: "SVL", TruckNo: "T1", Date: "15.12.2025", IsLoloCase: true},
	}

	paths, err := d.Dispatch(jobs, internal.Classification{HasLolo: true}, "15.12.2025")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %d, want 1", len(paths))
	}
}

func TestDispatchPayload(t *testing.T) {
	d := NewDispatcher(t.TempDir(), rules.Default())
	job := internal.PrintJob{
		CustomerName: "SVL", TruckNo: "T1", TrailerNo: "TR1",
		Date: "15.12.2025", IsLoloCase: true,
	}
	paths, err := d.Dispatch([]internal.PrintJob{job}, internal.Classification{}, "15.12.2025")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	var got internal.PrintJob
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != job {
		t.Errorf("payload = %+v, want %+v", got, job)
	}
}
