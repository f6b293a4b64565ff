package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rulebook carries the business reference data the validator and matcher work
// from. Compiled-in defaults match the operating procedure at the yard; a
// yaml file can override or extend individual lists without a rebuild.
type Rulebook struct {
	RoutesByMode    map[string][]string `yaml:"routesByMode"`
	TruckSizes      []string            `yaml:"truckSizes"`
	ContainerSizes  []string            `yaml:"containerSizes"`
	Activities      []string            `yaml:"activities"`
	AdmissionFees   map[string]string   `yaml:"admissionFees"`
	HardCase        []string            `yaml:"hardCase"`
	MemberCase      []string            `yaml:"memberCase"`
	PrintAllCase    []string            `yaml:"printAllCase"`
	IDOverrides     map[string]string   `yaml:"idOverrides"`
	LiftMarkers     []string            `yaml:"liftMarkers"`
	NoTrailerTrucks []string            `yaml:"noTrailerTrucks"`
}

func Default() *Rulebook {
	return &Rulebook{
		RoutesByMode: map[string][]string{
			"IMPORT":   {"TH-LA", "VN-LA"},
			"EXPORT":   {"LA-TH", "LA-VN"},
			"DOMESTIC": {"LA-LA", "SVK-VTE"},
			"TRANSIT":  {"VN-TH", "TH-VN", "TH-KH"},
		},
		TruckSizes: []string{
			"4WT", "6WT", "10WT", "12WT", "18WT", "22WT",
			"OPEN TRUCK", "LOW BED", "OVERSIZE TRUCK",
		},
		ContainerSizes: []string{
			"20STD", "20 OT", "20 FLAT RACK", "40 STD", "40HC",
			"40 OPEN TOP", "40 FLAT RACK", "45HC", "50HC",
		},
		Activities: []string{
			"Admission GATE Fee 04 Wheels",
			"Admission GATE Fee 06 Wheels",
			"Admission GATE Fee 10 Wheels",
			"Admission GATE Fee 12 Wheels",
			"Admission GATE Fee More 12Wheels",
			"Printing ASYCUDA Form",
			"Customs Document Fee (IMP / EXP) shipping out side",
			"Copy Document",
			"Smart Tax Service Fee",
			"LOLO 40 45 (TH-VN) (VN-TH) INTER TRANSIT",
			"LOLO 20 (TH-VN) (VN-TH) INTER TRANSIT",
			"Lift on / off 40 Full",
			"Lift on / off 20 Full",
			"Lift on / off 40 empty",
			"Lift on / off 20 empty",
			"Storage Fee",
			"Parking Fee",
			"Over Time Fee",
			"Reefer plug in charge",
			"Truck Weight scale Charge",
			"Fumigation Service",
			"Transload  by Forklift",
			"Transload  by Crane",
			"Transload  by Man Powers",
			"Forklift Rental Service Fee 3.5ton",
			"Forklift Rental Service Fee 4.5ton",
			"Repacking",
			"Import LCL domestics",
			"Import FCL domestics",
			"Export LCL domestics",
			"Export FTL domestics",
			"Separate Cargo",
			"Combine Cargo",
			"Local Delivery Cargo in Free Zone C",
			"Local Pick up Cargo In Free Zone C",
			"Pick up Empty TH truck",
			"Delivery Order Fee (D/O)",
			"D/O Fee for Using Foreign Truck to Factory",
			"Application Form",
		},
		AdmissionFees: map[string]string{
			"4WT":  "Admission GATE Fee 04 Wheels",
			"6WT":  "Admission GATE Fee 06 Wheels",
			"10WT": "Admission GATE Fee 10 Wheels",
			"12WT": "Admission GATE Fee 12 Wheels",
			"18WT": "Admission GATE Fee More 12 Wheels",
			"22WT": "Admission GATE Fee More 12 Wheels",
		},
		HardCase: []string{
			"NNL", "XAYMANY", "SILINTHONE", "STL", "JIN_C", "ST_GROUP",
			"SENGDAO", "KOLAO", "AUTO_WORLD_KOLAO", "LAOCHAROEN",
			"KHEUANKAM", "VX_CHALERN", "INDOCHINA", "MUCDASUB",
			"LAO_FAMOUS", "ALINE", "VATTHANA", "VONGVADTHANA", "OLASA",
			"SAVANVALY", "MITR_LAO_SUGAR", "KANLAYA", "SAIYPHOULUANG",
			"SAVAN_INTER_TRADING", "LAOMOUNGKHOUN", "QTH",
		},
		MemberCase: []string{
			"SUN_PAPER_HOLDING", "INTER_TRANSPORT", "SUN_PAPER_SAVANNAKHET",
			"MITR_LAO_SUGAR", "SAVANH_FER", "NAPHA_MUM",
		},
		PrintAllCase: []string{"KING"},
		IDOverrides: map[string]string{
			"20196": "2318",
			"20178": "2317",
		},
		LiftMarkers: []string{"ຍົກຈາກລານ", "ຈາກລານ"},
		NoTrailerTrucks: []string{"4WT", "6WT", "10WT"},
	}
}

// Load returns the defaults merged with overrides from path. A missing file
// is not an error.
func Load(path string) (*Rulebook, error) {
	rb := Default()
	if path == "" {
		return rb, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rb, nil
		}
		return nil, fmt.Errorf("read rulebook: %w", err)
	}

	var override Rulebook
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse rulebook %s: %w", path, err)
	}
	rb.merge(&override)
	return rb, nil
}

func (rb *Rulebook) merge(o *Rulebook) {
	if len(o.RoutesByMode) > 0 {
		for mode, routes := range o.RoutesByMode {
			rb.RoutesByMode[mode] = routes
		}
	}
	if len(o.TruckSizes) > 0 {
		rb.TruckSizes = o.TruckSizes
	}
	if len(o.ContainerSizes) > 0 {
		rb.ContainerSizes = o.ContainerSizes
	}
	if len(o.Activities) > 0 {
		rb.Activities = append(rb.Activities, o.Activities...)
	}
	if len(o.AdmissionFees) > 0 {
		for size, fee := range o.AdmissionFees {
			rb.AdmissionFees[size] = fee
		}
	}
	if len(o.HardCase) > 0 {
		rb.HardCase = append(rb.HardCase, o.HardCase...)
	}
	if len(o.MemberCase) > 0 {
		rb.MemberCase = append(rb.MemberCase, o.MemberCase...)
	}
	if len(o.PrintAllCase) > 0 {
		rb.PrintAllCase = append(rb.PrintAllCase, o.PrintAllCase...)
	}
	if len(o.IDOverrides) > 0 {
		for from, to := range o.IDOverrides {
			rb.IDOverrides[from] = to
		}
	}
	if len(o.LiftMarkers) > 0 {
		rb.LiftMarkers = o.LiftMarkers
	}
	if len(o.NoTrailerTrucks) > 0 {
		rb.NoTrailerTrucks = o.NoTrailerTrucks
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func (rb *Rulebook) ValidRoute(mode, route string) bool {
	routes, ok := rb.RoutesByMode[mode]
	if !ok {
		return true
	}
	return contains(routes, route)
}

// KnownMode reports whether the mode has a route table at all. Unknown modes
// skip route validation.
func (rb *Rulebook) KnownMode(mode string) bool {
	_, ok := rb.RoutesByMode[mode]
	return ok
}

func (rb *Rulebook) ValidTruckSize(size string) bool     { return contains(rb.TruckSizes, size) }
func (rb *Rulebook) ValidContainerSize(size string) bool { return contains(rb.ContainerSizes, size) }
func (rb *Rulebook) ValidActivity(act string) bool       { return contains(rb.Activities, act) }
func (rb *Rulebook) IsHardCase(short string) bool        { return contains(rb.HardCase, short) }
func (rb *Rulebook) IsMemberCase(short string) bool      { return contains(rb.MemberCase, short) }
func (rb *Rulebook) IsPrintAllCase(short string) bool    { return contains(rb.PrintAllCase, short) }
func (rb *Rulebook) IsNoTrailerTruck(size string) bool   { return contains(rb.NoTrailerTrucks, size) }

// ResolveID applies the customer ID override table.
func (rb *Rulebook) ResolveID(id string) string {
	if mapped, ok := rb.IDOverrides[id]; ok {
		return mapped
	}
	return id
}
