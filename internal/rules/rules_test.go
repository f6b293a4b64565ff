package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutes(t *testing.T) {
	rb := Default()

	cases := []struct {
		mode  string
		route string
		want  bool
	}{
		{"IMPORT", "TH-LA", true},
		{"IMPORT", "LA-TH", false},
		{"EXPORT", "LA-VN", true},
		{"DOMESTIC", "SVK-VTE", true},
		{"TRANSIT", "TH-KH", true},
		{"TRANSIT", "LA-LA", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rb.ValidRoute(tc.mode, tc.route), "ValidRoute(%s, %s)", tc.mode, tc.route)
	}

	assert.False(t, rb.KnownMode("OUTSIDE"), "OUTSIDE should not have a route table")
}

func TestResolveID(t *testing.T) {
	rb := Default()
	assert.Equal(t, "2318", rb.ResolveID("20196"))
	assert.Equal(t, "12345", rb.ResolveID("12345"))
}

func TestAdmissionFees(t *testing.T) {
	rb := Default()
	assert.Equal(t, rb.AdmissionFees["18WT"], rb.AdmissionFees["22WT"], "18WT and 22WT should map to the same fee")
	assert.NotContains(t, rb.AdmissionFees, "OPEN TRUCK")
}

func TestLoadMissingFile(t *testing.T) {
	rb, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, rb.ValidTruckSize("4WT"), "defaults should survive a missing rulebook file")
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulebook.yaml")
	body := `
printAllCase:
  - QUEEN
idOverrides:
  "30001": "4001"
liftMarkers:
  - custom-marker
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	rb, err := Load(path)
	require.NoError(t, err)

	assert.True(t, rb.IsPrintAllCase("KING"), "printAllCase override should extend the default list")
	assert.True(t, rb.IsPrintAllCase("QUEEN"))
	assert.Equal(t, "4001", rb.ResolveID("30001"))
	assert.Equal(t, "2318", rb.ResolveID("20196"), "default override lost")
	assert.Equal(t, []string{"custom-marker"}, rb.LiftMarkers, "liftMarkers should be replaced")
}
