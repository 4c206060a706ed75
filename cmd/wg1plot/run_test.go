package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/banshee-data/wg1plot/internal/config"
	"github.com/banshee-data/wg1plot/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func ptr[T any](v T) *T { return &v }

// writeFixtures creates a CSV, an XLSX and a SQLite source in dir.
func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	csv := "mbc,weight,p,eff,p_err,eff_err\n" +
		"5.21,1.0,1,0.90,0.5,0.02\n" +
		"5.25,0.5,2,0.85,0.5,0.03\n" +
		"5.28,2.0,3,0.80,0.5,0.04\n" +
		"5.28,1.0,4,0.70,0.5,0.05\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "signal.csv"), []byte(csv), 0o644))

	f := excelize.NewFile()
	rows := [][]interface{}{{"mbc", "ntracks"}, {5.22, 4}, {5.24, 6}, {5.29, 5}}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, "continuum.xlsx")))
	require.NoError(t, f.Close())

	db, err := sql.Open("sqlite", filepath.Join(dir, "events.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE candidates (mbc REAL, ntracks INTEGER)`)
	require.NoError(t, err)
	for _, v := range []float64{5.21, 5.25, 5.27, 5.28, 5.285} {
		_, err = db.Exec(`INSERT INTO candidates (mbc, ntracks) VALUES (?, ?)`, v, 5)
		require.NoError(t, err)
	}
}

func testConfig() *config.PlotConfig {
	return &config.PlotConfig{
		OutputDir: ptr("out"),
		Formats:   []string{"png", "svg"},
		Figure:    &config.FigureConfig{WidthInches: ptr(3.0), HeightInches: ptr(3.0), DPI: ptr(30)},
		Sources: []config.Source{
			{Name: "signal", CSV: "signal.csv"},
			{Name: "continuum", XLSX: "continuum.xlsx"},
			{Name: "data", SQLite: "events.db", Query: "SELECT mbc, ntracks FROM candidates"},
		},
		Plots: []config.Plot{
			{
				Name:     "mbc_stacked",
				Kind:     config.KindStacked,
				Variable: &config.Variable{Column: "mbc", Unit: "GeV", Bins: ptr(10), Min: ptr(5.2), Max: ptr(5.3)},
				Components: []config.Component{
					{Label: "Continuum", Source: "continuum", Color: "tango:sky_blue"},
					{Label: "Signal", Source: "signal", WeightColumn: "weight"},
				},
				Descriptions: &config.Descriptions{Experiment: "Belle II", Luminosity: "(Simulation)"},
				Cut:          &config.Cut{Left: ptr(5.23)},
			},
			{
				Name:     "mbc_simple",
				Kind:     config.KindSimple,
				Variable: &config.Variable{Column: "mbc"},
				Components: []config.Component{
					{Label: "Signal", Source: "signal"},
					{Label: "Continuum", Source: "continuum", Dash: "dashed"},
				},
			},
			{
				Name:     "mbc_datamc",
				Kind:     config.KindDataMC,
				Variable: &config.Variable{Column: "mbc", Bins: ptr(5), Min: ptr(5.2), Max: ptr(5.3)},
				Components: []config.Component{
					{Label: "Continuum", Source: "continuum"},
					{Label: "Signal", Source: "signal"},
					{Label: "Data", Source: "data", Role: "data"},
				},
				MCStyle: "summed",
				Cut:     &config.Cut{Keep: &[2]float64{5.25, 5.29}},
			},
			{
				Name: "efficiency",
				Kind: config.KindPoints,
				Axes: &config.Axes{XName: "p", XUnit: "GeV", YName: "Efficiency"},
				Components: []config.Component{
					{Label: "Measured", Source: "signal", X: "p", Y: "eff", XErr: "p_err", YErr: "eff_err"},
					{Label: "Box", Source: "signal", X: "p", Y: "eff", XErr: "p_err", YErr: "eff_err", Style: "box"},
				},
			},
		},
	}
}

func writeConfig(t *testing.T, dir string, cfg *config.PlotConfig) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "plots.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	path := writeConfig(t, dir, testConfig())

	out, err := execute(t, "render", path)
	require.NoError(t, err)

	lines := strings.Fields(out)
	assert.Len(t, lines, 8)
	for _, name := range []string{"mbc_stacked", "mbc_simple", "mbc_datamc", "efficiency"} {
		for _, ext := range []string{".png", ".svg"} {
			file := filepath.Join(dir, "out", name+ext)
			assert.Contains(t, lines, file)
			info, err := os.Stat(file)
			require.NoError(t, err, file)
			assert.Greater(t, info.Size(), int64(0))
		}
	}
}

func TestRender_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	path := writeConfig(t, dir, testConfig())
	outDir := filepath.Join(dir, "custom")

	out, err := execute(t, "render", path, "--output", outDir, "--format", "pdf", "--format", "html", "--plot", "mbc_datamc")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(outDir, "mbc_datamc.pdf"), filepath.Join(outDir, "mbc_datamc.html")}, strings.Fields(out))

	_, err = execute(t, "render", path, "--plot", "nope")
	assert.ErrorContains(t, err, "no plot matched")
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	cfg := testConfig()
	cfg.Plots = cfg.Plots[:1]
	cfg.Plots[0].Variable.Column = "missing"
	path := writeConfig(t, dir, cfg)
	_, err := execute(t, "render", path)
	assert.ErrorContains(t, err, "missing")

	_, err = execute(t, "render", filepath.Join(dir, "absent.json"))
	assert.Error(t, err)

	_, err = execute(t, "render")
	assert.Error(t, err)
}

func TestBinning(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	path := writeConfig(t, dir, testConfig())

	out, err := execute(t, "binning", path, "--variable", "ntracks")
	require.NoError(t, err)
	assert.Equal(t, "ntracks: bins=3 min=4 max=7 sources=continuum,data\n", out)

	_, err = execute(t, "binning", path, "--variable", "nope")
	assert.ErrorContains(t, err, "nope")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "wg1plot version dev")
}
