package export

import (
	"bytes"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/fsutil"
	"github.com/banshee-data/wg1plot/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func testFigure(t *testing.T) *canvas.Figure {
	t.Helper()
	fig, ax := canvas.NewSoloFigure(canvas.Size{WidthInches: 3, HeightInches: 3, DPI: 30})
	ax.SetXRange(0, 2)
	ax.SetXLabel("Momentum in GeV")
	require.NoError(t, ax.Band(canvas.Band{
		Label: "Signal",
		Edges: []float64{0, 1, 2},
		Low:   []float64{0, 0},
		High:  []float64{3, 4},
		Fill:  color.Gray{Y: 120},
	}))
	require.NoError(t, ax.Points(canvas.Points{Label: "Data", X: []float64{0.5, 1.5}, Y: []float64{2, 5}, YErr: []float64{1.4, 2.2}}))
	canvas.AddDescriptions(ax, canvas.Descriptions{Experiment: "Belle II", Luminosity: "1 fb^-1"})
	return fig
}

func TestExport_DefaultFormats(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	paths, err := Export(fsys, testFigure(t), "mbc", "plots/run1")
	require.NoError(t, err)

	want := []string{filepath.Join("plots/run1", "mbc.pdf"), filepath.Join("plots/run1", "mbc.png")}
	assert.Equal(t, want, paths)
	assert.True(t, fsys.Exists("plots/run1"))

	pdf, err := fsys.ReadFile(want[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	png, err := fsys.ReadFile(want[1])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestExport_HTMLAndSVG(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	paths, err := Export(fsys, testFigure(t), "mbc", "", "svg", ".HTML")
	require.NoError(t, err)
	assert.Equal(t, []string{"mbc.svg", "mbc.html"}, paths)

	page, err := fsys.ReadFile("mbc.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "echarts")
	assert.Contains(t, string(page), "Signal")
	assert.Contains(t, string(page), "Belle II")
}

func TestExport_Errors(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	fig := testFigure(t)

	_, err := Export(fsys, fig, "", "out")
	assert.True(t, errors.Is(err, ErrFilename))
	_, err = Export(fsys, fig, "sub/mbc", "out")
	assert.True(t, errors.Is(err, ErrFilename))

	paths, err := Export(fsys, fig, "mbc", "out", "png", "gif")
	assert.True(t, errors.Is(err, canvas.ErrFormat))
	assert.Equal(t, []string{filepath.Join("out", "mbc.png")}, paths)
}

func TestExport_OSFileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new")
	paths, err := Export(fsutil.OSFileSystem{}, testFigure(t), "fig", dir, "png")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, fsutil.OSFileSystem{}.Exists(paths[0]))
}
