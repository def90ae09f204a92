// Package plot renders feature distribution figures: a histogram and a box
// plot per feature, tiled into one PNG named
// feature_distributions_<timestamp>.png under the output directory.
package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"causalprep/domain/table"
	"causalprep/internal/errors"
	"causalprep/internal/logging"
)

const (
	timestampLayout = "20060102_150405"
	histogramBins   = 30
	// defaultMaxFeatures caps the figure width when no feature list is given
	defaultMaxFeatures = 6

	tileWidth  = 4 * vg.Inch
	tileHeight = 4 * vg.Inch
)

// Renderer draws distribution figures into an output directory
type Renderer struct {
	dir string
	log *logging.Logger
}

// NewRenderer creates a renderer writing into dir
func NewRenderer(dir string, log *logging.Logger) (*Renderer, error) {
	if dir == "" {
		return nil, errors.ConfigInvalid("plot output directory cannot be empty")
	}
	if log == nil {
		log = logging.DefaultLogger
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating plot directory %s", dir)
	}
	return &Renderer{dir: dir, log: log}, nil
}

// RenderDistributions draws a histogram (top row) and box plot (bottom row)
// for each feature and writes the tiled figure as one PNG, returning its
// path. A nil feature list defaults to the first numeric features of the
// table. Missing values are excluded from both plots.
func (r *Renderer) RenderDistributions(tbl *table.Table, features []string) (string, error) {
	if features == nil {
		features = tbl.NumericNames()
		if len(features) > defaultMaxFeatures {
			features = features[:defaultMaxFeatures]
		}
	}
	if len(features) == 0 {
		return "", errors.DegenerateInput("no numeric features to plot")
	}

	// Row 0: histograms, row 1: box plots
	plots := make([][]*plot.Plot, 2)
	plots[0] = make([]*plot.Plot, len(features))
	plots[1] = make([]*plot.Plot, len(features))

	// Each feature's pair of plots is independent; build them concurrently.
	var g errgroup.Group
	for i, feature := range features {
		g.Go(func() error {
			col, ok := tbl.Column(feature)
			if !ok {
				return errors.MissingColumn(feature)
			}
			if col.Kind() != table.Numeric {
				return errors.InvalidConfiguration("cannot plot non-numeric feature " + feature)
			}
			values := plotter.Values(col.NonMissingFloats())
			if len(values) == 0 {
				return errors.DegenerateInput("feature " + feature + " has no non-missing values")
			}

			hist, err := histogramPlot(feature, values)
			if err != nil {
				return err
			}
			box, err := boxPlot(feature, values)
			if err != nil {
				return err
			}
			plots[0][i] = hist
			plots[1][i] = box
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	img := vgimg.New(tileWidth*vg.Length(len(features)), 2*tileHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: len(features),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	filename := filepath.Join(r.dir, fmt.Sprintf("feature_distributions_%s.png", time.Now().Format(timestampLayout)))
	f, err := os.Create(filename)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", filename)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", errors.Wrapf(err, "writing %s", filename)
	}

	r.log.Info("feature distributions plot saved to %s", filename)
	return filename, nil
}

func histogramPlot(feature string, values plotter.Values) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = feature + " - Distribution"
	p.X.Label.Text = feature
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(values, histogramBins)
	if err != nil {
		return nil, errors.Wrapf(err, "building histogram for %s", feature)
	}
	p.Add(h)
	return p, nil
}

func boxPlot(feature string, values plotter.Values) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = feature + " - Box Plot"
	p.Y.Label.Text = feature

	b, err := plotter.NewBoxPlot(vg.Points(30), 0, values)
	if err != nil {
		return nil, errors.Wrapf(err, "building box plot for %s", feature)
	}
	p.Add(b)
	p.NominalX(feature)
	return p, nil
}
