package report

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/dataprep"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/eval"
)

// Charts renders every chart of the report into dir and returns the file
// paths written.
func Charts(dir string, tracks []data.Track, rec *dataprep.Recipe, imps []eval.Importance) ([]string, error) {
	type job struct {
		name string
		fn   func(string) error
	}
	jobs := []job{
		{"popularity_hist.png", func(p string) error { return PopularityHistogram(tracks, p) }},
		{"duration_by_decade.png", func(p string) error { return DurationBoxPlot(tracks, p) }},
		{"correlation_heatmap.png", func(p string) error {
			return CorrelationHeatmap(rec.Candidates, rec.Corr, p)
		}},
		{"importance.png", func(p string) error { return ImportanceBarChart(imps, p) }},
	}
	var written []string
	for _, j := range jobs {
		path := filepath.Join(dir, j.name)
		if err := j.fn(path); err != nil {
			return written, fmt.Errorf("report: %s: %w", j.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// PopularityHistogram plots the popularity distribution of the cleaned set.
func PopularityHistogram(tracks []data.Track, path string) error {
	vals := make(plotter.Values, len(tracks))
	for i, t := range tracks {
		vals[i] = float64(t.Popularity)
	}
	p := plot.New()
	p.Title.Text = "Track Popularity"
	p.X.Label.Text = "popularity"
	p.Y.Label.Text = "count"
	h, err := plotter.NewHist(vals, 20)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// DurationBoxPlot draws one duration box per decade, in decade order.
func DurationBoxPlot(tracks []data.Track, path string) error {
	byDecade := make(map[string]plotter.Values)
	for _, t := range tracks {
		byDecade[t.Decade] = append(byDecade[t.Decade], t.DurationSec)
	}
	p := plot.New()
	p.Title.Text = "Duration by Decade"
	p.Y.Label.Text = "duration (s)"

	var names []string
	for _, decade := range dataprep.Decades {
		vals, ok := byDecade[decade]
		if !ok {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(24), float64(len(names)), vals)
		if err != nil {
			return err
		}
		p.Add(b)
		names = append(names, decade)
	}
	p.NominalX(names...)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int)   { n, _ := g.m.Dims(); return n, n }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap renders the candidate-column correlation matrix the
// recipe was fit on.
func CorrelationHeatmap(names []string, corr *mat.SymDense, path string) error {
	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: corr}, colors.Palette(255))

	p := plot.New()
	p.Title.Text = "Feature Correlation"
	p.Add(hm)
	p.NominalX(names...)
	p.NominalY(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.8
	return p.Save(7*vg.Inch, 6*vg.Inch, path)
}

// ImportanceBarChart plots permutation importance, highest drop first.
func ImportanceBarChart(imps []eval.Importance, path string) error {
	vals := make(plotter.Values, len(imps))
	names := make([]string, len(imps))
	for i, im := range imps {
		vals[i] = im.Drop
		names[i] = im.Feature
	}
	p := plot.New()
	p.Title.Text = "Permutation Importance"
	p.Y.Label.Text = "accuracy drop"
	b, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return err
	}
	p.Add(b)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.8
	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}
