package dataprep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
)

// DurationColumn is the derived duration-in-seconds predictor.
const DurationColumn = "duration_sec"

// SchemaError reports a row missing a column the fitted recipe requires.
// It is fatal: the caller broke the pipeline contract.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataprep: row missing required column %q", e.Column)
}

// RecipeConfig tunes the correlated-column drop.
type RecipeConfig struct {
	CorrThreshold float64
}

// Recipe is a fitted feature transform. Fitting learns which columns survive
// the correlation filter and the center/scale constants of the survivors,
// from training data only. A fitted recipe is immutable: Apply never refits,
// so test rows and single predictions go through the exact same constants.
type Recipe struct {
	Columns []string // surviving columns, canonical order
	Dropped []string // columns removed by the correlation filter
	Mean    []float64
	Std     []float64

	Threshold float64

	// Candidates and Corr record the full pre-drop column set and its
	// pairwise correlation matrix, captured at fit time for reporting.
	Candidates []string
	Corr       *mat.SymDense
}

// candidateColumns is the canonical predictor order: the audio attributes in
// their fixed order, then derived duration. Identifier and leakage columns
// (artist, name, genre label, popularity, year) never enter.
func candidateColumns() []string {
	cols := make([]string, 0, len(data.AudioFeatures)+1)
	cols = append(cols, data.AudioFeatures...)
	return append(cols, DurationColumn)
}

// FitRecipe learns a Recipe from the given training rows.
func FitRecipe(rows []data.Track, cfg RecipeConfig) (*Recipe, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataprep: need at least 2 rows to fit a recipe, got %d", len(rows))
	}
	cand := candidateColumns()

	raw := mat.NewDense(len(rows), len(cand), nil)
	for i, t := range rows {
		for j, name := range cand {
			v, ok := columnValue(t, name)
			if !ok {
				return nil, &SchemaError{Column: name}
			}
			raw.Set(i, j, v)
		}
	}

	corr := mat.NewSymDense(len(cand), nil)
	stat.CorrelationMatrix(corr, raw, nil)

	// Walk pairs in canonical order; when a pair correlates past the
	// threshold, the later column loses. NaN entries (zero-variance columns)
	// never trigger a drop.
	dropped := make(map[int]bool)
	for i := 0; i < len(cand); i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(cand); j++ {
			if dropped[j] {
				continue
			}
			r := corr.At(i, j)
			if !math.IsNaN(r) && math.Abs(r) > cfg.CorrThreshold {
				dropped[j] = true
			}
		}
	}

	rec := &Recipe{Threshold: cfg.CorrThreshold, Candidates: cand, Corr: corr}
	for j, name := range cand {
		if dropped[j] {
			rec.Dropped = append(rec.Dropped, name)
			continue
		}
		col := mat.Col(nil, j, raw)
		mean := stat.Mean(col, nil)
		var ss float64
		for _, v := range col {
			d := v - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(col)))
		if std == 0 {
			std = 1
		}
		rec.Columns = append(rec.Columns, name)
		rec.Mean = append(rec.Mean, mean)
		rec.Std = append(rec.Std, std)
	}
	return rec, nil
}

// Apply transforms rows into a feature matrix using the stored constants.
func (r *Recipe) Apply(rows []data.Track) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, t := range rows {
		row, err := r.ApplyRow(t)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// ApplyRow transforms a single row. The same path serves training, testing
// and ad-hoc prediction.
func (r *Recipe) ApplyRow(t data.Track) ([]float64, error) {
	row := make([]float64, len(r.Columns))
	for j, name := range r.Columns {
		v, ok := columnValue(t, name)
		if !ok {
			return nil, &SchemaError{Column: name}
		}
		row[j] = (v - r.Mean[j]) / r.Std[j]
	}
	return row, nil
}

func columnValue(t data.Track, name string) (float64, bool) {
	if name == DurationColumn {
		return t.DurationSec, true
	}
	return t.Feature(name)
}
