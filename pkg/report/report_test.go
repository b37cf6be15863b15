package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/dataprep"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/eval"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/model"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/resample"
)

// synthTracks builds a small two-genre set separable on danceability. Every
// candidate column varies a little so the correlation matrix has no
// zero-variance artifacts.
func synthTracks() []data.Track {
	var tracks []data.Track
	for g, genre := range []string{"rap", "pop"} {
		base := 0.1 + 0.8*float64(g)
		for i := 0; i < 20; i++ {
			audio := make(map[string]float64, len(data.AudioFeatures))
			for fi, name := range data.AudioFeatures {
				audio[name] = 0.3 + float64((i+fi*3)%7)*0.02
			}
			audio["danceability"] = base + float64(i%5)*0.002
			tracks = append(tracks, data.Track{
				ID:          fmt.Sprintf("%s-%02d", genre, i),
				Artist:      fmt.Sprintf("artist-%s-%02d", genre, i),
				Name:        fmt.Sprintf("song-%02d", i),
				Genre:       genre,
				ReleaseDate: "2016-01-01",
				DurationMS:  180000 + float64(i)*1500,
				Popularity:  40 + i,
				Audio:       audio,
			})
		}
	}
	return tracks
}

// TestReportEndToEnd runs the whole pipeline on synthetic data and checks the
// rendered tables and chart files.
func TestReportEndToEnd(t *testing.T) {
	cleaned := dataprep.Clean(synthTracks(), dataprep.CleanConfig{TrimLowerPct: 0, TrimUpperPct: 100})
	if len(cleaned.Tracks) != 40 {
		t.Fatalf("clean kept %d rows, want all 40", len(cleaned.Tracks))
	}

	labels := make([]string, len(cleaned.Tracks))
	for i, tr := range cleaned.Tracks {
		labels[i] = tr.Genre
	}
	li := model.NewLabelIndex(labels)

	trainIdx, testIdx, err := resample.Split(labels, 0.75, 42)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	train := make([]data.Track, len(trainIdx))
	trainLabels := make([]string, len(trainIdx))
	for i, j := range trainIdx {
		train[i] = cleaned.Tracks[j]
		trainLabels[i] = labels[j]
	}
	test := make([]data.Track, len(testIdx))
	yTest := make([]int, len(testIdx))
	for i, j := range testIdx {
		test[i] = cleaned.Tracks[j]
		yTest[i] = li.Encode([]string{labels[j]})[0]
	}

	rec, err := dataprep.FitRecipe(train, dataprep.RecipeConfig{CorrThreshold: 0.6})
	if err != nil {
		t.Fatalf("FitRecipe: %v", err)
	}
	xTrain, err := rec.Apply(train)
	if err != nil {
		t.Fatalf("Apply train: %v", err)
	}
	xTest, err := rec.Apply(test)
	if err != nil {
		t.Fatalf("Apply test: %v", err)
	}
	yTrain := li.Encode(trainLabels)

	boots, err := resample.Bootstraps(trainLabels, 5, 43)
	if err != nil {
		t.Fatalf("Bootstraps: %v", err)
	}
	params, hist, err := model.TuneForest(xTrain, yTrain, li.Len(), 15,
		model.ForestGrid{Mtry: []int{2}, MinNode: []int{2, 5}}, boots, 44)
	if err != nil {
		t.Fatalf("TuneForest: %v", err)
	}

	forest := model.NewRandomForest(
		model.ForestTrees(15),
		model.ForestMtry(params.Mtry),
		model.ForestMinNodeSize(params.MinNode),
		model.ForestSeed(44),
	)
	if err := forest.Fit(xTrain, yTrain, li.Len()); err != nil {
		t.Fatalf("forest fit: %v", err)
	}
	ev, err := eval.Evaluate(forest, xTest, yTest, li)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Accuracy < 0.9 {
		t.Fatalf("accuracy %v on separable data, want >= 0.9", ev.Accuracy)
	}

	imps, err := eval.PermutationImportance(forest, xTest, yTest, rec.Columns, 45)
	if err != nil {
		t.Fatalf("PermutationImportance: %v", err)
	}

	var buf bytes.Buffer
	if err := SampleTable(&buf, cleaned.Tracks, 5); err != nil {
		t.Fatalf("SampleTable: %v", err)
	}
	if err := TuningTable(&buf, "candidate", hist); err != nil {
		t.Fatalf("TuningTable: %v", err)
	}
	if err := ComparisonTable(&buf, []string{"random forest"}, []eval.Evaluation{ev}); err != nil {
		t.Fatalf("ComparisonTable: %v", err)
	}
	if err := ConfusionTable(&buf, ev.Confusion); err != nil {
		t.Fatalf("ConfusionTable: %v", err)
	}
	if err := ImportanceTable(&buf, imps); err != nil {
		t.Fatalf("ImportanceTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"artist", "min_n=", "random forest", "rap", "pop", "danceability"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered tables missing %q:\n%s", want, out)
		}
	}

	dir := t.TempDir()
	written, err := Charts(dir, cleaned.Tracks, rec, imps)
	if err != nil {
		t.Fatalf("Charts: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("wrote %d charts, want 4", len(written))
	}
	for _, path := range written {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("chart %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("chart %s is empty", path)
		}
		if filepath.Ext(path) != ".png" {
			t.Fatalf("chart %s is not a png", path)
		}
	}
}

func TestSampleTableClampsN(t *testing.T) {
	tracks := synthTracks()[:3]
	var buf bytes.Buffer
	if err := SampleTable(&buf, tracks, 10); err != nil {
		t.Fatalf("SampleTable: %v", err)
	}
	lines := strings.Count(strings.TrimRight(buf.String(), "\n"), "\n") + 1
	if lines != 4 { // header plus three rows
		t.Fatalf("got %d lines, want 4", lines)
	}
}
