// Command genre-report runs the full analysis: load the song dataset, clean
// it, fit the feature recipe on the training split, tune a random forest and
// a KNN classifier on stratified bootstraps, evaluate both on the held-out
// split and render the report tables and charts.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/config"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/dataprep"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/eval"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/logger"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/model"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/report"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/resample"
)

func main() {
	log := logger.Provide()
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatalw("pipeline failed", "error", err)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.Process()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.DatasetPath, "input", cfg.DatasetPath, "path to the song dataset CSV")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for rendered charts")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for split, bootstraps and importance")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	tracks, loadRep, err := data.LoadTracks(f)
	if err != nil {
		return err
	}
	log.Infow("dataset loaded", "rows", loadRep.Rows, "kept", loadRep.Kept, "bad_number", loadRep.BadNumber)

	cleaned := dataprep.Clean(tracks, dataprep.CleanConfig{
		TrimLowerPct: cfg.TrimLowerPct,
		TrimUpperPct: cfg.TrimUpperPct,
	})
	log.Infow("cleaned",
		"rows", len(cleaned.Tracks),
		"dropped_missing", cleaned.DroppedMissing,
		"dropped_decade", cleaned.DroppedDecade,
		"dropped_duration", cleaned.DroppedDuration,
		"dropped_duplicate", cleaned.DroppedDuplicate,
		"dropped_popularity", cleaned.DroppedPopularity,
		"duration_bounds", fmt.Sprintf("[%.1f,%.1f]", cleaned.DurationP10, cleaned.DurationP90),
	)

	labels := make([]string, len(cleaned.Tracks))
	for i, t := range cleaned.Tracks {
		labels[i] = t.Genre
	}
	li := model.NewLabelIndex(labels)

	trainIdx, testIdx, err := resample.Split(labels, cfg.SplitRatio, cfg.Seed)
	if err != nil {
		return err
	}
	log.Infow("split", "train", len(trainIdx), "test", len(testIdx), "classes", li.Len())

	trainTracks := subsetTracks(cleaned.Tracks, trainIdx)
	testTracks := subsetTracks(cleaned.Tracks, testIdx)
	trainLabels := subsetStrings(labels, trainIdx)
	yTrain := li.Encode(trainLabels)
	yTest := li.Encode(subsetStrings(labels, testIdx))

	rec, err := dataprep.FitRecipe(trainTracks, dataprep.RecipeConfig{CorrThreshold: cfg.CorrThreshold})
	if err != nil {
		return err
	}
	log.Infow("recipe fit", "columns", rec.Columns, "dropped_correlated", rec.Dropped)

	xTrain, err := rec.Apply(trainTracks)
	if err != nil {
		return err
	}
	xTest, err := rec.Apply(testTracks)
	if err != nil {
		return err
	}

	boots, err := resample.Bootstraps(trainLabels, cfg.BootstrapCount, cfg.Seed+1)
	if err != nil {
		return err
	}

	forestParams, forestHist, err := model.TuneForest(xTrain, yTrain, li.Len(), cfg.ForestTrees,
		model.ForestGrid{Mtry: cfg.MtryGrid, MinNode: cfg.MinNodeGrid}, boots, cfg.Seed+2)
	if err != nil {
		return err
	}
	log.Infow("forest tuned", "mtry", forestParams.Mtry, "min_n", forestParams.MinNode)

	forest := model.NewRandomForest(
		model.ForestTrees(cfg.ForestTrees),
		model.ForestMtry(forestParams.Mtry),
		model.ForestMinNodeSize(forestParams.MinNode),
		model.ForestSeed(cfg.Seed+2),
	)
	if err := forest.Fit(xTrain, yTrain, li.Len()); err != nil {
		return err
	}

	bestK, knnHist, err := model.TuneKNN(xTrain, yTrain, li.Len(), cfg.NeighborK, boots)
	if err != nil {
		return err
	}
	log.Infow("knn tuned", "k", bestK)

	knn := model.NewKNN(bestK)
	if err := knn.Fit(xTrain, yTrain, li.Len()); err != nil {
		return err
	}

	forestEval, err := eval.Evaluate(forest, xTest, yTest, li)
	if err != nil {
		return err
	}
	knnEval, err := eval.Evaluate(knn, xTest, yTest, li)
	if err != nil {
		return err
	}
	log.Infow("evaluated",
		"forest_accuracy", forestEval.Accuracy, "forest_auc", forestEval.AUC,
		"knn_accuracy", knnEval.Accuracy, "knn_auc", knnEval.AUC,
	)

	imps, err := eval.PermutationImportance(forest, xTest, yTest, rec.Columns, cfg.Seed+3)
	if err != nil {
		return err
	}

	w := os.Stdout
	fmt.Fprintln(w, "== sample of cleaned tracks ==")
	report.SampleTable(w, cleaned.Tracks, 10)
	fmt.Fprintln(w, "\n== tuning: random forest ==")
	report.TuningTable(w, "candidate", forestHist)
	fmt.Fprintln(w, "\n== tuning: knn ==")
	report.TuningTable(w, "candidate", knnHist)
	fmt.Fprintln(w, "\n== model comparison ==")
	report.ComparisonTable(w, []string{"random forest", "knn"}, []eval.Evaluation{forestEval, knnEval})
	fmt.Fprintln(w, "\n== confusion (random forest) ==")
	report.ConfusionTable(w, forestEval.Confusion)
	fmt.Fprintln(w, "\n== permutation importance (random forest) ==")
	report.ImportanceTable(w, imps)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	written, err := report.Charts(cfg.OutputDir, cleaned.Tracks, rec, imps)
	if err != nil {
		return err
	}
	log.Infow("charts written", "files", written)
	return nil
}

func subsetTracks(tracks []data.Track, idx []int) []data.Track {
	out := make([]data.Track, len(idx))
	for i, j := range idx {
		out[i] = tracks[j]
	}
	return out
}

func subsetStrings(s []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
