// Package report renders the analysis output: text tables to a writer and
// PNG charts to files. Nothing downstream parses these, so layout favors
// readability over stability.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/eval"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/model"
)

// SampleTable prints the first n cleaned rows.
func SampleTable(w io.Writer, tracks []data.Track, n int) error {
	if n > len(tracks) {
		n = len(tracks)
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "artist\ttrack\tgenre\tdecade\tpopularity\tduration_sec")
	for _, t := range tracks[:n] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f\n",
			t.Artist, t.Name, t.Genre, t.Decade, t.Popularity, t.DurationSec)
	}
	return tw.Flush()
}

// ComparisonTable prints accuracy and AUC for each model side by side.
func ComparisonTable(w io.Writer, names []string, evals []eval.Evaluation) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "model\taccuracy\troc_auc\tmean_confidence")
	for i, name := range names {
		e := evals[i]
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n", name, e.Accuracy, e.AUC, e.Confidence.Mean)
	}
	return tw.Flush()
}

// ConfusionTable prints the confusion counts with per-class recall.
func ConfusionTable(w io.Writer, cm *eval.ConfusionMatrix) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprint(tw, "true \\ pred")
	for _, l := range cm.Labels {
		fmt.Fprintf(tw, "\t%s", l)
	}
	fmt.Fprintln(tw, "\trecall")
	for i, l := range cm.Labels {
		fmt.Fprint(tw, l)
		for j := range cm.Labels {
			fmt.Fprintf(tw, "\t%d", cm.Counts[i][j])
		}
		fmt.Fprintf(tw, "\t%.3f\n", cm.Recall(i))
	}
	return tw.Flush()
}

// TuningTable prints each grid candidate and its mean resample accuracy.
func TuningTable(w io.Writer, title string, entries []model.TuneEntry) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tmean_accuracy\n", title)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%.4f\n", e.Params, e.MeanAccuracy)
	}
	return tw.Flush()
}

// ImportanceTable prints permutation importance, highest drop first.
func ImportanceTable(w io.Writer, imps []eval.Importance) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "feature\taccuracy_drop")
	for _, im := range imps {
		fmt.Fprintf(tw, "%s\t%.4f\n", im.Feature, im.Drop)
	}
	return tw.Flush()
}
