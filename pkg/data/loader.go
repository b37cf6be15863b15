package data

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// metadata columns required in addition to the audio attributes.
var metaColumns = []string{
	"track_id",
	"artist_name",
	"track_name",
	"genre",
	"release_date",
	"duration_ms",
	"popularity",
}

// LoadReport counts what the loader saw and what it kept.
type LoadReport struct {
	Rows      int
	Kept      int
	BadNumber int
}

// LoadTracks reads the song dataset from r. Every column is read as a string
// and parsed explicitly; rows whose numeric fields do not parse are dropped
// and counted, matching the skip-bad-record policy of the rest of the
// pipeline. A missing column is fatal: that is a contract violation, not a
// data problem.
func LoadTracks(r io.Reader) ([]Track, LoadReport, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, LoadReport{}, fmt.Errorf("data: read csv: %w", df.Err)
	}

	col := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		col[name] = i
	}
	for _, name := range append(append([]string{}, metaColumns...), AudioFeatures...) {
		if _, ok := col[name]; !ok {
			return nil, LoadReport{}, fmt.Errorf("data: dataset missing column %q", name)
		}
	}

	records := df.Records()[1:] // drop header row
	rep := LoadReport{Rows: len(records)}
	tracks := make([]Track, 0, len(records))

rows:
	for _, rec := range records {
		dur, err := strconv.ParseFloat(rec[col["duration_ms"]], 64)
		if err != nil {
			rep.BadNumber++
			continue
		}
		pop, err := strconv.Atoi(rec[col["popularity"]])
		if err != nil {
			rep.BadNumber++
			continue
		}
		audio := make(map[string]float64, len(AudioFeatures))
		for _, name := range AudioFeatures {
			v, err := strconv.ParseFloat(rec[col[name]], 64)
			if err != nil {
				rep.BadNumber++
				continue rows
			}
			audio[name] = v
		}
		tracks = append(tracks, Track{
			ID:          rec[col["track_id"]],
			Artist:      rec[col["artist_name"]],
			Name:        rec[col["track_name"]],
			Genre:       rec[col["genre"]],
			ReleaseDate: rec[col["release_date"]],
			DurationMS:  dur,
			Popularity:  pop,
			Audio:       audio,
		})
	}
	rep.Kept = len(tracks)
	return tracks, rep, nil
}
