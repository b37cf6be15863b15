package dataprep

import (
	"sort"
	"strconv"

	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/data"
	"github.com/jslucf/Spotify-Song-Genre-Classification/pkg/stats"
)

// Decade labels in chronological order.
var Decades = []string{"Pre-1980s", "1980s", "1990s", "2000s", "2010s"}

// CleanConfig holds the cleaner's two tunables: the duration trim percentiles.
type CleanConfig struct {
	TrimLowerPct float64
	TrimUpperPct float64
}

// CleanResult is the cleaned table plus per-policy drop accounting.
type CleanResult struct {
	Tracks []data.Track

	DroppedMissing    int // empty artist or name
	DroppedDecade     int // unparseable year or year past 2020
	DroppedDuration   int // outside the trim percentiles
	DroppedDuplicate  int // lost the (artist, name) popularity contest
	DroppedPopularity int // popularity <= 1 sentinel

	DurationP10 float64
	DurationP90 float64
}

// Clean applies the cleaning policies in order: drop rows with a missing
// artist or name, derive year and decade (dropping rows that resolve to no
// decade), convert duration to seconds, trim duration by global percentiles,
// deduplicate (artist, name) keeping the most popular row, and finally drop
// popularity <= 1. Row-level problems are drops, never errors.
func Clean(tracks []data.Track, cfg CleanConfig) CleanResult {
	var res CleanResult

	kept := make([]data.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Artist == "" || t.Name == "" {
			res.DroppedMissing++
			continue
		}
		year, ok := parseYear(t.ReleaseDate)
		if ok {
			t.Year = year
			t.Decade, ok = decadeOf(year)
		}
		if !ok {
			res.DroppedDecade++
			continue
		}
		t.DurationSec = t.DurationMS / 1000.0
		kept = append(kept, t)
	}

	// Percentile bounds come from the full set before trimming.
	durations := make([]float64, len(kept))
	for i, t := range kept {
		durations[i] = t.DurationSec
	}
	res.DurationP10 = stats.Percentile(durations, cfg.TrimLowerPct)
	res.DurationP90 = stats.Percentile(durations, cfg.TrimUpperPct)

	trimmed := kept[:0]
	for _, t := range kept {
		if t.DurationSec < res.DurationP10 || t.DurationSec > res.DurationP90 {
			res.DroppedDuration++
			continue
		}
		trimmed = append(trimmed, t)
	}

	deduped, dupDropped := dedupe(trimmed)
	res.DroppedDuplicate = dupDropped

	final := deduped[:0]
	for _, t := range deduped {
		if t.Popularity <= 1 {
			res.DroppedPopularity++
			continue
		}
		final = append(final, t)
	}
	res.Tracks = final
	return res
}

// parseYear reads the leading four characters of a release-date string as an
// integer year. Anything shorter or non-numeric is a silent miss.
func parseYear(release string) (int, bool) {
	if len(release) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(release[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

func decadeOf(year int) (string, bool) {
	switch {
	case year <= 0:
		return "", false
	case year <= 1979:
		return "Pre-1980s", true
	case year <= 1989:
		return "1980s", true
	case year <= 1999:
		return "1990s", true
	case year <= 2009:
		return "2000s", true
	case year <= 2020:
		return "2010s", true
	default:
		return "", false
	}
}

// dedupe keeps exactly one row per (artist, name): the one with the highest
// popularity, ties broken by track ID so the winner does not depend on input
// order.
func dedupe(tracks []data.Track) ([]data.Track, int) {
	type key struct{ artist, name string }
	best := make(map[key]data.Track, len(tracks))
	order := make([]key, 0, len(tracks))
	dropped := 0

	for _, t := range tracks {
		k := key{t.Artist, t.Name}
		cur, ok := best[k]
		if !ok {
			best[k] = t
			order = append(order, k)
			continue
		}
		dropped++
		if t.Popularity > cur.Popularity ||
			(t.Popularity == cur.Popularity && t.ID < cur.ID) {
			best[k] = t
		}
	}

	out := make([]data.Track, 0, len(best))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Artist != out[j].Artist {
			return out[i].Artist < out[j].Artist
		}
		return out[i].Name < out[j].Name
	})
	return out, dropped
}
