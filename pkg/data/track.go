package data

// AudioFeatures is the canonical column order for the numeric acoustic
// attributes. Everything that iterates features (recipe fitting, correlation
// tie-breaks, importance reporting) uses this order so results are stable.
var AudioFeatures = []string{
	"danceability",
	"energy",
	"key",
	"loudness",
	"mode",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
	"time_signature",
}

// Track is one row of the song dataset. DurationMS and ReleaseDate come
// straight from the file; Year, Decade and DurationSec are derived by the
// cleaner and zero until then.
type Track struct {
	ID          string
	Artist      string
	Name        string
	Genre       string
	ReleaseDate string
	DurationMS  float64
	Popularity  int

	Audio map[string]float64

	Year        int
	Decade      string
	DurationSec float64
}

// Feature returns the named audio attribute and whether the track has it.
func (t Track) Feature(name string) (float64, bool) {
	v, ok := t.Audio[name]
	return v, ok
}
