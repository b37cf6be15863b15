package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable of the pipeline. Values come from GENRE_*
// environment variables; the binary may override DatasetPath, Seed and
// OutputDir from flags.
type Config struct {
	DatasetPath string `default:"song_data.csv"`
	OutputDir   string `default:"report"`

	// Seed drives every randomized stage (split, bootstraps, permutation
	// importance). Zero is rejected: reproducibility is part of the contract.
	Seed int64 `default:"42"`

	SplitRatio     float64 `default:"0.75"`
	BootstrapCount int     `default:"25"`

	CorrThreshold float64 `default:"0.6"`
	TrimLowerPct  float64 `default:"10"`
	TrimUpperPct  float64 `default:"90"`

	ForestTrees int   `default:"300"`
	MtryGrid    []int `default:"2,3,4"`
	MinNodeGrid []int `default:"2,5,10"`
	NeighborK   []int `default:"5,10,15"`
}

// Process reads the GENRE_* environment into a Config.
func Process() (Config, error) {
	var cfg Config
	if err := envconfig.Process("genre", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Seed == 0 {
		return fmt.Errorf("config: seed must be non-zero")
	}
	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return fmt.Errorf("config: split ratio %v outside (0,1)", c.SplitRatio)
	}
	if c.BootstrapCount < 1 {
		return fmt.Errorf("config: bootstrap count %d < 1", c.BootstrapCount)
	}
	if c.CorrThreshold <= 0 || c.CorrThreshold > 1 {
		return fmt.Errorf("config: correlation threshold %v outside (0,1]", c.CorrThreshold)
	}
	if c.TrimLowerPct < 0 || c.TrimUpperPct > 100 || c.TrimLowerPct >= c.TrimUpperPct {
		return fmt.Errorf("config: trim percentiles [%v,%v] invalid", c.TrimLowerPct, c.TrimUpperPct)
	}
	if c.ForestTrees < 1 {
		return fmt.Errorf("config: forest size %d < 1", c.ForestTrees)
	}
	if len(c.MtryGrid) == 0 || len(c.MinNodeGrid) == 0 || len(c.NeighborK) == 0 {
		return fmt.Errorf("config: empty tuning grid")
	}
	return nil
}
