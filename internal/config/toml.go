// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/hitdash/internal/generator"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Generate  GenerateConfig  `toml:"generate"`
	Filter    FilterConfig    `toml:"filter"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Serve     ServeConfig     `toml:"serve"`
}

// GenerateConfig maps dataset generation settings.
type GenerateConfig struct {
	Seed           *int64                     `toml:"seed"`
	YearStart      *int                       `toml:"year-start"`
	YearEnd        *int                       `toml:"year-end"`
	SongsPerYear   *int                       `toml:"songs-per-year"`
	SongsMin       *int                       `toml:"songs-min"`
	SongsMax       *int                       `toml:"songs-max"`
	UniformArtists *bool                      `toml:"uniform-artists"`
	Genres         []string                   `toml:"genres"`
	Artists        []generator.WeightedArtist `toml:"artists"`
}

// FilterConfig maps the initial dashboard filter.
type FilterConfig struct {
	YearMin *int    `toml:"year-min"`
	YearMax *int    `toml:"year-max"`
	Genre   *string `toml:"genre"`
	Artist  *string `toml:"artist"`
}

// DashboardConfig maps presentation settings.
type DashboardConfig struct {
	Feature *string `toml:"feature"`
	Bins    *int    `toml:"bins"`
}

// ServeConfig maps HTTP settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
