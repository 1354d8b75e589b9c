package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generate.Seed != nil || cfg.Serve.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[generate]
seed = 7
year-start = 2012
year-end = 2016
songs-per-year = 30
uniform-artists = true

[[generate.artists]]
name = "Drake"
weight = 0.5

[[generate.artists]]
name = "Adele"
weight = 0.5

[filter]
genre = "Rock"
year-min = 2013

[dashboard]
feature = "energy"
bins = 10

[serve]
addr = ":9090"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Generate.Seed == nil || *cfg.Generate.Seed != 7 {
		t.Fatalf("unexpected seed %v", cfg.Generate.Seed)
	}
	if *cfg.Generate.YearStart != 2012 || *cfg.Generate.YearEnd != 2016 || *cfg.Generate.SongsPerYear != 30 {
		t.Fatalf("unexpected generate section %+v", cfg.Generate)
	}
	if cfg.Generate.SongsMin != nil {
		t.Fatalf("expected unset songs-min")
	}
	if !*cfg.Generate.UniformArtists {
		t.Fatalf("expected uniform artists")
	}
	if len(cfg.Generate.Artists) != 2 || cfg.Generate.Artists[1].Name != "Adele" || cfg.Generate.Artists[1].Weight != 0.5 {
		t.Fatalf("unexpected artists %+v", cfg.Generate.Artists)
	}
	if *cfg.Filter.Genre != "Rock" || *cfg.Filter.YearMin != 2013 || cfg.Filter.YearMax != nil {
		t.Fatalf("unexpected filter section %+v", cfg.Filter)
	}
	if *cfg.Dashboard.Feature != "energy" || *cfg.Dashboard.Bins != 10 {
		t.Fatalf("unexpected dashboard section %+v", cfg.Dashboard)
	}
	if *cfg.Serve.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", *cfg.Serve.Addr)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "[generate]\nsed = 1\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoadConfigRejectsBadType(t *testing.T) {
	path := writeConfig(t, "[generate]\nseed = \"x\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "hitdash", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultExportPath(); got != filepath.Join("/data", "hitdash", "hitdash.db") {
		t.Fatalf("unexpected export path %q", got)
	}
}
