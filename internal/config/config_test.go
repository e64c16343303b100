package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MotifLength != DefaultMotifLength || c.Algorithm != DefaultAlgorithm {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.MinMotifLength != 4 || c.MaxMotifLength != 20 {
		t.Fatalf("unexpected motif length range %d-%d", c.MinMotifLength, c.MaxMotifLength)
	}
	a, cs, p, l := c.View()
	if !a || !cs || !p || !l {
		t.Fatalf("expected every view enabled by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"motif_length": 8, "log_level": "debug", "history_db": "runs.db", "show_logo": false, "max_workload": -1}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MotifLength != 8 || c.LogLevel != "debug" || c.HistoryDB != "runs.db" {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.MaxWorkload != -1 {
		t.Fatalf("expected workload cap disabled, got %d", c.MaxWorkload)
	}
	_, _, _, logo := c.View()
	if logo {
		t.Fatalf("expected logo view disabled")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"motif_length": "six"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"motif_lenght": 6}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}
