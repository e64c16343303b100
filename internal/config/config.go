package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Defaults used when config.json omits a key.
const (
	DefaultMotifLength    = 6
	DefaultMinMotifLength = 4
	DefaultMaxMotifLength = 20
	DefaultAlgorithm      = "greedy"
	DefaultMaxWorkload    = 2_000_000_000
)

type Config struct {
	Input          string `json:"input"`
	OutputJSON     string `json:"output_json"`
	LogFile        string `json:"log_file"`
	LogLevel       string `json:"log_level"`
	MotifLength    int    `json:"motif_length"`
	MinMotifLength int    `json:"min_motif_length"`
	MaxMotifLength int    `json:"max_motif_length"`
	Algorithm      string `json:"algorithm"`
	// MaxWorkload caps the estimated profile lookups of one search; negative disables the cap.
	MaxWorkload int64  `json:"max_workload"`
	HistoryDB   string `json:"history_db"`

	ShowAlignment *bool `json:"show_alignment,omitempty"`
	ShowConsensus *bool `json:"show_consensus,omitempty"`
	ShowPWM       *bool `json:"show_pwm,omitempty"`
	ShowLogo      *bool `json:"show_logo,omitempty"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads a JSON config from the given path. If path is empty, looks for ./config.json.
// A missing file is not an error: defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()
	var c Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.MinMotifLength <= 0 {
		c.MinMotifLength = DefaultMinMotifLength
	}
	if c.MaxMotifLength <= 0 {
		c.MaxMotifLength = DefaultMaxMotifLength
	}
	if c.MotifLength <= 0 {
		c.MotifLength = DefaultMotifLength
	}
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	if c.MaxWorkload == 0 {
		c.MaxWorkload = DefaultMaxWorkload
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// View reports which result sections are enabled. Unset toggles default to on.
func (c *Config) View() (alignment, consensus, pwm, logo bool) {
	return isOn(c.ShowAlignment), isOn(c.ShowConsensus), isOn(c.ShowPWM), isOn(c.ShowLogo)
}

func isOn(b *bool) bool {
	return b == nil || *b
}
