// Package config loads regionforecast settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sartorproj/regionforecast/backtest"
	"github.com/sartorproj/regionforecast/forecast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REGIONFORECAST_"

// Metric describes one forecastable table.
type Metric struct {
	// File is the processed table, relative to DataDir unless absolute.
	File        string          `yaml:"file"`
	ValueColumn string          `yaml:"value_column"`
	Bounds      forecast.Bounds `yaml:"bounds"`
}

// Range is a default and an upper limit for a request parameter.
type Range struct {
	Default int `yaml:"default"`
	Max     int `yaml:"max"`
}

// Config is the application configuration.
type Config struct {
	DataDir        string            `yaml:"data_dir"`
	Workers        int               `yaml:"workers"`
	CacheSize      int               `yaml:"cache_size"`
	FitTimeout     time.Duration     `yaml:"fit_timeout"`
	Horizon        Range             `yaml:"horizon"`
	TestYears      Range             `yaml:"test_years"`
	CompareMethods []string          `yaml:"compare_methods"`
	Labels         string            `yaml:"labels"`
	Metrics        map[string]Metric `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:        filepath.Join("data", "processed"),
		CacheSize:      128,
		FitTimeout:     5 * time.Second,
		Horizon:        Range{Default: 5, Max: 10},
		TestYears:      Range{Default: 2, Max: 5},
		CompareMethods: []string{"holt", "arima", "linear"},
		Labels:         "en",
		Metrics: map[string]Metric{
			"pkh": {
				File:        "fact_pkh.csv",
				ValueColumn: "jumlah_penerima_manfaat",
				Bounds:      forecast.AtLeast(0),
			},
			"kemiskinan_abs": {
				File:        "fact_kemiskinan_abs.csv",
				ValueColumn: "jumlah_penduduk_miskin",
				Bounds:      forecast.AtLeast(0),
			},
			"kemiskinan": {
				File:        "fact_kemiskinan_persen.csv",
				ValueColumn: "persentase_penduduk_miskin",
				Bounds:      forecast.Between(0, 100),
			},
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if dir := os.Getenv(EnvPrefix + "DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if v := os.Getenv(EnvPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvPrefix + "CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_SIZE: %w", EnvPrefix, err)
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv(EnvPrefix + "FIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sFIT_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.FitTimeout = d
	}
	return nil
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.FitTimeout < 0 {
		return fmt.Errorf("fit_timeout must not be negative, got %s", c.FitTimeout)
	}
	if c.Horizon.Max < 1 || c.Horizon.Default < 1 || c.Horizon.Default > c.Horizon.Max {
		return fmt.Errorf("horizon default %d must be within 1..%d", c.Horizon.Default, c.Horizon.Max)
	}
	if c.TestYears.Max < 1 || c.TestYears.Default < 1 || c.TestYears.Default > c.TestYears.Max {
		return fmt.Errorf("test_years default %d must be within 1..%d", c.TestYears.Default, c.TestYears.Max)
	}
	if _, err := c.Methods(); err != nil {
		return err
	}
	if _, err := c.ScoreLabels(); err != nil {
		return err
	}
	if len(c.Metrics) == 0 {
		return errors.New("no metrics configured")
	}
	for name, m := range c.Metrics {
		if m.File == "" || m.ValueColumn == "" {
			return fmt.Errorf("metric %s: file and value_column are required", name)
		}
		if err := m.Bounds.Validate(); err != nil {
			return fmt.Errorf("metric %s: %w", name, err)
		}
	}
	return nil
}

// Methods parses CompareMethods.
func (c *Config) Methods() ([]forecast.Method, error) {
	methods := make([]forecast.Method, 0, len(c.CompareMethods))
	for _, s := range c.CompareMethods {
		m, err := forecast.ParseMethod(s)
		if err != nil {
			return nil, fmt.Errorf("compare_methods: %w", err)
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return forecast.CompareMethods(), nil
	}
	return methods, nil
}

// ScoreLabels resolves Labels to a band label set: "en" or "id".
func (c *Config) ScoreLabels() (backtest.Labels, error) {
	switch c.Labels {
	case "", "en":
		return backtest.EnglishLabels, nil
	case "id":
		return backtest.IndonesianLabels, nil
	}
	return backtest.Labels{}, fmt.Errorf("unknown labels %q", c.Labels)
}

// MetricNames returns the configured metric names, sorted.
func (c *Config) MetricNames() []string {
	names := make([]string, 0, len(c.Metrics))
	for name := range c.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricPath resolves a metric table path against DataDir.
func (c *Config) MetricPath(m Metric) string {
	if filepath.IsAbs(m.File) {
		return m.File
	}
	return filepath.Join(c.DataDir, m.File)
}
