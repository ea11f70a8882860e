package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// TermConfig is the academic term shown on the day grid. Dates use
// YYYY-MM-DD in the project timezone.
type TermConfig struct {
	Start  string `yaml:"start" json:"start"`
	End    string `yaml:"end" json:"end"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// SampleConfig is a built-in sample calendar fetched on startup and on
// every refresh.
type SampleConfig struct {
	ID       string `yaml:"id" json:"id"`
	URL      string `yaml:"url" json:"url"`
	UnitCode string `yaml:"unit_code,omitempty" json:"unit_code,omitempty"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the JSON API.
	Listen string `yaml:"listen" json:"listen"`

	// ProjectTimezone is stamped on scheduled milestones and used to read
	// term dates.
	ProjectTimezone string `yaml:"project_timezone" json:"project_timezone"`

	Term TermConfig `yaml:"term" json:"term"`

	// CatalogPath points at the assignment-type catalog (YAML or JSON).
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`

	Samples []SampleConfig `yaml:"samples" json:"samples"`

	// RefreshCron schedules sample refreshes (e.g. "0 */6 * * *").
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// FetchPerMinute caps outbound sample fetches. Zero disables the cap.
	FetchPerMinute int `yaml:"fetch_per_minute" json:"fetch_per_minute"`

	CacheDir  string `yaml:"cache_dir" json:"cache_dir"`
	ExportDir string `yaml:"export_dir" json:"export_dir"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "Australia/Melbourne"
	defaultRefreshCron = "0 */6 * * *"
	defaultCacheDir    = "./var/ics-cache"
	defaultExportDir   = "./var/exports"
	defaultCatalogPath = "./catalog.yaml"
	defaultFetchRate   = 30
	dateLayout         = "2006-01-02"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		ProjectTimezone: defaultTimezone,
		Term: TermConfig{
			Start:  "2025-02-24",
			End:    "2025-06-20",
			Detail: "Semester 1",
		},
		CatalogPath:    defaultCatalogPath,
		Samples:        []SampleConfig{},
		RefreshCron:    defaultRefreshCron,
		FetchPerMinute: defaultFetchRate,
		CacheDir:       defaultCacheDir,
		ExportDir:      defaultExportDir,
		LogLevel:       "info",
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.ProjectTimezone == "" {
		c.ProjectTimezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.FetchPerMinute < 0 {
		c.FetchPerMinute = 0
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.ExportDir == "" {
		c.ExportDir = defaultExportDir
	}
	if c.CatalogPath == "" {
		c.CatalogPath = defaultCatalogPath
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Samples == nil {
		c.Samples = []SampleConfig{}
	}
}

// Location resolves ProjectTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ProjectTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TermBounds parses the term dates at midnight in the project timezone.
func (c *Config) TermBounds() (time.Time, time.Time, error) {
	loc := c.Location()
	start, err := time.ParseInLocation(dateLayout, c.Term.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("term start: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, c.Term.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("term end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("term end must be after start")
	}
	return start, end, nil
}

// Load loads configuration from the given YAML path. On first run the
// defaults are written to path (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".termplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
