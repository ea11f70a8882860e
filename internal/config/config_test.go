package config_test

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termplan/internal/config"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
listen: ":9000"
log_level: verbose
term:
  start: "2025-07-21"
  end: "2025-11-14"
samples:
  - id: demo
    url: https://example.com/demo.ics
    unit_code: DEMO101
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Australia/Melbourne", cfg.ProjectTimezone)
	require.Len(t, cfg.Samples, 1)
	assert.Equal(t, "DEMO101", cfg.Samples[0].UnitCode)

	start, end, err := cfg.TermBounds()
	require.NoError(t, err)
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, "Australia/Melbourne", start.Location().String())
	assert.True(t, end.After(start))
}

func TestTermBoundsErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Term.End = cfg.Term.Start
	_, _, err := cfg.TermBounds()
	assert.Error(t, err)

	cfg.Term.Start = "not a date"
	_, _, err = cfg.TermBounds()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Samples = append(cfg.Samples, config.SampleConfig{ID: "s", URL: "https://example.com/s.ics"})
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.Error(t, config.Save("", cfg))
	assert.Error(t, config.Save(path, nil))
}
