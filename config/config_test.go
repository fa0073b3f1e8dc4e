package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/kerbwatch/audio"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KERBWATCH_LOG_GLOB", "KERBWATCH_AUDIO_ROOT", "KERBWATCH_IMAGE_ROOT",
		"KERBWATCH_OUTPUT_DIR", "KERBWATCH_WORKERS", "KERBWATCH_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "logs/traffic.txt*", cfg.Inputs.LogGlob)
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.Equal(t, 0.01, cfg.Clip.LowerQuantile)
	assert.Equal(t, 0.99, cfg.Clip.UpperQuantile)
	assert.Equal(t, "references", cfg.Join.ExpectedSource)
	assert.Equal(t, "ffmpeg", cfg.Extract.Audio.FFmpegPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Greater(t, cfg.WorkerCount(), 0)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "kerbwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
inputs:
  log_glob: "/data/logs/traffic.txt*"
  audio_root: /data/snd
  image_root: /data/img
output:
  dir: /data/results
extract:
  workers: 4
  audio:
    timeout: 45s
clip:
  lower_quantile: 0.05
  upper_quantile: 0.95
join:
  expected_source: fixed
  expected_audio_per_day: 240
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/logs/traffic.txt*", cfg.Inputs.LogGlob)
	assert.Equal(t, "/data/snd", cfg.Inputs.AudioRoot)
	assert.Equal(t, "/data/img", cfg.Inputs.ImageRoot)
	assert.Equal(t, "/data/results", cfg.Output.Dir)
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, 4, cfg.WorkerCount())
	assert.Equal(t, audio.Duration(45*time.Second), cfg.Extract.Audio.Timeout)
	assert.Equal(t, "ffmpeg", cfg.Extract.Audio.FFmpegPath, "defaults must survive a partial audio block")
	assert.Equal(t, 0.05, cfg.Clip.LowerQuantile)
	assert.Equal(t, "fixed", cfg.Join.ExpectedSource)
	assert.Equal(t, 240, cfg.Join.ExpectedAudioPerDay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("KERBWATCH_LOG_GLOB", "/elsewhere/traffic.txt*")
	t.Setenv("KERBWATCH_OUTPUT_DIR", "/elsewhere/out")
	t.Setenv("KERBWATCH_WORKERS", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/elsewhere/traffic.txt*", cfg.Inputs.LogGlob)
	assert.Equal(t, "/elsewhere/out", cfg.Output.Dir)
	assert.Equal(t, 2, cfg.Extract.Workers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty log glob", func(c *Config) { c.Inputs.LogGlob = "" }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
		{"negative workers", func(c *Config) { c.Extract.Workers = -1 }},
		{"quantile above one", func(c *Config) { c.Clip.UpperQuantile = 1.5 }},
		{"inverted quantiles", func(c *Config) { c.Clip.LowerQuantile = 0.9; c.Clip.UpperQuantile = 0.1 }},
		{"bad expected source", func(c *Config) { c.Join.ExpectedSource = "guesswork" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
