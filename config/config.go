package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/veldt-labs/kerbwatch/audio"
	"github.com/veldt-labs/kerbwatch/integrate"
)

// Config is the full batch-run configuration
type Config struct {
	Inputs  InputsConfig     `yaml:"inputs"`
	Output  OutputConfig     `yaml:"output"`
	Extract ExtractConfig    `yaml:"extract"`
	Clip    ClipConfig       `yaml:"clip"`
	Join    integrate.Config `yaml:"join"`
	Log     LogConfig        `yaml:"log"`
}

// InputsConfig locates the raw inputs
type InputsConfig struct {
	LogGlob   string `yaml:"log_glob"`
	AudioRoot string `yaml:"audio_root"`
	ImageRoot string `yaml:"image_root"`
}

// OutputConfig locates the result tables
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ExtractConfig controls per-file feature extraction
type ExtractConfig struct {
	// Workers bounds the extraction pool; 0 means NumCPU
	Workers int                 `yaml:"workers"`
	Audio   audio.DecoderConfig `yaml:"audio"`
}

// ClipConfig sets the quantile bounds for the clipped image tables
type ClipConfig struct {
	LowerQuantile float64 `yaml:"lower_quantile"`
	UpperQuantile float64 `yaml:"upper_quantile"`
}

// LogConfig controls the run logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Inputs: InputsConfig{
			LogGlob: "logs/traffic.txt*",
		},
		Output: OutputConfig{
			Dir: "results",
		},
		Extract: ExtractConfig{
			Workers: 0,
			Audio:   audio.DefaultDecoderConfig(),
		},
		Clip: ClipConfig{
			LowerQuantile: 0.01,
			UpperQuantile: 0.99,
		},
		Join: integrate.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the yaml file at path (skipped when empty), applies
// KERBWATCH_* environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KERBWATCH_LOG_GLOB"); v != "" {
		cfg.Inputs.LogGlob = v
	}
	if v := os.Getenv("KERBWATCH_AUDIO_ROOT"); v != "" {
		cfg.Inputs.AudioRoot = v
	}
	if v := os.Getenv("KERBWATCH_IMAGE_ROOT"); v != "" {
		cfg.Inputs.ImageRoot = v
	}
	if v := os.Getenv("KERBWATCH_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("KERBWATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Extract.Workers = n
		}
	}
	if v := os.Getenv("KERBWATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate rejects configurations the pipeline cannot run with
func (c Config) Validate() error {
	if c.Inputs.LogGlob == "" {
		return fmt.Errorf("inputs.log_glob is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Extract.Workers < 0 {
		return fmt.Errorf("extract.workers must be >= 0, got %d", c.Extract.Workers)
	}
	if c.Clip.LowerQuantile < 0 || c.Clip.LowerQuantile > 1 ||
		c.Clip.UpperQuantile < 0 || c.Clip.UpperQuantile > 1 {
		return fmt.Errorf("clip quantiles must be in [0, 1]")
	}
	if c.Clip.LowerQuantile >= c.Clip.UpperQuantile {
		return fmt.Errorf("clip.lower_quantile %v must be below clip.upper_quantile %v",
			c.Clip.LowerQuantile, c.Clip.UpperQuantile)
	}
	switch c.Join.ExpectedSource {
	case "references", "fixed":
	default:
		return fmt.Errorf("join.expected_source must be \"references\" or \"fixed\", got %q",
			c.Join.ExpectedSource)
	}
	return nil
}

// WorkerCount resolves the effective extraction pool size
func (c Config) WorkerCount() int {
	if c.Extract.Workers > 0 {
		return c.Extract.Workers
	}
	return runtime.NumCPU()
}
