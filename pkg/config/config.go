// Package config loads application settings from .env, an optional YAML file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	audioconfig "media-compress/internal/audio/config"
	"media-compress/internal/image/resize"
	"media-compress/internal/media"
	"media-compress/pkg/system"
)

const (
	DefaultWebPort        = 8443
	DefaultUploadMaxBytes = 64 << 20
)

type Config struct {
	Log   LogConfig   `yaml:"log"`
	Web   WebConfig   `yaml:"web"`
	Image ImageConfig `yaml:"image"`
	Audio AudioConfig `yaml:"audio"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type WebConfig struct {
	Port           int   `yaml:"port"`
	TLS            bool  `yaml:"tls"`
	UploadMaxBytes int64 `yaml:"upload_max_bytes"`
}

type ImageConfig struct {
	MaxWidth       int    `yaml:"max_width"`
	MaxHeight      int    `yaml:"max_height"`
	MaxOutputBytes int64  `yaml:"max_output_bytes"`
	Filter         string `yaml:"filter"`
}

type AudioConfig struct {
	// TargetSampleRate resamples decoded audio before encoding; 0 disables it.
	TargetSampleRate int `yaml:"target_sample_rate"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Web: WebConfig{
			Port:           DefaultWebPort,
			UploadMaxBytes: DefaultUploadMaxBytes,
		},
		Image: ImageConfig{
			MaxWidth:       media.DefaultMaxWidth,
			MaxHeight:      media.DefaultMaxHeight,
			MaxOutputBytes: media.DefaultMaxOutputBytes,
			Filter:         "linear",
		},
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := system.LoadEnv(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("Config file loaded")
	return nil
}

// ApplyEnv overrides cfg with every variable that is set.
func (c *Config) ApplyEnv() error {
	var errs []error
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvBool("LOG_PRETTY", c.Log.Pretty, &errs)
	c.Web.Port = getEnvInt("WEB_PORT", c.Web.Port, &errs)
	c.Web.TLS = getEnvBool("WEB_TLS", c.Web.TLS, &errs)
	c.Web.UploadMaxBytes = getEnvInt64("UPLOAD_MAX_BYTES", c.Web.UploadMaxBytes, &errs)
	c.Image.MaxWidth = getEnvInt("IMAGE_MAX_WIDTH", c.Image.MaxWidth, &errs)
	c.Image.MaxHeight = getEnvInt("IMAGE_MAX_HEIGHT", c.Image.MaxHeight, &errs)
	c.Image.MaxOutputBytes = getEnvInt64("IMAGE_MAX_OUTPUT_BYTES", c.Image.MaxOutputBytes, &errs)
	c.Image.Filter = getEnv("IMAGE_FILTER", c.Image.Filter)
	c.Audio.TargetSampleRate = getEnvInt("AUDIO_TARGET_SAMPLE_RATE", c.Audio.TargetSampleRate, &errs)
	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of [debug, info, warn, error], got '%s'", c.Log.Level)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}
	if c.Web.UploadMaxBytes < 1 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", c.Web.UploadMaxBytes)
	}
	if err := c.ResizeSpec().Validate(); err != nil {
		return err
	}
	if _, err := resize.FilterByName(c.Image.Filter); err != nil {
		return err
	}
	if r := c.Audio.TargetSampleRate; r != 0 && !audioconfig.IsSampleRateSupported(r) {
		return fmt.Errorf("target sample rate %d is not an MP3 rate %v", r, audioconfig.SupportedSampleRates())
	}
	return nil
}

// ResizeSpec is the default bounding box for image runs.
func (c *Config) ResizeSpec() media.ResizeSpec {
	return media.ResizeSpec{
		MaxWidth:       c.Image.MaxWidth,
		MaxHeight:      c.Image.MaxHeight,
		MaxOutputBytes: c.Image.MaxOutputBytes,
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Web.Port)
}

// getEnv returns the value of the environment variable key, or defaultValue if unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64, errs *[]error) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}
