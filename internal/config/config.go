// Package config loads emotionwell's settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional config.yaml in the data directory, and EMOTIONWELL_* environment
// variables (nested keys use underscores, e.g. EMOTIONWELL_STORAGE_BACKEND).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/emotionwell/internal/badges"
	"github.com/HendryAvila/emotionwell/internal/journey"
	"github.com/HendryAvila/emotionwell/internal/kv"
	"github.com/HendryAvila/emotionwell/internal/writing"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "EMOTIONWELL"
	// FileName is the config file looked up in the data directory.
	FileName = "config.yaml"
)

// --- Config sections ---

type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	Key     string      `mapstructure:"key"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig controls the rotated log file. The console log always goes to
// stderr since stdout carries the MCP transport.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type JourneyConfig struct {
	CompletionThreshold float64 `mapstructure:"completion_threshold"`
	FollowUpDays        int     `mapstructure:"follow_up_days"`
}

type BadgeConfig struct {
	Gold        float64 `mapstructure:"gold"`
	Silver      float64 `mapstructure:"silver"`
	Bronze      float64 `mapstructure:"bronze"`
	WriterChars int     `mapstructure:"writer_chars"`
}

type WritingConfig struct {
	Duration        time.Duration `mapstructure:"duration"`
	Tick            time.Duration `mapstructure:"tick"`
	MinChars        int           `mapstructure:"min_chars"`
	MinElapsed      time.Duration `mapstructure:"min_elapsed"`
	InactivityAfter time.Duration `mapstructure:"inactivity_after"`
	InactivityCheck time.Duration `mapstructure:"inactivity_check"`
}

// Config is the full application configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Journey JourneyConfig `mapstructure:"journey"`
	Badges  BadgeConfig   `mapstructure:"badges"`
	Writing WritingConfig `mapstructure:"writing"`
}

// DefaultDataDir returns ~/.emotionwell.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".emotionwell")
}

// DefaultConfig returns the built-in defaults rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	policy := journey.DefaultPolicy()
	th := badges.DefaultThresholds()
	wc := writing.DefaultConfig()
	return Config{
		DataDir: dataDir,
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			Key:     journey.StorageKey,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "emotionwell:"},
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(dataDir, "logs", "emotionwell.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Journey: JourneyConfig{
			CompletionThreshold: policy.CompletionThreshold,
			FollowUpDays:        policy.FollowUpDays,
		},
		Badges: BadgeConfig{
			Gold:        th.Gold,
			Silver:      th.Silver,
			Bronze:      th.Bronze,
			WriterChars: th.WriterChars,
		},
		Writing: WritingConfig{
			Duration:        wc.Duration,
			Tick:            wc.Tick,
			MinChars:        wc.MinChars,
			MinElapsed:      wc.MinElapsed,
			InactivityAfter: wc.InactivityAfter,
			InactivityCheck: wc.InactivityCheck,
		},
	}
}

// Load reads the configuration. An empty dataDir uses EMOTIONWELL_DATA_DIR
// or, failing that, DefaultDataDir. A missing config file is not an error.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		dataDir = os.Getenv(EnvPrefix + "_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig(dataDir))

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("data_dir", d.DataDir)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.prefix", d.Storage.Redis.Prefix)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)

	v.SetDefault("journey.completion_threshold", d.Journey.CompletionThreshold)
	v.SetDefault("journey.follow_up_days", d.Journey.FollowUpDays)

	v.SetDefault("badges.gold", d.Badges.Gold)
	v.SetDefault("badges.silver", d.Badges.Silver)
	v.SetDefault("badges.bronze", d.Badges.Bronze)
	v.SetDefault("badges.writer_chars", d.Badges.WriterChars)

	v.SetDefault("writing.duration", d.Writing.Duration)
	v.SetDefault("writing.tick", d.Writing.Tick)
	v.SetDefault("writing.min_chars", d.Writing.MinChars)
	v.SetDefault("writing.min_elapsed", d.Writing.MinElapsed)
	v.SetDefault("writing.inactivity_after", d.Writing.InactivityAfter)
	v.SetDefault("writing.inactivity_check", d.Writing.InactivityCheck)
}

var validBackends = map[string]bool{
	kv.BackendFile:   true,
	kv.BackendSQLite: true,
	kv.BackendRedis:  true,
	kv.BackendMemory: true,
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend %q: must be one of: file, sqlite, redis, memory", c.Storage.Backend)
	}
	if c.Storage.Key != "" {
		if err := kv.ValidateKey(c.Storage.Key); err != nil {
			return fmt.Errorf("invalid storage key: %w", err)
		}
	}
	if c.Journey.CompletionThreshold <= 0 {
		return fmt.Errorf("journey.completion_threshold must be positive, got %v", c.Journey.CompletionThreshold)
	}
	if c.Journey.FollowUpDays <= 0 {
		return fmt.Errorf("journey.follow_up_days must be positive, got %d", c.Journey.FollowUpDays)
	}
	if !(c.Badges.Bronze <= c.Badges.Silver && c.Badges.Silver <= c.Badges.Gold) {
		return fmt.Errorf("badge thresholds must satisfy bronze <= silver <= gold, got %v/%v/%v",
			c.Badges.Bronze, c.Badges.Silver, c.Badges.Gold)
	}
	w := c.Writing
	if w.Duration <= 0 || w.Tick <= 0 || w.InactivityCheck <= 0 {
		return errors.New("writing durations must be positive")
	}
	if w.MinElapsed > w.Duration {
		return fmt.Errorf("writing.min_elapsed (%s) exceeds writing.duration (%s)", w.MinElapsed, w.Duration)
	}
	return nil
}

// --- Conversions to component settings ---

func (c Config) Policy() journey.Policy {
	return journey.Policy{
		CompletionThreshold: c.Journey.CompletionThreshold,
		FollowUpDays:        c.Journey.FollowUpDays,
	}
}

func (c Config) Thresholds() badges.Thresholds {
	return badges.Thresholds{
		Gold:        c.Badges.Gold,
		Silver:      c.Badges.Silver,
		Bronze:      c.Badges.Bronze,
		WriterChars: c.Badges.WriterChars,
	}
}

func (c Config) WritingSession() writing.Config {
	return writing.Config{
		Duration:        c.Writing.Duration,
		Tick:            c.Writing.Tick,
		MinChars:        c.Writing.MinChars,
		MinElapsed:      c.Writing.MinElapsed,
		InactivityAfter: c.Writing.InactivityAfter,
		InactivityCheck: c.Writing.InactivityCheck,
	}
}

func (c Config) KV() kv.Options {
	return kv.Options{
		Backend: c.Storage.Backend,
		DataDir: c.DataDir,
		Redis: kv.RedisOptions{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
	}
}
