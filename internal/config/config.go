// Package config provides configuration types and defaults for edit.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/edit/internal/log"
)

// Config holds all configuration options for edit.
type Config struct {
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`
	Watch  WatchConfig  `mapstructure:"watch" yaml:"watch"`
	Status StatusConfig `mapstructure:"status" yaml:"status"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// EditorConfig holds document and save settings.
type EditorConfig struct {
	TabWidth           int    `mapstructure:"tab_width" yaml:"tab_width"`                       // spaces per tab on load and on Tab
	TempSuffix         string `mapstructure:"temp_suffix" yaml:"temp_suffix"`                   // appended to the path for atomic saves
	LargeFileThreshold int64  `mapstructure:"large_file_threshold" yaml:"large_file_threshold"` // bytes; 0 disables the prompt
	ConfirmLargeFiles  bool   `mapstructure:"confirm_large_files" yaml:"confirm_large_files"`
}

// WatchConfig controls the external-change watcher.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// StatusConfig controls the status bar.
type StatusConfig struct {
	MessageTTL time.Duration `mapstructure:"message_ttl" yaml:"message_ttl"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Debug bool   `mapstructure:"debug" yaml:"debug"`
	File  string `mapstructure:"file" yaml:"file"`
}

// MaxTabWidth is the largest accepted tab width.
const MaxTabWidth = 16

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:           4,
			TempSuffix:         ".tmp",
			LargeFileThreshold: 100 * 1024 * 1024,
			ConfirmLargeFiles:  true,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
		Status: StatusConfig{
			MessageTTL: 5 * time.Second,
		},
		Log: LogConfig{
			Debug: false,
			File:  "edit-debug.log",
		},
	}
}

// SetDefaults registers every default with v so env variables and flags
// can override keys that no config file mentions.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.temp_suffix", d.Editor.TempSuffix)
	v.SetDefault("editor.large_file_threshold", d.Editor.LargeFileThreshold)
	v.SetDefault("editor.confirm_large_files", d.Editor.ConfirmLargeFiles)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("status.message_ttl", d.Status.MessageTTL)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads the effective configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to decode config", err)
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	log.Debug(log.CatConfig, "Config loaded", "tab_width", cfg.Editor.TabWidth, "watch", cfg.Watch.Enabled)
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func Validate(cfg Config) error {
	var errs []error

	if cfg.Editor.TabWidth < 1 || cfg.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, fmt.Errorf("editor.tab_width must be between 1 and %d, got %d", MaxTabWidth, cfg.Editor.TabWidth))
	}
	switch {
	case cfg.Editor.TempSuffix == "":
		errs = append(errs, errors.New("editor.temp_suffix is required"))
	case strings.ContainsAny(cfg.Editor.TempSuffix, `/\`):
		errs = append(errs, fmt.Errorf("editor.temp_suffix must not contain a path separator: %q", cfg.Editor.TempSuffix))
	}
	if cfg.Editor.LargeFileThreshold < 0 {
		errs = append(errs, fmt.Errorf("editor.large_file_threshold must not be negative, got %d", cfg.Editor.LargeFileThreshold))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce))
	}
	if cfg.Status.MessageTTL < 0 {
		errs = append(errs, fmt.Errorf("status.message_ttl must not be negative, got %s", cfg.Status.MessageTTL))
	}

	return errors.Join(errs...)
}

// ShouldConfirm reports whether a file of size bytes needs confirmation
// before loading.
func (c EditorConfig) ShouldConfirm(size int64) bool {
	return c.ConfirmLargeFiles && c.LargeFileThreshold > 0 && size > c.LargeFileThreshold
}
