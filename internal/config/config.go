// Package config provides Viper-based configuration management for shotframe
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shotframe/internal/export"
	"shotframe/internal/frame"
)

// Config represents the complete shotframe configuration
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Export   ExportConfig   `mapstructure:"export"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// File is the config file that was read, empty when only defaults and
	// environment applied.
	File string `mapstructure:"-"`
}

// OutputConfig controls where exported files go and how the CLI prints
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
	Colors bool   `mapstructure:"colors"`
}

// ExportConfig contains capture timing. PixelRatio is fixed and only
// accepted so that a config file stating it is not rejected.
type ExportConfig struct {
	PixelRatio  int           `mapstructure:"pixel_ratio"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	DownloadGap time.Duration `mapstructure:"download_gap"`
}

// DefaultsConfig seeds the framing configuration of a new session
type DefaultsConfig struct {
	FrameStyle          string `mapstructure:"frame_style"`
	Theme               string `mapstructure:"theme"`
	Gradient            string `mapstructure:"gradient"`
	BackgroundColor     string `mapstructure:"background_color"`
	UseCustomBackground bool   `mapstructure:"use_custom_background"`
	Padding             int    `mapstructure:"padding"`
	CornerRadius        int    `mapstructure:"corner_radius"`
	ImageScale          int    `mapstructure:"image_scale"`
	StorePreset         string `mapstructure:"store_preset"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// envReplacer maps nested keys to variables such as SHOTFRAME_OUTPUT_DIR.
var envReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".shotframe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/shotframe")
	}

	v.SetEnvPrefix("SHOTFRAME")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	d := frame.Default()
	return &Config{
		Output: OutputConfig{Dir: ".", Prefix: "shotframe", Colors: true},
		Export: ExportConfig{
			PixelRatio:  export.PixelRatio,
			SettleDelay: export.SettleDelay,
			DownloadGap: export.DownloadGap,
		},
		Defaults: DefaultsConfig{
			FrameStyle:          d.Style.String(),
			Theme:               d.Theme.String(),
			Gradient:            d.Gradient,
			BackgroundColor:     d.BackgroundColor,
			UseCustomBackground: d.UseCustomBackground,
			Padding:             d.Padding,
			CornerRadius:        d.CornerRadius,
			ImageScale:          d.ImageScale,
			StorePreset:         d.StorePreset.ID,
		},
		Logging: LoggingConfig{Level: "info", File: defaultLogFile()},
	}
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.prefix", d.Output.Prefix)
	v.SetDefault("output.colors", d.Output.Colors)

	v.SetDefault("export.pixel_ratio", d.Export.PixelRatio)
	v.SetDefault("export.settle_delay", d.Export.SettleDelay)
	v.SetDefault("export.download_gap", d.Export.DownloadGap)

	v.SetDefault("defaults.frame_style", d.Defaults.FrameStyle)
	v.SetDefault("defaults.theme", d.Defaults.Theme)
	v.SetDefault("defaults.gradient", d.Defaults.Gradient)
	v.SetDefault("defaults.background_color", d.Defaults.BackgroundColor)
	v.SetDefault("defaults.use_custom_background", d.Defaults.UseCustomBackground)
	v.SetDefault("defaults.padding", d.Defaults.Padding)
	v.SetDefault("defaults.corner_radius", d.Defaults.CornerRadius)
	v.SetDefault("defaults.image_scale", d.Defaults.ImageScale)
	v.SetDefault("defaults.store_preset", d.Defaults.StorePreset)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// defaultLogFile places the TUI log under the XDG state directory.
func defaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "shotframe", "shotframe.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "shotframe", "shotframe.log")
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	if cfg.Output.Prefix == "" {
		return fmt.Errorf("output.prefix must not be empty")
	}
	if cfg.Export.PixelRatio != export.PixelRatio {
		return fmt.Errorf("export.pixel_ratio is fixed at %d, got %d", export.PixelRatio, cfg.Export.PixelRatio)
	}
	if cfg.Export.SettleDelay < 0 || cfg.Export.DownloadGap < 0 {
		return fmt.Errorf("export delays must not be negative")
	}

	if _, err := cfg.FrameDefaults(); err != nil {
		return err
	}
	return nil
}

// FrameDefaults converts the defaults section into the initial framing
// configuration. Out-of-range numbers are clamped.
func (c *Config) FrameDefaults() (frame.Config, error) {
	d := c.Defaults
	style, err := frame.ParseStyle(d.FrameStyle)
	if err != nil {
		return frame.Config{}, fmt.Errorf("defaults.frame_style: %w", err)
	}
	theme, err := frame.ParseTheme(d.Theme)
	if err != nil {
		return frame.Config{}, fmt.Errorf("defaults.theme: %w", err)
	}
	gradient, err := frame.LookupGradient(d.Gradient)
	if err != nil {
		return frame.Config{}, fmt.Errorf("defaults.gradient: %w", err)
	}
	if _, err := frame.ParseHexColor(d.BackgroundColor); err != nil {
		return frame.Config{}, fmt.Errorf("defaults.background_color: %w", err)
	}
	preset, err := frame.LookupPreset(d.StorePreset)
	if err != nil {
		return frame.Config{}, fmt.Errorf("defaults.store_preset: %w", err)
	}

	return frame.Config{
		Style:               style,
		Theme:               theme,
		Gradient:            gradient.Name,
		BackgroundColor:     d.BackgroundColor,
		UseCustomBackground: d.UseCustomBackground,
		Padding:             frame.ClampPadding(d.Padding),
		CornerRadius:        frame.ClampCornerRadius(d.CornerRadius),
		ImageScale:          frame.ClampImageScale(d.ImageScale),
		StorePreset:         preset,
	}, nil
}

// Timing returns the delays the export pipeline waits between captures.
func (c *Config) Timing() export.Timing {
	return export.Timing{Settle: c.Export.SettleDelay, Gap: c.Export.DownloadGap}
}
