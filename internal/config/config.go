// Package config handles appupdater configuration parsing and location
// resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minhnc/appupdater/internal/types"
)

// Defaults applied to unset fields during Load.
const (
	DefaultCountry                   = "us"
	DefaultCacheTTL                  = 5 * time.Minute
	DefaultCacheMaxEntries           = 10
	DefaultLookupTimeout             = 30 * time.Second
	DefaultProgressMinInterval       = 500 * time.Millisecond
	DefaultWinsBeforePrompt          = 3
	DefaultMaxPrompts                = 3
	DefaultCooldownDays              = 90
	DefaultReviewCooldownDays        = 30
	DefaultWinThrottle               = 2 * time.Second
	DefaultSuppressedDialogThreshold = 300 * time.Millisecond
)

// Duration wraps time.Duration so config files can carry values like "5m"
// or "300ms" in every supported format.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText parses a Go duration string. Used by the TOML and JSON decoders.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML parses a Go duration string from a YAML scalar.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a Go duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// AppConfig identifies the application the engine updates.
type AppConfig struct {
	Platform       types.Platform `yaml:"platform" toml:"platform" json:"platform"`
	BundleID       string         `yaml:"bundle_id" toml:"bundle_id" json:"bundle_id"`
	// StoreID is the numeric App Store identifier, used to build iOS store
	// and review page URLs.
	StoreID        string `yaml:"store_id,omitempty" toml:"store_id,omitempty" json:"store_id,omitempty"`
	CurrentVersion string `yaml:"current_version" toml:"current_version" json:"current_version"`
	OSVersion      string `yaml:"os_version,omitempty" toml:"os_version,omitempty" json:"os_version,omitempty"`
	Country        string `yaml:"country,omitempty" toml:"country,omitempty" json:"country,omitempty"`
}

// UpdateConfig controls update checking and downloading.
type UpdateConfig struct {
	Mode                types.UpdateMode `yaml:"mode,omitempty" toml:"mode,omitempty" json:"mode,omitempty"`
	Endpoint            string           `yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	MinRequiredVersion  string           `yaml:"min_required_version,omitempty" toml:"min_required_version,omitempty" json:"min_required_version,omitempty"`
	CacheTTL            Duration         `yaml:"cache_ttl,omitempty" toml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
	CacheMaxEntries     int              `yaml:"cache_max_entries,omitempty" toml:"cache_max_entries,omitempty" json:"cache_max_entries,omitempty"`
	LookupTimeout       Duration         `yaml:"lookup_timeout,omitempty" toml:"lookup_timeout,omitempty" json:"lookup_timeout,omitempty"`
	ProgressMinInterval Duration         `yaml:"progress_min_interval,omitempty" toml:"progress_min_interval,omitempty" json:"progress_min_interval,omitempty"`
}

// ReviewConfig controls the win counting and review prompting policy.
type ReviewConfig struct {
	WinsBeforePrompt          int      `yaml:"wins_before_prompt,omitempty" toml:"wins_before_prompt,omitempty" json:"wins_before_prompt,omitempty"`
	MaxPrompts                int      `yaml:"max_prompts,omitempty" toml:"max_prompts,omitempty" json:"max_prompts,omitempty"`
	CooldownDays              int      `yaml:"cooldown_days,omitempty" toml:"cooldown_days,omitempty" json:"cooldown_days,omitempty"`
	ReviewCooldownDays        int      `yaml:"review_cooldown_days,omitempty" toml:"review_cooldown_days,omitempty" json:"review_cooldown_days,omitempty"`
	WinThrottle               Duration `yaml:"win_throttle,omitempty" toml:"win_throttle,omitempty" json:"win_throttle,omitempty"`
	SuppressedDialogThreshold Duration `yaml:"suppressed_dialog_threshold,omitempty" toml:"suppressed_dialog_threshold,omitempty" json:"suppressed_dialog_threshold,omitempty"`
	Debug                     bool     `yaml:"debug,omitempty" toml:"debug,omitempty" json:"debug,omitempty"`
}

// StorageConfig locates durable state.
type StorageConfig struct {
	StateDir string `yaml:"state_dir,omitempty" toml:"state_dir,omitempty" json:"state_dir,omitempty"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty"`
}

// Config is the parsed appupdater configuration file.
type Config struct {
	App     AppConfig     `yaml:"app" toml:"app" json:"app"`
	Update  UpdateConfig  `yaml:"update,omitempty" toml:"update,omitempty" json:"update,omitempty"`
	Review  ReviewConfig  `yaml:"review,omitempty" toml:"review,omitempty" json:"review,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty" toml:"storage,omitempty" json:"storage,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty" toml:"logging,omitempty" json:"logging,omitempty"`
}

// Find searches for a config file in the standard locations.
// Returns the path to the first file found, or an error if none exists.
func Find(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified config not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Check APPUPDATER_CONFIG environment variable
	if envPath := os.Getenv("APPUPDATER_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	// Build search paths in order of precedence
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	searchPaths := []string{
		filepath.Join(xdgConfig, "appupdater"),
		".",
	}

	fileNames := []string{
		"appupdater.toml",
		"appupdater.yaml",
		"appupdater.yml",
		"appupdater.json",
		".appupdater.toml",
		".appupdater.yaml",
		".appupdater.yml",
		".appupdater.json",
	}

	for _, dir := range searchPaths {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("no appupdater config found in standard locations")
}

// Load reads, parses, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	cfg, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills unset fields with the documented defaults.
func (c *Config) applyDefaults() {
	if c.App.Country == "" {
		c.App.Country = DefaultCountry
	}
	if c.Update.Mode == "" {
		c.Update.Mode = types.UpdateModeStore
	}
	if c.Update.CacheTTL == 0 {
		c.Update.CacheTTL = Duration(DefaultCacheTTL)
	}
	if c.Update.CacheMaxEntries == 0 {
		c.Update.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if c.Update.LookupTimeout == 0 {
		c.Update.LookupTimeout = Duration(DefaultLookupTimeout)
	}
	if c.Update.ProgressMinInterval == 0 {
		c.Update.ProgressMinInterval = Duration(DefaultProgressMinInterval)
	}
	if c.Review.WinsBeforePrompt == 0 {
		c.Review.WinsBeforePrompt = DefaultWinsBeforePrompt
	}
	if c.Review.MaxPrompts == 0 {
		c.Review.MaxPrompts = DefaultMaxPrompts
	}
	if c.Review.CooldownDays == 0 {
		c.Review.CooldownDays = DefaultCooldownDays
	}
	if c.Review.ReviewCooldownDays == 0 {
		c.Review.ReviewCooldownDays = DefaultReviewCooldownDays
	}
	if c.Review.WinThrottle == 0 {
		c.Review.WinThrottle = Duration(DefaultWinThrottle)
	}
	if c.Review.SuppressedDialogThreshold == 0 {
		c.Review.SuppressedDialogThreshold = Duration(DefaultSuppressedDialogThreshold)
	}
	if c.Storage.StateDir == "" {
		c.Storage.StateDir = DefaultStateDir()
	}
}

// DefaultStateDir returns the XDG data directory for durable state, or ""
// when the home directory cannot be determined.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "appupdater")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "appupdater")
}
