// Package config handles appupdater configuration parsing and location
// resolution.
//
// SYNC REQUIREMENT: Validation rules in this file must stay in sync with
// the enums in internal/types and the flag completion lists in internal/cmd.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/minhnc/appupdater/internal/types"
)

// versionPattern accepts dotted numeric versions with an optional v prefix
// and prerelease suffix.
var versionPattern = regexp.MustCompile(`^v?\d+(\.\d+)*(-[0-9A-Za-z.-]+)?$`)

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the config for required fields and valid values.
func Validate(c *Config) error {
	var errors []string

	for _, err := range validateApp(c.App) {
		errors = append(errors, err.Error())
	}
	for _, err := range validateUpdate(c.Update) {
		errors = append(errors, err.Error())
	}
	for _, err := range validateReview(c.Review) {
		errors = append(errors, err.Error())
	}
	for _, err := range validateLogging(c.Logging) {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateApp(a AppConfig) []error {
	var errs []error

	if err := a.Platform.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "app.platform", Message: err.Error()})
	}
	if a.BundleID == "" {
		errs = append(errs, ValidationError{Field: "app.bundle_id", Message: "bundle ID is required"})
	}
	if a.CurrentVersion == "" {
		errs = append(errs, ValidationError{Field: "app.current_version", Message: "current version is required"})
	} else if !versionPattern.MatchString(a.CurrentVersion) {
		errs = append(errs, ValidationError{Field: "app.current_version", Message: fmt.Sprintf("malformed version '%s'", a.CurrentVersion)})
	}
	if a.OSVersion != "" && !versionPattern.MatchString(a.OSVersion) {
		errs = append(errs, ValidationError{Field: "app.os_version", Message: fmt.Sprintf("malformed version '%s'", a.OSVersion)})
	}

	return errs
}

func validateUpdate(u UpdateConfig) []error {
	var errs []error

	if err := u.Mode.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "update.mode", Message: err.Error()})
	}

	if u.Mode == types.UpdateModeRemote {
		if u.Endpoint == "" {
			errs = append(errs, ValidationError{Field: "update.endpoint", Message: "endpoint is required for remote mode"})
		}
	}
	if u.Endpoint != "" {
		parsed, err := url.Parse(u.Endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, ValidationError{Field: "update.endpoint", Message: fmt.Sprintf("invalid URL '%s'", u.Endpoint)})
		}
	}

	if u.MinRequiredVersion != "" && !versionPattern.MatchString(u.MinRequiredVersion) {
		errs = append(errs, ValidationError{Field: "update.min_required_version", Message: fmt.Sprintf("malformed version '%s'", u.MinRequiredVersion)})
	}

	if u.CacheTTL < 0 {
		errs = append(errs, ValidationError{Field: "update.cache_ttl", Message: "must not be negative"})
	}
	if u.CacheMaxEntries < 0 {
		errs = append(errs, ValidationError{Field: "update.cache_max_entries", Message: "must not be negative"})
	}
	if u.LookupTimeout < 0 {
		errs = append(errs, ValidationError{Field: "update.lookup_timeout", Message: "must not be negative"})
	}
	if u.ProgressMinInterval < 0 {
		errs = append(errs, ValidationError{Field: "update.progress_min_interval", Message: "must not be negative"})
	}

	return errs
}

func validateReview(r ReviewConfig) []error {
	var errs []error

	nonNegative := []struct {
		field string
		value int
	}{
		{"review.wins_before_prompt", r.WinsBeforePrompt},
		{"review.max_prompts", r.MaxPrompts},
		{"review.cooldown_days", r.CooldownDays},
		{"review.review_cooldown_days", r.ReviewCooldownDays},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			errs = append(errs, ValidationError{Field: n.field, Message: "must not be negative"})
		}
	}

	if r.WinThrottle < 0 {
		errs = append(errs, ValidationError{Field: "review.win_throttle", Message: "must not be negative"})
	}
	if r.SuppressedDialogThreshold < 0 {
		errs = append(errs, ValidationError{Field: "review.suppressed_dialog_threshold", Message: "must not be negative"})
	}
	if r.SuppressedDialogThreshold.Std() > time.Second {
		errs = append(errs, ValidationError{Field: "review.suppressed_dialog_threshold", Message: "must be one second or less"})
	}

	return errs
}

func validateLogging(l LoggingConfig) []error {
	var errs []error

	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("invalid level '%s' (must be debug, info, warn, or error)", l.Level)})
	}

	switch strings.ToLower(l.Format) {
	case "", "auto", "console", "json":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: fmt.Sprintf("invalid format '%s' (must be auto, console, or json)", l.Format)})
	}

	return errs
}
