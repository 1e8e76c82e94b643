// Package types provides type-safe constants shared across the appupdater
// engine.
//
// This package centralizes all enumerated types used throughout the codebase,
// replacing magic strings with typed constants that provide compile-time safety
// and validation methods.
//
// SYNC REQUIREMENT: These types must stay in sync with:
//   - internal/config/validate.go (runtime validation)
//   - internal/cmd flag completion lists
package types

import (
	"fmt"
	"strings"
)

// Platform represents the mobile platform the updater runs against.
type Platform string

const (
	// PlatformAndroid indicates an Android host using the Play in-app update flow.
	PlatformAndroid Platform = "android"
	// PlatformIOS indicates an iOS host using the App Store lookup flow.
	PlatformIOS Platform = "ios"
)

// AllPlatforms returns all valid platforms.
func AllPlatforms() []Platform {
	return []Platform{PlatformAndroid, PlatformIOS}
}

// Validate checks if the Platform is a valid value.
func (p Platform) Validate() error {
	switch p {
	case PlatformAndroid, PlatformIOS:
		return nil
	case "":
		return fmt.Errorf("platform is required")
	default:
		return fmt.Errorf("invalid platform '%s' (must be android or ios)", p)
	}
}

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// IsAndroid returns true if the platform is Android.
func (p Platform) IsAndroid() bool {
	return p == PlatformAndroid
}

// IsIOS returns true if the platform is iOS.
func (p Platform) IsIOS() bool {
	return p == PlatformIOS
}

// ParsePlatform parses a string into a Platform.
// Returns an error if the string is not a valid platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(s))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// UpdateMode represents where update availability is resolved from.
type UpdateMode string

const (
	// UpdateModeStore resolves updates through the platform's native store catalog.
	UpdateModeStore UpdateMode = "store"
	// UpdateModeRemote resolves updates through the HTTP lookup endpoint.
	UpdateModeRemote UpdateMode = "remote"
	// UpdateModeMock fabricates deterministic results for development builds.
	UpdateModeMock UpdateMode = "mock"
)

// AllUpdateModes returns all valid update modes.
func AllUpdateModes() []UpdateMode {
	return []UpdateMode{UpdateModeStore, UpdateModeRemote, UpdateModeMock}
}

// Validate checks if the UpdateMode is a valid value.
func (m UpdateMode) Validate() error {
	switch m {
	case UpdateModeStore, UpdateModeRemote, UpdateModeMock:
		return nil
	case "":
		return fmt.Errorf("update mode is required")
	default:
		return fmt.Errorf("invalid update mode '%s' (must be store, remote, or mock)", m)
	}
}

// String returns the string representation of the UpdateMode.
func (m UpdateMode) String() string {
	return string(m)
}

// IsStore returns true if the update mode is store.
func (m UpdateMode) IsStore() bool {
	return m == UpdateModeStore
}

// IsRemote returns true if the update mode is remote.
func (m UpdateMode) IsRemote() bool {
	return m == UpdateModeRemote
}

// IsMock returns true if the update mode is mock.
func (m UpdateMode) IsMock() bool {
	return m == UpdateModeMock
}

// ParseUpdateMode parses a string into an UpdateMode.
// Returns an error if the string is not a valid update mode.
func ParseUpdateMode(s string) (UpdateMode, error) {
	m := UpdateMode(strings.ToLower(s))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// DownloadMode represents how an accepted update is applied.
type DownloadMode string

const (
	// DownloadModeImmediate hands control to the platform for a blocking update.
	DownloadModeImmediate DownloadMode = "immediate"
	// DownloadModeFlexible downloads in the background and installs on demand.
	DownloadModeFlexible DownloadMode = "flexible"
)

// AllDownloadModes returns all valid download modes.
func AllDownloadModes() []DownloadMode {
	return []DownloadMode{DownloadModeImmediate, DownloadModeFlexible}
}

// Validate checks if the DownloadMode is a valid value.
func (m DownloadMode) Validate() error {
	switch m {
	case DownloadModeImmediate, DownloadModeFlexible:
		return nil
	case "":
		return fmt.Errorf("download mode is required")
	default:
		return fmt.Errorf("invalid download mode '%s' (must be immediate or flexible)", m)
	}
}

// String returns the string representation of the DownloadMode.
func (m DownloadMode) String() string {
	return string(m)
}

// IsImmediate returns true if the download mode is immediate.
func (m DownloadMode) IsImmediate() bool {
	return m == DownloadModeImmediate
}

// IsFlexible returns true if the download mode is flexible.
func (m DownloadMode) IsFlexible() bool {
	return m == DownloadModeFlexible
}

// ParseDownloadMode parses a string into a DownloadMode.
// Returns an error if the string is not a valid download mode.
func ParseDownloadMode(s string) (DownloadMode, error) {
	m := DownloadMode(strings.ToLower(s))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// GateOutcome represents how the user resolved the happiness gate.
type GateOutcome string

const (
	// GateOutcomePositive indicates the user reported being happy with the app.
	GateOutcomePositive GateOutcome = "positive"
	// GateOutcomeNegative indicates the user reported being unhappy.
	GateOutcomeNegative GateOutcome = "negative"
	// GateOutcomeDismiss indicates the user dismissed the gate without answering.
	GateOutcomeDismiss GateOutcome = "dismiss"
)

// AllGateOutcomes returns all valid gate outcomes.
func AllGateOutcomes() []GateOutcome {
	return []GateOutcome{GateOutcomePositive, GateOutcomeNegative, GateOutcomeDismiss}
}

// Validate checks if the GateOutcome is a valid value.
func (o GateOutcome) Validate() error {
	switch o {
	case GateOutcomePositive, GateOutcomeNegative, GateOutcomeDismiss:
		return nil
	case "":
		return fmt.Errorf("gate outcome is required")
	default:
		return fmt.Errorf("invalid gate outcome '%s' (must be positive, negative, or dismiss)", o)
	}
}

// String returns the string representation of the GateOutcome.
func (o GateOutcome) String() string {
	return string(o)
}

// ParseGateOutcome parses a string into a GateOutcome.
// Returns an error if the string is not a valid gate outcome.
func ParseGateOutcome(s string) (GateOutcome, error) {
	o := GateOutcome(strings.ToLower(s))
	if err := o.Validate(); err != nil {
		return "", err
	}
	return o, nil
}
