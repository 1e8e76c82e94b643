// Package events defines the domain event stream the engine emits to its
// host application.
package events

import (
	"time"
)

// Type identifies one event in the closed set.
type Type string

const (
	// TypeUpdateAvailable fires when a check finds a newer version.
	TypeUpdateAvailable Type = "update_available"
	// TypeUpdateAccepted fires when the user accepts a download.
	TypeUpdateAccepted Type = "update_accepted"
	// TypeUpdateDownloaded fires when a download finishes.
	TypeUpdateDownloaded Type = "update_downloaded"
	// TypeUpdateFailed fires when a check or download fails with a surfaced error.
	TypeUpdateFailed Type = "update_failed"
	// TypeReviewRequested fires when the review flow starts.
	TypeReviewRequested Type = "review_requested"
	// TypeReviewCompleted fires when the review flow resolves.
	TypeReviewCompleted Type = "review_completed"
	// TypeWinRecorded fires for each accepted win below the gate threshold.
	TypeWinRecorded Type = "win_recorded"
	// TypeHappinessGateShown fires when the win threshold opens the gate.
	TypeHappinessGateShown Type = "happiness_gate_shown"
	// TypeHappinessPositive fires when the user answers the gate positively.
	TypeHappinessPositive Type = "happiness_positive"
	// TypeHappinessNegative fires when the user answers the gate negatively.
	TypeHappinessNegative Type = "happiness_negative"
	// TypeHappinessDismissed fires when the user dismisses the gate.
	TypeHappinessDismissed Type = "happiness_dismissed"
)

// AllTypes returns all event types.
func AllTypes() []Type {
	return []Type{
		TypeUpdateAvailable, TypeUpdateAccepted, TypeUpdateDownloaded,
		TypeUpdateFailed, TypeReviewRequested, TypeReviewCompleted,
		TypeWinRecorded, TypeHappinessGateShown, TypeHappinessPositive,
		TypeHappinessNegative, TypeHappinessDismissed,
	}
}

// Event is a single notification. Only the fields relevant to its Type are
// populated; events are write-once and fire-and-forget.
type Event struct {
	Type    Type      `json:"type"`
	Version string    `json:"version,omitempty"`
	Error   string    `json:"error,omitempty"`
	Count   uint      `json:"count,omitempty"`
	At      time.Time `json:"at"`
}

// New returns a bare event of the given type.
func New(t Type) Event {
	return Event{Type: t}
}

// UpdateAvailable returns an update_available event carrying the new version.
func UpdateAvailable(version string) Event {
	return Event{Type: TypeUpdateAvailable, Version: version}
}

// UpdateFailed returns an update_failed event carrying the classified error text.
func UpdateFailed(err error) Event {
	ev := Event{Type: TypeUpdateFailed}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// WinRecorded returns a win_recorded event carrying the accepted win count.
func WinRecorded(count uint) Event {
	return Event{Type: TypeWinRecorded, Count: count}
}
