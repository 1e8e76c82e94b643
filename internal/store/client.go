// Package store abstracts the platform app-store bridge: update catalogs,
// install flows, review prompts, and the durable review record.
package store

import (
	"context"
	"time"
)

// CheckResult is the raw answer from a native store catalog query.
type CheckResult struct {
	Available   bool
	Version     string
	VersionCode string
}

// ReviewState is the durable win-counting record shared with the store
// collaborator. Timestamps are epoch milliseconds so the record round-trips
// exactly through the persistence boundary.
type ReviewState struct {
	WinCount           uint  `json:"winCount"`
	LastPromptDate     int64 `json:"lastPromptDate"`
	HasCompletedReview bool  `json:"hasCompletedReview"`
	PromptCount        uint  `json:"promptCount"`
}

// LastPrompt returns the last prompt time, and false when none is recorded.
func (s ReviewState) LastPrompt() (time.Time, bool) {
	if s.LastPromptDate == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(s.LastPromptDate), true
}

// Client is the bridge to the platform store. Implementations may fail any
// call with a "<KIND>: <message>" formatted error from the closed taxonomy.
type Client interface {
	// CurrentVersion returns the installed app version.
	CurrentVersion() (string, error)
	// BundleID returns the application identifier the store knows the app by.
	BundleID() (string, error)

	// OpenStore opens the app's store page.
	OpenStore(ctx context.Context) error
	// OpenReviewPage opens the app's write-a-review page.
	OpenReviewPage(ctx context.Context) error

	// CheckUpdate queries the native store catalog for an update.
	CheckUpdate(ctx context.Context) (*CheckResult, error)

	// StartImmediateUpdate hands control to the platform for a blocking
	// update flow. It resolves when the platform accepts the hand-off.
	StartImmediateUpdate(ctx context.Context) error
	// StartFlexibleUpdate downloads in the background, reporting raw
	// progress, and resolves when the download completes.
	StartFlexibleUpdate(ctx context.Context, onProgress func(bytesDownloaded, totalBytes uint64)) error
	// CompleteFlexibleUpdate installs a finished flexible download.
	CompleteFlexibleUpdate(ctx context.Context) error

	// RequestNativeReview asks the platform to show its review dialog.
	// The platform never confirms whether the dialog was actually shown.
	RequestNativeReview(ctx context.Context) error
	// BlockingReviewDialog reports whether RequestNativeReview blocks until
	// the review flow finishes. The suppressed-dialog heuristic only applies
	// on platforms where it does.
	BlockingReviewDialog() bool

	// LastReviewDate returns when the native review dialog was last
	// requested, and false when it never was.
	LastReviewDate() (time.Time, bool, error)
	// SetLastReviewDate records a native review request time.
	SetLastReviewDate(t time.Time) error

	// ReviewState loads the durable review record, zero-valued when absent.
	ReviewState() (ReviewState, error)
	// SetReviewState writes the durable review record through.
	SetReviewState(st ReviewState) error
}
