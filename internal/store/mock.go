package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/version"
)

// MockClient fabricates deterministic store behavior for development builds
// and the mock update mode: every check finds an update one minor version
// above the installed one, and flexible downloads report scripted progress.
// Review state is held in memory only.
type MockClient struct {
	mu             sync.Mutex
	platform       string
	bundleID       string
	currentVersion string
	log            zerolog.Logger

	blockingDialog bool
	totalBytes     uint64
	stepDelay      time.Duration

	reviewState    ReviewState
	lastReviewDate int64
	storeOpens     int
	reviewOpens    int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock bridge for the given app identity.
func NewMockClient(platform, bundleID, currentVersion string, log zerolog.Logger) *MockClient {
	return &MockClient{
		platform:       platform,
		bundleID:       bundleID,
		currentVersion: currentVersion,
		log:            log,
		totalBytes:     4 << 20,
	}
}

// WithStepDelay spaces the scripted download progress callbacks apart.
func (c *MockClient) WithStepDelay(d time.Duration) *MockClient {
	c.stepDelay = d
	return c
}

// WithBlockingDialog makes RequestNativeReview behave like a platform whose
// dialog blocks until the flow finishes.
func (c *MockClient) WithBlockingDialog(blocking bool) *MockClient {
	c.blockingDialog = blocking
	return c
}

// CurrentVersion returns the configured installed version.
func (c *MockClient) CurrentVersion() (string, error) {
	return c.currentVersion, nil
}

// BundleID returns the configured bundle identifier.
func (c *MockClient) BundleID() (string, error) {
	return c.bundleID, nil
}

// OpenStore records the call.
func (c *MockClient) OpenStore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeOpens++
	c.log.Info().Str("bundle_id", c.bundleID).Msg("mock: store page opened")
	return nil
}

// OpenReviewPage records the call.
func (c *MockClient) OpenReviewPage(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewOpens++
	c.log.Info().Str("bundle_id", c.bundleID).Msg("mock: review page opened")
	return nil
}

// CheckUpdate fabricates an available update one minor version up.
func (c *MockClient) CheckUpdate(ctx context.Context) (*CheckResult, error) {
	next := nextMinor(c.currentVersion)
	return &CheckResult{
		Available:   true,
		Version:     next,
		VersionCode: versionCode(next),
	}, nil
}

// StartImmediateUpdate resolves instantly.
func (c *MockClient) StartImmediateUpdate(ctx context.Context) error {
	c.log.Info().Msg("mock: immediate update flow completed")
	return nil
}

// StartFlexibleUpdate reports scripted quarter-step progress and resolves.
func (c *MockClient) StartFlexibleUpdate(ctx context.Context, onProgress func(bytesDownloaded, totalBytes uint64)) error {
	steps := []uint64{c.totalBytes / 4, c.totalBytes / 2, 3 * c.totalBytes / 4, c.totalBytes}
	for _, downloaded := range steps {
		if c.stepDelay > 0 {
			select {
			case <-time.After(c.stepDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(downloaded, c.totalBytes)
		}
	}
	return nil
}

// CompleteFlexibleUpdate resolves instantly.
func (c *MockClient) CompleteFlexibleUpdate(ctx context.Context) error {
	c.log.Info().Msg("mock: flexible update installed")
	return nil
}

// RequestNativeReview resolves instantly.
func (c *MockClient) RequestNativeReview(ctx context.Context) error {
	c.log.Info().Msg("mock: native review dialog requested")
	return nil
}

// BlockingReviewDialog reports the configured dialog behavior.
func (c *MockClient) BlockingReviewDialog() bool {
	return c.blockingDialog
}

// LastReviewDate returns the in-memory review request time.
func (c *MockClient) LastReviewDate() (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastReviewDate == 0 {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(c.lastReviewDate), true, nil
}

// SetLastReviewDate records the review request time in memory.
func (c *MockClient) SetLastReviewDate(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReviewDate = t.UnixMilli()
	return nil
}

// ReviewState returns the in-memory review record.
func (c *MockClient) ReviewState() (ReviewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reviewState, nil
}

// SetReviewState replaces the in-memory review record.
func (c *MockClient) SetReviewState(st ReviewState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviewState = st
	return nil
}

// StoreOpens returns how many times the store page was opened.
func (c *MockClient) StoreOpens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeOpens
}

// ReviewOpens returns how many times the review page was opened.
func (c *MockClient) ReviewOpens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reviewOpens
}

// nextMinor fabricates the next minor release above v.
func nextMinor(v string) string {
	parsed := version.Parse(v)
	release := parsed.Release
	switch {
	case len(release) == 0:
		release = []int{0, 1}
	case len(release) == 1:
		release = append(release, 1)
	default:
		release = release[:2]
		release[1]++
	}
	next := version.Version{Release: append(release, 0)}
	return next.String()
}

// versionCode derives a Play-style numeric code from a dotted version.
func versionCode(v string) string {
	parsed := version.Parse(v)
	code := 0
	for i := 0; i < 3; i++ {
		code *= 100
		if i < len(parsed.Release) {
			code += parsed.Release[i]
		}
	}
	return strconv.Itoa(code)
}
