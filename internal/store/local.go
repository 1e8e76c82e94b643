package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/errs"
	"github.com/minhnc/appupdater/internal/types"
)

// LocalConfig identifies the app a LocalClient fronts.
type LocalConfig struct {
	Platform       types.Platform
	BundleID       string
	StoreID        string
	CurrentVersion string
	StateDir       string
}

// LocalClient adapts the store bridge to a desktop host: app identity comes
// from configuration, durable review state lives in a JSON state file, and
// store pages open through the system URL handler.
//
// Native catalog checks and flexible downloads need a device platform, so
// those calls fail with NOT_SUPPORTED; the remote and mock update modes
// cover desktop hosts.
type LocalClient struct {
	cfg    LocalConfig
	state  *StateFile
	runner CommandRunner
	log    zerolog.Logger
}

var _ Client = (*LocalClient)(nil)

// NewLocalClient creates a desktop store bridge persisting state under
// cfg.StateDir.
func NewLocalClient(cfg LocalConfig, log zerolog.Logger) *LocalClient {
	return &LocalClient{
		cfg:    cfg,
		state:  NewStateFile(cfg.StateDir),
		runner: &DefaultCommandRunner{},
		log:    log,
	}
}

// WithRunner overrides the command runner. Used by tests.
func (c *LocalClient) WithRunner(r CommandRunner) *LocalClient {
	c.runner = r
	return c
}

// CurrentVersion returns the configured installed version.
func (c *LocalClient) CurrentVersion() (string, error) {
	if c.cfg.CurrentVersion == "" {
		return "", fmt.Errorf("current version not configured")
	}
	return c.cfg.CurrentVersion, nil
}

// BundleID returns the configured bundle identifier.
func (c *LocalClient) BundleID() (string, error) {
	if c.cfg.BundleID == "" {
		return "", fmt.Errorf("bundle ID not configured")
	}
	return c.cfg.BundleID, nil
}

// StoreURL returns the app's store page URL for the configured platform.
func (c *LocalClient) StoreURL() (string, error) {
	switch c.cfg.Platform {
	case types.PlatformAndroid:
		return fmt.Sprintf("https://play.google.com/store/apps/details?id=%s", c.cfg.BundleID), nil
	case types.PlatformIOS:
		if c.cfg.StoreID == "" {
			return "", errs.New(errs.NotSupported, "store ID not configured for App Store URLs")
		}
		return fmt.Sprintf("https://apps.apple.com/app/id%s", c.cfg.StoreID), nil
	default:
		return "", errs.Newf(errs.NotSupported, "no store for platform %q", c.cfg.Platform)
	}
}

// ReviewURL returns the app's write-a-review page URL.
func (c *LocalClient) ReviewURL() (string, error) {
	switch c.cfg.Platform {
	case types.PlatformAndroid:
		return fmt.Sprintf("https://play.google.com/store/apps/details?id=%s&showAllReviews=true", c.cfg.BundleID), nil
	case types.PlatformIOS:
		if c.cfg.StoreID == "" {
			return "", errs.New(errs.NotSupported, "store ID not configured for App Store URLs")
		}
		return fmt.Sprintf("https://apps.apple.com/app/id%s?action=write-review", c.cfg.StoreID), nil
	default:
		return "", errs.Newf(errs.NotSupported, "no store for platform %q", c.cfg.Platform)
	}
}

// OpenStore opens the app's store page.
func (c *LocalClient) OpenStore(ctx context.Context) error {
	url, err := c.StoreURL()
	if err != nil {
		return err
	}
	c.log.Info().Str("url", url).Msg("opening store page")
	return openURL(ctx, c.runner, url)
}

// OpenReviewPage opens the app's write-a-review page.
func (c *LocalClient) OpenReviewPage(ctx context.Context) error {
	url, err := c.ReviewURL()
	if err != nil {
		return err
	}
	c.log.Info().Str("url", url).Msg("opening review page")
	return openURL(ctx, c.runner, url)
}

// CheckUpdate fails: desktop hosts have no native store catalog.
func (c *LocalClient) CheckUpdate(ctx context.Context) (*CheckResult, error) {
	return nil, errs.New(errs.NotSupported, "native store catalog unavailable on this host")
}

// StartImmediateUpdate hands the user to the store page, the closest
// desktop equivalent of the blocking store flow.
func (c *LocalClient) StartImmediateUpdate(ctx context.Context) error {
	return c.OpenStore(ctx)
}

// StartFlexibleUpdate fails: background downloads need a device platform.
func (c *LocalClient) StartFlexibleUpdate(ctx context.Context, onProgress func(bytesDownloaded, totalBytes uint64)) error {
	return errs.New(errs.NotSupported, "flexible downloads unavailable on this host")
}

// CompleteFlexibleUpdate fails: there is never a flexible download to install.
func (c *LocalClient) CompleteFlexibleUpdate(ctx context.Context) error {
	return errs.New(errs.NotSupported, "flexible downloads unavailable on this host")
}

// RequestNativeReview resolves immediately, matching the fire-and-forget
// shape of platforms that never confirm the dialog was shown.
func (c *LocalClient) RequestNativeReview(ctx context.Context) error {
	c.log.Debug().Msg("native review dialog requested")
	return nil
}

// BlockingReviewDialog reports false: the desktop request never blocks.
func (c *LocalClient) BlockingReviewDialog() bool {
	return false
}

// LastReviewDate returns when the native review dialog was last requested.
func (c *LocalClient) LastReviewDate() (time.Time, bool, error) {
	doc, err := c.state.Load()
	if err != nil {
		return time.Time{}, false, err
	}
	if doc.LastReviewDate == 0 {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(doc.LastReviewDate), true, nil
}

// SetLastReviewDate records a native review request time.
func (c *LocalClient) SetLastReviewDate(t time.Time) error {
	return c.state.Update(func(doc *Document) error {
		doc.LastReviewDate = t.UnixMilli()
		return nil
	})
}

// ReviewState loads the durable review record.
func (c *LocalClient) ReviewState() (ReviewState, error) {
	doc, err := c.state.Load()
	if err != nil {
		return ReviewState{}, err
	}
	return doc.Review, nil
}

// SetReviewState writes the durable review record through.
func (c *LocalClient) SetReviewState(st ReviewState) error {
	return c.state.Update(func(doc *Document) error {
		doc.Review = st
		return nil
	})
}

// ClearState removes all durable state. Used by review state reset.
func (c *LocalClient) ClearState() error {
	return c.state.Clear()
}
