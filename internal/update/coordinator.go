// Package update orchestrates the "is a newer release available" decision:
// cache consultation, concurrent-caller dedup, the platform source branch,
// and the OS-compatibility and criticality policies.
package update

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/cache"
	"github.com/minhnc/appupdater/internal/errs"
	"github.com/minhnc/appupdater/internal/events"
	"github.com/minhnc/appupdater/internal/store"
	"github.com/minhnc/appupdater/internal/types"
	"github.com/minhnc/appupdater/internal/version"
)

// Config carries every policy input that affects a check result.
type Config struct {
	Platform           types.Platform
	Mode               types.UpdateMode
	BundleID           string
	Country            string
	CurrentVersion     string
	OSVersion          string
	MinRequiredVersion string
	Debug              bool
	CacheTTL           time.Duration
	CacheMaxEntries    int
}

// Result is an immutable snapshot of one completed check. It is replaced
// wholesale by the next successful check, never partially mutated.
type Result struct {
	Available        bool      `json:"available"`
	Critical         bool      `json:"critical"`
	Version          string    `json:"version,omitempty"`
	VersionCode      string    `json:"version_code,omitempty"`
	ReleaseNotes     string    `json:"release_notes,omitempty"`
	StoreURL         string    `json:"store_url,omitempty"`
	MinimumOSVersion string    `json:"minimum_os_version,omitempty"`
	CheckedAt        time.Time `json:"checked_at"`
}

// String renders the result for the text output format.
func (r *Result) String() string {
	if !r.Available {
		return "No update available."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Update available: %s", r.Version)
	if r.Critical {
		b.WriteString(" (critical)")
	}
	if r.ReleaseNotes != "" {
		fmt.Fprintf(&b, "\n\n%s", r.ReleaseNotes)
	}
	if r.StoreURL != "" {
		fmt.Fprintf(&b, "\n\n%s", r.StoreURL)
	}
	return b.String()
}

// Finder resolves the newest published release from a remote catalog.
type Finder interface {
	Find(ctx context.Context, bundleID, country string) (*store.LookupResult, error)
}

// Coordinator runs the check pipeline. Safe for concurrent use; overlapping
// calls share a single underlying store query.
type Coordinator struct {
	cfg    Config
	client store.Client
	lookup Finder
	cache  *cache.Cache[string, *Result]
	bus    *events.Bus
	log    zerolog.Logger

	mu       sync.Mutex
	inFlight bool
	last     *Result
	closed   bool

	now func() time.Time
}

// NewCoordinator wires a check coordinator. lookup may be nil when the mode
// never queries the remote catalog.
func NewCoordinator(cfg Config, client store.Client, lookup Finder, bus *events.Bus, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		cfg:    cfg,
		client: client,
		lookup: lookup,
		cache:  cache.New[string, *Result](cfg.CacheTTL, cfg.CacheMaxEntries),
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// cacheKey concatenates every input that affects the result so differing
// policy contexts never collide.
func (c *Coordinator) cacheKey() string {
	return strings.Join([]string{
		c.cfg.Platform.String(),
		c.cfg.Mode.String(),
		c.cfg.BundleID,
		c.cfg.Country,
		c.cfg.MinRequiredVersion,
		fmt.Sprintf("debug=%t", c.cfg.Debug),
	}, "|")
}

// Check resolves whether a newer release is available.
//
// Cache hits short-circuit the store entirely unless force is set. When a
// check is already in flight the last known result is returned immediately
// (nil if none yet) rather than starting a second underlying query; force
// does not break that dedup.
func (c *Coordinator) Check(ctx context.Context, force bool) (*Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errs.New(errs.NotSupported, "coordinator is closed")
	}

	key := c.cacheKey()
	if !force {
		if cached, ok := c.cache.Get(key); ok {
			c.mu.Unlock()
			c.log.Debug().Str("key", key).Msg("update check served from cache")
			return cached, nil
		}
	}

	if c.inFlight {
		last := c.last
		c.mu.Unlock()
		c.log.Debug().Msg("update check already in flight, returning last known result")
		return last, nil
	}
	c.inFlight = true
	c.mu.Unlock()

	result, err := c.runCheck(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if c.closed {
		// Torn down while the query was in flight; drop the outcome.
		return nil, errs.New(errs.NotSupported, "coordinator is closed")
	}

	if err != nil {
		appErr := errs.Classify(err)
		if !absorbable(appErr) {
			c.log.Warn().Str("kind", appErr.Kind.String()).Str("message", appErr.Message).Msg("update check failed")
			c.bus.Emit(events.UpdateFailed(appErr))
			return nil, appErr
		}
		// Environment noise (sideloaded or locked-down install) resolves
		// quietly as "no update" with no failure event.
		c.log.Debug().Str("kind", appErr.Kind.String()).Msg("update check absorbed as no-update")
		result = &Result{CheckedAt: c.now()}
	}

	// Negative results are cached too, so a quiet "no update" answer does
	// not trigger a fresh query on every call.
	c.cache.Set(key, result)
	c.last = result

	if result.Available {
		c.log.Info().Str("version", result.Version).Bool("critical", result.Critical).Msg("update available")
		c.bus.Emit(events.UpdateAvailable(result.Version))
	}

	return result, nil
}

// runCheck executes the source branch and policy pipeline without holding
// the coordinator lock.
func (c *Coordinator) runCheck(ctx context.Context) (*Result, error) {
	raw, err := c.query(ctx)
	if err != nil {
		return nil, err
	}

	raw.CheckedAt = c.now()

	// Releases the device cannot run are invisible.
	if raw.Available && !c.osCompatible(raw.MinimumOSVersion) {
		c.log.Debug().
			Str("minimum_os", raw.MinimumOSVersion).
			Str("device_os", c.cfg.OSVersion).
			Msg("candidate release requires a newer OS, hiding it")
		return &Result{CheckedAt: raw.CheckedAt}, nil
	}

	// Criticality keys off the installed version, not the candidate's.
	if raw.Available && c.cfg.MinRequiredVersion != "" &&
		version.Compare(c.cfg.CurrentVersion, c.cfg.MinRequiredVersion) < 0 {
		raw.Critical = true
	}

	return raw, nil
}

// query dispatches to the platform-specific source.
func (c *Coordinator) query(ctx context.Context) (*Result, error) {
	// The mock and Android store branches both go through the bridge; the
	// wired client decides what answers come back.
	if c.cfg.Mode.IsMock() || (c.cfg.Platform.IsAndroid() && c.cfg.Mode.IsStore()) {
		checked, err := c.client.CheckUpdate(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{
			Available:   checked.Available,
			Version:     checked.Version,
			VersionCode: checked.VersionCode,
		}, nil
	}

	if c.lookup == nil {
		return nil, errs.New(errs.NotSupported, "no lookup endpoint configured")
	}

	found, err := c.lookup.Find(ctx, c.cfg.BundleID, c.cfg.Country)
	if err != nil {
		return nil, err
	}
	if found == nil {
		// The catalog has no entry for this bundle here; that is a clean
		// "no update", not a failure.
		return &Result{}, nil
	}

	return &Result{
		Available:        version.IsNewer(found.Version, c.cfg.CurrentVersion),
		Version:          found.Version,
		ReleaseNotes:     found.ReleaseNotes,
		StoreURL:         found.StoreURL,
		MinimumOSVersion: found.MinimumOSVersion,
	}, nil
}

// osCompatible reports whether the device OS meets the candidate's minimum.
// Unknown or unparseable versions on either side mean no constraint.
func (c *Coordinator) osCompatible(minimumOS string) bool {
	if minimumOS == "" || c.cfg.OSVersion == "" {
		return true
	}
	constraint, err := goversion.NewConstraint(">= " + minimumOS)
	if err != nil {
		return true
	}
	device, err := goversion.NewVersion(c.cfg.OSVersion)
	if err != nil {
		return true
	}
	return constraint.Check(device)
}

// absorbable reports whether a classified failure should degrade to a quiet
// "no update" answer instead of surfacing to the user.
func absorbable(e *errs.Error) bool {
	if e.Kind == errs.AppNotOwned {
		return true
	}
	// Locked-down installs report an install-not-allowed flavor of
	// NOT_SUPPORTED from the bridge.
	if e.Kind == errs.NotSupported {
		msg := strings.ToLower(e.Message)
		return strings.Contains(msg, "install not allowed") || strings.Contains(msg, "install not permitted")
	}
	return false
}

// LastResult returns the most recent completed result, nil before the first
// check finishes.
func (c *Coordinator) LastResult() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// ClearCache drops every cached result.
func (c *Coordinator) ClearCache() {
	c.cache.Clear()
}

// Close tears the coordinator down. Subsequent checks fail fast and results
// from queries still in flight are discarded. Idempotent.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
