// Package download drives the update download and install lifecycle for
// both the immediate and flexible modes, turning the bridge's raw progress
// callback into a throttled, monotonic percent stream.
package download

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/errs"
	"github.com/minhnc/appupdater/internal/events"
	"github.com/minhnc/appupdater/internal/store"
	"github.com/minhnc/appupdater/internal/types"
)

// State is one position in the download lifecycle.
type State string

const (
	// StateIdle means no download is running; Start is accepted.
	StateIdle State = "idle"
	// StateDownloading means a flexible download is in progress.
	StateDownloading State = "downloading"
	// StateReadyToInstall means a flexible download finished and waits for Install.
	StateReadyToInstall State = "ready_to_install"
	// StateCompleted means the update was handed off or installed.
	StateCompleted State = "completed"
)

// String returns the string representation of the State.
func (s State) String() string {
	return string(s)
}

// DefaultMinInterval spaces progress updates apart when none is configured.
const DefaultMinInterval = 500 * time.Millisecond

// Progress is one filtered progress update.
type Progress struct {
	BytesDownloaded uint64 `json:"bytes_downloaded"`
	TotalBytes      uint64 `json:"total_bytes"`
	Percent         int    `json:"percent"`
}

// Coordinator runs the download state machine. Safe for concurrent use;
// re-entrant Start calls while a download is running are no-ops.
type Coordinator struct {
	client      store.Client
	bus         *events.Bus
	log         zerolog.Logger
	minInterval time.Duration

	mu         sync.Mutex
	state      State
	progress   Progress
	lastEmit   time.Time
	onProgress func(Progress)

	now func() time.Time
}

// NewCoordinator wires a download coordinator. Non-positive minInterval
// falls back to the default.
func NewCoordinator(client store.Client, bus *events.Bus, minInterval time.Duration, log zerolog.Logger) *Coordinator {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Coordinator{
		client:      client,
		bus:         bus,
		log:         log,
		minInterval: minInterval,
		state:       StateIdle,
		now:         time.Now,
	}
}

// State returns the current lifecycle position.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the last delivered progress update.
func (c *Coordinator) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// OnProgress attaches a host callback receiving the same filtered stream
// the progress state tracks.
func (c *Coordinator) OnProgress(fn func(Progress)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// Start begins a download in the given mode.
//
// Calling while a download is running or a finished download awaits install
// returns immediately with no state change. Failures return the machine to
// Idle so the user can retry from the initial affordance; a user-cancelled
// flow does so without an update_failed event.
func (c *Coordinator) Start(ctx context.Context, mode types.DownloadMode) error {
	c.mu.Lock()
	if c.state == StateDownloading || c.state == StateReadyToInstall {
		c.mu.Unlock()
		c.log.Debug().Str("state", c.state.String()).Msg("download already running, ignoring start")
		return nil
	}
	c.state = StateDownloading
	c.progress = Progress{}
	c.lastEmit = time.Time{}
	c.mu.Unlock()

	c.bus.Emit(events.New(events.TypeUpdateAccepted))

	var err error
	switch {
	case mode.IsImmediate():
		err = c.client.StartImmediateUpdate(ctx)
	default:
		err = c.client.StartFlexibleUpdate(ctx, c.reportProgress)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateIdle
		appErr := errs.Classify(err)
		if appErr.Kind == errs.UserCancelled {
			c.log.Info().Msg("update declined by user")
			return appErr
		}
		c.log.Warn().Str("kind", appErr.Kind.String()).Str("message", appErr.Message).Msg("download failed")
		c.bus.Emit(events.UpdateFailed(appErr))
		return appErr
	}

	if mode.IsImmediate() {
		// The platform owns the rest of the flow once the hand-off resolves.
		c.state = StateCompleted
	} else {
		c.state = StateReadyToInstall
		c.progress.Percent = 100
	}
	c.log.Info().Str("mode", mode.String()).Msg("download finished")
	c.bus.Emit(events.New(events.TypeUpdateDownloaded))
	return nil
}

// Install finalizes a finished flexible download.
func (c *Coordinator) Install(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReadyToInstall {
		state := c.state
		c.mu.Unlock()
		return errs.Newf(errs.NotSupported, "nothing to install in state %s", state)
	}
	c.mu.Unlock()

	if err := c.client.CompleteFlexibleUpdate(ctx); err != nil {
		appErr := errs.Classify(err)
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.log.Warn().Str("kind", appErr.Kind.String()).Msg("install failed")
		c.bus.Emit(events.UpdateFailed(appErr))
		return appErr
	}

	c.mu.Lock()
	c.state = StateCompleted
	c.mu.Unlock()
	c.log.Info().Msg("update installed")
	return nil
}

// reportProgress filters the bridge's raw callback: equal or regressing
// percentages are dropped, updates inside the throttle window are dropped,
// and 100% always passes.
func (c *Coordinator) reportProgress(bytesDownloaded, totalBytes uint64) {
	percent := 0
	if totalBytes > 0 {
		percent = int(bytesDownloaded * 100 / totalBytes)
	}
	if percent > 100 {
		percent = 100
	}

	c.mu.Lock()
	if c.state != StateDownloading {
		c.mu.Unlock()
		return
	}
	if !c.lastEmit.IsZero() && percent <= c.progress.Percent {
		c.mu.Unlock()
		return
	}

	now := c.now()
	if percent < 100 && !c.lastEmit.IsZero() && now.Sub(c.lastEmit) < c.minInterval {
		c.mu.Unlock()
		return
	}

	c.progress = Progress{BytesDownloaded: bytesDownloaded, TotalBytes: totalBytes, Percent: percent}
	c.lastEmit = now
	fn := c.onProgress
	c.mu.Unlock()

	c.log.Debug().Int("percent", percent).Uint64("bytes", bytesDownloaded).Msg("download progress")
	if fn != nil {
		fn(Progress{BytesDownloaded: bytesDownloaded, TotalBytes: totalBytes, Percent: percent})
	}
}
