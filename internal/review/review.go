// Package review implements the happiness-gate protocol: win counting with
// throttling and quota guards, the internal satisfaction gate, and the
// native-review request with its suppressed-dialog fallback heuristic.
package review

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

// Defaults for unset config fields.
const (
	DefaultWinsBeforePrompt          = 3
	DefaultMaxPrompts                = 3
	DefaultCooldownDays              = 90
	DefaultReviewCooldownDays        = 30
	DefaultWinThrottle               = 2 * time.Second
	DefaultSuppressedDialogThreshold = 300 * time.Millisecond
)

// Config is the review prompting policy.
type Config struct {
	// WinsBeforePrompt is how many accepted wins open the gate.
	WinsBeforePrompt int
	// MaxPrompts caps how many times the native review is ever requested.
	MaxPrompts int
	// CooldownDays is the quiet period after any gate resolution.
	CooldownDays int
	// ReviewCooldownDays is the independent quiet period between native
	// review requests.
	ReviewCooldownDays int
	// WinThrottle absorbs rapid-fire RecordWin calls.
	WinThrottle time.Duration
	// SuppressedDialogThreshold is how fast a blocking native review call
	// must return to be treated as silently suppressed. The value is an
	// empirical heuristic and does not generalize across OS versions, so
	// it stays configurable.
	SuppressedDialogThreshold time.Duration
	// Debug bypasses the completed/quota/cooldown guards so the flow can be
	// exercised repeatedly.
	Debug bool
}

func (c Config) withDefaults() Config {
	if c.WinsBeforePrompt <= 0 {
		c.WinsBeforePrompt = DefaultWinsBeforePrompt
	}
	if c.MaxPrompts <= 0 {
		c.MaxPrompts = DefaultMaxPrompts
	}
	if c.CooldownDays <= 0 {
		c.CooldownDays = DefaultCooldownDays
	}
	if c.ReviewCooldownDays <= 0 {
		c.ReviewCooldownDays = DefaultReviewCooldownDays
	}
	if c.WinThrottle <= 0 {
		c.WinThrottle = DefaultWinThrottle
	}
	if c.SuppressedDialogThreshold <= 0 {
		c.SuppressedDialogThreshold = DefaultSuppressedDialogThreshold
	}
	return c
}

// Engine runs the happiness-gate state machine.
//
// The durable record is read once at construction; afterwards the local copy
// is the source of truth and every mutation writes through. Safe for
// concurrent use.
type Engine struct {
	cfg    Config
	client store.Client
	bus    *events.Bus
	log    zerolog.Logger

	mu       sync.Mutex
	state    store.ReviewState
	lastWin  time.Time
	gateOpen bool

	now func() time.Time
}

// NewEngine wires a review engine, loading the durable record. A load
// failure starts from the zero record rather than failing construction.
func NewEngine(cfg Config, client store.Client, bus *events.Bus, log zerolog.Logger) *Engine {
	state, err := client.ReviewState()
	if err != nil {
		log.Warn().Err(err).Msg("loading review state failed, starting fresh")
		state = store.ReviewState{}
	}
	return &Engine{
		cfg:    cfg.withDefaults(),
		client: client,
		bus:    bus,
		log:    log,
		state:  state,
		now:    time.Now,
	}
}

// State returns a copy of the current durable record.
func (e *Engine) State() store.ReviewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// GatePending reports whether the happiness gate is waiting for an answer.
func (e *Engine) GatePending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gateOpen
}

// RecordWin registers one positive user moment.
//
// Calls within the throttle window of the previous accepted win are dropped
// silently, as are wins blocked by the completed/quota/cooldown guards
// (bypassed in debug). An accepted win that reaches the threshold opens the
// gate and reports true.
func (e *Engine) RecordWin(ctx context.Context) (gateShown bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if !e.lastWin.IsZero() && now.Sub(e.lastWin) < e.cfg.WinThrottle {
		e.log.Debug().Msg("win throttled")
		return false, nil
	}

	if !e.cfg.Debug {
		if e.state.HasCompletedReview {
			e.log.Debug().Msg("win dropped: review already completed")
			return false, nil
		}
		if e.state.PromptCount >= uint(e.cfg.MaxPrompts) {
			e.log.Debug().Uint("prompt_count", e.state.PromptCount).Msg("win dropped: prompt quota reached")
			return false, nil
		}
		if last, ok := e.state.LastPrompt(); ok && now.Sub(last) < e.days(e.cfg.CooldownDays) {
			e.log.Debug().Time("last_prompt", last).Msg("win dropped: inside cooldown")
			return false, nil
		}
	}

	e.lastWin = now
	e.state.WinCount++
	if err := e.persistLocked(); err != nil {
		return false, err
	}

	if e.state.WinCount >= uint(e.cfg.WinsBeforePrompt) {
		e.gateOpen = true
		e.log.Info().Uint("wins", e.state.WinCount).Msg("happiness gate opened")
		e.bus.Emit(events.New(events.TypeHappinessGateShown))
		return true, nil
	}

	e.log.Debug().Uint("wins", e.state.WinCount).Msg("win recorded")
	e.bus.Emit(events.WinRecorded(e.state.WinCount))
	return false, nil
}

// ResolveGate records the user's answer to the happiness gate.
//
// Every outcome resets the win count and starts a fresh cooldown. A
// positive answer attempts the review request; if that fails the reset
// stands but completion is not marked, keeping the user eligible later.
func (e *Engine) ResolveGate(ctx context.Context, outcome types.GateOutcome) error {
	e.mu.Lock()
	e.gateOpen = false
	e.state.WinCount = 0
	e.state.LastPromptDate = e.now().UnixMilli()
	if err := e.persistLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	switch outcome {
	case types.GateOutcomePositive:
		e.bus.Emit(events.New(events.TypeHappinessPositive))
		if err := e.RequestReview(ctx); err != nil {
			e.log.Warn().Err(err).Msg("review request failed, user stays eligible")
			return err
		}
		e.mu.Lock()
		e.state.HasCompletedReview = true
		e.state.PromptCount++
		err := e.persistLocked()
		e.mu.Unlock()
		return err

	case types.GateOutcomeNegative:
		e.bus.Emit(events.New(events.TypeHappinessNegative))
		return nil

	default:
		e.bus.Emit(events.New(events.TypeHappinessDismissed))
		return nil
	}
}

// RequestReview runs the native review request with its fallbacks.
//
// The native prompt is skipped entirely inside the independent review
// cooldown. On platforms where the native call blocks until the flow
// finishes, a near-instant return is taken as evidence the OS suppressed
// the dialog; both cases fall back to the store review page deep link.
func (e *Engine) RequestReview(ctx context.Context) error {
	e.bus.Emit(events.New(events.TypeReviewRequested))

	now := e.now()

	last, ok, err := e.client.LastReviewDate()
	if err != nil {
		return errs.Classify(err)
	}
	if ok && now.Sub(last) < e.days(e.cfg.ReviewCooldownDays) {
		e.log.Info().Time("last_native_request", last).Msg("native review inside cooldown, using store page")
		return e.fallback(ctx)
	}

	// The platform never confirms the dialog was shown, so the attempt is
	// stamped unconditionally.
	if err := e.client.SetLastReviewDate(now); err != nil {
		return errs.Classify(err)
	}

	start := e.now()
	if err := e.client.RequestNativeReview(ctx); err != nil {
		return errs.Classify(err)
	}
	elapsed := e.now().Sub(start)

	if e.client.BlockingReviewDialog() && elapsed < e.cfg.SuppressedDialogThreshold {
		e.log.Info().Dur("elapsed", elapsed).Msg("native review returned too fast, assuming suppressed")
		return e.fallback(ctx)
	}

	e.log.Info().Msg("native review requested")
	e.bus.Emit(events.New(events.TypeReviewCompleted))
	return nil
}

// fallback opens the store's write-a-review page.
func (e *Engine) fallback(ctx context.Context) error {
	if err := e.client.OpenReviewPage(ctx); err != nil {
		return errs.Classify(err)
	}
	e.bus.Emit(events.New(events.TypeReviewCompleted))
	return nil
}

// Reset clears the durable record and the in-memory throttle stamp.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = store.ReviewState{}
	e.lastWin = time.Time{}
	e.gateOpen = false
	return e.persistLocked()
}

// persistLocked writes the local record through. Callers hold the lock.
func (e *Engine) persistLocked() error {
	if err := e.client.SetReviewState(e.state); err != nil {
		return errs.Classify(err)
	}
	return nil
}

func (e *Engine) days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
