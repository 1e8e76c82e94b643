package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/minhnc/appupdater/internal/config"
	"github.com/minhnc/appupdater/internal/download"
	"github.com/minhnc/appupdater/internal/events"
	"github.com/minhnc/appupdater/internal/journal"
	"github.com/minhnc/appupdater/internal/logging"
	"github.com/minhnc/appupdater/internal/output"
	"github.com/minhnc/appupdater/internal/review"
	"github.com/minhnc/appupdater/internal/store"
	"github.com/minhnc/appupdater/internal/types"
	"github.com/minhnc/appupdater/internal/update"
)

// Engine bundles the wired components for one CLI invocation.
//
// Every emitted event flows through the single bus sink: it is logged,
// journaled, and forwarded to the per-command callback when one is set.
type Engine struct {
	Config   *config.Config
	Bus      *events.Bus
	Journal  *journal.Journal
	Client   store.Client
	Update   *update.Coordinator
	Download *download.Coordinator
	Review   *review.Engine
	Log      zerolog.Logger

	onEvent func(events.Event)
}

// newEngine loads the config and wires a full engine from the global flags.
func newEngine() (*Engine, error) {
	path, err := config.Find(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	log := buildLogger(cfg)
	log.Debug().Str("config", path).Msg("config loaded")

	return NewEngineWithConfig(cfg, log), nil
}

// buildLogger derives the logger from the config and the global verbosity
// flags. Flags win over the config file.
func buildLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "error"
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Logging.Format})
}

// NewEngineWithConfig wires an engine over an already-loaded config.
func NewEngineWithConfig(cfg *config.Config, log zerolog.Logger) *Engine {
	client := buildClient(cfg, log)

	var lookup update.Finder
	if cfg.Update.Endpoint != "" {
		lookup = store.NewLookup(cfg.Update.Endpoint, cfg.Update.LookupTimeout.Std(), log)
	}

	return NewEngineWithDeps(cfg, client, lookup, log)
}

// NewEngineWithDeps wires an engine with injected collaborators (for tests).
func NewEngineWithDeps(cfg *config.Config, client store.Client, lookup update.Finder, log zerolog.Logger) *Engine {
	bus := events.NewBus()

	e := &Engine{
		Config:  cfg,
		Bus:     bus,
		Journal: journal.New(filepath.Join(cfg.Storage.StateDir, "journal")),
		Client:  client,
		Log:     log,
	}

	e.Update = update.NewCoordinator(update.Config{
		Platform:           cfg.App.Platform,
		Mode:               cfg.Update.Mode,
		BundleID:           cfg.App.BundleID,
		Country:            cfg.App.Country,
		CurrentVersion:     cfg.App.CurrentVersion,
		OSVersion:          cfg.App.OSVersion,
		MinRequiredVersion: cfg.Update.MinRequiredVersion,
		Debug:              cfg.Review.Debug,
		CacheTTL:           cfg.Update.CacheTTL.Std(),
		CacheMaxEntries:    cfg.Update.CacheMaxEntries,
	}, client, lookup, bus, log)

	e.Download = download.NewCoordinator(client, bus, cfg.Update.ProgressMinInterval.Std(), log)

	e.Review = review.NewEngine(review.Config{
		WinsBeforePrompt:          cfg.Review.WinsBeforePrompt,
		MaxPrompts:                cfg.Review.MaxPrompts,
		CooldownDays:              cfg.Review.CooldownDays,
		ReviewCooldownDays:        cfg.Review.ReviewCooldownDays,
		WinThrottle:               cfg.Review.WinThrottle.Std(),
		SuppressedDialogThreshold: cfg.Review.SuppressedDialogThreshold.Std(),
		Debug:                     cfg.Review.Debug,
	}, client, bus, log)

	bus.Subscribe(func(ev events.Event) {
		log.Debug().Str("event", string(ev.Type)).Msg("event emitted")
		_ = e.Journal.Append(ev)
		if e.onEvent != nil {
			e.onEvent(ev)
		}
	})

	return e
}

// buildClient picks the store bridge: synthetic answers in mock mode, the
// desktop bridge otherwise. The Play review dialog blocks until the flow
// finishes, so the mock mirrors that on Android.
func buildClient(cfg *config.Config, log zerolog.Logger) store.Client {
	if cfg.Update.Mode == types.UpdateModeMock {
		return store.NewMockClient(
			cfg.App.Platform.String(),
			cfg.App.BundleID,
			cfg.App.CurrentVersion,
			log,
		).WithBlockingDialog(cfg.App.Platform.IsAndroid())
	}

	return store.NewLocalClient(store.LocalConfig{
		Platform:       cfg.App.Platform,
		BundleID:       cfg.App.BundleID,
		StoreID:        cfg.App.StoreID,
		CurrentVersion: cfg.App.CurrentVersion,
		StateDir:       cfg.Storage.StateDir,
	}, log)
}

// OnEvent forwards subsequently emitted events to fn as well.
func (e *Engine) OnEvent(fn func(events.Event)) {
	e.onEvent = fn
}

// newWriter builds the output writer from the global --output flag.
func newWriter() (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(os.Stdout, format), nil
}
