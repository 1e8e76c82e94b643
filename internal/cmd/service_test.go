package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnc/appupdater/internal/config"
	"github.com/minhnc/appupdater/internal/events"
	"github.com/minhnc/appupdater/internal/store"
	"github.com/minhnc/appupdater/internal/types"
)

func mockConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			Platform:       types.PlatformAndroid,
			BundleID:       "com.example.app",
			CurrentVersion: "1.0.0",
			Country:        "us",
		},
		Update: config.UpdateConfig{
			Mode:                types.UpdateModeMock,
			CacheTTL:            config.Duration(5 * time.Minute),
			CacheMaxEntries:     10,
			ProgressMinInterval: config.Duration(time.Millisecond),
		},
		Review: config.ReviewConfig{
			WinsBeforePrompt: 3,
			MaxPrompts:       3,
			WinThrottle:      config.Duration(time.Nanosecond),
		},
		Storage: config.StorageConfig{StateDir: t.TempDir()},
	}
}

func TestEngineWiring(t *testing.T) {
	eng := NewEngineWithConfig(mockConfig(t), zerolog.Nop())

	require.NotNil(t, eng.Update)
	require.NotNil(t, eng.Download)
	require.NotNil(t, eng.Review)
	require.NotNil(t, eng.Journal)

	// Mock mode wires the synthetic client.
	_, ok := eng.Client.(*store.MockClient)
	assert.True(t, ok)
}

func TestEngineWiringLocalClient(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Update.Mode = types.UpdateModeRemote
	cfg.Update.Endpoint = "https://catalog.example.com/lookup"

	eng := NewEngineWithConfig(cfg, zerolog.Nop())
	_, ok := eng.Client.(*store.LocalClient)
	assert.True(t, ok)
}

func TestEngineEventsReachJournalAndCallback(t *testing.T) {
	eng := NewEngineWithConfig(mockConfig(t), zerolog.Nop())

	var seen []events.Type
	eng.OnEvent(func(ev events.Event) { seen = append(seen, ev.Type) })

	_, err := eng.Update.Check(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []events.Type{events.TypeUpdateAvailable}, seen)

	recorded, err := eng.Journal.List()
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, events.TypeUpdateAvailable, recorded[0].Type)
}

// TestFullFlow drives the whole lifecycle against the mock bridge: check,
// flexible download, install, wins to the gate, and a positive resolution.
func TestFullFlow(t *testing.T) {
	eng := NewEngineWithConfig(mockConfig(t), zerolog.Nop())
	ctx := context.Background()

	var seen []events.Type
	eng.OnEvent(func(ev events.Event) { seen = append(seen, ev.Type) })

	// Check: the mock always fabricates the next minor version.
	result, err := eng.Update.Check(ctx, false)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, "1.1.0", result.Version)

	// Flexible download to ready-to-install, then install.
	require.NoError(t, eng.Download.Start(ctx, types.DownloadModeFlexible))
	assert.Equal(t, 100, eng.Download.Progress().Percent)
	require.NoError(t, eng.Download.Install(ctx))

	// Three wins open the gate.
	for i := 0; i < 2; i++ {
		shown, err := eng.Review.RecordWin(ctx)
		require.NoError(t, err)
		assert.False(t, shown)
	}
	shown, err := eng.Review.RecordWin(ctx)
	require.NoError(t, err)
	assert.True(t, shown)

	// Positive answer: the mock's Android dialog "blocks" but returns
	// instantly, so the suppressed-dialog heuristic falls back to the
	// store review page.
	require.NoError(t, eng.Review.ResolveGate(ctx, types.GateOutcomePositive))

	mock := eng.Client.(*store.MockClient)
	assert.Equal(t, 1, mock.ReviewOpens())

	st := eng.Review.State()
	assert.True(t, st.HasCompletedReview)
	assert.Equal(t, uint(1), st.PromptCount)
	assert.Equal(t, uint(0), st.WinCount)

	// The sink saw the whole story in emission order, and every event also
	// landed in the journal.
	recorded, err := eng.Journal.List()
	require.NoError(t, err)
	assert.Len(t, recorded, len(seen))
	assert.Equal(t, []events.Type{
		events.TypeUpdateAvailable,
		events.TypeUpdateAccepted,
		events.TypeUpdateDownloaded,
		events.TypeWinRecorded,
		events.TypeWinRecorded,
		events.TypeHappinessGateShown,
		events.TypeHappinessPositive,
		events.TypeReviewRequested,
		events.TypeReviewCompleted,
	}, seen)
}
