package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhnc/appupdater/internal/errs"
	"github.com/minhnc/appupdater/internal/types"
)

// recordingRunner captures the commands a LocalClient would execute.
type recordingRunner struct {
	commands [][]string
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.commands = append(r.commands, append([]string{name}, args...))
	return nil, r.err
}

func newLocal(t *testing.T, platform types.Platform) (*LocalClient, *recordingRunner) {
	t.Helper()
	runner := &recordingRunner{}
	c := NewLocalClient(LocalConfig{
		Platform:       platform,
		BundleID:       "com.example.app",
		StoreID:        "123456789",
		CurrentVersion: "1.2.0",
		StateDir:       t.TempDir(),
	}, zerolog.Nop()).WithRunner(runner)
	return c, runner
}

func TestLocalStoreURLs(t *testing.T) {
	android, _ := newLocal(t, types.PlatformAndroid)
	ios, _ := newLocal(t, types.PlatformIOS)

	url, err := android.StoreURL()
	require.NoError(t, err)
	assert.Equal(t, "https://play.google.com/store/apps/details?id=com.example.app", url)

	url, err = ios.ReviewURL()
	require.NoError(t, err)
	assert.Equal(t, "https://apps.apple.com/app/id123456789?action=write-review", url)
}

func TestLocalIOSURLsNeedStoreID(t *testing.T) {
	c := NewLocalClient(LocalConfig{
		Platform: types.PlatformIOS,
		BundleID: "com.example.app",
		StateDir: t.TempDir(),
	}, zerolog.Nop())

	_, err := c.StoreURL()
	require.Error(t, err)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))
}

func TestLocalOpenStoreRunsURLHandler(t *testing.T) {
	c, runner := newLocal(t, types.PlatformAndroid)

	require.NoError(t, c.OpenStore(context.Background()))
	require.Len(t, runner.commands, 1)
	assert.Contains(t, runner.commands[0][len(runner.commands[0])-1], "play.google.com")
}

func TestLocalNativeCallsUnsupported(t *testing.T) {
	c, _ := newLocal(t, types.PlatformAndroid)
	ctx := context.Background()

	_, err := c.CheckUpdate(ctx)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))

	err = c.StartFlexibleUpdate(ctx, nil)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))

	err = c.CompleteFlexibleUpdate(ctx)
	assert.Equal(t, errs.NotSupported, errs.KindOf(err))
}

func TestLocalReviewStatePersists(t *testing.T) {
	c, _ := newLocal(t, types.PlatformAndroid)

	st, err := c.ReviewState()
	require.NoError(t, err)
	assert.Equal(t, ReviewState{}, st)

	want := ReviewState{WinCount: 2, PromptCount: 1}
	require.NoError(t, c.SetReviewState(want))

	got, err := c.ReviewState()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocalLastReviewDatePersists(t *testing.T) {
	c, _ := newLocal(t, types.PlatformAndroid)

	_, ok, err := c.LastReviewDate()
	require.NoError(t, err)
	assert.False(t, ok)

	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.SetLastReviewDate(stamp))

	got, ok, err := c.LastReviewDate()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stamp.UnixMilli(), got.UnixMilli())
}

func TestMockCheckUpdateFabricatesNextMinor(t *testing.T) {
	c := NewMockClient("android", "com.example.app", "1.2.3", zerolog.Nop())

	got, err := c.CheckUpdate(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, "1.3.0", got.Version)
	assert.Equal(t, "10300", got.VersionCode)
}

func TestMockFlexibleProgressReachesTotal(t *testing.T) {
	c := NewMockClient("android", "com.example.app", "1.0.0", zerolog.Nop())

	var last, total uint64
	err := c.StartFlexibleUpdate(context.Background(), func(bytesDownloaded, totalBytes uint64) {
		last, total = bytesDownloaded, totalBytes
	})
	require.NoError(t, err)
	assert.Equal(t, total, last, "the scripted download finishes at 100%")
}
