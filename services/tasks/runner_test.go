package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gcottom/go-zaplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() *Runner {
	return NewRunner(zaplog.CreateAndInject(context.Background()))
}

type recorder struct {
	mu    sync.Mutex
	tasks []Task
}

func (r *recorder) handle(ctx context.Context, t Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
}

func TestStartSucceeds(t *testing.T) {
	r := newTestRunner()
	rec := &recorder{}
	r.OnDone(KindPreview, rec.handle)

	started := r.Start(KindPreview, func(ctx context.Context) (any, error) { return "info", nil })
	assert.Equal(t, StatusRunning, started.Status)
	assert.NotEmpty(t, started.ID)
	r.Wait()

	latest, ok := r.Latest(KindPreview)
	require.True(t, ok)
	assert.Equal(t, started.ID, latest.ID)
	assert.Equal(t, StatusSucceeded, latest.Status)
	assert.Equal(t, "info", latest.Result)
	assert.False(t, latest.FinishedAt.Before(latest.StartedAt))

	require.Len(t, rec.tasks, 1)
	assert.Equal(t, started.ID, rec.tasks[0].ID)
}

func TestStartFails(t *testing.T) {
	r := newTestRunner()
	rec := &recorder{}
	r.OnDone(KindDownload, rec.handle)
	boom := errors.New("boom")

	r.Start(KindDownload, func(ctx context.Context) (any, error) { return nil, boom })
	r.Wait()

	latest, ok := r.Latest(KindDownload)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, latest.Status)
	assert.ErrorIs(t, latest.Err, boom)
	require.Len(t, rec.tasks, 1)
	assert.Equal(t, StatusFailed, rec.tasks[0].Status)
}

func TestNewerTaskSupersedesOlder(t *testing.T) {
	r := newTestRunner()
	rec := &recorder{}
	r.OnDone(KindPreview, rec.handle)

	firstRunning := make(chan struct{})
	firstCanceled := make(chan error, 1)
	first := r.Start(KindPreview, func(ctx context.Context) (any, error) {
		close(firstRunning)
		<-ctx.Done()
		firstCanceled <- ctx.Err()
		return "old", nil
	})
	<-firstRunning

	second := r.Start(KindPreview, func(ctx context.Context) (any, error) { return "new", nil })
	r.Wait()

	assert.ErrorIs(t, <-firstCanceled, context.Canceled)
	latest, ok := r.Latest(KindPreview)
	require.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "new", latest.Result)

	require.Len(t, rec.tasks, 1, "the stale result must not reach handlers")
	assert.Equal(t, second.ID, rec.tasks[0].ID)
	assert.NotEqual(t, first.ID, second.ID)

	old, ok := r.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, StatusStale, old.Status)
	assert.Equal(t, "old", old.Result)
	assert.False(t, old.FinishedAt.IsZero())
}

func TestOverlappingDownloadsBothComplete(t *testing.T) {
	r := newTestRunner()
	rec := &recorder{}
	r.OnDone(KindDownload, rec.handle)

	var mu sync.Mutex
	var saved []string
	firstFetched := make(chan struct{})
	releaseFirst := make(chan struct{})
	first := r.Start(KindDownload, func(ctx context.Context) (any, error) {
		close(firstFetched)
		<-releaseFirst
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mu.Lock()
		saved = append(saved, "First")
		mu.Unlock()
		return "First", nil
	})
	<-firstFetched

	second := r.Start(KindDownload, func(ctx context.Context) (any, error) {
		mu.Lock()
		saved = append(saved, "Second")
		mu.Unlock()
		return "Second", nil
	})
	close(releaseFirst)
	r.Wait()

	assert.ElementsMatch(t, []string{"First", "Second"}, saved)

	old, ok := r.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, StatusStale, old.Status)
	assert.NoError(t, old.Err, "an older download is not cancelled")
	assert.Equal(t, "First", old.Result)

	latest, ok := r.Latest(KindDownload)
	require.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
	require.Len(t, rec.tasks, 1)
	assert.Equal(t, second.ID, rec.tasks[0].ID)
}

func TestCancelStopsEveryRunningTask(t *testing.T) {
	r := newTestRunner()
	started := make(chan struct{}, 2)
	block := func(ctx context.Context) (any, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	a := r.Start(KindDownload, block)
	b := r.Start(KindDownload, block)
	<-started
	<-started
	r.Cancel()
	r.Wait()

	for _, id := range []string{a.ID, b.ID} {
		task, ok := r.Get(id)
		require.True(t, ok)
		assert.ErrorIs(t, task.Err, context.Canceled)
	}
}

func TestGetUnknown(t *testing.T) {
	_, ok := newTestRunner().Get("missing")
	assert.False(t, ok)
}

func TestSupersedes(t *testing.T) {
	assert.True(t, KindPreview.Supersedes())
	assert.False(t, KindDownload.Supersedes())
}

func TestKindsAreIndependent(t *testing.T) {
	r := newTestRunner()
	release := make(chan struct{})
	r.Start(KindDownload, func(ctx context.Context) (any, error) {
		select {
		case <-release:
			return "song", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	r.Start(KindPreview, func(ctx context.Context) (any, error) { return "info", nil })
	close(release)
	r.Wait()

	download, ok := r.Latest(KindDownload)
	require.True(t, ok)
	assert.Equal(t, StatusSucceeded, download.Status)
	assert.Equal(t, "song", download.Result)
}

func TestLatestUnknown(t *testing.T) {
	_, ok := newTestRunner().Latest(KindDownload)
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("preview")
	require.NoError(t, err)
	assert.Equal(t, KindPreview, k)

	_, err = ParseKind("upload")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
