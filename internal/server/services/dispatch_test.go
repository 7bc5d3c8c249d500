package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photodrop/photodrop/internal/server/models"
)

// fakeCompleter records concurrency and fails for selected filenames.
type fakeCompleter struct {
	mu      sync.Mutex
	inUse   int32
	maxSeen int32
	failFor map[string]bool
}

func (f *fakeCompleter) CompleteUpload(ctx context.Context, up Upload) (*models.Photo, error) {
	cur := atomic.AddInt32(&f.inUse, 1)
	defer atomic.AddInt32(&f.inUse, -1)

	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	fail := f.failFor[up.Filename]
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if fail {
		return nil, errors.New("handoff failed")
	}
	return &models.Photo{ID: "p-" + up.Filename, AlbumID: up.AlbumID}, nil
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	completer := &fakeCompleter{}
	d := NewDispatcher(completer, 3)

	for i := 0; i < 20; i++ {
		d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: string(rune('a' + i))})
	}

	var results []Result
	done := make(chan struct{})
	go func() {
		for res := range d.Results() {
			results = append(results, res)
		}
		close(done)
	}()

	d.Drain()
	<-done

	require.Len(t, results, 20)
	assert.LessOrEqual(t, completer.maxSeen, int32(3))
}

func TestDispatcher_ReportsFailuresOnResults(t *testing.T) {
	completer := &fakeCompleter{failFor: map[string]bool{"bad.jpg": true}}
	d := NewDispatcher(completer, 2)

	d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: "good.jpg"})
	d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: "bad.jpg"})

	var ok, failed int
	done := make(chan struct{})
	go func() {
		for res := range d.Results() {
			if res.Err != nil {
				failed++
				assert.Nil(t, res.Photo)
				assert.Equal(t, "bad.jpg", res.Upload.Filename)
			} else {
				ok++
				require.NotNil(t, res.Photo)
			}
		}
		close(done)
	}()

	d.Drain()
	<-done

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

// A session can still be mid-transfer when the listener stops; its completion
// then arrives after the drain and must be dropped, not panic the process.
func TestDispatcher_DispatchAfterDrainIsDropped(t *testing.T) {
	completer := &fakeCompleter{}
	d := NewDispatcher(completer, 2)

	d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: "early.jpg"})

	var results []Result
	done := make(chan struct{})
	go func() {
		for res := range d.Results() {
			results = append(results, res)
		}
		close(done)
	}()

	d.Drain()

	require.NotPanics(t, func() {
		d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: "late.jpg"})
	})

	<-done
	require.Len(t, results, 1)
	assert.Equal(t, "early.jpg", results[0].Upload.Filename)
}

func TestDispatcher_MinimumConcurrencyOfOne(t *testing.T) {
	completer := &fakeCompleter{}
	d := NewDispatcher(completer, 0)

	d.Dispatch(context.Background(), Upload{AlbumID: "a1", Filename: "x.jpg"})

	done := make(chan struct{})
	var n int
	go func() {
		for range d.Results() {
			n++
		}
		close(done)
	}()

	d.Drain()
	<-done
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(1), completer.maxSeen)
}
