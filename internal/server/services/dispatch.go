package services

import (
	"context"
	"sync"

	"github.com/photodrop/photodrop/internal/server/models"
)

// Completer is the completion-handoff contract the dispatcher drives.
type Completer interface {
	CompleteUpload(ctx context.Context, up Upload) (*models.Photo, error)
}

// Result reports the outcome of one completion handoff on the supervised
// result channel.
type Result struct {
	Upload Upload
	Photo  *models.Photo
	Err    error
}

// Dispatcher runs one goroutine per completed upload, bounded by a
// semaphore, and publishes every outcome on Results. It replaces the legacy
// fire-and-forget completion callback.
type Dispatcher struct {
	completer Completer
	sem       chan struct{}
	results   chan Result

	mu       sync.Mutex
	wg       sync.WaitGroup
	draining bool
}

func NewDispatcher(completer Completer, maxConcurrent int) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{
		completer: completer,
		sem:       make(chan struct{}, maxConcurrent),
		results:   make(chan Result, 2*maxConcurrent),
	}
}

// Dispatch schedules the handoff for one completed upload and returns
// immediately; the write-completion path must never block a session's data
// transfer or the accept loop.
//
// After Drain has started, Dispatch is a no-op: a transfer that completes
// while the server is already stopping leaves its temp artifact in the
// session root for replay on the next start.
func (d *Dispatcher) Dispatch(ctx context.Context, up Upload) {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()

		photo, err := d.completer.CompleteUpload(ctx, up)
		d.results <- Result{Upload: up, Photo: photo, Err: err}
	}()
}

// Results is the supervised outcome channel. The owner must drain it for the
// lifetime of the dispatcher.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Drain waits for all in-flight handoffs and closes Results. Dispatch calls
// arriving during or after the drain are dropped.
func (d *Dispatcher) Drain() {
	d.mu.Lock()
	d.draining = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}
