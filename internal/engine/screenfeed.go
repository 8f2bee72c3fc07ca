package engine

import (
	"context"
	"sync"
	"time"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
)

// screenFeed holds the latest screen snapshot for one platform and lets
// an in-flight attempt wait for a fresh one. Updates come from the
// OS-event path and are a cheap pointer swap; attempts block on their
// own worker goroutine, never on the delivering thread. Every update
// bumps seq, so a waiter comparing sequence numbers never misses a
// snapshot that landed between its reads.
type screenFeed struct {
	latest  *model.ScreenEvent
	updated chan struct{}
	now     func() time.Time
	seq     uint64
	mu      sync.Mutex
}

func newScreenFeed() *screenFeed {
	return &screenFeed{
		updated: make(chan struct{}),
		now:     time.Now,
	}
}

// update stores a snapshot and wakes any waiting attempt.
func (f *screenFeed) update(ev model.ScreenEvent) {
	f.mu.Lock()
	f.latest = &ev
	f.seq++
	close(f.updated)
	f.updated = make(chan struct{})
	f.mu.Unlock()
}

// snapshot returns the latest snapshot if one exists.
func (f *screenFeed) snapshot() (model.ScreenEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.latest == nil {
		return model.ScreenEvent{}, false
	}
	return *f.latest, true
}

// await returns the latest snapshot and its sequence number if the
// snapshot is no older than maxAge, otherwise blocks until a new one
// arrives or the context expires.
func (f *screenFeed) await(ctx context.Context, maxAge time.Duration) (model.ScreenEvent, uint64, error) {
	for {
		f.mu.Lock()
		latest := f.latest
		seq := f.seq
		updated := f.updated
		f.mu.Unlock()

		if latest != nil && f.now().Sub(latest.ObservedAt) <= maxAge {
			return *latest, seq, nil
		}

		select {
		case <-ctx.Done():
			return model.ScreenEvent{}, 0, common.ErrStaleScreen
		case <-updated:
		}
	}
}

// awaitNewer blocks until a snapshot with a sequence number beyond seen
// arrives. An update that landed before the call returns immediately.
func (f *screenFeed) awaitNewer(ctx context.Context, seen uint64) error {
	for {
		f.mu.Lock()
		if f.seq > seen {
			f.mu.Unlock()
			return nil
		}
		updated := f.updated
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return common.ErrStaleScreen
		case <-updated:
		}
	}
}
