// Package keylock provides keyed exclusive sections with a bounded wait.
//
// Each key is backed by a weighted semaphore of size one that exists only while some
// goroutine holds or waits for it, so contention is scoped to the key and there is no
// global lock. Acquisition gives up after the configured wait and reports errs.BusyError.
package keylock

import (
	"context"
	"slices"
	"sync"
	"time"

	"marketplace/internal/pkg/errs"

	"golang.org/x/sync/semaphore"
)

// Release leaves a section. Calling it more than once is a no-op.
type Release func()

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker hands out exclusive sections keyed by string.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

// New returns a Locker whose acquisitions wait at most wait before failing with BusyError.
func New(wait time.Duration) *Locker {
	return &Locker{
		entries: make(map[string]*entry),
		wait:    wait,
	}
}

// Acquire enters the section for key.
//
// It returns ctx.Err() if ctx is done before the section is entered, and errs.BusyError
// if the wait bound elapses first. Either way nothing is held on error.
func (l *Locker) Acquire(ctx context.Context, key string) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e := l.ref(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(key)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errs.NewBusyError(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(key)
		})
	}, nil
}

// AcquireAll enters the sections for every distinct key in ascending order, which keeps
// two callers with overlapping key sets from deadlocking. On failure the sections already
// entered are released.
func (l *Locker) AcquireAll(ctx context.Context, keys []string) (Release, error) {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	releases := make([]Release, 0, len(ordered))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range ordered {
		release, err := l.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

// Size returns the number of keys currently held or awaited.
func (l *Locker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Locker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
