package board

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// GuildLocks hands out one exclusive, FIFO-ordered lock per guild id. Entries are created
// on first use and kept until EvictIdle removes them.
type GuildLocks struct {
	mu    sync.Mutex
	locks map[string]*guildLock
}

type guildLock struct {
	sem      *semaphore.Weighted
	refs     int // holders plus waiters
	lastUsed time.Time
}

// NewGuildLocks creates an empty lock registry.
func NewGuildLocks() *GuildLocks {
	return &GuildLocks{locks: make(map[string]*guildLock)}
}

// Acquire blocks until the caller holds the lock for guildID or ctx is done. The returned
// release func must be called exactly once; extra calls are ignored.
func (g *GuildLocks) Acquire(ctx context.Context, guildID string) (func(), error) {
	g.mu.Lock()
	l, ok := g.locks[guildID]
	if !ok {
		l = &guildLock{sem: semaphore.NewWeighted(1)}
		g.locks[guildID] = l
	}
	l.refs++
	g.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		g.unref(l)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			g.unref(l)
		})
	}, nil
}

func (g *GuildLocks) unref(l *guildLock) {
	g.mu.Lock()
	l.refs--
	l.lastUsed = time.Now()
	g.mu.Unlock()
}

// EvictIdle drops locks nobody holds or waits on that have been idle for at least maxIdle.
// It returns the number of evicted entries.
func (g *GuildLocks) EvictIdle(maxIdle time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	evicted := 0
	for id, l := range g.locks {
		if l.refs == 0 && time.Since(l.lastUsed) >= maxIdle {
			delete(g.locks, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of guilds with a live lock entry.
func (g *GuildLocks) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
