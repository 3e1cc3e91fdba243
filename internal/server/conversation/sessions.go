package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/patrickmn/go-cache"
)

type senderLock struct {
	sem  chan struct{}
	refs int
}

// sessions is the per-sender session table: pending meals plus one lock per
// sender that is currently being served. Locks are dropped once unused.
type sessions struct {
	mu    sync.Mutex
	locks map[string]*senderLock

	pending *cache.Cache
}

// newSessions creates the table. ttl <= 0 keeps pending meals until they are
// confirmed, rejected or replaced.
func newSessions(ttl time.Duration) *sessions {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, ttl)
	} else {
		c = cache.New(cache.NoExpiration, 0)
	}
	return &sessions{
		locks:   make(map[string]*senderLock),
		pending: c,
	}
}

// lock serializes work for one sender. It fails with ctx.Err() if ctx ends
// before the lock is acquired.
func (s *sessions) lock(ctx context.Context, sender string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[sender]
	if !ok {
		l = &senderLock{sem: make(chan struct{}, 1)}
		s.locks[sender] = l
	}
	l.refs++
	s.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		s.release(sender, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			s.release(sender, l)
		})
	}, nil
}

func (s *sessions) release(sender string, l *senderLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, sender)
	}
}

func (s *sessions) activeLocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *sessions) getPending(sender string) (models.PendingMeal, bool) {
	v, ok := s.pending.Get(sender)
	if !ok {
		return models.PendingMeal{}, false
	}
	return v.(models.PendingMeal), true
}

func (s *sessions) setPending(sender string, meal models.PendingMeal) {
	s.pending.Set(sender, meal, cache.DefaultExpiration)
}

func (s *sessions) clearPending(sender string) {
	s.pending.Delete(sender)
}

func (s *sessions) pendingCount() int {
	return s.pending.ItemCount()
}
