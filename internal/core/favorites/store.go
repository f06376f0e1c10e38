// Package favorites keeps the process-wide set of favorited product ids.
package favorites

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
)

const DefaultKey = "favorites"

var _ port.FavoritesStore = (*Store)(nil)

// A Store is the favorites set persisted under a single key of [port.KVStorage]
// as a JSON array of ids.
//
// The set is loaded lazily on first use. Missing or corrupt data yields an
// empty set. Persistence errors never reach the caller: the set then lives
// for the current process only.
type Store struct {
	storage port.KVStorage
	key     string
	now     func() time.Time

	loadOnce sync.Once

	mu  sync.RWMutex
	ids []int
	set map[int]struct{}

	subs *subscribers
}

type StoreOpt func(*Store)

func KeyOpt(key string) StoreOpt {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func ClockOpt(now func() time.Time) StoreOpt {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(storage port.KVStorage, opts ...StoreOpt) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		now:     time.Now,
		set:     make(map[int]struct{}),
		subs:    newSubscribers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) IsFavorite(id int) bool {
	s.init()

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[id]
	return ok
}

// Toggle flips membership of id and returns the new membership.
//
// The updated set is written to storage before observers are notified,
// even when ctx is already canceled.
func (s *Store) Toggle(ctx context.Context, id int) bool {
	s.init()

	s.mu.Lock()
	favorite := s.flip(id)
	data := s.marshal()
	// an aborted request must not lose an applied flip
	s.persist(context.WithoutCancel(ctx), data)
	s.mu.Unlock()

	s.subs.notify(domain.FavoriteEvent{
		ProductID: id,
		Favorite:  favorite,
		At:        s.now(),
	})
	return favorite
}

// IDs returns favorited ids in the order they were added.
func (s *Store) IDs() []int {
	s.init()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Store) Set() domain.FavoriteSet {
	s.init()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewFavoriteSet(s.ids...)
}

// Subscribe registers fn to be called after every toggle.
//
// Observers run synchronously on the toggling goroutine.
func (s *Store) Subscribe(fn port.FavoriteObserver) (unsubscribe func()) {
	return s.subs.add(fn)
}

func (s *Store) init() {
	s.loadOnce.Do(func() {
		s.load(context.Background())
	})
}

func (s *Store) load(ctx context.Context) {
	const op = "Store.load"
	log := slog.With("op", op)

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Debug("failed to read favorites, starting empty", "err", err)
		return
	}
	if data == nil {
		return
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Debug("corrupt favorites data, starting empty", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.set[id]; ok {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	log.Debug("favorites loaded", "count", len(s.ids))
}

// flip must be called with mu held.
func (s *Store) flip(id int) bool {
	if _, ok := s.set[id]; ok {
		delete(s.set, id)
		s.ids = slices.DeleteFunc(s.ids, func(v int) bool { return v == id })
		return false
	}
	s.set[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// marshal must be called with mu held.
func (s *Store) marshal() []byte {
	ids := s.ids
	if ids == nil {
		ids = []int{}
	}
	data, _ := json.Marshal(ids)
	return data
}

func (s *Store) persist(ctx context.Context, data []byte) {
	const op = "Store.persist"

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		slog.Debug(
			"failed to persist favorites, keeping them in memory",
			"op", op, "err", err,
		)
	}
}
