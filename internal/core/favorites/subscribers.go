package favorites

import (
	"sync"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
)

type subscribers struct {
	mu     sync.RWMutex
	nextID int
	fns    map[int]port.FavoriteObserver
}

func newSubscribers() *subscribers {
	return &subscribers{fns: make(map[int]port.FavoriteObserver)}
}

func (s *subscribers) add(fn port.FavoriteObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(e domain.FavoriteEvent) {
	// an observer may unsubscribe while being notified
	s.mu.RLock()
	fns := make([]port.FavoriteObserver, 0, len(s.fns))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
