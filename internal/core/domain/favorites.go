package domain

import "time"

// A FavoriteSet is a read-only snapshot of favorited product ids.
type FavoriteSet map[int]struct{}

func NewFavoriteSet(ids ...int) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s FavoriteSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// A FavoriteEvent is emitted after every toggle.
type FavoriteEvent struct {
	ProductID int
	Favorite  bool
	At        time.Time
}
