package domain

type LoadStatus int

const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// A ListingView is the derived state rendered by the listing page.
type ListingView struct {
	Status     LoadStatus
	Err        error
	Criteria   FilterCriteria
	Categories []string
	Products   []Product
	Total      int
	Favorites  FavoriteSet
}
