package httphandler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/proexplore/internal/core/domain"
)

// Query parameters of the listing.
const (
	paramSearch    = "q"
	paramCategory  = "category"
	paramFavorites = "favorites"
	paramSort      = "sort"
)

// criteriaFromQuery reads the listing criteria from q.
//
// The returned criteria are usable even when err is not nil: an unknown
// sort option falls back to [domain.SortNone].
func criteriaFromQuery(q url.Values) (domain.FilterCriteria, error) {
	c := domain.DefaultCriteria()
	c.Search = q.Get(paramSearch)
	if category := q.Get(paramCategory); category != "" {
		c.Category = category
	}
	c.ShowFavoritesOnly = parseFlag(q.Get(paramFavorites))

	sortBy, err := domain.ParseSortOption(q.Get(paramSort))
	c.SortBy = sortBy
	return c, err
}

func criteriaQuery(c domain.FilterCriteria) url.Values {
	q := make(url.Values)
	if c.Search != "" {
		q.Set(paramSearch, c.Search)
	}
	if c.Category != domain.CategoryAll {
		q.Set(paramCategory, c.Category)
	}
	if c.ShowFavoritesOnly {
		q.Set(paramFavorites, "1")
	}
	if c.SortBy != domain.SortNone {
		q.Set(paramSort, string(c.SortBy))
	}
	return q
}

// parseFlag accepts HTML checkbox values as well as boolean literals.
func parseFlag(s string) bool {
	if strings.EqualFold(s, "on") {
		return true
	}
	v, _ := strconv.ParseBool(s)
	return v
}

func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// safeReturn keeps redirects on this site.
func safeReturn(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return "/"
	}
	u, err := url.Parse(s)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return s
}
