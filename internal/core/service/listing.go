package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/filter"
	"github.com/niksmo/proexplore/internal/core/port"
	"golang.org/x/sync/errgroup"
)

// ErrDiscarded is returned by [Listing.Load] when a newer load or
// [Listing.Close] superseded it and its result was not applied.
var ErrDiscarded = errors.New("load result discarded")

// A Listing holds the state of the catalog listing: the last fetched
// products and categories, the load status and the derived product list.
//
// Fetches are never cancelled. A load that was superseded by a newer one, or
// that finished after Close, is dropped.
type Listing struct {
	catalog   port.CatalogClient
	favorites port.FavoritesStore

	mu         sync.Mutex
	status     domain.LoadStatus
	err        error
	products   []domain.Product
	categories []string
	loadGen    uint64
	productGen uint64
	favGen     uint64
	closed     bool
	memo       *listingMemo

	unsubscribe func()
}

type memoKey struct {
	criteria   domain.FilterCriteria
	productGen uint64
	favGen     uint64
}

type listingMemo struct {
	key       memoKey
	products  []domain.Product
	favorites domain.FavoriteSet
}

func NewListing(
	catalog port.CatalogClient, favorites port.FavoritesStore,
) *Listing {
	l := &Listing{catalog: catalog, favorites: favorites}
	l.unsubscribe = favorites.Subscribe(l.onFavoriteToggled)
	return l
}

func (l *Listing) Status() domain.LoadStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Load fetches products and categories concurrently and applies both once
// the two fetches have completed.
//
// Any failure moves the listing into [domain.StatusFailed]. The caller's
// context does not cancel the fetches.
func (l *Listing) Load(ctx context.Context) error {
	const op = "Listing.Load"
	log := slog.With("op", op)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrDiscarded)
	}
	l.loadGen++
	gen := l.loadGen
	l.status = domain.StatusLoading
	l.err = nil
	l.mu.Unlock()

	products, categories, err := l.fetch(context.WithoutCancel(ctx))

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.loadGen {
		log.Debug("stale load result dropped", "gen", gen)
		return fmt.Errorf("%s: %w", op, ErrDiscarded)
	}

	if err != nil {
		l.status = domain.StatusFailed
		l.err = err
		log.Debug("catalog load failed", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	l.products = products
	l.categories = categories
	l.productGen++
	l.status = domain.StatusReady
	log.Debug("catalog loaded",
		"products", len(products), "categories", len(categories))
	return nil
}

// Retry re-issues the same load.
func (l *Listing) Retry(ctx context.Context) error {
	return l.Load(ctx)
}

func (l *Listing) fetch(
	ctx context.Context,
) (products []domain.Product, categories []string, err error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = l.catalog.ListProducts(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = l.catalog.ListCategories(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

// View returns the listing state for c.
//
// The visible products are recomputed only when c, the product list or the
// favorites changed since the previous call.
func (l *Listing) View(c domain.FilterCriteria) domain.ListingView {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := domain.ListingView{
		Status:     l.status,
		Err:        l.err,
		Criteria:   c,
		Categories: slices.Clone(l.categories),
		Total:      len(l.products),
	}
	if l.status != domain.StatusReady {
		v.Favorites = l.favorites.Set()
		return v
	}

	key := memoKey{c, l.productGen, l.favGen}
	if l.memo == nil || l.memo.key != key {
		favs := l.favorites.Set()
		l.memo = &listingMemo{
			key:       key,
			products:  filter.Apply(l.products, c, favs),
			favorites: favs,
		}
	}
	v.Products = slices.Clone(l.memo.products)
	v.Favorites = l.memo.favorites
	return v
}

// Close detaches the listing from the favorites store. Loads still in
// flight are dropped when they complete.
func (l *Listing) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.unsubscribe()
}

func (l *Listing) onFavoriteToggled(domain.FavoriteEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.favGen++
}
