package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
)

const (
	loadErrorMessage   = "Failed to load products. Please try again later."
	detailErrorMessage = "Failed to load product details."
)

// GET    /api/v1/products?q=&category=&favorites=&sort= (200 OK, 400 Bad request, 502 Bad gateway)
// GET    /api/v1/products/{id} (200 OK, 404 Not found, 502 Bad gateway)
// GET    /api/v1/categories (200 OK, 502 Bad gateway)
// GET    /api/v1/favorites (200 OK)
// POST   /api/v1/favorites/{id}/toggle (200 OK, 400 Bad request)
// POST   /api/v1/listing/reload (200 OK, 502 Bad gateway)

type APIHandler struct {
	browser   port.CatalogBrowser
	viewer    port.ProductViewer
	favorites port.FavoritesToggler
}

func RegisterAPI(
	mux *http.ServeMux,
	browser port.CatalogBrowser,
	viewer port.ProductViewer,
	favorites port.FavoritesToggler,
) {
	h := APIHandler{browser, viewer, favorites}
	mux.HandleFunc("GET /api/v1/products", h.GetProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/v1/categories", h.GetCategories)
	mux.HandleFunc("GET /api/v1/favorites", h.GetFavorites)
	mux.Handle(
		"POST /api/v1/favorites/{id}/toggle",
		AllowJSON(http.HandlerFunc(h.ToggleFavorite)),
	)
	mux.Handle(
		"POST /api/v1/listing/reload",
		AllowJSON(http.HandlerFunc(h.ReloadListing)),
	)
}

func (h APIHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.GetProducts"
	log := slog.With("op", op)

	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{err.Error()})
		log.Warn("invalid criteria", "err", err)
		return
	}

	v := h.browser.Listing(r.Context(), c)
	writeJSON(w, listingStatus(v), listingFromDomain(v))
}

func (h APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{domain.ErrNotFound.Error()})
		return
	}

	p, err := h.viewer.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{domain.ErrNotFound.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, ErrorResponse{detailErrorMessage})
		log.Warn("failed to get product", "id", id, "err", err)
		return
	}

	writeJSON(w, http.StatusOK, productFromDomain(p, h.favorites.IsFavorite(p.ID)))
}

func (h APIHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	v := h.browser.Listing(r.Context(), domain.DefaultCriteria())
	if v.Status != domain.StatusReady {
		writeJSON(w, listingStatus(v), ErrorResponse{loadErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{v.Categories})
}

func (h APIHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FavoritesResponse{h.favorites.Favorites()})
}

func (h APIHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	const op = "APIHandler.ToggleFavorite"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{"invalid product id"})
		return
	}

	favorite := h.favorites.ToggleFavorite(r.Context(), id)
	writeJSON(w, http.StatusOK, ToggleResponse{ProductID: id, Favorite: favorite})
	log.Info("favorite toggled", "id", id, "favorite", favorite)
}

func (h APIHandler) ReloadListing(w http.ResponseWriter, r *http.Request) {
	v := h.browser.Retry(r.Context(), domain.DefaultCriteria())
	writeJSON(w, listingStatus(v), listingFromDomain(v))
}

func listingStatus(v domain.ListingView) int {
	switch v.Status {
	case domain.StatusFailed:
		return http.StatusBadGateway
	case domain.StatusReady:
		return http.StatusOK
	default:
		return http.StatusAccepted
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", "writeJSON", "err", err)
	}
}
