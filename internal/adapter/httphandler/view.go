package httphandler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"price":      formatPrice,
		"rate":       formatRate,
		"stars":      stars,
		"capitalize": capitalize,
		"favButton":  newFavoriteButton,
	}).ParseFS(templatesFS, "templates/*.html"),
)

type sortChoice struct {
	Value domain.SortOption
	Label string
}

var sortChoices = []sortChoice{
	{domain.SortNone, "Sort By"},
	{domain.SortPriceAsc, "Price: Low to High"},
	{domain.SortPriceDesc, "Price: High to Low"},
	{domain.SortRatingDesc, "Top Rated"},
}

type listingPage struct {
	View        domain.ListingView
	SortChoices []sortChoice
	Message     string
	ReturnTo    string
}

type detailPage struct {
	Product  domain.Product
	Favorite bool
	ReturnTo string
}

type favoriteButton struct {
	ID       int
	Favorite bool
	ReturnTo string
	On       string
	Off      string
}

func newFavoriteButton(
	id int, favorite bool, returnTo, on, off string,
) favoriteButton {
	return favoriteButton{id, favorite, returnTo, on, off}
}

type messagePage struct {
	Title    string
	Message  string
	RetryURL string
}

// GET  /                         listing
// GET  /products/{id}            product details
// POST /favorites/{id}/toggle    form field return: page to go back to
// POST /retry                    form field return: page to go back to

type ViewHandler struct {
	browser   port.CatalogBrowser
	viewer    port.ProductViewer
	favorites port.FavoritesToggler
}

func RegisterViews(
	mux *http.ServeMux,
	browser port.CatalogBrowser,
	viewer port.ProductViewer,
	favorites port.FavoritesToggler,
) {
	h := ViewHandler{browser, viewer, favorites}
	mux.HandleFunc("GET /{$}", h.Listing)
	mux.HandleFunc("GET /products/{id}", h.Product)
	mux.HandleFunc("POST /favorites/{id}/toggle", h.ToggleFavorite)
	mux.HandleFunc("POST /retry", h.Retry)
	mux.HandleFunc("/", h.NotFound)
}

func (h ViewHandler) Listing(w http.ResponseWriter, r *http.Request) {
	const op = "ViewHandler.Listing"
	log := slog.With("op", op)

	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		log.Debug("ignoring invalid sort option", "err", err)
	}

	returnTo := "/"
	if q := criteriaQuery(c); len(q) > 0 {
		returnTo += "?" + q.Encode()
	}

	v := h.browser.Listing(r.Context(), c)
	page := listingPage{
		View:        v,
		SortChoices: sortChoices,
		ReturnTo:    returnTo,
	}

	status := http.StatusOK
	if v.Status == domain.StatusFailed {
		status = http.StatusBadGateway
		page.Message = loadErrorMessage
	}
	render(w, status, "listing", page)
}

func (h ViewHandler) Product(w http.ResponseWriter, r *http.Request) {
	const op = "ViewHandler.Product"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		h.productNotFound(w)
		return
	}

	p, err := h.viewer.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.productNotFound(w)
			return
		}
		log.Debug("failed to load product", "id", id, "err", err)
		render(w, http.StatusBadGateway, "message", messagePage{
			Title:    "Oops! Something went wrong",
			Message:  detailErrorMessage,
			RetryURL: r.URL.RequestURI(),
		})
		return
	}

	render(w, http.StatusOK, "detail", detailPage{
		Product:  p,
		Favorite: h.favorites.IsFavorite(p.ID),
		ReturnTo: r.URL.RequestURI(),
	})
}

func (h ViewHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	const op = "ViewHandler.ToggleFavorite"
	log := slog.With("op", op)

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	favorite := h.favorites.ToggleFavorite(r.Context(), id)
	log.Info("favorite toggled", "id", id, "favorite", favorite)

	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

func (h ViewHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.browser.Retry(r.Context(), domain.DefaultCriteria())
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

func (h ViewHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, "message", messagePage{
		Title:   "Page not found",
		Message: "There is nothing here.",
	})
}

func (h ViewHandler) productNotFound(w http.ResponseWriter) {
	render(w, http.StatusNotFound, "message", messagePage{
		Title: "Product not found",
	})
}

func render(w http.ResponseWriter, status int, name string, data any) {
	const op = "httphandler.render"
	log := slog.With("op", op, "template", name)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("failed to render", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func formatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// stars reports for each of the five stars whether it is filled.
func stars(rate float64) []bool {
	filled := int(math.Round(rate))
	s := make([]bool, 5)
	for i := range s {
		s[i] = i < filled
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
