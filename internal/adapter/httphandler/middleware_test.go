package httphandler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := AllowJSON(next)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"NoBody", "", "", http.StatusNoContent},
		{"JSON", `{}`, "application/json", http.StatusNoContent},
		{"JSONWithCharset", `{}`, "application/json; charset=utf-8", http.StatusNoContent},
		{"Form", "a=b", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(LogRequests(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
			w.WriteHeader(http.StatusTeapot)
		},
	)))

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("Reused", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, id, seen)
	})

	t.Run("InvalidReplaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.NotEqual(t, "<script>", seen)
	})
}

func TestCriteriaFromQuery(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c, err := criteriaFromQuery(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultCriteria(), c)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := domain.FilterCriteria{
			Search:            "Shirt",
			Category:          "men's clothing",
			ShowFavoritesOnly: true,
			SortBy:            domain.SortPriceAsc,
		}
		got, err := criteriaFromQuery(criteriaQuery(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Empty(t, criteriaQuery(domain.DefaultCriteria()))
	})

	t.Run("UnknownSort", func(t *testing.T) {
		c, err := criteriaFromQuery(url.Values{"sort": {"name"}, "q": {"mug"}})
		assert.ErrorIs(t, err, domain.ErrUnknownSortOption)
		assert.Equal(t, domain.SortNone, c.SortBy)
		assert.Equal(t, "mug", c.Search)
	})

	t.Run("Flags", func(t *testing.T) {
		for in, want := range map[string]bool{
			"on": true, "true": true, "1": true, "": false, "off": false, "0": false,
		} {
			assert.Equal(t, want, parseFlag(in), in)
		}
	})
}

func TestSafeReturn(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"/":                        "/",
		"/products/3":              "/products/3",
		"/?q=shirt&sort=price-asc": "/?q=shirt&sort=price-asc",
		"//evil.example":           "/",
		"/\\evil.example":          "/",
		"https://evil.example/":    "/",
		"products/3":               "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeReturn(in), in)
	}
}

func TestTemplateFuncs(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, true, false}, stars(3.9))
	assert.Equal(t, []bool{false, false, false, false, false}, stars(0))
	assert.Equal(t, []bool{true, true, true, true, true}, stars(4.6))
	assert.Equal(t, "Electronics", capitalize("electronics"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "3", formatRate(3))
	assert.Equal(t, "4.1", formatRate(4.1))
}
