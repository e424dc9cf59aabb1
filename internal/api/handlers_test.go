package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwalton/price-tracker/internal/database"
	"github.com/mwalton/price-tracker/internal/extract"
	"github.com/mwalton/price-tracker/internal/models"
	"github.com/mwalton/price-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	nextID       int
	tracked      []*models.TrackedURL
	observations map[int][]*models.PriceObservation
}

func newStubStore() *stubStore {
	return &stubStore{observations: make(map[int][]*models.PriceObservation)}
}

func (s *stubStore) CreateTrackedURL(url string) (*models.TrackedURL, error) {
	for _, t := range s.tracked {
		if t.URL == url {
			return nil, fmt.Errorf("%w: %s", database.ErrAlreadyTracked, url)
		}
	}
	s.nextID++
	t := &models.TrackedURL{ID: s.nextID, URL: url}
	s.tracked = append(s.tracked, t)
	return t, nil
}

func (s *stubStore) DeleteTrackedURL(url string) error {
	for i, t := range s.tracked {
		if t.URL == url {
			s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", database.ErrNotFound, url)
}

func (s *stubStore) ListTrackedURLs(historyLimit int) ([]*models.TrackedURLWithHistory, error) {
	var result []*models.TrackedURLWithHistory
	for _, t := range s.tracked {
		entry := &models.TrackedURLWithHistory{TrackedURL: *t}
		obs := s.observations[t.ID]
		for i := len(obs) - 1; i >= 0 && len(entry.Observations) < historyLimit; i-- {
			entry.Observations = append(entry.Observations, obs[i])
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *stubStore) CreateObservation(o *models.PriceObservation) error {
	s.observations[o.TrackedURLID] = append(s.observations[o.TrackedURLID], o)
	return nil
}

type stubExtractor struct {
	products map[string]*models.ProductData
}

func (e *stubExtractor) Extract(ctx context.Context, url string) (*models.ProductData, error) {
	product, ok := e.products[url]
	if !ok {
		return nil, fmt.Errorf("%w: unknown url %s", extract.ErrExtractionFailed, url)
	}
	return product, nil
}

func setupServer(t *testing.T) (*httptest.Server, *stubStore, *stubExtractor) {
	t.Helper()
	store := newStubStore()
	extractor := &stubExtractor{products: make(map[string]*models.ProductData)}
	handler := NewHandler(tracker.New(store, extractor), nil)
	server := httptest.NewServer(SetupRoutes(handler))
	t.Cleanup(server.Close)
	return server, store, extractor
}

func TestHealthCheck(t *testing.T) {
	server, _, _ := setupServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddURLHandler(t *testing.T) {
	t.Run("creates a tracked url", func(t *testing.T) {
		server, store, extractor := setupServer(t)
		extractor.products["https://shop.example/shirt"] = &models.ProductData{Title: "Shirt", Price: 2999}

		resp, err := http.Post(server.URL+"/api/v1/urls", "application/json",
			strings.NewReader(`{"url":"https://shop.example/shirt"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var tracked models.TrackedURL
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tracked))
		assert.Equal(t, "https://shop.example/shirt", tracked.URL)
		assert.Len(t, store.tracked, 1)
	})

	t.Run("duplicate url reports already tracked", func(t *testing.T) {
		server, store, extractor := setupServer(t)
		extractor.products["https://shop.example/shirt"] = &models.ProductData{Title: "Shirt", Price: 2999}

		for i := 0; i < 2; i++ {
			resp, err := http.Post(server.URL+"/api/v1/urls", "application/json",
				strings.NewReader(`{"url":"https://shop.example/shirt"}`))
			require.NoError(t, err)
			resp.Body.Close()

			if i == 1 {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}
		assert.Len(t, store.tracked, 1)
	})

	t.Run("extraction failure maps to bad gateway", func(t *testing.T) {
		server, _, _ := setupServer(t)

		resp, err := http.Post(server.URL+"/api/v1/urls", "application/json",
			strings.NewReader(`{"url":"https://shop.example/unscrapable"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("missing url is a bad request", func(t *testing.T) {
		server, _, _ := setupServer(t)

		resp, err := http.Post(server.URL+"/api/v1/urls", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRemoveURLHandler(t *testing.T) {
	t.Run("removes a tracked url", func(t *testing.T) {
		server, store, _ := setupServer(t)
		store.CreateTrackedURL("https://shop.example/shirt")

		req, err := http.NewRequest(http.MethodDelete,
			server.URL+"/api/v1/urls?url=https%3A%2F%2Fshop.example%2Fshirt", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, store.tracked)
	})

	t.Run("unknown url is a 404", func(t *testing.T) {
		server, _, _ := setupServer(t)

		req, err := http.NewRequest(http.MethodDelete,
			server.URL+"/api/v1/urls?url=https%3A%2F%2Fshop.example%2Fghost", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListURLsHandler(t *testing.T) {
	server, store, _ := setupServer(t)
	store.CreateTrackedURL("https://shop.example/a")
	store.CreateTrackedURL("https://shop.example/b")

	resp, err := http.Get(server.URL + "/api/v1/urls")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.TrackedURLWithHistory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 2)
}

func TestCheckNowHandler(t *testing.T) {
	server, store, extractor := setupServer(t)
	extractor.products["https://shop.example/shirt"] = &models.ProductData{Title: "Shirt", Price: 2999}

	tracked, err := store.CreateTrackedURL("https://shop.example/shirt")
	require.NoError(t, err)
	require.NoError(t, store.CreateObservation(&models.PriceObservation{
		TrackedURLID: tracked.ID,
		Title:        "Shirt",
	}))

	resp, err := http.Post(server.URL+"/api/v1/check", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.CheckResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.NewItems, 1)
	assert.Empty(t, result.Updates)
}
