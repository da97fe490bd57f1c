package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/catalog"
	"sevaportal/internal/repository"
)

func TestFetchCatalogFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"Ration Card","category":"welfare","price":"45.00","requirements":["Aadhaar"]},
			{"name":"","category":"welfare","price":"10"},
			{"name":"Broken","category":"tax","price":"abc"}
		]`))
	}))
	defer srv.Close()

	items, err := fetchCatalogFromAPI(srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 3)

	services := toModels(items)
	require.Len(t, services, 1)
	assert.Equal(t, "Ration Card", services[0].Name)
	assert.Equal(t, "45", services[0].Price.String())
	assert.Equal(t, []string{"Aadhaar"}, services[0].Requirements)
}

func TestFetchCatalogFromAPIRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := fetchCatalogFromAPI(srv.URL)
	assert.Error(t, err)
}

func TestSeedServicesSkipsExistingNames(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Services()
	services := catalog.Services()

	created, skipped, err := seedServices(ctx, repo, services)
	require.NoError(t, err)
	assert.Equal(t, len(services), created)
	assert.Zero(t, skipped)

	created, skipped, err = seedServices(ctx, repo, catalog.Services())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, len(services), skipped)
}
