package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/catalog"
	apperrors "sevaportal/internal/errors"
	"sevaportal/internal/repository"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Services()
	_, err := catalog.Seed(ctx, repo)
	require.NoError(t, err)
	svc := NewCatalogService(repo, nil)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(catalog.Services()))

	everything, err := svc.ListByCategory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, all, everything)

	travel, err := svc.ListByCategory(ctx, catalog.CategoryTravel)
	require.NoError(t, err)
	require.NotEmpty(t, travel)
	for _, s := range travel {
		assert.Equal(t, catalog.CategoryTravel, s.Category)
	}

	unknown, err := svc.ListByCategory(ctx, "space-travel")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	one, err := svc.Get(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, all[2].Name, one.Name)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryIdentity, categories[0])
	assert.Len(t, categories, 7)
}
