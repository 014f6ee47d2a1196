package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CreateAndFind(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      "Electronics",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, category))

	byName, err := repo.FindByName(ctx, "Electronics")
	require.NoError(t, err)
	assert.Equal(t, category.ID, byName.ID)

	byID, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", byID.Name)

	exists, err := repo.ExistsByName(ctx, "Electronics")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Garden")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryRepository_DuplicateName(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	first := &domain.Category{ID: uuid.New(), Name: "Electronics", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Category{ID: uuid.New(), Name: "Electronics", CreatedAt: time.Now().UTC()}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)

	// The loser of the race can still resolve the surviving row by name
	survivor, err := repo.FindByName(ctx, "Electronics")
	require.NoError(t, err)
	assert.Equal(t, first.ID, survivor.ID)
}

func TestCategoryRepository_FindMissing(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	_, err := repo.FindByName(ctx, "Nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryRepository_List(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	for _, name := range []string{"Electronics", "Shoes", "Books"} {
		category := &domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
		require.NoError(t, repo.Create(ctx, category))
	}

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}
