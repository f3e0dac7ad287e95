package adapters

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"country_explorer/internal/feature/favorites/usecase"
)

// setupMongo は MONGODB_TEST_URI が設定されている場合のみ一時データベースを用意します。
func setupMongo(t *testing.T) *favoriteMongo {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("favorites_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewFavoriteMongo(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	return repo
}

func TestFavoriteMongo_CreateListDelete(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newFavorite("u1", "FRA", baseTime)))
	require.NoError(t, repo.Create(ctx, newFavorite("u1", "DEU", baseTime.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newFavorite("u2", "FRA", baseTime)))

	err := repo.Create(ctx, newFavorite("u1", "FRA", baseTime.Add(time.Hour)))
	assert.ErrorIs(t, err, usecase.ErrAlreadyFavorited)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "DEU", list[0].Country.Code)
	assert.Equal(t, "FRA", list[1].Country.Code)

	deleted, err := repo.DeleteOne(ctx, "u1", "FRA")
	require.NoError(t, err)
	assert.Equal(t, "FRA", deleted.Country.Code)

	_, err = repo.DeleteOne(ctx, "u1", "FRA")
	assert.ErrorIs(t, err, usecase.ErrFavoriteNotFound)

	n, err := repo.DeleteAllByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFavoriteMongo_ConcurrentAdd(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newFavorite("u1", "FRA", baseTime))
		}(i)
	}
	wg.Wait()

	var conflicts int
	for _, err := range errs {
		if errors.Is(err, usecase.ErrAlreadyFavorited) {
			conflicts++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, conflicts)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
