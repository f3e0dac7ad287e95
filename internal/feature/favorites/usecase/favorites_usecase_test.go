package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country_explorer/internal/feature/favorites/domain/entity"
)

// mockFavoriteRepository はテスト用のFavoriteRepositoryモック実装です。
type mockFavoriteRepository struct {
	CreateFunc          func(ctx context.Context, f *entity.Favorite) error
	DeleteOneFunc       func(ctx context.Context, userID, code string) (*entity.Favorite, error)
	ListByUserFunc      func(ctx context.Context, userID string) ([]entity.Favorite, error)
	DeleteAllByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockFavoriteRepository) Create(ctx context.Context, f *entity.Favorite) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, f)
	}
	return nil
}

func (m *mockFavoriteRepository) DeleteOne(ctx context.Context, userID, code string) (*entity.Favorite, error) {
	if m.DeleteOneFunc != nil {
		return m.DeleteOneFunc(ctx, userID, code)
	}
	return nil, ErrFavoriteNotFound
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockFavoriteRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	if m.DeleteAllByUserFunc != nil {
		return m.DeleteAllByUserFunc(ctx, userID)
	}
	return 0, nil
}

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 891234567, time.UTC)

func TestFavoritesUsecase_Add(t *testing.T) {
	t.Run("trims and stores", func(t *testing.T) {
		var stored *entity.Favorite
		repo := &mockFavoriteRepository{
			CreateFunc: func(ctx context.Context, f *entity.Favorite) error {
				stored = f
				return nil
			},
		}
		uc := NewFavoritesUsecase(repo, WithClock(func() time.Time { return fixedNow }))

		f, err := uc.Add(context.Background(), "u1", " FRA ", " France ", "🇫🇷")

		require.NoError(t, err)
		assert.Same(t, stored, f)
		assert.Equal(t, "u1", f.UserID)
		assert.Equal(t, entity.Country{Code: "FRA", Name: "France", Flag: "🇫🇷"}, f.Country)
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, fixedNow.Truncate(time.Microsecond), f.CreatedAt)
	})

	t.Run("code case is preserved", func(t *testing.T) {
		uc := NewFavoritesUsecase(&mockFavoriteRepository{})

		f, err := uc.Add(context.Background(), "u1", "fr", "France", "🇫🇷")

		require.NoError(t, err)
		assert.Equal(t, "fr", f.Country.Code)
	})

	t.Run("ids are unique and increasing", func(t *testing.T) {
		uc := NewFavoritesUsecase(&mockFavoriteRepository{})

		a, err := uc.Add(context.Background(), "u1", "FRA", "France", "🇫🇷")
		require.NoError(t, err)
		b, err := uc.Add(context.Background(), "u1", "DEU", "Germany", "🇩🇪")
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
		assert.Less(t, a.ID, b.ID)
	})

	missingCases := []struct {
		name   string
		code   string
		cname  string
		flag   string
		fields []string
	}{
		{"missing code", "", "France", "🇫🇷", []string{"countryCode"}},
		{"blank name", "FRA", "   ", "🇫🇷", []string{"countryName"}},
		{"missing flag", "FRA", "France", "", []string{"countryFlag"}},
		{"all missing", " ", "", "\t", []string{"countryCode", "countryName", "countryFlag"}},
	}
	for _, tt := range missingCases {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockFavoriteRepository{
				CreateFunc: func(ctx context.Context, f *entity.Favorite) error {
					t.Error("Create should not be called")
					return nil
				},
			}
			uc := NewFavoritesUsecase(repo)

			_, err := uc.Add(context.Background(), "u1", tt.code, tt.cname, tt.flag)

			require.ErrorIs(t, err, ErrMissingFields)
			var mfe *MissingFieldsError
			require.True(t, errors.As(err, &mfe))
			assert.Equal(t, tt.fields, mfe.Fields)
		})
	}

	t.Run("duplicate propagates", func(t *testing.T) {
		repo := &mockFavoriteRepository{
			CreateFunc: func(ctx context.Context, f *entity.Favorite) error { return ErrAlreadyFavorited },
		}
		uc := NewFavoritesUsecase(repo)

		_, err := uc.Add(context.Background(), "u1", "FRA", "France", "🇫🇷")

		assert.ErrorIs(t, err, ErrAlreadyFavorited)
	})
}

func TestFavoritesUsecase_Remove(t *testing.T) {
	t.Run("delegates trimmed code", func(t *testing.T) {
		want := &entity.Favorite{ID: "f1", UserID: "u1", Country: entity.Country{Code: "FRA"}}
		repo := &mockFavoriteRepository{
			DeleteOneFunc: func(ctx context.Context, userID, code string) (*entity.Favorite, error) {
				assert.Equal(t, "u1", userID)
				assert.Equal(t, "FRA", code)
				return want, nil
			},
		}
		uc := NewFavoritesUsecase(repo)

		got, err := uc.Remove(context.Background(), "u1", " FRA ")

		require.NoError(t, err)
		assert.Same(t, want, got)
	})

	t.Run("blank code is not found", func(t *testing.T) {
		repo := &mockFavoriteRepository{
			DeleteOneFunc: func(ctx context.Context, userID, code string) (*entity.Favorite, error) {
				t.Error("DeleteOne should not be called")
				return nil, nil
			},
		}
		uc := NewFavoritesUsecase(repo)

		_, err := uc.Remove(context.Background(), "u1", "  ")

		assert.ErrorIs(t, err, ErrFavoriteNotFound)
	})

	t.Run("not found propagates", func(t *testing.T) {
		uc := NewFavoritesUsecase(&mockFavoriteRepository{})

		_, err := uc.Remove(context.Background(), "u1", "FRA")

		assert.ErrorIs(t, err, ErrFavoriteNotFound)
	})
}

func TestFavoritesUsecase_ListAndDeleteAll(t *testing.T) {
	list := []entity.Favorite{{ID: "b"}, {ID: "a"}}
	repo := &mockFavoriteRepository{
		ListByUserFunc: func(ctx context.Context, userID string) ([]entity.Favorite, error) {
			assert.Equal(t, "u1", userID)
			return list, nil
		},
		DeleteAllByUserFunc: func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		},
	}
	uc := NewFavoritesUsecase(repo)

	got, err := uc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, list, got)

	n, err := uc.DeleteAllByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
