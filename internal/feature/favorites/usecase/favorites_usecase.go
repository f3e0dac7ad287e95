package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"country_explorer/internal/feature/favorites/domain/entity"
)

// FavoriteRepository abstracts the persistence layer for favorites.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type FavoriteRepository interface {
	// Create stores f. It returns ErrAlreadyFavorited when (UserID, Country.Code) already exists.
	// Uniqueness is enforced by the store, not by a prior read.
	Create(ctx context.Context, f *entity.Favorite) error

	// DeleteOne removes and returns the favorite for (userID, code) in one statement.
	// It returns ErrFavoriteNotFound when nothing matched.
	DeleteOne(ctx context.Context, userID, code string) (*entity.Favorite, error)

	// ListByUser returns the user's favorites newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error)

	// DeleteAllByUser removes every favorite owned by userID and returns how many were removed.
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// MissingFieldsError lists the country fields that were empty on add.
// errors.Is(err, ErrMissingFields) reports true for it.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}

// FavoritesUsecase provides business logic for favorites.
type FavoritesUsecase struct {
	repo  FavoriteRepository
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// Option configures a FavoritesUsecase.
type Option func(*FavoritesUsecase)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(u *FavoritesUsecase) { u.now = now }
}

// NewFavoritesUsecase creates a new FavoritesUsecase with the given repository.
func NewFavoritesUsecase(r FavoriteRepository, opts ...Option) *FavoritesUsecase {
	u := &FavoritesUsecase{repo: r, now: time.Now, newID: uuid.NewV7}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Add saves a country to the user's favorites.
// Inputs are trimmed; country codes are otherwise kept as given.
func (u *FavoritesUsecase) Add(ctx context.Context, userID, code, name, flag string) (*entity.Favorite, error) {
	country := entity.Country{
		Code: strings.TrimSpace(code),
		Name: strings.TrimSpace(name),
		Flag: strings.TrimSpace(flag),
	}
	if missing := missingFields(country); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	id, err := u.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate favorite id: %w", err)
	}

	f := &entity.Favorite{
		ID:      id.String(),
		UserID:  userID,
		Country: country,
		// Postgres stores microsecond precision.
		CreatedAt: u.now().UTC().Truncate(time.Microsecond),
	}
	if err := u.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Remove deletes the user's favorite for code and returns the removed record.
func (u *FavoritesUsecase) Remove(ctx context.Context, userID, code string) (*entity.Favorite, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrFavoriteNotFound
	}
	return u.repo.DeleteOne(ctx, userID, code)
}

// List returns the user's favorites newest first.
func (u *FavoritesUsecase) List(ctx context.Context, userID string) ([]entity.Favorite, error) {
	return u.repo.ListByUser(ctx, userID)
}

// DeleteAllByUser removes every favorite of a user.
// A future account deletion must call this explicitly; neither store cascades.
func (u *FavoritesUsecase) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	return u.repo.DeleteAllByUser(ctx, userID)
}

func missingFields(c entity.Country) []string {
	var missing []string
	if c.Code == "" {
		missing = append(missing, "countryCode")
	}
	if c.Name == "" {
		missing = append(missing, "countryName")
	}
	if c.Flag == "" {
		missing = append(missing, "countryFlag")
	}
	return missing
}
