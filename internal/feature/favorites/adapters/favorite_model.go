package adapters

import (
	"time"

	"country_explorer/internal/feature/favorites/domain/entity"
)

// FavoriteModel is the GORM model for the favorites table.
// idx_user_country enforces one favorite per (user, country code).
type FavoriteModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_user_country,priority:1;index:idx_user_created,priority:1"`
	CountryCode string    `gorm:"size:16;not null;uniqueIndex:idx_user_country,priority:2"`
	CountryName string    `gorm:"size:255;not null"`
	CountryFlag string    `gorm:"size:64;not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_user_created,priority:2"`
}

// TableName returns the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorites"
}

// ToEntity converts the GORM model to a domain entity.
func (m *FavoriteModel) ToEntity() entity.Favorite {
	return entity.Favorite{
		ID:     m.ID,
		UserID: m.UserID,
		Country: entity.Country{
			Code: m.CountryCode,
			Name: m.CountryName,
			Flag: m.CountryFlag,
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// FavoriteModelFromEntity converts a domain entity to a GORM model.
func FavoriteModelFromEntity(f *entity.Favorite) *FavoriteModel {
	return &FavoriteModel{
		ID:          f.ID,
		UserID:      f.UserID,
		CountryCode: f.Country.Code,
		CountryName: f.Country.Name,
		CountryFlag: f.Country.Flag,
		CreatedAt:   f.CreatedAt,
	}
}
