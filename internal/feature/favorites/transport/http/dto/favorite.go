// Package dto defines data transfer objects for the favorites feature's HTTP transport layer.
package dto

import (
	"time"

	"country_explorer/internal/feature/favorites/domain/entity"
)

// AddFavoriteReq represents the request body for POST /api/favorites.
// Whitespace-only values count as missing.
type AddFavoriteReq struct {
	CountryCode string `json:"countryCode" binding:"notblank"`
	CountryName string `json:"countryName" binding:"notblank"`
	CountryFlag string `json:"countryFlag" binding:"notblank"`
}

// CountryRes is the country snapshot stored with a favorite.
type CountryRes struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// FavoriteRes is a stored favorite.
type FavoriteRes struct {
	ID        string     `json:"id"`
	User      string     `json:"user"`
	Country   CountryRes `json:"country"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewFavoriteRes converts a domain favorite to its response form.
func NewFavoriteRes(f entity.Favorite) FavoriteRes {
	return FavoriteRes{
		ID:   f.ID,
		User: f.UserID,
		Country: CountryRes{
			Code: f.Country.Code,
			Name: f.Country.Name,
			Flag: f.Country.Flag,
		},
		CreatedAt: f.CreatedAt,
	}
}

// NewFavoriteList converts favorites preserving order.
func NewFavoriteList(fs []entity.Favorite) []FavoriteRes {
	out := make([]FavoriteRes, 0, len(fs))
	for _, f := range fs {
		out = append(out, NewFavoriteRes(f))
	}
	return out
}

// RemoveFavoriteRes is returned by DELETE /api/favorites/:countryCode.
// CountryCode is the removed key so clients can update without re-fetching.
type RemoveFavoriteRes struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
}
