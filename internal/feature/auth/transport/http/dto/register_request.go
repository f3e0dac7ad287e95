// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

import (
	"time"

	"country_explorer/internal/feature/auth/domain/entity"
)

// RegisterReq represents the request body for POST /api/auth/register.
type RegisterReq struct {
	Username string `json:"username" binding:"notblank,min=3,max=30,excludes=@"`
	Email    string `json:"email" binding:"notblank,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserRes is the public profile of a user. The password hash is never exposed.
type UserRes struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserRes builds the public profile for u.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// AuthRes is returned by register and login.
type AuthRes struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserRes `json:"user"`
}
