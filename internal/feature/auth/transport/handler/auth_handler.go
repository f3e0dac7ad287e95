// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"country_explorer/internal/api"
	"country_explorer/internal/feature/auth/domain/entity"
	"country_explorer/internal/feature/auth/transport/http/dto"
	"country_explorer/internal/feature/auth/usecase"
	jwtmw "country_explorer/internal/platform/jwt"
	"country_explorer/internal/platform/http/validation"
	"country_explorer/internal/shared/apperr"
)

// レスポンスメッセージ
const (
	MsgInvalidRegistration = "Invalid registration data"
	MsgInvalidLogin        = "Please provide email or username and password"
	MsgUserAlreadyExists   = "User already exists"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUserNotFound        = "User not found"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンとユーザーを返します。
	Register(ctx context.Context, username, email, password string) (string, *entity.User, error)
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, identifier, password string) (string, *entity.User, error)
	// Me は指定されたIDのユーザーを返します。
	Me(ctx context.Context, userID string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	validation.Setup()
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400とフィールドエラーを返却
// - ユーザー名・メール重複時は400を返却
// - 成功時はトークンとユーザーを201で返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		_ = c.Error(apperr.Validation(MsgInvalidRegistration, validation.FieldErrors(err)...))
		return
	}

	token, user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			slog.Warn("register failed", "error", err, "remote_addr", c.ClientIP())
			_ = c.Error(apperr.Conflict(MsgUserAlreadyExists, err))
		case errors.Is(err, usecase.ErrWeakPassword):
			_ = c.Error(apperr.Validation(MsgInvalidRegistration,
				apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", usecase.MinPasswordLength)}))
		case errors.Is(err, usecase.ErrPasswordTooLong):
			_ = c.Error(apperr.Validation(MsgInvalidRegistration,
				apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", usecase.MaxPasswordBytes)}))
		case errors.Is(err, usecase.ErrInvalidUsername):
			_ = c.Error(apperr.Validation(MsgInvalidRegistration,
				apperr.FieldError{Field: "username", Message: fmt.Sprintf("must be %d to %d characters without \"@\"", usecase.MinUsernameLength, usecase.MaxUsernameLength)}))
		default:
			_ = c.Error(apperr.Internal(err))
		}
		return
	}

	slog.Info("user register successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthRes{Success: true, Token: token, User: dto.NewUserRes(user)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時は理由を区別せず401を返却します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		_ = c.Error(apperr.Validation(MsgInvalidLogin, validation.FieldErrors(err)...))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Identifier(), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
			_ = c.Error(apperr.Unauthorized(MsgInvalidCredentials, err))
			return
		}
		_ = c.Error(apperr.Internal(err))
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{Success: true, Token: token, User: dto.NewUserRes(user)})
}

// Me は認証済みユーザーのプロフィールを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		_ = c.Error(apperr.Unauthorized(jwtmw.MsgNotAuthorized, nil))
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			_ = c.Error(apperr.NotFound(MsgUserNotFound, err))
			return
		}
		_ = c.Error(apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, api.NewData(dto.NewUserRes(user)))
}
