// Package handler はfavoritesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"country_explorer/internal/api"
	"country_explorer/internal/feature/favorites/domain/entity"
	"country_explorer/internal/feature/favorites/transport/http/dto"
	"country_explorer/internal/feature/favorites/usecase"
	jwtmw "country_explorer/internal/platform/jwt"
	"country_explorer/internal/platform/http/validation"
	"country_explorer/internal/shared/apperr"
)

// レスポンスメッセージ
const (
	MsgMissingFields    = "Please provide country code, name, and flag"
	MsgAlreadyFavorited = "Country already in favorites"
	MsgFavoriteNotFound = "Favorite not found"
	MsgFavoriteRemoved  = "Favorite removed successfully"
)

// FavoritesUsecase はお気に入り操作のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type FavoritesUsecase interface {
	Add(ctx context.Context, userID, code, name, flag string) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, code string) (*entity.Favorite, error)
	List(ctx context.Context, userID string) ([]entity.Favorite, error)
}

// FavoritesHandler はお気に入りのHTTPリクエストを処理します。
// ルートは jwtmw.AuthRequired の後ろに登録されることを前提とします。
type FavoritesHandler struct {
	uc FavoritesUsecase
}

// NewFavoritesHandler は新しい FavoritesHandler を作成します。
func NewFavoritesHandler(uc FavoritesUsecase) *FavoritesHandler {
	validation.Setup()
	return &FavoritesHandler{uc: uc}
}

// List は認証ユーザーのお気に入りを新しい順に返します。
//
// エンドポイント: GET /api/favorites
func (h *FavoritesHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	favorites, err := h.uc.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, api.NewList(dto.NewFavoriteList(favorites)))
}

// Add はお気に入りを追加します。
//
// エンドポイント: POST /api/favorites
func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.AddFavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.Validation(MsgMissingFields, validation.FieldErrors(err)...))
		return
	}

	f, err := h.uc.Add(c.Request.Context(), userID, req.CountryCode, req.CountryName, req.CountryFlag)
	if err != nil {
		var mfe *usecase.MissingFieldsError
		switch {
		case errors.As(err, &mfe):
			fields := make([]apperr.FieldError, 0, len(mfe.Fields))
			for _, name := range mfe.Fields {
				fields = append(fields, apperr.FieldError{Field: name, Message: "is required"})
			}
			_ = c.Error(apperr.Validation(MsgMissingFields, fields...))
		case errors.Is(err, usecase.ErrAlreadyFavorited):
			_ = c.Error(apperr.Conflict(MsgAlreadyFavorited, err))
		default:
			_ = c.Error(apperr.Internal(err))
		}
		return
	}

	slog.Info("favorite added", "user_id", userID, "country_code", f.Country.Code)
	c.JSON(http.StatusCreated, api.NewData(dto.NewFavoriteRes(*f)))
}

// Remove はお気に入りを削除し、削除した国コードを返します。
//
// エンドポイント: DELETE /api/favorites/:countryCode
func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var countryCode string
	err := runtime.BindStyledParameterWithOptions("simple", "countryCode", c.Param("countryCode"), &countryCode,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		_ = c.Error(apperr.Validation("Invalid format for parameter countryCode",
			apperr.FieldError{Field: "countryCode", Message: err.Error()}))
		return
	}

	f, err := h.uc.Remove(c.Request.Context(), userID, countryCode)
	if err != nil {
		if errors.Is(err, usecase.ErrFavoriteNotFound) {
			_ = c.Error(apperr.NotFound(MsgFavoriteNotFound, err))
			return
		}
		_ = c.Error(apperr.Internal(err))
		return
	}

	slog.Info("favorite removed", "user_id", userID, "country_code", f.Country.Code)
	c.JSON(http.StatusOK, dto.RemoveFavoriteRes{
		Success:     true,
		Message:     MsgFavoriteRemoved,
		CountryCode: f.Country.Code,
	})
}

// requireUser は認証ミドルウェアが設定したユーザーIDを取り出します。
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		_ = c.Error(apperr.Unauthorized(jwtmw.MsgNotAuthorized, nil))
		return "", false
	}
	return userID, true
}
