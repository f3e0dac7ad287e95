// Package api はすべてのエンドポイントで共有するレスポンスエンベロープを定義します。
// すべてのレスポンスは success フィールドを持ちます。
package api

import "country_explorer/internal/shared/apperr"

// ErrorResponse は失敗時のレスポンスボディです。
// Code はエラー種別（validation, conflict など）で、クライアントの分岐に使います。
// Error は開発モードでのみ設定されます。
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// MessageResponse はペイロードを持たない成功レスポンスです。
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse は単一のリソースを返す成功レスポンスです。
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// ListResponse は件数付きのリソース一覧を返す成功レスポンスです。
type ListResponse[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    []T  `json:"data"`
}

// WelcomeResponse は GET / のレスポンスです。
type WelcomeResponse struct {
	Message string `json:"message"`
}

// NewError は失敗レスポンスを組み立てます。
func NewError(msg string, fields []apperr.FieldError) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg, Errors: fields}
}

// NewData は単一リソースの成功レスポンスを組み立てます。
func NewData[T any](data T) DataResponse[T] {
	return DataResponse[T]{Success: true, Data: data}
}

// NewList は一覧の成功レスポンスを組み立てます。nil スライスは空配列として返します。
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Success: true, Count: len(items), Data: items}
}
