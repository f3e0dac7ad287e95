package dto

import "strings"

// LoginReq は/api/auth/loginエンドポイントのリクエストボディを表します。
// email と username のどちらか一方が必要です。
type LoginReq struct {
	Email    string `json:"email" binding:"required_without=Username"`
	Username string `json:"username" binding:"required_without=Email"`
	Password string `json:"password" binding:"required"`
}

// Identifier は認証に使う識別子を返します。email が優先されます。
func (r LoginReq) Identifier() string {
	if s := strings.TrimSpace(r.Email); s != "" {
		return s
	}
	return strings.TrimSpace(r.Username)
}
