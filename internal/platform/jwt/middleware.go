package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"country_explorer/internal/api"
	"country_explorer/internal/shared/apperr"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// MsgNotAuthorized is the single message returned for every authentication failure.
const MsgNotAuthorized = "Not authorized to access this route"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(tokenStr string) (string, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
// Every failure produces the same 401 body and the chain is aborted before any handler runs.
func AuthRequired(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			reject(c, "missing bearer token", nil)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		// 2. Verify signature, expiry and subject
		userID, err := v.Verify(tokenStr)
		if err != nil {
			reject(c, "token rejected", err)
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func reject(c *gin.Context, reason string, err error) {
	slog.Debug("authentication failed", "reason", reason, "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	body := api.NewError(MsgNotAuthorized, nil)
	body.Code = apperr.KindUnauthorized.String()
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
