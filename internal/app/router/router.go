package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "country_explorer/internal/feature/auth/transport/handler"
	favhandler "country_explorer/internal/feature/favorites/transport/handler"
	"country_explorer/internal/platform/http/handler"
	"country_explorer/internal/platform/http/middleware"
	jwtmw "country_explorer/internal/platform/jwt"
	"country_explorer/internal/shared/ratelimiter"
)

// Deps はルータが必要とするハンドラーとミドルウェアの依存です。
type Deps struct {
	Auth      *authhandler.AuthHandler
	Favorites *favhandler.FavoritesHandler
	Verifier  jwtmw.TokenVerifier

	// Readiness が nil の場合 /readyz は登録されません。
	Readiness   *handler.ReadinessHandler
	AuthLimiter ratelimiter.RateLimiterInterface

	CORSOrigins []string
	Debug       bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(d.Debug),
		middleware.RequestLogger(),
		cors.New(corsConfig(d.CORSOrigins)),
		middleware.ErrorHandler(d.Debug),
	)

	// 認証不要
	r.GET("/", handler.Welcome)
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	if d.Readiness != nil {
		r.GET("/readyz", d.Readiness.Ready)
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(d.AuthLimiter))
	}
	{
		// 新規ユーザー登録
		auth.POST("/register", d.Auth.Register)
		// ログイン（JWT 発行）
		auth.POST("/login", d.Auth.Login)
		auth.GET("/me", jwtmw.AuthRequired(d.Verifier), d.Auth.Me)
	}

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	favorites := api.Group("/favorites", jwtmw.AuthRequired(d.Verifier))
	{
		favorites.GET("", d.Favorites.List)
		favorites.POST("", d.Favorites.Add)
		favorites.DELETE("/:countryCode", d.Favorites.Remove)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
