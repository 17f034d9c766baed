// Package authservice предоставляет маршруты сервиса аутентификации.
package authservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/auth-service/internal/cache"
	"github.com/magabrotheeeer/auth-service/internal/config"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/checkauth"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/refreshtoken"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/auth-service/internal/http/handlers/auth/verifyemail"
	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-service/internal/lib/cookies"
	"github.com/magabrotheeeer/auth-service/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, jwtMaker jwt.Maker, cacheRedis *cache.Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	cookieOpts := cookies.Options{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Secure:     cfg.Env == "prod",
	}

	signupLimit := middlewarectx.WindowLimitMiddleware(
		cacheRedis, "signup", int64(cfg.SignupMax), cfg.SignupWindow, logger)
	loginLimit := middlewarectx.WindowLimitMiddleware(
		cacheRedis, "login", int64(cfg.LoginMax), cfg.LoginWindow, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки, фильтр допуска перед обработчиками
		r.With(signupLimit).Post("/signup", signup.New(logger, authService, cookieOpts).ServeHTTP)
		r.With(loginLimit).Post("/login", login.New(logger, authService, cookieOpts).ServeHTTP)
		r.Post("/logout", logout.New(logger, cookieOpts).ServeHTTP)
		r.Post("/verify-email", verifyemail.New(logger, authService).ServeHTTP)
		r.Post("/forgot-password", forgotpassword.New(logger, authService).ServeHTTP)
		r.Post("/reset-password/{token}", resetpassword.New(logger, authService).ServeHTTP)
		r.Get("/refresh-token", refreshtoken.New(logger, authService, cookieOpts).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/check-auth", checkauth.New(logger, authService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
