// Package refreshtoken реализует HTTP-обработчик обновления access-токена
// по refresh-токену из cookie.
package refreshtoken

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/cookies"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
)

// Service описывает интерфейс обновления access-токена.
type Service interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// Handler обрабатывает HTTP-запросы обновления токена.
type Handler struct {
	log     *slog.Logger
	auth    Service
	cookies cookies.Options
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, cookieOpts cookies.Options) *Handler {
	return &Handler{log: log, auth: auth, cookies: cookieOpts}
}

// ServeHTTP godoc
// @Summary Обновление access-токена
// @Description Проверяет refresh-токен из cookie и выставляет новый access-токен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Токен обновлен"
// @Failure 401 {object} response.ErrorResponse "Refresh-токен отсутствует"
// @Failure 403 {object} response.ErrorResponse "Refresh-токен отклонен"
// @Router /refresh-token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refreshtoken"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cookie, err := r.Cookie(cookies.RefreshToken)
	if err != nil {
		log.Error("missing refresh token cookie")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized - no refresh token provided"))
		return
	}

	accessToken, err := h.auth.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		log.Warn("refresh token rejected", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("invalid or expired refresh token"))
		return
	}

	h.cookies.SetAccess(w, accessToken)

	log.Info("access token refreshed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "access token refreshed",
	}))
}
