// Package logout реализует HTTP-обработчик выхода из учетной записи.
// Токены не хранятся на сервере, поэтому выход сводится к очистке cookie.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/cookies"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger
	cookies cookies.Options
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, cookieOpts cookies.Options) *Handler {
	return &Handler{log: log, cookies: cookieOpts}
}

// ServeHTTP godoc
// @Summary Выход из учетной записи
// @Description Сбрасывает cookie с access- и refresh-токенами.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Выход выполнен"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.cookies.Clear(w)

	log.Info("logout success")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
