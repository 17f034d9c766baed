package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/auth-service/internal/http/response"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
)

var limiter = rate.NewLimiter(20, 40)

// RateLimitMiddleware — общий предохранитель для всего сервиса.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CounterStore считает запросы в пределах окна. Счетчик с истекшим
// окном начинается заново с единицы.
type CounterStore interface {
	IncrWithinWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// WindowLimitMiddleware ограничивает число запросов с одного IP в пределах
// фиксированного окна. При недоступности хранилища счетчиков запрос
// пропускается, ошибка только логируется.
func WindowLimitMiddleware(store CounterStore, name string, max int64, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.WindowLimitMiddleware"

			ip := clientIP(r)
			key := "ratelimit:" + name + ":" + ip

			count, err := store.IncrWithinWindow(r.Context(), key, window)
			if err != nil {
				log.Error("rate limit store unavailable", slog.String("op", op), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > max {
				log.Warn("rate limit exceeded",
					slog.String("op", op),
					slog.String("ip", ip),
					slog.String("limit", name),
					slog.Int64("count", count))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
