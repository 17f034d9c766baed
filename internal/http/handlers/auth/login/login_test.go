package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/auth-service/internal/lib/cookies"
	services "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	args := m.Called(ctx, email, password)
	pair, _ := args.Get(0).(*services.TokenPair)
	return pair, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testCookieOpts() cookies.Options {
	return cookies.Options{
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock, testCookieOpts())

	pair := &services.TokenPair{
		AccessToken:  "access-tok",
		RefreshToken: "refresh-tok",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResp       *services.TokenPair
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
		wantCookies    bool
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockResp:       pair,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantCookies:    true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user1@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - malformed email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email address",
			wantStatus:     "Error",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name:           "email not verified",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        services.ErrEmailNotVerified,
			wantStatusCode: http.StatusForbidden,
			wantError:      "email not verified",
			wantStatus:     "Error",
		},
		{
			name:           "internal error",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        context.DeadlineExceeded,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to login",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockResp != nil || tt.mockErr != nil {
				reqBody := tt.requestBody.(Request)
				authMock.On("Login", mock.Anything, reqBody.Email, reqBody.Password).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			gotCookies := rec.Result().Cookies()
			if tt.wantCookies {
				names := make(map[string]string)
				for _, c := range gotCookies {
					names[c.Name] = c.Value
				}
				assert.Equal(t, "access-tok", names[cookies.AccessToken])
				assert.Equal(t, "refresh-tok", names[cookies.RefreshToken])
			} else {
				assert.Empty(t, gotCookies)
			}

			if tt.mockResp != nil || tt.mockErr != nil {
				authMock.AssertExpectations(t)
			}
		})
	}
}
