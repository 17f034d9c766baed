package verifyemail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/magabrotheeeer/auth-service/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyEmailHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockCalled     bool
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid code",
			requestBody:    Request{Code: "123456"},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing code",
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Code is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - non-numeric code",
			requestBody:    Request{Code: "abc123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "validation error - wrong length",
			requestBody:    Request{Code: "1234"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "invalid or expired code",
			requestBody:    Request{Code: "123456"},
			mockCalled:     true,
			mockErr:        services.ErrInvalidOrExpiredCode,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid or expired verification code",
			wantStatus:     "Error",
		},
		{
			name:           "internal error",
			requestBody:    Request{Code: "123456"},
			mockCalled:     true,
			mockErr:        context.DeadlineExceeded,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to verify email",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockCalled {
				authMock.On("VerifyEmail", mock.Anything, tt.requestBody.(Request).Code).
					Return(tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/verify-email", bytes.NewReader(bodyBytes))
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
			}

			if tt.mockCalled {
				authMock.AssertExpectations(t)
			}
		})
	}
}
