package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-service/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestStorage_RegisterUser(t *testing.T) {
	code := "123456"
	expiry := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		user    models.User
		setup   func(t *testing.T, factory *TestDataFactory)
		wantErr error
	}{
		{
			name: "successful registration",
			user: models.User{
				Username:                  "alice",
				Email:                     "alice@example.com",
				PasswordHash:              "hash",
				VerificationCode:          strPtr(code),
				VerificationCodeExpiresAt: timePtr(expiry),
			},
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
			wantErr: nil,
		},
		{
			name: "duplicate username",
			user: models.User{
				Username:     "taken",
				Email:        "new@example.com",
				PasswordHash: "hash",
			},
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "taken", "old@example.com", "hash", false)
			},
			wantErr: ErrUsernameTaken,
		},
		{
			name: "duplicate email",
			user: models.User{
				Username:     "newname",
				Email:        "dup@example.com",
				PasswordHash: "hash",
			},
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "othername", "dup@example.com", "hash", false)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			gotUID, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, gotUID)

			verification := NewTestVerification(storage)
			verification.VerifyUserExists(t, gotUID)

			got, err := storage.GetUserByEmail(context.Background(), tt.user.Email)
			require.NoError(t, err)
			assert.False(t, got.IsVerified)
			require.NotNil(t, got.VerificationCode)
			assert.Equal(t, code, *got.VerificationCode)
		})
	}
}

// Конкурентные регистрации с одинаковой почтой: ровно одна должна пройти,
// остальные обязаны получить конфликт от ограничений таблицы.
func TestStorage_RegisterUser_ConcurrentDuplicates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = storage.RegisterUser(context.Background(), models.User{
				Username:     "alice" + string(rune('a'+n)),
				Email:        "alice@example.com",
				PasswordHash: "hash",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, ErrEmailTaken)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)

	var count int
	err := storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "alice@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "no duplicate record may persist")
}

func TestStorage_GetUserByVerificationCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		setup   func(t *testing.T, factory *TestDataFactory)
		wantErr error
	}{
		{
			name: "valid unexpired code",
			code: "654321",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUserWithVerificationCode(t, uuid.New().String(), "bob", "bob@example.com",
					"654321", time.Now().Add(time.Hour))
			},
			wantErr: nil,
		},
		{
			name: "expired code",
			code: "654321",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUserWithVerificationCode(t, uuid.New().String(), "bob", "bob@example.com",
					"654321", time.Now().Add(-time.Hour))
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "unknown code",
			code:    "000000",
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.GetUserByVerificationCode(context.Background(), tt.code)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bob@example.com", got.Email)
		})
	}
}

func TestStorage_MarkUserVerified(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUserWithVerificationCode(t, userUID, "carol", "carol@example.com",
		"111222", time.Now().Add(time.Hour))

	require.NoError(t, storage.MarkUserVerified(context.Background(), userUID))

	verification := NewTestVerification(storage)
	verification.VerifyUserVerified(t, userUID)

	// код одноразовый: после подтверждения поиск по нему ничего не находит
	_, err := storage.GetUserByVerificationCode(context.Background(), "111222")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ResetTokenLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "dave", "dave@example.com", "oldhash", true)

	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, storage.SetResetToken(context.Background(), userUID, "token-one", expiry))

	// повторный запрос перезаписывает ожидающий токен
	require.NoError(t, storage.SetResetToken(context.Background(), userUID, "token-two", expiry))

	_, err := storage.GetUserByResetToken(context.Background(), "token-one")
	require.ErrorIs(t, err, ErrUserNotFound)

	got, err := storage.GetUserByResetToken(context.Background(), "token-two")
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)

	require.NoError(t, storage.UpdatePassword(context.Background(), userUID, "newhash"))

	verification := NewTestVerification(storage)
	verification.VerifyResetTokenCleared(t, userUID)

	// токен одноразовый: после смены пароля он больше не действует
	_, err = storage.GetUserByResetToken(context.Background(), "token-two")
	require.ErrorIs(t, err, ErrUserNotFound)

	got, err = storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
}

func TestStorage_UpdateMissingUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	missingUID := uuid.New().String()

	assert.ErrorIs(t, storage.MarkUserVerified(context.Background(), missingUID), ErrUserNotFound)
	assert.ErrorIs(t, storage.UpdatePassword(context.Background(), missingUID, "hash"), ErrUserNotFound)
	assert.ErrorIs(t, storage.SetResetToken(context.Background(), missingUID, "tok", time.Now()), ErrUserNotFound)
}

func TestStorage_GetUserByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "erin", "erin@example.com", "hash", true)

	got, err := storage.GetUserByUsername(context.Background(), "erin")
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)
	assert.Equal(t, "erin@example.com", got.Email)

	_, err = storage.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_SetVerificationCode_OverwritesPending(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUserWithVerificationCode(t, userUID, "frank", "frank@example.com",
		"111111", time.Now().Add(24*time.Hour))

	err := storage.SetVerificationCode(context.Background(), userUID, "222222", time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	// Старый код больше не действует, новый находит пользователя
	_, err = storage.GetUserByVerificationCode(context.Background(), "111111")
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := storage.GetUserByVerificationCode(context.Background(), "222222")
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)

	assert.ErrorIs(t,
		storage.SetVerificationCode(context.Background(), uuid.New().String(), "333333", time.Now()),
		ErrUserNotFound)
}
