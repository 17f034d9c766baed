// Package services содержит логику бизнес-уровня для управления жизненным
// циклом учетных данных: регистрация, вход, подтверждение почты, сброс
// пароля, обновление access-токена и выдача профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/auth-service/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-service/internal/lib/password"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/lib/verification"
	"github.com/magabrotheeeer/auth-service/internal/models"
	"github.com/magabrotheeeer/auth-service/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByVerificationCode возвращает пользователя с действующим кодом подтверждения.
	GetUserByVerificationCode(ctx context.Context, code string) (*models.User, error)

	// GetUserByResetToken возвращает пользователя с действующим токеном сброса.
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)

	// MarkUserVerified помечает почту подтвержденной и очищает одноразовый код.
	MarkUserVerified(ctx context.Context, userUID string) error

	// SetResetToken записывает токен сброса, перезаписывая ожидающий.
	SetResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) error

	// UpdatePassword сохраняет новый хэш пароля и очищает токен сброса.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// Notifier описывает контракт отправки почтовых уведомлений.
// Отправка асинхронная: публикация задания в очередь.
type Notifier interface {
	PublishEmail(msg models.EmailMessage) error
}

// TokenPair пара токенов, выдаваемая при регистрации и входе.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService отвечает за регистрацию, вход, подтверждение почты,
// сброс пароля и работу с JWT.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	notifier  Notifier
	clientURL string
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// Почтовый коллаборатор передается явно при конструировании.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier Notifier,
	clientURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		notifier:  notifier,
		clientURL: clientURL,
		log:       log,
	}
}

// Signup создает нового пользователя: хэширует пароль, генерирует код
// подтверждения почты, сохраняет запись и выпускает пару токенов.
//
// Уникальность username и email проверяется ограничениями хранилища,
// поэтому конкурентные регистрации с одинаковыми данными дают ровно
// одну созданную запись. Ошибка отправки письма логируется, но не
// откатывает регистрацию: запись создана и токены выданы.
func (s *AuthService) Signup(ctx context.Context, username, email, rawPassword string) (*TokenPair, *models.User, error) {
	const op = "auth.Signup"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	code, codeExpiry, err := verification.NewEmailCode()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:                  username,
		Email:                     email,
		PasswordHash:              hashed,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &codeExpiry,
	}
	userUID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			return nil, nil, ErrUsernameTaken
		case errors.Is(err, storage.ErrEmailTaken):
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = userUID

	pair, err := s.issueTokenPair(userUID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.PublishEmail(models.EmailMessage{
		Email:    email,
		Username: username,
		Kind:     models.EmailKindVerification,
		Code:     code,
	}); err != nil {
		s.log.Error("failed to publish verification email", sl.Err(err))
	}

	return pair, &user, nil
}

// Login проверяет учетные данные и выпускает пару токенов.
//
// Неизвестная почта и неверный пароль дают одинаковую ошибку.
// Пользователь с неподтвержденной почтой войти не может, даже если
// учетные данные верны.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	pair, err := s.issueTokenPair(user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

// VerifyEmail подтверждает почту по одноразовому коду. Код действует
// один раз: после успешного подтверждения он очищается и повторная
// отправка того же кода дает ErrInvalidOrExpiredCode.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) error {
	const op = "auth.VerifyEmail"

	user, err := s.users.GetUserByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.MarkUserVerified(ctx, user.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.PublishEmail(models.EmailMessage{
		Email:    user.Email,
		Username: user.Username,
		Kind:     models.EmailKindWelcome,
	}); err != nil {
		s.log.Error("failed to publish welcome email", sl.Err(err))
	}
	return nil
}

// ForgotPassword генерирует токен сброса пароля, перезаписывая ожидающий,
// и отправляет письмо со ссылкой на форму сброса.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	const op = "auth.ForgotPassword"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token, tokenExpiry, err := verification.NewResetToken()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetResetToken(ctx, user.UID, token, tokenExpiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.PublishEmail(models.EmailMessage{
		Email:    user.Email,
		Username: user.Username,
		Kind:     models.EmailKindPasswordReset,
		ResetURL: fmt.Sprintf("%s/reset-password/%s", s.clientURL, token),
	}); err != nil {
		s.log.Error("failed to publish password reset email", sl.Err(err))
	}
	return nil
}

// ResetPassword устанавливает новый пароль по одноразовому токену сброса.
// Токен очищается вместе со сроком действия: повторный сброс по тому же
// токену дает ErrInvalidOrExpiredToken.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "auth.ResetPassword"

	user, err := s.users.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.PublishEmail(models.EmailMessage{
		Email:    user.Email,
		Username: user.Username,
		Kind:     models.EmailKindPasswordResetDone,
	}); err != nil {
		s.log.Error("failed to publish password reset success email", sl.Err(err))
	}
	return nil
}

// CheckAuth возвращает профиль пользователя по идентификатору из
// проверенного access-токена. Проверку токена выполняет middleware,
// сюда идентификатор приходит явным параметром.
func (s *AuthService) CheckAuth(ctx context.Context, userUID string) (*models.User, error) {
	const op = "auth.CheckAuth"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// RefreshAccessToken проверяет refresh-токен и выпускает новый
// access-токен для того же пользователя. Refresh-токен не ротируется.
func (s *AuthService) RefreshAccessToken(_ context.Context, refreshToken string) (string, error) {
	const op = "auth.RefreshAccessToken"

	claims, err := s.jwtMaker.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	accessToken, err := s.jwtMaker.GenerateAccessToken(claims.UserUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return accessToken, nil
}

func (s *AuthService) issueTokenPair(userUID string) (*TokenPair, error) {
	accessToken, err := s.jwtMaker.GenerateAccessToken(userUID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMaker.GenerateRefreshToken(userUID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
