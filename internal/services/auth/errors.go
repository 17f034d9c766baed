package services

import "errors"

// Ошибки бизнес-уровня аутентификации. Обработчики транспортного уровня
// отображают их в HTTP-статусы; все прочие ошибки считаются внутренними
// и наружу уходят обезличенными.
var (
	// ErrUsernameTaken имя пользователя уже занято
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken почта уже зарегистрирована
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials неизвестная почта или неверный пароль.
	// Сообщение одно для обоих случаев, чтобы не раскрывать, какой именно.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified учетные данные верны, но почта не подтверждена
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrInvalidOrExpiredCode код подтверждения не найден или истек
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	// ErrInvalidOrExpiredToken токен сброса не найден или истек
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	// ErrUserNotFound запись пользователя не найдена
	ErrUserNotFound = errors.New("user not found")
)
