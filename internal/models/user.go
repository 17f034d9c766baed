// Package models содержит доменную модель пользователя системы,
// включающую учетные данные, признак подтверждения почты и одноразовые
// секреты подтверждения и сброса пароля. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// VerificationCode и ResetToken одноразовые: на пользователя может
// существовать не более одного ожидающего кода подтверждения и одного
// токена сброса, повторный запрос перезаписывает предыдущий.
type User struct {
	UID                       string     // Уникальный идентификатор пользователя
	Username                  string     // Имя пользователя (уникальное)
	Email                     string     // Электронная почта (уникальная)
	PasswordHash              string     // Хэш пароля пользователя
	IsVerified                bool       // Признак подтвержденной почты
	VerificationCode          *string    // Ожидающий код подтверждения почты
	VerificationCodeExpiresAt *time.Time // Срок действия кода подтверждения
	ResetToken                *string    // Ожидающий токен сброса пароля
	ResetTokenExpiresAt       *time.Time // Срок действия токена сброса
	CreatedAt                 time.Time  // Дата создания записи
}

// PublicProfile открытая часть учетной записи, отдаваемая клиенту.
// Хэш пароля и одноразовые секреты наружу не выходят.
type PublicProfile struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// Public возвращает открытый профиль пользователя.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}
}
