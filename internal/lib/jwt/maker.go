package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Истечение срока отличимо от невалидной подписи,
// чтобы транспортный уровень мог вернуть корректный статус.
var (
	// ErrTokenExpired срок действия токена истек
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid подпись не совпадает или токен поврежден
	ErrTokenInvalid = errors.New("token invalid")
)

// CustomClaims описывает данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"user_uid"` // Идентификатор пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateAccessToken создает access-токен пользователя, подписанный access-секретом.
//
// Время жизни токена определяется полем accessTTL.
func (j *MakerImpl) GenerateAccessToken(userUID string) (string, error) {
	return j.generate(userUID, j.accessSecret, j.accessTTL)
}

// GenerateRefreshToken создает refresh-токен пользователя, подписанный refresh-секретом.
//
// Время жизни токена определяется полем refreshTTL.
func (j *MakerImpl) GenerateRefreshToken(userUID string) (string, error) {
	return j.generate(userUID, j.refreshSecret, j.refreshTTL)
}

func (j *MakerImpl) generate(userUID, secret string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserUID: userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken парсит access-токен, проверяет его подпись и срок действия.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseAccessToken"
	return j.parse(op, tokenStr, j.accessSecret)
}

// ParseRefreshToken парсит refresh-токен, проверяет его подпись и срок действия.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseRefreshToken"
	return j.parse(op, tokenStr, j.refreshSecret)
}

// parse проверяет токен секретом соответствующего класса. Срок действия
// оценивается часами проверяющей стороны, а не издателя.
func (j *MakerImpl) parse(op, tokenStr, secret string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
