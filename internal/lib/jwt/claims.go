// Package jwt реализует генерацию и парсинг JWT токенов двух классов:
// короткоживущих access-токенов и долгоживущих refresh-токенов.
//
// Каждый класс подписывается собственным секретом, поэтому refresh-токен,
// предъявленный вместо access-токена (и наоборот), не проходит проверку подписи.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов обоих классов.
type Maker interface {
	// GenerateAccessToken выпускает access-токен для пользователя userUID
	GenerateAccessToken(userUID string) (string, error)
	// GenerateRefreshToken выпускает refresh-токен для пользователя userUID
	GenerateRefreshToken(userUID string) (string, error)
	// ParseAccessToken проверяет подпись и срок действия access-токена
	ParseAccessToken(tokenStr string) (*CustomClaims, error)
	// ParseRefreshToken проверяет подпись и срок действия refresh-токена
	ParseRefreshToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker на основе пары секретных ключей
// и времени жизни токенов каждого класса.
type MakerImpl struct {
	accessSecret  string        // Секретный ключ для подписи access-токенов.
	refreshSecret string        // Секретный ключ для подписи refresh-токенов.
	accessTTL     time.Duration // Время жизни access-токена.
	refreshTTL    time.Duration // Время жизни refresh-токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}
