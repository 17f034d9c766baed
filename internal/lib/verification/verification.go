// Package verification реализует генерацию одноразовых секретов
// с ограниченным сроком действия: числового кода подтверждения почты
// и токена сброса пароля. Оба секрета берутся из криптографически
// стойкого источника случайности.
package verification

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// TTL срок действия кода подтверждения и токена сброса.
const TTL = 24 * time.Hour

// EmailCodeDigits длина числового кода подтверждения почты.
const EmailCodeDigits = 6

// resetTokenBytes длина токена сброса в байтах до hex-кодирования.
const resetTokenBytes = 32

// NewEmailCode возвращает шестизначный код подтверждения почты
// и момент истечения его срока действия.
func NewEmailCode() (string, time.Time, error) {
	const op = "verification.NewEmailCode"
	maxCode := new(big.Int).Exp(big.NewInt(10), big.NewInt(EmailCodeDigits), nil)
	n, err := rand.Int(rand.Reader, maxCode)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%0*d", EmailCodeDigits, n.Int64()), time.Now().Add(TTL), nil
}

// NewResetToken возвращает токен сброса пароля (32 случайных байта
// в hex-кодировке) и момент истечения его срока действия.
func NewResetToken() (string, time.Time, error) {
	const op = "verification.NewResetToken"
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), time.Now().Add(TTL), nil
}
