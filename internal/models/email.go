package models

// EmailKind вид почтового уведомления.
type EmailKind string

// Виды писем, которые умеет отправлять notification-sender.
const (
	EmailKindVerification      EmailKind = "verification"
	EmailKindWelcome           EmailKind = "welcome"
	EmailKindPasswordReset     EmailKind = "password_reset"
	EmailKindPasswordResetDone EmailKind = "password_reset_success"
)

// EmailMessage задание на отправку письма, публикуется auth-service
// в очередь и обрабатывается notification-sender.
type EmailMessage struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Kind     EmailKind `json:"kind"`
	Code     string    `json:"code,omitempty"`      // код подтверждения почты
	ResetURL string    `json:"reset_url,omitempty"` // ссылка для сброса пароля
}
