// Package services реализует воркер отправки почтовых уведомлений:
// письма с кодом подтверждения, приветствие и уведомления о сбросе пароля.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/lib/smtp"
	"github.com/magabrotheeeer/auth-service/internal/models"
)

type SenderService struct {
	transport Transport
	log       *slog.Logger
}

type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendEmailNotification обрабатывает сообщение из очереди и отправляет письмо
// по его виду: подтверждение почты, приветствие, сброс пароля.
func (s *SenderService) SendEmailNotification(body []byte) error {
	var message models.EmailMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText, err := renderEmail(message)
	if err != nil {
		s.log.Error("Failed to render email", "kind", string(message.Kind), "error", sl.Err(err))
		return err
	}

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func renderEmail(message models.EmailMessage) (subject, bodyText string, err error) {
	switch message.Kind {
	case models.EmailKindVerification:
		subject = "Подтверждение адреса электронной почты"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаш код подтверждения: %s\n\nКод действует 24 часа.",
			message.Username, message.Code)
	case models.EmailKindWelcome:
		subject = "Добро пожаловать!"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша почта подтверждена, учетная запись активна.",
			message.Username)
	case models.EmailKindPasswordReset:
		subject = "Сброс пароля"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nДля сброса пароля перейдите по ссылке: %s\n\nСсылка действует 24 часа. Если вы не запрашивали сброс, проигнорируйте это письмо.",
			message.Username, message.ResetURL)
	case models.EmailKindPasswordResetDone:
		subject = "Пароль изменен"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nПароль вашей учетной записи был успешно изменен.",
			message.Username)
	default:
		return "", "", fmt.Errorf("unknown email kind: %q", message.Kind)
	}
	return subject, bodyText, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
