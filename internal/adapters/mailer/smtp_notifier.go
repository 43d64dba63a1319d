package mailer_adapter

import (
	"context"
	"fmt"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"time"

	"github.com/wneessen/go-mail"
)

const newListingSubject = "Nueva empresa publicada"

// SMTPConfig - параметры почтового сервера. Порт 465 означает неявный TLS.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // EMAIL_ORIGEN, он же адрес отправителя
	Password string
	To       string // EMAIL_DESTINO
	Timeout  time.Duration
}

// Configured сообщает, хватает ли параметров, чтобы отправлять письма.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.To != ""
}

type messageSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier отправляет одно письмо на каждое новое объявление. Повторов нет.
type SMTPNotifier struct {
	sender  messageSender
	from    string
	to      string
	timeout time.Duration
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("smtp host, sender and recipient are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPNotifier(client, cfg.Username, cfg.To, cfg.Timeout), nil
}

func newSMTPNotifier(sender messageSender, from, to string, timeout time.Duration) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, to: to, timeout: timeout}
}

// NotifyNewListing отправляет уведомление. Ошибки оборачивают domain.ErrNotificationFailed.
func (n *SMTPNotifier) NotifyNewListing(ctx context.Context, listingName, contactEmail string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SMTPNotifier",
		"listing":   listingName,
	})

	msg, err := composeNewListingMessage(n.from, n.to, listingName, contactEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Error("Failed to send notification email", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	logger.Info("Notification email sent.", port.Fields{"to": n.to})
	return nil
}

func composeNewListingMessage(from, to, listingName, contactEmail string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(newListingSubject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Se ha publicado una nueva empresa.\n\nNombre: %s\nContacto: %s\n",
		listingName, contactEmail,
	))
	return msg, nil
}
