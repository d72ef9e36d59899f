package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/SM227465/cl/internal/entity"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var mailTemplates embed.FS

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailService sends templated HTML mail over SMTP. It is constructed once and
// injected; the template set is parsed lazily on first send and shared by all
// requests afterwards.
type MailService struct {
	config SMTPConfig
	dialer *gomail.Dialer

	parseOnce sync.Once
	parseErr  error
	templates *template.Template
}

func NewMailService(config SMTPConfig) *MailService {
	return &MailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *MailService) SendPasswordResetEmail(ctx context.Context, user *entity.User, resetURL string) error {
	return s.send(ctx, user.Email, "Password Reset Request", "reset_password.html", map[string]any{
		"FirstName": user.FirstName,
		"ResetURL":  resetURL,
		"Year":      time.Now().Year(),
	})
}

func (s *MailService) SendWelcomeEmail(ctx context.Context, user *entity.User) error {
	return s.send(ctx, user.Email, "Welcome!", "welcome.html", map[string]any{
		"FirstName": user.FirstName,
		"LastName":  user.LastName,
	})
}

func (s *MailService) send(ctx context.Context, to, subject, templateName string, data map[string]any) error {
	if strings.TrimSpace(s.config.Host) == "" {
		return errors.New("email sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.render(templateName, data)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.From)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	return s.dialer.DialAndSend(message)
}

func (s *MailService) render(templateName string, data map[string]any) (string, error) {
	s.parseOnce.Do(func() {
		s.templates, s.parseErr = template.ParseFS(mailTemplates, "templates/*.html")
	})
	if s.parseErr != nil {
		return "", fmt.Errorf("parse mail templates: %w", s.parseErr)
	}

	var buffer bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buffer, templateName, data); err != nil {
		return "", err
	}
	return buffer.String(), nil
}
