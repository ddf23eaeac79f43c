package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"realvest/internal/entity"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender is the email channel of the notification gateway, backed
// by the Resend API. Recovery is delivered as a clickable reset link,
// verification as a typed code.
type ResendEmailSender struct {
	Client     *resend.Client
	From       string
	AppBaseURL string
	ResetPath  string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		ResetPath:  "/reset-password",
	}
}

func (s *ResendEmailSender) SendRecovery(ctx context.Context, account *entity.UserAccount, secret string, ttl time.Duration) error {
	link := s.buildResetURL(secret)
	subject := "Password Reset Request"
	text := fmt.Sprintf(
		"Hello %s,\n\nClick the link below to reset your password:\n\n%s\n\nThe link is valid for %d minutes. If you did not request this, please ignore this email.",
		account.FirstName, link, int(ttl.Minutes()),
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Click to reset your password:</p><p><a href=\"%s\">Reset Password</a></p><p>The link is valid for %d minutes.</p>",
		account.FirstName, link, int(ttl.Minutes()),
	)
	return s.send(ctx, account.Email, subject, html, text)
}

func (s *ResendEmailSender) SendVerification(ctx context.Context, account *entity.UserAccount, code string, ttl time.Duration) error {
	subject := "Verify your email"
	text := fmt.Sprintf(
		"Hello %s,\n\nYour verification code is %s. It is valid for %d minutes.",
		account.FirstName, code, int(ttl.Minutes()),
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your verification code is <strong>%s</strong>. It is valid for %d minutes.</p>",
		account.FirstName, code, int(ttl.Minutes()),
	)
	return s.send(ctx, account.Email, subject, html, text)
}

func (s *ResendEmailSender) SendWelcome(ctx context.Context, account *entity.UserAccount) error {
	investorID := ""
	if account.InvestorID != nil {
		investorID = *account.InvestorID
	}
	subject := "Welcome aboard"
	text := fmt.Sprintf(
		"Hello %s,\n\nYour account is fully verified. Your investor id is %s.",
		account.FirstName, investorID,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your account is fully verified. Your investor id is <strong>%s</strong>.</p>",
		account.FirstName, investorID,
	)
	return s.send(ctx, account.Email, subject, html, text)
}

func (s *ResendEmailSender) buildResetURL(token string) string {
	if s.AppBaseURL == "" {
		return token
	}
	return fmt.Sprintf("%s%s?token=%s", s.AppBaseURL, s.ResetPath, token)
}

func (s *ResendEmailSender) send(_ context.Context, to string, subject string, html string, text string) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}
	_, err := s.Client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	return err
}
