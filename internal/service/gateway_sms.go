package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"realvest/internal/entity"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioSMSSender is the phone channel of the notification gateway, posting
// to the Twilio Messages REST API.
type TwilioSMSSender struct {
	AccountSID string
	AuthToken  string
	From       string
	HTTPClient *http.Client

	// BaseURL overrides the Twilio API host, for tests.
	BaseURL string
}

func NewTwilioSMSSender(accountSID string, authToken string, from string) *TwilioSMSSender {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" {
		return &TwilioSMSSender{}
	}
	return &TwilioSMSSender{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioSMSSender) SendRecovery(ctx context.Context, account *entity.UserAccount, secret string, ttl time.Duration) error {
	body := fmt.Sprintf("Your password reset code is %s. It is valid for %d minutes.", secret, int(ttl.Minutes()))
	return s.send(ctx, account.Phone(), body)
}

func (s *TwilioSMSSender) SendVerification(ctx context.Context, account *entity.UserAccount, code string, ttl time.Duration) error {
	body := fmt.Sprintf("Your verification code is %s. It is valid for %d minutes.", code, int(ttl.Minutes()))
	return s.send(ctx, account.Phone(), body)
}

func (s *TwilioSMSSender) SendWelcome(ctx context.Context, account *entity.UserAccount) error {
	return s.send(ctx, account.Phone(), "Your account is fully verified. Welcome aboard.")
}

func (s *TwilioSMSSender) send(ctx context.Context, to string, body string) error {
	if strings.TrimSpace(s.AccountSID) == "" || strings.TrimSpace(s.AuthToken) == "" {
		return errors.New("sms sender not configured")
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.From)
	form.Set("Body", body)

	base := s.BaseURL
	if base == "" {
		base = twilioBaseURL
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, s.AccountSID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	request.SetBasicAuth(s.AccountSID, s.AuthToken)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := s.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("twilio message failed with status %d", response.StatusCode)
	}
	return nil
}
