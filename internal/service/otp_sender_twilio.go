package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioOTPSender generates a six-digit code and delivers it over SMS through
// the Twilio Messages API. With DevEcho set and no credentials configured the
// network call is skipped, which keeps local runs working without a Twilio
// account.
type TwilioOTPSender struct {
	AccountSID string
	AuthToken  string
	From       string
	HTTPClient *http.Client
	DevEcho    bool
}

func NewTwilioOTPSender(accountSID, authToken, from string) *TwilioOTPSender {
	return &TwilioOTPSender{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioOTPSender) Send(ctx context.Context, countryCode, phoneNumber string) (string, error) {
	code, err := generateOTPCode()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(s.AccountSID) == "" {
		if s.DevEcho {
			return code, nil
		}
		return "", errors.New("otp sender not configured")
	}

	form := url.Values{}
	form.Set("To", countryCode+phoneNumber)
	form.Set("From", s.From)
	form.Set("Body", "Your OTP for login: "+code)

	endpoint := fmt.Sprintf(twilioMessagesURL, s.AccountSID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	request.SetBasicAuth(s.AccountSID, s.AuthToken)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	response, err := client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return "", fmt.Errorf("twilio message failed with status %d", response.StatusCode)
	}
	return code, nil
}

func generateOTPCode() (string, error) {
	// 100000..999999 so the code always has six digits.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
