// Package sms provides the SMS delivery implementations behind the
// verification-code flow: an HTTP provider gateway for production and a
// log-only sender for development.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// HTTPSender posts verification codes to an SMS gateway endpoint.
type HTTPSender struct {
	endpoint  string
	secretKey string
	http      *http.Client
}

func NewHTTPSender(endpoint, secretKey string) *HTTPSender {
	return &HTTPSender{
		endpoint:  endpoint,
		secretKey: secretKey,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

type sendRequest struct {
	Mob    string   `json:"mob"`
	Params []string `json:"params"`
}

type sendResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
}

// SendCode delivers code to mob through the gateway. Any transport failure,
// non-2xx status, or gateway-reported failure is an error; the code itself
// is never included in the error.
func (s *HTTPSender) SendCode(ctx context.Context, mob, code string) error {
	body, err := json.Marshal(sendRequest{Mob: mob, Params: []string{code}})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms request: unexpected status %d", resp.StatusCode)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if !out.IsSuccess {
		return fmt.Errorf("sms gateway rejected send: %s", out.Message)
	}
	return nil
}

// LogSender is the development stand-in: it logs that a code was issued and
// always reports success. The code value is logged at debug level only.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendCode(_ context.Context, mob, code string) error {
	s.log.Info().Str("mob", mob).Msg("dev sms sender invoked")
	s.log.Debug().Str("code", code).Msg("dev sms code")
	return nil
}
