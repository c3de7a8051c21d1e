// Package provider contains the outbound mail provider adapters.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/forgehack/platform/internal/mailer/domain"
)

const (
	resendBaseURL    = "https://api.resend.com"
	resendBatchLimit = 100

	requestTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Resend speaks the Resend REST API directly so the HTTP status code of a
// failed call is preserved for retry classification.
type Resend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewResend(apiKey string) *Resend {
	return &Resend{
		apiKey:  apiKey,
		baseURL: resendBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// NewResendWithBaseURL is used by tests to point the adapter at a fake API.
func NewResendWithBaseURL(apiKey, baseURL string) *Resend {
	r := NewResend(apiKey)
	r.baseURL = baseURL
	return r
}

func (r *Resend) Name() string {
	return "resend"
}

func (r *Resend) MaxBatchSize() int {
	return resendBatchLimit
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendSendResponse struct {
	ID string `json:"id"`
}

type resendBatchResponse struct {
	Data []resendSendResponse `json:"data"`
}

type resendErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (r *Resend) Send(ctx context.Context, msg *domain.EmailMessage) (string, error) {
	body, err := r.post(ctx, "/emails", toResendRequest(msg))
	if err != nil {
		return "", err
	}

	var out resendSendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &domain.ProviderError{
			StatusCode: http.StatusOK,
			Name:       "malformed_response",
			Message:    "could not decode provider response",
		}
	}
	return out.ID, nil
}

func (r *Resend) SendBatch(ctx context.Context, msgs []*domain.EmailMessage) ([]string, error) {
	if len(msgs) > resendBatchLimit {
		return nil, &domain.ProviderError{
			StatusCode: http.StatusUnprocessableEntity,
			Name:       "validation_error",
			Message:    "batch exceeds the provider limit of 100 messages",
		}
	}

	payload := make([]resendRequest, len(msgs))
	for i, msg := range msgs {
		payload[i] = toResendRequest(msg)
	}

	body, err := r.post(ctx, "/emails/batch", payload)
	if err != nil {
		return nil, err
	}

	var out resendBatchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &domain.ProviderError{
			StatusCode: http.StatusOK,
			Name:       "malformed_response",
			Message:    "could not decode provider batch response",
		}
	}

	ids := make([]string, len(out.Data))
	for i, item := range out.Data {
		ids[i] = item.ID
	}
	return ids, nil
}

func toResendRequest(msg *domain.EmailMessage) resendRequest {
	return resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.Body,
	}
}

func (r *Resend) post(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.ProviderError{
			StatusCode: http.StatusBadRequest,
			Name:       "encode_error",
			Message:    err.Error(),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, &domain.ProviderError{
			StatusCode: http.StatusBadRequest,
			Name:       "request_error",
			Message:    err.Error(),
		}
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		// Request never completed: no status code, retryable.
		return nil, &domain.ProviderError{Name: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.ProviderError{Name: "network_error", Message: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		perr := &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Name:       "provider_error",
			Message:    http.StatusText(resp.StatusCode),
		}
		var apiErr resendErrorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			if apiErr.Name != "" {
				perr.Name = apiErr.Name
			}
			if apiErr.Message != "" {
				perr.Message = apiErr.Message
			}
		}
		return nil, perr
	}

	return body, nil
}
