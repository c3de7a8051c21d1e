package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgehack/platform/internal/mailer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMsg() *domain.EmailMessage {
	return &domain.EmailMessage{
		To:      "dev@example.com",
		From:    "ForgeHack <no-reply@forgehack.dev>",
		Subject: "hello",
		Body:    "<p>hello</p>",
		Type:    domain.TypeConfirmation,
	}
}

func TestResendSendSuccess(t *testing.T) {
	var gotAuth string
	var gotReq resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(resendSendResponse{ID: "re_123"})
	}))
	defer srv.Close()

	r := NewResendWithBaseURL("secret-key", srv.URL)
	id, err := r.Send(context.Background(), testMsg())

	require.NoError(t, err)
	assert.Equal(t, "re_123", id)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, []string{"dev@example.com"}, gotReq.To)
	assert.Equal(t, "<p>hello</p>", gotReq.HTML)
}

func TestResendSendMapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(resendErrorResponse{
			StatusCode: http.StatusTooManyRequests,
			Name:       "rate_limit_exceeded",
			Message:    "too many requests",
		})
	}))
	defer srv.Close()

	r := NewResendWithBaseURL("key", srv.URL)
	_, err := r.Send(context.Background(), testMsg())

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Equal(t, "rate_limit_exceeded", perr.Name)
	assert.Equal(t, "too many requests", perr.Message)
}

func TestResendSendNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	r := NewResendWithBaseURL("key", srv.URL)
	_, err := r.Send(context.Background(), testMsg())

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), perr.Message)
}

func TestResendSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse all connections

	r := NewResendWithBaseURL("key", srv.URL)
	_, err := r.Send(context.Background(), testMsg())

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.StatusCode)
	assert.Equal(t, "network_error", perr.Name)
}

func TestResendSendBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails/batch", r.URL.Path)
		var payload []resendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		out := resendBatchResponse{Data: make([]resendSendResponse, len(payload))}
		for i := range payload {
			out.Data[i] = resendSendResponse{ID: payload[i].To[0]}
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	r := NewResendWithBaseURL("key", srv.URL)
	msgs := []*domain.EmailMessage{testMsg(), testMsg(), testMsg()}
	msgs[1].To = "second@example.com"
	msgs[2].To = "third@example.com"

	ids, err := r.SendBatch(context.Background(), msgs)
	require.NoError(t, err)
	require.Equal(t, []string{"dev@example.com", "second@example.com", "third@example.com"}, ids)
}

func TestResendSendBatchRejectsOversizedInput(t *testing.T) {
	r := NewResend("key")

	msgs := make([]*domain.EmailMessage, resendBatchLimit+1)
	for i := range msgs {
		msgs[i] = testMsg()
	}

	_, err := r.SendBatch(context.Background(), msgs)

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnprocessableEntity, perr.StatusCode)
}
