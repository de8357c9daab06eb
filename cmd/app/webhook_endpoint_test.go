package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

type fakeVerifier struct {
	configured bool
	valid      bool
	err        error
}

func (v *fakeVerifier) WebhookConfigured() bool { return v.configured }

func (v *fakeVerifier) VerifyWebhookSignature(_ context.Context, _ http.Header, _ []byte) (bool, error) {
	return v.valid, v.err
}

func postWebhook(t *testing.T, verifier webhookVerifier, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	ps := &services.PaymentService{Log: zap.NewNop()}
	registerWebhookRoutes(e.Group("/api"), ps, verifier, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/paypal", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAlwaysAcksInvalidPayload(t *testing.T) {
	rec := postWebhook(t, &fakeVerifier{}, "{not json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}

func TestWebhookAcksUnknownEventType(t *testing.T) {
	rec := postWebhook(t, &fakeVerifier{}, `{"event_type":"BILLING.SUBSCRIPTION.CREATED","resource":{"id":"x"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}

func TestWebhookAcksApprovedEvent(t *testing.T) {
	rec := postWebhook(t, &fakeVerifier{}, `{"event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"PAY1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAcksRejectedSignature(t *testing.T) {
	rec := postWebhook(t, &fakeVerifier{configured: true, valid: false},
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())
}

func TestWebhookAcksVerifierError(t *testing.T) {
	rec := postWebhook(t, &fakeVerifier{configured: true, err: errors.New("paypal down")},
		`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
}
