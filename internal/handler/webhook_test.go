package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitcoach/fitcoach-api/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubWebhookService struct {
	calls     int
	payload   []byte
	signature string
	err       error
}

func (s *stubWebhookService) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	s.calls++
	s.payload = payload
	s.signature = signature
	return s.err
}

func postWebhook(svc *stubWebhookService, body []byte) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(testutil.Logger())
	e.POST("/api/webhooks/stripe", NewWebhookHandler(svc).Stripe)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookPassesRawBody(t *testing.T) {
	svc := &stubWebhookService{}
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	rec := postWebhook(svc, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, body, svc.payload)
	assert.Equal(t, "t=1,v1=abc", svc.signature)
}

func TestWebhookRejectsOversizedPayload(t *testing.T) {
	svc := &stubWebhookService{}

	rec := postWebhook(svc, bytes.Repeat([]byte("x"), maxWebhookBody+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"payload too large"}`, rec.Body.String())
	assert.Zero(t, svc.calls)
}

func TestWebhookAcceptsPayloadAtLimit(t *testing.T) {
	svc := &stubWebhookService{}

	rec := postWebhook(svc, bytes.Repeat([]byte("x"), maxWebhookBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, svc.payload, maxWebhookBody)
}
