package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/payouts-backend/internal/http/middleware"
	"github.com/ignatzorin/payouts-backend/internal/service"
)

// stubReconciler возвращает заранее заданную ошибку и запоминает вход.
type stubReconciler struct {
	err    error
	gotRaw []byte
	gotSig string
	calls  int
}

func (s *stubReconciler) HandleEvent(_ context.Context, raw []byte, sig string) error {
	s.calls++
	s.gotRaw = raw
	s.gotSig = sig
	return s.err
}

func newWebhookRouter(rec *stubReconciler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := NewWebhookHandler("razorpayx", rec)
	r.POST("/webhooks/:provider", handler.HandleWebhook)
	return r
}

func postWebhook(r *gin.Engine, path string, body []byte, sig string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_Success(t *testing.T) {
	rec := &stubReconciler{}
	r := newWebhookRouter(rec)

	body := []byte(`{"event_id":"evt_1","event":"payout.processed"}`)
	w := postWebhook(r, "/webhooks/razorpayx", body, "deadbeef")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	// Хэндлер передаёт реконсилятору сырые байты тела и подпись из заголовка.
	assert.Equal(t, body, rec.gotRaw)
	assert.Equal(t, "deadbeef", rec.gotSig)
}

func TestWebhookHandler_UnknownProvider(t *testing.T) {
	rec := &stubReconciler{}
	r := newWebhookRouter(rec)

	w := postWebhook(r, "/webhooks/stripe", []byte(`{}`), "deadbeef")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, rec.calls)
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	rec := &stubReconciler{err: service.ErrMissingSignature}
	r := newWebhookRouter(rec)

	w := postWebhook(r, "/webhooks/razorpayx", []byte(`{}`), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	rec := &stubReconciler{err: service.ErrInvalidSignature}
	r := newWebhookRouter(rec)

	w := postWebhook(r, "/webhooks/razorpayx", []byte(`{}`), "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Детали подписи и тело наружу не отдаются.
	assert.NotContains(t, w.Body.String(), "deadbeef")
}

func TestWebhookHandler_MalformedEvent(t *testing.T) {
	rec := &stubReconciler{err: service.ErrMalformedEvent}
	r := newWebhookRouter(rec)

	w := postWebhook(r, "/webhooks/razorpayx", []byte(`not json`), "deadbeef")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
