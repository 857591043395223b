package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/payouts-backend/internal/http/handlers/common"
)

// SignatureHeader — заголовок с hex HMAC подписью тела вебхука.
const SignatureHeader = "X-Razorpay-Signature"

// EventReconciler применяет подписанное событие провайдера.
type EventReconciler interface {
	HandleEvent(ctx context.Context, raw []byte, signatureHex string) error
}

// WebhookHandler принимает вебхуки провайдера выплат.
type WebhookHandler struct {
	provider   string
	reconciler EventReconciler
}

func NewWebhookHandler(provider string, reconciler EventReconciler) *WebhookHandler {
	return &WebhookHandler{provider: provider, reconciler: reconciler}
}

// HandleWebhook POST /webhooks/:provider
// Тело читается сырыми байтами до любого парсинга: подпись считается
// именно по ним. Ошибки реконсилятора конвертирует ErrorHandler middleware.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	if c.Param("provider") != h.provider {
		common.RespondError(c, http.StatusNotFound, "неизвестный провайдер")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать тело запроса")
		return
	}

	if err := h.reconciler.HandleEvent(c.Request.Context(), raw, c.GetHeader(SignatureHeader)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
