package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/payouts-backend/internal/service"
)

// ContextSubjectKey — ключ gin.Context с идентификатором владельца.
const ContextSubjectKey = "subject"

// AuthMiddleware извлекает subject из bearer токена через TokenVerifier.
// Какая именно проверка выполняется (криптографическая или decode-only
// demo-режим) — решение конфигурации, не хэндлеров.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		subject, err := verifier.VerifyToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextSubjectKey, subject)
		c.Next()
	}
}
