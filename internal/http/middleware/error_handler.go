package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/payouts-backend/internal/logger"
	"github.com/ignatzorin/payouts-backend/internal/repository"
	"github.com/ignatzorin/payouts-backend/internal/service"
)

// ErrorHandler конвертирует ошибки, накопленные в gin.Context, в JSON ответ.
// Известные sentinel-ошибки получают свой статус, остальные маскируются
// как внутренняя ошибка без деталей.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("ошибка обработки запроса")

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		switch {
		case errors.Is(err, service.ErrValidation):
			statusCode = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrMalformedEvent):
			statusCode = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrMissingSignature), errors.Is(err, service.ErrInvalidSignature):
			// Тело и детали подписи наружу не отдаются.
			statusCode = http.StatusUnauthorized
			message = "невалидная подпись"
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			statusCode = http.StatusNotFound
			message = err.Error()
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
