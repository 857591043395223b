package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/payouts-backend/internal/dto"
	"github.com/ignatzorin/payouts-backend/internal/http/middleware"
)

// ErrSubjectNotFound возвращается, когда в контексте нет идентификатора владельца.
var ErrSubjectNotFound = errors.New("пользователь не найден в контексте")

// CurrentSubject извлекает идентификатор владельца из gin.Context.
func CurrentSubject(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextSubjectKey)
	if !exists {
		return "", ErrSubjectNotFound
	}

	subject, ok := raw.(string)
	if !ok || subject == "" {
		return "", ErrSubjectNotFound
	}
	return subject, nil
}

// ParseIntQuery читает целочисленный query параметр с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// ListLimit извлекает limit из query и зажимает его в [1,100], дефолт 25.
func ListLimit(c *gin.Context) int {
	limit := ParseIntQuery(c, "limit", 25)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// RespondError отправляет стандартный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}
