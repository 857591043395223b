package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("токен невалиден")

// TokenVerifier извлекает субъект (owner id) из bearer токена.
// Реализации: HMACTokenVerifier с проверкой подписи и InsecureTokenVerifier
// без неё (только для demo/development окружения).
type TokenVerifier interface {
	VerifyToken(raw string) (string, error)
}

// HMACTokenVerifier проверяет подпись JWT общим HMAC секретом.
type HMACTokenVerifier struct {
	secret []byte
}

func NewHMACTokenVerifier(secret string) *HMACTokenVerifier {
	return &HMACTokenVerifier{secret: []byte(secret)}
}

// VerifyToken парсит и проверяет токен, возвращает subject клейм.
func (v *HMACTokenVerifier) VerifyToken(raw string) (string, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// InsecureTokenVerifier декодирует токен БЕЗ проверки подписи и достаёт
// subject клейм. Используется только в demo-режиме, когда токены выпускает
// внешний провайдер идентификации, а их подпись здесь не проверяется.
// В production такой верификатор недопустим.
type InsecureTokenVerifier struct {
	parser *jwt.Parser
}

func NewInsecureTokenVerifier() *InsecureTokenVerifier {
	return &InsecureTokenVerifier{parser: jwt.NewParser()}
}

// VerifyToken декодирует клеймы без криптографической проверки.
func (v *InsecureTokenVerifier) VerifyToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(raw, claims); err != nil {
		return "", ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
