package service

import "errors"

// Ошибки обработки входящих вебхуков. Проверка подписи выполняется до
// разбора тела: непроверенные байты не парсятся.
var (
	ErrMissingSignature = errors.New("отсутствует подпись вебхука")
	ErrInvalidSignature = errors.New("невалидная подпись вебхука")
	ErrMalformedEvent   = errors.New("некорректное событие провайдера")
)

// ErrValidation — базовая ошибка валидации входных данных.
// Конкретные сообщения оборачивают её через fmt.Errorf + %w.
var ErrValidation = errors.New("ошибка валидации")
