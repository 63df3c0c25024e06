package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен (setup или access) истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, повторная запись атлета в ту же программу).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется для временных инфраструктурных сбоев (БД/Redis недоступны).
	// Единственный класс ошибок, который внешний вызывающий код может легитимно ретраить.
	ErrUnavailable = errors.New("store unavailable")
)
