package service

import (
	"GophChat/internal/gemini"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated: нет идентичности вызывающего.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound — объект не существует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrInvalidMessage — некорректные входные данные сообщения или чата.
	ErrInvalidMessage = errors.New("invalid input")
	// ErrImageUnsupported: модель не умеет генерировать изображения.
	ErrImageUnsupported = errors.New("model does not support image output")
)

// Тексты этих ошибок попадают в чат как есть.
var (
	ErrMissingCredential = errors.New("No API key available. Please add your Google AI API key in settings.")
	ErrEmptyResponse     = errors.New("No response from AI model")
	ErrNoImageData       = errors.New("No image data in response")
)

// notFound переводит ошибку gorm «нет записи» в ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// validID: идентификаторы чатов и ключей всегда UUID. Иное значение не может
// ссылаться на существующий объект, а PostgreSQL отверг бы его как uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// providerError приводит ошибки клиента gemini к ошибкам сервиса.
// *gemini.APIError возвращается без изменений.
func providerError(err error) error {
	switch {
	case errors.Is(err, gemini.ErrEmptyResponse):
		return ErrEmptyResponse
	case errors.Is(err, gemini.ErrNoImageData):
		return ErrNoImageData
	default:
		return err
	}
}
