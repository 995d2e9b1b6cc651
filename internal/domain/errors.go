package domain

import (
	"errors"
	"fmt"
)

// Ошибки предметной области
var (
	ErrMalformedMessage       = errors.New("письмо без структуры частей")
	ErrAttachmentFetchFailed  = errors.New("не удалось загрузить вложение")
	ErrAttachmentDecodeFailed = errors.New("не удалось разобрать вложение")
	ErrUpstreamUnavailable    = errors.New("почтовый сервис недоступен")
	ErrMessageNotFound        = errors.New("письмо не найдено")
	ErrPermissionDenied       = errors.New("нет доступа")
	ErrUnauthorized           = errors.New("не авторизован")
	ErrUpstreamRejected       = errors.New("запрос отклонён почтовым сервисом")
	ErrMissingParameters      = errors.New("не хватает параметров")
)

// UpstreamError — ошибка, полученная от почтового провайдера
// Хранит HTTP-код и сообщение провайдера, а через Unwrap — одну из ошибок выше
type UpstreamError struct {
	Status  int    // HTTP-код ответа провайдера
	Message string // Сообщение провайдера
	Kind    error  // Категория (ErrMessageNotFound, ErrPermissionDenied, ...)
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}
