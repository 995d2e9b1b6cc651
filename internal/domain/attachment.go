package domain

import "fmt"

// AttachmentKind — результат разбора вложения
type AttachmentKind int

const (
	AttachmentText        AttachmentKind = iota // Текст извлечён
	AttachmentUnsupported                       // Тип файла не поддерживается
	AttachmentFailed                            // Ошибка при разборе
)

// UnsupportedMarker — текст, который подставляется вместо неподдерживаемого вложения
const UnsupportedMarker = "[Unsupported attachment type]"

// DecodedAttachment — вложение после извлечения текста
type DecodedAttachment struct {
	Kind     AttachmentKind
	Filename string // Исходное имя файла
	Text     string // Извлечённый текст (только для AttachmentText)
	Reason   string // Причина ошибки (только для AttachmentFailed)
}

// Content возвращает текст вложения или маркер вместо него
func (a DecodedAttachment) Content() string {
	switch a.Kind {
	case AttachmentText:
		return a.Text
	case AttachmentUnsupported:
		return UnsupportedMarker
	default:
		return fmt.Sprintf("[Failed to parse attachment %s: %s]", a.Filename, a.Reason)
	}
}
