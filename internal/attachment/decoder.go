// Package attachment извлекает текст из вложений писем
package attachment

import (
	"strings"
	"unicode/utf8"

	"gmailreader/internal/domain"
)

// Decoder извлекает текст из вложения по расширению имени файла
// Не имеет состояния, безопасен для одновременного использования
type Decoder struct{}

// NewDecoder создаёт новый декодер вложений
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode классифицирует вложение по расширению и извлекает текст
// Ошибки разбора не возвращаются, а превращаются в AttachmentFailed
func (d *Decoder) Decode(filename string, data []byte) domain.DecodedAttachment {
	result := domain.DecodedAttachment{Filename: filename}

	var (
		text string
		err  error
	)

	// Сравнение расширения чувствительно к регистру: report.TXT не поддерживается
	switch {
	case strings.HasSuffix(filename, ".txt"), strings.HasSuffix(filename, ".csv"):
		text = decodeUTF8(data)
	case strings.HasSuffix(filename, ".pdf"):
		text, err = extractPDF(data)
	case strings.HasSuffix(filename, ".docx"):
		text, err = extractDOCX(data)
	default:
		result.Kind = domain.AttachmentUnsupported
		return result
	}

	if err != nil {
		result.Kind = domain.AttachmentFailed
		result.Reason = err.Error()
		return result
	}

	result.Kind = domain.AttachmentText
	result.Text = text
	return result
}

// decodeUTF8 превращает байты в строку, заменяя невалидные последовательности на U+FFFD
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
