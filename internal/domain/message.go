package domain

import (
	"mime"
	"strings"
)

// Header — заголовок письма или MIME-части
type Header struct {
	Name  string `json:"name"`  // Имя заголовка (например, Subject)
	Value string `json:"value"` // Значение
}

// PartBody — содержимое MIME-части
// Либо данные лежат прямо в письме (Data), либо на них есть ссылка (AttachmentID)
type PartBody struct {
	Data         []byte `json:"-"`                       // Данные после транспортного декодирования
	Size         int64  `json:"size"`                    // Размер в байтах (как сообщает почтовый провайдер)
	AttachmentID string `json:"attachment_id,omitempty"` // Ссылка на вложение, загружается отдельным запросом
}

// MessagePart — узел дерева MIME-частей
// multipart-узлы содержат Parts, листья — Body с данными или ссылкой на вложение
type MessagePart struct {
	PartID   string        `json:"part_id,omitempty"`
	MimeType string        `json:"mime_type"`          // Тип содержимого (text/plain, multipart/mixed, ...)
	Filename string        `json:"filename,omitempty"` // Имя файла, если часть — вложение
	Headers  []Header      `json:"headers,omitempty"`  // Заголовки части
	Body     *PartBody     `json:"body,omitempty"`     // Содержимое (может отсутствовать)
	Parts    []MessagePart `json:"parts,omitempty"`    // Дочерние части
}

// HasInlineData сообщает, есть ли у части непустые встроенные данные
func (p *MessagePart) HasInlineData() bool {
	return p.Body != nil && len(p.Body.Data) > 0
}

// AttachmentID возвращает ссылку на вложение или пустую строку
func (p *MessagePart) AttachmentID() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.AttachmentID
}

// Charset возвращает кодировку из заголовка Content-Type части
// Если заголовка или параметра нет — пустая строка
func (p *MessagePart) Charset() string {
	for _, h := range p.Headers {
		if !strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		_, params, err := mime.ParseMediaType(h.Value)
		if err != nil {
			return ""
		}
		return params["charset"]
	}
	return ""
}

// Message — письмо, полученное от почтового провайдера
type Message struct {
	ID       string       `json:"id"`
	ThreadID string       `json:"thread_id,omitempty"`
	LabelIDs []string     `json:"label_ids,omitempty"` // Метки (UNREAD, INBOX, ...)
	Snippet  string       `json:"snippet,omitempty"`   // Короткий фрагмент текста
	Headers  []Header     `json:"headers,omitempty"`   // Заголовки верхнего уровня
	Payload  *MessagePart `json:"payload,omitempty"`   // Корень дерева MIME-частей
}

// Header возвращает значение заголовка по точному совпадению имени
// Второе значение — найден ли заголовок
func (m *Message) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// MessageRef — краткая ссылка на письмо из списка
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// EmailDetails — результат чтения письма
type EmailDetails struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Body    string `json:"body"` // Текст письма и текст вложений
}

// ExtractedContent — накопитель текста при обходе дерева частей
// Принадлежит одному запросу и не разделяется между горутинами
type ExtractedContent struct {
	BodyText       string // Текст письма
	AttachmentText string // Текст всех вложений по порядку
}

// Text возвращает итоговый текст: сначала тело, затем вложения
func (c *ExtractedContent) Text() string {
	return c.BodyText + c.AttachmentText
}
