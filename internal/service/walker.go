package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"go.uber.org/zap"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

// tagPattern — всё от "<" до ближайшего ">" (или одиночный "<")
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// walker обходит дерево MIME-частей одного письма
// Обход в глубину, сверху вниз, строго последовательно: порядок текста важен
type walker struct {
	ctx               context.Context
	mailbox           Mailbox
	decoder           AttachmentDecoder
	messageID         string
	limits            config.LimitsConfig
	attachmentTimeout time.Duration
	stats             *Stats
	log               *zap.SugaredLogger
	acc               *domain.ExtractedContent // Накопитель текста
}

// walk обрабатывает части по порядку
func (w *walker) walk(parts []domain.MessagePart, depth int) {
	if w.limits.MaxPartDepth > 0 && depth > w.limits.MaxPartDepth {
		w.log.Warnw("слишком глубокая вложенность частей, пропускаем",
			"message_id", w.messageID,
			"depth", depth,
		)
		return
	}

	for i := range parts {
		part := &parts[i]

		switch {
		case part.MimeType == "text/plain" && part.HasInlineData():
			w.acc.BodyText += partText(part, w.log)

		// HTML используется, только если к моменту посещения тело ещё пустое
		case part.MimeType == "text/html" && part.HasInlineData() && w.acc.BodyText == "":
			w.acc.BodyText += stripTags(partText(part, w.log))

		case strings.HasPrefix(part.MimeType, "multipart/") && len(part.Parts) > 0:
			w.walk(part.Parts, depth+1)

		case part.Filename != "" && part.AttachmentID() != "":
			w.acc.AttachmentText += w.attachment(part)
		}
	}
}

// attachment загружает вложение, извлекает текст и форматирует блок для ответа
// Ошибки не прерывают обход, а превращаются в текстовый маркер
func (w *walker) attachment(part *domain.MessagePart) string {
	name := part.Filename

	if limit := w.limits.MaxAttachmentSize; limit > 0 && part.Body.Size > limit {
		w.log.Infow("вложение слишком большое, не загружаем",
			"message_id", w.messageID,
			"filename", name,
			"size", part.Body.Size,
		)
		return tooLargeBlock(name)
	}

	data, err := w.fetch(part.AttachmentID())
	if err != nil {
		w.stats.AddAttachment(true)
		w.log.Warnw("ошибка загрузки вложения",
			"message_id", w.messageID,
			"filename", name,
			"error", fmt.Errorf("%w: %v", domain.ErrAttachmentFetchFailed, err),
		)
		return formatAttachment(name, fmt.Sprintf("[Failed to fetch attachment %s: %v]", name, err), w.limits.AttachmentText)
	}

	decoded := w.decoder.Decode(name, data)
	switch decoded.Kind {
	case domain.AttachmentFailed:
		w.stats.AddAttachment(true)
		w.log.Warnw("ошибка разбора вложения",
			"message_id", w.messageID,
			"filename", name,
			"error", fmt.Errorf("%w: %s", domain.ErrAttachmentDecodeFailed, decoded.Reason),
		)
	case domain.AttachmentText:
		w.stats.AddAttachment(false)
	}

	return formatAttachment(name, decoded.Content(), w.limits.AttachmentText)
}

// fetch загружает данные вложения с отдельным таймаутом
func (w *walker) fetch(attachmentID string) ([]byte, error) {
	ctx := w.ctx
	if w.attachmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.attachmentTimeout)
		defer cancel()
	}

	return w.mailbox.GetAttachment(ctx, w.messageID, attachmentID)
}

// formatAttachment оформляет блок вложения
// Текст короче limit символов включается целиком, иначе — только пометка
// Пустой текст ничего не добавляет
func formatAttachment(filename, text string, limit int) string {
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) >= limit {
		return tooLargeBlock(filename)
	}
	return fmt.Sprintf("\n\n[Attachment: %s]\n%s", filename, text)
}

func tooLargeBlock(filename string) string {
	return fmt.Sprintf("\n\n[Attachment: %s] (Too large to include)", filename)
}

// stripTags удаляет HTML-теги простой заменой по регулярному выражению
func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}

// partText возвращает текст части в UTF-8
// Части с другой кодировкой из Content-Type перекодируются
func partText(part *domain.MessagePart, log *zap.SugaredLogger) string {
	data := part.Body.Data

	cs := part.Charset()
	if cs == "" || strings.EqualFold(cs, "utf-8") || strings.EqualFold(cs, "us-ascii") {
		return string(data)
	}

	r, err := charset.Reader(cs, bytes.NewReader(data))
	if err != nil {
		log.Debugw("неизвестная кодировка, используем UTF-8", "charset", cs, "error", err)
		return string(data)
	}

	converted, err := io.ReadAll(r)
	if err != nil {
		log.Debugw("ошибка перекодирования, используем UTF-8", "charset", cs, "error", err)
		return string(data)
	}

	return string(converted)
}
