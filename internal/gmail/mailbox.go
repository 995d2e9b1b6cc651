package gmail

import (
	"context"
	"encoding/base64"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"

	"gmailreader/internal/domain"
)

// mailbox — ящик Gmail одного пользователя
type mailbox struct {
	client *Client
	svc    *gmailapi.Service
}

// withTimeout ограничивает время одного запроса к API
func (m *mailbox) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.client.cfg.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.client.cfg.RequestTimeout)
}

// ListMessages возвращает ссылки на последние письма
func (m *mailbox) ListMessages(ctx context.Context, maxResults int64) ([]domain.MessageRef, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var resp *gmailapi.ListMessagesResponse
	err := m.client.execute("ListMessages", func() error {
		var apiErr error
		resp, apiErr = m.svc.Users.Messages.List(m.client.cfg.UserID).
			MaxResults(maxResults).
			Context(ctx).
			Do()
		return apiErr
	})
	if err != nil {
		return nil, wrapError(err, "список писем")
	}

	// Пустой ящик — пустой список, а не nil
	refs := make([]domain.MessageRef, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		refs = append(refs, domain.MessageRef{ID: msg.Id, ThreadID: msg.ThreadId})
	}

	return refs, nil
}

// GetMessage загружает письмо целиком (format=full)
func (m *mailbox) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var msg *gmailapi.Message
	err := m.client.execute("GetMessage", func() error {
		var apiErr error
		msg, apiErr = m.svc.Users.Messages.Get(m.client.cfg.UserID, id).
			Format("full").
			Context(ctx).
			Do()
		return apiErr
	})
	if err != nil {
		return nil, wrapError(err, "получение письма")
	}

	return m.convertMessage(msg), nil
}

// GetAttachment загружает данные вложения
func (m *mailbox) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var body *gmailapi.MessagePartBody
	err := m.client.execute("GetAttachment", func() error {
		var apiErr error
		body, apiErr = m.svc.Users.Messages.Attachments.Get(m.client.cfg.UserID, messageID, attachmentID).
			Context(ctx).
			Do()
		return apiErr
	})
	if err != nil {
		return nil, wrapError(err, "получение вложения")
	}

	return decodeData(body.Data)
}

// RemoveLabels снимает метки с письма
// Снятие отсутствующей метки не считается ошибкой
func (m *mailbox) RemoveLabels(ctx context.Context, messageID string, labels ...string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	req := &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: labels,
	}

	err := m.client.execute("ModifyMessage", func() error {
		_, apiErr := m.svc.Users.Messages.Modify(m.client.cfg.UserID, messageID, req).
			Context(ctx).
			Do()
		return apiErr
	})
	return wrapError(err, "изменение меток")
}

// DeleteMessage безвозвратно удаляет письмо (минуя корзину)
func (m *mailbox) DeleteMessage(ctx context.Context, id string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	err := m.client.execute("DeleteMessage", func() error {
		return m.svc.Users.Messages.Delete(m.client.cfg.UserID, id).
			Context(ctx).
			Do()
	})
	return wrapError(err, "удаление письма")
}

// convertMessage переводит письмо Gmail в модель предметной области
func (m *mailbox) convertMessage(msg *gmailapi.Message) *domain.Message {
	result := &domain.Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		LabelIDs: msg.LabelIds,
		Snippet:  msg.Snippet,
	}

	if msg.Payload != nil {
		payload := m.convertPart(msg.Payload)
		result.Payload = &payload
		result.Headers = payload.Headers
	}

	return result
}

// convertPart рекурсивно переводит часть письма и всех её потомков
func (m *mailbox) convertPart(part *gmailapi.MessagePart) domain.MessagePart {
	result := domain.MessagePart{
		PartID:   part.PartId,
		MimeType: part.MimeType,
		Filename: part.Filename,
	}

	for _, h := range part.Headers {
		result.Headers = append(result.Headers, domain.Header{Name: h.Name, Value: h.Value})
	}

	if part.Body != nil {
		body := &domain.PartBody{
			Size:         part.Body.Size,
			AttachmentID: part.Body.AttachmentId,
		}
		if part.Body.Data != "" {
			data, err := decodeData(part.Body.Data)
			if err != nil {
				// Обрезанные данные не отдаём: часть считается пустой
				m.client.log.Warnw("не удалось декодировать часть письма, часть пропущена",
					"part_id", part.PartId,
					"mime_type", part.MimeType,
					"error", err,
				)
				data = nil
			}
			body.Data = data
		}
		result.Body = body
	}

	for _, child := range part.Parts {
		if child == nil {
			continue
		}
		result.Parts = append(result.Parts, m.convertPart(child))
	}

	return result
}

// decodeData декодирует base64 из ответа Gmail
// Принимает и URL-безопасный, и стандартный алфавит, с выравниванием и без
func decodeData(data string) ([]byte, error) {
	normalized := strings.NewReplacer("+", "-", "/", "_").Replace(data)
	normalized = strings.TrimRight(normalized, "=")
	return base64.RawURLEncoding.DecodeString(normalized)
}
