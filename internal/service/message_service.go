package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

// Значения по умолчанию для отсутствующих заголовков
const (
	DefaultSubject = "No Subject"
	DefaultFrom    = "Unknown Sender"
)

// MessageService — сервис для работы с письмами пользователя
type MessageService struct {
	mailboxes MailboxProvider
	decoder   AttachmentDecoder
	gmail     config.GmailConfig
	limits    config.LimitsConfig
	stats     *Stats
	log       *zap.SugaredLogger
}

// NewMessageService создаёт новый сервис
func NewMessageService(
	mailboxes MailboxProvider,
	decoder AttachmentDecoder,
	gmailCfg config.GmailConfig,
	limits config.LimitsConfig,
	stats *Stats,
	log *zap.SugaredLogger,
) *MessageService {
	return &MessageService{
		mailboxes: mailboxes,
		decoder:   decoder,
		gmail:     gmailCfg,
		limits:    limits,
		stats:     stats,
		log:       log,
	}
}

// List возвращает первую страницу писем
func (s *MessageService) List(ctx context.Context, accessToken string) ([]domain.MessageRef, error) {
	if accessToken == "" {
		return nil, domain.ErrMissingParameters
	}

	mailbox, err := s.mailboxes.Mailbox(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	refs, err := mailbox.ListMessages(ctx, s.gmail.ListPageSize)
	if err != nil {
		return nil, fmt.Errorf("список писем: %w", err)
	}

	s.stats.IncrementListed()
	return refs, nil
}

// GetDetails загружает письмо, извлекает текст тела и вложений
// и снимает с письма метку UNREAD
func (s *MessageService) GetDetails(ctx context.Context, accessToken, messageID string) (*domain.EmailDetails, error) {
	if accessToken == "" || messageID == "" {
		return nil, domain.ErrMissingParameters
	}

	mailbox, err := s.mailboxes.Mailbox(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg, err := mailbox.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("письмо %s: %w", messageID, err)
	}

	details, err := s.Assemble(ctx, mailbox, msg, messageID)
	if err != nil {
		return nil, err
	}

	// Ошибка снятия метки не влияет на ответ, только попадает в лог
	if err := mailbox.RemoveLabels(ctx, messageID, UnreadLabel); err != nil {
		s.stats.IncrementMarkReadFailures()
		s.log.Warnw("не удалось пометить письмо прочитанным",
			"message_id", messageID,
			"error", err,
		)
	}

	s.stats.IncrementRead()
	return details, nil
}

// Assemble собирает текст письма из дерева частей
// Вложения загружаются через mailbox по мере обхода
func (s *MessageService) Assemble(
	ctx context.Context,
	mailbox Mailbox,
	msg *domain.Message,
	messageID string,
) (*domain.EmailDetails, error) {
	payload := msg.Payload
	if payload == nil || (len(payload.Parts) == 0 && !payload.HasInlineData()) {
		return nil, domain.ErrMalformedMessage
	}

	acc := &domain.ExtractedContent{}
	w := &walker{
		ctx:               ctx,
		mailbox:           mailbox,
		decoder:           s.decoder,
		messageID:         messageID,
		limits:            s.limits,
		attachmentTimeout: s.gmail.AttachmentTimeout,
		stats:             s.stats,
		log:               s.log,
		acc:               acc,
	}

	// Письмо без частей обходим как одну часть
	parts := payload.Parts
	if len(parts) == 0 {
		parts = []domain.MessagePart{*payload}
	}
	w.walk(parts, 0)

	// Тело не нашлось в частях — берём встроенные данные как есть
	if acc.BodyText == "" && payload.HasInlineData() {
		acc.BodyText = partText(payload, s.log)
	}

	return &domain.EmailDetails{
		ID:      messageID,
		Subject: headerOr(msg, "Subject", DefaultSubject),
		From:    headerOr(msg, "From", DefaultFrom),
		Body:    acc.Text(),
	}, nil
}

// Delete безвозвратно удаляет письмо
func (s *MessageService) Delete(ctx context.Context, accessToken, messageID string) error {
	if accessToken == "" || messageID == "" {
		return domain.ErrMissingParameters
	}

	mailbox, err := s.mailboxes.Mailbox(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := mailbox.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("удаление %s: %w", messageID, err)
	}

	s.stats.IncrementDeleted()
	return nil
}

// headerOr возвращает заголовок или значение по умолчанию, если он пустой
func headerOr(msg *domain.Message, name, fallback string) string {
	if v, ok := msg.Header(name); ok && v != "" {
		return v
	}
	return fallback
}
