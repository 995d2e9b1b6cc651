package service

import (
	"context"

	"gmailreader/internal/domain"
)

// UnreadLabel — метка непрочитанного письма
const UnreadLabel = "UNREAD"

// Mailbox — почтовый ящик пользователя у провайдера
// Экземпляр привязан к одному токену доступа и живёт в пределах запроса
type Mailbox interface {
	ListMessages(ctx context.Context, maxResults int64) ([]domain.MessageRef, error)
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
	RemoveLabels(ctx context.Context, messageID string, labels ...string) error
	DeleteMessage(ctx context.Context, id string) error
}

// MailboxProvider открывает ящик по OAuth-токену пользователя
type MailboxProvider interface {
	Mailbox(ctx context.Context, accessToken string) (Mailbox, error)
}

// AttachmentDecoder извлекает текст из вложения
type AttachmentDecoder interface {
	Decode(filename string, data []byte) domain.DecodedAttachment
}

// IdentityVerifier проверяет ID-токен поставщика удостоверений
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Identity, error)
}
