package service

import (
	"sync"
	"time"
)

// Stats хранит статистику работы сервиса
type Stats struct {
	mu                 sync.RWMutex // Мьютекс для безопасного доступа
	Logins             int64        // Успешных входов
	MessagesListed     int64        // Запросов списка писем
	MessagesRead       int64        // Прочитано писем
	MessagesDeleted    int64        // Удалено писем
	AttachmentsDecoded int64        // Вложений, из которых извлечён текст
	AttachmentFailures int64        // Вложений, которые не удалось загрузить или разобрать
	MarkReadFailures   int64        // Неудачных снятий метки UNREAD
	StartedAt          time.Time    // Время запуска
}

// NewStats создаёт пустую статистику
func NewStats() *Stats {
	return &Stats{StartedAt: time.Now()}
}

// IncrementLogins увеличивает счётчик входов
func (s *Stats) IncrementLogins() {
	s.mu.Lock()         // Блокируем для записи
	defer s.mu.Unlock() // Разблокируем при выходе
	s.Logins++
}

// IncrementListed увеличивает счётчик запросов списка
func (s *Stats) IncrementListed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MessagesListed++
}

// IncrementRead увеличивает счётчик прочитанных писем
func (s *Stats) IncrementRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MessagesRead++
}

// IncrementDeleted увеличивает счётчик удалённых писем
func (s *Stats) IncrementDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MessagesDeleted++
}

// AddAttachment учитывает обработанное вложение
func (s *Stats) AddAttachment(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if failed {
		s.AttachmentFailures++
		return
	}
	s.AttachmentsDecoded++
}

// IncrementMarkReadFailures увеличивает счётчик ошибок снятия метки
func (s *Stats) IncrementMarkReadFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkReadFailures++
}

// GetStats возвращает копию статистики
func (s *Stats) GetStats() Stats {
	s.mu.RLock()         // Блокируем для чтения
	defer s.mu.RUnlock() // Разблокируем при выходе
	return Stats{
		Logins:             s.Logins,
		MessagesListed:     s.MessagesListed,
		MessagesRead:       s.MessagesRead,
		MessagesDeleted:    s.MessagesDeleted,
		AttachmentsDecoded: s.AttachmentsDecoded,
		AttachmentFailures: s.AttachmentFailures,
		MarkReadFailures:   s.MarkReadFailures,
		StartedAt:          s.StartedAt,
	}
}
