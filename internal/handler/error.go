package handler

// ErrorResponse — формат ответа с ошибкой
// Вход, список и чтение писем возвращают Message, удаление — Error
type ErrorResponse struct {
	Success bool   `json:"success"`           // Всегда false
	Message string `json:"message,omitempty"` // Сообщение об ошибке
	Error   string `json:"error,omitempty"`   // Сообщение об ошибке (удаление)
	AuthURL string `json:"authUrl,omitempty"` // Куда отправить пользователя за новыми правами
}

// Тексты ошибок API
const (
	msgLoginFailed       = "Login or Gmail access failed"
	msgFetchFailed       = "Failed to fetch emails"
	msgReadFailed        = "Failed to read email"
	msgInvalidPayload    = "Invalid email payload"
	msgMissingParameters = "Missing parameters"
	msgDeleteFailed      = "Failed to delete email"
	msgPermissionDenied  = "Permission denied - needs reauthentication"
)

// reauthURL — адрес повторной авторизации с правом gmail.modify
const reauthURL = "/auth/google?scopes=gmail.modify"
