package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config — главная структура конфигурации приложения
// Все поля заполняются из переменных окружения
type Config struct {
	Server   ServerConfig   // Настройки HTTP-сервера
	Firebase FirebaseConfig // Настройки Firebase (проверка ID-токенов)
	Gmail    GmailConfig    // Настройки Gmail API
	Limits   LimitsConfig   // Лимиты
	Log      LogConfig      // Настройки логирования
}

// ServerConfig — настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"3000"`        // Порт HTTP сервера
	PublicDir       string        `envconfig:"PUBLIC_DIR" default:"public"`     // Каталог статических файлов
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"` // Время на корректную остановку
}

// FirebaseConfig — сервисные учётные данные Firebase
type FirebaseConfig struct {
	CredentialsFile string `envconfig:"FIREBASE_CREDENTIALS" default:"serviceAccountKey.json"` // JSON-ключ сервисного аккаунта
	ProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`                                    // ID проекта (необязательно)
}

// GmailConfig — настройки обращения к Gmail API
type GmailConfig struct {
	UserID            string        `envconfig:"GMAIL_USER_ID" default:"me"`              // Пользователь Gmail ("me" — владелец токена)
	LoginPreviewSize  int64         `envconfig:"GMAIL_LOGIN_PREVIEW" default:"3"`         // Сколько писем показать при входе
	ListPageSize      int64         `envconfig:"GMAIL_LIST_PAGE_SIZE" default:"5"`        // Размер страницы списка писем
	RequestTimeout    time.Duration `envconfig:"GMAIL_REQUEST_TIMEOUT" default:"30s"`     // Таймаут запроса к Gmail
	AttachmentTimeout time.Duration `envconfig:"GMAIL_ATTACHMENT_TIMEOUT" default:"30s"` // Таймаут загрузки одного вложения
}

// LimitsConfig — лимиты и ограничения
type LimitsConfig struct {
	AttachmentText    int   `envconfig:"LIMIT_ATTACHMENT_TEXT" default:"15000"`        // Макс. длина текста вложения в ответе (символы)
	MaxAttachmentSize int64 `envconfig:"LIMIT_MAX_ATTACHMENT_SIZE" default:"26214400"` // Макс. размер вложения для загрузки (25 MB)
	MaxPartDepth      int   `envconfig:"LIMIT_MAX_PART_DEPTH" default:"64"`            // Макс. глубина вложенности MIME-частей
}

// LogConfig — настройки логирования
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`         // Уровень логирования (debug, info, warn, error)
	Development bool   `envconfig:"LOG_DEVELOPMENT" default:"false"` // Человекочитаемый вывод вместо JSON
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается прочитать файл .env, затем читает переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл
	// Если файла нет — не страшно, будем читать из системных переменных
	_ = godotenv.Load()

	var cfg Config

	// Заполняем структуру из переменных окружения
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
