// Package logger настраивает структурированное логирование
package logger

import (
	"fmt"

	"go.uber.org/zap"

	"gmailreader/internal/config"
)

// New создаёт логгер по настройкам
// В режиме разработки — цветной консольный вывод, иначе JSON
func New(cfg config.LogConfig) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("неверный уровень логирования %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	log, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
