package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config - параметры подключения к Fluent Bit
type Config struct {
	Host      string // "127.0.0.1" или "fluent-bit" внутри docker-сети
	Port      int    // обычно 24224
	TagPrefix string // префикс тегов, как правило имя сервиса
	Timeout   time.Duration
}

// NewClient создает клиента Fluent Bit. Соединение устанавливается асинхронно,
// поэтому недоступность агента не мешает старту сервиса.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Timeout:    cfg.Timeout,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return client, nil
}
