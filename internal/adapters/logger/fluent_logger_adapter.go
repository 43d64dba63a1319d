package logger_adapter

import (
	"fmt"
	"listings-service/internal/core/port"
	"log/slog"
	"time"
)

// fluentPoster - часть *fluent.Fluent, которая нужна адаптеру
type fluentPoster interface {
	Post(tag string, message interface{}) error
}

// FluentLoggerAdapter отправляет записи в Fluent Bit. Тег записи - уровень,
// префикс тега (имя сервиса) задается в самом клиенте.
type FluentLoggerAdapter struct {
	client   fluentPoster
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client fluentPoster, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &FluentLoggerAdapter{client: client, fields: port.Fields{}, minLevel: level}, nil
}

func (a *FluentLoggerAdapter) record(level slog.Level, tag, msg string, err error, fields port.Fields) {
	if level < a.minLevel {
		return
	}
	data := make(map[string]interface{}, len(a.fields)+len(fields)+4)
	for k, v := range a.fields {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}
	if err != nil {
		data["error"] = err.Error()
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	// Ошибку отправки некуда писать, кроме как потерять запись
	_ = a.client.Post(tag, data)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.record(slog.LevelDebug, "debug", msg, nil, fields)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.record(slog.LevelInfo, "info", msg, nil, fields)
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.record(slog.LevelWarn, "warn", msg, nil, fields)
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	a.record(slog.LevelError, "error", msg, err, fields)
}

func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	merged := make(port.Fields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FluentLoggerAdapter{client: a.client, fields: merged, minLevel: a.minLevel}
}
