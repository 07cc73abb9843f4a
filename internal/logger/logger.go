package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init инициализирует глобальный логгер.
// env: "development" - текст и debug, иначе JSON
func Init(env string) {
	initWithWriter(env, os.Stdout)
}

func initWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// DBLog - служебные операции с базой (миграции, сиды)
func DBLog(operation, target string, duration time.Duration, err error) {
	fields := []any{
		"operation", operation,
		"target", target,
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil {
		GetLogger().Error("database operation failed", append(fields, "error", err.Error())...)
		return
	}
	GetLogger().Info("database operation", fields...)
}

// MailLog логирует отправку письма
func MailLog(template string, recipients []string, err error) {
	fields := []any{
		"template", template,
		"recipients", recipients,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("mail delivery failed", fields...)
	} else {
		GetLogger().Info("mail sent", fields...)
	}
}
