package config

import (
	"os"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 프로세스 전역 로거다. InitLogger 전에는 info 레벨로 동작한다.
var Logger = NewLogger("info")

func InitLogger(cfg LoggingConfig) {
	Logger = NewLogger(cfg.Level)
}

// NewLogger 는 stdout JSON 로거를 만든다.
// 기본 필드는 datetime, level, message 뿐이고 나머지는 Fields 로 최상위 키에 붙는다.
func NewLogger(level string) *slog.Logger {
	h := handler.NewConsoleHandler(levelsUpTo(level))
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.TimeFormat = "2006-01-02T15:04:05"
		f.Fields = []string{slog.FieldKeyDatetime, slog.FieldKeyLevel, slog.FieldKeyMessage}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
	}))
	return slog.NewWithHandlers(h)
}

// levelsUpTo 는 name 레벨과 그보다 심각한 레벨 목록이다. 빈 이름은 info 로 본다.
func levelsUpTo(name string) slog.Levels {
	if name == "" {
		name = "info"
	}
	limit := slog.LevelByName(name)
	out := make(slog.Levels, 0, len(slog.AllLevels))
	for _, lv := range slog.AllLevels {
		if lv <= limit {
			out = append(out, lv)
		}
	}
	return out
}

type Fields map[string]any

func InfoWithFields(msg string, fields Fields) { logFields(slog.InfoLevel, msg, fields) }

func WarnWithFields(msg string, fields Fields) { logFields(slog.WarnLevel, msg, fields) }

func ErrorWithFields(msg string, fields Fields) { logFields(slog.ErrorLevel, msg, fields) }

// logFields 는 SERVICE_NAME 이 있으면 service_name 필드를 채워 넣는다(호출자가 준 값이 우선).
func logFields(level slog.Level, msg string, fields Fields) {
	m := make(slog.M, len(fields)+1)
	if sn := os.Getenv("SERVICE_NAME"); sn != "" {
		m["service_name"] = sn
	}
	for k, v := range fields {
		m[k] = v
	}
	r := Logger.WithFields(m)
	switch level {
	case slog.ErrorLevel:
		r.Error(msg)
	case slog.WarnLevel:
		r.Warn(msg)
	default:
		r.Info(msg)
	}
}
