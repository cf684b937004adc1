// Package logger содержит общий логгер для сервера дашборда и CLI.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack), опционально дублирующий вывод в stderr, и методы для
// логирования входящих HTTP-запросов и исходящих вызовов бэкенда.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Значения по умолчанию для ротации.
const (
	DefaultFile       = "runtime/logs/http.log"
	DefaultMaxSizeMB  = 100 // MB ≈ ~300 000 строк
	DefaultMaxBackups = 10
	DefaultMaxAgeDays = 30
)

// Config — параметры логгера.
type Config struct {
	// Level: debug|info|warn|error.
	Level string
	// File — путь к файлу логов; пустая строка отключает запись в файл.
	File string
	// Console дублирует логи в Stderr.
	Console bool
	// Stderr — куда писать при Console=true (по умолчанию os.Stderr).
	Stderr io.Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// New создаёт zap-логгер по конфигурации.
//
// Для файла включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func New(cfg Config) (*HTTPLogger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	var cores []zapcore.Core

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		// lumberjack отвечает за ротацию файлов
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}

	if cfg.Console {
		var out io.Writer = os.Stderr
		if cfg.Stderr != nil {
			out = cfg.Stderr
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(out), level))
	}

	if len(cores) == 0 {
		return NewNop(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &HTTPLogger{Logger: logger}, nil
}

// NewNop возвращает логгер, который ничего не пишет (тесты, CLI без --verbose).
func NewNop() *HTTPLogger {
	return &HTTPLogger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог о входящем HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// LogUpstream записывает лог об исходящем вызове внутреннего API.
//
// status == 0 означает, что ответ не получен (ошибка транспорта).
func (logger *HTTPLogger) LogUpstream(method, path, requestID string, status int, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
	}
	switch {
	case err != nil && status == 0:
		logger.Warn("upstream request failed", append(fields, zap.Error(err))...)
	case err != nil:
		logger.Info("upstream rejected request", append(fields, zap.Error(err))...)
	default:
		logger.Debug("upstream request", fields...)
	}
}

func parseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zap.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return l, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return l, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
