package tests

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "logs", "http.log")

	l, err := logger.New(logger.Config{File: logPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("test message")
	_ = l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// пример: 11:57:16 16.01.2026
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Console: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.LogRequest("POST", "/api/projects", 401, 20, 158.5463)
	_ = l.Sync()

	s := buf.String()
	for _, sub := range []string{
		"HTTP request",
		"method", "POST",
		"uri", "/api/projects",
		"status", "401",
		"response_size", "20",
		"duration_ms",
	} {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestHTTPLogger_LogUpstream_LevelsByOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(logger.Config{Level: "info", Console: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// успешный вызов логируется на debug и при level=info не пишется
	l.LogUpstream("GET", "/projects", "rid-1", 200, time.Millisecond, nil)
	l.LogUpstream("DELETE", "/p1/3", "rid-2", 404, time.Millisecond, errors.New("Project not found"))
	l.LogUpstream("GET", "/projects", "rid-3", 0, time.Second, errors.New("timeout"))
	_ = l.Sync()

	s := buf.String()
	if regexp.MustCompile(`rid-1`).MatchString(s) {
		t.Fatalf("debug record must be filtered at info level: %q", s)
	}
	for _, sub := range []string{"upstream rejected request", "rid-2", "upstream request failed", "rid-3", "warn"} {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := logger.New(logger.Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_NoOutputs_IsNop(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// не должно паниковать
	l.LogRequest("GET", "/", 200, 0, 0)
	logger.NewNop().Info("ignored")
}
