// Package config отвечает за:
// - чтение dashboard.yaml
// - подстановку переменных окружения вида ${GATEWAY_API_KEY}
// - проставление дефолтов
// - валидацию (чтобы сервер и CLI не стартовали с дырявыми настройками)
// - выбор источника приватного ключа для подписи утверждений
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/gateway"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

// Config — корневая структура всего конфига дашборда.
type Config struct {
	Env       string          `yaml:"env"` // dev|stage|prod
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Assertion AssertionConfig `yaml:"assertion"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig — настройки HTTP-сервера дашборда.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// BackendConfig — внутреннее API прокси-бэкенда.
type BackendConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"` // может содержать ${GATEWAY_API_KEY}
	Timeout           time.Duration `yaml:"timeout"`
	MaxErrorBodyBytes int64         `yaml:"max_error_body_bytes"`
}

// AssertionConfig — параметры выпуска подписанных утверждений.
//
// Источник ключа задаётся ровно одним из полей private_key, private_key_env, private_key_file.
type AssertionConfig struct {
	Issuer         string        `yaml:"issuer"`
	Audience       string        `yaml:"audience"`
	TTL            time.Duration `yaml:"ttl"`
	KeyID          string        `yaml:"key_id"`
	PrivateKey     string        `yaml:"private_key"`      // PEM прямо строкой
	PrivateKeyEnv  string        `yaml:"private_key_env"`  // имя переменной окружения с PEM
	PrivateKeyFile string        `yaml:"private_key_file"` // путь к PEM-файлу
}

// SessionConfig — проверка сессионного JWT пользователя дашборда.
type SessionConfig struct {
	SigningKey string `yaml:"signing_key"` // HS256, может содержать ${SESSION_SIGNING_KEY}
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience"`
	CookieName string `yaml:"cookie_name"`
}

// LogConfig — настройки логирования (zap + lumberjack).
type LogConfig struct {
	Level      string `yaml:"level"` // debug|info|warn|error
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты, применяет переопределения
// из окружения и валидирует общую часть (backend, assertion, log).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}
	return Parse(raw)
}

// Parse делает то же, что Load, но для уже прочитанного содержимого.
func Parse(raw []byte) (*Config, error) {
	// api_key: "${GATEWAY_API_KEY}" -> api_key: "реальное_значение"
	expanded := ExpandEnvStrict(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envRe = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана — оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := envRe.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = gateway.DefaultTimeout
	}
	if cfg.Assertion.Issuer == "" {
		cfg.Assertion.Issuer = assertion.DefaultIssuer
	}
	if cfg.Assertion.Audience == "" {
		cfg.Assertion.Audience = assertion.DefaultAudience
	}
	if cfg.Assertion.TTL == 0 {
		cfg.Assertion.TTL = assertion.DefaultTTL
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "dashboard_session"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = logger.DefaultFile
	}
}

// Validate проверяет то, что нужно и серверу, и CLI: бэкенд, параметры
// утверждений и источник ключа. Если что-то не так — возвращаем ошибку.
func (c *Config) Validate() error {
	// Бэкенд
	base := strings.TrimSpace(c.Backend.BaseURL)
	if base == "" {
		return errors.New("backend.base_url обязателен")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("backend.base_url должен начинаться с http:// или https:// (сейчас %q)", base)
	}
	if unresolved(c.Backend.APIKey) {
		return fmt.Errorf("backend.api_key содержит неподставленную переменную: %q (нужно задать GATEWAY_API_KEY)", c.Backend.APIKey)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout не может быть отрицательным: %s", c.Backend.Timeout)
	}

	// Утверждения
	if c.Assertion.TTL < 0 {
		return fmt.Errorf("assertion.ttl не может быть отрицательным: %s", c.Assertion.TTL)
	}
	if c.Assertion.TTL%time.Second != 0 {
		return fmt.Errorf("assertion.ttl должен быть целым числом секунд (сейчас %s)", c.Assertion.TTL)
	}
	if c.Assertion.TTL > time.Hour {
		return fmt.Errorf("assertion.ttl слишком большой (%s); утверждения должны быть короткоживущими", c.Assertion.TTL)
	}
	if _, err := c.KeyProvider(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level должен быть debug|info|warn|error (сейчас %q)", c.Log.Level)
	}
	return nil
}

// ValidateServer — дополнительные проверки для HTTP-сервера дашборда.
func (c *Config) ValidateServer() error {
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Backend.APIKey) == "" {
		return errors.New("backend.api_key обязателен (через ${GATEWAY_API_KEY} или прямо строкой)")
	}

	key := strings.TrimSpace(c.Session.SigningKey)
	if key == "" {
		return errors.New("session.signing_key обязателен (через ${SESSION_SIGNING_KEY} или прямо строкой)")
	}
	// Если ${SESSION_SIGNING_KEY} не подставился — значит переменная окружения не задана
	if unresolved(key) {
		return fmt.Errorf("session.signing_key содержит неподставленную переменную: %q (нужно задать SESSION_SIGNING_KEY)", key)
	}
	// Для HS256 ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("session.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	return nil
}

// KeyProvider возвращает источник приватного ключа утверждений.
//
// Должен быть задан ровно один из private_key, private_key_env, private_key_file;
// неявного пути по умолчанию нет.
func (c *Config) KeyProvider() (assertion.KeyProvider, error) {
	a := c.Assertion
	var (
		providers []assertion.KeyProvider
		names     []string
	)
	if strings.TrimSpace(a.PrivateKey) != "" {
		if unresolved(a.PrivateKey) {
			return nil, fmt.Errorf("assertion.private_key содержит неподставленную переменную: %q", a.PrivateKey)
		}
		providers = append(providers, assertion.PEMKey(a.PrivateKey))
		names = append(names, "private_key")
	}
	if strings.TrimSpace(a.PrivateKeyEnv) != "" {
		providers = append(providers, assertion.EnvKey(strings.TrimSpace(a.PrivateKeyEnv)))
		names = append(names, "private_key_env")
	}
	if strings.TrimSpace(a.PrivateKeyFile) != "" {
		providers = append(providers, assertion.FileKey(strings.TrimSpace(a.PrivateKeyFile)))
		names = append(names, "private_key_file")
	}

	switch len(providers) {
	case 0:
		return nil, errors.New("assertion: нужно задать один из private_key, private_key_env, private_key_file")
	case 1:
		return providers[0], nil
	default:
		return nil, fmt.Errorf("assertion: источник ключа должен быть один, заданы: %s", strings.Join(names, ", "))
	}
}

// SignerConfig переводит секцию assertion в assertion.Config.
func (c *Config) SignerConfig() assertion.Config {
	return assertion.Config{
		Issuer:   c.Assertion.Issuer,
		Audience: c.Assertion.Audience,
		TTL:      c.Assertion.TTL,
		KeyID:    c.Assertion.KeyID,
	}
}

// ClientConfig переводит секцию backend в gateway.Config.
func (c *Config) ClientConfig() gateway.Config {
	return gateway.Config{
		BaseURL:           c.Backend.BaseURL,
		APIKey:            c.Backend.APIKey,
		Timeout:           c.Backend.Timeout,
		MaxErrorBodyBytes: c.Backend.MaxErrorBodyBytes,
	}
}

// LoggerConfig переводит секцию log в logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Console:    c.Log.Console,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

// ApplyEnvOverrides даёт возможность переопределять некоторые настройки
// через переменные окружения без ${...} в yaml.
// Например SERVER_PORT=9090 переопределит server.port.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" && strings.TrimSpace(c.Backend.APIKey) == "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Backend.Timeout = d
		}
	}
}

func unresolved(s string) bool {
	return strings.Contains(s, "${") && strings.Contains(s, "}")
}
