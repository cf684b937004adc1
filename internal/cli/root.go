// Package cli реализует командный интерфейс (CLI) оператора дашборда прокси-шлюза.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку конфигурации и сборку Signer и клиента внутреннего API;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/config"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/gateway"
	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/logger"
)

// DefaultConfigPath — путь к конфигу, если не задан --config и DASHBOARD_CONFIG.
const DefaultConfigPath = "./configs/dashboard.yaml"

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// Конфиг, Signer и клиент создаются лениво: команды version, keygen и
// token inspect работают без конфига.
type App struct {
	// ConfigPath — путь к dashboard.yaml.
	ConfigPath string
	// Verbose включает лог вызовов бэкенда в stderr.
	Verbose bool
	// Identity — пользователь, от имени которого выпускаются утверждения.
	Identity assertion.UserAssertionClaims

	cfg    *config.Config
	signer *assertion.Signer
	client *gateway.Client
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard CLI — управление прокси-проектами через внутреннее API",
		Long: `Dashboard CLI.

Каждый вызов внутреннего API подписывается свежим утверждением о пользователе
(X-User-Assertion) и сопровождается API-ключом дашборда (X-API-KEY).

Команды:
  projects  Список, создание, статус, обновление и удаление проектов
  token     Выпустить или разобрать утверждение
  keygen    Сгенерировать пару RSA-ключей для подписи
  version   Версия и дата сборки

Примеры:
  dashboard projects list --subject github:42 --handle alice
  dashboard projects status p1 p2 p3 --subject github:42 --handle alice
  dashboard token sign --subject github:42 --handle alice --body '{"target":"https://example.com"}'
  dashboard keygen --out ./keys
`,
		SilenceUsage: true,
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	defaultPath := DefaultConfigPath
	if v := os.Getenv("DASHBOARD_CONFIG"); v != "" {
		defaultPath = v
	}
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", defaultPath, "path to dashboard.yaml")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "log backend calls to stderr")

	cmd.AddCommand(NewProjectsCmd(app))
	cmd.AddCommand(NewTokenCmd(app))
	cmd.AddCommand(NewKeygenCmd())
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// addIdentityFlags регистрирует флаги личности пользователя.
func addIdentityFlags(cmd *cobra.Command, app *App) {
	f := cmd.PersistentFlags()
	f.StringVar(&app.Identity.Subject, "subject", os.Getenv("DASHBOARD_SUBJECT"), "user subject, e.g. github:42")
	f.StringVar(&app.Identity.Handle, "handle", os.Getenv("DASHBOARD_HANDLE"), "user handle")
	f.StringVar(&app.Identity.Email, "email", "", "user email")
	f.StringSliceVar(&app.Identity.Roles, "role", nil, "user role (repeatable)")
	f.StringSliceVar(&app.Identity.Teams, "team", nil, "team id (repeatable)")
}

// Config загружает конфиг один раз.
func (a *App) Config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// Signer собирает Signer из конфига; ключ читается один раз.
func (a *App) Signer() (*assertion.Signer, error) {
	if a.signer != nil {
		return a.signer, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	kp, err := cfg.KeyProvider()
	if err != nil {
		return nil, err
	}
	s, err := assertion.NewSigner(kp, cfg.SignerConfig())
	if err != nil {
		return nil, err
	}
	a.signer = s
	return s, nil
}

// Client собирает клиент внутреннего API.
//
// Если API-ключ не задан ни в конфиге, ни в GATEWAY_API_KEY, он запрашивается
// интерактивно (только когда stdin — терминал).
func (a *App) Client(cmd *cobra.Command) (*gateway.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	signer, err := a.Signer()
	if err != nil {
		return nil, err
	}

	clientCfg := cfg.ClientConfig()
	if strings.TrimSpace(clientCfg.APIKey) == "" {
		key, err := ReadAPIKey(cmd)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}

	log := zap.NewNop()
	if a.Verbose {
		l, err := logger.New(logger.Config{Level: "debug", Console: true, Stderr: cmd.ErrOrStderr()})
		if err != nil {
			return nil, err
		}
		log = l.Logger
	}

	c, err := NewGatewayClient(clientCfg, signer, log)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// describeError добавляет к ошибке подсказку для оператора.
func describeError(err error) string {
	var be *serr.BackendError
	switch {
	case serr.IsUnauthorized(err):
		return fmt.Sprintf("%v\nhint: the backend rejected the identity; check --subject/--handle, the API key and the signing key", err)
	case errors.As(err, &be) && len(be.Body.Suggestions) > 0:
		return fmt.Sprintf("%v\nsuggestions:\n  - %s", err, strings.Join(be.Body.Suggestions, "\n  - "))
	case serr.IsTimeout(err):
		return fmt.Sprintf("%v\nhint: the backend did not answer in time; see backend.timeout", err)
	default:
		return err.Error()
	}
}
