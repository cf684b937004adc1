package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/assertion"
)

// NewTokenCmd создаёт группу команд для отладки утверждений.
func NewTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпуск и разбор утверждений о пользователе",
	}
	cmd.AddCommand(newTokenSignCmd(app))
	cmd.AddCommand(newTokenInspectCmd())
	return cmd
}

// newTokenSignCmd печатает свежевыпущенное утверждение.
//
// Тело берётся из --body или --body-file ровно в том виде, в каком его
// отправил бы клиент; без них bod в токен не попадает.
func newTokenSignCmd(app *App) *cobra.Command {
	var (
		body     string
		bodyFile string
		header   bool
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Выпустить утверждение для пользователя",
		Example: `  dashboard token sign --subject github:42 --handle alice
  dashboard token sign --subject github:42 --handle alice --body '{"target":"https://example.com"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if body != "" && bodyFile != "" {
				return fmt.Errorf("use either --body or --body-file")
			}

			var raw []byte
			switch {
			case cmd.Flags().Changed("body"):
				raw = []byte(body)
			case bodyFile != "":
				b, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body file: %w", err)
				}
				raw = b
			}

			s, err := app.Signer()
			if err != nil {
				return err
			}

			out, err := s.Sign(app.Identity, raw)
			if err != nil {
				return err
			}
			if header {
				out = "Bearer " + out
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addIdentityFlags(cmd, app)
	cmd.Flags().StringVar(&body, "body", "", "exact request body bytes to bind")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "file with exact request body bytes to bind")
	cmd.Flags().BoolVar(&header, "header", false, "print as X-User-Assertion header value (Bearer prefix)")
	return cmd
}

// newTokenInspectCmd печатает header и payload без проверки подписи.
func newTokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Разобрать утверждение (подпись НЕ проверяется)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := assertion.Inspect(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"header":  insp.Header,
				"payload": insp.Claims,
			})
		},
	}
}
