package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/models"
)

// statusConcurrency — сколько запросов статуса выполняется одновременно.
const statusConcurrency = 4

// NewProjectsCmd создаёт группу команд для работы с прокси-проектами.
//
// Все подкоманды обращаются во внутреннее API от имени пользователя,
// заданного флагами --subject/--handle (и опционально --email/--role/--team).
func NewProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Управление прокси-проектами",
	}
	addIdentityFlags(cmd, app)

	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsStatusCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var params models.ListProjectsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список проектов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client(cmd)
			if err != nil {
				return err
			}
			list, err := c.ListProjects(cmd.Context(), app.Identity, params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&params.Search, "search", "", "search string")
	cmd.Flags().StringVar(&params.TeamID, "team-id", "", "filter by team")
	return cmd
}

// projectFlags — поля ProjectConfig, задаваемые флагами или файлом.
type projectFlags struct {
	file   string
	name   string
	target string
	teamID string
	rpm    int
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read project config JSON from file ('-' for stdin)")
	cmd.Flags().StringVar(&f.name, "name", "", "project name")
	cmd.Flags().StringVar(&f.target, "target", "", "upstream target URL")
	cmd.Flags().StringVar(&f.teamID, "team-id", "", "owning team")
	cmd.Flags().IntVar(&f.rpm, "rpm", 0, "throttling: requests per minute")
}

// build собирает ProjectConfig: сначала файл, затем флаги поверх.
func (f *projectFlags) build(cmd *cobra.Command) (models.ProjectConfig, error) {
	var cfg models.ProjectConfig
	if f.file != "" {
		var (
			raw []byte
			err error
		)
		if f.file == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(f.file)
		}
		if err != nil {
			return cfg, fmt.Errorf("read project config: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse project config: %w", err)
		}
	}
	if f.name != "" {
		cfg.Name = f.name
	}
	if f.target != "" {
		cfg.Target = f.target
	}
	if f.teamID != "" {
		cfg.TeamID = f.teamID
	}
	if f.rpm > 0 {
		cfg.Throttling = &models.ThrottlingConfig{RequestsPerMinute: f.rpm}
	}
	return cfg, nil
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать проект",
		Example: `  dashboard projects create --name shop --target https://example.com
  dashboard projects create -f project.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}
			if cfg.Target == "" {
				return fmt.Errorf("target is required (--target or file)")
			}
			c, err := app.Client(cmd)
			if err != nil {
				return err
			}
			p, err := c.CreateProject(cmd.Context(), app.Identity, cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	flags.register(cmd)
	return cmd
}

// newProjectsStatusCmd запрашивает статусы нескольких проектов параллельно.
//
// Каждый запрос подписывается своим утверждением; при первой ошибке
// оставшиеся запросы отменяются.
func newProjectsStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID [ID...]",
		Short: "Статус развёртывания одного или нескольких проектов",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client(cmd)
			if err != nil {
				return err
			}

			results := make([]models.ProjectStatus, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(statusConcurrency)
			for i, id := range args {
				i, id := i, id
				g.Go(func() error {
					st, err := c.GetProjectStatus(ctx, app.Identity, id)
					if err != nil {
						return fmt.Errorf("project %s: %w", id, err)
					}
					results[i] = st
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(results) == 1 {
				return printJSON(cmd.OutOrStdout(), results[0])
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "update ID VERSION",
		Short: "Обновить проект конкретной версии",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}
			c, err := app.Client(cmd)
			if err != nil {
				return err
			}
			p, err := c.UpdateProject(cmd.Context(), app.Identity, args[0], args[1], cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	flags.register(cmd)
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID VERSION",
		Short: "Удалить проект конкретной версии",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client(cmd)
			if err != nil {
				return err
			}
			resp, err := c.DeleteProject(cmd.Context(), app.Identity, args[0], args[1])
			if err != nil {
				return err
			}
			if resp == (models.DeleteProjectResponse{}) {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted project %s (v%s)\n", args[0], args[1])
				return nil
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
