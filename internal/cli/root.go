package cli

import (
	"os"
	"strconv"
	"strings"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/config"
	"storekeep-cli/internal/resource"
	"storekeep-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App carries the resolved global options into subcommands.
type App struct {
	BaseURL  string
	Token    string
	PageSize int
	Output   string
	At       string

	fileCfg *config.Config
	// client overrides the HTTP client in tests.
	client api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "storekeep",
		Short:        "Terminal admin console for a storefront backend",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  storekeep

  # Open a shared view directly
  storekeep browse --at "/admin/posts?page=2&status=published"

  # Scriptable commands
  storekeep products list --filter status=active --sort price:desc
  storekeep posts create --set title="Hello" --set status=draft

  # Run the demo backend
  storekeep fixture serve --addr :8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive console.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runBrowse(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Config file fills whatever flags and env left empty.
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app.fileCfg = cfg
		app.BaseURL = config.Resolve(app.BaseURL, "STOREKEEP_BASE_URL", cfg.BaseURL, "http://localhost:8080")
		app.Token = config.Resolve(app.Token, "STOREKEEP_TOKEN", cfg.Token, "")
		if app.PageSize == 0 {
			app.PageSize = resolvePageSize(cfg)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Backend API root (env STOREKEEP_BASE_URL, then config file)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "Bearer token (env STOREKEEP_TOKEN, then config file)")
	cmd.PersistentFlags().IntVar(&app.PageSize, "page-size", 0, "List page size (env STOREKEEP_PAGE_SIZE, then config file)")
	cmd.PersistentFlags().StringVarP(&app.Output, "output", "o", "table", "Output format (table|json)")

	for _, r := range resource.Catalog() {
		cmd.AddCommand(newResourceCmd(app, r))
	}
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newFixtureCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func resolvePageSize(cfg *config.Config) int {
	if v := strings.TrimSpace(os.Getenv("STOREKEEP_PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if cfg.PageSize > 0 {
		return cfg.PageSize
	}
	return 0
}

// apiClient returns the backend client for this invocation.
func (app *App) apiClient() api.Client {
	if app.client != nil {
		return app.client
	}
	return api.NewHTTP(api.Config{BaseURL: app.BaseURL, Token: app.Token})
}

func runBrowse(app *App) error {
	return tui.Run(tui.Options{
		Client:   app.apiClient(),
		PageSize: app.PageSize,
		At:       app.At,
	})
}

func newBrowseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(app)
		},
	}
	cmd.Flags().StringVar(&app.At, "at", "", `Initial location, e.g. "/admin/posts?page=2"`)
	return cmd
}
