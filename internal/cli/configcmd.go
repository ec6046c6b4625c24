package cli

import (
	"fmt"
	"strconv"

	"storekeep-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Persisted console settings",
	}
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPreRunE already resolved flag > env > file.
			return writeJSON(cmd, map[string]any{
				"baseUrl":  app.BaseURL,
				"token":    maskToken(app.Token),
				"pageSize": app.PageSize,
			})
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		baseURL  string
		token    string
		pageSize string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Write settings to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
				changed = true
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
				changed = true
			}
			if cmd.Flags().Changed("page-size") {
				n, err := strconv.Atoi(pageSize)
				if err != nil || n < 1 {
					return fmt.Errorf("bad --page-size %q", pageSize)
				}
				cfg.PageSize = n
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to set; pass --base-url, --token or --page-size")
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			path, _ := config.Path()
			fmt.Fprintln(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Backend API root")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&pageSize, "page-size", "", "Default list page size")
	return cmd
}

func maskToken(tok string) string {
	if len(tok) <= 4 {
		if tok == "" {
			return ""
		}
		return "****"
	}
	return tok[:2] + "…" + tok[len(tok)-2:]
}
