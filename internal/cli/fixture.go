package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"storekeep-cli/internal/fixture"

	"github.com/spf13/cobra"
)

func newFixtureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Demo backend for trying the console",
	}
	cmd.AddCommand(newFixtureServeCmd(app))
	return cmd
}

func newFixtureServeCmd(app *App) *cobra.Command {
	var (
		addr   string
		dbPath string
		token  string
		noSeed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the six demo collections over HTTP",
		Long: `Serve a self-contained storefront admin API with deliberately varied
response envelopes, so every normalization path the console supports can be
exercised against real traffic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := fixture.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if !noSeed {
				if err := store.Seed(); err != nil {
					return err
				}
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			handler := fixture.NewServer(store, token, logger)

			fmt.Fprintf(cmd.OutOrStdout(), "fixture backend on %s (db %s)\n", addr, dbPath)
			if addr != "" && addr[0] == ':' {
				fmt.Fprintf(cmd.OutOrStdout(), "try: storekeep browse --base-url http://localhost%s\n", addr)
			}
			return http.ListenAndServe(addr, handler)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "storekeep-fixture.db", `SQLite file (":memory:" for throwaway data)`)
	cmd.Flags().StringVar(&token, "token", "", "Require this bearer token")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Start with empty collections")
	return cmd
}
