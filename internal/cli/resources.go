package cli

import (
	"fmt"
	"strings"

	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/nav"
	"storekeep-cli/internal/query"
	"storekeep-cli/internal/resource"

	"github.com/spf13/cobra"
)

// newResourceCmd builds the per-collection command group (list/show plus the
// mutations the resource supports) straight from the catalog entry.
func newResourceCmd(app *App, r resource.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.Name,
		Short: r.Title + " commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Without this, "orders create" on a read-only resource would
			// print help and exit 0, hiding the failure from scripts.
			return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
		},
	}
	cmd.AddCommand(newListCmd(app, r))
	cmd.AddCommand(newShowCmd(app, r))
	if !r.ReadOnly {
		cmd.AddCommand(newCreateCmd(app, r))
		cmd.AddCommand(newUpdateCmd(app, r))
		cmd.AddCommand(newDeleteCmd(app, r))
	}
	return cmd
}

// controllerFor wires a throwaway page controller for one CLI invocation.
// CLI commands don't navigate, so a fixed single-location history is enough.
func controllerFor(app *App, r resource.Resource, rawQuery string) *listpage.Controller {
	return r.Controller(resource.Deps{
		Client: app.apiClient(),
		Nav:    nav.NewHistory(nav.Location{Path: r.Path(), RawQuery: rawQuery}),
	})
}

func newListCmd(app *App, r resource.Resource) *cobra.Command {
	var (
		page    int
		limit   int
		sort    string
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.Name,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.Query{Page: page, Limit: limit, Sort: sort}
			if q.Limit == query.DefaultLimit && app.PageSize > 0 {
				q.Limit = app.PageSize
			}
			for _, f := range filters {
				key, value, ok := strings.Cut(f, "=")
				if !ok || strings.TrimSpace(key) == "" {
					return fmt.Errorf("bad --filter %q: want key=value", f)
				}
				q.Filters = append(q.Filters, query.Filter{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
			}

			ctrl := controllerFor(app, r, q.Encode())
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			if app.Output == "json" {
				return writeJSON(cmd, map[string]any{
					"data": ctrl.Items(),
					"meta": ctrl.Pagination(),
				})
			}
			return writeListTable(cmd, r, ctrl)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", query.DefaultLimit, "Items per page")
	cmd.Flags().StringVar(&sort, "sort", "", `Sort spec, e.g. "price" or "price:desc"`)
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter key=value (repeatable)")
	return cmd
}

func newShowCmd(app *App, r resource.Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one " + r.Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := controllerFor(app, r, "")
			item, err := ctrl.FetchDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%s not found: %s", r.Singular, args[0])
			}
			if app.Output == "json" {
				return writeJSON(cmd, map[string]any{"data": item})
			}
			return writeRecordTable(cmd, item)
		},
	}
}

func newCreateCmd(app *App, r resource.Resource) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.Singular,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseSets(sets)
			if err != nil {
				return err
			}
			ctrl := controllerFor(app, r, "")
			item, err := ctrl.CreateItem(cmd.Context(), data)
			if err != nil {
				return mutationError(cmd, err)
			}
			if app.Output == "json" {
				return writeJSON(cmd, map[string]any{"data": item})
			}
			return writeRecordTable(cmd, item)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field key=value (repeatable)")
	return cmd
}

func newUpdateCmd(app *App, r resource.Resource) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + r.Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseSets(sets)
			if err != nil {
				return err
			}
			ctrl := controllerFor(app, r, "")
			item, err := ctrl.UpdateItem(cmd.Context(), args[0], data)
			if err != nil {
				return mutationError(cmd, err)
			}
			if app.Output == "json" {
				return writeJSON(cmd, map[string]any{"data": item})
			}
			return writeRecordTable(cmd, item)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field key=value (repeatable)")
	return cmd
}

func newDeleteCmd(app *App, r resource.Resource) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + r.Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s %s without --yes", r.Singular, args[0])
			}
			ctrl := controllerFor(app, r, "")
			if err := ctrl.DeleteItem(cmd.Context(), args[0]); err != nil {
				return mutationError(cmd, err)
			}
			if app.Output == "json" {
				return writeJSON(cmd, map[string]any{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", r.Singular, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation")
	return cmd
}

// parseSets turns repeated --set key=value flags into a payload. Booleans are
// coerced so toggles round-trip; everything else ships as strings.
func parseSets(sets []string) (map[string]any, error) {
	data := map[string]any{}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("bad --set %q: want key=value", s)
		}
		switch value {
		case "true":
			data[key] = true
		case "false":
			data[key] = false
		default:
			data[key] = value
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("nothing to send; pass --set key=value")
	}
	return data, nil
}
