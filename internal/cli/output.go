package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/resource"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// writeListTable renders one page the way the TUI does: serial column first,
// then the resource's configured columns, pagination summary below.
func writeListTable(cmd *cobra.Command, r resource.Resource, ctrl *listpage.Controller) error {
	items := ctrl.Items()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No "+r.Name+" match this view.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "

	head := make([]any, 0, len(r.Columns)+1)
	head = append(head, color.New(color.Bold).Sprint("#"))
	for _, c := range r.Columns {
		head = append(head, color.New(color.Bold).Sprint(c.Title))
	}
	tbl.AddRow(head...)

	for i, item := range items {
		row := make([]any, 0, len(r.Columns)+1)
		row = append(row, ctrl.SerialNumber(i))
		for _, c := range r.Columns {
			row = append(row, item.Str(c.Key))
		}
		tbl.AddRow(row...)
	}
	// Write through the command so SetOut redirection (tests, pipes) sees the
	// table; color handles its own downgrade for non-TTY writers.
	fmt.Fprintln(cmd.OutOrStdout(), tbl)

	p := ctrl.Pagination()
	if p.TotalPages > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d · %d total\n", p.Page, p.TotalPages, p.TotalItems)
	}
	return nil
}

// writeRecordTable prints one record as key/value rows, id first.
func writeRecordTable(cmd *cobra.Command, item api.Record) error {
	keys := item.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i] == "id" {
			return true
		}
		if keys[j] == "id" {
			return false
		}
		return keys[i] < keys[j]
	})

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range keys {
		tbl.AddRow(color.New(color.Faint).Sprint(k), item.Str(k))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl)
	return nil
}

// mutationError prints field-level validation errors before returning the
// failure, so scripts see exactly what the form would have shown.
func mutationError(cmd *cobra.Command, err error) error {
	fields := api.FieldErrors(err)
	if len(fields) == 0 {
		return err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", color.New(color.FgRed).Sprint(k), fields[k])
	}
	return err
}
