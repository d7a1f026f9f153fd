package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dockhosts/cmd/dockhosts/ui"
	"dockhosts/config"
	"dockhosts/internal/adapter/sqlite"
	"dockhosts/internal/syncer"

	"github.com/spf13/cobra"
)

func historyCmd(cfg **config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconciliation passes from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := (*cfg).Journal
			if path == "" {
				return errors.New("no journal configured, set --journal or journal in the config file")
			}
			j, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()

			passes, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(passes) == 0 {
				fmt.Fprintln(out, ui.Muted("no passes recorded"))
				return nil
			}
			fmt.Fprintln(out, ui.Table(
				[]string{"Started", "Trigger", "Network", "Records", "Changed", "Duration", "Error"},
				historyRows(passes),
			))
			if warn := failureSummary(passes); warn != "" {
				fmt.Fprintln(out, warn)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of passes to show")
	return cmd
}

func historyRows(passes []syncer.PassReport) [][]string {
	rows := make([][]string, 0, len(passes))
	for _, p := range passes {
		rows = append(rows, []string{
			p.StartedAt.Local().Format(time.DateTime),
			p.Trigger,
			p.Network,
			strconv.Itoa(p.Records),
			ui.Bool(p.Changed),
			p.Duration.String(),
			p.Err,
		})
	}
	return rows
}

// failureSummary warns about failed passes, or returns "" when all succeeded.
func failureSummary(passes []syncer.PassReport) string {
	failed := 0
	for _, p := range passes {
		if p.Err != "" {
			failed++
		}
	}
	if failed == 0 {
		return ""
	}
	return ui.WarnMsg("%d of %d passes failed", failed, len(passes))
}
