package main

import (
	"fmt"
	"slices"

	"dockhosts/cmd/dockhosts/ui"
	"dockhosts/config"

	"github.com/spf13/cobra"
)

func networksCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "networks",
		Aliases: []string{"ls"},
		Short:   "List docker networks that can be selected",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			networks, err := rt.ListNetworks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(networks) == 0 {
				fmt.Fprintln(out, ui.Muted("no networks found"))
				return nil
			}

			slices.Sort(networks)
			fmt.Fprintln(out, ui.Table([]string{"Network", "Configured"}, networkRows(networks, (*cfg).Network)))
			return nil
		},
	}
}

func networkRows(networks []string, configured string) [][]string {
	rows := make([][]string, 0, len(networks))
	for _, n := range networks {
		mark := ""
		if n == configured {
			mark = "*"
		}
		rows = append(rows, []string{n, mark})
	}
	return rows
}
