package main

import (
	"fmt"

	"dockhosts/cmd/dockhosts/ui"
	"dockhosts/config"
	"dockhosts/internal/hostsfile"
	"dockhosts/internal/syncer"

	"github.com/spf13/cobra"
)

func previewCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [network]",
		Short: "Print the hosts file as the next pass would write it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			rt, err := openRuntime(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer rt.Close()

			network, err := syncer.SelectNetwork(cmd.Context(), rt, networkArg(c, args))
			if err != nil {
				return err
			}
			s := syncer.New(rt, syncer.Config{
				Network:   network,
				HostsFile: &hostsfile.File{Path: c.HostsFile, Mode: c.WriteMode},
				Markers:   c.HostsMarkers(),
			})
			lines, err := s.Preview(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.InfoMsg("preview of %s for network %s", c.HostsFile, ui.Bold(network)))
			fmt.Fprint(cmd.OutOrStdout(), ui.HostsPreview(lines, c.Markers.Begin, c.Markers.End))
			return nil
		},
	}
}
