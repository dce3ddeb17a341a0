package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/crewflow"
)

func newPresetsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "List presets, or print one as a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				snap, err := crewflow.Preset(args[0])
				if err != nil {
					return err
				}
				js, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(js))
				return err
			}

			names := crewflow.PresetNames()
			if opts.Format == "json" {
				return json.NewEncoder(out).Encode(names)
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
