package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/crewflow"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <snapshot.json|->",
		Short: "Print the crewai script for a snapshot",
		Long: `Decode a flow snapshot and print the crewai script it describes.

With --format json the normalized snapshot is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				js, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(js))
				return err
			}
			_, err = fmt.Fprint(out, crewflow.Generate(snap))
			return err
		},
	}
}

// loadSnapshot reads and decodes a snapshot file. Malformed input exits with
// exitFailure, unreadable input with exitCommandError.
func loadSnapshot(cmd *cobra.Command, path string) (*crewflow.Snapshot, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, &exitError{code: exitCommandError, err: err}
	}
	snap, err := crewflow.DecodeSnapshot(data)
	if err != nil {
		return nil, &exitError{code: exitFailure, err: err}
	}
	return snap, nil
}
