package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/crewflow"
)

// validationResult is the --format json output of validate.
type validationResult struct {
	Valid bool   `json:"valid"`
	Nodes int    `json:"nodes,omitempty"`
	Edges int    `json:"edges,omitempty"`
	Error string `json:"error,omitempty"`
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot.json|->",
		Short: "Check that a snapshot can be loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result validationResult
			snap, err := loadSnapshot(cmd, args[0])
			switch {
			case err == nil:
				result = validationResult{Valid: true, Nodes: len(snap.Nodes), Edges: len(snap.Edges)}
			case errors.Is(err, crewflow.ErrMalformedSnapshot):
				result = validationResult{Error: err.Error()}
			default:
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintf(out, "✓ valid snapshot: %d nodes, %d edges\n", result.Nodes, result.Edges)
			} else {
				fmt.Fprintf(out, "✗ %s\n", result.Error)
			}
			return err
		},
	}
}
