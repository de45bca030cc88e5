package main

import (
	"github.com/spf13/cobra"

	"satire-press-api/internal/wire"
)

var undoCmd = &cobra.Command{
	Use:   "undo <book-id>",
	Short: "Remove the most recently accepted chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(p *wire.Pipeline) error {
			res, err := p.Orchestrator.UndoLast(cmd.Context(), args[0], editedBy)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}
