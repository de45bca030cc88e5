package main

import (
	"github.com/spf13/cobra"

	"satire-press-api/internal/wire"
)

var runAll bool

var runCmd = &cobra.Command{
	Use:   "run <book-id>",
	Short: "Generate, review and accept the next chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(p *wire.Pipeline) error {
			if runAll {
				outcomes, err := p.Orchestrator.RunAll(cmd.Context(), args[0], editedBy)
				if printErr := printJSON(outcomes); printErr != nil {
					return printErr
				}
				return err
			}
			out, err := p.Orchestrator.RunNext(cmd.Context(), args[0], editedBy)
			if err != nil {
				return err
			}
			return printJSON(out)
		})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <book-id>",
	Short: "Continue a book from its persisted progress until it is complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(p *wire.Pipeline) error {
			session, err := p.Orchestrator.Resume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("resuming at chapter %d of %d\n", session.NextChapter, session.TotalChapters)

			outcomes, err := p.Orchestrator.RunAll(cmd.Context(), args[0], editedBy)
			if printErr := printJSON(outcomes); printErr != nil {
				return printErr
			}
			return err
		})
	},
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "keep running until the book is complete")
}
