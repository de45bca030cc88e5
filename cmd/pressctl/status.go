package main

import (
	"github.com/spf13/cobra"

	"satire-press-api/internal/application/pipeline"
	"satire-press-api/internal/wire"
)

type bookStatus struct {
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle,omitempty"`
	Chapters []string          `json:"chapterTitles"`
	Session  *pipeline.Session `json:"session"`
}

var statusCmd = &cobra.Command{
	Use:   "status <book-id>",
	Short: "Show the chapter cursor and completion state of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd.Context(), func(p *wire.Pipeline) error {
			b, err := p.Books.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			session, err := p.Orchestrator.Resume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(bookStatus{
				Title:    b.Title,
				Subtitle: b.Subtitle,
				Chapters: b.ChapterTitles,
				Session:  session,
			})
		})
	},
}
