package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"satire-press-api/internal/config"
	einoobs "satire-press-api/internal/observability/eino"
	"satire-press-api/internal/wire"
	"satire-press-api/pkg/logger"
)

var (
	configDir string
	editedBy  string
)

var rootCmd = &cobra.Command{
	Use:   "pressctl",
	Short: "Operate the satirical book pipeline from the terminal",
	Long: `pressctl drives the chapter pipeline directly against the database:

  - run the next chapter (or every remaining chapter) of a book
  - resume a book from its persisted progress
  - undo the most recently accepted chapter
  - show where a book currently stands`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "config directory")
	rootCmd.PersistentFlags().StringVar(&editedBy, "editor", "pressctl", "identity recorded as last editor")

	rootCmd.AddCommand(runCmd, resumeCmd, undoCmd, statusCmd)
}

// withPipeline 加载配置并注入流水线后执行 fn
func withPipeline(ctx context.Context, fn func(p *wire.Pipeline) error) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	einoobs.Init()

	p, cleanup, err := wire.InitializePipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer cleanup()

	return fn(p)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
