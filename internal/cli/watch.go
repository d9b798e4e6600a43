package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/extract"
	"github.com/typescan/typescan/internal/watcher"
)

// watchCmd re-analyzes declaration files as they change, until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze declaration files on change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(root, cfg.SourceExtensions(), debounce, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	w.Start(ctx, func(files []string) {
		// A fresh project per batch picks up the new file contents.
		project := newProject(root, cfg)
		defer project.Close()

		diags := diagnostic.NewCollector(logger)
		engine := extract.NewEngineWith(project, diags, engineOptions(cfg))
		for _, file := range files {
			results, err := engine.AnalyzeFile(file)
			if err != nil {
				logger.Warn("re-analysis failed", zap.String("file", file), zap.Error(err))
				continue
			}
			logger.Info("re-analyzed",
				zap.String("file", file),
				zap.Int("types", len(results)),
				zap.Int("diagnostics", diags.Count()),
			)
		}
	})

	logger.Info("watching for changes", zap.String("root", root))
	<-ctx.Done()
	return nil
}
