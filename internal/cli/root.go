package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/typescan/typescan/internal/config"
	"github.com/typescan/typescan/internal/extract"
	"github.com/typescan/typescan/internal/workspace"
)

var (
	rootDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typescan",
	Short: "Typescan - TypeScript declaration analysis",
	Long: `Typescan parses TypeScript type declarations and normalizes them into
language-agnostic property trees, resolving imports and expanding
utility types along the way.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "workspace root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the workspace root and loads layered configuration
// (defaults, .typescan/config.yml, TYPESCAN_* environment).
func loadConfig() (*config.Config, string, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve root: %w", err)
	}
	cfg, err := config.NewLoader(abs).Load()
	if err != nil {
		return nil, "", err
	}
	return cfg, abs, nil
}

// newProject builds the workspace handle with the configured dependency
// roots.
func newProject(root string, cfg *config.Config) *workspace.Project {
	project := workspace.NewProject(root)
	project.SetModuleFolders(cfg.Resolution.ModuleFolders)
	return project
}

// engineOptions maps the analysis and resolution settings onto the engine.
func engineOptions(cfg *config.Config) extract.EngineOptions {
	return extract.EngineOptions{
		MaxDepth:     cfg.Analysis.MaxDepth,
		IncludeDocs:  cfg.Analysis.IncludeDocs,
		ExportedOnly: cfg.Analysis.ExportedOnly,
		CacheSize:    cfg.Resolution.CacheSize,
	}
}

// newLogger builds the zap logger the engine's diagnostics flow through.
// --verbose forces debug level regardless of configuration.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Logging.Level))); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Logging.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Keep stdout clean for result output.
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
