package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/typescan/typescan/internal/config"
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/extract"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/workspace"
)

var extractOut string

// extractCmd normalizes one named type, one file, or a whole directory tree.
var extractCmd = &cobra.Command{
	Use:   "extract <path> [type]",
	Short: "Normalize type declarations into property trees",
	Long: `Extract parses the given declaration file and emits the normalized
property tree for the named type, or for every exported declaration when
no type is given. A directory argument analyzes every matching file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}

// typeOutput is the serialized form of one analyzed type.
type typeOutput struct {
	Type             string                  `json:"type"`
	File             string                  `json:"file"`
	Property         *property.PropertyInfo  `json:"property"`
	Dependencies     []property.Dependency   `json:"dependencies,omitempty"`
	NamespaceMembers map[string]string       `json:"namespaceMembers,omitempty"`
	Diagnostics      []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	project := newProject(root, cfg)
	defer project.Close()

	diags := diagnostic.NewCollector(logger)
	engine := extract.NewEngineWith(project, diags, engineOptions(cfg))

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var outputs []typeOutput
	switch {
	case info.IsDir():
		outputs, err = extractTree(engine, diags, cfg, path, logger)
	case len(args) == 2:
		outputs, err = extractNamed(engine, diags, path, args[1])
	default:
		outputs, err = extractFile(engine, diags, path)
	}
	if err != nil {
		return err
	}

	return writeOutput(outputs, cfg)
}

func extractNamed(engine *extract.Engine, diags *diagnostic.Collector, path, typeName string) ([]typeOutput, error) {
	file, err := engine.Project().LoadFile(path)
	if err != nil {
		return nil, err
	}
	result, err := engine.AnalyzeNamedType(file, typeName)
	if err != nil {
		return nil, err
	}
	return []typeOutput{convertResult(result, diags.Entries())}, nil
}

func extractFile(engine *extract.Engine, diags *diagnostic.Collector, path string) ([]typeOutput, error) {
	results, err := engine.AnalyzeFile(path)
	if err != nil {
		return nil, err
	}
	outputs := make([]typeOutput, 0, len(results))
	for _, result := range results {
		outputs = append(outputs, convertResult(result, nil))
	}
	if len(outputs) > 0 {
		outputs[0].Diagnostics = diags.Entries()
	}
	return outputs, nil
}

// extractTree discovers and analyzes every matching file under dir, with a
// progress bar on stderr.
func extractTree(engine *extract.Engine, diags *diagnostic.Collector, cfg *config.Config, dir string, logger *zap.Logger) ([]typeOutput, error) {
	discovery, err := workspace.NewDiscovery(dir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	files, err := discovery.Discover()
	if err != nil {
		return nil, err
	}
	logger.Info("discovered declaration files", zap.Int("count", len(files)))

	bar := newFileProgress(len(files))
	var outputs []typeOutput
	for _, file := range files {
		results, err := engine.AnalyzeFile(file)
		if err != nil {
			logger.Warn("skipping file", zap.String("file", file), zap.Error(err))
			bar.Add(1)
			continue
		}
		for _, result := range results {
			outputs = append(outputs, convertResult(result, nil))
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	if len(outputs) > 0 {
		outputs[0].Diagnostics = diags.Entries()
	}
	return outputs, nil
}

func convertResult(result *extract.Result, diags []diagnostic.Diagnostic) typeOutput {
	return typeOutput{
		Type:             result.Declaration.Name,
		File:             result.Declaration.File.Path(),
		Property:         result.Property,
		Dependencies:     result.Dependencies,
		NamespaceMembers: result.NamespaceMembers,
		Diagnostics:      diags,
	}
}

// writeOutput serializes the outputs to --out or stdout.
func writeOutput(outputs []typeOutput, cfg *config.Config) error {
	w := os.Stdout
	if extractOut != "" {
		f, err := os.Create(extractOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if cfg.Output.Indent || cfg.Output.Format == "pretty" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(outputs)
}
