package cli

import (
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/extract"
)

// dumpCmd pretty-prints the full analysis result for debugging, including
// fields the JSON output elides.
var dumpCmd = &cobra.Command{
	Use:   "dump <file> <type>",
	Short: "Dump the raw analysis result of one type",
	Args:  cobra.ExactArgs(2),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
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

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	file, err := project.LoadFile(path)
	if err != nil {
		return err
	}

	diags := diagnostic.NewCollector(logger)
	engine := extract.NewEngineWith(project, diags, engineOptions(cfg))
	result, err := engine.AnalyzeNamedType(file, args[1])
	if err != nil {
		return err
	}

	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	dumper.Fdump(cmd.OutOrStdout(), result.Property)
	if len(diags.Entries()) > 0 {
		cmd.Println("Diagnostics:")
		for _, d := range diags.Entries() {
			cmd.Printf("  %s\n", d)
		}
	}
	return nil
}
