package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/typescan/typescan/internal/collect"
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/resolve"
	"github.com/typescan/typescan/internal/workspace"
)

var (
	depsDot  string
	depsTopo bool
)

// depsCmd reports the named types a declaration references, straight from
// its syntax so generic constraints and defaults are included.
var depsCmd = &cobra.Command{
	Use:   "deps <file> [type]",
	Short: "List the type dependencies of a declaration",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&depsDot, "dot", "", "write the dependency graph in Graphviz DOT format to file")
	depsCmd.Flags().BoolVar(&depsTopo, "topo", false, "print types in topological order")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
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

	decls := file.Declarations()
	if len(args) == 2 {
		decl := file.Declaration(args[1])
		if decl == nil {
			return fmt.Errorf("type %s is not declared in %s", args[1], path)
		}
		decls = []*workspace.Declaration{decl}
	}

	diags := diagnostic.NewCollector(logger)
	collector := collect.New(resolve.NewSized(project, diags, cfg.Resolution.CacheSize))
	graph := collect.NewDependencyGraph()

	for _, decl := range decls {
		result := collector.Collect(decl)
		if err := graph.AddResult(decl.Name, decl.File.Path(), result); err != nil {
			return err
		}
		printDeps(cmd, decl.Name, result)
	}

	if depsTopo {
		order, err := graph.TopologicalOrder()
		if err != nil {
			return fmt.Errorf("topological sort: %w", err)
		}
		cmd.Println("\nTopological order:")
		for _, id := range order {
			cmd.Printf("  %s\n", id)
		}
	}

	if depsDot != "" {
		f, err := os.Create(depsDot)
		if err != nil {
			return err
		}
		defer f.Close()
		return graph.WriteDOT(f)
	}
	return nil
}

func printDeps(cmd *cobra.Command, name string, result collect.Result) {
	cmd.Printf("%s:\n", name)
	if len(result.Dependencies) == 0 {
		cmd.Println("  (no dependencies)")
	}
	for _, dep := range result.Dependencies {
		switch dep.Target.Kind {
		case property.TargetModule:
			cmd.Printf("  %s  (from %s)\n", dep.Dependency, dep.Target.Name)
		default:
			cmd.Printf("  %s  (%s)\n", dep.Dependency, dep.Target.FilePath)
		}
	}
	for member, root := range result.NamespaceMembers {
		cmd.Printf("  %s.%s  (namespace)\n", root, member)
	}
}
