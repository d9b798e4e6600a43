package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds the TypeScript source files of a workspace using glob
// include and ignore patterns.
type Discovery struct {
	rootDir        string
	includes       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery compiles the given patterns for the root directory.
func NewDiscovery(rootDir string, includes, ignores []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	for _, pattern := range includes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.includes = append(d.includes, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignores {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Discover walks the root directory and returns matching files, sorted for
// deterministic processing order.
func (d *Discovery) Discover() ([]string, error) {
	var files []string

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(d.rootDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if d.isIgnored(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.isIgnored(relPath) {
			return nil
		}
		if d.matchesInclude(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (d *Discovery) matchesInclude(relPath string) bool {
	for _, p := range d.includes {
		if p.glob.Match(relPath) {
			return true
		}
	}
	return false
}

func (d *Discovery) isIgnored(relPath string) bool {
	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath) || p.glob.Match(strings.TrimSuffix(relPath, "/")) {
			return true
		}
	}
	return false
}
