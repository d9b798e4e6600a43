// Package workspace loads and indexes the TypeScript source files of a
// multi-file project: per-file declaration tables, import enumeration, and
// best-effort location of external package declarations.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/typescan/typescan/internal/typenode"
)

// Project is the workspace handle the extraction engine resolves files
// through. Files are parsed once and cached; Close releases all parse trees.
type Project struct {
	root          string
	files         map[string]*SourceFile
	moduleFolders []string
}

// NewProject creates a project rooted at the given directory.
func NewProject(root string) *Project {
	return &Project{
		root:          root,
		files:         make(map[string]*SourceFile),
		moduleFolders: []string{"node_modules"},
	}
}

// SetModuleFolders overrides the dependency roots searched for external
// package declarations. An empty list keeps the default.
func (p *Project) SetModuleFolders(folders []string) {
	if len(folders) > 0 {
		p.moduleFolders = folders
	}
}

// Root returns the project root directory.
func (p *Project) Root() string { return p.root }

// LoadFile parses the file at the given path (absolute, or relative to the
// project root) and indexes its declarations. Repeated loads return the
// cached file.
func (p *Project) LoadFile(path string) (*SourceFile, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	path = filepath.Clean(path)

	if f, ok := p.files[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	src, err := typenode.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	f := &SourceFile{path: path, src: src}
	f.indexDeclarations()
	p.files[path] = f
	return f, nil
}

// File returns an already-loaded file, or nil.
func (p *Project) File(path string) *SourceFile {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}
	return p.files[filepath.Clean(path)]
}

// Close releases every parse tree held by the project.
func (p *Project) Close() {
	for _, f := range p.files {
		f.src.Close()
	}
	p.files = make(map[string]*SourceFile)
}

// relativeExtensions are tried, in order, when resolving an extensionless
// relative import specifier.
var relativeExtensions = []string{".ts", ".d.ts", ".tsx"}

// ResolveRelative maps a relative import specifier to a file on disk,
// trying the TypeScript extension and index-file conventions.
func (p *Project) ResolveRelative(fromFile, specifier string) (string, bool) {
	base := filepath.Join(filepath.Dir(fromFile), specifier)

	candidates := []string{}
	if ext := filepath.Ext(base); ext == ".ts" || ext == ".tsx" {
		candidates = append(candidates, base)
	}
	for _, ext := range relativeExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range relativeExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// FindModuleDeclaration locates a symbol's declaration inside an external
// package's published type declarations. Best effort: a missing package or
// unreadable manifest yields nil, never an error.
func (p *Project) FindModuleDeclaration(specifier, name string) *Declaration {
	var candidates []string
	for _, folder := range p.moduleFolders {
		pkgDir := filepath.Join(p.root, filepath.FromSlash(folder), filepath.FromSlash(specifier))
		if types := packageTypesEntry(pkgDir); types != "" {
			candidates = append(candidates, filepath.Join(pkgDir, filepath.FromSlash(types)))
		}
		candidates = append(candidates,
			filepath.Join(pkgDir, "index.d.ts"),
			filepath.Join(pkgDir, "dist", "index.d.ts"),
			filepath.Join(pkgDir, "lib", "index.d.ts"),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}
		f, err := p.LoadFile(candidate)
		if err != nil {
			continue
		}
		if decl := f.Declaration(name); decl != nil {
			return decl
		}
	}
	return nil
}

// packageTypesEntry reads the types/typings field of a package manifest.
func packageTypesEntry(pkgDir string) string {
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return ""
	}
	var manifest struct {
		Types   string `json:"types"`
		Typings string `json:"typings"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	if manifest.Types != "" {
		return manifest.Types
	}
	return manifest.Typings
}

// SourceFile is one parsed TypeScript file with its declaration index.
type SourceFile struct {
	path      string
	src       *typenode.Source
	decls     map[string]*Declaration
	declOrder []string
	imports   []ImportRecord
	scanned   bool
}

// Path returns the absolute file path.
func (f *SourceFile) Path() string { return f.path }

// Root returns the file's parse tree root.
func (f *SourceFile) Root() typenode.Node { return f.src.Root() }

// Declaration looks up a named interface or type alias declared in this
// file.
func (f *SourceFile) Declaration(name string) *Declaration {
	return f.decls[name]
}

// Declarations returns the file's named declarations in source order.
func (f *SourceFile) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(f.declOrder))
	for _, name := range f.declOrder {
		out = append(out, f.decls[name])
	}
	return out
}

// ExportedDeclarations returns declarations wrapped in an export statement,
// in source order.
func (f *SourceFile) ExportedDeclarations() []*Declaration {
	var out []*Declaration
	for _, name := range f.declOrder {
		if decl := f.decls[name]; decl.Exported {
			out = append(out, decl)
		}
	}
	return out
}

func (f *SourceFile) indexDeclarations() {
	f.decls = make(map[string]*Declaration)
	for _, child := range f.src.Root().NamedChildren() {
		exported := child.Kind() == typenode.KindExportStatement
		decl := child.UnwrapExport()
		switch decl.Kind() {
		case typenode.KindInterfaceDecl, typenode.KindTypeAliasDecl:
		default:
			continue
		}
		name := decl.DeclarationName()
		if name == "" {
			continue
		}
		if _, seen := f.decls[name]; !seen {
			f.declOrder = append(f.declOrder, name)
		}
		// Later declarations of the same name overwrite earlier ones.
		d := &Declaration{
			Name:     name,
			File:     f,
			Node:     decl,
			Exported: exported,
			Doc:      docForDeclaration(child),
		}
		f.decls[name] = d
		// A default-exported declaration is also reachable as "default",
		// the name a default import binds to. The alias stays out of the
		// source-order list.
		if exported && child.IsDefaultExport() {
			f.decls["default"] = d
		}
	}
}

// docForDeclaration attaches the doc comment to the outermost statement so
// `/** ... */ export interface X` is carried over.
func docForDeclaration(stmt typenode.Node) string {
	return stmt.DocComment()
}

// Declaration is one named interface or type alias.
type Declaration struct {
	Name     string
	File     *SourceFile
	Node     typenode.Node
	Exported bool
	Doc      string
}

// Body returns the declaration's analyzable body.
func (d *Declaration) Body() typenode.Node {
	return d.Node.DeclarationBody()
}

// TypeParameters returns the declaration's generic parameters.
func (d *Declaration) TypeParameters() []typenode.TypeParameter {
	return d.Node.TypeParameters()
}

// IsRelativeSpecifier reports whether an import specifier addresses a file
// in the workspace rather than an external package.
func IsRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || specifier == "." || specifier == ".."
}
