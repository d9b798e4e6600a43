package workspace

import "github.com/typescan/typescan/internal/typenode"

// NamedImport is one name bound by a named-import clause.
type NamedImport struct {
	// Name is the exported name at the target module.
	Name string
	// Alias is the local binding when the import is aliased; empty otherwise.
	Alias string
	// TypeOnly marks `import { type X }` specifiers.
	TypeOnly bool
}

// Local returns the name the import binds in the importing file.
func (n NamedImport) Local() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// ImportRecord is one import statement of a source file.
type ImportRecord struct {
	// Specifier is the module specifier, unquoted.
	Specifier string
	// Default is the default-import binding, if any.
	Default string
	// Namespace is the `* as ns` binding, if any.
	Namespace string
	// Named are the named-import bindings.
	Named []NamedImport
	// TypeOnly marks `import type` statements.
	TypeOnly bool
}

// IsRelative reports whether the specifier addresses a workspace file.
func (r ImportRecord) IsRelative() bool {
	return IsRelativeSpecifier(r.Specifier)
}

// Binds reports whether the statement binds the given local name, returning
// the exported name to look up at the target module.
func (r ImportRecord) Binds(local string) (exported string, ok bool) {
	if r.Default != "" && r.Default == local {
		return "default", true
	}
	if r.Namespace != "" && r.Namespace == local {
		return local, true
	}
	for _, n := range r.Named {
		if n.Local() == local {
			return n.Name, true
		}
	}
	return "", false
}

// Imports enumerates the file's import statements in source order. The scan
// is performed once and cached.
func (f *SourceFile) Imports() []ImportRecord {
	if f.scanned {
		return f.imports
	}
	f.scanned = true

	for _, stmt := range f.src.Root().NamedChildren() {
		if stmt.Kind() != typenode.KindImportStatement {
			continue
		}
		record := parseImport(stmt)
		if record.Specifier == "" {
			continue
		}
		f.imports = append(f.imports, record)
	}
	return f.imports
}

func parseImport(stmt typenode.Node) ImportRecord {
	record := ImportRecord{
		Specifier: importSpecifier(stmt),
		TypeOnly:  hasTypeKeyword(stmt),
	}

	for _, child := range stmt.NamedChildren() {
		if child.Kind() != "import_clause" {
			continue
		}
		for _, clause := range child.NamedChildren() {
			switch clause.Kind() {
			case "identifier":
				record.Default = clause.Text()
			case "namespace_import":
				for _, ns := range clause.NamedChildren() {
					if ns.Kind() == "identifier" {
						record.Namespace = ns.Text()
					}
				}
			case "named_imports":
				record.Named = append(record.Named, parseNamedImports(clause)...)
			}
		}
	}
	return record
}

func parseNamedImports(clause typenode.Node) []NamedImport {
	var out []NamedImport
	for _, spec := range clause.NamedChildren() {
		if spec.Kind() != "import_specifier" {
			continue
		}
		named := NamedImport{
			TypeOnly: hasTypeKeyword(spec),
		}
		named.Name = typenode.FieldText(spec, "name")
		named.Alias = typenode.FieldText(spec, "alias")
		if named.Name != "" {
			out = append(out, named)
		}
	}
	return out
}

func importSpecifier(stmt typenode.Node) string {
	source := typenode.FieldText(stmt, "source")
	if len(source) >= 2 {
		return source[1 : len(source)-1]
	}
	return ""
}

// hasTypeKeyword detects the `type` keyword of type-only imports.
func hasTypeKeyword(n typenode.Node) bool {
	return typenode.HasKeywordChild(n, "type")
}
