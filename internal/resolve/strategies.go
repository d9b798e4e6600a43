package resolve

import (
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/workspace"
)

// localStrategy finds the name declared in the referencing file itself.
type localStrategy struct{}

func (s *localStrategy) Name() string { return "local-declaration" }

func (s *localStrategy) CanResolve(name string, file *workspace.SourceFile) bool {
	return file.Declaration(name) != nil
}

func (s *localStrategy) Resolve(name string, file *workspace.SourceFile) *ResolvedSymbol {
	decl := file.Declaration(name)
	if decl == nil {
		return nil
	}
	return symbolForDeclaration(decl)
}

// symbolForDeclaration builds the resolved symbol for a declaration found on
// disk. Declarations living inside an installed package resolve to a module
// target with the package's extracted name.
func symbolForDeclaration(decl *workspace.Declaration) *ResolvedSymbol {
	path := decl.File.Path()
	if IsDependencyPath(path) {
		return &ResolvedSymbol{
			Declaration: decl,
			Target:      property.ModuleTarget(ExtractModuleName(path)),
			IsLocal:     false,
		}
	}
	return &ResolvedSymbol{
		Declaration: decl,
		Target:      property.LocalTarget(path, decl.Name),
		IsLocal:     true,
	}
}

// importStrategy scans the file's import statements for one that binds the
// name, then branches on the module specifier: relative specifiers resolve
// to a workspace file and recurse the local lookup there, bare specifiers
// delegate to the external module resolver.
type importStrategy struct {
	project  *workspace.Project
	external *ExternalResolver
}

func (s *importStrategy) Name() string { return "import-resolution" }

func (s *importStrategy) CanResolve(name string, file *workspace.SourceFile) bool {
	for _, imp := range file.Imports() {
		if _, ok := imp.Binds(name); ok {
			return true
		}
	}
	return false
}

func (s *importStrategy) Resolve(name string, file *workspace.SourceFile) *ResolvedSymbol {
	for _, imp := range file.Imports() {
		exported, ok := imp.Binds(name)
		if !ok {
			continue
		}

		if imp.IsRelative() {
			return s.resolveRelative(imp, exported, name, file)
		}

		sym := s.external.Resolve(imp.Specifier, exported)
		if sym != nil {
			sym.TypeOnly = imp.TypeOnly
		}
		return sym
	}
	return nil
}

func (s *importStrategy) resolveRelative(imp workspace.ImportRecord, exported, local string, file *workspace.SourceFile) *ResolvedSymbol {
	path, ok := s.project.ResolveRelative(file.Path(), imp.Specifier)
	if !ok {
		return nil
	}
	target, err := s.project.LoadFile(path)
	if err != nil {
		return nil
	}

	decl := target.Declaration(exported)
	if decl == nil && exported != local {
		decl = target.Declaration(local)
	}
	if decl == nil {
		return nil
	}

	sym := symbolForDeclaration(decl)
	sym.TypeOnly = imp.TypeOnly
	return sym
}

// ExternalResolver locates a symbol's declaration inside an external
// package's published type declarations. Best effort: when the package
// layout cannot be traversed the symbol still resolves to a module target,
// just without a declaration.
type ExternalResolver struct {
	project *workspace.Project
}

// NewExternalResolver creates the resolver over the project's node_modules.
func NewExternalResolver(project *workspace.Project) *ExternalResolver {
	return &ExternalResolver{project: project}
}

// Resolve locates name inside the package addressed by specifier.
func (e *ExternalResolver) Resolve(specifier, name string) *ResolvedSymbol {
	module := ModuleNameFromSpecifier(specifier)
	decl := e.project.FindModuleDeclaration(specifier, name)
	return &ResolvedSymbol{
		Declaration: decl,
		Target:      property.ModuleTarget(module),
		IsLocal:     false,
	}
}
