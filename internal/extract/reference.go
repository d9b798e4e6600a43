package extract

import (
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
	"github.com/typescan/typescan/internal/workspace"
)

// referenceAnalyzer expands named type references: generic parameters in
// scope, locally declared or imported symbols, and namespace-qualified
// members. It is the last analyzer in the chain, so every identifier-shaped
// node ends up here.
type referenceAnalyzer struct {
	d *Dispatcher
}

func (a *referenceAnalyzer) Name() string { return "reference" }

func (a *referenceAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsReference() || node.IsGeneric()
}

func (a *referenceAnalyzer) Analyze(req Request) *property.PropertyInfo {
	ctx := req.Context

	if root, member, ok := req.Node.NamespaceParts(); ok {
		return a.analyzeNamespaced(req, root, member)
	}

	name := req.Node.BaseName()
	if name == "" {
		return unknownTerminal(req.Name, req.Node.Text(), req.Options)
	}

	// Generic parameters shadow declarations of the same name. The bound
	// type's references resolve against the file it was written in.
	if binding, ok := ctx.GenericParam(name); ok {
		if !binding.Node.Valid() {
			// Fully generic parameter: nothing to trace.
			return unknownTerminal(req.Name, name, req.Options)
		}
		restore := ctx.SwitchFile(binding.File)
		defer restore()
		result := a.d.Analyze(Request{
			Name:    req.Name,
			Node:    binding.Node,
			Context: ctx,
			Options: req.Options.deeper(),
		})
		if result == nil {
			return unknownTerminal(req.Name, name, req.Options)
		}
		result.IsOptional = result.IsOptional || req.Options.IsOptional
		return result
	}

	sym := ctx.Resolver.Resolve(name, ctx.File())
	if sym == nil {
		return unknownTerminal(req.Name, req.Node.Text(), req.Options)
	}
	ctx.AddDependency(sym.Target, name)

	if sym.Declaration == nil {
		// External symbol with no reachable declaration: opaque leaf, but
		// the dependency above is still recorded.
		return unknownTerminal(req.Name, req.Node.Text(), req.Options)
	}

	return a.d.expandDeclaration(req, sym.Declaration, req.Node.TypeArguments())
}

// analyzeNamespaced handles `ns.Member` references. The member is recorded
// against its namespace root for the import collector and the value itself
// stays opaque.
func (a *referenceAnalyzer) analyzeNamespaced(req Request, root, member string) *property.PropertyInfo {
	ctx := req.Context
	ctx.AddNamespaceMember(member, root)
	if sym := ctx.Resolver.Resolve(root, ctx.File()); sym != nil {
		ctx.AddDependency(sym.Target, root)
	}
	a.d.diags.Warnf(diagnostic.CategoryNamespace, req.Name,
		"namespace member %s is recorded but not expanded", req.Node.Text())

	return unknownTerminal(req.Name, req.Node.Text(), req.Options)
}

// expandDeclaration analyzes a resolved declaration's body in that
// declaration's own file, with the generic frame bound to the provided type
// arguments. A reference that is already being expanded yields a stub with
// an empty property list, which terminates cycles.
func (d *Dispatcher) expandDeclaration(req Request, decl *workspace.Declaration, typeArgs []typenode.Node) *property.PropertyInfo {
	ctx := req.Context

	release, ok := ctx.Enter(decl.Name)
	if !ok {
		return &property.PropertyInfo{
			Kind:         property.KindNonTerminal,
			Type:         property.TypeObject,
			Name:         req.Name,
			TypeAsString: req.Node.Text(),
			IsOptional:   req.Options.IsOptional,
			IsArray:      req.Options.IsArray,
			Properties:   []property.PropertyInfo{},
		}
	}
	defer release()

	return d.analyzeDeclaration(req, decl, typeArgs, req.Node.Text())
}

// analyzeDeclaration does the body analysis of expandDeclaration once the
// circular guard holds the declaration's name. display becomes the result's
// TypeAsString.
func (d *Dispatcher) analyzeDeclaration(req Request, decl *workspace.Declaration, typeArgs []typenode.Node, display string) *property.PropertyInfo {
	ctx := req.Context

	// Type arguments were written at the use site; capture that file before
	// switching so their references resolve where they were imported.
	useFile := ctx.File()
	restoreFile := ctx.SwitchFile(decl.File)
	defer restoreFile()

	params := decl.TypeParameters()
	if len(typeArgs) > len(params) {
		d.diags.Warnf(diagnostic.CategoryArity, decl.Name,
			"%s takes %d type parameters, got %d arguments; extras ignored", decl.Name, len(params), len(typeArgs))
	}
	frame := make(map[string]GenericBinding, len(params))
	for i, param := range params {
		if i < len(typeArgs) {
			frame[param.Name] = GenericBinding{Node: typeArgs[i], File: useFile}
			continue
		}
		frame[param.Name] = GenericBinding{Node: param.EffectiveType(), File: decl.File}
	}
	restoreGenerics := ctx.PushGenerics(frame)
	defer restoreGenerics()

	body := decl.Body()
	if !body.Valid() {
		return unknownTerminal(req.Name, display, req.Options)
	}

	result := d.Analyze(Request{
		Name:    req.Name,
		Node:    body,
		Context: ctx,
		Options: req.Options.deeper(),
	})
	if result == nil {
		return unknownTerminal(req.Name, display, req.Options)
	}

	// Interfaces inherit their extends clause: base properties first, own
	// members overriding by name.
	if heritage := decl.Node.HeritageTypes(); len(heritage) > 0 && result.IsObject() {
		var merged []property.PropertyInfo
		acceptsUnknown := result.AcceptsUnknownProperties
		for _, base := range heritage {
			baseResult := d.Analyze(Request{
				Node:    base,
				Context: ctx,
				Options: req.Options.deeper(),
			})
			if baseResult == nil || !baseResult.IsObject() {
				continue
			}
			merged = append(merged, baseResult.Properties...)
			acceptsUnknown = acceptsUnknown || baseResult.AcceptsUnknownProperties
		}
		merged = append(merged, result.Properties...)
		result.Properties = property.MergeProperties(merged)
		result.AcceptsUnknownProperties = acceptsUnknown
	}

	result.Name = req.Name
	result.TypeAsString = display
	result.IsOptional = result.IsOptional || req.Options.IsOptional
	result.IsArray = result.IsArray || req.Options.IsArray
	if d.includeDocs && result.Documentation == "" {
		result.Documentation = decl.Doc
	}
	return result
}
