package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/workspace"
)

// Test Plan for the extraction engine:
// - Primitive, literal, and array members normalize to terminals
// - Optional members and nullish unions surface as isOptional
// - Multi-member unions become composites with synthetic children
// - Intersections merge object members, later members winning
// - Non-object intersection members fold in as synthetic properties
// - Interface extends clauses merge base-then-own
// - References resolve across files and record dependencies
// - Unresolved references degrade to unknown terminals with a diagnostic
// - Circular references terminate with an empty property list
// - Generic parameters bind to arguments, defaults, then constraints
// - Generic arguments resolve against the file that wrote them
// - Engine options cap depth, widen whole-file runs, and drop docs
// - Member doc comments carry into the normalized tree
// - Index signatures set acceptsUnknownProperties
// - Whole-file analysis covers every exported declaration

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// analyze spins up a project around the given files and normalizes typeName
// from the first file.
func analyze(t *testing.T, typeName string, files map[string]string) (*Result, *diagnostic.Collector) {
	t.Helper()
	dir := t.TempDir()
	var first string
	for name, content := range files {
		path := writeFile(t, dir, name, content)
		if name == "main.ts" {
			first = path
		}
	}
	require.NotEmpty(t, first, "fixtures must include main.ts")

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)

	diags := diagnostic.NewCollector(nil)
	engine := NewEngine(project, diags)

	file, err := project.LoadFile(first)
	require.NoError(t, err)

	result, err := engine.AnalyzeNamedType(file, typeName)
	require.NoError(t, err)
	require.NotNil(t, result.Property)
	return result, diags
}

func analyzeOne(t *testing.T, typeName, source string) *property.PropertyInfo {
	t.Helper()
	result, _ := analyze(t, typeName, map[string]string{"main.ts": source})
	return result.Property
}

func TestAnalyze_PrimitivesAndLiterals(t *testing.T) {
	root := analyzeOne(t, "Sample", `
export interface Sample {
  id: string;
  count: number;
  enabled: boolean;
  mode: "strict";
  limit: 10;
  anything: any;
}`)

	require.True(t, root.IsObject())
	assert.Equal(t, property.KindNonTerminal, root.Kind)
	require.Len(t, root.Properties, 6)

	assert.Equal(t, property.TypeString, root.Property("id").Type)
	assert.Equal(t, property.TypeNumber, root.Property("count").Type)
	assert.Equal(t, property.TypeBoolean, root.Property("enabled").Type)

	mode := root.Property("mode")
	assert.Equal(t, property.TypeString, mode.Type)
	assert.Equal(t, "strict", mode.Value)

	limit := root.Property("limit")
	assert.Equal(t, property.TypeNumber, limit.Type)
	assert.Equal(t, float64(10), limit.Value)

	assert.Equal(t, property.TypeUnknown, root.Property("anything").Type)
}

func TestAnalyze_OptionalAndArrays(t *testing.T) {
	root := analyzeOne(t, "Sample", `
export interface Sample {
  label?: string;
  tags: string[];
  rows: Array<number>;
  grids: ReadonlyArray<boolean>;
}`)

	assert.True(t, root.Property("label").IsOptional)
	assert.False(t, root.Property("label").IsArray)

	tags := root.Property("tags")
	assert.True(t, tags.IsArray)
	assert.Equal(t, property.TypeString, tags.Type)

	assert.True(t, root.Property("rows").IsArray)
	assert.Equal(t, property.TypeNumber, root.Property("rows").Type)
	assert.True(t, root.Property("grids").IsArray)
}

func TestAnalyze_NullishUnionBecomesOptional(t *testing.T) {
	root := analyzeOne(t, "Sample", `
export interface Sample {
  name: string | null;
  nick: string | undefined;
  gone: null | undefined;
}`)

	name := root.Property("name")
	assert.Equal(t, property.TypeString, name.Type)
	assert.True(t, name.IsOptional)
	assert.Equal(t, property.KindTerminal, name.Kind)

	assert.True(t, root.Property("nick").IsOptional)

	gone := root.Property("gone")
	assert.Equal(t, property.TypeUnknown, gone.Type)
	assert.True(t, gone.IsOptional)
}

func TestAnalyze_MultiMemberUnion(t *testing.T) {
	root := analyzeOne(t, "Sample", `
export interface Sample {
  status: "active" | "closed" | "archived";
}`)

	status := root.Property("status")
	require.NotNil(t, status)
	assert.Equal(t, property.KindNonTerminal, status.Kind)
	assert.Equal(t, property.TypeUnion, status.Type)
	require.Len(t, status.Properties, 3)

	// Union members are synthetic: positional, unnamed.
	for _, member := range status.Properties {
		assert.Empty(t, member.Name)
	}
	assert.Equal(t, "active", status.Properties[0].Value)
	assert.Equal(t, "archived", status.Properties[2].Value)
}

func TestAnalyze_IntersectionMergesLastWins(t *testing.T) {
	root := analyzeOne(t, "Merged", `
interface Base { id: string; shared: string; }
interface Extra { shared: number; extra: boolean; }
export type Merged = Base & Extra;
`)

	require.True(t, root.IsObject())
	assert.Equal(t, []string{"id", "shared", "extra"}, root.PropertyNames())
	// Extra's "shared" replaces Base's.
	assert.Equal(t, property.TypeNumber, root.Property("shared").Type)
}

func TestAnalyze_IntersectionFoldsNonObjectMembers(t *testing.T) {
	root := analyzeOne(t, "Odd", `export type Odd = { a: string } & string;`)

	require.True(t, root.IsObject())
	require.Len(t, root.Properties, 2)
	assert.Equal(t, "a", root.Properties[0].Name)
	assert.Empty(t, root.Properties[1].Name)
	assert.Equal(t, property.TypeString, root.Properties[1].Type)
}

func TestAnalyze_InterfaceExtends(t *testing.T) {
	root := analyzeOne(t, "Child", `
interface Parent { id: string; kind: string; }
export interface Child extends Parent { kind: "child"; own: number; }
`)

	require.True(t, root.IsObject())
	assert.Equal(t, []string{"id", "kind", "own"}, root.PropertyNames())
	// The child's narrowing of "kind" wins over the parent's.
	assert.Equal(t, "child", root.Property("kind").Value)
}

func TestAnalyze_CrossFileReference(t *testing.T) {
	result, _ := analyze(t, "Profile", map[string]string{
		"main.ts": `
import { Account } from "./models";
export interface Profile { account: Account; }`,
		"models.ts": `export interface Account { id: string; active: boolean; }`,
	})

	account := result.Property.Property("account")
	require.NotNil(t, account)
	require.True(t, account.IsObject())
	assert.Equal(t, "Account", account.TypeAsString)
	assert.Equal(t, []string{"id", "active"}, account.PropertyNames())

	require.Len(t, result.Dependencies, 1)
	assert.Equal(t, "Account", result.Dependencies[0].Dependency)
	assert.Equal(t, property.TargetLocal, result.Dependencies[0].Target.Kind)
}

func TestAnalyze_UnresolvedReference(t *testing.T) {
	result, diags := analyze(t, "Sample", map[string]string{
		"main.ts": `export interface Sample { value: Mystery; }`,
	})

	value := result.Property.Property("value")
	require.NotNil(t, value)
	assert.Equal(t, property.KindTerminal, value.Kind)
	assert.Equal(t, property.TypeUnknown, value.Type)
	assert.Equal(t, "Mystery", value.TypeAsString)

	require.NotEmpty(t, diags.Entries())
	assert.Equal(t, diagnostic.CategoryUnresolved, diags.Entries()[0].Category)
}

func TestAnalyze_CircularReferenceTerminates(t *testing.T) {
	root := analyzeOne(t, "Tree", `
export interface Tree {
  value: string;
  children: Tree[];
  parent?: Tree;
}`)

	require.True(t, root.IsObject())

	children := root.Property("children")
	require.NotNil(t, children)
	assert.True(t, children.IsArray)
	// The nested in-progress expansion stops with an empty property list.
	assert.Equal(t, property.TypeObject, children.Type)
	assert.Empty(t, children.Properties)

	parent := root.Property("parent")
	require.NotNil(t, parent)
	assert.True(t, parent.IsOptional)
	assert.Empty(t, parent.Properties)
}

func TestAnalyze_MutuallyCircularReferences(t *testing.T) {
	root := analyzeOne(t, "Ping", `
export interface Ping { pong: Pong; }
export interface Pong { ping: Ping; }
`)

	pong := root.Property("pong")
	require.NotNil(t, pong)
	require.True(t, pong.IsObject())

	ping := pong.Property("ping")
	require.NotNil(t, ping)
	assert.Empty(t, ping.Properties)
}

func TestAnalyze_GenericDefaultPreferredOverConstraint(t *testing.T) {
	root := analyzeOne(t, "Box", `
export interface Box<T extends number = string> { value: T; }
`)

	value := root.Property("value")
	require.NotNil(t, value)
	assert.Equal(t, property.TypeString, value.Type)
}

func TestAnalyze_GenericConstraintWhenNoDefault(t *testing.T) {
	root := analyzeOne(t, "Box", `
export interface Box<T extends number> { value: T; }
`)

	assert.Equal(t, property.TypeNumber, root.Property("value").Type)
}

func TestAnalyze_BareGenericIsUnknown(t *testing.T) {
	root := analyzeOne(t, "Box", `
export interface Box<T> { value: T; }
`)

	value := root.Property("value")
	assert.Equal(t, property.TypeUnknown, value.Type)
	assert.Equal(t, "T", value.TypeAsString)
}

func TestAnalyze_GenericInstantiationBindsArguments(t *testing.T) {
	root := analyzeOne(t, "Holder", `
interface Wrapper<T> { value: T; }
export type Holder = Wrapper<boolean>;
`)

	require.True(t, root.IsObject())
	assert.Equal(t, property.TypeBoolean, root.Property("value").Type)
}

func TestAnalyze_GenericParameterNotADependency(t *testing.T) {
	result, _ := analyze(t, "Box", map[string]string{
		"main.ts": `export interface Box<T> { value: T; }`,
	})

	assert.Empty(t, result.Dependencies)
}

func TestAnalyze_DocCommentsCarryOver(t *testing.T) {
	result, _ := analyze(t, "Doc", map[string]string{
		"main.ts": `
/** A documented type. */
export interface Doc {
  /** The identifier. */
  id: string;
}`,
	})

	assert.Equal(t, "A documented type.", result.Property.Documentation)
	assert.Equal(t, "The identifier.", result.Property.Property("id").Documentation)
}

func TestAnalyze_IndexSignature(t *testing.T) {
	root := analyzeOne(t, "Open", `
export interface Open {
  known: string;
  [key: string]: unknown;
}`)

	assert.True(t, root.AcceptsUnknownProperties)
	require.Len(t, root.Properties, 1)
	assert.Equal(t, "known", root.Properties[0].Name)
}

func TestAnalyze_NamespaceMemberRecordedOpaque(t *testing.T) {
	result, diags := analyze(t, "Handler", map[string]string{
		"main.ts": `
import * as express from "express";
export interface Handler { request: express.Request; }`,
	})

	request := result.Property.Property("request")
	require.NotNil(t, request)
	assert.Equal(t, property.TypeUnknown, request.Type)
	assert.Equal(t, "express.Request", request.TypeAsString)

	assert.Equal(t, "express", result.NamespaceMembers["Request"])

	found := false
	for _, d := range diags.Entries() {
		if d.Category == diagnostic.CategoryNamespace {
			found = true
		}
	}
	assert.True(t, found, "expected a namespace diagnostic")
}

func TestAnalyzeFile_CoversExportedDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ts", `
export interface A { x: string; }
export type B = number;
interface Internal { y: string; }
`)

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)
	engine := NewEngine(project, diagnostic.NewCollector(nil))

	results, err := engine.AnalyzeFile(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Declaration.Name)
	assert.Equal(t, "B", results[1].Declaration.Name)
	assert.Equal(t, property.TypeNumber, results[1].Property.Type)
}

func TestAnalyzeNamedType_UnknownName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ts", "export interface A { x: string; }")

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)
	engine := NewEngine(project, diagnostic.NewCollector(nil))

	file, err := project.LoadFile(path)
	require.NoError(t, err)

	_, err = engine.AnalyzeNamedType(file, "Nope")
	assert.Error(t, err)
}

func TestAnalyze_ExternalModuleDependency(t *testing.T) {
	result, _ := analyze(t, "App", map[string]string{
		"main.ts": `
import { Widget } from "widgets";
export interface App { widget: Widget; }`,
		"node_modules/widgets/index.d.ts": `export interface Widget { id: string; }`,
	})

	widget := result.Property.Property("widget")
	require.NotNil(t, widget)
	require.True(t, widget.IsObject())

	require.Len(t, result.Dependencies, 1)
	dep := result.Dependencies[0]
	assert.Equal(t, "Widget", dep.Dependency)
	assert.Equal(t, property.TargetModule, dep.Target.Kind)
	assert.Equal(t, "widgets", dep.Target.Name)
}

func TestAnalyze_GenericArgumentResolvesAtUseSite(t *testing.T) {
	result, _ := analyze(t, "Holder", map[string]string{
		"main.ts": `
import { Account } from "./account";
import { Wrapper } from "./wrapper";
export type Holder = Wrapper<Account>;
`,
		"account.ts": `export interface Account { id: string; }`,
		"wrapper.ts": `export interface Wrapper<T> { value: T; }`,
	})

	// Account is imported by main.ts, not by wrapper.ts; the argument must
	// still resolve where it was written.
	value := result.Property.Property("value")
	require.NotNil(t, value)
	require.True(t, value.IsObject())
	assert.Equal(t, property.TypeString, value.Property("id").Type)

	names := make([]string, 0, len(result.Dependencies))
	for _, dep := range result.Dependencies {
		names = append(names, dep.Dependency)
	}
	assert.Contains(t, names, "Account")
	assert.Contains(t, names, "Wrapper")
}

func TestEngine_MaxDepthOption(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ts", `
export interface Deep { a: { b: { c: string } } }
`)

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)
	opts := DefaultEngineOptions()
	opts.MaxDepth = 2
	engine := NewEngineWith(project, diagnostic.NewCollector(nil), opts)

	file, err := project.LoadFile(path)
	require.NoError(t, err)
	result, err := engine.AnalyzeNamedType(file, "Deep")
	require.NoError(t, err)

	a := result.Property.Property("a")
	require.NotNil(t, a)
	require.True(t, a.IsObject())

	b := a.Property("b")
	require.NotNil(t, b)
	assert.Equal(t, property.KindTerminal, b.Kind)
	assert.Equal(t, property.TypeUnknown, b.Type)
}

func TestAnalyzeFile_AllDeclarationsWhenNotExportedOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ts", `
export interface Pub { id: string; }
interface Priv { hidden: boolean; }
`)

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)
	opts := DefaultEngineOptions()
	opts.ExportedOnly = false
	engine := NewEngineWith(project, diagnostic.NewCollector(nil), opts)

	results, err := engine.AnalyzeFile(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Pub", results[0].Declaration.Name)
	assert.Equal(t, "Priv", results[1].Declaration.Name)
}

func TestEngine_IncludeDocsOff(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ts", `
/** A documented type. */
export interface Doc {
  /** The identifier. */
  id: string;
}
`)

	project := workspace.NewProject(dir)
	t.Cleanup(project.Close)
	opts := DefaultEngineOptions()
	opts.IncludeDocs = false
	engine := NewEngineWith(project, diagnostic.NewCollector(nil), opts)

	file, err := project.LoadFile(path)
	require.NoError(t, err)
	result, err := engine.AnalyzeNamedType(file, "Doc")
	require.NoError(t, err)

	assert.Empty(t, result.Property.Documentation)
	assert.Empty(t, result.Property.Property("id").Documentation)
}
