package typenode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for typenode package:
// - Parse produces a navigable tree; Close is safe to call twice
// - Unwrap peels parenthesized types and type annotations
// - CompositionMembers flattens nested unions and intersections
// - LiteralValue decodes string, number, boolean, null literals
// - ElementType handles T[], Array<T>, ReadonlyArray<T>
// - NamespaceParts splits ns.Member references
// - TypeParameters captures constraint and default clauses
// - EffectiveType prefers the default over the constraint
// - ObjectMembers reports names, optionality, index signatures
// - DocComment attaches /** */ blocks and ignores line comments
// - UnwrapExport reaches the declaration inside an export statement

// parseType parses `type __t = <expr>` and returns the aliased type node.
func parseType(t *testing.T, expr string) Node {
	t.Helper()
	src, err := Parse([]byte("type __t = " + expr + ";"))
	require.NoError(t, err)
	t.Cleanup(src.Close)

	var alias Node
	for _, child := range src.Root().NamedChildren() {
		if child.Kind() == KindTypeAliasDecl {
			alias = child
		}
	}
	require.True(t, alias.Valid(), "no alias declaration parsed for %q", expr)
	return alias.DeclarationBody()
}

// parseDeclaration parses source and returns the named declaration node.
func parseDeclaration(t *testing.T, source, name string) Node {
	t.Helper()
	src, err := Parse([]byte(source))
	require.NoError(t, err)
	t.Cleanup(src.Close)

	for _, child := range src.Root().NamedChildren() {
		decl := child.UnwrapExport()
		if decl.IsDeclaration() && decl.DeclarationName() == name {
			return decl
		}
	}
	t.Fatalf("declaration %s not found", name)
	return Node{}
}

func TestParse_AndClose(t *testing.T) {
	src, err := Parse([]byte("interface A { x: string; }"))
	require.NoError(t, err)
	assert.True(t, src.Root().Valid())

	src.Close()
	src.Close() // idempotent
}

func TestUnwrap_PeelsParentheses(t *testing.T) {
	node := parseType(t, "((string))")
	assert.Equal(t, KindPredefinedType, node.Kind())
	assert.Equal(t, "string", node.Text())

	// Unwrap on an already-bare node is a no-op.
	assert.Equal(t, node.Kind(), node.Unwrap().Kind())
}

func TestCompositionMembers_FlattensNestedUnions(t *testing.T) {
	node := parseType(t, "string | (number | boolean) | null")
	require.True(t, node.IsUnion())

	members := node.CompositionMembers()
	require.Len(t, members, 4)
	assert.Equal(t, "string", members[0].Text())
	assert.Equal(t, "number", members[1].Text())
	assert.Equal(t, "boolean", members[2].Text())
	assert.True(t, members[3].IsNullish())
}

func TestCompositionMembers_Intersection(t *testing.T) {
	node := parseType(t, "A & B & C")
	require.True(t, node.IsIntersection())
	assert.Len(t, node.CompositionMembers(), 3)
}

func TestLiteralValue_Decoding(t *testing.T) {
	tests := []struct {
		expr  string
		value any
		tag   string
	}{
		{`"active"`, "active", "string"},
		{`42`, float64(42), "number"},
		{`-1.5`, float64(-1.5), "number"},
		{`true`, true, "boolean"},
		{`false`, false, "boolean"},
		{`null`, nil, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			node := parseType(t, tt.expr)
			require.True(t, node.IsLiteral(), "expected literal_type for %q, got %s", tt.expr, node.Kind())

			value, tag, ok := node.LiteralValue()
			require.True(t, ok)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.tag, tag)
		})
	}
}

func TestElementType_ArrayForms(t *testing.T) {
	for _, expr := range []string{"string[]", "Array<string>", "ReadonlyArray<string>"} {
		t.Run(expr, func(t *testing.T) {
			node := parseType(t, expr)
			require.True(t, node.IsArray(), "expected array form for %q", expr)

			element := node.ElementType()
			require.True(t, element.Valid())
			assert.Equal(t, "string", element.Text())
		})
	}
}

func TestNamespaceParts_SplitsQualifiedNames(t *testing.T) {
	node := parseType(t, "Express.Request")
	root, member, ok := node.NamespaceParts()
	require.True(t, ok)
	assert.Equal(t, "Express", root)
	assert.Equal(t, "Request", member)

	plain := parseType(t, "User")
	_, _, ok = plain.NamespaceParts()
	assert.False(t, ok)
}

func TestTypeParameters_ConstraintAndDefault(t *testing.T) {
	decl := parseDeclaration(t, "interface Box<T extends string, U = number, V> { value: T; }", "Box")

	params := decl.TypeParameters()
	require.Len(t, params, 3)

	assert.Equal(t, "T", params[0].Name)
	require.True(t, params[0].Constraint.Valid())
	assert.Equal(t, "string", params[0].Constraint.Text())
	assert.False(t, params[0].Default.Valid())

	assert.Equal(t, "U", params[1].Name)
	require.True(t, params[1].Default.Valid())
	assert.Equal(t, "number", params[1].Default.Text())

	assert.Equal(t, "V", params[2].Name)
	assert.False(t, params[2].Constraint.Valid())
	assert.False(t, params[2].Default.Valid())
}

func TestEffectiveType_DefaultBeatsConstraint(t *testing.T) {
	decl := parseDeclaration(t, "interface P<T extends string = number> { value: T; }", "P")

	params := decl.TypeParameters()
	require.Len(t, params, 1)
	assert.Equal(t, "number", params[0].EffectiveType().Text())
}

func TestObjectMembers_NamesOptionalityAndIndex(t *testing.T) {
	decl := parseDeclaration(t, `
interface Shape {
  id: string;
  label?: string;
  "quoted-name": number;
  [key: string]: unknown;
  render(): void;
}`, "Shape")

	members := decl.DeclarationBody().ObjectMembers()
	require.Len(t, members, 4) // the method is skipped

	assert.Equal(t, "id", members[0].Name)
	assert.False(t, members[0].Optional)

	assert.Equal(t, "label", members[1].Name)
	assert.True(t, members[1].Optional)

	assert.Equal(t, "quoted-name", members[2].Name)

	assert.True(t, members[3].IsIndex)
	assert.Empty(t, members[3].Name)
}

func TestDocComment_AttachesDocBlocks(t *testing.T) {
	decl := parseDeclaration(t, `
interface Doc {
  /** The display name. */
  name: string;
  // not a doc comment
  other: string;
}`, "Doc")

	members := decl.DeclarationBody().ObjectMembers()
	require.Len(t, members, 2)
	assert.Equal(t, "The display name.", members[0].Doc)
	assert.Empty(t, members[1].Doc)
}

func TestUnwrapExport_ReachesDeclaration(t *testing.T) {
	src, err := Parse([]byte("export interface Exported { x: string; }"))
	require.NoError(t, err)
	t.Cleanup(src.Close)

	children := src.Root().NamedChildren()
	require.NotEmpty(t, children)
	require.Equal(t, KindExportStatement, children[0].Kind())

	decl := children[0].UnwrapExport()
	assert.Equal(t, KindInterfaceDecl, decl.Kind())
	assert.Equal(t, "Exported", decl.DeclarationName())
}
