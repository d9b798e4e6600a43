// Package typenode wraps tree-sitter TypeScript syntax nodes with the
// syntactic kind tests and navigation the extraction engine dispatches on.
package typenode

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Tree-sitter node kinds the engine recognizes.
const (
	KindPredefinedType       = "predefined_type"
	KindLiteralType          = "literal_type"
	KindArrayType            = "array_type"
	KindUnionType            = "union_type"
	KindIntersectionType     = "intersection_type"
	KindGenericType          = "generic_type"
	KindTypeIdentifier       = "type_identifier"
	KindNestedTypeIdentifier = "nested_type_identifier"
	KindObjectType           = "object_type"
	KindInterfaceBody        = "interface_body"
	KindParenthesizedType    = "parenthesized_type"
	KindTypeAnnotation       = "type_annotation"
	KindPropertySignature    = "property_signature"
	KindIndexSignature       = "index_signature"
	KindInterfaceDecl        = "interface_declaration"
	KindTypeAliasDecl        = "type_alias_declaration"
	KindExportStatement      = "export_statement"
	KindImportStatement      = "import_statement"
	KindComment              = "comment"
)

// Generic wrapper names that denote array syntax rather than a nameable type.
var arrayWrapperNames = map[string]bool{
	"Array":         true,
	"ReadonlyArray": true,
}

// Source holds one parsed TypeScript source buffer. The underlying tree must
// stay alive for as long as nodes derived from it are in use; Close releases
// it.
type Source struct {
	tree  *sitter.Tree
	bytes []byte
}

// Parse parses TypeScript source text.
func Parse(source []byte) (*Source, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("configuring typescript grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source")
	}

	return &Source{tree: tree, bytes: source}, nil
}

// Root returns the root node of the parse tree.
func (s *Source) Root() Node {
	return Node{ts: s.tree.RootNode(), src: s.bytes}
}

// Bytes returns the raw source buffer.
func (s *Source) Bytes() []byte {
	return s.bytes
}

// Close releases the parse tree.
func (s *Source) Close() {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
}

// Node is one syntactic type node. The zero value is invalid; callers check
// Valid before navigating.
type Node struct {
	ts  *sitter.Node
	src []byte
}

// Wrap builds a Node from a raw tree-sitter node and its source buffer.
func Wrap(ts *sitter.Node, src []byte) Node {
	return Node{ts: ts, src: src}
}

// Valid reports whether the node exists.
func (n Node) Valid() bool { return n.ts != nil }

// Kind returns the tree-sitter node kind.
func (n Node) Kind() string {
	if n.ts == nil {
		return ""
	}
	return n.ts.Kind()
}

// Text renders the original source text of the node.
func (n Node) Text() string {
	if n.ts == nil {
		return ""
	}
	return string(n.src[n.ts.StartByte():n.ts.EndByte()])
}

// StartLine returns the 1-indexed line of the node.
func (n Node) StartLine() int {
	if n.ts == nil {
		return 0
	}
	return int(n.ts.StartPosition().Row) + 1
}

func (n Node) child(i uint) Node {
	return Node{ts: n.ts.Child(i), src: n.src}
}

func (n Node) namedChild(i uint) Node {
	return Node{ts: n.ts.NamedChild(i), src: n.src}
}

func (n Node) field(name string) Node {
	if n.ts == nil {
		return Node{}
	}
	return Node{ts: n.ts.ChildByFieldName(name), src: n.src}
}

// NamedChildren returns all named children.
func (n Node) NamedChildren() []Node {
	if n.ts == nil {
		return nil
	}
	count := n.ts.NamedChildCount()
	children := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		children = append(children, n.namedChild(i))
	}
	return children
}

// Unwrap peels parenthesized types and type annotations down to the
// underlying type node.
func (n Node) Unwrap() Node {
	node := n
	for node.Valid() {
		switch node.Kind() {
		case KindParenthesizedType, KindTypeAnnotation:
			node = node.namedChild(0)
		default:
			return node
		}
	}
	return node
}

// IsPredefined reports string/number/boolean/any/unknown/... keywords.
func (n Node) IsPredefined() bool { return n.Kind() == KindPredefinedType }

// IsLiteral reports literal type forms ("a", 42, true, null).
func (n Node) IsLiteral() bool { return n.Kind() == KindLiteralType }

// IsUnion reports a union composition.
func (n Node) IsUnion() bool { return n.Kind() == KindUnionType }

// IsIntersection reports an intersection composition.
func (n Node) IsIntersection() bool { return n.Kind() == KindIntersectionType }

// IsObject reports an inline object type or interface body.
func (n Node) IsObject() bool {
	k := n.Kind()
	return k == KindObjectType || k == KindInterfaceBody
}

// IsReference reports a named type reference, with or without type arguments.
func (n Node) IsReference() bool {
	switch n.Kind() {
	case KindTypeIdentifier, KindNestedTypeIdentifier, KindGenericType:
		return true
	}
	return false
}

// IsGeneric reports a reference carrying type arguments.
func (n Node) IsGeneric() bool { return n.Kind() == KindGenericType }

// IsArray reports bracket-array syntax or one of the generic array wrappers.
func (n Node) IsArray() bool {
	if n.Kind() == KindArrayType {
		return true
	}
	return n.Kind() == KindGenericType && arrayWrapperNames[n.BaseName()]
}

// BaseName returns the referenced name for reference nodes: the full dotted
// path for namespaced references and the wrapper name for generic references.
func (n Node) BaseName() string {
	switch n.Kind() {
	case KindTypeIdentifier, KindNestedTypeIdentifier:
		return n.Text()
	case KindGenericType:
		return n.field("name").Text()
	}
	return ""
}

// NamespaceParts splits a namespaced reference (Namespace.Member) into its
// root and member names. ok is false for plain references.
func (n Node) NamespaceParts() (root, member string, ok bool) {
	target := n
	if n.Kind() == KindGenericType {
		target = n.field("name")
	}
	if target.Kind() != KindNestedTypeIdentifier {
		return "", "", false
	}
	root = target.field("module").Text()
	member = target.field("name").Text()
	if root == "" || member == "" {
		// Older grammar revisions expose the parts positionally.
		text := target.Text()
		idx := strings.LastIndex(text, ".")
		if idx < 0 {
			return "", "", false
		}
		return text[:idx], text[idx+1:], true
	}
	return root, member, true
}

// TypeArguments returns the type arguments of a generic reference in order.
func (n Node) TypeArguments() []Node {
	if n.Kind() != KindGenericType {
		return nil
	}
	args := n.field("type_arguments")
	if !args.Valid() {
		return nil
	}
	return args.NamedChildren()
}

// ElementType returns the element of an array form: the wrapped type for
// bracket syntax, the first type argument for generic wrappers. Invalid when
// the wrapper is malformed.
func (n Node) ElementType() Node {
	switch {
	case n.Kind() == KindArrayType:
		return n.namedChild(0).Unwrap()
	case n.Kind() == KindGenericType && arrayWrapperNames[n.BaseName()]:
		args := n.TypeArguments()
		if len(args) == 0 {
			return Node{}
		}
		return args[0].Unwrap()
	}
	return Node{}
}

// CompositionMembers returns the flattened members of a union or intersection
// node. Nested compositions of the same kind are folded into one list, so
// `a | b | c` yields three members regardless of parse nesting.
func (n Node) CompositionMembers() []Node {
	kind := n.Kind()
	if kind != KindUnionType && kind != KindIntersectionType {
		return nil
	}
	var members []Node
	var flatten func(node Node)
	flatten = func(node Node) {
		for _, child := range node.NamedChildren() {
			child = child.Unwrap()
			if child.Kind() == kind {
				flatten(child)
				continue
			}
			members = append(members, child)
		}
	}
	flatten(n)
	return members
}

// LiteralValue returns the constant behind a literal type node along with its
// semantic tag. ok is false when the node is not a recognizable literal.
func (n Node) LiteralValue() (value any, tag string, ok bool) {
	if n.Kind() != KindLiteralType {
		return nil, "", false
	}
	inner := n.namedChild(0)
	if !inner.Valid() {
		return nil, "", false
	}
	switch inner.Kind() {
	case "string":
		return unquote(inner.Text()), "string", true
	case "number":
		return parseNumber(inner.Text())
	case "unary_expression":
		// Signed numeric literal.
		return parseNumber(inner.Text())
	case "true":
		return true, "boolean", true
	case "false":
		return false, "boolean", true
	case "null":
		return nil, "null", true
	case "undefined":
		return nil, "undefined", true
	}
	return nil, "", false
}

// IsNullish reports null/undefined members, whether written as literal types
// or bare keywords inside a union.
func (n Node) IsNullish() bool {
	switch n.Kind() {
	case "null", "undefined":
		return true
	case KindLiteralType:
		_, tag, ok := n.LiteralValue()
		return ok && (tag == "null" || tag == "undefined")
	}
	return false
}

// FieldText returns the text of the node's field child, or empty.
func FieldText(n Node, field string) string {
	return n.field(field).Text()
}

// HasKeywordChild reports an anonymous keyword token (e.g. the `type` of a
// type-only import) among the node's direct children.
func HasKeywordChild(n Node, keyword string) bool {
	if n.ts == nil {
		return false
	}
	for i := uint(0); i < n.ts.ChildCount(); i++ {
		child := n.ts.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == keyword {
			return true
		}
	}
	return false
}

func parseNumber(text string) (any, string, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, "", false
	}
	return f, "number", true
}

func unquote(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return text[1 : len(text)-1]
		}
	}
	return text
}
