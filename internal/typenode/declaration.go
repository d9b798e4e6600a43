package typenode

import "strings"

// IsDeclaration reports interface and type alias declarations, unwrapping a
// surrounding export statement.
func (n Node) IsDeclaration() bool {
	node := n.UnwrapExport()
	switch node.Kind() {
	case KindInterfaceDecl, KindTypeAliasDecl:
		return true
	}
	return false
}

// UnwrapExport steps through an export statement to the declaration it wraps.
func (n Node) UnwrapExport() Node {
	if n.Kind() != KindExportStatement {
		return n
	}
	if decl := n.field("declaration"); decl.Valid() {
		return decl
	}
	// Some grammar revisions expose the declaration as a plain named child.
	for _, child := range n.NamedChildren() {
		switch child.Kind() {
		case KindInterfaceDecl, KindTypeAliasDecl:
			return child
		}
	}
	return n
}

// IsDefaultExport reports an export statement carrying the `default`
// keyword, as in `export default interface Foo {}`.
func (n Node) IsDefaultExport() bool {
	if n.Kind() != KindExportStatement || n.ts == nil {
		return false
	}
	for i := uint(0); i < n.ts.ChildCount(); i++ {
		if n.child(i).Kind() == "default" {
			return true
		}
	}
	return false
}

// DeclarationName returns the declared name of an interface or type alias.
func (n Node) DeclarationName() string {
	return n.UnwrapExport().field("name").Text()
}

// DeclarationBody returns the analyzable body of a declaration: the member
// block for interfaces, the aliased type for type aliases.
func (n Node) DeclarationBody() Node {
	node := n.UnwrapExport()
	switch node.Kind() {
	case KindInterfaceDecl:
		if body := node.field("body"); body.Valid() {
			return body
		}
		// Fall back to the first object-shaped child.
		for _, child := range node.NamedChildren() {
			if child.IsObject() {
				return child
			}
		}
	case KindTypeAliasDecl:
		return node.field("value").Unwrap()
	}
	return Node{}
}

// TypeParameter is one declared generic parameter.
type TypeParameter struct {
	Name       string
	Constraint Node // the `extends` clause type, if any
	Default    Node // the `=` clause type, if any
}

// EffectiveType resolves the parameter for constraint/default purposes: the
// default clause wins over the extends constraint; neither leaves the
// parameter fully generic (invalid node).
func (p TypeParameter) EffectiveType() Node {
	if p.Default.Valid() {
		return p.Default
	}
	if p.Constraint.Valid() {
		return p.Constraint
	}
	return Node{}
}

// TypeParameters returns the declaration's own generic parameters in order.
func (n Node) TypeParameters() []TypeParameter {
	node := n.UnwrapExport()
	params := node.field("type_parameters")
	if !params.Valid() {
		return nil
	}
	var out []TypeParameter
	for _, child := range params.NamedChildren() {
		if child.Kind() != "type_parameter" {
			continue
		}
		param := TypeParameter{Name: child.field("name").Text()}
		if constraint := child.field("constraint"); constraint.Valid() {
			param.Constraint = constraint.namedChild(0).Unwrap()
		}
		if def := child.field("value"); def.Valid() {
			param.Default = def.namedChild(0).Unwrap()
		}
		out = append(out, param)
	}
	return out
}

// HeritageTypes returns the types named in an interface's extends clause.
func (n Node) HeritageTypes() []Node {
	node := n.UnwrapExport()
	if node.Kind() != KindInterfaceDecl {
		return nil
	}
	for _, child := range node.NamedChildren() {
		if child.Kind() == "extends_type_clause" {
			var types []Node
			for _, t := range child.NamedChildren() {
				if t.IsReference() {
					types = append(types, t)
				}
			}
			return types
		}
	}
	return nil
}

// Member is one data member of an object type or interface body.
type Member struct {
	Name     string
	Type     Node
	Optional bool
	IsIndex  bool
	Doc      string
}

// ObjectMembers walks the declared members of an object body, in order.
// Method and call signatures are not data properties and are skipped.
func (n Node) ObjectMembers() []Member {
	if !n.IsObject() {
		return nil
	}
	var members []Member
	for _, child := range n.NamedChildren() {
		switch child.Kind() {
		case KindPropertySignature:
			member := Member{
				Name:     memberName(child),
				Type:     child.field("type").Unwrap(),
				Optional: hasOptionalMarker(child),
				Doc:      child.DocComment(),
			}
			members = append(members, member)
		case KindIndexSignature:
			members = append(members, Member{
				Type:    child.field("type").Unwrap(),
				IsIndex: true,
			})
		}
	}
	return members
}

func memberName(n Node) string {
	name := n.field("name")
	if !name.Valid() {
		return ""
	}
	if name.Kind() == "string" {
		return unquote(name.Text())
	}
	return name.Text()
}

// hasOptionalMarker scans for the `?` token that follows an optional member's
// name.
func hasOptionalMarker(n Node) bool {
	if n.ts == nil {
		return false
	}
	for i := uint(0); i < n.ts.ChildCount(); i++ {
		if n.child(i).Kind() == "?" {
			return true
		}
	}
	return false
}

// DocComment returns the cleaned doc comment immediately preceding the node,
// or empty when none is attached.
func (n Node) DocComment() string {
	if n.ts == nil {
		return ""
	}
	prev := n.ts.PrevNamedSibling()
	if prev == nil {
		return ""
	}
	sibling := Node{ts: prev, src: n.src}
	if sibling.Kind() != KindComment {
		return ""
	}
	text := sibling.Text()
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return cleanDocComment(text)
}

func cleanDocComment(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
