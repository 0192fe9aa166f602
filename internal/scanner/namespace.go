package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// namespaceScanner finds namespaces: object-literal declarations
// annotated @namespace, and object-literal assignments whose target is
// rooted at a namespace already seen in this document. A namespace
// candidate whose name cannot be statically folded is an error.
type namespaceScanner struct {
	knownRoots map[string]bool

	features []model.ScannedFeature
	warnings []model.Warning
}

func newNamespaceScanner() *namespaceScanner {
	return &namespaceScanner{knownRoots: make(map[string]bool)}
}

func (s *namespaceScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	// Only program-level statements declare namespaces.
	if p := node.Parent(); p == nil || p.Kind() != "program" {
		return
	}

	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		s.enterDeclaration(node, doc)
	case "expression_statement":
		s.enterAssignment(node, doc)
	}
}

func (s *namespaceScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *namespaceScanner) Finish(*parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	return s.features, s.warnings
}

func (s *namespaceScanner) enterDeclaration(stmt *sitter.Node, doc *parser.JSDocument) {
	src := doc.Source()
	dc, hasDoc := docCommentBefore(stmt, src)
	if !hasDoc || !dc.Has("namespace") {
		return
	}

	for i := uint(0); i < stmt.ChildCount(); i++ {
		decl := stmt.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value == nil || value.Kind() != "object" {
			continue
		}
		name := ""
		if n := decl.ChildByFieldName("name"); n != nil && n.Kind() == "identifier" {
			name = nodeText(n, src)
		}
		if ann, ok := dc.Get("namespace"); ok && ann.Name != "" {
			name = ann.Name
		}
		if name == "" {
			s.nameError(stmt, doc)
			return
		}
		s.emit(name, dc, stmt, doc)
		return
	}
}

func (s *namespaceScanner) enterAssignment(stmt *sitter.Node, doc *parser.JSDocument) {
	src := doc.Source()
	assign := firstChildOfKind(stmt, "assignment_expression")
	if assign == nil {
		return
	}
	right := assign.ChildByFieldName("right")
	if right == nil || right.Kind() != "object" {
		return
	}
	left := assign.ChildByFieldName("left")
	name, folded := foldStaticName(left, src)

	dc, hasDoc := docCommentBefore(stmt, src)
	annotated := hasDoc && dc.Has("namespace")

	if annotated {
		if ann, ok := dc.Get("namespace"); ok && ann.Name != "" {
			s.emit(ann.Name, dc, stmt, doc)
			return
		}
		if !folded {
			s.nameError(stmt, doc)
			return
		}
		s.emit(name, dc, stmt, doc)
		return
	}

	if !folded {
		// Looks like a namespace assignment but the subscript is not
		// a literal; nothing can be named here.
		s.nameError(stmt, doc)
		return
	}
	if s.knownRoots[rootSegment(name)] {
		s.emit(name, DocComment{}, stmt, doc)
	}
}

func (s *namespaceScanner) emit(name string, dc DocComment, stmt *sitter.Node, doc *parser.JSDocument) {
	r := doc.RangeForNode(stmt)
	s.knownRoots[rootSegment(name)] = true
	s.features = append(s.features, &model.ScannedNamespace{
		Name:        name,
		Description: dc.Description,
		Summary:     dc.Summary(),
		Range:       r,
		Declaration: &r,
	})
}

func (s *namespaceScanner) nameError(stmt *sitter.Node, doc *parser.JSDocument) {
	s.warnings = append(s.warnings, model.Warning{
		Code:     model.WarnDynamicNamespaceNoName,
		Message:  "Unable to determine name for @namespace: only string literal subscripts fold statically",
		Severity: model.SeverityError,
		Range:    doc.RangeForNode(stmt),
		Parsed:   doc,
	})
}

func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}
