package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/parser"
)

// classScanner finds custom elements declared in class form: classes
// annotated @customElement/@polymerElement, and classes wired up
// through customElements.define. The tag name comes from the static
// `is` getter or from the define call; the @extends annotation wins
// over the extends clause when both are present.
type classScanner struct {
	decls map[string]model.SourceRange

	classes []*classInfo
	defines []defineInfo

	warnings []model.Warning
}

type classInfo struct {
	name       string
	doc        DocComment
	hasDoc     bool
	superNode  *sitter.Node
	superName  string
	mixinNames []string
	isTag      string
	attributes []model.ScannedAttribute
	properties []model.ScannedProperty
	methods    []model.ScannedMethod
	rng        model.SourceRange
	declRange  *model.SourceRange
	emitted    bool
}

type defineInfo struct {
	tag       string
	className string
	rng       model.SourceRange
}

func newClassScanner() *classScanner { return &classScanner{} }

func (s *classScanner) Enter(node *sitter.Node, doc *parser.JSDocument, decls map[string]model.SourceRange) {
	if s.decls == nil {
		s.decls = decls
	}
	switch node.Kind() {
	case "class_declaration", "class":
		// The anonymous `class` keyword token shares its kind name with
		// class expressions; only the named node is a class.
		if node.IsNamed() {
			s.enterClass(node, doc)
		}
	case "call_expression":
		s.enterCall(node, doc)
	}
}

func (s *classScanner) Leave(*sitter.Node, *parser.JSDocument) {}

func (s *classScanner) enterClass(node *sitter.Node, doc *parser.JSDocument) {
	src := doc.Source()
	info := &classInfo{
		rng:       doc.RangeForNode(node),
		declRange: declarationRangeOf(node, doc),
	}

	if name := node.ChildByFieldName("name"); name != nil {
		info.name = nodeText(name, src)
	}

	docNode := node
	// For `const X = class ...` and `var X = Polymer.Class(...)` the
	// comment sits on the enclosing statement.
	if stmt := enclosingStatement(node); stmt != nil && node.Parent() != nil && node.Parent().Kind() != "program" {
		docNode = stmt
	}
	if dc, ok := docCommentBefore(docNode, src); ok {
		info.doc = dc
		info.hasDoc = true
	} else if dc, ok := docCommentBefore(node, src); ok {
		info.doc = dc
		info.hasDoc = true
	}

	// Unnamed class expressions bound by a declarator inherit its name.
	if info.name == "" {
		if p := node.Parent(); p != nil && p.Kind() == "variable_declarator" {
			if name := p.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				info.name = nodeText(name, src)
			}
		}
	}

	s.scanHeritage(node, src, info)
	s.scanClassBody(node, doc, info)

	s.classes = append(s.classes, info)
}

// scanHeritage unwraps `extends Mixin1(Mixin2(Base))` into the mixin
// application chain plus the innermost superclass.
func (s *classScanner) scanHeritage(node *sitter.Node, src []byte, info *classInfo) {
	var heritage *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "class_heritage" {
			heritage = child
			break
		}
	}
	if heritage == nil {
		return
	}

	var expr *sitter.Node
	for i := uint(0); i < heritage.ChildCount(); i++ {
		child := heritage.Child(i)
		if k := child.Kind(); k != "extends" && !child.IsMissing() && k != "," {
			expr = child
		}
	}
	if expr == nil {
		return
	}
	info.superNode = expr

	for expr != nil && expr.Kind() == "call_expression" {
		if fn := expr.ChildByFieldName("function"); fn != nil {
			if name, ok := foldStaticName(fn, src); ok {
				info.mixinNames = append(info.mixinNames, name)
			}
		}
		args := expr.ChildByFieldName("arguments")
		expr = nil
		if args != nil {
			for i := uint(0); i < args.ChildCount(); i++ {
				child := args.Child(i)
				if k := child.Kind(); k != "(" && k != ")" && k != "," {
					expr = child
					break
				}
			}
		}
	}
	if expr != nil {
		if name, ok := foldStaticName(expr, src); ok {
			info.superName = name
		}
	}
}

func (s *classScanner) scanClassBody(node *sitter.Node, doc *parser.JSDocument, info *classInfo) {
	src := doc.Source()
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		switch member.Kind() {
		case "method_definition":
			s.scanMethod(member, doc, info)
		case "field_definition":
			if name := member.ChildByFieldName("property"); name != nil {
				propName := nodeText(name, src)
				info.properties = append(info.properties, model.ScannedProperty{
					Name:    propName,
					Privacy: model.PrivacyOf(propName),
					Range:   doc.RangeForNode(member),
				})
			}
		}
	}
}

func (s *classScanner) scanMethod(member *sitter.Node, doc *parser.JSDocument, info *classInfo) {
	src := doc.Source()
	nameNode := member.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, src)

	isStatic, isGetter := false, false
	for i := uint(0); i < member.ChildCount(); i++ {
		switch member.Child(i).Kind() {
		case "static":
			isStatic = true
		case "get":
			isGetter = true
		}
	}

	if isStatic && isGetter {
		switch name {
		case "is":
			if tag, ok := returnedString(member, src); ok {
				info.isTag = tag
			}
			return
		case "observedAttributes":
			info.attributes = append(info.attributes, returnedStringEntries(member, doc)...)
			return
		}
	}

	method := model.ScannedMethod{
		Name:    name,
		Privacy: model.PrivacyOf(name),
		Range:   doc.RangeForNode(member),
	}
	if dc, ok := docCommentBefore(member, src); ok {
		method.Description = dc.Description
		if ret, found := dc.Get("return", "returns"); found {
			method.Return = ret.Type
		}
		for _, t := range dc.Tags {
			if t.Tag == "param" {
				method.Params = append(method.Params, model.Parameter{
					Name: t.Name, Type: t.Type, Description: t.Description,
				})
			}
		}
	}
	if method.Params == nil {
		for _, p := range functionParams(member.ChildByFieldName("parameters"), src) {
			method.Params = append(method.Params, model.Parameter{Name: p})
		}
	}
	info.methods = append(info.methods, method)
}

func (s *classScanner) enterCall(node *sitter.Node, doc *parser.JSDocument) {
	src := doc.Source()
	fn := node.ChildByFieldName("function")
	name, ok := foldStaticName(fn, src)
	if !ok || (name != "customElements.define" && name != "window.customElements.define") {
		return
	}

	args := callArguments(node)
	if len(args) < 2 {
		return
	}
	tag, ok := stringLiteralValue(args[0], src)
	if !ok {
		return
	}

	def := defineInfo{tag: tag, rng: doc.RangeForNode(node)}
	switch args[1].Kind() {
	case "identifier":
		def.className = nodeText(args[1], src)
	case "class":
		// The class expression is also visited by enterClass; match it
		// up by range in Finish.
		def.rng = doc.RangeForNode(args[1])
	default:
		return
	}
	s.defines = append(s.defines, def)
}

func (s *classScanner) Finish(doc *parser.JSDocument) ([]model.ScannedFeature, []model.Warning) {
	byName := make(map[string]*classInfo)
	for _, c := range s.classes {
		if c.name != "" {
			byName[c.name] = c
		}
	}

	var features []model.ScannedFeature

	for _, def := range s.defines {
		var info *classInfo
		if def.className != "" {
			info = byName[def.className]
		} else {
			for _, c := range s.classes {
				if c.rng == def.rng {
					info = c
					break
				}
			}
		}
		if info == nil {
			// Defined with a class we never saw; still an element.
			features = append(features, &model.ScannedElement{
				TagName:   def.tag,
				ClassName: def.className,
				Range:     def.rng,
			})
			continue
		}
		info.emitted = true
		features = append(features, s.buildElement(info, def.tag, doc))
	}

	for _, info := range s.classes {
		if info.emitted {
			continue
		}
		annotated := info.hasDoc && info.doc.Has(elementTags...)
		// A static `is` getter marks an element class even without an
		// annotation.
		if !annotated && info.isTag == "" {
			continue
		}
		info.emitted = true
		features = append(features, s.buildElement(info, info.isTag, doc))
	}

	return features, s.warnings
}

func (s *classScanner) buildElement(info *classInfo, tag string, doc *parser.JSDocument) *model.ScannedElement {
	if tag == "" {
		tag = info.isTag
	}
	el := &model.ScannedElement{
		TagName:     tag,
		ClassName:   info.name,
		Attributes:  info.attributes,
		Properties:  info.properties,
		Methods:     info.methods,
		Range:       info.rng,
		Declaration: info.declRange,
	}
	if info.isTag != "" {
		el.Polymer = true
	}
	if info.hasDoc {
		el.Description = info.doc.Description
		el.Summary = info.doc.Summary()
		el.Polymer = el.Polymer || info.doc.Has(elementTags...)
		for _, t := range info.doc.Tags {
			if t.Tag == "demo" {
				el.Demos = append(el.Demos, model.Demo{Path: t.Name, Description: t.Description})
			}
		}
	}

	if ext, ok := info.doc.Get("extends"); info.hasDoc && ok {
		if ext.Name == "" {
			el.AddWarning(model.Warning{
				Code:     model.WarnExtendsAnnotationNoID,
				Message:  "@extends annotation needs an identifier naming the superclass",
				Severity: model.SeverityWarning,
				Range:    info.rng,
				Parsed:   doc,
			})
		} else {
			el.SuperClass = s.classReference(ext.Name, info.rng)
		}
	} else if info.superName != "" {
		r := info.rng
		if info.superNode != nil {
			r = doc.RangeForNode(info.superNode)
		}
		el.SuperClass = s.classReference(info.superName, r)
	}

	for _, m := range info.mixinNames {
		r := info.rng
		if info.superNode != nil {
			r = doc.RangeForNode(info.superNode)
		}
		el.Mixins = append(el.Mixins, s.mixinReference(m, r))
	}
	return el
}

func (s *classScanner) classReference(name string, r model.SourceRange) *model.ScannedReference {
	ref := model.NewScannedReference(model.KindElement, name, r)
	ref.Optional = platformGlobals[name]
	if decl, ok := s.decls[rootSegment(name)]; ok {
		ref.Declaration = &decl
	}
	return ref
}

// platformGlobals are base classes the platform provides; nothing in
// an analyzed package declares them.
var platformGlobals = map[string]bool{
	"HTMLElement": true,
	"Element":     true,
	"EventTarget": true,
	"Node":        true,
	"Object":      true,
}

func (s *classScanner) mixinReference(name string, r model.SourceRange) *model.ScannedReference {
	ref := model.NewScannedReference(model.KindElementMixin, name, r)
	if decl, ok := s.decls[rootSegment(name)]; ok {
		ref.Declaration = &decl
	}
	return ref
}

// returnedString digs the string literal out of `return '...'` in a
// getter body.
func returnedString(member *sitter.Node, src []byte) (string, bool) {
	ret := findReturn(member.ChildByFieldName("body"))
	if ret == nil {
		return "", false
	}
	for i := uint(0); i < ret.ChildCount(); i++ {
		if v, ok := stringLiteralValue(ret.Child(i), src); ok {
			return v, true
		}
	}
	return "", false
}

// returnedStringEntries reads `return ['a', 'b']`, keeping each
// entry's preceding comment as its description.
func returnedStringEntries(member *sitter.Node, doc *parser.JSDocument) []model.ScannedAttribute {
	src := doc.Source()
	ret := findReturn(member.ChildByFieldName("body"))
	if ret == nil {
		return nil
	}
	var arr *sitter.Node
	for i := uint(0); i < ret.ChildCount(); i++ {
		if ret.Child(i).Kind() == "array" {
			arr = ret.Child(i)
			break
		}
	}
	if arr == nil {
		return nil
	}

	var out []model.ScannedAttribute
	for i := uint(0); i < arr.ChildCount(); i++ {
		entry := arr.Child(i)
		name, ok := stringLiteralValue(entry, src)
		if !ok {
			continue
		}
		attr := model.ScannedAttribute{Name: name, Range: doc.RangeForNode(entry)}
		if prev := entry.PrevSibling(); prev != nil && prev.Kind() == "comment" {
			attr.Description = ParseJSDoc(nodeText(prev, src)).Description
		}
		out = append(out, attr)
	}
	return out
}

func findReturn(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == "return_statement" {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findReturn(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func callArguments(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if k := child.Kind(); k == "(" || k == ")" || k == "," || k == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func rootSegment(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}
