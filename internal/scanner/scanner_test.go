package scanner

import (
	"strings"
	"testing"

	"polygraph/internal/model"
	"polygraph/internal/parser"
	"polygraph/internal/urlutil"
)

func scan(t *testing.T, language, text string) *model.ScannedDocument {
	t.Helper()
	parsers := parser.NewRegistry(parser.LoadGrammars())
	registry := NewRegistry(parsers)
	parsed, parseWarnings := parsers.Parse(language, text, urlutil.ResolvedURL("file:///pkg/doc."+language), parser.Options{})
	if len(parseWarnings) > 0 {
		t.Fatalf("parse warnings: %v", parseWarnings)
	}
	return registry.Scan(parsed)
}

func featuresOf[T model.ScannedFeature](doc *model.ScannedDocument) []T {
	var out []T
	for _, f := range doc.Features {
		if t, ok := f.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

func TestHTMLImportScanner(t *testing.T) {
	doc := scan(t, "html", `
<link rel="import" href="./a.html">
<link rel="stylesheet" href="./style.css">
<script src="./code.js"></script>
`)

	imports := featuresOf[*model.ScannedImport](doc)
	if len(imports) != 3 {
		t.Fatalf("got %d imports, want 3", len(imports))
	}
	if imports[0].Type != model.ImportHTML || imports[0].URL != "./a.html" {
		t.Errorf("import 0: %+v", imports[0])
	}
	if imports[1].Type != model.ImportStyle || imports[1].URL != "./style.css" {
		t.Errorf("import 1: %+v", imports[1])
	}
	if imports[2].Type != model.ImportScript || imports[2].URL != "./code.js" {
		t.Errorf("import 2: %+v", imports[2])
	}
}

func TestInlineScriptBecomesNestedDocument(t *testing.T) {
	doc := scan(t, "html", `<html><body>
<script>
class El extends HTMLElement {
  static get is() { return 'x-el'; }
}
</script>
</body></html>`)

	inline := doc.InlineDocuments()
	if len(inline) != 1 {
		t.Fatalf("got %d inline documents, want 1", len(inline))
	}
	child := inline[0]
	if child.Document.URL() != "file:///pkg/doc.html#inline-script-1" {
		t.Errorf("inline URL = %s", child.Document.URL())
	}
	if !child.IsInline() {
		t.Error("inline document must be marked inline")
	}

	elements := featuresOf[*model.ScannedElement](child)
	if len(elements) != 1 {
		t.Fatalf("got %d elements in inline doc, want 1", len(elements))
	}
	el := elements[0]
	if el.TagName != "x-el" || el.ClassName != "El" {
		t.Errorf("element = %q / %q", el.TagName, el.ClassName)
	}
	// Ranges of inline features are in host coordinates.
	if el.Range.File != "file:///pkg/doc.html" {
		t.Errorf("range file = %s", el.Range.File)
	}
	if el.Range.Start.Line < 2 {
		t.Errorf("range not translated: %v", el.Range.Start)
	}
}

func TestInlineScriptWithNonScriptTypeSkipped(t *testing.T) {
	doc := scan(t, "html", `<script type="application/json">{"a": 1}</script>`)
	if len(doc.InlineDocuments()) != 0 {
		t.Error("json payload must not become a document")
	}
}

func TestDatabindingSimpleInterpolation(t *testing.T) {
	doc := scan(t, "html", `<template is="dom-bind">Hello {{name}}!</template>`)

	bindings := featuresOf[*model.ScannedDatabindingExpression](doc)
	if len(bindings) != 1 {
		t.Fatalf("got %d databindings, want 1", len(bindings))
	}
	b := bindings[0]
	if b.Direction != model.DatabindingTwoWay {
		t.Errorf("direction = %c", b.Direction)
	}
	if b.ExpressionText != "name" {
		t.Errorf("expression = %q", b.ExpressionText)
	}
	if b.DatabindingInto != model.DatabindingIntoStringInterpolation {
		t.Errorf("into = %s", b.DatabindingInto)
	}
	if len(b.Warnings()) != 0 {
		t.Errorf("warnings: %v", b.Warnings())
	}
}

func TestDatabindingAttributeForms(t *testing.T) {
	doc := scan(t, "html", `<template is="dom-repeat" items="[[rows]]">
  <span title="row {{label}} here"></span>
  <input value="{{current::change}}">
</template>`)

	bindings := featuresOf[*model.ScannedDatabindingExpression](doc)
	if len(bindings) != 3 {
		t.Fatalf("got %d databindings, want 3", len(bindings))
	}

	items := bindings[0]
	if items.Direction != model.DatabindingOneWay || items.ExpressionText != "rows" {
		t.Errorf("items binding: %+v", items)
	}
	if items.DatabindingInto != model.DatabindingIntoAttribute {
		t.Errorf("items into = %s, want attribute", items.DatabindingInto)
	}

	label := bindings[1]
	if label.DatabindingInto != model.DatabindingIntoStringInterpolation {
		t.Errorf("label into = %s, want string-interpolation", label.DatabindingInto)
	}

	current := bindings[2]
	if current.ExpressionText != "current" || current.EventName != "change" {
		t.Errorf("current binding: expr=%q event=%q", current.ExpressionText, current.EventName)
	}
	if current.DatabindingInto != model.DatabindingIntoAttribute {
		t.Errorf("current into = %s", current.DatabindingInto)
	}
}

func TestDatabindingUnclosedOpenerProducesNothing(t *testing.T) {
	doc := scan(t, "html", `<template is="dom-bind">[[x</template>`)

	bindings := featuresOf[*model.ScannedDatabindingExpression](doc)
	if len(bindings) != 0 {
		t.Errorf("got %d databindings, want 0", len(bindings))
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", doc.Warnings)
	}
}

func TestDatabindingOutsideTemplatesIgnored(t *testing.T) {
	doc := scan(t, "html", `<p>not a binding: {{nope}}</p>`)
	if n := len(featuresOf[*model.ScannedDatabindingExpression](doc)); n != 0 {
		t.Errorf("got %d databindings outside templates, want 0", n)
	}
}

func TestDatabindingInsideDomModule(t *testing.T) {
	doc := scan(t, "html", `<dom-module id="x-card">
  <template><span>{{title}}</span></template>
</dom-module>`)

	if n := len(featuresOf[*model.ScannedDatabindingExpression](doc)); n != 1 {
		t.Errorf("got %d databindings, want 1", n)
	}
	modules := featuresOf[*model.ScannedDomModule](doc)
	if len(modules) != 1 || modules[0].ID != "x-card" || !modules[0].HasTemplate {
		t.Errorf("dom-module: %+v", modules)
	}
}

func TestDatabindingStableUnderDuplication(t *testing.T) {
	src := `<template is="dom-bind"><span title="{{a}}">{{b}} and [[c]]</span></template>`
	first := featuresOf[*model.ScannedDatabindingExpression](scan(t, "html", src))
	second := featuresOf[*model.ScannedDatabindingExpression](scan(t, "html", src))

	if len(first) != len(second) {
		t.Fatalf("runs disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ExpressionText != second[i].ExpressionText || first[i].Range != second[i].Range {
			t.Errorf("binding %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestInvalidDatabindingWarns(t *testing.T) {
	doc := scan(t, "html", `<template is="dom-bind">{{foo(}}</template>`)

	bindings := featuresOf[*model.ScannedDatabindingExpression](doc)
	if len(bindings) != 1 {
		t.Fatalf("got %d databindings, want 1", len(bindings))
	}
	ws := bindings[0].Warnings()
	if len(ws) != 1 || ws[0].Code != model.WarnInvalidDatabinding {
		t.Errorf("warnings: %v", ws)
	}
}

func TestElementReferences(t *testing.T) {
	doc := scan(t, "html", `<body><x-card heading="hi"></x-card><div></div></body>`)

	refs := featuresOf[*model.ScannedElementReference](doc)
	if len(refs) != 1 {
		t.Fatalf("got %d element references, want 1", len(refs))
	}
	if refs[0].TagName != "x-card" {
		t.Errorf("tag = %q", refs[0].TagName)
	}
	if len(refs[0].Attributes) != 1 || refs[0].Attributes[0].Name != "heading" {
		t.Errorf("attributes: %+v", refs[0].Attributes)
	}
}

func TestPseudoElementFromHTMLComment(t *testing.T) {
	doc := scan(t, "html", `<!--
  A fancy scrollbar.
  @pseudoElement x-scrollbar
--><div></div>`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}
	if !elements[0].Pseudo || elements[0].TagName != "x-scrollbar" {
		t.Errorf("pseudo element: %+v", elements[0])
	}
}

func TestNamespaceScanning(t *testing.T) {
	doc := scan(t, "js", `/** @namespace */
var Foo = {};
Foo.Bar = { baz: 1 };
`)

	namespaces := featuresOf[*model.ScannedNamespace](doc)
	if len(namespaces) != 2 {
		t.Fatalf("got %d namespaces, want 2", len(namespaces))
	}
	if namespaces[0].Name != "Foo" || namespaces[1].Name != "Foo.Bar" {
		t.Errorf("names: %q, %q", namespaces[0].Name, namespaces[1].Name)
	}
	for _, ns := range namespaces {
		if len(ns.Warnings()) != 0 {
			t.Errorf("namespace %s has warnings: %v", ns.Name, ns.Warnings())
		}
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("document warnings: %v", doc.Warnings)
	}
}

func TestDynamicNamespaceWarns(t *testing.T) {
	doc := scan(t, "js", `DynamicNamespace[baz] = { foo: 'bar' };
`)

	found := false
	for _, w := range doc.Warnings {
		if w.Code == model.WarnDynamicNamespaceNoName {
			found = true
			if got := w.Message; !strings.Contains(got, "Unable to determine name for @namespace") {
				t.Errorf("message = %q", got)
			}
		}
	}
	if !found {
		t.Errorf("expected %s warning, got %v", model.WarnDynamicNamespaceNoName, doc.Warnings)
	}
}

func TestNamespaceWithLiteralSubscript(t *testing.T) {
	doc := scan(t, "js", `/** @namespace */
var Foo = {};
Foo['Sub'] = {};
`)
	namespaces := featuresOf[*model.ScannedNamespace](doc)
	if len(namespaces) != 2 || namespaces[1].Name != "Foo.Sub" {
		t.Errorf("namespaces: %+v", namespaces)
	}
}

func TestClassElementScanning(t *testing.T) {
	doc := scan(t, "js", `/**
 * A card.
 * @customElement
 * @demo demo/index.html basic card
 */
class XCard extends Mixin1(Mixin2(HTMLElement)) {
  static get is() { return 'x-card'; }
  static get observedAttributes() {
    return [
      /** The card heading. */
      'heading',
      'elevation'
    ];
  }
  toggle(open) {}
}
`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}
	el := elements[0]
	if el.TagName != "x-card" || el.ClassName != "XCard" {
		t.Errorf("element = %q / %q", el.TagName, el.ClassName)
	}
	if el.Description != "A card." {
		t.Errorf("description = %q", el.Description)
	}
	if len(el.Demos) != 1 || el.Demos[0].Path != "demo/index.html" {
		t.Errorf("demos: %+v", el.Demos)
	}
	if el.SuperClass == nil || el.SuperClass.Identifier != "HTMLElement" {
		t.Errorf("superclass: %+v", el.SuperClass)
	}
	if len(el.Mixins) != 2 || el.Mixins[0].Identifier != "Mixin1" || el.Mixins[1].Identifier != "Mixin2" {
		t.Errorf("mixins: %+v", el.Mixins)
	}
	if len(el.Attributes) != 2 || el.Attributes[0].Name != "heading" {
		t.Fatalf("attributes: %+v", el.Attributes)
	}
	if el.Attributes[0].Description != "The card heading." {
		t.Errorf("attribute description = %q", el.Attributes[0].Description)
	}
	if len(el.Methods) != 1 || el.Methods[0].Name != "toggle" {
		t.Errorf("methods: %+v", el.Methods)
	}
}

func TestCustomElementsDefine(t *testing.T) {
	doc := scan(t, "js", `class Chip extends HTMLElement {}
customElements.define('x-chip', Chip);
`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}
	if elements[0].TagName != "x-chip" || elements[0].ClassName != "Chip" {
		t.Errorf("element = %q / %q", elements[0].TagName, elements[0].ClassName)
	}
}

func TestExtendsAnnotationWinsOverClause(t *testing.T) {
	doc := scan(t, "js", `/**
 * @customElement
 * @extends PolymerElement
 */
class XThing extends SomethingElse {
  static get is() { return 'x-thing'; }
}
`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements", len(elements))
	}
	if elements[0].SuperClass == nil || elements[0].SuperClass.Identifier != "PolymerElement" {
		t.Errorf("superclass: %+v", elements[0].SuperClass)
	}
}

func TestExtendsAnnotationWithoutIDWarns(t *testing.T) {
	doc := scan(t, "js", `/**
 * @customElement
 * @extends
 */
class XThing extends Base {
  static get is() { return 'x-thing'; }
}
`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements", len(elements))
	}
	ws := elements[0].Warnings()
	if len(ws) != 1 || ws[0].Code != model.WarnExtendsAnnotationNoID {
		t.Errorf("warnings: %v", ws)
	}
}

func TestPolymerCallForm(t *testing.T) {
	doc := scan(t, "js", `Polymer({
  is: 'x-legacy',
  behaviors: [MyBehaviors.Swipe, Other],
  properties: {
    title: String,
    count: {
      type: Number,
      value: 0,
      readOnly: true
    }
  },
  _compute: function(a, b) { return a + b; }
});
`)

	elements := featuresOf[*model.ScannedElement](doc)
	if len(elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(elements))
	}
	el := elements[0]
	if el.TagName != "x-legacy" || !el.Polymer {
		t.Errorf("element: tag=%q polymer=%v", el.TagName, el.Polymer)
	}
	if len(el.Behaviors) != 2 || el.Behaviors[0].Identifier != "MyBehaviors.Swipe" {
		t.Errorf("behaviors: %+v", el.Behaviors)
	}
	if len(el.Properties) != 2 {
		t.Fatalf("properties: %+v", el.Properties)
	}
	if el.Properties[0].Name != "title" || el.Properties[0].Type != "String" {
		t.Errorf("property 0: %+v", el.Properties[0])
	}
	if el.Properties[1].Name != "count" || !el.Properties[1].ReadOnly || el.Properties[1].Default != "0" {
		t.Errorf("property 1: %+v", el.Properties[1])
	}
	if len(el.Methods) != 1 || el.Methods[0].Name != "_compute" || el.Methods[0].Privacy != "protected" {
		t.Errorf("methods: %+v", el.Methods)
	}
}

func TestInvalidPolymerCallWarns(t *testing.T) {
	for _, src := range []string{
		"Polymer();\n",
		"Polymer(SomeClass);\n",
		"Polymer({ properties: {} });\n",
	} {
		doc := scan(t, "js", src)
		found := false
		for _, w := range doc.Warnings {
			if w.Code == model.WarnInvalidPolymerCall {
				found = true
			}
		}
		if !found {
			t.Errorf("source %q: expected %s warning, got %v", src, model.WarnInvalidPolymerCall, doc.Warnings)
		}
	}
}

func TestBehaviorScanning(t *testing.T) {
	doc := scan(t, "js", `/**
 * Adds swipe handling.
 * @polymerBehavior MyBehaviors.Swipe
 */
MyBehaviors.SwipeImpl = {
  properties: {
    swiping: Boolean
  },
  _onTrack: function(e) {}
};
`)

	behaviors := featuresOf[*model.ScannedBehavior](doc)
	if len(behaviors) != 1 {
		t.Fatalf("got %d behaviors, want 1", len(behaviors))
	}
	b := behaviors[0]
	if b.Name != "MyBehaviors.Swipe" {
		t.Errorf("name = %q (annotation argument wins)", b.Name)
	}
	if len(b.Properties) != 1 || b.Properties[0].Name != "swiping" {
		t.Errorf("properties: %+v", b.Properties)
	}
	if len(b.Methods) != 1 || b.Methods[0].Name != "_onTrack" {
		t.Errorf("methods: %+v", b.Methods)
	}
}

func TestFunctionScanning(t *testing.T) {
	doc := scan(t, "js", `/**
 * Flushes pending work.
 * @memberof Polymer.dom
 * @param {boolean} force Flush even while paused.
 * @returns {void}
 */
function flush(force) {}

/**
 * Not claimed by a namespace.
 */
function helper() {}
`)

	functions := featuresOf[*model.ScannedFunction](doc)
	if len(functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(functions))
	}
	fn := functions[0]
	if fn.Name != "Polymer.dom.flush" {
		t.Errorf("name = %q", fn.Name)
	}
	if fn.Return != "void" {
		t.Errorf("return = %q", fn.Return)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "force" || fn.Params[0].Type != "boolean" {
		t.Errorf("params: %+v", fn.Params)
	}
	if fn.Description != "Flushes pending work." {
		t.Errorf("description = %q", fn.Description)
	}
}

func TestMixinFunctionNotScannedAsFunction(t *testing.T) {
	doc := scan(t, "js", `/**
 * @memberof Polymer
 * @mixinFunction
 */
function GestureMixin(base) { return class extends base {}; }
`)

	if n := len(featuresOf[*model.ScannedFunction](doc)); n != 0 {
		t.Errorf("mixin functions must not be plain functions, got %d", n)
	}
	mixins := featuresOf[*model.ScannedElementMixin](doc)
	if len(mixins) != 1 || mixins[0].Name != "GestureMixin" {
		t.Errorf("mixins: %+v", mixins)
	}
}

func TestPolymerCoreFeature(t *testing.T) {
	doc := scan(t, "js", `Polymer.Base._addFeature({
  _marshalArgs: function() {}
});
`)
	features := featuresOf[*model.ScannedPolymerCoreFeature](doc)
	if len(features) != 1 {
		t.Fatalf("got %d core features, want 1", len(features))
	}
	if len(features[0].Methods) != 1 || features[0].Methods[0].Name != "_marshalArgs" {
		t.Errorf("methods: %+v", features[0].Methods)
	}
}
