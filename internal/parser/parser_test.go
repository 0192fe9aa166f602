package parser

import (
	"strings"
	"testing"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

func newTestRegistry() *Registry {
	return NewRegistry(LoadGrammars())
}

func TestLanguageForPath(t *testing.T) {
	r := newTestRegistry()
	cases := []struct {
		url  urlutil.ResolvedURL
		want string
		ok   bool
	}{
		{"file:///p/a.html", "html", true},
		{"file:///p/a.htm", "html", true},
		{"file:///p/a.js", "js", true},
		{"file:///p/a.mjs", "js", true},
		{"file:///p/a.css", "css", true},
		{"file:///p/a.html?q=1", "html", true},
		{"file:///p/a.txt", "", false},
	}
	for _, tc := range cases {
		got, ok := r.LanguageForPath(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("LanguageForPath(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLanguageForScriptType(t *testing.T) {
	r := newTestRegistry()
	for _, scriptType := range []string{"", "text/javascript", "module", "Application/JavaScript"} {
		if got, ok := r.LanguageForScriptType(scriptType); !ok || got != "js" {
			t.Errorf("LanguageForScriptType(%q) = %q, %v", scriptType, got, ok)
		}
	}
	if _, ok := r.LanguageForScriptType("application/json"); ok {
		t.Error("json scripts are data, not parseable source")
	}
}

func TestParseHTML(t *testing.T) {
	r := newTestRegistry()
	text := "<html><body><p>hello</p></body></html>"
	doc, warnings := r.Parse("html", text, "file:///p/a.html", Options{})

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if doc.Language() != "html" || doc.IsInline() {
		t.Errorf("language=%s inline=%v", doc.Language(), doc.IsInline())
	}
	if doc.Contents() != text {
		t.Errorf("contents mangled: %q", doc.Contents())
	}
}

func TestParseHTMLStringifyRoundTrip(t *testing.T) {
	r := newTestRegistry()
	text := "<html>\n<body>\n  <p>one</p>\n</body>\n</html>\n"
	doc, _ := r.Parse("html", text, "file:///p/a.html", Options{})

	emitted := doc.Stringify(model.StringifyOptions{})
	reparsed, _ := r.Parse("html", emitted, "file:///p/a.html", Options{})
	if reparsed.Contents() != text {
		t.Errorf("round trip changed text:\n%q\n%q", reparsed.Contents(), text)
	}
}

func TestParseHTMLInlineSpansAndSplice(t *testing.T) {
	r := newTestRegistry()
	text := "<html><script>var x = 1;</script></html>"
	doc, _ := r.Parse("html", text, "file:///p/a.html", Options{})
	htmlDoc := doc.(*HTMLDocument)

	spans := htmlDoc.InlineSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d inline spans, want 1", len(spans))
	}
	if got := text[spans[0].Start:spans[0].End]; got != "var x = 1;" {
		t.Errorf("span content %q", got)
	}

	inline, _ := r.Parse("js", "var y = 2;", "file:///p/a.html#inline-script-1", Options{Inline: true})
	spliced := htmlDoc.Stringify(model.StringifyOptions{InlineDocuments: []model.ParsedDocument{inline}})
	if spliced != "<html><script>var y = 2;</script></html>" {
		t.Errorf("splice produced %q", spliced)
	}
}

func TestParseJSReportsSyntaxErrors(t *testing.T) {
	r := newTestRegistry()
	_, warnings := r.Parse("js", "function ( {", "file:///p/a.js", Options{})

	found := false
	for _, w := range warnings {
		if w.Code == model.WarnParseError {
			found = true
		}
	}
	if !found {
		t.Error("expected a parse-error warning for broken source")
	}
}

func TestParseJSRangeForNode(t *testing.T) {
	r := newTestRegistry()
	doc, _ := r.Parse("js", "var a = 1;\nvar b = 2;\n", "file:///p/a.js", Options{})
	jsDoc := doc.(*JSDocument)

	root := jsDoc.Root()
	if root == nil {
		t.Fatal("no tree")
	}
	if root.ChildCount() < 2 {
		t.Fatalf("expected 2 statements, got %d", root.ChildCount())
	}
	second := root.Child(1)
	rng := jsDoc.RangeForNode(second)
	if rng.Start.Line != 1 || rng.Start.Column != 0 {
		t.Errorf("second statement starts at %v", rng.Start)
	}
}

func TestInlineOffsetTranslation(t *testing.T) {
	r := newTestRegistry()
	doc, _ := r.Parse("js", "var a = 1;", "file:///p/a.html#inline-script-1", Options{
		Inline: true,
		Offset: model.Position{Line: 4, Column: 0},
	})
	jsDoc := doc.(*JSDocument)

	rng := jsDoc.RangeForNode(jsDoc.Root())
	if rng.Start.Line != 4 {
		t.Errorf("inline range starts at line %d, want 4", rng.Start.Line)
	}
	if rng.File != "file:///p/a.html" {
		t.Errorf("inline range file = %s, want host file", rng.File)
	}
}

func TestParseExpression(t *testing.T) {
	r := newTestRegistry()

	if _, ok := r.ParseExpression("name", "file:///p/a.html"); !ok {
		t.Error("plain identifier is a valid expression")
	}
	if _, ok := r.ParseExpression("item.sub[0]", "file:///p/a.html"); !ok {
		t.Error("member/subscript chain is a valid expression")
	}
	if _, ok := r.ParseExpression("foo(", "file:///p/a.html"); ok {
		t.Error("unbalanced call must be rejected")
	}
}

func TestParseUnknownLanguage(t *testing.T) {
	r := newTestRegistry()
	_, warnings := r.Parse("ruby", "puts 1", "file:///p/a.rb", Options{})
	if len(warnings) != 1 || warnings[0].Code != model.WarnParseError {
		t.Errorf("got %v", warnings)
	}
	if !strings.Contains(warnings[0].Message, "no parser") {
		t.Errorf("message %q", warnings[0].Message)
	}
}
