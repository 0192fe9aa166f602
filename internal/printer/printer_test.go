package printer

import (
	"strings"
	"testing"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

func TestPrintWithSnippet(t *testing.T) {
	sources := map[urlutil.ResolvedURL]string{
		"file:///pkg/a.html": "<html>\n<x-typo attr>\n</html>\n",
	}

	var buf strings.Builder
	p := New(&buf, func(u urlutil.ResolvedURL) (string, bool) {
		text, ok := sources[u]
		return text, ok
	})
	p.Color = false

	p.Print(model.Warning{
		Code:     model.WarnCouldNotResolve,
		Message:  "could not resolve reference to element \"x-typo\"",
		Severity: model.SeverityWarning,
		Range: model.SourceRange{
			File:  "file:///pkg/a.html",
			Start: model.Position{Line: 1, Column: 1},
			End:   model.Position{Line: 1, Column: 7},
		},
	})

	out := buf.String()
	if !strings.Contains(out, "file:///pkg/a.html:2:2") {
		t.Errorf("header missing 1-based location:\n%s", out)
	}
	if !strings.Contains(out, "[could-not-resolve-reference]") {
		t.Errorf("header missing code:\n%s", out)
	}
	if !strings.Contains(out, "<x-typo attr>") {
		t.Errorf("snippet missing source line:\n%s", out)
	}
	if !strings.Contains(out, " ~~~~~~") {
		t.Errorf("snippet missing underline:\n%s", out)
	}
}

func TestPrintWithoutSourceLookup(t *testing.T) {
	var buf strings.Builder
	p := New(&buf, nil)
	p.Color = false

	p.Print(model.Warning{
		Code:     model.WarnParseError,
		Message:  "syntax error",
		Severity: model.SeverityError,
		Range:    model.SourceRange{File: "file:///pkg/gone.html"},
	})

	out := buf.String()
	if !strings.Contains(out, "error") || !strings.Contains(out, "[parse-error]") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single header line, got:\n%q", out)
	}
}
