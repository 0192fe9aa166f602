package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"polygraph/internal/loader"
	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

func newTestAnalyzer(files map[urlutil.ResolvedURL]string) (*Analyzer, *loader.MemoryLoader) {
	mem := loader.NewMemoryLoader(files)
	resolver := urlutil.NewPackageURLResolver("/pkg")
	return NewAnalyzer(Options{Resolver: resolver, Loader: mem}), mem
}

func TestAnalyzeEntryWithImportsAndInlineElement(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/index.html": `<link rel="import" href="./a.html">
<link rel="import" href="./b.html">
`,
		"file:///pkg/a.html": `<script>
class El extends HTMLElement {
  static get is() { return 'x-el'; }
}
</script>
`,
		"file:///pkg/b.html": ``,
	})

	result, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)

	index, ok := result.GetDocument("file:///pkg/index.html")
	require.True(t, ok)

	feature, ok := index.GetOnlyAtID(model.KindElement, "x-el")
	require.True(t, ok, "x-el must be reachable from the entry document")
	el := feature.(*model.Element)
	require.Equal(t, "El", el.ClassName)

	elements := index.GetByKind(model.KindElement)
	require.Len(t, elements, 1)
}

func TestAnalyzeCircularImports(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/a.html": `<link rel="import" href="./b.html">`,
		"file:///pkg/b.html": `<link rel="import" href="./a.html">`,
	})

	result, err := analyzer.Analyze(context.Background(), "a.html")
	require.NoError(t, err)

	da, ok := result.GetDocument("file:///pkg/a.html")
	require.True(t, ok)
	db, ok := result.GetDocument("file:///pkg/b.html")
	require.True(t, ok)
	require.True(t, da.Done())
	require.True(t, db.Done())

	require.Len(t, da.GetByKind(model.KindDocument), 2)
	require.Len(t, db.GetByKind(model.KindDocument), 2)

	require.Empty(t, da.GetWarnings(true))
}

func TestGetDocumentReturnsSameInstance(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/index.html": `<link rel="import" href="./a.html">`,
		"file:///pkg/a.html":     ``,
	})

	result, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)

	for _, url := range []urlutil.ResolvedURL{"file:///pkg/index.html", "file:///pkg/a.html"} {
		first, ok := result.GetDocument(url)
		require.True(t, ok)
		second, ok := result.GetDocument(url)
		require.True(t, ok)
		require.Same(t, first, second)
	}
}

func TestMissingImportBecomesWarning(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/index.html": `<link rel="import" href="./gone.html">`,
	})

	result, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err, "a broken import must not abort the analysis")

	index, ok := result.GetDocument("file:///pkg/index.html")
	require.True(t, ok)

	var codes []string
	for _, w := range index.GetWarnings(true) {
		codes = append(codes, w.Code)
	}
	require.Contains(t, codes, model.WarnCouldNotLoad)
}

func TestFilesChangedInvalidatesTransitively(t *testing.T) {
	files := map[urlutil.ResolvedURL]string{
		"file:///pkg/index.html": `<link rel="import" href="./a.html">`,
		"file:///pkg/a.html":     `<script>class A extends HTMLElement { static get is() { return 'x-a'; } }</script>`,
	}
	analyzer, mem := newTestAnalyzer(files)

	result, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)
	index, _ := result.GetDocument("file:///pkg/index.html")
	_, ok := index.GetOnlyAtID(model.KindElement, "x-a")
	require.True(t, ok)

	// Edit a.html: the element changes its tag.
	mem.Set("file:///pkg/a.html", `<script>class A extends HTMLElement { static get is() { return 'x-a2'; } }</script>`)
	analyzer.FilesChanged([]urlutil.ResolvedURL{"file:///pkg/a.html"})

	result, err = analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)
	index, _ = result.GetDocument("file:///pkg/index.html")

	_, ok = index.GetOnlyAtID(model.KindElement, "x-a")
	require.False(t, ok, "stale element must be gone")
	_, ok = index.GetOnlyAtID(model.KindElement, "x-a2")
	require.True(t, ok, "edited element must be visible")
}

func TestCacheReusedWithoutInvalidation(t *testing.T) {
	files := map[urlutil.ResolvedURL]string{
		"file:///pkg/index.html": `<link rel="import" href="./a.html">`,
		"file:///pkg/a.html":     `<script>class A extends HTMLElement { static get is() { return 'x-a'; } }</script>`,
	}
	analyzer, mem := newTestAnalyzer(files)

	_, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)

	// Without FilesChanged the scanned cache answers, and the edit is
	// not picked up.
	mem.Set("file:///pkg/a.html", `<script>class A extends HTMLElement { static get is() { return 'x-a2'; } }</script>`)
	result, err := analyzer.Analyze(context.Background(), "index.html")
	require.NoError(t, err)

	index, _ := result.GetDocument("file:///pkg/index.html")
	_, ok := index.GetOnlyAtID(model.KindElement, "x-a")
	require.True(t, ok)
}

func TestInlineDocumentRegisteredInAnalysis(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/a.html": `<script>var x = 1;</script>`,
	})

	result, err := analyzer.Analyze(context.Background(), "a.html")
	require.NoError(t, err)

	inline, ok := result.GetDocument("file:///pkg/a.html#inline-script-1")
	require.True(t, ok, "inline documents get their own entry in the analysis")
	require.True(t, inline.Scanned.IsInline())
	require.True(t, inline.Done())
}

func TestUnresolvableEntryIsError(t *testing.T) {
	analyzer, _ := newTestAnalyzer(nil)
	_, err := analyzer.Analyze(context.Background(), "%><><%=")
	require.Error(t, err)
}

func TestBehaviorAcrossImportResolvedFromInlineScript(t *testing.T) {
	analyzer, _ := newTestAnalyzer(map[urlutil.ResolvedURL]string{
		"file:///pkg/el.html": `<link rel="import" href="./behavior.html">
<script>
Polymer({
  is: 'x-swipes',
  behaviors: [MyBehaviors.Swipe]
});
</script>
`,
		"file:///pkg/behavior.html": `<script>
/** @polymerBehavior MyBehaviors.Swipe */
MyBehaviors.Swipe = {};
</script>
`,
	})

	result, err := analyzer.Analyze(context.Background(), "el.html")
	require.NoError(t, err)

	doc, ok := result.GetDocument("file:///pkg/el.html")
	require.True(t, ok)

	feature, ok := doc.GetOnlyAtID(model.KindElement, "x-swipes")
	require.True(t, ok)
	el := feature.(*model.Element)
	require.Len(t, el.Behaviors, 1)
	require.NotNil(t, el.Behaviors[0].Feature, "behavior in imported file must resolve")
	require.Empty(t, el.Warnings())
}
