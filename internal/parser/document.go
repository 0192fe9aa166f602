package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

// document carries what all parsed documents share. Source ranges of
// inline documents are reported in host-file coordinates: positions
// are shifted by the inline offset and File drops the #inline
// fragment.
type document struct {
	url      urlutil.ResolvedURL
	rangeURL urlutil.ResolvedURL
	contents string
	source   []byte
	language string
	inline   bool
	offset   model.Position
	tree     *sitter.Tree
}

func newDocument(url urlutil.ResolvedURL, text, language string, opts Options, tree *sitter.Tree) document {
	rangeURL := url
	if opts.Inline {
		if i := strings.IndexByte(string(url), '#'); i >= 0 {
			rangeURL = url[:i]
		}
	}
	return document{
		url:      url,
		rangeURL: rangeURL,
		contents: text,
		source:   []byte(text),
		language: language,
		inline:   opts.Inline,
		offset:   opts.Offset,
		tree:     tree,
	}
}

func (d *document) URL() urlutil.ResolvedURL        { return d.url }
func (d *document) Contents() string                { return d.contents }
func (d *document) Language() string                { return d.language }
func (d *document) IsInline() bool                  { return d.inline }
func (d *document) LocationOffset() model.Position  { return d.offset }
func (d *document) Source() []byte                  { return d.source }

func (d *document) Root() *sitter.Node {
	if d.tree == nil {
		return nil
	}
	return d.tree.RootNode()
}

// Close releases the underlying tree. The analysis context calls this
// once scanning is done; scanned features never hold node pointers.
func (d *document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// RangeForNode maps a node of this document's tree to a source range
// in host-file coordinates.
func (d *document) RangeForNode(node *sitter.Node) model.SourceRange {
	r := model.SourceRange{
		File:  d.rangeURL,
		Start: pointToPosition(node.StartPosition()),
		End:   pointToPosition(node.EndPosition()),
	}
	return model.TranslateRange(d.offset, r)
}

// RangeForOffsets maps a byte-offset span within this document's text
// to a source range in host-file coordinates.
func (d *document) RangeForOffsets(ix *model.LineIndex, start, end int) model.SourceRange {
	r := model.SourceRange{
		File:  d.rangeURL,
		Start: ix.Position(start),
		End:   ix.Position(end),
	}
	return model.TranslateRange(d.offset, r)
}

func pointToPosition(p sitter.Point) model.Position {
	return model.Position{Line: int(p.Row), Column: int(p.Column)}
}

// firstError finds the first ERROR node of a tree, depth-first.
func firstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
