// Package parser turns source text into parsed documents. The ASTs are
// tree-sitter trees; everything outside this package and the scanners
// treats them as opaque.
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Grammars holds the statically linked tree-sitter languages.
type Grammars struct {
	languages map[string]*sitter.Language
}

func LoadGrammars() *Grammars {
	g := &Grammars{languages: make(map[string]*sitter.Language)}
	g.languages["html"] = sitter.NewLanguage(tree_sitter_html.Language())
	g.languages["js"] = sitter.NewLanguage(tree_sitter_javascript.Language())
	g.languages["css"] = sitter.NewLanguage(tree_sitter_css.Language())
	return g
}

func (g *Grammars) Language(name string) *sitter.Language {
	return g.languages[name]
}

// parseTree runs a tree-sitter parse. Returns nil when the parser
// gives up entirely; partial trees with ERROR nodes are returned
// as-is.
func (g *Grammars) parseTree(language string, text []byte) *sitter.Tree {
	lang := g.Language(language)
	if lang == nil {
		return nil
	}
	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(lang); err != nil {
		return nil
	}
	return p.Parse(text, nil)
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
