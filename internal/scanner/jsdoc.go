package scanner

import "strings"

// Annotation is one @tag line of a documentation comment.
type Annotation struct {
	Tag string
	// Type is the {Type} payload, when present.
	Type string
	// Name is the first bare word after the tag/type.
	Name string
	// Description is the rest of the line plus continuation lines.
	Description string
}

// DocComment is a parsed /** ... */ block.
type DocComment struct {
	Description string
	Tags        []Annotation
}

// Has reports whether any of the given tags is present. Callers pass
// synonym pairs together: @polymerElement/@customElement and
// @polymerMixin/@mixinFunction are treated as one tag each.
func (d DocComment) Has(tags ...string) bool {
	for _, t := range d.Tags {
		for _, want := range tags {
			if t.Tag == want {
				return true
			}
		}
	}
	return false
}

// Get returns the first annotation with one of the given tags.
func (d DocComment) Get(tags ...string) (Annotation, bool) {
	for _, t := range d.Tags {
		for _, want := range tags {
			if t.Tag == want {
				return t, true
			}
		}
	}
	return Annotation{}, false
}

// Summary returns the @summary text, if any.
func (d DocComment) Summary() string {
	if t, ok := d.Get("summary"); ok {
		return strings.TrimSpace(t.Name + " " + t.Description)
	}
	return ""
}

// ParseJSDoc parses a block comment's text. Works for JS block
// comments (with or without the leading **) and for HTML comments.
func ParseJSDoc(text string) DocComment {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "<!--")
	text = strings.TrimSuffix(text, "-->")
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	var doc DocComment
	var desc []string
	var current *Annotation

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")

		if strings.HasPrefix(line, "@") {
			doc.Tags = append(doc.Tags, parseAnnotation(line))
			current = &doc.Tags[len(doc.Tags)-1]
			continue
		}
		if current != nil {
			if line != "" {
				if current.Description != "" {
					current.Description += " "
				}
				current.Description += line
			}
			continue
		}
		desc = append(desc, line)
	}

	doc.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return doc
}

func parseAnnotation(line string) Annotation {
	rest := strings.TrimPrefix(line, "@")
	var ann Annotation

	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		ann.Tag = rest[:i]
		rest = strings.TrimSpace(rest[i:])
	} else {
		ann.Tag = rest
		return ann
	}

	if strings.HasPrefix(rest, "{") {
		if end := strings.Index(rest, "}"); end >= 0 {
			ann.Type = rest[1:end]
			rest = strings.TrimSpace(rest[end+1:])
		}
	}

	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		ann.Name = rest[:i]
		ann.Description = strings.TrimSpace(rest[i:])
	} else {
		ann.Name = rest
	}
	return ann
}

// Annotation tag synonym sets. The legacy spellings and the modern
// ones mean the same thing to every scanner.
var (
	elementTags  = []string{"customElement", "polymerElement"}
	mixinTags    = []string{"mixinFunction", "polymerMixin"}
	behaviorTags = []string{"polymerBehavior"}
)
