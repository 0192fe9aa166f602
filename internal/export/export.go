// Package export serializes a resolved analysis into the stable
// analysis format: a JSON document validated against a 1.x.x schema.
package export

import (
	"encoding/json"

	"polygraph/internal/model"
)

const SchemaVersion = "1.0.0"

type Analysis struct {
	SchemaVersion string      `json:"schema_version"`
	Namespaces    []Namespace `json:"namespaces,omitempty"`
	Elements      []Element   `json:"elements,omitempty"`
	Mixins        []Mixin     `json:"mixins,omitempty"`
	Functions     []Function  `json:"functions,omitempty"`
	Metadata      any         `json:"metadata,omitempty"`
}

type Namespace struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
}

type Element struct {
	TagName     string       `json:"tagname"`
	ClassName   string       `json:"classname,omitempty"`
	SuperClass  string       `json:"superclass,omitempty"`
	Mixins      []string     `json:"mixins,omitempty"`
	Attributes  []Attribute  `json:"attributes,omitempty"`
	Properties  []Property   `json:"properties,omitempty"`
	Methods     []Method     `json:"methods,omitempty"`
	Events      []Event      `json:"events,omitempty"`
	Demos       []Demo       `json:"demos,omitempty"`
	Slots       []Slot       `json:"slots,omitempty"`
	Styling     *Styling     `json:"styling,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
	Privacy     string       `json:"privacy,omitempty"`
	Description string       `json:"description,omitempty"`
	Summary     string       `json:"summary,omitempty"`
}

type Mixin struct {
	Name        string       `json:"name"`
	Properties  []Property   `json:"properties,omitempty"`
	Methods     []Method     `json:"methods,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
	Privacy     string       `json:"privacy,omitempty"`
	Description string       `json:"description,omitempty"`
	Summary     string       `json:"summary,omitempty"`
}

type Function struct {
	Name        string       `json:"name"`
	Params      []Parameter  `json:"params,omitempty"`
	Return      *Return      `json:"return,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
	Privacy     string       `json:"privacy,omitempty"`
	Description string       `json:"description,omitempty"`
	Summary     string       `json:"summary,omitempty"`
}

type Attribute struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
}

type Property struct {
	Name         string       `json:"name"`
	Type         string       `json:"type,omitempty"`
	Description  string       `json:"description,omitempty"`
	Privacy      string       `json:"privacy,omitempty"`
	ReadOnly     bool         `json:"readOnly,omitempty"`
	DefaultValue string       `json:"defaultValue,omitempty"`
	SourceRange  *SourceRange `json:"sourceRange,omitempty"`
}

type Method struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Privacy     string       `json:"privacy,omitempty"`
	Params      []Parameter  `json:"params,omitempty"`
	Return      *Return      `json:"return,omitempty"`
	SourceRange *SourceRange `json:"sourceRange,omitempty"`
}

type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

type Return struct {
	Type string `json:"type,omitempty"`
}

type Event struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Demo struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type Slot struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type Styling struct{}

type SourceRange struct {
	File  string   `json:"file,omitempty"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Serialize flattens a resolved analysis into the export shape.
// Features of inline documents appear exactly once: documents are
// walked in allocation order with per-feature dedup.
func Serialize(a *model.Analysis) *Analysis {
	out := &Analysis{SchemaVersion: SchemaVersion}
	seen := make(map[model.Feature]bool)

	for _, doc := range a.Documents() {
		for _, f := range doc.GetFeatures(model.QueryOptions{}) {
			if seen[f] {
				continue
			}
			seen[f] = true

			switch t := f.(type) {
			case *model.Element:
				if t.TagName == "" {
					continue
				}
				out.Elements = append(out.Elements, exportElement(t))
			case *model.ElementMixin:
				out.Mixins = append(out.Mixins, exportMixin(t))
			case *model.Namespace:
				out.Namespaces = append(out.Namespaces, Namespace{
					Name:        t.Name,
					Description: t.Description,
					Summary:     t.Summary,
					SourceRange: exportRange(t.Range),
				})
			case *model.Function:
				out.Functions = append(out.Functions, exportFunction(t))
			}
		}
	}
	return out
}

// Marshal serializes to indented JSON.
func Marshal(a *Analysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

func exportElement(e *model.Element) Element {
	out := Element{
		TagName:     e.TagName,
		ClassName:   e.ClassName,
		Description: e.Description,
		Summary:     e.Summary,
		Privacy:     e.Privacy,
		SourceRange: exportRange(e.Range),
	}
	if out.Privacy == "" {
		out.Privacy = "public"
	}
	if e.SuperClass != nil {
		out.SuperClass = e.SuperClass.Identifier
	}
	for _, m := range e.Mixins {
		out.Mixins = append(out.Mixins, m.Identifier)
	}
	for _, a := range e.Attributes {
		out.Attributes = append(out.Attributes, Attribute{
			Name:        a.Name,
			Description: a.Description,
			SourceRange: exportRange(a.Range),
		})
	}
	for _, p := range e.Properties {
		out.Properties = append(out.Properties, exportProperty(p))
	}
	for _, m := range e.Methods {
		out.Methods = append(out.Methods, exportMethod(m))
	}
	for _, ev := range e.Events {
		out.Events = append(out.Events, Event{Name: ev.Name, Description: ev.Description})
	}
	for _, d := range e.Demos {
		out.Demos = append(out.Demos, Demo{URL: d.Path, Description: d.Description})
	}
	for _, s := range e.Slots {
		out.Slots = append(out.Slots, Slot{Name: s.Name})
	}
	return out
}

func exportMixin(m *model.ElementMixin) Mixin {
	out := Mixin{
		Name:        m.Name,
		Description: m.Description,
		Summary:     m.Summary,
		Privacy:     m.Privacy,
		SourceRange: exportRange(m.Range),
	}
	for _, p := range m.Properties {
		out.Properties = append(out.Properties, exportProperty(p))
	}
	for _, method := range m.Methods {
		out.Methods = append(out.Methods, exportMethod(method))
	}
	return out
}

func exportFunction(f *model.Function) Function {
	out := Function{
		Name:        f.Name,
		Description: f.Description,
		Summary:     f.Summary,
		Privacy:     f.Privacy,
		SourceRange: exportRange(f.Range),
	}
	for _, p := range f.Params {
		out.Params = append(out.Params, Parameter{Name: p.Name, Type: p.Type, Description: p.Description})
	}
	if f.Return != "" {
		out.Return = &Return{Type: f.Return}
	}
	return out
}

func exportProperty(p model.ScannedProperty) Property {
	return Property{
		Name:         p.Name,
		Type:         p.Type,
		Description:  p.Description,
		Privacy:      p.Privacy,
		ReadOnly:     p.ReadOnly,
		DefaultValue: p.Default,
		SourceRange:  exportRange(p.Range),
	}
}

func exportMethod(m model.ScannedMethod) Method {
	out := Method{
		Name:        m.Name,
		Description: m.Description,
		Privacy:     m.Privacy,
		SourceRange: exportRange(m.Range),
	}
	for _, p := range m.Params {
		out.Params = append(out.Params, Parameter{Name: p.Name, Type: p.Type, Description: p.Description})
	}
	if m.Return != "" {
		out.Return = &Return{Type: m.Return}
	}
	return out
}

func exportRange(r model.SourceRange) *SourceRange {
	if r.File == "" && r.Start == (model.Position{}) && r.End == (model.Position{}) {
		return nil
	}
	return &SourceRange{
		File:  string(r.File),
		Start: Position{Line: r.Start.Line, Column: r.Start.Column},
		End:   Position{Line: r.End.Line, Column: r.End.Column},
	}
}
