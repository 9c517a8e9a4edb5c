package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
)

// Format names a schema definition encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf infers the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidSchema, filepath.Ext(path))
}

// SchemaSpec is the declarative form of a Schema.
type SchemaSpec struct {
	Name   string        `yaml:"name" toml:"name" json:"name"`
	Scope  *SelectorSpec `yaml:"scope" toml:"scope" json:"scope"`
	Fields []FieldSpec   `yaml:"fields" toml:"fields" json:"fields"`
}

// FieldSpec is the declarative form of a Field.
//
// Select locates elements and Ops transforms them. Without Select the
// operations run on the scope element itself. Model nests another schema.
type FieldSpec struct {
	Name     string          `yaml:"name" toml:"name" json:"name"`
	Select   *SelectorSpec   `yaml:"select" toml:"select" json:"select"`
	Ops      []OperationSpec `yaml:"ops" toml:"ops" json:"ops"`
	Model    *SchemaSpec     `yaml:"model" toml:"model" json:"model"`
	All      bool            `yaml:"all" toml:"all" json:"all"`
	Required bool            `yaml:"required" toml:"required" json:"required"`
	Default  any             `yaml:"default" toml:"default" json:"default"`
	SkipNone bool            `yaml:"skip_none" toml:"skip_none" json:"skip_none"`
	Suppress bool            `yaml:"suppress" toml:"suppress" json:"suppress"`
}

// SelectorSpec declares exactly one selector.
//
// Combinator keys take a chain of at least two selectors; a single entry
// builds the relative selector anchored at the scope element, which is how
// relations are written inside has.
type SelectorSpec struct {
	CSS       string `yaml:"css" toml:"css" json:"css"`
	XPath     string `yaml:"xpath" toml:"xpath" json:"xpath"`
	Tag       string `yaml:"tag" toml:"tag" json:"tag"`
	ID        string `yaml:"id" toml:"id" json:"id"`
	Class     string `yaml:"class" toml:"class" json:"class"`
	Attr      string `yaml:"attr" toml:"attr" json:"attr"`
	Value     string `yaml:"value" toml:"value" json:"value"`
	Pattern   string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Regex     bool   `yaml:"regex" toml:"regex" json:"regex"`
	Universal bool   `yaml:"universal" toml:"universal" json:"universal"`

	Any []SelectorSpec `yaml:"any" toml:"any" json:"any"`
	All []SelectorSpec `yaml:"all" toml:"all" json:"all"`
	Not []SelectorSpec `yaml:"not" toml:"not" json:"not"`
	Xor []SelectorSpec `yaml:"xor" toml:"xor" json:"xor"`
	Has []SelectorSpec `yaml:"has" toml:"has" json:"has"`

	Child             []SelectorSpec `yaml:"child" toml:"child" json:"child"`
	Descendant        []SelectorSpec `yaml:"descendant" toml:"descendant" json:"descendant"`
	NextSibling       []SelectorSpec `yaml:"next_sibling" toml:"next_sibling" json:"next_sibling"`
	SubsequentSibling []SelectorSpec `yaml:"subsequent_sibling" toml:"subsequent_sibling" json:"subsequent_sibling"`
	Parent            []SelectorSpec `yaml:"parent" toml:"parent" json:"parent"`
	Ancestor          []SelectorSpec `yaml:"ancestor" toml:"ancestor" json:"ancestor"`

	NthOf     *NthSpec      `yaml:"nth_of" toml:"nth_of" json:"nth_of"`
	NthLastOf *NthSpec      `yaml:"nth_last_of" toml:"nth_last_of" json:"nth_last_of"`
	OnlyOf    *SelectorSpec `yaml:"only_of" toml:"only_of" json:"only_of"`
}

// NthSpec pairs a selector with an nth formula.
type NthSpec struct {
	Select SelectorSpec `yaml:"select" toml:"select" json:"select"`
	Nth    string       `yaml:"nth" toml:"nth" json:"nth"`
}

// OperationSpec declares exactly one operation.
type OperationSpec struct {
	Text      *TextSpec     `yaml:"text" toml:"text" json:"text"`
	Attr      string        `yaml:"attr" toml:"attr" json:"attr"`
	Href      bool          `yaml:"href" toml:"href" json:"href"`
	Parent    bool          `yaml:"parent" toml:"parent" json:"parent"`
	OuterHTML bool          `yaml:"outer_html" toml:"outer_html" json:"outer_html"`
	InnerHTML bool          `yaml:"inner_html" toml:"inner_html" json:"inner_html"`
	Sanitize  *SanitizeSpec `yaml:"sanitize" toml:"sanitize" json:"sanitize"`
	Regex     *RegexSpec    `yaml:"regex" toml:"regex" json:"regex"`
	Int       bool          `yaml:"int" toml:"int" json:"int"`
	Float     bool          `yaml:"float" toml:"float" json:"float"`
	Script    string        `yaml:"script" toml:"script" json:"script"`
}

type TextSpec struct {
	Separator string `yaml:"separator" toml:"separator" json:"separator"`
	Strip     bool   `yaml:"strip" toml:"strip" json:"strip"`
}

type SanitizeSpec struct {
	Strict bool `yaml:"strict" toml:"strict" json:"strict"`
}

type RegexSpec struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Group   int    `yaml:"group" toml:"group" json:"group"`
}

// LoadSchema reads and compiles a schema definition file. The encoding
// follows the file extension.
func LoadSchema(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data, format)
}

// ParseSchema decodes and compiles a schema definition.
func ParseSchema(data []byte, format Format) (*Schema, error) {
	var spec SchemaSpec
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &spec)
	case FormatTOML:
		err = toml.Unmarshal(data, &spec)
	case FormatJSON:
		err = sonic.Unmarshal(data, &spec)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidSchema, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return spec.Compile()
}

// Compile builds the schema described by spec.
func (spec *SchemaSpec) Compile() (*Schema, error) {
	if spec.Scope == nil {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotDefined, spec.Name)
	}
	scope, err := spec.Scope.Compile()
	if err != nil {
		return nil, invalid(err, "%s scope", spec.Name)
	}
	fields := make([]Field, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		searcher, err := f.compile()
		if err != nil {
			return nil, invalid(err, "%s field %q", spec.Name, f.Name)
		}
		fields = append(fields, Field{Name: f.Name, Searcher: searcher})
	}
	return NewSchema(spec.Name, scope, fields...)
}

// invalid marks err as a schema definition error, keeping the cause
// inspectable with errors.Is.
func invalid(err error, format string, args ...any) error {
	where := fmt.Sprintf(format, args...)
	if errors.Is(err, ErrInvalidSchema) {
		return fmt.Errorf("%s: %w", where, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidSchema, where, err)
}

func (f *FieldSpec) compile() (operation.Searcher, error) {
	var searcher operation.Searcher
	switch {
	case f.Model != nil:
		if f.Select != nil || len(f.Ops) > 0 {
			return nil, fmt.Errorf("%w: model field cannot select or transform", ErrInvalidSchema)
		}
		nested, err := f.Model.Compile()
		if err != nil {
			return nil, err
		}
		searcher = nested
	default:
		s, err := f.searcher()
		if err != nil {
			return nil, err
		}
		searcher = s
	}
	if f.All {
		searcher = All{Searcher: searcher}
	}
	if f.Required {
		searcher = Required{Searcher: searcher}
	}
	if f.Default != nil {
		searcher = Default{Searcher: searcher, Value: f.Default}
	}
	return searcher, nil
}

func (f *FieldSpec) searcher() (operation.Searcher, error) {
	op, err := compileOperations(f.Ops)
	if err != nil {
		return nil, err
	}
	if op != nil && f.Suppress {
		op = operation.Suppress{Operation: op}
	}
	if op != nil && f.SkipNone {
		op = operation.SkipNone{Operation: op}
	}

	if f.Select == nil {
		if op == nil {
			return nil, fmt.Errorf("%w: field needs select, ops or model", ErrInvalidSchema)
		}
		return operation.Apply{Operation: op}, nil
	}
	s, err := f.Select.Compile()
	if err != nil {
		return nil, err
	}
	if op == nil {
		return operation.Elements{Selector: s}, nil
	}
	return operation.Select(s, op)
}

func compileOperations(specs []OperationSpec) (operation.Operation, error) {
	ops := make([]operation.Operation, 0, len(specs))
	for i, spec := range specs {
		op, err := spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	switch len(ops) {
	case 0:
		return nil, nil
	case 1:
		return ops[0], nil
	}
	return operation.NewPipeline(ops[0], ops[1], ops[2:]...)
}

// Compile builds the operation described by spec.
func (spec *OperationSpec) Compile() (operation.Operation, error) {
	var ops []operation.Operation
	if spec.Text != nil {
		ops = append(ops, operation.Text{Separator: spec.Text.Separator, Strip: spec.Text.Strip})
	}
	if spec.Attr != "" {
		ops = append(ops, operation.Attribute{Name: spec.Attr})
	}
	if spec.Href {
		ops = append(ops, operation.Href{})
	}
	if spec.Parent {
		ops = append(ops, operation.Parent{})
	}
	if spec.OuterHTML {
		ops = append(ops, operation.OuterHTML{})
	}
	if spec.InnerHTML {
		ops = append(ops, operation.InnerHTML{})
	}
	if spec.Sanitize != nil {
		ops = append(ops, operation.Sanitize{Strict: spec.Sanitize.Strict})
	}
	if spec.Regex != nil {
		r, err := operation.NewRegex(spec.Regex.Pattern, spec.Regex.Group)
		if err != nil {
			return nil, err
		}
		ops = append(ops, r)
	}
	if spec.Int {
		ops = append(ops, operation.ParseInt{})
	}
	if spec.Float {
		ops = append(ops, operation.ParseFloat{})
	}
	if spec.Script != "" {
		script, err := operation.NewScript(spec.Script, 0)
		if err != nil {
			return nil, err
		}
		ops = append(ops, script)
	}
	if len(ops) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one operation, got %d", ErrInvalidSchema, len(ops))
	}
	return ops[0], nil
}

// Compile builds the selector described by spec.
func (spec *SelectorSpec) Compile() (selector.Selector, error) {
	type option struct {
		set   bool
		build func() (selector.Selector, error)
	}
	options := []option{
		{spec.CSS != "", func() (selector.Selector, error) { return selector.NewCSS(spec.CSS) }},
		{spec.XPath != "", func() (selector.Selector, error) { return selector.NewXPath(spec.XPath) }},
		{spec.Tag != "", func() (selector.Selector, error) { return selector.NewTypeSelector(spec.Tag), nil }},
		{spec.ID != "", func() (selector.Selector, error) {
			p, err := spec.pattern(spec.ID)
			return selector.NewIdSelector(p), err
		}},
		{spec.Class != "", func() (selector.Selector, error) {
			p, err := spec.pattern(spec.Class)
			return selector.NewClassSelector(p), err
		}},
		{spec.Attr != "", func() (selector.Selector, error) {
			p, err := spec.pattern(spec.Value)
			return selector.NewAttributeSelector(spec.Attr, p), err
		}},
		{spec.Pattern != "", func() (selector.Selector, error) {
			p, err := spec.pattern(spec.Pattern)
			return selector.NewPatternSelector(p), err
		}},
		{spec.Universal, func() (selector.Selector, error) { return selector.NewUniversalSelector(), nil }},
		{spec.Any != nil, func() (selector.Selector, error) {
			return compileVariadic(spec.Any, 2, func(s []selector.Selector) (selector.Selector, error) {
				return selector.NewSelectorList(s[0], s[1], s[2:]...)
			})
		}},
		{spec.All != nil, func() (selector.Selector, error) {
			return compileVariadic(spec.All, 2, func(s []selector.Selector) (selector.Selector, error) {
				return selector.NewAndSelector(s[0], s[1], s[2:]...)
			})
		}},
		{spec.Xor != nil, func() (selector.Selector, error) {
			return compileVariadic(spec.Xor, 2, func(s []selector.Selector) (selector.Selector, error) {
				return selector.NewXORSelector(s[0], s[1], s[2:]...)
			})
		}},
		{spec.Not != nil, func() (selector.Selector, error) {
			return compileVariadic(spec.Not, 1, func(s []selector.Selector) (selector.Selector, error) {
				return selector.NewNotSelector(s[0], s[1:]...)
			})
		}},
		{spec.Has != nil, func() (selector.Selector, error) {
			return compileVariadic(spec.Has, 1, func(s []selector.Selector) (selector.Selector, error) {
				return selector.NewHasSelector(s[0], s[1:]...)
			})
		}},
		{spec.Child != nil, func() (selector.Selector, error) { return compileRelation(selector.RelationChild, spec.Child) }},
		{spec.Descendant != nil, func() (selector.Selector, error) {
			return compileRelation(selector.RelationDescendant, spec.Descendant)
		}},
		{spec.NextSibling != nil, func() (selector.Selector, error) {
			return compileRelation(selector.RelationNextSibling, spec.NextSibling)
		}},
		{spec.SubsequentSibling != nil, func() (selector.Selector, error) {
			return compileRelation(selector.RelationSubsequentSibling, spec.SubsequentSibling)
		}},
		{spec.Parent != nil, func() (selector.Selector, error) { return compileRelation(selector.RelationParent, spec.Parent) }},
		{spec.Ancestor != nil, func() (selector.Selector, error) {
			return compileRelation(selector.RelationAncestor, spec.Ancestor)
		}},
		{spec.NthOf != nil, func() (selector.Selector, error) { return spec.NthOf.compile(selector.NewNthOf) }},
		{spec.NthLastOf != nil, func() (selector.Selector, error) { return spec.NthLastOf.compile(selector.NewNthLastOf) }},
		{spec.OnlyOf != nil, func() (selector.Selector, error) {
			inner, err := spec.OnlyOf.Compile()
			if err != nil {
				return nil, err
			}
			return selector.NewOnlyOf(inner)
		}},
	}

	var chosen *option
	for i := range options {
		if !options[i].set {
			continue
		}
		if chosen != nil {
			return nil, fmt.Errorf("%w: selector declares more than one kind", ErrInvalidSchema)
		}
		chosen = &options[i]
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSchema)
	}
	return chosen.build()
}

func (spec *SelectorSpec) pattern(value string) (selector.Pattern, error) {
	switch {
	case value == "":
		return selector.Pattern{}, nil
	case spec.Regex:
		return selector.CompileRegexp(value)
	}
	return selector.Exact(value), nil
}

func (n *NthSpec) compile(build func(selector.Selector, string) (*selector.NthOfSelector, error)) (selector.Selector, error) {
	inner, err := n.Select.Compile()
	if err != nil {
		return nil, err
	}
	return build(inner, n.Nth)
}

func compileAll(specs []SelectorSpec) ([]selector.Selector, error) {
	out := make([]selector.Selector, 0, len(specs))
	for i := range specs {
		s, err := specs[i].Compile()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func compileVariadic(specs []SelectorSpec, least int, build func([]selector.Selector) (selector.Selector, error)) (selector.Selector, error) {
	if len(specs) < least {
		return nil, fmt.Errorf("%w: expected at least %d selectors, got %d", ErrInvalidSchema, least, len(specs))
	}
	selectors, err := compileAll(specs)
	if err != nil {
		return nil, err
	}
	return build(selectors)
}

func compileRelation(relation selector.Relation, specs []SelectorSpec) (selector.Selector, error) {
	selectors, err := compileAll(specs)
	if err != nil {
		return nil, err
	}
	switch len(selectors) {
	case 0:
		return nil, fmt.Errorf("%w: %s needs at least one selector", ErrInvalidSchema, relation)
	case 1:
		return selector.NewRelative(relation, selectors[0])
	}
	return selector.NewCombinator(relation, selectors[0], selectors[1], selectors[2:]...)
}
