package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/sewcio543/soupsavvy-sub002/internal/nth"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSchema = `
name: product
scope: {class: item}
fields:
  - name: title
    select: {tag: h2}
    ops: [{text: {strip: true}}]
    required: true
  - name: link
    select: {tag: a}
    ops: [{href: true}]
    skip_none: true
    default: "#"
  - name: price
    select: {class: price}
    ops: [{text: {strip: true}}, {float: true}]
    suppress: true
  - name: tags
    select: {child: [{class: tags}, {tag: li}]}
    ops: [{text: {}}]
    all: true
  - name: seller
    model:
      name: seller
      scope: {class: seller}
      fields:
        - name: name
          select: {tag: b}
          ops: [{text: {}}]
`

const tomlSchema = `
name = "product"
scope = { class = "item" }

[[fields]]
name = "title"
select = { tag = "h2" }
ops = [{ text = { strip = true } }]
required = true

[[fields]]
name = "link"
select = { tag = "a" }
ops = [{ href = true }]
skip_none = true
default = "#"

[[fields]]
name = "price"
select = { class = "price" }
ops = [{ text = { strip = true } }, { float = true }]
suppress = true

[[fields]]
name = "tags"
select = { child = [{ class = "tags" }, { tag = "li" }] }
ops = [{ text = {} }]
all = true

[[fields]]
name = "seller"

[fields.model]
name = "seller"
scope = { class = "seller" }

[[fields.model.fields]]
name = "name"
select = { tag = "b" }
ops = [{ text = {} }]
`

const jsonSchema = `{
  "name": "product",
  "scope": {"class": "item"},
  "fields": [
    {"name": "title", "select": {"tag": "h2"}, "ops": [{"text": {"strip": true}}], "required": true},
    {"name": "link", "select": {"tag": "a"}, "ops": [{"href": true}], "skip_none": true, "default": "#"},
    {"name": "price", "select": {"class": "price"}, "ops": [{"text": {"strip": true}}, {"float": true}], "suppress": true},
    {"name": "tags", "select": {"child": [{"class": "tags"}, {"tag": "li"}]}, "ops": [{"text": {}}], "all": true},
    {"name": "seller", "model": {"name": "seller", "scope": {"class": "seller"}, "fields": [
      {"name": "name", "select": {"tag": "b"}, "ops": [{"text": {}}]}
    ]}}
  ]
}`

const wantKettle = `{"title":"Kettle","link":"/kettle","price":19.99,"tags":["kitchen","steel"],"seller":{"name":"Acme"}}`
const wantToaster = `{"title":"Toaster","link":"#","price":null,"tags":[],"seller":null}`

func TestParseSchemaFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatYAML, yamlSchema},
		{FormatTOML, tomlSchema},
		{FormatJSON, jsonSchema},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			s, err := ParseSchema([]byte(tt.data), tt.format)
			require.NoError(t, err)

			records, err := s.ExtractAll(root(t), true, 0)
			require.NoError(t, err)
			require.Len(t, records, 2)

			kettle, err := records[0].MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, wantKettle, string(kettle))

			toaster, err := records[1].MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, wantToaster, string(toaster))
		})
	}
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlSchema), 0o644))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "product", s.Name())

	_, err = LoadSchema(filepath.Join(dir, "product.ini"))
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = LoadSchema(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectorSpecCompile(t *testing.T) {
	p := selector.NewTypeSelector("p")
	a := selector.NewTypeSelector("a")

	tests := []struct {
		name string
		spec string
		want selector.Selector
	}{
		{"tag", `{tag: p}`, p},
		{"id", `{id: main}`, selector.NewIdSelector(selector.Exact("main"))},
		{"attr any value", `{attr: href}`, selector.NewAttributeSelector("href", selector.Pattern{})},
		{"any", `{any: [{tag: p}, {tag: a}]}`, selector.Must(selector.NewSelectorList(p, a))},
		{"all", `{all: [{tag: p}, {tag: a}]}`, selector.Must(selector.NewAndSelector(p, a))},
		{"not", `{not: [{tag: p}]}`, selector.Must(selector.NewNotSelector(p))},
		{"xor", `{xor: [{tag: p}, {tag: a}]}`, selector.Must(selector.NewXORSelector(p, a))},
		{"descendant chain", `{descendant: [{tag: p}, {tag: a}]}`, selector.Must(selector.Descendant(p, a))},
		{"relative", `{parent: [{tag: p}]}`, selector.Must(selector.Anchor.Parent(p))},
		{"has", `{has: [{child: [{tag: a}]}]}`, selector.Must(selector.Has(selector.Must(selector.Anchor.Child(a))))},
		{"nth", `{nth_of: {select: {tag: p}, nth: odd}}`, selector.Must(selector.NewNthOf(p, "2n+1"))},
		{"only", `{only_of: {tag: a}}`, selector.Must(selector.NewOnlyOf(a))},
		{"universal", `{universal: true}`, selector.NewUniversalSelector()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec SelectorSpec
			require.NoError(t, yamlUnmarshal(tt.spec, &spec))
			got, err := spec.Compile()
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSelectorSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"empty", `{}`},
		{"two kinds", `{tag: p, css: a}`},
		{"short list", `{any: [{tag: p}]}`},
		{"empty chain", `{child: []}`},
		{"bad nth", `{nth_of: {select: {tag: p}, nth: "2x"}}`},
		{"bad regex", `{class: "(", regex: true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec SelectorSpec
			require.NoError(t, yamlUnmarshal(tt.spec, &spec))
			_, err := spec.Compile()
			assert.Error(t, err)
		})
	}
}

func TestSchemaSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"no scope", `{name: x, fields: [{name: a, select: {tag: a}}]}`, ErrScopeNotDefined},
		{"no fields", `{name: x, scope: {tag: div}}`, ErrFieldsNotDefined},
		{"field without source", `{name: x, scope: {tag: div}, fields: [{name: a}]}`, ErrInvalidSchema},
		{"two operations in one step", `{name: x, scope: {tag: div}, fields: [{name: a, select: {tag: a}, ops: [{href: true, int: true}]}]}`, ErrInvalidSchema},
		{"model with select", `{name: x, scope: {tag: div}, fields: [{name: a, select: {tag: a}, model: {name: y, scope: {tag: a}, fields: [{name: b, select: {tag: b}}]}}]}`, ErrInvalidSchema},
		{"undecodable", `fields: {`, ErrInvalidSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ParseSchema([]byte(`{}`), Format("xml"))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestSchemaSpecSelectorErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		cause error
	}{
		{"bad nth scope", `{name: x, scope: {nth_of: {select: {tag: h2}, nth: "2n+1.5"}}, fields: [{name: a, select: {tag: a}}]}`, nth.ErrInvalidFormula},
		{"bad regex scope", `{name: x, scope: {class: "(", regex: true}, fields: [{name: a, select: {tag: a}}]}`, selector.ErrInvalidExpression},
		{"bad css field", `{name: x, scope: {tag: div}, fields: [{name: a, select: {css: "a[["}}]}`, selector.ErrInvalidExpression},
		{"bad nested nth", `{name: x, scope: {tag: div}, fields: [{name: a, model: {name: y, scope: {nth_last_of: {select: {tag: p}, nth: "n+"}}, fields: [{name: b, select: {tag: b}}]}}]}`, nth.ErrInvalidFormula},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, ErrInvalidSchema)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestScriptOperationSpec(t *testing.T) {
	s, err := ParseSchema([]byte(`
name: titles
scope: {class: item}
fields:
  - name: slug
    select: {tag: h2}
    ops: [{text: {strip: true}}, {script: 'value.toLowerCase().replace(/\s+/g, "-")'}]
`), FormatYAML)
	require.NoError(t, err)

	records, err := s.ExtractAll(root(t), true, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	slug, _ := records[0].Get("slug")
	assert.Equal(t, "kettle", slug)

	_, err = ParseSchema([]byte(`{name: x, scope: {tag: div}, fields: [{name: a, select: {tag: a}, ops: [{script: "value +"}]}]}`), FormatYAML)
	assert.ErrorIs(t, err, operation.ErrInvalidOperation)
}

func TestMarkupOperationSpecs(t *testing.T) {
	s, err := ParseSchema([]byte(`
name: seller
scope: {class: seller}
fields:
  - name: inner
    ops: [{inner_html: true}]
  - name: outer
    select: {tag: b}
    ops: [{outer_html: true}]
`), FormatYAML)
	require.NoError(t, err)

	record, err := s.Extract(root(t), true, true)
	require.NoError(t, err)
	inner, _ := record.Get("inner")
	assert.Equal(t, "<b>Acme</b><i>PL</i>", inner)
	outer, _ := record.Get("outer")
	assert.Equal(t, "<b>Acme</b>", outer)
}

func yamlUnmarshal(s string, v any) error {
	return yaml.Unmarshal([]byte(s), v)
}
