/*
Package model extracts structured records from documents.

A Schema names a scope selector and an ordered list of fields. Each scope
match becomes one Record; every field is searched inside that match by an
operation.Searcher, which may be a selection pipeline, a bare selector, an
operation applied to the scope element or another schema.

Field wrappers:
  - All collects every match instead of the first
  - Required fails the record when nothing is found
  - Default substitutes a value when nothing is found

Schemas can also be declared in YAML, TOML or JSON and compiled with
LoadSchema:

	name: product
	scope: {class: item}
	fields:
	  - name: title
	    select: {tag: h2}
	    ops: [{text: {strip: true}}]
	    required: true
	  - name: price
	    select: {class: price}
	    ops: [{text: {strip: true}}, {float: true}]
	    suppress: true
*/
package model
