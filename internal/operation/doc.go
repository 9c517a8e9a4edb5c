/*
Package operation turns matched elements into values.

Features:
  - Element accessors: Text, Attribute, Href, Parent, OuterHTML, InnerHTML
  - Conversions: Regex, ParseInt, ParseFloat, Sanitize (bluemonday)
  - Control flow: IfElse, Break, Continue, SkipNone, Suppress, Default
  - Pipelines that chain operations and flatten on extension
  - SelectionPipeline binding a selector to an operation

Every failure returned by Execute wraps ErrOperationFailed together with its
cause, so callers can match either with errors.Is.

Example Usage:

	title, _ := operation.Select(selector.NewTypeSelector("h1"), operation.Text{Strip: true})
	value, err := title.Find(doc.Root(), true, true)
*/
package operation
