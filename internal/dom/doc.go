// Package dom adapts parsed markup trees to the Element interface consumed by
// the selector engine.
//
// The engine never touches a concrete parser. It only needs:
//   - children and descendants in document order (elements only)
//   - forward siblings and ancestors, bounded by a limit
//   - attribute values, text and tag name
//   - an identity key usable as a map key
//
// Node implements Element over golang.org/x/net/html. Document wraps a
// goquery document so callers can move between goquery selections and
// elements without reparsing.
//
// Identity:
//
// Two distinct nodes with identical markup must stay distinct in result sets,
// so Key compares backing pointers and never content.
//
// Example Usage:
//
//	doc, err := dom.ParseString(`<div><p>a</p><p>a</p></div>`)
//	root := doc.Root()
//	for el := range root.Descendants() {
//		fmt.Println(el.Name())
//	}
package dom
