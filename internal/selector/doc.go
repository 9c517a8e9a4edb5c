// Package selector implements composable element selectors.
//
// Features:
//   - Leaf selectors: tag name, universal, attribute, id, class, text pattern
//   - CSS selectors compiled with cascadia and XPath via htmlquery
//   - Logical algebra: SelectorList (or), And, Not, XOR
//   - Combinators: child, descendant, next sibling, subsequent sibling,
//     parent and ancestor chains
//   - Relative selectors and HasSelector (:has)
//   - Positional selectors: nth-of, nth-last-of, only-of
//
// Every FindAll returns elements deduplicated by node identity and in
// document order relative to the scope. Composite selectors combine child
// results through resultset and reorder them against a walk of the scope.
//
// Equality:
//
// Selectors compare structurally. Logical composites ignore child order;
// combinators do not.
//
// Example Usage:
//
//	div := selector.NewTypeSelector("div")
//	p := selector.NewTypeSelector("p")
//	sel := selector.Must(selector.Child(div, p))
//	for _, el := range sel.FindAll(doc.Root(), true, 0) {
//		fmt.Println(el.Text("", true))
//	}
//
//	first, err := selector.Find(sel, doc.Root(), true, true)
package selector
