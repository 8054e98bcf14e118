// Package xmlgen generates random XML documents that follow an XML
// Schema, for use as test fixtures.
//
// Generation starts at a top-level element declaration and walks the
// element's type. Every child element occurs a random number of times
// within its declared bounds, optional attributes are present half of
// the time, and text and attribute values are random values of the
// declared type that satisfy its enumeration, pattern, length and range
// facets.
//
// Hooks customize the result. A RepeatHook fixes the number of
// occurrences of an element or the presence of an optional attribute,
// a ValueHook supplies the value of an element or attribute, and an
// ElementHook is called for each element with complex content, so that
// generated data can be recorded and referred to later. Data returned
// by a ContextHook is handed down to the descendants of an element in
// Node.Context:
//
//	cfg := xmlgen.New(
//		xmlgen.Seed(1),
//		xmlgen.RepeatHook(func(n xmlgen.Node) (int, bool) {
//			if n.Key() == "item" {
//				return 3, true
//			}
//			return 0, false
//		}),
//	)
//	doc, err := cfg.Generate(root)
//
// Only sequences of elements are supported. Types with a choice or all
// content model, and wildcard elements, make Generate fail.
package xmlgen // import "github.com/pihentagy/xampler/xmlgen"
