package xsd

// maxDerivation bounds the walk up a chain of base types, in case a
// schema derives a type from itself.
const maxDerivation = 64

// Elements returns the child elements of a complex type in document
// order. For a type that extends another complex type, the elements
// of the base type come first.
func Elements(t *ComplexType) []Element {
	var chain []*ComplexType
	for c := t; c != nil && len(chain) < maxDerivation; {
		chain = append(chain, c)
		if !c.Extends {
			break
		}
		c, _ = c.Base.(*ComplexType)
	}
	var result []Element
	for i := len(chain) - 1; i >= 0; i-- {
		result = append(result, chain[i].Elements...)
	}
	return result
}

// Attributes returns the attributes that may appear on an element of
// type t, including those inherited from its base types. A type may
// redeclare an inherited attribute, for example to prohibit it; the
// most derived declaration wins and keeps the position of the first.
func Attributes(t *ComplexType) []Attribute {
	var chain []*ComplexType
	for c := t; c != nil && len(chain) < maxDerivation; {
		chain = append(chain, c)
		c, _ = c.Base.(*ComplexType)
	}
	var result []Attribute
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, a := range chain[i].Attributes {
			key := a.Name.Space + " " + a.Name.Local
			if j, ok := index[key]; ok {
				result[j] = a
				continue
			}
			index[key] = len(result)
			result = append(result, a)
		}
	}
	return result
}

// Model returns the effective content model of t. A type extending a
// base with a choice or all group inherits that model.
func Model(t *ComplexType) ContentModel {
	for c, n := t, 0; c != nil && n < maxDerivation; n++ {
		if c.Model != SequenceModel {
			return c.Model
		}
		if !c.Extends {
			break
		}
		c, _ = c.Base.(*ComplexType)
	}
	return SequenceModel
}
