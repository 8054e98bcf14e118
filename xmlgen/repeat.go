package xmlgen

import "github.com/pihentagy/xampler/xsd"

// repeat returns how many times an element occurs. A count from the
// repeat hook is used as is, except that negative counts become 0.
// Otherwise the count is uniform in [minOccurs, maxOccurs], with
// MaxRepeat standing in for an unbounded maxOccurs.
func (g *generator) repeat(node Node) int {
	if g.repeatHook != nil {
		if n, ok := g.repeatHook(node); ok {
			if n < 0 {
				return 0
			}
			return n
		}
	}
	min, max := node.Element.MinOccurs, node.Element.MaxOccurs
	if max == xsd.Unbounded {
		max = g.maxRepeat
	}
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}
