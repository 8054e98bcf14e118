package xmlgen

import (
	"encoding/xml"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pihentagy/xampler/internal/regen"
	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

const patternCacheSize = 256

// A Config holds the options and the source of randomness used when
// generating documents. A Config must not be used by more than one
// Generate call at a time; independent Configs may run in parallel.
type Config struct {
	rand           *rand.Rand
	maxRepeat      int
	maxDepth       int
	optionalChance float64
	nilChance      float64
	useDefaults    bool
	repeatHook     RepeatFunc
	valueHook      ValueFunc
	elementHook    ElementFunc
	contextHook    ContextFunc
	primitives     *Primitives
	patterns       *lru.Cache[string, *regen.Generator]
	// restrictions whose unmodeled facets were already reported
	warned map[*xsd.Restriction]bool
}

// A Node is the schema declaration a hook is called for. Exactly one
// of Element and Attribute is set.
type Node struct {
	// Name of the declared element or attribute.
	Name      xml.Name
	Element   *xsd.Element
	Attribute *xsd.Attribute
	// For attributes, the name of the element carrying the attribute.
	Owner xml.Name
	// Nesting depth of the element below the document root, which has
	// depth 0. Attributes have the depth of their element.
	Depth int
	// Data returned by the context hook for the enclosing elements,
	// innermost last. It must not be modified.
	Context map[string]string
}

// Key returns the name hooks are usually keyed by: the local name of
// an element, or owner@name for an attribute.
func (n Node) Key() string {
	if n.Attribute != nil {
		return n.Owner.Local + "@" + n.Name.Local
	}
	return n.Name.Local
}

// Type returns the declared type of the node.
func (n Node) Type() xsd.Type {
	if n.Attribute != nil {
		return n.Attribute.Type
	}
	return n.Element.Type
}

func (n Node) fixed() string {
	if n.Attribute != nil {
		return n.Attribute.Fixed
	}
	return n.Element.Fixed
}

func (n Node) defaultValue() string {
	if n.Attribute != nil {
		return n.Attribute.Default
	}
	return n.Element.Default
}

// with returns n with data added to its context. The context of n is
// copied, not changed.
func (n Node) with(data map[string]string) Node {
	if len(data) == 0 {
		return n
	}
	ctx := make(map[string]string, len(n.Context)+len(data))
	for k, v := range n.Context {
		ctx[k] = v
	}
	for k, v := range data {
		ctx[k] = v
	}
	n.Context = ctx
	return n
}

// A RepeatFunc overrides the number of times an element occurs. For an
// optional attribute a non-zero count makes it present. Returning false
// declines the override.
type RepeatFunc func(Node) (int, bool)

// A ValueFunc overrides the text of an element or the value of an
// attribute. The element is the one being filled in. Returning false
// declines the override.
type ValueFunc func(Node, *xmltree.Element) (string, bool)

// An ElementFunc is called once for every element with complex
// content, after the element is added to the document and before its
// attributes and children are generated. The element pointer is only
// valid until the next sibling is added.
type ElementFunc func(Node, *xmltree.Element)

// A ContextFunc is called once for every element, after it is added to
// the document and before its attributes and content are generated.
// The returned data is merged into the Context of the nodes below the
// element: its attributes, its children and their descendants.
type ContextFunc func(Node, *xmltree.Element) map[string]string

// An Option is used to customize a Config.
type Option func(*Config) Option

// DefaultOptions are applied by New before any caller options.
var DefaultOptions = []Option{
	MaxRepeat(100),
	MaxDepth(64),
	OptionalChance(0.5),
}

// New returns a Config with the DefaultOptions and the given options
// applied. Unless the Seed or Rand option is given, the Config is
// seeded from the current time.
func New(opts ...Option) *Config {
	patterns, err := lru.New[string, *regen.Generator](patternCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	cfg := &Config{
		primitives: DefaultPrimitives(),
		patterns:   patterns,
		warned:     make(map[*xsd.Restriction]bool),
	}
	cfg.Option(DefaultOptions...)
	cfg.Option(opts...)
	if cfg.rand == nil {
		cfg.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return cfg
}

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Seed makes generation deterministic: two Configs with the same seed,
// options and schema generate the same document.
func Seed(seed int64) Option {
	return Rand(rand.New(rand.NewSource(seed)))
}

// Rand sets the source of randomness.
func Rand(r *rand.Rand) Option {
	return func(cfg *Config) Option {
		prev := cfg.rand
		cfg.rand = r
		return Rand(prev)
	}
}

// MaxRepeat sets the largest number of occurrences generated for an
// element with maxOccurs="unbounded". If minOccurs is larger, minOccurs
// is used.
func MaxRepeat(n int) Option {
	return func(cfg *Config) Option {
		prev := cfg.maxRepeat
		cfg.maxRepeat = n
		return MaxRepeat(prev)
	}
}

// MaxDepth sets how deeply elements may nest before generation fails.
// It stops schemas whose required elements recurse without end.
func MaxDepth(n int) Option {
	return func(cfg *Config) Option {
		prev := cfg.maxDepth
		cfg.maxDepth = n
		return MaxDepth(prev)
	}
}

// OptionalChance sets the probability that an optional attribute is
// present when the repeat hook does not decide.
func OptionalChance(p float64) Option {
	return func(cfg *Config) Option {
		prev := cfg.optionalChance
		cfg.optionalChance = p
		return OptionalChance(prev)
	}
}

// NilChance sets the probability that an element declared nillable is
// generated empty, with xsi:nil="true". The default is 0.
func NilChance(p float64) Option {
	return func(cfg *Config) Option {
		prev := cfg.nilChance
		cfg.nilChance = p
		return NilChance(prev)
	}
}

// UseDefaults makes elements and attributes with a declared default
// value take that value instead of a generated one. The value hook and
// fixed values still come first.
func UseDefaults(use bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.useDefaults
		cfg.useDefaults = use
		return UseDefaults(prev)
	}
}

// RepeatHook sets the function consulted before occurrence counts and
// optional attribute presence are chosen at random.
func RepeatHook(fn RepeatFunc) Option {
	return func(cfg *Config) Option {
		prev := cfg.repeatHook
		cfg.repeatHook = fn
		return RepeatHook(prev)
	}
}

// ValueHook sets the function consulted before a value is generated
// from its type.
func ValueHook(fn ValueFunc) Option {
	return func(cfg *Config) Option {
		prev := cfg.valueHook
		cfg.valueHook = fn
		return ValueHook(prev)
	}
}

// ElementHook sets the function called for every element with complex
// content. It can be used to record generated data, such as
// identifiers, for use by later value hooks.
func ElementHook(fn ElementFunc) Option {
	return func(cfg *Config) Option {
		prev := cfg.elementHook
		cfg.elementHook = fn
		return ElementHook(prev)
	}
}

// ContextHook sets the function whose results are passed down to the
// descendants of each element in Node.Context.
func ContextHook(fn ContextFunc) Option {
	return func(cfg *Config) Option {
		prev := cfg.contextHook
		cfg.contextHook = fn
		return ContextHook(prev)
	}
}

// TypeValue registers a generator for a built-in type, replacing the
// default one. A nil fn removes the generator.
func TypeValue(t xsd.Builtin, fn PrimitiveFunc) Option {
	return func(cfg *Config) Option {
		return TypeValue(t, cfg.primitives.Set(t, fn))
	}
}

// WithPrimitives replaces the whole table of built-in type generators.
func WithPrimitives(p *Primitives) Option {
	return func(cfg *Config) Option {
		prev := cfg.primitives
		cfg.primitives = p
		return WithPrimitives(prev)
	}
}

// pattern returns a cached generator for a regular expression.
func (cfg *Config) pattern(expr string) (*regen.Generator, error) {
	if g, ok := cfg.patterns.Get(expr); ok {
		return g, nil
	}
	g, err := regen.Compile(expr)
	if err != nil {
		return nil, err
	}
	cfg.patterns.Add(expr, g)
	return g, nil
}
