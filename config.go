package yaml

import (
	"reflect"
	"regexp"
)

// ConstructorFunc builds a Go value from a parsed node for a tag
// registered via Config.AddConstructor.
type ConstructorFunc func(node *Node) (interface{}, error)

// MultiConstructorFunc is like ConstructorFunc but registered against a
// tag prefix; suffix is the remainder of the tag after the prefix.
type MultiConstructorFunc func(suffix string, node *Node) (interface{}, error)

// RepresenterFunc builds a node from a Go value for a type registered via
// Config.AddRepresenter.
type RepresenterFunc func(v interface{}) (*Node, error)

// registry holds the per-Config constructor/representer/resolver tables.
// A zero-value registry is empty, not a copy of some shared default: the
// package-level default behavior (used by Marshal/Unmarshal and by a
// Config that never calls AddXxx) falls back to the built-in struct-tag
// driven encode/decode path rather than consulting an always-present
// "default registry" entry.
type registry struct {
	constructors      map[string]ConstructorFunc
	multiConstructors []multiConstructorEntry
	representers      map[reflect.Type]RepresenterFunc
	implicitResolvers []implicitResolverEntry
}

type multiConstructorEntry struct {
	prefix string
	fn     MultiConstructorFunc
}

type implicitResolverEntry struct {
	tag        string
	pattern    *regexp.Regexp
	firstChars string
}

// Config gathers the caller-facing knobs for a round-trip Encoder/Decoder
// pair: which implicit-resolver table to use, how much of the original
// formatting to preserve, and any custom constructors/representers. Use
// NewConfig rather than a bare Config{} unless the escaping-by-default
// zero value of AllowUnicode (see below) is actually what's wanted.
type Config struct {
	Version Version

	// PreserveQuotes keeps the single/double-quote style a plain string
	// scalar was written with across Construct/Represent, instead of
	// letting Represent pick whatever style its own heuristics prefer.
	PreserveQuotes bool

	Indent int

	// CompactSeqIndent writes a block sequence that is itself a mapping
	// value flush with the key that introduces it instead of indenting it
	// one extra level.
	CompactSeqIndent bool

	Width int

	// DefaultFlowStyle, when set, picks the flow-vs-block style for any
	// collection that Represent builds without an explicit style already
	// recorded on it (via ordered.Map/Seq.SetFlowStyle). Left nil, such
	// collections fall back to the emitter's own block-by-default
	// heuristics.
	DefaultFlowStyle   *bool
	ExplicitStart      bool
	ExplicitEnd        bool
	AllowDuplicateKeys bool

	// AllowUnicode controls whether non-ASCII scalar content is written
	// literally or escaped as \xXX/\uXXXX/\UXXXXXXXX. Its zero value is
	// false (escape); NewConfig sets it to true.
	AllowUnicode bool
	Warnings     WarningSink

	reg registry
}

// NewConfig returns a Config with the documented defaults filled in: 4-space
// indent, 80-column width, and unicode allowed unescaped. A bare Config{}
// is also valid but leaves Indent/Width at zero (the encoder treats that as
// "use its own built-in default") and AllowUnicode at false (escape).
func NewConfig() *Config {
	return &Config{
		Version:      VersionAuto,
		Indent:       4,
		Width:        80,
		AllowUnicode: true,
	}
}

func (c *Config) sink() WarningSink {
	if c == nil || c.Warnings == nil {
		return discardSink{}
	}
	return c.Warnings
}

// AddConstructor registers fn as the constructor for tag. A later call
// with the same tag replaces the earlier one.
func (c *Config) AddConstructor(tag string, fn ConstructorFunc) {
	if c.reg.constructors == nil {
		c.reg.constructors = make(map[string]ConstructorFunc)
	}
	c.reg.constructors[tag] = fn
}

// AddMultiConstructor registers fn for every tag beginning with prefix.
// Exact-tag constructors registered via AddConstructor take precedence
// over a matching prefix.
func (c *Config) AddMultiConstructor(prefix string, fn MultiConstructorFunc) {
	c.reg.multiConstructors = append(c.reg.multiConstructors, multiConstructorEntry{prefix, fn})
}

// AddRepresenter registers fn as the representer for values of the given
// type.
func (c *Config) AddRepresenter(kind reflect.Type, fn RepresenterFunc) {
	if c.reg.representers == nil {
		c.reg.representers = make(map[reflect.Type]RepresenterFunc)
	}
	c.reg.representers[kind] = fn
}

// AddImplicitResolver extends the plain-scalar type inference table: a
// plain scalar beginning with one of firstChars and matching pattern is
// resolved to tag instead of whatever the built-in table would have
// chosen. firstChars may be empty to match any first character.
func (c *Config) AddImplicitResolver(tag string, pattern *regexp.Regexp, firstChars string) {
	c.reg.implicitResolvers = append(c.reg.implicitResolvers, implicitResolverEntry{tag, pattern, firstChars})
}

// constructor looks up a registered constructor for tag by exact match
// only; prefix matches are looked up separately by multiConstructor.
func (c *Config) constructor(tag string) (ConstructorFunc, bool) {
	if c == nil {
		return nil, false
	}
	if fn, ok := c.reg.constructors[tag]; ok {
		return fn, true
	}
	return nil, false
}

func (c *Config) multiConstructor(tag string) (MultiConstructorFunc, string, bool) {
	if c == nil {
		return nil, "", false
	}
	for _, e := range c.reg.multiConstructors {
		if len(tag) >= len(e.prefix) && tag[:len(e.prefix)] == e.prefix {
			return e.fn, tag[len(e.prefix):], true
		}
	}
	return nil, "", false
}

func (c *Config) representer(t reflect.Type) (RepresenterFunc, bool) {
	if c == nil || c.reg.representers == nil {
		return nil, false
	}
	fn, ok := c.reg.representers[t]
	return fn, ok
}

// resolveImplicit runs the registered implicit resolvers against a plain
// scalar before falling back to the built-in 1.1/1.2 table, so a caller
// extending the type grammar (e.g. a custom timestamp format) is
// consulted first.
func (c *Config) resolveImplicit(in string) (tag string, ok bool) {
	if c == nil {
		return "", false
	}
	for _, r := range c.reg.implicitResolvers {
		if r.firstChars != "" {
			if in == "" || indexByte(r.firstChars, in[0]) < 0 {
				continue
			}
		}
		if r.pattern.MatchString(in) {
			return r.tag, true
		}
	}
	return "", false
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
