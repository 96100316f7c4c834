package yaml

import (
	"fmt"

	"github.com/ondrajz/rtyaml/internal/ordered"
	rtresolve "github.com/ondrajz/rtyaml/internal/resolve"
)

// QuotedString is a string scalar that remembers the quote/block style its
// source node was written with. Construct only ever produces one of these
// when Config.PreserveQuotes is set and the source was quoted or written in
// literal/folded block form; a plain unquoted scalar still comes back as a
// bare string. Represent reapplies the recorded style on the way back out.
type QuotedString struct {
	Value string
	Style Style
}

// Construct materializes a node tree into the round-trip value model: a
// *ordered.Map / *ordered.Seq / *ordered.Set for collections, carrying
// comments, positions, anchors, and (for mappings) an un-flattened merge
// list, and a plain Go scalar (string/int/int64/uint64/float64/bool/nil/
// time.Time) for leaves. Unlike Unmarshal, Construct never consults a Go
// struct: it is the entry point for callers that want to edit a document
// and re-emit it rather than bind it to a typed value.
//
// A node already under construction (detected via an identity cache)
// returns the same container instance instead of recursing, which gives
// cyclic graphs (an alias pointing at an ancestor) a well-defined result.
func (c *Config) Construct(doc *Node) (interface{}, error) {
	root := doc
	docVersion := VersionAuto
	if doc.Kind == DocumentNode {
		docVersion = doc.Version
		if len(doc.Content) == 0 {
			return nil, nil
		}
		root = doc.Content[0]
	}
	ctor := &constructor{cfg: c, docVersion: docVersion, built: make(map[*Node]interface{})}
	return ctor.construct(root)
}

type constructor struct {
	cfg        *Config
	docVersion Version
	built      map[*Node]interface{}
}

// version is the table constructScalar resolves plain scalars against: the
// Config's version if the caller pinned one, otherwise the %YAML directive
// recorded on the document being constructed, otherwise 1.2.
func (ctor *constructor) version() Version {
	if ctor.cfg != nil && ctor.cfg.Version != VersionAuto {
		return ctor.cfg.Version
	}
	if ctor.docVersion != VersionAuto {
		return ctor.docVersion
	}
	return V1_2
}

func (ctor *constructor) allowDuplicateKeys() bool {
	return ctor.cfg != nil && ctor.cfg.AllowDuplicateKeys
}

func (ctor *constructor) preserveQuotes() bool {
	return ctor.cfg != nil && ctor.cfg.PreserveQuotes
}

func (ctor *constructor) sink() WarningSink {
	return ctor.cfg.sink()
}

func (ctor *constructor) construct(n *Node) (interface{}, error) {
	if n.Kind == AliasNode {
		if n.Alias == nil {
			return nil, newError("composer", "", Mark{}, "found undefined alias", Mark{Line: n.Line, Column: n.Column}, nil)
		}
		return ctor.construct(n.Alias)
	}
	if v, ok := ctor.built[n]; ok {
		return v, nil
	}
	switch n.Kind {
	case ScalarNode:
		return ctor.constructScalar(n)
	case SequenceNode:
		return ctor.constructSequence(n)
	case MappingNode:
		return ctor.constructMapping(n)
	}
	return nil, fmt.Errorf("yaml: cannot construct node of kind %v", n.Kind)
}

func (ctor *constructor) constructScalar(n *Node) (interface{}, error) {
	tag := n.Tag
	// The composer tags an untagged plain scalar from the 1.2 table; that
	// inferred tag is dropped so the scalar resolves under ctor.version().
	implicit := false
	if n.Style&(TaggedStyle|SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) == 0 {
		if rtag, _, _ := rtresolve.Resolve("", n.Value); tag == "" || rtresolve.ShortTag(tag) == rtag {
			tag, implicit = "", true
		}
	}
	if !implicit && n.indicatedString() {
		if ctor.preserveQuotes() && n.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0 {
			return QuotedString{Value: n.Value, Style: n.Style}, nil
		}
		return n.Value, nil
	}
	if rtag, ok := ctor.cfg.resolveImplicit(n.Value); ok && tag == "" {
		tag = rtag
	}
	if fn, ok := ctor.cfg.constructor(n.ShortTag()); ok {
		return fn(n)
	}
	if fn, suffix, ok := ctor.cfg.multiConstructor(n.ShortTag()); ok {
		return fn(suffix, n)
	}
	_, out, err := resolveWithVersion(ctor.version(), tag, n.Value)
	return out, err
}

func (ctor *constructor) constructSequence(n *Node) (interface{}, error) {
	if n.ShortTag() == rtresolve.ShortTag("tag:yaml.org,2002:set") {
		return ctor.constructSetFromSeq(n)
	}
	seq := ordered.NewSeq()
	ctor.built[n] = seq
	if n.Style&FlowStyle != 0 {
		seq.SetFlowStyle(true)
	}
	if n.Anchor != "" && !isGeneratedAnchor(n.Anchor) {
		seq.SetAnchor(n.Anchor, true)
	}
	if n.HeadComment != "" {
		seq.AddComment(-1, ordered.Before, n.HeadComment)
	}
	if n.FootComment != "" {
		seq.AddComment(-1, ordered.End, n.FootComment)
	}
	for i, item := range n.Content {
		v, err := ctor.construct(item)
		if err != nil {
			return nil, err
		}
		seq.Append(v)
		if item.LineComment != "" {
			seq.AddComment(i, ordered.Inline, item.LineComment)
		}
		if item.HeadComment != "" {
			seq.AddComment(i, ordered.Before, item.HeadComment)
		}
	}
	return seq, nil
}

func (ctor *constructor) constructSetFromSeq(n *Node) (interface{}, error) {
	set := ordered.NewSet()
	ctor.built[n] = set
	if n.Anchor != "" && !isGeneratedAnchor(n.Anchor) {
		set.SetAnchor(n.Anchor, true)
	}
	for _, item := range n.Content {
		v, err := ctor.construct(item)
		if err != nil {
			return nil, err
		}
		set.Add(v)
	}
	return set, nil
}

func (ctor *constructor) constructMapping(n *Node) (interface{}, error) {
	if n.ShortTag() == rtresolve.ShortTag("tag:yaml.org,2002:set") {
		return ctor.constructSetFromMapping(n)
	}
	m := ordered.NewMap()
	ctor.built[n] = m
	if n.Style&FlowStyle != 0 {
		m.SetFlowStyle(true)
	}
	if n.Anchor != "" && !isGeneratedAnchor(n.Anchor) {
		m.SetAnchor(n.Anchor, true)
	}
	if n.HeadComment != "" {
		m.AddComment(nil, ordered.Before, n.HeadComment)
	}
	if n.FootComment != "" {
		m.AddComment(nil, ordered.End, n.FootComment)
	}

	seen := make(map[interface{}]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.ShortTag() == rtresolve.MergeTag || keyNode.Value == "<<" {
			if err := ctor.mergeInto(m, valNode, i/2); err != nil {
				return nil, err
			}
			continue
		}

		key, err := ctor.construct(keyNode)
		if err != nil {
			return nil, err
		}
		hk := hashableKey(key)
		if seen[hk] {
			if !ctor.allowDuplicateKeys() {
				return nil, newError("constructor", "while constructing a mapping", Mark{Line: n.Line, Column: n.Column},
					fmt.Sprintf("found duplicate key %v", key), Mark{Line: keyNode.Line, Column: keyNode.Column}, nil)
			}
			ctor.sink().Warn(Warning{Kind: DuplicateKeyFutureWarning, Mark: Mark{Line: keyNode.Line, Column: keyNode.Column}, Text: fmt.Sprintf("found duplicate key %v", key)})
		}
		seen[hk] = true

		value, err := ctor.construct(valNode)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
		m.SetPosition(key, ordered.Position{Line: keyNode.Line, Column: keyNode.Column})
		if keyNode.HeadComment != "" {
			m.AddComment(key, ordered.Before, keyNode.HeadComment)
		}
		if valNode.LineComment != "" {
			m.AddComment(key, ordered.Inline, valNode.LineComment)
		} else if keyNode.LineComment != "" {
			m.AddComment(key, ordered.Inline, keyNode.LineComment)
		}
		if valNode.FootComment != "" {
			m.AddComment(key, ordered.After, valNode.FootComment)
		}
	}
	return m, nil
}

// mergeInto resolves a "<<" value (a single mapping alias, or a sequence
// of mapping aliases) and records each as a Merge contribution rather
// than copying its keys into m.
func (ctor *constructor) mergeInto(m *ordered.Map, valNode *Node, index int) error {
	targets := []*Node{valNode}
	if valNode.Kind == SequenceNode {
		targets = valNode.Content
	}
	for _, t := range targets {
		v, err := ctor.construct(t)
		if err != nil {
			return err
		}
		other, ok := v.(*ordered.Map)
		if !ok {
			return newError("constructor", "while constructing a mapping", Mark{},
				"expected a mapping for merge (\"<<\") value", Mark{Line: t.Line, Column: t.Column}, nil)
		}
		m.AddMerge(index, other)
	}
	return nil
}

func (ctor *constructor) constructSetFromMapping(n *Node) (interface{}, error) {
	set := ordered.NewSet()
	ctor.built[n] = set
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, err := ctor.construct(n.Content[i])
		if err != nil {
			return nil, err
		}
		set.Add(key)
	}
	return set, nil
}

// isGeneratedAnchor reports whether name matches the "id<NNN>" template
// the Serializer uses to invent anchor names, meaning it should be
// dropped on construction and regenerated on re-emission rather than
// treated as caller-meaningful.
func isGeneratedAnchor(name string) bool {
	if len(name) < 5 || name[:2] != "id" {
		return false
	}
	digits := name[2:]
	if digits == "000" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func hashableKey(key interface{}) interface{} {
	switch key.(type) {
	case *ordered.Map, *ordered.Seq, *ordered.Set:
		return fmt.Sprintf("%#v", key)
	default:
		return key
	}
}
