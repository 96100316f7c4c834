package yaml

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/ondrajz/rtyaml/internal/ordered"
	rtresolve "github.com/ondrajz/rtyaml/internal/resolve"
)

// Represent is the inverse of Construct: it turns a round-trip value
// (typically an *ordered.Map / *ordered.Seq / *ordered.Set produced by
// Construct, possibly edited by the caller in between) back into a node
// tree, assigning anchors to every value referenced more than once and
// reusing the node's own recorded anchor/flow-style/comment metadata
// wherever the caller didn't discard it.
func (c *Config) Represent(v interface{}) (*Node, error) {
	rep := &representer{cfg: c, refcount: make(map[interface{}]int), anchorOf: make(map[interface{}]string), builtNode: make(map[interface{}]*Node), usedNames: make(map[string]bool)}
	rep.count(v)
	rep.assignAnchors(v)
	return rep.build(v)
}

type representer struct {
	cfg        *Config
	refcount   map[interface{}]int
	anchorOf   map[interface{}]string
	builtNode  map[interface{}]*Node
	usedNames  map[string]bool
	seenAssign map[interface{}]bool
	nextID     int
}

// visited reports whether ptr was already passed to assignAnchors,
// marking it seen as a side effect.
func (rep *representer) visited(ptr interface{}) bool {
	if rep.seenAssign == nil {
		rep.seenAssign = make(map[interface{}]bool)
	}
	if rep.seenAssign[ptr] {
		return true
	}
	rep.seenAssign[ptr] = true
	return false
}

// count walks the value graph once, tallying how many times each
// collection pointer is reached. Stopping recursion as soon as a pointer
// is seen a second time both avoids double-counting its children and
// terminates a cyclic graph (an alias pointing at an ancestor).
func (rep *representer) count(v interface{}) {
	switch t := v.(type) {
	case *ordered.Map:
		rep.refcount[t]++
		if rep.refcount[t] > 1 {
			return
		}
		for _, k := range t.OwnKeys() {
			val, _ := t.Get(k)
			rep.count(val)
		}
		for _, mg := range t.Merges() {
			rep.count(mg.Map)
		}
	case *ordered.Seq:
		rep.refcount[t]++
		if rep.refcount[t] > 1 {
			return
		}
		for i := 0; i < t.Len(); i++ {
			rep.count(t.At(i))
		}
	case *ordered.Set:
		rep.refcount[t]++
		if rep.refcount[t] > 1 {
			return
		}
		for _, val := range t.Values() {
			rep.count(val)
		}
	}
}

// assignAnchors walks the same graph count() already tallied, handing out
// an anchor to every node whose reference count exceeds one. It tracks
// its own visited set rather than reusing refcount>1 as a recursion
// guard: a node with refcount 2 still needs its children visited exactly
// once (on first encounter), not zero times.
func (rep *representer) assignAnchors(v interface{}) {
	switch t := v.(type) {
	case *ordered.Map:
		rep.maybeAssign(t, t.Anchor)
		if rep.visited(t) {
			return
		}
		for _, k := range t.OwnKeys() {
			val, _ := t.Get(k)
			rep.assignAnchors(val)
		}
		for _, mg := range t.Merges() {
			rep.assignAnchors(mg.Map)
		}
	case *ordered.Seq:
		rep.maybeAssign(t, t.Anchor)
		if rep.visited(t) {
			return
		}
		for i := 0; i < t.Len(); i++ {
			rep.assignAnchors(t.At(i))
		}
	case *ordered.Set:
		rep.maybeAssign(t, t.Anchor)
		if rep.visited(t) {
			return
		}
		for _, val := range t.Values() {
			rep.assignAnchors(val)
		}
	}
}

// flowStyleFor resolves a collection's effective flow-style: its own
// recorded preference if it has one, otherwise Config.DefaultFlowStyle,
// otherwise block style.
func (rep *representer) flowStyleFor(recorded bool, ok bool) bool {
	if ok {
		return recorded
	}
	if rep.cfg != nil && rep.cfg.DefaultFlowStyle != nil {
		return *rep.cfg.DefaultFlowStyle
	}
	return false
}

func (rep *representer) maybeAssign(ptr interface{}, anchorFn func() (string, bool)) {
	name, alwaysDump := anchorFn()
	if name != "" {
		rep.anchorOf[ptr] = name
		rep.usedNames[name] = true
		return
	}
	if alwaysDump || rep.refcount[ptr] > 1 {
		rep.anchorOf[ptr] = rep.nextAnchorName()
	}
}

func (rep *representer) nextAnchorName() string {
	for {
		rep.nextID++
		name := fmt.Sprintf("id%03d", rep.nextID)
		if !rep.usedNames[name] {
			rep.usedNames[name] = true
			return name
		}
	}
}

func (rep *representer) build(v interface{}) (*Node, error) {
	switch t := v.(type) {
	case *ordered.Map:
		return rep.buildMap(t)
	case *ordered.Seq:
		return rep.buildSeq(t)
	case *ordered.Set:
		return rep.buildSet(t)
	case nil:
		return scalarNode(rtresolve.NullTag, "~"), nil
	default:
		if fn, ok := rep.cfg.representer(reflect.TypeOf(v)); ok {
			return fn(v)
		}
		return representScalar(v)
	}
}

func (rep *representer) buildMap(m *ordered.Map) (*Node, error) {
	if n, ok := rep.builtNode[m]; ok {
		return &Node{Kind: AliasNode, Alias: n}, nil
	}
	node := &Node{Kind: MappingNode, Anchor: rep.anchorOf[m]}
	if rep.flowStyleFor(m.FlowStyle()) {
		node.Style |= FlowStyle
	}
	cc := m.ContainerComment()
	node.HeadComment = cc.Before
	node.FootComment = cc.After
	rep.builtNode[m] = node

	own := m.OwnKeys()
	merges := m.Merges()
	mi := 0
	for i := 0; i <= len(own); i++ {
		for mi < len(merges) && merges[mi].Index == i {
			mergedNode, err := rep.build(merges[mi].Map)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalarNode(rtresolve.MergeTag, "<<"), mergedNode)
			mi++
		}
		if i == len(own) {
			break
		}
		key := own[i]
		val, _ := m.Get(key)
		keyNode, err := rep.build(key)
		if err != nil {
			return nil, err
		}
		valNode, err := rep.build(val)
		if err != nil {
			return nil, err
		}
		c := m.Comment(key)
		keyNode.HeadComment = c.Before
		valNode.LineComment = c.Inline
		valNode.FootComment = c.After
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func (rep *representer) buildSeq(s *ordered.Seq) (*Node, error) {
	if n, ok := rep.builtNode[s]; ok {
		return &Node{Kind: AliasNode, Alias: n}, nil
	}
	node := &Node{Kind: SequenceNode, Anchor: rep.anchorOf[s]}
	if rep.flowStyleFor(s.FlowStyle()) {
		node.Style |= FlowStyle
	}
	cc := s.ContainerComment()
	node.HeadComment = cc.Before
	node.FootComment = cc.After
	rep.builtNode[s] = node

	for i := 0; i < s.Len(); i++ {
		item, err := rep.build(s.At(i))
		if err != nil {
			return nil, err
		}
		c := s.Comment(i)
		item.HeadComment = c.Before
		item.LineComment = c.Inline
		node.Content = append(node.Content, item)
	}
	return node, nil
}

func (rep *representer) buildSet(s *ordered.Set) (*Node, error) {
	if n, ok := rep.builtNode[s]; ok {
		return &Node{Kind: AliasNode, Alias: n}, nil
	}
	node := &Node{Kind: MappingNode, Tag: "!!set", Anchor: rep.anchorOf[s]}
	rep.builtNode[s] = node
	for _, val := range s.Values() {
		keyNode, err := rep.build(val)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, scalarNode(rtresolve.NullTag, "~"))
	}
	return node, nil
}

func scalarNode(tag, value string) *Node {
	return &Node{Kind: ScalarNode, Tag: tag, Value: value}
}

// representScalar builds a node for a plain Go scalar produced by
// Construct (or supplied directly by a caller editing a document). It
// picks the same tag vocabulary Construct consumes, so
// Represent(Construct(n)) round-trips the scalar's resolved type even
// when style metadata was lost.
func representScalar(v interface{}) (*Node, error) {
	switch x := v.(type) {
	case QuotedString:
		return &Node{Kind: ScalarNode, Tag: rtresolve.StrTag, Value: x.Value, Style: x.Style}, nil
	case string:
		n := &Node{}
		n.SetString(x)
		return n, nil
	case bool:
		if x {
			return scalarNode(rtresolve.BoolTag, "true"), nil
		}
		return scalarNode(rtresolve.BoolTag, "false"), nil
	case int:
		return scalarNode(rtresolve.IntTag, strconv.Itoa(x)), nil
	case int64:
		return scalarNode(rtresolve.IntTag, strconv.FormatInt(x, 10)), nil
	case uint64:
		return scalarNode(rtresolve.IntTag, strconv.FormatUint(x, 10)), nil
	case float64:
		return scalarNode(rtresolve.FloatTag, formatFloat(x)), nil
	case time.Time:
		return scalarNode(rtresolve.TimestampTag, x.Format(time.RFC3339Nano)), nil
	default:
		return nil, newError("representer", "", Mark{}, fmt.Sprintf("cannot represent value of type %T", v), Mark{}, nil)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
