// Package ordered implements the caller-facing round-trip containers:
// ordered mappings, sequences, and sets that remember insertion order,
// per-key comments and positions, an anchor name, and (for mappings) the
// list of "<<" merges that contributed to them without ever flattening
// those merges into the map itself.
package ordered

import "fmt"

// CommentSlot names one of the four places a comment can attach to a key,
// an index, or a whole container.
type CommentSlot int

const (
	Before CommentSlot = iota
	Inline
	After
	End
)

// Position records where a key or element appeared in the source text.
type Position struct {
	Line   int
	Column int
}

// Comments bundles the comment text recorded for one slot set.
type Comments struct {
	Before string
	Inline string
	After  string
}

// Merge records one "<<" contribution to a Map: the insertion index the
// merge entry occupied in the physical key order, and the mapping it
// pulled from. Merge lists are consulted left-to-right and never win over
// a key already present in the map's own entries.
type Merge struct {
	Index int
	Map   *Map
}

// normalizeKey converts a key into a form usable as a Go map key. Scalars
// (strings, ints, bools, floats) are already comparable and pass through
// unchanged. A key that is itself a slice (a YAML sequence used as a
// mapping key, e.g. "[2, 3, 4]:"), a map, a *Map or a *Seq is not usable
// as a Go map key by content, so it is rendered to its %#v text form and tagged with a private type to avoid
// colliding with an actual string key holding the same text.
type seqKey string

func normalizeKey(key interface{}) interface{} {
	switch key.(type) {
	case []interface{}, map[string]interface{}, *Map, *Seq:
		return seqKey(fmt.Sprintf("%#v", key))
	default:
		return key
	}
}

// Map is an insertion-ordered mapping augmented with comment, position,
// anchor, and merge metadata, matching the round-trip value model: own
// keys always win over merged ones, and merge lists are consulted
// left-to-right without being copied into the map's own storage.
type Map struct {
	keys      []interface{}
	values    map[interface{}]interface{}
	positions map[interface{}]Position
	comments  map[interface{}]*Comments
	merges    []Merge

	anchor     string
	alwaysDump bool
	flowStyle  bool
	flowSet    bool

	containerComments Comments
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[interface{}]interface{})}
}

// Set inserts key=value, appending it if key is new and updating the
// value in place (keeping its original position) otherwise.
func (m *Map) Set(key, value interface{}) {
	nk := normalizeKey(key)
	if _, ok := m.values[nk]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[nk] = value
}

// Delete removes key from the map's own entries. A key that remains
// visible only through a merge is unaffected.
func (m *Map) Delete(key interface{}) {
	nk := normalizeKey(key)
	if _, ok := m.values[nk]; !ok {
		return
	}
	delete(m.values, nk)
	for i, k := range m.keys {
		if normalizeKey(k) == nk {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Get looks up key in the map's own entries first, then each merged
// mapping in registration order, returning the first match.
func (m *Map) Get(key interface{}) (interface{}, bool) {
	nk := normalizeKey(key)
	if v, ok := m.values[nk]; ok {
		return v, true
	}
	for _, mg := range m.merges {
		if v, ok := mg.Map.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Len reports the number of distinct keys visible through own-then-merge
// resolution: its own key count, plus every merged key not shadowed by an
// own key or an earlier merge.
func (m *Map) Len() int {
	return len(m.Keys())
}

// Keys returns the keys visible via own-then-merge resolution, each
// appearing exactly once: the map's own keys in insertion order, followed
// by each merged mapping's keys (in that mapping's own order) that were
// not already seen.
func (m *Map) Keys() []interface{} {
	seen := make(map[interface{}]bool, len(m.keys))
	out := make([]interface{}, 0, len(m.keys))
	for _, k := range m.keys {
		nk := normalizeKey(k)
		if !seen[nk] {
			seen[nk] = true
			out = append(out, k)
		}
	}
	for _, mg := range m.merges {
		for _, k := range mg.Map.Keys() {
			nk := normalizeKey(k)
			if !seen[nk] {
				seen[nk] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// OwnKeys returns only the map's own keys (not merge-contributed ones) in
// insertion order, for representers that need to re-emit just the local
// entries alongside an explicit "<<" line.
func (m *Map) OwnKeys() []interface{} {
	out := make([]interface{}, len(m.keys))
	copy(out, m.keys)
	return out
}

// AddMerge appends a merge contribution at physical position index (its
// position among the map's own keys, since "<<" is itself a key).
func (m *Map) AddMerge(index int, other *Map) {
	m.merges = append(m.merges, Merge{Index: index, Map: other})
}

// Merges returns the recorded "<<" contributions in registration order.
func (m *Map) Merges() []Merge { return m.merges }

// SetAnchor records the anchor name bound to this mapping, and whether it
// must be re-emitted even if it ends up with only one reference
// (alwaysDump, set for anchors the caller defined explicitly rather than
// ones the serializer invented).
func (m *Map) SetAnchor(name string, alwaysDump bool) {
	m.anchor = name
	m.alwaysDump = alwaysDump
}

// Anchor returns the recorded anchor name and its always-dump flag.
func (m *Map) Anchor() (string, bool) { return m.anchor, m.alwaysDump }

// SetFlowStyle records whether this mapping should be re-emitted in flow
// ({a: b}) rather than block form. Unset (no call to SetFlowStyle) leaves
// the choice to the representer's default heuristics.
func (m *Map) SetFlowStyle(flow bool) {
	m.flowStyle = flow
	m.flowSet = true
}

// FlowStyle reports the recorded flow-style preference, if any.
func (m *Map) FlowStyle() (flow bool, ok bool) { return m.flowStyle, m.flowSet }

// SetPosition records where key first appeared in the source.
func (m *Map) SetPosition(key interface{}, pos Position) {
	if m.positions == nil {
		m.positions = make(map[interface{}]Position)
	}
	m.positions[normalizeKey(key)] = pos
}

// Position returns the recorded source position for key.
func (m *Map) Position(key interface{}) (Position, bool) {
	p, ok := m.positions[normalizeKey(key)]
	return p, ok
}

// AddComment attaches text to the given slot for key. Passing a nil key
// attaches the comment to the container itself (its End slot, typically
// used for a foot comment following the last entry).
func (m *Map) AddComment(key interface{}, slot CommentSlot, text string) {
	if key == nil {
		setSlot(&m.containerComments, slot, text)
		return
	}
	if m.comments == nil {
		m.comments = make(map[interface{}]*Comments)
	}
	nk := normalizeKey(key)
	c := m.comments[nk]
	if c == nil {
		c = &Comments{}
		m.comments[nk] = c
	}
	setSlot(c, slot, text)
}

// Comment returns the comment bundle recorded for key, or a zero value if
// none was recorded.
func (m *Map) Comment(key interface{}) Comments {
	if c := m.comments[normalizeKey(key)]; c != nil {
		return *c
	}
	return Comments{}
}

// ContainerComment returns the comment bundle attached to the mapping
// itself rather than to any one key.
func (m *Map) ContainerComment() Comments { return m.containerComments }

func setSlot(c *Comments, slot CommentSlot, text string) {
	switch slot {
	case Before:
		c.Before = text
	case Inline:
		c.Inline = text
	case After, End:
		c.After = text
	}
}

// Seq is an insertion-ordered sequence with the same per-index decoration
// as Map: comments, positions, an optional anchor, and a recorded
// flow-style preference.
type Seq struct {
	values   []interface{}
	comments []*Comments

	anchor     string
	alwaysDump bool
	flowStyle  bool
	flowSet    bool

	containerComments Comments
}

// NewSeq returns an empty Seq.
func NewSeq() *Seq { return &Seq{} }

// Append adds value to the end of the sequence.
func (s *Seq) Append(value interface{}) {
	s.values = append(s.values, value)
	s.comments = append(s.comments, nil)
}

// Len returns the number of elements.
func (s *Seq) Len() int { return len(s.values) }

// At returns the element at index i.
func (s *Seq) At(i int) interface{} { return s.values[i] }

// Set replaces the element at index i.
func (s *Seq) Set(i int, value interface{}) { s.values[i] = value }

// Values returns the sequence contents as a plain slice.
func (s *Seq) Values() []interface{} {
	out := make([]interface{}, len(s.values))
	copy(out, s.values)
	return out
}

// SetAnchor records the anchor name bound to this sequence.
func (s *Seq) SetAnchor(name string, alwaysDump bool) {
	s.anchor = name
	s.alwaysDump = alwaysDump
}

// Anchor returns the recorded anchor name and its always-dump flag.
func (s *Seq) Anchor() (string, bool) { return s.anchor, s.alwaysDump }

// SetFlowStyle records whether this sequence should be re-emitted in flow
// ([a, b]) rather than block form.
func (s *Seq) SetFlowStyle(flow bool) {
	s.flowStyle = flow
	s.flowSet = true
}

// FlowStyle reports the recorded flow-style preference, if any.
func (s *Seq) FlowStyle() (flow bool, ok bool) { return s.flowStyle, s.flowSet }

// AddComment attaches text to the given slot for the element at index i.
func (s *Seq) AddComment(i int, slot CommentSlot, text string) {
	if i < 0 {
		setSlot(&s.containerComments, slot, text)
		return
	}
	for len(s.comments) <= i {
		s.comments = append(s.comments, nil)
	}
	if s.comments[i] == nil {
		s.comments[i] = &Comments{}
	}
	setSlot(s.comments[i], slot, text)
}

// Comment returns the comment bundle recorded for the element at index i.
func (s *Seq) Comment(i int) Comments {
	if i >= 0 && i < len(s.comments) && s.comments[i] != nil {
		return *s.comments[i]
	}
	return Comments{}
}

// ContainerComment returns the comment attached to the sequence itself.
func (s *Seq) ContainerComment() Comments { return s.containerComments }

// Set is an insertion-ordered collection of distinct values, the
// round-trip form of a "!!set" node (conventionally represented on the
// wire as a mapping to null values).
type Set struct {
	m *Map
}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{m: NewMap()} }

// Add inserts value if not already present.
func (s *Set) Add(value interface{}) { s.m.Set(value, nil) }

// Has reports whether value is a member.
func (s *Set) Has(value interface{}) bool {
	_, ok := s.m.Get(value)
	return ok
}

// Remove deletes value from the set.
func (s *Set) Remove(value interface{}) { s.m.Delete(value) }

// Len returns the number of members.
func (s *Set) Len() int { return s.m.Len() }

// Values returns the members in insertion order.
func (s *Set) Values() []interface{} { return s.m.Keys() }

// SetAnchor records the anchor name bound to this set.
func (s *Set) SetAnchor(name string, alwaysDump bool) { s.m.SetAnchor(name, alwaysDump) }

// Anchor returns the recorded anchor name and its always-dump flag.
func (s *Set) Anchor() (string, bool) { return s.m.Anchor() }
