package yaml

import "bytes"

// UnmarshalRoundTrip parses in and constructs a round-trip value from it in
// one step: the byte-level counterpart to Construct, for a caller that has
// no reason to hold onto the intermediate *Node.
func (c *Config) UnmarshalRoundTrip(in []byte) (interface{}, error) {
	var doc Node
	if err := Unmarshal(in, &doc); err != nil {
		return nil, err
	}
	return c.Construct(&doc)
}

// MarshalRoundTrip is the inverse of UnmarshalRoundTrip: it represents v as
// a node tree and emits it, applying the formatting knobs on c.
func (c *Config) MarshalRoundTrip(v interface{}) ([]byte, error) {
	node, err := c.Represent(v)
	if err != nil {
		return nil, err
	}
	doc := &Node{Kind: DocumentNode, Content: []*Node{node}}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if c != nil {
		if c.Indent > 0 {
			enc.SetIndent(c.Indent)
		}
		enc.SetWidth(c.Width)
		enc.SetCompactSequence(c.CompactSeqIndent)
		enc.SetExplicit(c.ExplicitStart, c.ExplicitEnd)
		enc.SetAllowUnicode(c.AllowUnicode)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
