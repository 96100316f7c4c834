//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yaml

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ondrajz/rtyaml/internal/resolve"
)

// Kind identifies the shape of a Node: a scalar, a collection, an alias
// binding, or the synthetic root of a document.
type Kind uint32

const (
	DocumentNode Kind = 1 << iota
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "DocumentNode"
	case SequenceNode:
		return "SequenceNode"
	case MappingNode:
		return "MappingNode"
	case ScalarNode:
		return "ScalarNode"
	case AliasNode:
		return "AliasNode"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Style carries presentation hints that must survive a round trip: quoting,
// flow-vs-block, and whether a tag was explicitly written in the source.
type Style uint32

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node is the shared currency between the composer (which builds a tree of
// these from a token/event stream) and the serializer (which walks one back
// into events). Every detail that must survive emit(parse(x)) == x lives
// here: comments, anchor name, quoting, and flow/block choice.
type Node struct {
	// Kind defines whether the node is a document, a mapping, a sequence,
	// a scalar value, or an alias to another node. The specific data type
	// of scalar nodes may be obtained via the ShortTag method.
	Kind Kind

	// Style allows customizing the appearance of the node in the tree.
	Style Style

	// Tag holds the YAML tag identifying the data type of the value,
	// or empty implying it should be resolved from the node properties alone.
	Tag string

	// Value holds the unescaped and unquoted representation of the value.
	Value string

	// Anchor holds the anchor name for this node, which allows aliases to point to it.
	Anchor string

	// Alias holds the node that this alias points to. Only valid when Kind is AliasNode.
	Alias *Node

	// Content holds contained nodes for documents, mappings, and sequences.
	Content []*Node

	// HeadComment holds any comments in the lines preceding the node and
	// not separated by an empty line.
	HeadComment string

	// LineComment holds any comments at the end of the line where the node is in.
	LineComment string

	// FootComment holds any comments following the node and before empty lines.
	FootComment string

	// Line and Column hold the node position in the decoded YAML text.
	// These fields are not respected when encoding the node.
	Line   int
	Column int

	// Version records the %YAML directive this document declared, or
	// VersionAuto if the source had none. Only meaningful when Kind is
	// DocumentNode; ignored when encoding.
	Version Version
}

// IsZero reports whether the node has all of its fields unset.
func (n *Node) IsZero() bool {
	return n.Kind == 0 && n.Style == 0 && n.Tag == "" && n.Value == "" &&
		n.Anchor == "" && n.Alias == nil && n.Content == nil &&
		n.HeadComment == "" && n.LineComment == "" && n.FootComment == "" &&
		n.Line == 0 && n.Column == 0 && n.Version == VersionAuto
}

// SetString is a convenience function that sets the node to a string value
// and defines its style in a pleasant way depending on its content.
func (n *Node) SetString(s string) {
	n.Kind = ScalarNode
	if !utf8.ValidString(s) {
		n.Tag = resolve.BinaryTag
		n.Value = resolve.EncodeBase64(s)
		return
	}
	n.Tag = resolve.StrTag
	n.Value = s
	if strings.Contains(s, "\n") {
		n.Style = LiteralStyle
	}
}

// Encode encodes value into the node, discarding whatever the node held.
//
// It round-trips through the text pipeline: the encoder already knows how
// to turn an arbitrary Go value into a correctly styled event stream, and
// the node-producing parser already knows how to turn an event stream back
// into a single node, so there is no separate value->node path to maintain.
func (n *Node) Encode(value interface{}) error {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(value); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	var doc Node
	if err := Unmarshal(buf.Bytes(), &doc); err != nil {
		return err
	}
	if len(doc.Content) != 1 {
		*n = Node{}
		return nil
	}
	*n = *doc.Content[0]
	return nil
}

// Decode decodes the node and stores its data into the value pointed to by v.
func (n *Node) Decode(v interface{}) (err error) {
	d := newDecoder()
	out := reflect.ValueOf(v)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return fmt.Errorf("yaml: Decode requires a non-nil pointer")
	}
	good, err := d.unmarshal(n, out.Elem())
	if err != nil {
		return err
	}
	if !good {
		if len(d.typeErrors) > 0 {
			return &TypeError{d.typeErrors}
		}
		return fmt.Errorf("yaml: cannot decode node with unknown kind %d", n.Kind)
	}
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	return nil
}

// ShortTag returns the short form of the node tag. So !!int and
// tag:yaml.org,2002:int becomes !!int.
func (n *Node) ShortTag() string {
	if n.indicatedString() {
		return resolve.StrTag
	}
	if n.Tag == "" {
		switch n.Kind {
		case MappingNode:
			return resolve.MapTag
		case SequenceNode:
			return resolve.SeqTag
		case ScalarNode:
			rtag, _, _ := resolve.Resolve("", n.Value)
			return rtag
		}
		if n.IsZero() {
			return resolve.NullTag
		}
	}
	return resolve.ShortTag(n.Tag)
}

// LongTag returns the long form of the node tag. So !!int and
// tag:yaml.org,2002:int both become tag:yaml.org,2002:int.
func (n *Node) LongTag() string {
	return resolve.LongTag(n.ShortTag())
}

func (n *Node) indicatedString() bool {
	return n.Kind == ScalarNode &&
		(resolve.ShortTag(n.Tag) == resolve.StrTag ||
			(n.Tag == "" || n.Tag == "!") && n.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0)
}
