// Package kayako implements the Kayako Classic REST API core: per-request
// signature generation, the XML response normalizer, and the authenticated
// transport client with its error taxonomy.
package kayako

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the variants of a normalized Node.
type Kind uint8

const (
	// KindScalar holds a single coerced value (int64, float64, bool,
	// string, or nil).
	KindScalar Kind = iota

	// KindMapping holds an ordered set of unique keys. Keys are either
	// child element tags, "@"-prefixed attribute names, or "#text" for
	// mixed content.
	KindMapping

	// KindSequence holds an ordered list of nodes, produced when two or
	// more sibling elements share a tag.
	KindSequence
)

// Node is the canonical in-memory representation of a parsed XML tree.
//
// Consumers must branch on Kind explicitly: the same logical field can be
// a bare node in one response and a Sequence in the next, depending on how
// many siblings shared the tag. Use Sequence to get a uniform view.
type Node struct {
	kind   Kind
	scalar any
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Scalar returns a scalar node holding v. v must be one of int64,
// float64, bool, string, or nil.
func Scalar(v any) *Node {
	return &Node{kind: KindScalar, scalar: v}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, fields: make(map[string]*Node)}
}

// NewSequence returns a sequence node holding the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, items: items}
}

// Kind returns the variant of the node. A nil node reports KindScalar.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}
	return n.kind
}

// IsNull reports whether the node is a nil node or a nil scalar.
func (n *Node) IsNull() bool {
	return n == nil || (n.kind == KindScalar && n.scalar == nil)
}

// Value returns the scalar value, or nil for non-scalar nodes.
func (n *Node) Value() any {
	if n == nil || n.kind != KindScalar {
		return nil
	}
	return n.scalar
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Field returns the value for key, or nil if the node is not a mapping
// or the key is absent. Safe to chain on a nil receiver.
func (n *Node) Field(key string) *Node {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	return n.fields[key]
}

// Has reports whether the mapping contains key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindMapping {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Add inserts child under key. If the key already holds a value, the
// existing node is retroactively wrapped into a sequence and the child
// appended; the first occurrence is never pre-wrapped.
func (n *Node) Add(key string, child *Node) {
	if n.kind != KindMapping {
		return
	}
	existing, ok := n.fields[key]
	if !ok {
		n.keys = append(n.keys, key)
		n.fields[key] = child
		return
	}
	if existing.kind == KindSequence {
		existing.items = append(existing.items, child)
		return
	}
	n.fields[key] = NewSequence(existing, child)
}

// Append adds an item to a sequence node.
func (n *Node) Append(child *Node) {
	if n.kind != KindSequence {
		return
	}
	n.items = append(n.items, child)
}

// Items returns the sequence items, or nil for non-sequence nodes.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindSequence {
		return nil
	}
	return n.items
}

// Sequence returns a uniform list view: a sequence yields its items, a
// nil node yields nil, and any other node yields a one-element list.
// Callers use this to absorb the list-vs-scalar ambiguity of the wire
// format.
func (n *Node) Sequence() []*Node {
	if n == nil {
		return nil
	}
	if n.kind == KindSequence {
		return n.items
	}
	return []*Node{n}
}

// Len returns the number of entries: mapping keys, sequence items, or
// 0/1 for scalars depending on nullness.
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.kind == KindMapping:
		return len(n.keys)
	case n.kind == KindSequence:
		return len(n.items)
	case n.scalar == nil:
		return 0
	default:
		return 1
	}
}

// Text renders a scalar as its string form. Non-scalar and null nodes
// render as "".
func (n *Node) Text() string {
	if n == nil || n.kind != KindScalar || n.scalar == nil {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StringOr returns the text of the field under key, or fallback when the
// field is absent or null.
func (n *Node) StringOr(key, fallback string) string {
	f := n.Field(key)
	if f.IsNull() {
		return fallback
	}
	return f.Text()
}

// MarshalJSON renders the node as plain JSON: scalars verbatim, mappings
// as objects with keys in insertion order, sequences as arrays.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	switch n.kind {
	case KindScalar:
		return json.Marshal(n.scalar)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(item)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(n.fields[key])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown node kind %d", n.kind)
	}
}
