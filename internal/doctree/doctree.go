// Package doctree models configuration documents as a small closed set of
// node variants: mappings with insertion-ordered entries, sequences, and
// scalars. Trees are built fresh from YAML and written back without anchors
// or aliases, so every logical copy in a serialized document is an
// independent value.
package doctree

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a YAML document cannot be represented
// as a doctree (e.g. a mapping with a non-scalar key).
var ErrInvalidDocument = errors.New("doctree: invalid document")

// Kind identifies the variant of a Node.
type Kind int

const (
	// Scalar is a leaf value: string, int, float64, bool, or nil.
	Scalar Kind = iota
	// Mapping is an ordered set of key/value entries with string keys.
	Mapping
	// Sequence is an ordered list of nodes.
	Sequence
)

// Node is one vertex of a configuration tree. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Node struct {
	Kind  Kind
	Value any     // scalar payload
	Pairs []Pair  // mapping entries, insertion order
	Items []*Node // sequence elements
}

// Pair is a single mapping entry.
type Pair struct {
	Key   string
	Value *Node
}

// NewScalar returns a scalar node holding v.
func NewScalar(v any) *Node {
	return &Node{Kind: Scalar, Value: v}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: Mapping}
}

// NewSequence returns a sequence node holding the given items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: Sequence, Items: items}
}

// Get returns the value for key in a mapping node, or nil if the key is
// absent or the node is not a mapping.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != Mapping {
		return nil
	}
	for _, p := range n.Pairs {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

// Set replaces the value for key in a mapping node, appending a new entry
// when the key is absent. Insertion order of existing keys is preserved.
func (n *Node) Set(key string, value *Node) {
	for i := range n.Pairs {
		if n.Pairs[i].Key == key {
			n.Pairs[i].Value = value
			return
		}
	}
	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// StringValue returns the node's scalar payload as a string. The second
// return is false when the node is not a string scalar.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.Kind != Scalar {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// Clone returns a deep copy of the tree rooted at n. The copy shares no
// nodes with the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Value: n.Value}
	if len(n.Pairs) > 0 {
		out.Pairs = make([]Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			out.Pairs[i] = Pair{Key: p.Key, Value: p.Value.Clone()}
		}
	}
	if len(n.Items) > 0 {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// Unmarshal parses YAML bytes into a tree. Anchors and aliases in the input
// are materialized into independent subtrees.
func Unmarshal(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// Empty document.
		return NewMapping(), nil
	}
	return fromYAML(root.Content[0])
}

// Marshal serializes a tree to YAML with the given indent, preserving
// mapping key order.
func Marshal(n *Node, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(n.toYAML()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return buf.Bytes(), nil
}

func fromYAML(yn *yaml.Node) (*Node, error) {
	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAML(yn.Content[0])

	case yaml.AliasNode:
		// Resolving the alias here materializes an independent copy.
		return fromYAML(yn.Alias)

	case yaml.MappingNode:
		out := NewMapping()
		for i := 0; i+1 < len(yn.Content); i += 2 {
			keyNode := yn.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: mapping key at line %d is not a scalar", ErrInvalidDocument, keyNode.Line)
			}
			value, err := fromYAML(yn.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Pairs = append(out.Pairs, Pair{Key: keyNode.Value, Value: value})
		}
		return out, nil

	case yaml.SequenceNode:
		out := NewSequence()
		for _, item := range yn.Content {
			child, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, child)
		}
		return out, nil

	case yaml.ScalarNode:
		var v any
		if err := yn.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return NewScalar(v), nil

	default:
		return nil, fmt.Errorf("%w: unsupported node kind %d", ErrInvalidDocument, yn.Kind)
	}
}

func (n *Node) toYAML() *yaml.Node {
	switch n.Kind {
	case Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range n.Pairs {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}
			out.Content = append(out.Content, key, p.Value.toYAML())
		}
		return out

	case Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			out.Content = append(out.Content, item.toYAML())
		}
		return out

	default:
		out := &yaml.Node{}
		if n.Value == nil {
			out.Kind = yaml.ScalarNode
			out.Tag = "!!null"
			out.Value = "null"
			return out
		}
		// Encode never fails for the scalar types doctree stores.
		_ = out.Encode(n.Value)
		return out
	}
}
