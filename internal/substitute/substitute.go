// Package substitute rewrites endpoint identifiers across arbitrarily
// nested configuration trees. Every string value under a `url` or `host`
// key, at any depth, is remapped through a substitution table built from a
// cyclically repeating replacement source.
//
// The walk is two-phase: a pure collection pass over the input tree, then a
// rewrite pass producing a fresh tree. The input is never mutated.
package substitute

import (
	"errors"
	"fmt"

	"github.com/example/pulse/tools/fixturegen/internal/doctree"
)

// ErrNoReplacements is returned when matches exist but the replacement
// source is empty. No partially substituted document is ever produced.
var ErrNoReplacements = errors.New("substitute: no replacement endpoints available")

// targetKeys are the mapping keys whose string values get rewritten.
var targetKeys = map[string]bool{
	"url":  true,
	"host": true,
}

// Result reports what one substitution run did.
type Result struct {
	// Doc is the rewritten tree. When Found is zero it is an unchanged
	// deep copy of the input.
	Doc *doctree.Node

	// Found counts every collected occurrence, duplicates included.
	Found int

	// Distinct counts distinct original values; each got exactly one
	// replacement.
	Distinct int
}

// Apply substitutes identifiers throughout the tree rooted at root. A tree
// with zero matching keys yields an unchanged copy with Found == 0; that is
// a "nothing to do" outcome, not an error.
func Apply(root *doctree.Node, replacements []string) (*Result, error) {
	found := Collect(root)
	if len(found) == 0 {
		return &Result{Doc: root.Clone()}, nil
	}
	if len(replacements) == 0 {
		return nil, fmt.Errorf("%w: %d values to replace", ErrNoReplacements, len(found))
	}

	mapping := buildMapping(found, replacements)
	return &Result{
		Doc:      rewrite(root, mapping),
		Found:    len(found),
		Distinct: len(mapping),
	}, nil
}

// Collect walks the tree depth-first and returns every string value found
// under a target key, in traversal order. Duplicates are retained; nothing
// is mutated.
func Collect(n *doctree.Node) []string {
	var found []string
	collect(n, &found)
	return found
}

func collect(n *doctree.Node, found *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case doctree.Mapping:
		for _, p := range n.Pairs {
			if s, ok := p.Value.StringValue(); ok && targetKeys[p.Key] {
				*found = append(*found, s)
				continue
			}
			collect(p.Value, found)
		}
	case doctree.Sequence:
		for _, item := range n.Items {
			collect(item, found)
		}
	}
}

// buildMapping assigns exactly one replacement per distinct original value.
// First-occurrence order determines assignment order; the replacement
// sequence wraps around when there are fewer replacements than distinct
// originals, and excess replacements go unused.
func buildMapping(found []string, replacements []string) map[string]string {
	mapping := make(map[string]string)
	next := 0
	for _, original := range found {
		if _, seen := mapping[original]; seen {
			continue
		}
		mapping[original] = replacements[next%len(replacements)]
		next++
	}
	return mapping
}

// rewrite produces a new tree of the same shape with target values looked
// up in the substitution table. Everything else is copied unchanged.
func rewrite(n *doctree.Node, mapping map[string]string) *doctree.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case doctree.Mapping:
		out := doctree.NewMapping()
		for _, p := range n.Pairs {
			if s, ok := p.Value.StringValue(); ok && targetKeys[p.Key] {
				if replacement, present := mapping[s]; present {
					out.Pairs = append(out.Pairs, doctree.Pair{Key: p.Key, Value: doctree.NewScalar(replacement)})
					continue
				}
			}
			out.Pairs = append(out.Pairs, doctree.Pair{Key: p.Key, Value: rewrite(p.Value, mapping)})
		}
		return out
	case doctree.Sequence:
		out := doctree.NewSequence()
		for _, item := range n.Items {
			out.Items = append(out.Items, rewrite(item, mapping))
		}
		return out
	default:
		return n.Clone()
	}
}
