// Package replicate expands or multiplies an existing monitor list to reach
// a target fixture size. Both modes deep-copy their sources; no monitor in
// the output shares structure with the input.
package replicate

import (
	"errors"
	"fmt"

	"github.com/example/pulse/tools/fixturegen/internal/doctree"
	"github.com/example/pulse/tools/fixturegen/internal/fixture"
)

// ErrInvalidFactor is returned for a non-positive replication factor. It is
// validated before any transformation begins.
var ErrInvalidFactor = errors.New("replicate: replication factor must be positive")

// ExpandResult reports what a target-count expansion did.
type ExpandResult struct {
	Monitors []*doctree.Node
	Added    int

	// Expanded is false when the target did not exceed the current size,
	// in which case the output is the unchanged originals.
	Expanded bool
}

// ExpandToCount grows a monitor list to exactly target definitions. The
// originals are kept unchanged; appended definitions cycle through the
// originals in order and are renamed with a monotonically increasing suffix
// continuing from the original count, so every name stays distinct. A
// target at or below the current size is a no-op, not an error.
func ExpandToCount(monitors []*doctree.Node, target int) (*ExpandResult, error) {
	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w: no monitors to expand", fixture.ErrEmptyInput)
	}

	out := make([]*doctree.Node, 0, max(target, len(monitors)))
	for _, m := range monitors {
		out = append(out, m.Clone())
	}

	if target <= len(monitors) {
		return &ExpandResult{Monitors: out}, nil
	}

	size := len(monitors)
	for i := 0; i < target-size; i++ {
		m := monitors[i%size].Clone()
		fixture.SetMonitorName(m, fmt.Sprintf("Monitor-%d", size+i+1))
		out = append(out, m)
	}
	return &ExpandResult{Monitors: out, Added: target - size, Expanded: true}, nil
}

// Multiply produces factor full passes over the originals, each pass's
// copies renamed with a pass-index marker. The unrenamed originals are not
// part of the output; the result holds exactly factor times the input
// count.
func Multiply(monitors []*doctree.Node, factor int) ([]*doctree.Node, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w: no monitors to replicate", fixture.ErrEmptyInput)
	}

	out := make([]*doctree.Node, 0, len(monitors)*factor)
	for pass := 1; pass <= factor; pass++ {
		for _, m := range monitors {
			c := m.Clone()
			name := fixture.MonitorName(c)
			if name == "" {
				name = "Unnamed Monitor"
			}
			fixture.SetMonitorName(c, fmt.Sprintf("%s - Copy %d", name, pass))
			out = append(out, c)
		}
	}
	return out, nil
}
