// Package fixture reads and writes monitor configuration documents. A
// document is a mapping with a `monitors` key holding an ordered sequence of
// monitor definitions; definitions are opaque trees except for the fields
// the engine reads or rewrites.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/example/pulse/tools/fixturegen/internal/doctree"
)

// Errors returned by the fixture package.
var (
	// ErrStorage is returned when a document cannot be read or written.
	ErrStorage = errors.New("fixture: storage")
	// ErrEmptyInput is returned when a document has no monitors where at
	// least one is required.
	ErrEmptyInput = errors.New("fixture: empty input")
	// ErrNotMapping is returned when the document root or the monitors
	// entry has the wrong shape.
	ErrNotMapping = errors.New("fixture: unexpected document shape")
)

// Document is one in-memory configuration document.
type Document struct {
	Root *doctree.Node
}

// NewDocument builds a document holding the given monitor definitions under
// a `monitors` key.
func NewDocument(monitors []*doctree.Node) *Document {
	root := doctree.NewMapping()
	root.Set("monitors", doctree.NewSequence(monitors...))
	return &Document{Root: root}
}

// Load reads and parses a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorage, path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a document from YAML bytes.
func LoadBytes(data []byte) (*Document, error) {
	root, err := doctree.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &Document{Root: root}, nil
}

// Monitors returns the document's monitor definitions. A missing, empty, or
// non-sequence `monitors` entry is ErrEmptyInput.
func (d *Document) Monitors() ([]*doctree.Node, error) {
	if d.Root == nil || d.Root.Kind != doctree.Mapping {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrNotMapping)
	}
	seq := d.Root.Get("monitors")
	if seq == nil || seq.Kind != doctree.Sequence || len(seq.Items) == 0 {
		return nil, fmt.Errorf("%w: no monitors in document", ErrEmptyInput)
	}
	return seq.Items, nil
}

// SetMonitors replaces the document's monitor list, preserving any other
// top-level keys.
func (d *Document) SetMonitors(monitors []*doctree.Node) {
	d.Root.Set("monitors", doctree.NewSequence(monitors...))
}

// Save serializes the document and writes it atomically: the bytes go to a
// uniquely named temp file first, then replace the target with a rename. A
// failed run never leaves a partial document behind.
func (d *Document) Save(path string) error {
	data, err := doctree.Marshal(d.Root, 2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, path, err)
	}
	return nil
}

// MonitorName returns a monitor definition's name, or "" when absent.
func MonitorName(m *doctree.Node) string {
	name, _ := m.Get("name").StringValue()
	return name
}

// SetMonitorName sets a monitor definition's name.
func SetMonitorName(m *doctree.Node, name string) {
	m.Set("name", doctree.NewScalar(name))
}
