package replicate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pulse/tools/fixturegen/internal/doctree"
	"github.com/example/pulse/tools/fixturegen/internal/fixture"
)

func makeMonitors(t *testing.T, names ...string) []*doctree.Node {
	t.Helper()
	monitors := make([]*doctree.Node, len(names))
	for i, name := range names {
		m, err := doctree.Unmarshal([]byte(fmt.Sprintf(`
name: %s
pulse_check:
  type: http
  config:
    url: http://%s:80/
`, name, name)))
		require.NoError(t, err)
		monitors[i] = m
	}
	return monitors
}

func names(monitors []*doctree.Node) []string {
	out := make([]string, len(monitors))
	for i, m := range monitors {
		out[i] = fixture.MonitorName(m)
	}
	return out
}

func TestExpandToCount(t *testing.T) {
	monitors := makeMonitors(t, "alpha", "beta")

	result, err := ExpandToCount(monitors, 5)
	require.NoError(t, err)
	assert.True(t, result.Expanded)
	assert.Equal(t, 3, result.Added)
	require.Len(t, result.Monitors, 5)

	// Originals first, unchanged; appended copies cycle the originals in
	// order with a suffix counter continuing from the original count.
	assert.Equal(t, []string{"alpha", "beta", "Monitor-3", "Monitor-4", "Monitor-5"}, names(result.Monitors))

	// Monitor-3 is a copy of alpha, Monitor-4 of beta, Monitor-5 of alpha.
	url, _ := result.Monitors[2].Get("pulse_check").Get("config").Get("url").StringValue()
	assert.Equal(t, "http://alpha:80/", url)
	url, _ = result.Monitors[4].Get("pulse_check").Get("config").Get("url").StringValue()
	assert.Equal(t, "http://alpha:80/", url)
}

func TestExpandToCount_NamesPairwiseDistinct(t *testing.T) {
	result, err := ExpandToCount(makeMonitors(t, "alpha", "beta"), 5)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, name := range names(result.Monitors) {
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestExpandToCount_TargetBelowSizeIsNoOp(t *testing.T) {
	monitors := makeMonitors(t, "alpha", "beta", "gamma")

	result, err := ExpandToCount(monitors, 2)
	require.NoError(t, err)
	assert.False(t, result.Expanded)
	assert.Zero(t, result.Added)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names(result.Monitors))
}

func TestExpandToCount_OutputDoesNotAliasInput(t *testing.T) {
	monitors := makeMonitors(t, "alpha")
	result, err := ExpandToCount(monitors, 3)
	require.NoError(t, err)

	fixture.SetMonitorName(result.Monitors[0], "mutated")
	assert.Equal(t, "alpha", fixture.MonitorName(monitors[0]))
}

func TestExpandToCount_Empty(t *testing.T) {
	_, err := ExpandToCount(nil, 5)
	assert.ErrorIs(t, err, fixture.ErrEmptyInput)
}

func TestMultiply(t *testing.T) {
	monitors := makeMonitors(t, "alpha", "beta", "gamma")

	copies, err := Multiply(monitors, 2)
	require.NoError(t, err)
	require.Len(t, copies, 6)

	assert.Equal(t, []string{
		"alpha - Copy 1", "beta - Copy 1", "gamma - Copy 1",
		"alpha - Copy 2", "beta - Copy 2", "gamma - Copy 2",
	}, names(copies))

	// No output name equals another or an original unmodified name.
	seen := map[string]bool{"alpha": true, "beta": true, "gamma": true}
	for _, name := range names(copies) {
		assert.False(t, seen[name], "name collision %q", name)
		seen[name] = true
	}
}

func TestMultiply_UnnamedMonitor(t *testing.T) {
	m, err := doctree.Unmarshal([]byte("pulse_check:\n  type: http\n"))
	require.NoError(t, err)

	copies, err := Multiply([]*doctree.Node{m}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Unnamed Monitor - Copy 1", fixture.MonitorName(copies[0]))
}

func TestMultiply_InvalidFactor(t *testing.T) {
	monitors := makeMonitors(t, "alpha")

	for _, factor := range []int{0, -1} {
		_, err := Multiply(monitors, factor)
		assert.ErrorIs(t, err, ErrInvalidFactor, "factor %d", factor)
	}
}

func TestMultiply_Empty(t *testing.T) {
	_, err := Multiply(nil, 2)
	assert.ErrorIs(t, err, fixture.ErrEmptyInput)
}
