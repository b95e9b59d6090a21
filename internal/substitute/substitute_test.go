package substitute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pulse/tools/fixturegen/internal/doctree"
)

func mustTree(t *testing.T, yaml string) *doctree.Node {
	t.Helper()
	node, err := doctree.Unmarshal([]byte(yaml))
	require.NoError(t, err)
	return node
}

const sampleDoc = `
monitors:
  - name: web
    pulse_check:
      type: http
      config:
        url: http://old-1:80/
  - name: db
    pulse_check:
      type: tcp
      config:
        host: old-db
        port: 9000
  - name: web-again
    pulse_check:
      type: http
      config:
        url: http://old-1:80/
codes:
  red:
    config:
      url: pager
`

func TestCollect_TraversalOrderWithDuplicates(t *testing.T) {
	found := Collect(mustTree(t, sampleDoc))
	assert.Equal(t, []string{"http://old-1:80/", "old-db", "http://old-1:80/", "pager"}, found)
}

func TestApply_DistinctValuesGetOneReplacementEach(t *testing.T) {
	root := mustTree(t, sampleDoc)
	result, err := Apply(root, []string{"http://new-1:80/", "new-db", "http://new-2:80/"})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Found)
	assert.Equal(t, 3, result.Distinct)

	got := Collect(result.Doc)
	// Both occurrences of the first original map to the same replacement;
	// assignment follows first-occurrence order.
	assert.Equal(t, []string{"http://new-1:80/", "new-db", "http://new-1:80/", "http://new-2:80/"}, got)
}

func TestApply_CyclesWhenReplacementsRunOut(t *testing.T) {
	root := mustTree(t, sampleDoc)
	result, err := Apply(root, []string{"http://only:80/"})
	require.NoError(t, err)

	for _, v := range Collect(result.Doc) {
		assert.Equal(t, "http://only:80/", v)
	}
}

func TestApply_MappingIsDeterministic(t *testing.T) {
	first, err := Apply(mustTree(t, sampleDoc), []string{"http://only:80/"})
	require.NoError(t, err)
	second, err := Apply(mustTree(t, sampleDoc), []string{"http://only:80/"})
	require.NoError(t, err)
	assert.Equal(t, Collect(first.Doc), Collect(second.Doc))
}

func TestApply_InputNotMutated(t *testing.T) {
	root := mustTree(t, sampleDoc)
	_, err := Apply(root, []string{"http://new:80/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://old-1:80/", "old-db", "http://old-1:80/", "pager"}, Collect(root))
}

func TestApply_NoMatchesIsIdentity(t *testing.T) {
	doc := `
settings:
  interval: 5s
  nested:
    - a
    - b
`
	root := mustTree(t, doc)
	result, err := Apply(root, []string{"http://new:80/"})
	require.NoError(t, err)
	assert.Zero(t, result.Found)

	want, err := doctree.Marshal(root, 2)
	require.NoError(t, err)
	got, err := doctree.Marshal(result.Doc, 2)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestApply_EmptyReplacements(t *testing.T) {
	_, err := Apply(mustTree(t, sampleDoc), nil)
	assert.ErrorIs(t, err, ErrNoReplacements)
}

func TestCollect_SkipsNonStringAndNestedTargetKeys(t *testing.T) {
	doc := `
url:
  host: inner
port: 9000
`
	// A url key holding a mapping is traversed, not collected; the inner
	// host string is.
	found := Collect(mustTree(t, doc))
	assert.Equal(t, []string{"inner"}, found)
}
