package synth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pulse/tools/fixturegen/internal/distribution"
	"github.com/example/pulse/tools/fixturegen/internal/doctree"
	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
	"github.com/example/pulse/tools/fixturegen/internal/fixture"
)

func testEndpoints(t *testing.T, lines ...string) []endpoint.Endpoint {
	t.Helper()
	endpoints, err := endpoint.ParseAll(lines, endpoint.DefaultOptions())
	require.NoError(t, err)
	return endpoints
}

func tenEndpoints(t *testing.T) []endpoint.Endpoint {
	t.Helper()
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("http://host-%d:%d/", i, 8000+i)
	}
	return testEndpoints(t, lines...)
}

func TestFromEndpoints_TypeGroupedOrdering(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors, err := s.FromEndpoints(tenEndpoints(t), distribution.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, monitors, 10)

	// 80/10/10 over ten endpoints: an HTTP block of 8, then TCP, then ICMP.
	for i := 0; i < 8; i++ {
		assert.True(t, strings.HasPrefix(fixture.MonitorName(monitors[i]), "HTTP Monitor "), "index %d", i)
	}
	assert.True(t, strings.HasPrefix(fixture.MonitorName(monitors[8]), "TCP Monitor "))
	assert.True(t, strings.HasPrefix(fixture.MonitorName(monitors[9]), "Ping Monitor "))
}

func TestFromEndpoints_NamesUnique(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors, err := s.FromEndpoints(tenEndpoints(t), distribution.DefaultPolicy())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, m := range monitors {
		name := fixture.MonitorName(m)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestBuildHTTP(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors := s.BuildHTTP(testEndpoints(t, "http://web-1:8080/health", "https://web-2/status"))
	require.Len(t, monitors, 2)

	assert.Equal(t, "HTTP Monitor 00001 (port 8080)", fixture.MonitorName(monitors[0]))
	assert.Equal(t, "HTTP Monitor 00002 (port 443)", fixture.MonitorName(monitors[1]))

	url, _ := monitors[0].Get("pulse_check").Get("config").Get("url").StringValue()
	assert.Equal(t, "http://web-1:8080/health", url)

	pulseType, _ := monitors[0].Get("pulse_check").Get("type").StringValue()
	assert.Equal(t, "http", pulseType)
	assert.Equal(t, 3, monitors[0].Get("pulse_check").Get("max_failures").Value)
	assert.Equal(t, 2, monitors[0].Get("pulse_check").Get("config").Get("retries").Value)
}

func TestBuildTCP(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors := s.BuildTCP(testEndpoints(t, "tcp://db.internal:9000"))
	require.Len(t, monitors, 1)

	assert.Equal(t, "TCP Monitor 00001 (port 9000)", fixture.MonitorName(monitors[0]))
	cfg := monitors[0].Get("pulse_check").Get("config")
	host, _ := cfg.Get("host").StringValue()
	assert.Equal(t, "db.internal", host)
	assert.Equal(t, 9000, cfg.Get("port").Value)
}

func TestBuildICMP_CarriesPortHint(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors := s.BuildICMP(testEndpoints(t, "http://ping-me:7070/"))
	require.Len(t, monitors, 1)

	assert.Equal(t, "Ping Monitor 00001 (port 7070)", fixture.MonitorName(monitors[0]))
	host, _ := monitors[0].Get("pulse_check").Get("config").Get("host").StringValue()
	assert.Equal(t, "ping-me", host)
	assert.Equal(t, 7070, monitors[0].Get("metadata").Get("port_hint").Value)

	// ICMP codes notify via log files, not pagerduty.
	notify, _ := monitors[0].Get("codes").Get("red").Get("notify").StringValue()
	assert.Equal(t, "log", notify)
}

func TestPrototypesNeverMutated(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_ = s.BuildHTTP(testEndpoints(t, "http://a:80/"))
	_ = s.BuildTCP(testEndpoints(t, "tcp://b:9000"))
	_ = s.BuildICMP(testEndpoints(t, "http://c:80/"))

	for _, proto := range []*doctree.Node{s.httpProto, s.tcpProto, s.icmpProto} {
		name, _ := proto.Get("name").StringValue()
		assert.Empty(t, name)
		assert.Nil(t, proto.Get("metadata"))
	}
}

func TestInstantiationsAreIndependent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors := s.BuildHTTP(testEndpoints(t, "http://a:80/", "http://b:80/"))
	monitors[0].Get("codes").Get("red").Set("notify", doctree.NewScalar("mutated"))

	notify, _ := monitors[1].Get("codes").Get("red").Get("notify").StringValue()
	assert.Equal(t, "pagerduty", notify)
}

func TestFromEndpoints_Empty(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	monitors, err := s.FromEndpoints(nil, distribution.DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, monitors)
}
