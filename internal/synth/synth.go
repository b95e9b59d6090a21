// Package synth instantiates monitor definitions from per-type templates.
// Endpoints are distributed across the HTTP, TCP, and ICMP templates
// according to an allocation plan, and each monitor is an independent deep
// copy of its prototype with only the per-endpoint fields overwritten.
package synth

import (
	"fmt"

	"github.com/example/pulse/tools/fixturegen/internal/distribution"
	"github.com/example/pulse/tools/fixturegen/internal/doctree"
	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
)

// Synthesizer holds the parsed monitor prototypes.
type Synthesizer struct {
	httpProto *doctree.Node
	tcpProto  *doctree.Node
	icmpProto *doctree.Node
}

// New parses the three monitor prototypes.
func New() (*Synthesizer, error) {
	httpProto, err := doctree.Unmarshal([]byte(httpPrototype))
	if err != nil {
		return nil, fmt.Errorf("parsing http prototype: %w", err)
	}
	tcpProto, err := doctree.Unmarshal([]byte(tcpPrototype))
	if err != nil {
		return nil, fmt.Errorf("parsing tcp prototype: %w", err)
	}
	icmpProto, err := doctree.Unmarshal([]byte(icmpPrototype))
	if err != nil {
		return nil, fmt.Errorf("parsing icmp prototype: %w", err)
	}
	return &Synthesizer{httpProto: httpProto, tcpProto: tcpProto, icmpProto: icmpProto}, nil
}

// FromEndpoints allocates endpoints across the three monitor types under
// the given policy and builds the full monitor list: the HTTP group first,
// then TCP, then ICMP, each in input order. This ordering is a contract.
func (s *Synthesizer) FromEndpoints(endpoints []endpoint.Endpoint, pol distribution.Policy) ([]*doctree.Node, error) {
	plan := distribution.Allocate(len(endpoints), pol)
	httpGroup, tcpGroup, icmpGroup, err := distribution.Split(endpoints, plan)
	if err != nil {
		return nil, err
	}

	monitors := make([]*doctree.Node, 0, len(endpoints))
	monitors = append(monitors, s.BuildHTTP(httpGroup)...)
	monitors = append(monitors, s.BuildTCP(tcpGroup)...)
	monitors = append(monitors, s.BuildICMP(icmpGroup)...)
	return monitors, nil
}

// BuildHTTP builds HTTP monitors from the given endpoints, indexed from 1.
func (s *Synthesizer) BuildHTTP(endpoints []endpoint.Endpoint) []*doctree.Node {
	monitors := make([]*doctree.Node, 0, len(endpoints))
	for i, ep := range endpoints {
		m := s.httpProto.Clone()
		m.Set("name", doctree.NewScalar(fmt.Sprintf("HTTP Monitor %05d (port %d)", i+1, ep.Port)))
		pulseConfig(m).Set("url", doctree.NewScalar(ep.Raw))
		monitors = append(monitors, m)
	}
	return monitors
}

// BuildTCP builds TCP monitors from the given endpoints, indexed from 1.
func (s *Synthesizer) BuildTCP(endpoints []endpoint.Endpoint) []*doctree.Node {
	monitors := make([]*doctree.Node, 0, len(endpoints))
	for i, ep := range endpoints {
		m := s.tcpProto.Clone()
		m.Set("name", doctree.NewScalar(fmt.Sprintf("TCP Monitor %05d (port %d)", i+1, ep.Port)))
		cfg := pulseConfig(m)
		cfg.Set("host", doctree.NewScalar(ep.Host))
		cfg.Set("port", doctree.NewScalar(ep.Port))
		monitors = append(monitors, m)
	}
	return monitors
}

// BuildICMP builds ICMP monitors from the given endpoints, indexed from 1.
// ICMP has no native port concept, so the endpoint port is carried as
// metadata.port_hint for diagnostic traceability only.
func (s *Synthesizer) BuildICMP(endpoints []endpoint.Endpoint) []*doctree.Node {
	monitors := make([]*doctree.Node, 0, len(endpoints))
	for i, ep := range endpoints {
		m := s.icmpProto.Clone()
		m.Set("name", doctree.NewScalar(fmt.Sprintf("Ping Monitor %05d (port %d)", i+1, ep.Port)))
		pulseConfig(m).Set("host", doctree.NewScalar(ep.Host))

		meta := doctree.NewMapping()
		meta.Set("port_hint", doctree.NewScalar(ep.Port))
		m.Set("metadata", meta)
		monitors = append(monitors, m)
	}
	return monitors
}

func pulseConfig(m *doctree.Node) *doctree.Node {
	return m.Get("pulse_check").Get("config")
}
