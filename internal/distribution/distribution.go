// Package distribution computes how endpoints are split across monitor
// types under a proportional policy.
package distribution

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/pulse/tools/fixturegen/internal/endpoint"
)

// ErrDistributionMismatch is returned when a plan does not exactly
// partition the endpoint set it is applied to. It indicates an internal
// invariant violation.
var ErrDistributionMismatch = errors.New("distribution: counts do not match endpoint total")

// Policy holds the target fractions for each monitor type. Fractions are
// passed explicitly so the allocator carries no process-wide state.
type Policy struct {
	HTTP float64
	TCP  float64
	ICMP float64
}

// DefaultPolicy returns the fixed 80/10/10 split used by the fixture
// generator.
func DefaultPolicy() Policy {
	return Policy{HTTP: 0.80, TCP: 0.10, ICMP: 0.10}
}

// Plan is the resolved per-type endpoint count for one allocation.
type Plan struct {
	HTTP int
	TCP  int
	ICMP int
}

// Total returns the sum of all bucket counts.
func (p Plan) Total() int {
	return p.HTTP + p.TCP + p.ICMP
}

// Allocate splits n across the three buckets. Each bucket starts at the
// floor of its ideal share; the truncation shortfall (at most 2) is handed
// out one unit at a time cycling http, tcp, icmp. The result always sums
// exactly to n.
func Allocate(n int, pol Policy) Plan {
	buckets := [3]int{
		int(math.Floor(float64(n) * pol.HTTP)),
		int(math.Floor(float64(n) * pol.TCP)),
		int(math.Floor(float64(n) * pol.ICMP)),
	}

	remainder := n - (buckets[0] + buckets[1] + buckets[2])
	for i := 0; remainder > 0; i = (i + 1) % len(buckets) {
		buckets[i]++
		remainder--
	}

	return Plan{HTTP: buckets[0], TCP: buckets[1], ICMP: buckets[2]}
}

// Split slices endpoints into three contiguous, non-overlapping groups
// matching the plan. The groups share backing storage with the input; they
// are read-only views for the synthesizer.
func Split(endpoints []endpoint.Endpoint, plan Plan) (httpGroup, tcpGroup, icmpGroup []endpoint.Endpoint, err error) {
	if plan.Total() != len(endpoints) {
		return nil, nil, nil, fmt.Errorf("%w: plan covers %d, have %d endpoints", ErrDistributionMismatch, plan.Total(), len(endpoints))
	}

	httpGroup = endpoints[:plan.HTTP]
	tcpGroup = endpoints[plan.HTTP : plan.HTTP+plan.TCP]
	icmpGroup = endpoints[plan.HTTP+plan.TCP:]
	return httpGroup, tcpGroup, icmpGroup, nil
}
