// Package seed generates synthetic endpoint lists for driving the fixture
// generator without a live mock-server pool.
package seed

import (
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// ErrInvalidCount is returned when a non-positive endpoint count is
// requested.
var ErrInvalidCount = errors.New("seed: endpoint count must be positive")

// Options configures one seeding run.
type Options struct {
	// Count is the number of endpoint lines to generate.
	Count int

	// Seed makes the output reproducible. Zero seeds from entropy.
	Seed uint64

	// HTTPShare is the fraction of http/https lines; the remainder are
	// tcp:// endpoints with explicit ports. Default 0.8, mirroring the
	// generator's distribution policy.
	HTTPShare float64
}

// ApplyDefaults fills unset option fields.
func (o *Options) ApplyDefaults() {
	if o.HTTPShare <= 0 || o.HTTPShare > 1 {
		o.HTTPShare = 0.8
	}
}

// Lines generates Count endpoint lines. Every line parses cleanly under the
// default endpoint options: https lines rely on the implied port, all other
// schemes carry an explicit one.
func Lines(opts Options) ([]string, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, opts.Count)
	}
	opts.ApplyDefaults()

	faker := gofakeit.New(opts.Seed)
	lines := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		if faker.Float64Range(0, 1) < opts.HTTPShare {
			lines = append(lines, httpLine(faker))
		} else {
			lines = append(lines, fmt.Sprintf("tcp://%s:%d", faker.DomainName(), faker.Number(1024, 65535)))
		}
	}
	return lines, nil
}

func httpLine(faker *gofakeit.Faker) string {
	if faker.Bool() {
		return fmt.Sprintf("https://%s/%s", faker.DomainName(), faker.Word())
	}
	return fmt.Sprintf("http://%s:%d/%s", faker.DomainName(), faker.Number(1024, 65535), faker.Word())
}
