// Package mock provides test doubles for tutor interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/tutor"
)

// Interface compliance check.
var _ tutor.Generator = (*Generator)(nil)

// Generator is a test double for tutor.Generator.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, req tutor.Request) tutor.Result
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, req tutor.Request) tutor.Result {
	return g.GenerateFn(ctx, req)
}

// Replies returns a Generator that answers with the given results in order
// and records every request it receives. It panics when it runs out.
func Replies(results ...tutor.Result) (*Generator, *[]tutor.Request) {
	var reqs []tutor.Request
	g := &Generator{
		GenerateFn: func(_ context.Context, req tutor.Request) tutor.Result {
			if len(reqs) >= len(results) {
				panic("mock: unexpected Generate call")
			}
			reqs = append(reqs, req)
			return results[len(reqs)-1]
		},
	}
	return g, &reqs
}
