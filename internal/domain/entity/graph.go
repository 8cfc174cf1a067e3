package entity

import "context"

// DefaultPageSize caps collection-relation fetches. Only the first page is
// ever retrieved; completeness beyond the cap is not guaranteed.
const DefaultPageSize = 20

// Executor runs a GraphQL query and returns the decoded data envelope.
// The entity layer depends only on this signature, not on any transport.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error)
}

// Mutator performs the side-effecting REST calls. Failures surface
// unchanged; there is no retry layer.
type Mutator interface {
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	EditIssue(ctx context.Context, owner, repo string, number int, changes map[string]any) error
}

// Graph constructs entities that share one executor, one mutator, and one
// field registry. Each entity caches independently; the graph itself holds
// no state beyond configuration.
type Graph struct {
	exec     Executor
	mut      Mutator
	registry *Registry
	pageSize int
}

// Option configures a Graph.
type Option func(*Graph)

// WithPageSize overrides the collection page cap.
func WithPageSize(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.pageSize = n
		}
	}
}

// WithRegistry substitutes the field registry, for tests that declare
// reduced schemas.
func WithRegistry(r *Registry) Option {
	return func(g *Graph) {
		g.registry = r
	}
}

// NewGraph creates an entity graph over the given executor and mutator.
func NewGraph(exec Executor, mut Mutator, opts ...Option) *Graph {
	g := &Graph{
		exec:     exec,
		mut:      mut,
		registry: DefaultRegistry(),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PageSize returns the configured collection page cap.
func (g *Graph) PageSize() int {
	return g.pageSize
}
