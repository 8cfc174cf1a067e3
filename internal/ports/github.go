package ports

import "context"

// GraphQLExecutor defines the interface for running GraphQL queries. The
// entity layer depends on this signature only, never on the transport.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error)
}

// IssueMutator defines the side-effecting REST operations. Failures are
// surfaced unchanged; there is no retry layer.
type IssueMutator interface {
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	EditIssue(ctx context.Context, owner, repo string, number int, changes map[string]any) error
}
