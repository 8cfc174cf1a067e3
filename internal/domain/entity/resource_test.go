package entity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executedQuery struct {
	Query     string
	Variables map[string]any
}

// fakeExecutor records every query and answers through a configurable
// responder.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   []executedQuery
	respond func(query string, variables map[string]any) (map[string]any, error)
}

func (f *fakeExecutor) Execute(_ context.Context, query string, variables map[string]any) (map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, executedQuery{Query: query, Variables: variables})
	f.mu.Unlock()
	if f.respond == nil {
		return nil, errors.New("unexpected query")
	}
	return f.respond(query, variables)
}

type mutatorCall struct {
	Op     string
	Owner  string
	Repo   string
	Number int
	Args   []string
}

// fakeMutator records every mutation call.
type fakeMutator struct {
	calls []mutatorCall
	err   error
}

func (f *fakeMutator) AddLabels(_ context.Context, owner, repo string, number int, labels []string) error {
	f.calls = append(f.calls, mutatorCall{Op: "addLabels", Owner: owner, Repo: repo, Number: number, Args: labels})
	return f.err
}

func (f *fakeMutator) RemoveLabel(_ context.Context, owner, repo string, number int, label string) error {
	f.calls = append(f.calls, mutatorCall{Op: "removeLabel", Owner: owner, Repo: repo, Number: number, Args: []string{label}})
	return f.err
}

func (f *fakeMutator) CreateComment(_ context.Context, owner, repo string, number int, body string) error {
	f.calls = append(f.calls, mutatorCall{Op: "createComment", Owner: owner, Repo: repo, Number: number, Args: []string{body}})
	return f.err
}

func (f *fakeMutator) EditIssue(_ context.Context, owner, repo string, number int, changes map[string]any) error {
	var args []string
	for key := range changes {
		args = append(args, key)
	}
	f.calls = append(f.calls, mutatorCall{Op: "editIssue", Owner: owner, Repo: repo, Number: number, Args: args})
	return f.err
}

func issueFieldsResponse() map[string]any {
	return map[string]any{
		"repository": map[string]any{
			"issue": map[string]any{
				"id":        "I_kwDOabc123",
				"title":     "Widget rendering is broken",
				"body":      "Steps to reproduce...",
				"state":     "OPEN",
				"url":       "https://github.com/acme/widgets/issues/42",
				"closed":    false,
				"createdAt": "2026-01-10T12:00:00Z",
				"updatedAt": "2026-02-01T08:30:00Z",
			},
		},
	}
}

func newTestGraph(exec *fakeExecutor, mut *fakeMutator, opts ...Option) *Graph {
	return NewGraph(exec, mut, opts...)
}

func TestIdentityFieldsNeverFetch(t *testing.T) {
	exec := &fakeExecutor{}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	for _, name := range []string{"owner", "repository", "number"} {
		v, ok, err := issue.Resource().Field(context.Background(), name)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, v)
	}

	assert.Empty(t, exec.calls, "identity reads must not hit the network")
}

func TestFirstPrimitiveReadBatchesAllFields(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return issueFieldsResponse(), nil
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)
	ctx := context.Background()

	title, err := issue.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Widget rendering is broken", title)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]

	// The one query carries every declared primitive field, not just the
	// requested one.
	schema, _ := graph.registry.Schema(TypeIssue)
	for _, field := range schema.PrimitiveFields() {
		assert.Contains(t, call.Query, field)
	}
	assert.Equal(t, "acme", call.Variables["owner"])
	assert.Equal(t, "widgets", call.Variables["repo"])
	assert.Equal(t, 42, call.Variables["issueNumber"])

	// A sibling primitive is already cached: zero additional calls.
	state, err := issue.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", state)
	assert.Len(t, exec.calls, 1)

	closed, err := issue.Closed(ctx)
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Len(t, exec.calls, 1)
}

func TestUnknownFieldReadIsAbsentNotError(t *testing.T) {
	exec := &fakeExecutor{}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	v, ok, err := issue.Resource().Field(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Empty(t, exec.calls)
}

func TestOmittedFieldFailsWithMissingFieldError(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			resp := issueFieldsResponse()
			issue := resp["repository"].(map[string]any)["issue"].(map[string]any)
			delete(issue, "state")
			return resp, nil
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	_, err := issue.State(context.Background())
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "state", missing.Field)
	assert.Equal(t, TypeIssue, missing.Type)

	// The batch still populated the fields the response did carry.
	title, err := issue.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Widget rendering is broken", title)
	assert.Len(t, exec.calls, 1)
}

func TestMissingPathSegmentNamesKey(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return map[string]any{"repository": map[string]any{}}, nil
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	_, err := issue.Title(context.Background())
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "issue", pathErr.Key)
}

func TestMutationsClearCache(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ctx context.Context, issue *Issue) error
		wantOp string
	}{
		{
			name: "add labels",
			mutate: func(ctx context.Context, issue *Issue) error {
				return issue.AddLabels(ctx, "bug")
			},
			wantOp: "addLabels",
		},
		{
			name: "remove label",
			mutate: func(ctx context.Context, issue *Issue) error {
				return issue.RemoveLabel(ctx, "bug")
			},
			wantOp: "removeLabel",
		},
		{
			name: "add comment",
			mutate: func(ctx context.Context, issue *Issue) error {
				return issue.AddComment(ctx, "on it")
			},
			wantOp: "createComment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{
				respond: func(string, map[string]any) (map[string]any, error) {
					return issueFieldsResponse(), nil
				},
			}
			mut := &fakeMutator{}
			graph := newTestGraph(exec, mut)
			issue := graph.Issue("acme", "widgets", 42)
			ctx := context.Background()

			_, err := issue.Title(ctx)
			require.NoError(t, err)
			require.Len(t, exec.calls, 1)

			require.NoError(t, tt.mutate(ctx, issue))
			require.Len(t, mut.calls, 1)
			assert.Equal(t, tt.wantOp, mut.calls[0].Op)
			assert.Equal(t, "acme", mut.calls[0].Owner)
			assert.Equal(t, "widgets", mut.calls[0].Repo)
			assert.Equal(t, 42, mut.calls[0].Number)

			// Cache was cleared wholesale: the next read re-fetches.
			_, err = issue.Title(ctx)
			require.NoError(t, err)
			assert.Len(t, exec.calls, 2)
		})
	}
}

func TestFailedMutationKeepsCacheAndSurfacesError(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return issueFieldsResponse(), nil
		},
	}
	apiErr := errors.New("422 Validation Failed")
	mut := &fakeMutator{err: apiErr}
	graph := newTestGraph(exec, mut)
	issue := graph.Issue("acme", "widgets", 42)
	ctx := context.Background()

	_, err := issue.Title(ctx)
	require.NoError(t, err)

	err = issue.AddLabels(ctx, "bug")
	require.ErrorIs(t, err, apiErr)

	// The error surfaced unchanged and the cache survived.
	_, err = issue.Title(ctx)
	require.NoError(t, err)
	assert.Len(t, exec.calls, 1)
}

func TestIdentityAssignmentInvalidatesCache(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return issueFieldsResponse(), nil
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)
	ctx := context.Background()

	_, err := issue.Title(ctx)
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)

	require.NoError(t, issue.Resource().SetField(ctx, "number", 99))

	_, err = issue.Title(ctx)
	require.NoError(t, err)
	assert.Len(t, exec.calls, 2)
	assert.Equal(t, 99, exec.calls[1].Variables["issueNumber"])
}

func TestPrimitiveAssignmentRoutesThroughUpdate(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return issueFieldsResponse(), nil
		},
	}
	mut := &fakeMutator{}
	graph := newTestGraph(exec, mut)
	issue := graph.Issue("acme", "widgets", 42)
	ctx := context.Background()

	_, err := issue.Title(ctx)
	require.NoError(t, err)

	require.NoError(t, issue.SetTitle(ctx, "New title"))
	require.Len(t, mut.calls, 1)
	assert.Equal(t, "editIssue", mut.calls[0].Op)
	assert.Equal(t, []string{"title"}, mut.calls[0].Args)

	// Update cleared the cache.
	_, err = issue.Title(ctx)
	require.NoError(t, err)
	assert.Len(t, exec.calls, 2)
}

func TestRelationalAssignmentNotImplemented(t *testing.T) {
	graph := newTestGraph(&fakeExecutor{}, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	err := issue.Resource().SetField(context.Background(), "labels", []string{"bug"})
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestUnregisteredAssignmentFails(t *testing.T) {
	graph := newTestGraph(&fakeExecutor{}, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	err := issue.Resource().SetField(context.Background(), "nonexistent", "value")
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent", unknown.Field)
}

func TestRequireExactlyOneProjectFailsLoudly(t *testing.T) {
	graph := newTestGraph(&fakeExecutor{}, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	err := issue.RequireExactlyOneProject(context.Background())
	require.ErrorIs(t, err, ErrNotImplemented)
	assert.Contains(t, err.Error(), "acme/widgets#42")
}

func TestExecutorErrorPropagatesUnchanged(t *testing.T) {
	apiErr := errors.New("GraphQL errors: something went wrong")
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return nil, apiErr
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	_, err := issue.Title(context.Background())
	require.ErrorIs(t, err, apiErr)
}

func TestConcurrentFirstReadsConverge(t *testing.T) {
	exec := &fakeExecutor{
		respond: func(string, map[string]any) (map[string]any, error) {
			return issueFieldsResponse(), nil
		},
	}
	graph := newTestGraph(exec, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)
	ctx := context.Background()

	// Serialized fakes cannot exercise a real race, but two overlapping
	// resolutions of the same resource must both land on the same value.
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			title, err := issue.Title(ctx)
			if err == nil && title != "Widget rendering is broken" {
				err = errors.New("unexpected title " + title)
			}
			done <- err
		}()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)
}

func TestQueryTextShape(t *testing.T) {
	graph := newTestGraph(&fakeExecutor{}, &fakeMutator{})
	issue := graph.Issue("acme", "widgets", 42)

	binding, ok := graph.registry.Binding(TypeIssue)
	require.True(t, ok)
	q := binding.Primitives(issue.Resource())

	assert.True(t, strings.HasPrefix(q.Text, "query IssueFields("))
	assert.Contains(t, q.Text, "repository(owner: $owner, name: $repo)")
	assert.Contains(t, q.Text, "issue(number: $issueNumber)")
	assert.Equal(t, []string{"repository", "issue"}, q.Path)
}
