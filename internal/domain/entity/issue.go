package entity

import (
	"context"
	"fmt"
	"time"
)

// Issue represents one GitHub issue, identified by owner, repository and
// number. Identity fields never touch the network; everything else
// resolves lazily through the field registry and caches until a mutation
// or explicit invalidation.
type Issue struct {
	res *Resource

	Owner      string
	Repository string
	Number     int
}

// Issue constructs an issue entity with an empty cache.
func (g *Graph) Issue(owner, repo string, number int) *Issue {
	res := newResource(g, TypeIssue, map[string]any{
		"owner":      owner,
		"repository": repo,
		"number":     number,
	})
	return &Issue{res: res, Owner: owner, Repository: repo, Number: number}
}

// Resource exposes the lazy-loading core for generic field access.
func (i *Issue) Resource() *Resource {
	return i.res
}

// ID returns the GraphQL node ID.
func (i *Issue) ID(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, i.res, "id")
}

func (i *Issue) Title(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, i.res, "title")
}

func (i *Issue) Body(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, i.res, "body")
}

func (i *Issue) State(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, i.res, "state")
}

func (i *Issue) URL(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, i.res, "url")
}

func (i *Issue) Closed(ctx context.Context) (bool, error) {
	return fieldAs[bool](ctx, i.res, "closed")
}

func (i *Issue) CreatedAt(ctx context.Context) (time.Time, error) {
	return fieldAs[time.Time](ctx, i.res, "createdAt")
}

func (i *Issue) UpdatedAt(ctx context.Context) (time.Time, error) {
	return fieldAs[time.Time](ctx, i.res, "updatedAt")
}

// Labels returns the first page of labels on the issue, capped at the
// graph's page size.
func (i *Issue) Labels(ctx context.Context) ([]*Label, error) {
	return fieldAs[[]*Label](ctx, i.res, "labels")
}

// ProjectItems returns the first page of project items referencing the
// issue, capped at the graph's page size.
func (i *Issue) ProjectItems(ctx context.Context) ([]*ProjectItem, error) {
	return fieldAs[[]*ProjectItem](ctx, i.res, "projectItems")
}

// HasLabel checks whether the issue carries a label, within the fetched
// first page.
func (i *Issue) HasLabel(ctx context.Context, name string) (bool, error) {
	labels, err := i.Labels(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range labels {
		if l.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// AddLabels attaches labels by name and clears the cache on success.
func (i *Issue) AddLabels(ctx context.Context, names ...string) error {
	if err := i.res.graph.mut.AddLabels(ctx, i.Owner, i.Repository, i.Number, names); err != nil {
		return err
	}
	i.res.Invalidate()
	return nil
}

// RemoveLabel detaches one label by name and clears the cache on success.
// Removing an absent label is a no-op, per the API's own semantics.
func (i *Issue) RemoveLabel(ctx context.Context, name string) error {
	if err := i.res.graph.mut.RemoveLabel(ctx, i.Owner, i.Repository, i.Number, name); err != nil {
		return err
	}
	i.res.Invalidate()
	return nil
}

// AddComment posts a comment and clears the cache on success.
func (i *Issue) AddComment(ctx context.Context, body string) error {
	if err := i.res.graph.mut.CreateComment(ctx, i.Owner, i.Repository, i.Number, body); err != nil {
		return err
	}
	i.res.Invalidate()
	return nil
}

// SetTitle writes the title through the update path.
func (i *Issue) SetTitle(ctx context.Context, title string) error {
	return i.res.SetField(ctx, "title", title)
}

// SetBody writes the body through the update path.
func (i *Issue) SetBody(ctx context.Context, body string) error {
	return i.res.SetField(ctx, "body", body)
}

// SetState writes the state ("open" or "closed") through the update path.
func (i *Issue) SetState(ctx context.Context, state string) error {
	return i.res.SetField(ctx, "state", state)
}

// RequireExactlyOneProject would validate that the issue belongs to
// exactly one project. The check is deliberately unimplemented and fails
// loudly rather than passing silently.
func (i *Issue) RequireExactlyOneProject(ctx context.Context) error {
	return fmt.Errorf("validate single project assignment for %s/%s#%d: %w",
		i.Owner, i.Repository, i.Number, ErrNotImplemented)
}

// issueSchema declares the registered fields of an Issue.
func issueSchema() *Schema {
	return NewSchema(TypeIssue,
		Primitive("id", CoerceString),
		Primitive("title", CoerceString),
		Primitive("body", CoerceString),
		Primitive("state", CoerceString),
		Primitive("url", CoerceString),
		Primitive("closed", CoerceBool),
		Primitive("createdAt", CoerceTime),
		Primitive("updatedAt", CoerceTime),
		Collection("labels", TypeLabel),
		Collection("projectItems", TypeProjectItem),
	)
}

// issuePrimitivesQuery builds the one batched query fetching every
// declared primitive field of an issue.
func issuePrimitivesQuery(on *Resource) Query {
	schema, _ := on.graph.registry.Schema(TypeIssue)
	owner, _ := on.Identity("owner")
	repo, _ := on.Identity("repository")
	number, _ := on.Identity("number")
	return Query{
		Text: fmt.Sprintf(`query IssueFields($owner: String!, $repo: String!, $issueNumber: Int!) {
  repository(owner: $owner, name: $repo) {
    issue(number: $issueNumber) { %s }
  }
}`, fieldList(schema.PrimitiveFields())),
		Variables: map[string]any{"owner": owner, "repo": repo, "issueNumber": number},
		Path:      []string{"repository", "issue"},
	}
}

// fetchIssueFor resolves a singular Issue relation. The only declared
// source is a ProjectItem's content.
func fetchIssueFor(ctx context.Context, from *Resource) (any, error) {
	if from.Type() != TypeProjectItem {
		return nil, fmt.Errorf("fetch Issue from %s: %w", from.Type(), ErrNotImplemented)
	}
	id, err := identityString(from, "id")
	if err != nil {
		return nil, err
	}

	query := `query ProjectItemContent($itemId: ID!) {
  node(id: $itemId) {
    ... on ProjectV2Item {
      content {
        ... on Issue {
          number title state url
          repository { name owner { login } }
        }
      }
    }
  }
}`
	data, err := from.graph.exec.Execute(ctx, query, map[string]any{"itemId": id})
	if err != nil {
		return nil, err
	}
	node, err := Descend(data, []string{"node", "content"})
	if err != nil {
		return nil, err
	}
	repoObj, err := Descend(node, []string{"repository"})
	if err != nil {
		return nil, err
	}
	ownerObj, err := Descend(repoObj, []string{"owner"})
	if err != nil {
		return nil, err
	}
	owner, err := stringAt(ownerObj, "login")
	if err != nil {
		return nil, err
	}
	repoName, err := stringAt(repoObj, "name")
	if err != nil {
		return nil, err
	}
	rawNumber, ok := node["number"]
	if !ok || rawNumber == nil {
		return nil, &PathError{Key: "number", Path: []string{"node", "content", "number"}}
	}
	number, err := CoerceInt(rawNumber)
	if err != nil {
		return nil, fmt.Errorf("coerce content number: %w", err)
	}

	issue := from.graph.Issue(owner, repoName, number.(int))
	if err := seedPrimitives(issue.res, node); err != nil {
		return nil, err
	}
	return issue, nil
}

// fetchIssuesFor resolves an Issue collection relation. The only declared
// source is a Label's issues.
func fetchIssuesFor(ctx context.Context, from *Resource, limit int) (any, error) {
	if from.Type() != TypeLabel {
		return nil, fmt.Errorf("fetch Issues from %s: %w", from.Type(), ErrNotImplemented)
	}
	owner, err := identityString(from, "owner")
	if err != nil {
		return nil, err
	}
	repo, err := identityString(from, "repository")
	if err != nil {
		return nil, err
	}
	name, err := identityString(from, "name")
	if err != nil {
		return nil, err
	}

	query := `query LabelIssues($owner: String!, $repo: String!, $labelName: String!, $pageSize: Int!) {
  repository(owner: $owner, name: $repo) {
    label(name: $labelName) {
      issues(first: $pageSize) { nodes { number id title state url } }
    }
  }
}`
	data, err := from.graph.exec.Execute(ctx, query, map[string]any{
		"owner": owner, "repo": repo, "labelName": name, "pageSize": limit,
	})
	if err != nil {
		return nil, err
	}
	obj, err := Descend(data, []string{"repository", "label"})
	if err != nil {
		return nil, err
	}
	nodes, err := nodeSlice(obj, "issues")
	if err != nil {
		return nil, err
	}

	issues := make([]*Issue, 0, len(nodes))
	for _, node := range nodes {
		rawNumber, ok := node["number"]
		if !ok || rawNumber == nil {
			continue
		}
		number, err := CoerceInt(rawNumber)
		if err != nil {
			return nil, fmt.Errorf("coerce issue number: %w", err)
		}
		issue := from.graph.Issue(owner, repo, number.(int))
		if err := seedPrimitives(issue.res, node); err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// updateIssueField routes a primitive write through the REST edit call.
func updateIssueField(ctx context.Context, on *Resource, name string, value any) error {
	switch name {
	case "title", "body", "state":
	default:
		return fmt.Errorf("update Issue.%s: %w", name, ErrNotImplemented)
	}
	owner, err := identityString(on, "owner")
	if err != nil {
		return err
	}
	repo, err := identityString(on, "repository")
	if err != nil {
		return err
	}
	number, err := identityInt(on, "number")
	if err != nil {
		return err
	}
	return on.graph.mut.EditIssue(ctx, owner, repo, number, map[string]any{name: value})
}
