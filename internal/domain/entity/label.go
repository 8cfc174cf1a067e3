package entity

import (
	"context"
	"fmt"
)

// Label represents one repository label, identified by owner, repository
// and name.
type Label struct {
	res *Resource

	Owner      string
	Repository string
	Name       string
}

// Label constructs a label entity with an empty cache.
func (g *Graph) Label(owner, repo, name string) *Label {
	res := newResource(g, TypeLabel, map[string]any{
		"owner":      owner,
		"repository": repo,
		"name":       name,
	})
	return &Label{res: res, Owner: owner, Repository: repo, Name: name}
}

// Resource exposes the lazy-loading core for generic field access.
func (l *Label) Resource() *Resource {
	return l.res
}

// ID returns the GraphQL node ID.
func (l *Label) ID(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, l.res, "id")
}

func (l *Label) Color(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, l.res, "color")
}

func (l *Label) Description(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, l.res, "description")
}

func (l *Label) IsDefault(ctx context.Context) (bool, error) {
	return fieldAs[bool](ctx, l.res, "isDefault")
}

// Issues returns the first page of issues carrying the label, capped at
// the graph's page size. No follow-up pagination is performed.
func (l *Label) Issues(ctx context.Context) ([]*Issue, error) {
	return fieldAs[[]*Issue](ctx, l.res, "issues")
}

// labelSchema declares the registered fields of a Label.
func labelSchema() *Schema {
	return NewSchema(TypeLabel,
		Primitive("id", CoerceString),
		Primitive("color", CoerceString),
		Primitive("description", CoerceString),
		Primitive("isDefault", CoerceBool),
		Collection("issues", TypeIssue),
	)
}

// labelPrimitivesQuery builds the batched primitive query for a label.
func labelPrimitivesQuery(on *Resource) Query {
	schema, _ := on.graph.registry.Schema(TypeLabel)
	owner, _ := on.Identity("owner")
	repo, _ := on.Identity("repository")
	name, _ := on.Identity("name")
	return Query{
		Text: fmt.Sprintf(`query LabelFields($owner: String!, $repo: String!, $labelName: String!) {
  repository(owner: $owner, name: $repo) {
    label(name: $labelName) { %s }
  }
}`, fieldList(schema.PrimitiveFields())),
		Variables: map[string]any{"owner": owner, "repo": repo, "labelName": name},
		Path:      []string{"repository", "label"},
	}
}

// fetchLabelsFor resolves a Label collection relation. The only declared
// source is an Issue's labels.
func fetchLabelsFor(ctx context.Context, from *Resource, limit int) (any, error) {
	if from.Type() != TypeIssue {
		return nil, fmt.Errorf("fetch Labels from %s: %w", from.Type(), ErrNotImplemented)
	}
	owner, err := identityString(from, "owner")
	if err != nil {
		return nil, err
	}
	repo, err := identityString(from, "repository")
	if err != nil {
		return nil, err
	}
	number, err := identityInt(from, "number")
	if err != nil {
		return nil, err
	}

	query := `query IssueLabels($owner: String!, $repo: String!, $issueNumber: Int!, $pageSize: Int!) {
  repository(owner: $owner, name: $repo) {
    issue(number: $issueNumber) {
      labels(first: $pageSize) { nodes { name id color description isDefault } }
    }
  }
}`
	data, err := from.graph.exec.Execute(ctx, query, map[string]any{
		"owner": owner, "repo": repo, "issueNumber": number, "pageSize": limit,
	})
	if err != nil {
		return nil, err
	}
	obj, err := Descend(data, []string{"repository", "issue"})
	if err != nil {
		return nil, err
	}
	nodes, err := nodeSlice(obj, "labels")
	if err != nil {
		return nil, err
	}

	labels := make([]*Label, 0, len(nodes))
	for _, node := range nodes {
		name, err := stringAt(node, "name")
		if err != nil {
			return nil, fmt.Errorf("label node: %w", err)
		}
		label := from.graph.Label(owner, repo, name)
		if err := seedPrimitives(label.res, node); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}
