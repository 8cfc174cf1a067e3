package entity

import (
	"context"
	"fmt"
	"time"
)

// ProjectItem represents one Projects v2 item, identified by its opaque
// node ID.
type ProjectItem struct {
	res *Resource

	ID string
}

// ProjectItem constructs a project item entity with an empty cache.
func (g *Graph) ProjectItem(id string) *ProjectItem {
	res := newResource(g, TypeProjectItem, map[string]any{"id": id})
	return &ProjectItem{res: res, ID: id}
}

// Resource exposes the lazy-loading core for generic field access.
func (p *ProjectItem) Resource() *Resource {
	return p.res
}

// ItemType returns the item kind (ISSUE, PULL_REQUEST, DRAFT_ISSUE).
func (p *ProjectItem) ItemType(ctx context.Context) (string, error) {
	return fieldAs[string](ctx, p.res, "type")
}

func (p *ProjectItem) IsArchived(ctx context.Context) (bool, error) {
	return fieldAs[bool](ctx, p.res, "isArchived")
}

func (p *ProjectItem) CreatedAt(ctx context.Context) (time.Time, error) {
	return fieldAs[time.Time](ctx, p.res, "createdAt")
}

func (p *ProjectItem) UpdatedAt(ctx context.Context) (time.Time, error) {
	return fieldAs[time.Time](ctx, p.res, "updatedAt")
}

// Content returns the issue the item points at.
func (p *ProjectItem) Content(ctx context.Context) (*Issue, error) {
	return fieldAs[*Issue](ctx, p.res, "content")
}

// FieldValues returns the first page of the item's field values, capped at
// the graph's page size.
func (p *ProjectItem) FieldValues(ctx context.Context) ([]ProjectItemFieldValue, error) {
	return fieldAs[[]ProjectItemFieldValue](ctx, p.res, "fieldValues")
}

// ProjectItemFieldValue is one resolved project field value. It is a plain
// value materialized from collection fetches, not a lazy entity.
type ProjectItemFieldValue struct {
	Field    string
	Value    string
	DataType string
}

// projectItemSchema declares the registered fields of a ProjectItem.
func projectItemSchema() *Schema {
	return NewSchema(TypeProjectItem,
		Primitive("type", CoerceString),
		Primitive("isArchived", CoerceBool),
		Primitive("createdAt", CoerceTime),
		Primitive("updatedAt", CoerceTime),
		Singular("content", TypeIssue),
		Collection("fieldValues", TypeProjectItemFieldValue),
	)
}

// fieldValueSchema declares ProjectItemFieldValue. It has no lazily
// resolved fields of its own; the type exists so collection relations can
// name it.
func fieldValueSchema() *Schema {
	return NewSchema(TypeProjectItemFieldValue)
}

// projectItemPrimitivesQuery builds the batched primitive query for a
// project item.
func projectItemPrimitivesQuery(on *Resource) Query {
	schema, _ := on.graph.registry.Schema(TypeProjectItem)
	id, _ := on.Identity("id")
	return Query{
		Text: fmt.Sprintf(`query ProjectItemFields($itemId: ID!) {
  node(id: $itemId) {
    ... on ProjectV2Item { %s }
  }
}`, fieldList(schema.PrimitiveFields())),
		Variables: map[string]any{"itemId": id},
		Path:      []string{"node"},
	}
}

// fetchProjectItemsFor resolves a ProjectItem collection relation. The
// only declared source is an Issue's projectItems.
func fetchProjectItemsFor(ctx context.Context, from *Resource, limit int) (any, error) {
	if from.Type() != TypeIssue {
		return nil, fmt.Errorf("fetch ProjectItems from %s: %w", from.Type(), ErrNotImplemented)
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

	query := `query IssueProjectItems($owner: String!, $repo: String!, $issueNumber: Int!, $pageSize: Int!) {
  repository(owner: $owner, name: $repo) {
    issue(number: $issueNumber) {
      projectItems(first: $pageSize) { nodes { id type isArchived createdAt updatedAt } }
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
	nodes, err := nodeSlice(obj, "projectItems")
	if err != nil {
		return nil, err
	}

	items := make([]*ProjectItem, 0, len(nodes))
	for _, node := range nodes {
		id, err := stringAt(node, "id")
		if err != nil {
			return nil, fmt.Errorf("project item node: %w", err)
		}
		item := from.graph.ProjectItem(id)
		if err := seedPrimitives(item.res, node); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// fetchFieldValuesFor resolves a ProjectItemFieldValue collection. The
// only declared source is a ProjectItem's fieldValues.
func fetchFieldValuesFor(ctx context.Context, from *Resource, limit int) (any, error) {
	if from.Type() != TypeProjectItem {
		return nil, fmt.Errorf("fetch FieldValues from %s: %w", from.Type(), ErrNotImplemented)
	}
	id, err := identityString(from, "id")
	if err != nil {
		return nil, err
	}

	query := `query ProjectItemFieldValues($itemId: ID!, $pageSize: Int!) {
  node(id: $itemId) {
    ... on ProjectV2Item {
      fieldValues(first: $pageSize) {
        nodes {
          __typename
          ... on ProjectV2ItemFieldTextValue { text field { ... on ProjectV2FieldCommon { name } } }
          ... on ProjectV2ItemFieldSingleSelectValue { name field { ... on ProjectV2FieldCommon { name } } }
          ... on ProjectV2ItemFieldDateValue { date field { ... on ProjectV2FieldCommon { name } } }
        }
      }
    }
  }
}`
	data, err := from.graph.exec.Execute(ctx, query, map[string]any{"itemId": id, "pageSize": limit})
	if err != nil {
		return nil, err
	}
	obj, err := Descend(data, []string{"node"})
	if err != nil {
		return nil, err
	}
	nodes, err := nodeSlice(obj, "fieldValues")
	if err != nil {
		return nil, err
	}

	values := make([]ProjectItemFieldValue, 0, len(nodes))
	for _, node := range nodes {
		typename, _ := node["__typename"].(string)
		fv := ProjectItemFieldValue{DataType: typename}
		if fieldObj, ok := node["field"].(map[string]any); ok {
			fv.Field, _ = fieldObj["name"].(string)
		}
		switch typename {
		case "ProjectV2ItemFieldTextValue":
			fv.Value, _ = node["text"].(string)
		case "ProjectV2ItemFieldSingleSelectValue":
			fv.Value, _ = node["name"].(string)
		case "ProjectV2ItemFieldDateValue":
			fv.Value, _ = node["date"].(string)
		default:
			// Unmodeled value kinds keep their type tag with an empty value.
		}
		values = append(values, fv)
	}
	return values, nil
}
