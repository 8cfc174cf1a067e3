package entity

import "fmt"

// defaultRegistry is built once. Declarations come first, bindings second,
// so the mutually-referencing Issue, Label and ProjectItem schemas never
// observe each other half-initialized.
var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the shared registry of all entity types. It is
// immutable after construction and safe for concurrent use.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Declare(issueSchema())
	r.Declare(labelSchema())
	r.Declare(projectItemSchema())
	r.Declare(fieldValueSchema())

	mustBind(r, TypeIssue, Binding{
		Primitives: issuePrimitivesQuery,
		FetchOne:   fetchIssueFor,
		FetchPage:  fetchIssuesFor,
		Update:     updateIssueField,
	})
	mustBind(r, TypeLabel, Binding{
		Primitives: labelPrimitivesQuery,
		FetchPage:  fetchLabelsFor,
	})
	mustBind(r, TypeProjectItem, Binding{
		Primitives: projectItemPrimitivesQuery,
		FetchPage:  fetchProjectItemsFor,
	})
	mustBind(r, TypeProjectItemFieldValue, Binding{
		FetchPage: fetchFieldValuesFor,
	})

	return r
}

func mustBind(r *Registry, typ TypeName, b Binding) {
	if err := r.Bind(typ, b); err != nil {
		panic(fmt.Sprintf("entity registry: %v", err))
	}
}
