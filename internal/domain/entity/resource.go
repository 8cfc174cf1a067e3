package entity

import (
	"context"
	"fmt"
	"sync"
)

// Resource is the lazy-loading core shared by all entity types. It holds
// the identity fields assigned at construction, the field cache, and a
// handle back to the graph that owns executor and mutator.
//
// Resolution never coalesces in-flight requests: two concurrent first
// reads of the same uncached field issue two fetches, and the last
// completed write wins. Both converge on the same value, so the cache
// mutex is the only guard.
type Resource struct {
	graph    *Graph
	typ      TypeName
	identity map[string]any

	mu    sync.Mutex
	cache map[string]any
}

func newResource(g *Graph, typ TypeName, identity map[string]any) *Resource {
	return &Resource{
		graph:    g,
		typ:      typ,
		identity: identity,
		cache:    make(map[string]any),
	}
}

// Type returns the entity type tag.
func (r *Resource) Type() TypeName {
	return r.typ
}

// Identity returns an identity field set at construction.
func (r *Resource) Identity(name string) (any, bool) {
	v, ok := r.identity[name]
	return v, ok
}

// Invalidate clears every cached field. Called after any mutation and
// after identity reassignment, so stale related data never survives.
func (r *Resource) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]any)
}

func (r *Resource) cached(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache[name]
	return v, ok
}

func (r *Resource) store(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[name] = v
}

// Field resolves one field by name. The second return is false when the
// name is neither an identity field nor registered for the type; that is
// an absent property, not an error.
//
// Resolution order: identity value, unknown, cached value, relation fetch,
// batched primitive fetch. A primitive miss fetches every declared
// primitive of the type in one query before returning the requested one.
func (r *Resource) Field(ctx context.Context, name string) (any, bool, error) {
	if v, ok := r.identity[name]; ok {
		return v, true, nil
	}

	schema, ok := r.graph.registry.Schema(r.typ)
	if !ok {
		return nil, false, fmt.Errorf("no schema declared for %s", r.typ)
	}
	desc, ok := schema.Descriptor(name)
	if !ok {
		return nil, false, nil
	}

	if v, ok := r.cached(name); ok {
		return v, true, nil
	}

	switch desc.Kind {
	case FieldRelationSingular:
		binding, ok := r.graph.registry.Binding(desc.Relation)
		if !ok || binding.FetchOne == nil {
			return nil, false, fmt.Errorf("fetch %s.%s: %w", r.typ, name, ErrNotImplemented)
		}
		v, err := binding.FetchOne(ctx, r)
		if err != nil {
			return nil, false, err
		}
		r.store(name, v)
		return v, true, nil

	case FieldRelationCollection:
		binding, ok := r.graph.registry.Binding(desc.Relation)
		if !ok || binding.FetchPage == nil {
			return nil, false, fmt.Errorf("fetch %s.%s: %w", r.typ, name, ErrNotImplemented)
		}
		v, err := binding.FetchPage(ctx, r, r.graph.pageSize)
		if err != nil {
			return nil, false, err
		}
		r.store(name, v)
		return v, true, nil

	default:
		if err := r.fetchPrimitives(ctx, schema); err != nil {
			return nil, false, err
		}
		if v, ok := r.cached(name); ok {
			return v, true, nil
		}
		return nil, false, &MissingFieldError{Type: r.typ, Field: name}
	}
}

// fetchPrimitives issues the one batched query for all primitive fields of
// the type and populates the cache from every field the response carries.
// Fields the response omits stay uncached; reading them surfaces a
// MissingFieldError from Field.
func (r *Resource) fetchPrimitives(ctx context.Context, schema *Schema) error {
	binding, ok := r.graph.registry.Binding(r.typ)
	if !ok || binding.Primitives == nil {
		return fmt.Errorf("batched fetch for %s: %w", r.typ, ErrNotImplemented)
	}

	q := binding.Primitives(r)
	data, err := r.graph.exec.Execute(ctx, q.Text, q.Variables)
	if err != nil {
		return err
	}
	obj, err := Descend(data, q.Path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range schema.PrimitiveFields() {
		raw, ok := obj[name]
		if !ok || raw == nil {
			continue
		}
		desc, _ := schema.Descriptor(name)
		v, err := desc.Coerce(raw)
		if err != nil {
			return fmt.Errorf("coerce %s.%s: %w", r.typ, name, err)
		}
		r.cache[name] = v
	}
	return nil
}

// SetField writes one field. Identity assignment succeeds locally and
// clears the cache. Registered primitive assignment routes through the
// type's update mutation when bound. Relational assignment is refused, and
// unregistered assignment is a type error.
func (r *Resource) SetField(ctx context.Context, name string, value any) error {
	if _, ok := r.identity[name]; ok {
		r.identity[name] = value
		r.Invalidate()
		return nil
	}

	schema, ok := r.graph.registry.Schema(r.typ)
	if !ok {
		return fmt.Errorf("no schema declared for %s", r.typ)
	}
	desc, ok := schema.Descriptor(name)
	if !ok {
		return &UnknownFieldError{Type: r.typ, Field: name}
	}

	if desc.Kind != FieldPrimitive {
		return fmt.Errorf("assign relation %s.%s: %w", r.typ, name, ErrNotImplemented)
	}

	binding, ok := r.graph.registry.Binding(r.typ)
	if !ok || binding.Update == nil {
		return fmt.Errorf("update %s.%s: %w", r.typ, name, ErrNotImplemented)
	}
	if err := binding.Update(ctx, r, name, value); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}
