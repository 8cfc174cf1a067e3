package entity

import (
	"context"
	"fmt"
)

// fieldAs resolves a registered field and asserts its Go type. Used by the
// typed accessors; the field names they pass are always registered, so an
// absent result here means the schema declaration and accessor disagree.
func fieldAs[T any](ctx context.Context, r *Resource, name string) (T, error) {
	var zero T
	v, ok, err := r.Field(ctx, name)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%s has no field %q", r.Type(), name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s holds %T, not %T", r.Type(), name, v, zero)
	}
	return t, nil
}

// seedPrimitives populates a resource's cache from a relation-fetch node,
// coercing every declared primitive the node carries. Fields the node
// omits stay unresolved and fall back to the batched fetch on first read.
func seedPrimitives(r *Resource, node map[string]any) error {
	schema, ok := r.graph.registry.Schema(r.typ)
	if !ok {
		return fmt.Errorf("no schema declared for %s", r.typ)
	}
	for _, name := range schema.PrimitiveFields() {
		raw, ok := node[name]
		if !ok || raw == nil {
			continue
		}
		desc, _ := schema.Descriptor(name)
		v, err := desc.Coerce(raw)
		if err != nil {
			return fmt.Errorf("coerce %s.%s: %w", r.typ, name, err)
		}
		r.store(name, v)
	}
	return nil
}

func identityString(r *Resource, name string) (string, error) {
	v, ok := r.Identity(name)
	if !ok {
		return "", fmt.Errorf("%s is missing identity field %q", r.Type(), name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s identity field %q holds %T, not string", r.Type(), name, v)
	}
	return s, nil
}

func identityInt(r *Resource, name string) (int, error) {
	v, ok := r.Identity(name)
	if !ok {
		return 0, fmt.Errorf("%s is missing identity field %q", r.Type(), name)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%s identity field %q holds %T, not int", r.Type(), name, v)
	}
	return n, nil
}

func stringAt(node map[string]any, key string) (string, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return "", &PathError{Key: key, Path: []string{key}}
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("key %q holds %T, not string", key, raw)
	}
	return s, nil
}
