package entity

import (
	"context"
	"fmt"
)

// Schema is the static field declaration of one entity type. Identity
// fields (owner, repo, number, ...) are set on the instance at construction
// and never appear here; they shadow any API-backed field of the same name.
type Schema struct {
	typ    TypeName
	fields map[string]FieldDescriptor
	order  []string
}

// NewSchema builds a schema from field descriptors in declaration order.
func NewSchema(typ TypeName, fields ...FieldDescriptor) *Schema {
	s := &Schema{
		typ:    typ,
		fields: make(map[string]FieldDescriptor, len(fields)),
	}
	for _, f := range fields {
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// Descriptor looks up a registered field. Absence is a normal outcome.
func (s *Schema) Descriptor(name string) (FieldDescriptor, bool) {
	d, ok := s.fields[name]
	return d, ok
}

// IsPrimitive reports whether the named field resolves via scalar coercion.
func (s *Schema) IsPrimitive(name string) bool {
	d, ok := s.fields[name]
	return ok && d.Kind == FieldPrimitive
}

// PrimitiveFields returns the ordered primitive field names, the exact set
// one batched query fetches.
func (s *Schema) PrimitiveFields() []string {
	var names []string
	for _, name := range s.order {
		if s.fields[name].Kind == FieldPrimitive {
			names = append(names, name)
		}
	}
	return names
}

// SingularFetch loads the one related entity of the bound type, with the
// source entity as context.
type SingularFetch func(ctx context.Context, from *Resource) (any, error)

// CollectionFetch loads the first page of related entities, never more
// than limit and never following pagination.
type CollectionFetch func(ctx context.Context, from *Resource, limit int) (any, error)

// UpdateField sends the mutation that writes one primitive field.
type UpdateField func(ctx context.Context, on *Resource, name string, value any) error

// Binding supplies the runtime behavior of one entity type: the batched
// primitive query and its relation fetch operations. Bindings are attached
// after all schemas are declared so that mutually-referencing types
// (Issue <-> Label) never observe a half-built registry.
type Binding struct {
	Primitives func(on *Resource) Query
	FetchOne   SingularFetch
	FetchPage  CollectionFetch
	Update     UpdateField
}

// Registry holds the declared schemas and bound behaviors for all entity
// types. It is immutable once built.
type Registry struct {
	schemas  map[TypeName]*Schema
	bindings map[TypeName]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[TypeName]*Schema),
		bindings: make(map[TypeName]Binding),
	}
}

// Declare registers a schema. Phase one of the two-phase init.
func (r *Registry) Declare(s *Schema) {
	r.schemas[s.typ] = s
}

// Bind attaches runtime behavior to a declared type. Phase two.
func (r *Registry) Bind(typ TypeName, b Binding) error {
	if _, ok := r.schemas[typ]; !ok {
		return fmt.Errorf("bind %s: type not declared", typ)
	}
	r.bindings[typ] = b
	return nil
}

// Schema returns the declared schema for a type.
func (r *Registry) Schema(typ TypeName) (*Schema, bool) {
	s, ok := r.schemas[typ]
	return s, ok
}

// Binding returns the bound behavior for a type.
func (r *Registry) Binding(typ TypeName) (Binding, bool) {
	b, ok := r.bindings[typ]
	return b, ok
}
