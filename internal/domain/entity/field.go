package entity

import (
	"fmt"
	"time"
)

// TypeName identifies an entity type in the registry.
type TypeName string

const (
	TypeIssue                 TypeName = "Issue"
	TypeLabel                 TypeName = "Label"
	TypeProjectItem           TypeName = "ProjectItem"
	TypeProjectItemFieldValue TypeName = "ProjectItemFieldValue"
)

// FieldKind tags how a registered field is resolved.
type FieldKind int

const (
	// FieldPrimitive resolves via scalar coercion from the batched query.
	FieldPrimitive FieldKind = iota
	// FieldRelationSingular resolves to one related entity.
	FieldRelationSingular
	// FieldRelationCollection resolves to a page-capped set of related entities.
	FieldRelationCollection
)

// Coerce converts a raw GraphQL value into its Go representation.
type Coerce func(raw any) (any, error)

// FieldDescriptor declares one registered field of an entity type.
// Primitive fields carry a coercer; relational fields name the target type.
type FieldDescriptor struct {
	Name     string
	Kind     FieldKind
	Coerce   Coerce
	Relation TypeName
}

// Primitive declares a scalar field with the given coercer.
func Primitive(name string, coerce Coerce) FieldDescriptor {
	return FieldDescriptor{Name: name, Kind: FieldPrimitive, Coerce: coerce}
}

// Singular declares a one-to-one relation to the named type.
func Singular(name string, target TypeName) FieldDescriptor {
	return FieldDescriptor{Name: name, Kind: FieldRelationSingular, Relation: target}
}

// Collection declares a one-to-many relation to the named type.
func Collection(name string, target TypeName) FieldDescriptor {
	return FieldDescriptor{Name: name, Kind: FieldRelationCollection, Relation: target}
}

// CoerceString accepts string values.
func CoerceString(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", raw)
	}
	return s, nil
}

// CoerceInt accepts JSON numbers and integers.
func CoerceInt(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return nil, fmt.Errorf("expected number, got %T", raw)
	}
}

// CoerceBool accepts boolean values.
func CoerceBool(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", raw)
	}
	return b, nil
}

// CoerceTime parses RFC 3339 timestamps as returned by the GitHub API.
func CoerceTime(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected timestamp string, got %T", raw)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// CoerceRaw passes the value through unchanged.
func CoerceRaw(raw any) (any, error) {
	return raw, nil
}
