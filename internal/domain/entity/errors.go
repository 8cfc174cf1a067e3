package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotImplemented marks operations the entity layer deliberately refuses
// to perform (relational writes, single-project validation). Callers must
// treat it as a hard failure, never a silent no-op.
var ErrNotImplemented = errors.New("not implemented")

// UnknownFieldError reports an assignment to a field the entity type does
// not register. Reads of unknown fields are a normal "absent" outcome and
// do not produce this error.
type UnknownFieldError struct {
	Type  TypeName
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no registered field %q", e.Type, e.Field)
}

// MissingFieldError reports a batched fetch that completed without
// returning a field the registry declares. It guards against schema drift
// in the external API.
type MissingFieldError struct {
	Type  TypeName
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("batched fetch for %s did not return expected field %q", e.Type, e.Field)
}

// PathError reports a response envelope missing a key the query builder
// declared on its response path.
type PathError struct {
	Key  string
	Path []string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("response is missing key %q on path %s", e.Key, strings.Join(e.Path, "."))
}
