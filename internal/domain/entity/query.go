package entity

import (
	"fmt"
	"strings"
)

// Query is the triple a batched primitive fetch executes: the query text
// embedding the full primitive field list, the identity variable bindings,
// and the keys descending from the data envelope to the entity object.
type Query struct {
	Text      string
	Variables map[string]any
	Path      []string
}

// Descend walks the response path, failing with a PathError naming the
// first absent or mistyped key. It never returns partial data.
func Descend(data map[string]any, path []string) (map[string]any, error) {
	obj := data
	for i, key := range path {
		raw, ok := obj[key]
		if !ok || raw == nil {
			return nil, &PathError{Key: key, Path: path[:i+1]}
		}
		next, ok := raw.(map[string]any)
		if !ok {
			return nil, &PathError{Key: key, Path: path[:i+1]}
		}
		obj = next
	}
	return obj, nil
}

// fieldList joins field names for interpolation into a query body.
func fieldList(names []string) string {
	return strings.Join(names, " ")
}

// nodeSlice extracts the nodes array of a connection object, tolerating an
// absent connection (treated as empty) but not a malformed one.
func nodeSlice(obj map[string]any, connection string) ([]map[string]any, error) {
	raw, ok := obj[connection]
	if !ok || raw == nil {
		return nil, nil
	}
	conn, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("connection %q is not an object", connection)
	}
	rawNodes, ok := conn["nodes"]
	if !ok || rawNodes == nil {
		return nil, nil
	}
	list, ok := rawNodes.([]any)
	if !ok {
		return nil, fmt.Errorf("connection %q has no node list", connection)
	}
	nodes := make([]map[string]any, 0, len(list))
	for _, item := range list {
		node, ok := item.(map[string]any)
		if !ok || node == nil {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
