// Package registry holds the static metadata for the upstream trade-data
// resolvers. The registry is the de facto schema contract: field lists and
// query names must match what the upstream gateway exposes.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Descriptor describes one upstream resolver (a query field backed by a
// table or view). Descriptors are immutable; Fields order is the canonical
// selection order.
type Descriptor struct {
	// QueryName is the GraphQL field name used to invoke the resolver.
	// It may differ in casing and pluralization from the registry key.
	QueryName string

	// Fields lists the selectable scalar field names in emission order.
	Fields []string

	// NumericFields is the subset of Fields eligible as aggregation targets.
	NumericFields []string

	// FilterInputType and OrderByInputType name the upstream input types.
	// Documentation only; serialization never consults them.
	FilterInputType  string
	OrderByInputType string

	Description string
}

// HasField reports whether name is a selectable field of the resolver.
func (d Descriptor) HasField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// IsNumericField reports whether name is an aggregation-eligible field.
func (d Descriptor) IsNumericField(name string) bool {
	for _, f := range d.NumericFields {
		if f == name {
			return true
		}
	}
	return false
}

// UnknownResolverError is returned when a lookup key has no registry entry.
type UnknownResolverError struct {
	Key   string
	Known []string
}

func (e *UnknownResolverError) Error() string {
	return fmt.Sprintf("unknown resolver %q (known resolvers: %s)", e.Key, strings.Join(e.Known, ", "))
}

// Registry is a read-only mapping from resolver key to Descriptor.
type Registry struct {
	entries map[string]Descriptor
	keys    []string
}

// New builds a Registry from a fixed table of descriptors. It panics if a
// descriptor lists a numeric field that is not in its field list; the table
// is compiled-in data, so a violation is a programming error.
func New(entries map[string]Descriptor) *Registry {
	keys := make([]string, 0, len(entries))
	for key, desc := range entries {
		for _, nf := range desc.NumericFields {
			if !desc.HasField(nf) {
				panic(fmt.Sprintf("registry: resolver %s numeric field %s is not a declared field", key, nf))
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Registry{entries: entries, keys: keys}
}

// Lookup returns the descriptor for key, or UnknownResolverError.
func (r *Registry) Lookup(key string) (Descriptor, error) {
	desc, ok := r.entries[key]
	if !ok {
		return Descriptor{}, &UnknownResolverError{Key: key, Known: r.Keys()}
	}
	return desc, nil
}

// Keys returns the sorted resolver keys.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}
