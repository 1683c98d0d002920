package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResourceTypeName reports a resource name that does not parse
// into a qualified resource-type reference.
var ErrInvalidResourceTypeName = errors.New("invalid resource type name")

// ResourceTypeReference is the structured form of a qualified resource-type
// name: a provider namespace, one or more type segments, and an API
// version, serialized as "Namespace/segment1/segment2@version".
type ResourceTypeReference struct {
	Namespace  string
	Types      []string
	APIVersion string
}

// ParseResourceTypeReference parses a qualified resource-type name. The
// namespace, at least one type segment and the API version must all be
// present and non-empty.
func ParseResourceTypeReference(name string) (ResourceTypeReference, error) {
	var ref ResourceTypeReference

	qualified, version, ok := strings.Cut(name, "@")
	if !ok || version == "" {
		return ref, fmt.Errorf("%w: %q: missing API version", ErrInvalidResourceTypeName, name)
	}
	if strings.Contains(version, "@") {
		return ref, fmt.Errorf("%w: %q: multiple API versions", ErrInvalidResourceTypeName, name)
	}

	segments := strings.Split(qualified, "/")
	if len(segments) < 2 {
		return ref, fmt.Errorf("%w: %q: expected Namespace/type@version", ErrInvalidResourceTypeName, name)
	}
	for _, s := range segments {
		if s == "" {
			return ref, fmt.Errorf("%w: %q: empty name segment", ErrInvalidResourceTypeName, name)
		}
	}

	ref.Namespace = segments[0]
	ref.Types = segments[1:]
	ref.APIVersion = version
	return ref, nil
}

// FullyQualifiedType is the namespace and type segments without the API
// version, e.g. "Foo.Bar/baz".
func (r ResourceTypeReference) FullyQualifiedType() string {
	return r.Namespace + "/" + strings.Join(r.Types, "/")
}

// String renders the reference back into its serialized name form.
func (r ResourceTypeReference) String() string {
	return r.FullyQualifiedType() + "@" + r.APIVersion
}
