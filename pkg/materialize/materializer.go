// Package materialize converts source schema node graphs into the
// compiler's internal type representation. Each session memoizes by node
// identity, so shared substructure materializes once and cyclic graphs
// terminate: a child is always handed out as a deferred reference whose
// thunk consults the cache and only then recurses.
package materialize

import (
	"fmt"

	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

// Session is one materialization session over a loaded schema document.
// It owns the memoized types for its lifetime; create one per document
// and discard it when the document is reloaded.
type Session struct {
	cache *typeCache
}

func NewSession() *Session {
	return &Session{cache: newTypeCache()}
}

// GetResourceType materializes node and requires the result to be a
// resource type. Any other result is a contract violation by the caller.
func (s *Session) GetResourceType(node schema.Type) (*types.ResourceType, error) {
	t, err := s.Materialize(node)
	if err != nil {
		return nil, err
	}
	rt, ok := t.(*types.ResourceType)
	if !ok {
		return nil, fmt.Errorf("%w: expected a resource schema, got %T", ErrContractViolation, node)
	}
	return rt, nil
}

// Materialize converts one schema node, reusing the session's cached type
// when the node identity has been seen before.
func (s *Session) Materialize(node schema.Type) (types.Type, error) {
	return s.cache.getOrCreate(node, func() (types.Type, error) {
		return s.convert(node)
	})
}

// reference wraps node in a deferred reference whose thunk performs the
// cache lookup. The cache decides identity; the reference decides
// eagerness.
func (s *Session) reference(node schema.Type) *types.TypeReference {
	return types.Deferred(func() (types.Type, error) {
		return s.Materialize(node)
	})
}

func (s *Session) convert(node schema.Type) (types.Type, error) {
	switch n := node.(type) {
	case *schema.BuiltIn:
		return builtInType(n.Kind)
	case *schema.Object:
		return s.convertObject(n)
	case *schema.Array:
		return s.convertArray(n)
	case *schema.Resource:
		return s.convertResource(n)
	case *schema.Union:
		return s.convertUnion(n)
	case *schema.StringLiteral:
		return types.NewStringLiteralType(n.Value), nil
	case *schema.DiscriminatedObject:
		return s.convertDiscriminatedObject(n)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownVariant, node)
	}
}

func builtInType(kind schema.BuiltInKind) (types.Type, error) {
	switch kind {
	case schema.KindAny:
		return types.Any, nil
	case schema.KindNull:
		return types.Null, nil
	case schema.KindBool:
		return types.Bool, nil
	case schema.KindInt:
		return types.Int, nil
	case schema.KindString:
		return types.String, nil
	case schema.KindObject:
		return types.Object, nil
	case schema.KindArray:
		return types.Array, nil
	case schema.KindResourceRef:
		return types.ResourceRef, nil
	default:
		return nil, fmt.Errorf("%w: built-in kind %d", ErrUnknownVariant, kind)
	}
}

// convertProperties maps source properties onto type properties in
// declaration order, deferring each property's type behind a reference.
func (s *Session) convertProperties(props []schema.Property) []types.TypeProperty {
	out := make([]types.TypeProperty, 0, len(props))
	for _, p := range props {
		out = append(out, types.TypeProperty{
			Name:  p.Name,
			Type:  s.reference(p.Type),
			Flags: translateFlags(p.Flags),
		})
	}
	return out
}

func (s *Session) convertObject(n *schema.Object) (types.Type, error) {
	var additional *types.TypeReference
	if n.AdditionalProperties != nil {
		additional = s.reference(n.AdditionalProperties)
	}
	return types.NewNamedObjectType(n.Name, s.convertProperties(n.Properties), additional), nil
}

func (s *Session) convertArray(n *schema.Array) (types.Type, error) {
	if n.ItemType == nil {
		return nil, fmt.Errorf("%w: array schema missing item type", ErrSchemaMalformed)
	}
	return types.NewTypedArrayType(s.reference(n.ItemType)), nil
}

func (s *Session) convertResource(n *schema.Resource) (types.Type, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("%w: resource schema missing name", ErrSchemaMalformed)
	}
	ref, err := types.ParseResourceTypeReference(n.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMalformed, err)
	}
	body, ok := n.Body.(*schema.Object)
	if !ok {
		return nil, fmt.Errorf("%w: resource %q body is not an object schema", ErrSchemaMalformed, n.Name)
	}
	var additional *types.TypeReference
	if body.AdditionalProperties != nil {
		additional = s.reference(body.AdditionalProperties)
	}
	return types.NewResourceType(ref, s.convertProperties(body.Properties), additional), nil
}

func (s *Session) convertUnion(n *schema.Union) (types.Type, error) {
	if len(n.Elements) == 0 {
		return nil, fmt.Errorf("%w: union schema missing elements", ErrSchemaMalformed)
	}
	// Same node listed twice is the same member; dedupe on identity
	// before wrapping so the union is a set.
	seen := make(map[schema.Type]struct{}, len(n.Elements))
	members := make([]*types.TypeReference, 0, len(n.Elements))
	for _, el := range n.Elements {
		if _, ok := seen[el]; ok {
			continue
		}
		seen[el] = struct{}{}
		members = append(members, s.reference(el))
	}
	return types.NewUnionType(members), nil
}

func (s *Session) convertDiscriminatedObject(n *schema.DiscriminatedObject) (types.Type, error) {
	switch {
	case n.Name == "":
		return nil, fmt.Errorf("%w: discriminated object missing name", ErrSchemaMalformed)
	case n.Discriminator == "":
		return nil, fmt.Errorf("%w: discriminated object %q missing discriminator", ErrSchemaMalformed, n.Name)
	case n.BaseProperties == nil:
		return nil, fmt.Errorf("%w: discriminated object %q missing base properties", ErrSchemaMalformed, n.Name)
	case len(n.Variants) == 0:
		return nil, fmt.Errorf("%w: discriminated object %q missing variants", ErrSchemaMalformed, n.Name)
	}

	variants := make([]types.DiscriminatedVariant, 0, len(n.Variants))
	for _, v := range n.Variants {
		v := v
		// The combined object belongs to the (discriminated object, key)
		// pair, never to the variant node itself: the same object node
		// may be referenced elsewhere in the graph as a plain object and
		// must keep materializing as one. The reference memoizes, so
		// each variant combines at most once and untouched variants
		// never materialize their full graphs.
		ref := types.Deferred(func() (types.Type, error) {
			return s.combine(n.BaseProperties, v.Key, v.Type)
		})
		variants = append(variants, types.DiscriminatedVariant{Key: v.Key, Type: ref})
	}
	return types.NewDiscriminatedObjectType(n.Name, n.Discriminator, variants), nil
}
