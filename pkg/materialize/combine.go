package materialize

import (
	"fmt"

	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

// combine merges a discriminated object's base properties with one
// variant's own properties into a single object type named after the
// discriminant key. Base properties come first in declaration order; on a
// name collision the variant's definition replaces the base one in place.
func (s *Session) combine(base []schema.Property, key string, variantNode schema.Type) (types.Type, error) {
	obj, ok := variantNode.(*schema.Object)
	if !ok {
		return nil, fmt.Errorf("%w: variant %q is not an object schema", ErrSchemaMalformed, key)
	}

	merged := make([]schema.Property, 0, len(base)+len(obj.Properties))
	index := make(map[string]int, len(base))
	for _, p := range base {
		index[p.Name] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range obj.Properties {
		if i, ok := index[p.Name]; ok {
			merged[i] = p
			continue
		}
		index[p.Name] = len(merged)
		merged = append(merged, p)
	}

	var additional *types.TypeReference
	if obj.AdditionalProperties != nil {
		additional = s.reference(obj.AdditionalProperties)
	}
	return types.NewNamedObjectType(key, s.convertProperties(merged), additional), nil
}
