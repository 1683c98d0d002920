package materialize

import (
	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

// translateFlags maps source property modifiers onto internal property
// flags. Unrecognized source bits are ignored so newer documents keep
// loading against older flag sets.
func translateFlags(src schema.PropertyFlags) types.TypePropertyFlags {
	out := types.TypePropertyNone
	if src.Has(schema.FlagRequired) {
		out |= types.TypePropertyRequired
	}
	if src.Has(schema.FlagReadOnly) {
		out |= types.TypePropertyReadOnly
	}
	if src.Has(schema.FlagWriteOnly) {
		out |= types.TypePropertyWriteOnly
	}
	if src.Has(schema.FlagDeployTimeConstant) {
		out |= types.TypePropertySkipInlining
	}
	return out
}
