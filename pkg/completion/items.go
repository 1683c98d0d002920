package completion

import (
	"fmt"
	"strings"

	"github.com/ptoluganti/bicep/pkg/types"
)

// ItemKind classifies a completion item for the consumer's UI layer.
type ItemKind int

const (
	ItemKeyword ItemKind = iota
	ItemTypeName
	ItemResourceType
)

// Item is one completion offering. Label is the materialized type's stable
// name where a type backs the item; Documentation is display text with
// snippet markers already stripped.
type Item struct {
	Kind          ItemKind
	Label         string
	Detail        string
	Documentation string
	Snippet       string
}

// KeywordItems builds plain keyword completions.
func KeywordItems(keywords ...string) []Item {
	items := make([]Item, 0, len(keywords))
	for _, kw := range keywords {
		items = append(items, Item{Kind: ItemKeyword, Label: kw, Detail: "keyword"})
	}
	return items
}

// PrimitiveTypeItems offers the ambient type names valid in a declaration
// context.
func PrimitiveTypeItems() []Item {
	primitives := []*types.Primitive{
		types.Any, types.Bool, types.Int, types.String, types.Object, types.Array,
	}
	items := make([]Item, 0, len(primitives))
	for _, p := range primitives {
		items = append(items, Item{Kind: ItemTypeName, Label: p.Name(), Detail: "type"})
	}
	return items
}

// ResourceTypeItem builds a completion for declaring a resource of the
// given type, with a snippet that pre-fills the required
// deployment-settable properties.
func ResourceTypeItem(rt *types.ResourceType) Item {
	snippet := resourceSnippet(rt)
	return Item{
		Kind:          ItemResourceType,
		Label:         rt.Name(),
		Detail:        rt.Reference.String(),
		Documentation: FormatSnippet(snippet),
		Snippet:       snippet,
	}
}

func resourceSnippet(rt *types.ResourceType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' = {\n", rt.Reference.String())
	index := 1
	for _, p := range rt.Properties {
		if !p.Flags.Has(types.TypePropertyRequired) || p.Flags.Has(types.TypePropertyReadOnly) {
			continue
		}
		fmt.Fprintf(&b, "  %s: ${%d:%s}\n", p.Name, index, p.Name)
		index++
	}
	b.WriteString("}")
	return b.String()
}
