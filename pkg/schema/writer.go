package schema

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Save serializes a document into the indexed-table format understood by
// Load. Nodes reachable from the document's table and resource roots are
// assigned indexes in discovery order; shared nodes serialize once and
// cycles flatten into back-references.
func Save(w io.Writer, doc *Document) error {
	idx := newIndexer()
	for _, t := range doc.Types {
		idx.visit(t)
	}
	for _, r := range doc.Resources {
		idx.visit(r)
	}

	raw := rawDocument{Types: make([]rawType, len(idx.order))}
	for i, node := range idx.order {
		rt, err := idx.encode(node)
		if err != nil {
			return err
		}
		raw.Types[i] = rt
	}
	for _, r := range doc.Resources {
		raw.Resources = append(raw.Resources, idx.index[r])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&raw)
}

type indexer struct {
	index map[Type]int
	order []Type
}

func newIndexer() *indexer {
	return &indexer{index: make(map[Type]int)}
}

// visit assigns node an index before descending, so self and mutual
// references land on already-assigned entries.
func (x *indexer) visit(node Type) int {
	if node == nil {
		return -1
	}
	if i, ok := x.index[node]; ok {
		return i
	}
	i := len(x.order)
	x.index[node] = i
	x.order = append(x.order, node)

	switch n := node.(type) {
	case *Object:
		for _, p := range n.Properties {
			x.visit(p.Type)
		}
		x.visit(n.AdditionalProperties)
	case *Array:
		x.visit(n.ItemType)
	case *Resource:
		x.visit(n.Body)
	case *Union:
		for _, el := range n.Elements {
			x.visit(el)
		}
	case *DiscriminatedObject:
		for _, p := range n.BaseProperties {
			x.visit(p.Type)
		}
		for _, v := range n.Variants {
			x.visit(v.Type)
		}
	}
	return i
}

func (x *indexer) ref(node Type) *int {
	if node == nil {
		return nil
	}
	i := x.index[node]
	return &i
}

func (x *indexer) properties(props []Property) []rawProperty {
	out := make([]rawProperty, 0, len(props))
	for _, p := range props {
		out = append(out, rawProperty{Name: p.Name, Type: x.ref(p.Type), Flags: flagNames(p.Flags)})
	}
	return out
}

func (x *indexer) encode(node Type) (rawType, error) {
	switch n := node.(type) {
	case *BuiltIn:
		return rawType{Kind: "BuiltInType", BuiltIn: n.Kind.String()}, nil
	case *Object:
		return rawType{
			Kind:                 "ObjectType",
			Name:                 n.Name,
			Properties:           x.properties(n.Properties),
			AdditionalProperties: x.ref(n.AdditionalProperties),
		}, nil
	case *Array:
		return rawType{Kind: "ArrayType", ItemType: x.ref(n.ItemType)}, nil
	case *Resource:
		return rawType{Kind: "ResourceType", Name: n.Name, Body: x.ref(n.Body)}, nil
	case *Union:
		elements := make([]int, 0, len(n.Elements))
		for _, el := range n.Elements {
			elements = append(elements, x.index[el])
		}
		return rawType{Kind: "UnionType", Elements: elements}, nil
	case *StringLiteral:
		v := n.Value
		return rawType{Kind: "StringLiteralType", Value: &v}, nil
	case *DiscriminatedObject:
		variants := make([]rawVariant, 0, len(n.Variants))
		for _, v := range n.Variants {
			variants = append(variants, rawVariant{Key: v.Key, Type: x.ref(v.Type)})
		}
		return rawType{
			Kind:           "DiscriminatedObjectType",
			Name:           n.Name,
			Discriminator:  n.Discriminator,
			BaseProperties: x.properties(n.BaseProperties),
			Variants:       variants,
		}, nil
	default:
		return rawType{}, fmt.Errorf("%w: cannot serialize %T", ErrInvalidDocument, node)
	}
}

func flagNames(flags PropertyFlags) []string {
	var names []string
	if flags.Has(FlagRequired) {
		names = append(names, "required")
	}
	if flags.Has(FlagReadOnly) {
		names = append(names, "readOnly")
	}
	if flags.Has(FlagWriteOnly) {
		names = append(names, "writeOnly")
	}
	if flags.Has(FlagDeployTimeConstant) {
		names = append(names, "deployTimeConstant")
	}
	return names
}
