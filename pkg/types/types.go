// Package types holds the compiler's internal type representation. Values
// are immutable once constructed and safe to share between the semantic
// model and the completion engine.
package types

import "strings"

// TypePropertyFlags carries the modifiers attached to a property of a
// materialized object type.
type TypePropertyFlags uint8

const (
	TypePropertyNone         TypePropertyFlags = 0
	TypePropertyRequired     TypePropertyFlags = 1 << 0
	TypePropertyReadOnly     TypePropertyFlags = 1 << 1
	TypePropertyWriteOnly    TypePropertyFlags = 1 << 2
	TypePropertySkipInlining TypePropertyFlags = 1 << 3
)

// Has reports whether all bits of f are set.
func (p TypePropertyFlags) Has(f TypePropertyFlags) bool { return p&f == f }

func (p TypePropertyFlags) String() string {
	if p == TypePropertyNone {
		return "none"
	}
	var parts []string
	if p.Has(TypePropertyRequired) {
		parts = append(parts, "required")
	}
	if p.Has(TypePropertyReadOnly) {
		parts = append(parts, "readOnly")
	}
	if p.Has(TypePropertyWriteOnly) {
		parts = append(parts, "writeOnly")
	}
	if p.Has(TypePropertySkipInlining) {
		parts = append(parts, "skipInlining")
	}
	return strings.Join(parts, "|")
}

// Type is the closed set of internal types. Every implementation exposes a
// stable Name suitable for direct display, e.g. as a completion label.
type Type interface {
	Name() string
	typeSymbol()
}

// Primitive is one of the built-in types. Primitives are package-level
// singletons; comparing pointers is comparing types.
type Primitive struct {
	name string
}

func (p *Primitive) Name() string { return p.name }
func (*Primitive) typeSymbol()    {}

var (
	Any         = &Primitive{name: "any"}
	Null        = &Primitive{name: "null"}
	Bool        = &Primitive{name: "bool"}
	Int         = &Primitive{name: "int"}
	String      = &Primitive{name: "string"}
	Object      = &Primitive{name: "object"}
	Array       = &Primitive{name: "array"}
	ResourceRef = &Primitive{name: "resourceRef"}
)

// TypeProperty is one named member of an object type. Type is a reference
// so that recursive shapes resolve lazily.
type TypeProperty struct {
	Name  string
	Type  *TypeReference
	Flags TypePropertyFlags
}

// NamedObjectType is a structured type with ordered properties. Ordering
// follows source declaration order; downstream tooling depends on it being
// stable.
type NamedObjectType struct {
	name                 string
	Properties           []TypeProperty
	AdditionalProperties *TypeReference
}

// NewNamedObjectType constructs an object type. additionalProperties may be
// nil when members beyond the declared ones are not allowed.
func NewNamedObjectType(name string, properties []TypeProperty, additionalProperties *TypeReference) *NamedObjectType {
	return &NamedObjectType{name: name, Properties: properties, AdditionalProperties: additionalProperties}
}

func (o *NamedObjectType) Name() string { return o.name }
func (*NamedObjectType) typeSymbol()    {}

// Property returns the named property and whether it exists.
func (o *NamedObjectType) Property(name string) (TypeProperty, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return TypeProperty{}, false
}

// TypedArrayType is an array with a typed item.
type TypedArrayType struct {
	Item *TypeReference
}

func NewTypedArrayType(item *TypeReference) *TypedArrayType {
	return &TypedArrayType{Item: item}
}

// Name renders the item type's name when it is already resolved; forcing
// resolution here could recurse through a cycle, so an unresolved item
// falls back to the bare array name.
func (a *TypedArrayType) Name() string {
	if item, ok := a.Item.Peek(); ok {
		return item.Name() + "[]"
	}
	return "array"
}

func (*TypedArrayType) typeSymbol() {}

// ResourceType is the materialized type of a resource body, carrying the
// parsed resource-type reference alongside the body's properties.
type ResourceType struct {
	Reference            ResourceTypeReference
	Properties           []TypeProperty
	AdditionalProperties *TypeReference
}

func NewResourceType(ref ResourceTypeReference, properties []TypeProperty, additionalProperties *TypeReference) *ResourceType {
	return &ResourceType{Reference: ref, Properties: properties, AdditionalProperties: additionalProperties}
}

// Name is the fully qualified type without the API version, e.g.
// "Foo.Bar/baz".
func (r *ResourceType) Name() string { return r.Reference.FullyQualifiedType() }
func (*ResourceType) typeSymbol()    {}

// Property returns the named property and whether it exists.
func (r *ResourceType) Property(name string) (TypeProperty, bool) {
	for _, p := range r.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return TypeProperty{}, false
}

// UnionType is a set of member types. Members are deduplicated on
// construction; ordering carries no meaning.
type UnionType struct {
	Members []*TypeReference
}

// NewUnionType constructs a union, dropping duplicate references. Two
// members are duplicates when they are the same reference instance or both
// already resolve to the same type instance.
func NewUnionType(members []*TypeReference) *UnionType {
	kept := make([]*TypeReference, 0, len(members))
	for _, m := range members {
		dup := false
		for _, k := range kept {
			if k == m {
				dup = true
				break
			}
			kt, kok := k.Peek()
			mt, mok := m.Peek()
			if kok && mok && kt == mt {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, m)
		}
	}
	return &UnionType{Members: kept}
}

func (u *UnionType) Name() string {
	names := make([]string, 0, len(u.Members))
	for _, m := range u.Members {
		if t, ok := m.Peek(); ok {
			names = append(names, t.Name())
		} else {
			names = append(names, "...")
		}
	}
	return strings.Join(names, " | ")
}

func (*UnionType) typeSymbol() {}

// StringLiteralType is a string constrained to a single value.
type StringLiteralType struct {
	Value string
}

func NewStringLiteralType(value string) *StringLiteralType {
	return &StringLiteralType{Value: value}
}

func (s *StringLiteralType) Name() string { return "'" + s.Value + "'" }
func (*StringLiteralType) typeSymbol()    {}

// DiscriminatedVariant is one arm of a discriminated object type, keyed by
// the discriminator value that selects it.
type DiscriminatedVariant struct {
	Key  string
	Type *TypeReference
}

// DiscriminatedObjectType is an object whose shape is selected by the value
// of the Discriminator property. Variants keep declaration order.
type DiscriminatedObjectType struct {
	name          string
	Discriminator string
	Variants      []DiscriminatedVariant
}

func NewDiscriminatedObjectType(name, discriminator string, variants []DiscriminatedVariant) *DiscriminatedObjectType {
	return &DiscriminatedObjectType{name: name, Discriminator: discriminator, Variants: variants}
}

func (d *DiscriminatedObjectType) Name() string { return d.name }
func (*DiscriminatedObjectType) typeSymbol()    {}

// Variant returns the arm for the given discriminator value.
func (d *DiscriminatedObjectType) Variant(key string) (*TypeReference, bool) {
	for _, v := range d.Variants {
		if v.Key == key {
			return v.Type, true
		}
	}
	return nil, false
}
