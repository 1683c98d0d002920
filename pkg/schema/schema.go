// Package schema defines the source resource-schema node graph as published
// by the platform. Nodes are identified by pointer: two occurrences of the
// same definition in a document are the same node instance, and graphs may
// be cyclic or share substructure freely.
package schema

// BuiltInKind enumerates the built-in scalar and opaque kinds a schema
// document may reference.
type BuiltInKind int

const (
	KindAny BuiltInKind = iota
	KindNull
	KindBool
	KindInt
	KindString
	KindObject
	KindArray
	KindResourceRef
)

func (k BuiltInKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindResourceRef:
		return "resourceRef"
	default:
		return "unknown"
	}
}

// PropertyFlags carries the modifiers a schema document attaches to an
// object property.
type PropertyFlags uint8

const (
	FlagNone               PropertyFlags = 0
	FlagRequired           PropertyFlags = 1 << 0
	FlagReadOnly           PropertyFlags = 1 << 1
	FlagWriteOnly          PropertyFlags = 1 << 2
	FlagDeployTimeConstant PropertyFlags = 1 << 3
)

// Has reports whether all bits of f are set.
func (p PropertyFlags) Has(f PropertyFlags) bool { return p&f == f }

// Type is the closed set of schema node variants. Implementations are
// *BuiltIn, *Object, *Array, *Resource, *Union, *StringLiteral and
// *DiscriminatedObject; nothing else satisfies it.
type Type interface {
	schemaType()
}

// BuiltIn is a reference to one of the platform's built-in kinds.
type BuiltIn struct {
	Kind BuiltInKind
}

// Property is one named member of an object schema. Declaration order is
// significant and preserved through materialization.
type Property struct {
	Name  string
	Type  Type
	Flags PropertyFlags
}

// Object describes a structured value. Name may be empty for anonymous
// objects. AdditionalProperties, when non-nil, types members beyond the
// declared ones.
type Object struct {
	Name                 string
	Properties           []Property
	AdditionalProperties Type
}

// Array describes a homogeneous list. ItemType is required.
type Array struct {
	ItemType Type
}

// Resource binds a qualified resource-type name (Namespace/type@version)
// to the object schema of its body.
type Resource struct {
	Name string
	Body Type
}

// Union describes a value that takes one of several element shapes.
type Union struct {
	Elements []Type
}

// StringLiteral describes a string constrained to exactly one value.
type StringLiteral struct {
	Value string
}

// Variant is one arm of a discriminated object, keyed by the value the
// discriminator property takes for that arm.
type Variant struct {
	Key  string
	Type Type
}

// DiscriminatedObject describes an object whose full shape depends on the
// value of the Discriminator property. BaseProperties are shared by all
// variants; each variant contributes its own on top.
type DiscriminatedObject struct {
	Name           string
	Discriminator  string
	BaseProperties []Property
	Variants       []Variant
}

func (*BuiltIn) schemaType()             {}
func (*Object) schemaType()              {}
func (*Array) schemaType()               {}
func (*Resource) schemaType()            {}
func (*Union) schemaType()               {}
func (*StringLiteral) schemaType()       {}
func (*DiscriminatedObject) schemaType() {}
