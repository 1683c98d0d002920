package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrInvalidDocument reports a schema document that does not conform to the
// published serialization format.
var ErrInvalidDocument = errors.New("invalid schema document")

// Document is one loaded schema document: the full node table plus the
// resource roots it declares. Node pointers are shared wherever the
// serialized form shared an index, so cycles and common substructure
// survive loading intact.
type Document struct {
	Types     []Type
	Resources []*Resource
}

// Resource returns the resource root with the given qualified name, or nil.
func (d *Document) Resource(name string) *Resource {
	for _, r := range d.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// The serialized form is a flat table of type entries; cross-references are
// integer indexes into that table. Optional references use null.
type rawDocument struct {
	Types     []rawType `json:"types"`
	Resources []int     `json:"resources"`
}

type rawType struct {
	Kind string `json:"$type"`

	// BuiltInType
	BuiltIn string `json:"kind,omitempty"`

	// ObjectType, ResourceType, DiscriminatedObjectType
	Name string `json:"name,omitempty"`

	// ObjectType
	Properties           []rawProperty `json:"properties,omitempty"`
	AdditionalProperties *int          `json:"additionalProperties,omitempty"`

	// ArrayType
	ItemType *int `json:"itemType,omitempty"`

	// ResourceType
	Body *int `json:"body,omitempty"`

	// UnionType
	Elements []int `json:"elements,omitempty"`

	// StringLiteralType
	Value *string `json:"value,omitempty"`

	// DiscriminatedObjectType
	Discriminator  string        `json:"discriminator,omitempty"`
	BaseProperties []rawProperty `json:"baseProperties,omitempty"`
	Variants       []rawVariant  `json:"variants,omitempty"`
}

type rawProperty struct {
	Name  string   `json:"name"`
	Type  *int     `json:"type"`
	Flags []string `json:"flags,omitempty"`
}

type rawVariant struct {
	Key  string `json:"key"`
	Type *int   `json:"type"`
}

var builtInKinds = map[string]BuiltInKind{
	"any":         KindAny,
	"null":        KindNull,
	"bool":        KindBool,
	"int":         KindInt,
	"string":      KindString,
	"object":      KindObject,
	"array":       KindArray,
	"resourceRef": KindResourceRef,
}

var propertyFlagNames = map[string]PropertyFlags{
	"required":           FlagRequired,
	"readOnly":           FlagReadOnly,
	"writeOnly":          FlagWriteOnly,
	"deployTimeConstant": FlagDeployTimeConstant,
}

// LoadFile loads a schema document from a file on disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a schema document and links its integer references into
// shared node pointers. Linking is a second pass over pre-allocated nodes,
// so forward, backward and self references all resolve to the same
// instance.
func Load(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return link(&raw)
}

func link(raw *rawDocument) (*Document, error) {
	nodes := make([]Type, len(raw.Types))
	for i, rt := range raw.Types {
		n, err := allocate(i, rt)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	ln := linker{nodes: nodes}
	for i, rt := range raw.Types {
		if err := ln.fill(i, rt, nodes[i]); err != nil {
			return nil, err
		}
	}

	doc := &Document{Types: nodes}
	for _, idx := range raw.Resources {
		n, err := ln.at(idx, "resources")
		if err != nil {
			return nil, err
		}
		res, ok := n.(*Resource)
		if !ok {
			return nil, fmt.Errorf("%w: resources[%d] is not a ResourceType", ErrInvalidDocument, idx)
		}
		doc.Resources = append(doc.Resources, res)
	}
	return doc, nil
}

func allocate(index int, rt rawType) (Type, error) {
	switch rt.Kind {
	case "BuiltInType":
		kind, ok := builtInKinds[rt.BuiltIn]
		if !ok {
			return nil, fmt.Errorf("%w: types[%d]: unknown built-in kind %q", ErrInvalidDocument, index, rt.BuiltIn)
		}
		return &BuiltIn{Kind: kind}, nil
	case "ObjectType":
		return &Object{Name: rt.Name}, nil
	case "ArrayType":
		return &Array{}, nil
	case "ResourceType":
		return &Resource{Name: rt.Name}, nil
	case "UnionType":
		return &Union{}, nil
	case "StringLiteralType":
		if rt.Value == nil {
			return nil, fmt.Errorf("%w: types[%d]: string literal missing value", ErrInvalidDocument, index)
		}
		return &StringLiteral{Value: *rt.Value}, nil
	case "DiscriminatedObjectType":
		return &DiscriminatedObject{Name: rt.Name, Discriminator: rt.Discriminator}, nil
	default:
		return nil, fmt.Errorf("%w: types[%d]: unknown node variant %q", ErrInvalidDocument, index, rt.Kind)
	}
}

type linker struct {
	nodes []Type
}

func (l *linker) at(idx int, where string) (Type, error) {
	if idx < 0 || idx >= len(l.nodes) {
		return nil, fmt.Errorf("%w: %s: type reference %d out of range", ErrInvalidDocument, where, idx)
	}
	return l.nodes[idx], nil
}

func (l *linker) ref(idx *int, where string) (Type, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: %s: missing type reference", ErrInvalidDocument, where)
	}
	return l.at(*idx, where)
}

func (l *linker) properties(raws []rawProperty, where string) ([]Property, error) {
	props := make([]Property, 0, len(raws))
	for _, rp := range raws {
		t, err := l.ref(rp.Type, fmt.Sprintf("%s.%s", where, rp.Name))
		if err != nil {
			return nil, err
		}
		var flags PropertyFlags
		for _, name := range rp.Flags {
			f, ok := propertyFlagNames[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s: unknown property flag %q", ErrInvalidDocument, where, rp.Name, name)
			}
			flags |= f
		}
		props = append(props, Property{Name: rp.Name, Type: t, Flags: flags})
	}
	return props, nil
}

func (l *linker) fill(index int, rt rawType, node Type) error {
	where := fmt.Sprintf("types[%d]", index)
	switch n := node.(type) {
	case *Object:
		props, err := l.properties(rt.Properties, where)
		if err != nil {
			return err
		}
		n.Properties = props
		if rt.AdditionalProperties != nil {
			ap, err := l.at(*rt.AdditionalProperties, where)
			if err != nil {
				return err
			}
			n.AdditionalProperties = ap
		}
	case *Array:
		item, err := l.ref(rt.ItemType, where)
		if err != nil {
			return err
		}
		n.ItemType = item
	case *Resource:
		body, err := l.ref(rt.Body, where)
		if err != nil {
			return err
		}
		n.Body = body
	case *Union:
		if rt.Elements == nil {
			return fmt.Errorf("%w: %s: union missing elements", ErrInvalidDocument, where)
		}
		for _, idx := range rt.Elements {
			el, err := l.at(idx, where)
			if err != nil {
				return err
			}
			n.Elements = append(n.Elements, el)
		}
	case *DiscriminatedObject:
		base, err := l.properties(rt.BaseProperties, where)
		if err != nil {
			return err
		}
		n.BaseProperties = base
		for _, rv := range rt.Variants {
			t, err := l.ref(rv.Type, fmt.Sprintf("%s.%s", where, rv.Key))
			if err != nil {
				return err
			}
			n.Variants = append(n.Variants, Variant{Key: rv.Key, Type: t})
		}
	}
	return nil
}
