package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ptoluganti/bicep/pkg/schema"
)

// Extensions recognized on component schemas and properties.
const (
	// ExtResourceType marks a component schema as a resource body and
	// carries its qualified name ("Namespace/type@version").
	ExtResourceType = "x-resource-type"
	// ExtDeployTimeConstant marks a property as fixed at deployment
	// start.
	ExtDeployTimeConstant = "x-deploy-time-constant"
)

// ErrUnsupportedSchema reports an OpenAPI shape that has no counterpart in
// the source schema model.
var ErrUnsupportedSchema = errors.New("unsupported OpenAPI schema")

// ImportFile loads an OpenAPI document from a path or URL and imports its
// component schemas.
func ImportFile(input string) (*schema.Document, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := LoadDocumentWithLoader(loader, input)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return ImportDocument(doc)
}

// ImportDocument converts a document's component schemas into a source
// schema graph. Components tagged with the x-resource-type extension
// become resource roots; $ref sharing in the document becomes pointer
// sharing in the graph, so cyclic components import intact.
func ImportDocument(doc *openapi3.T) (*schema.Document, error) {
	imp := &importer{
		seen:     make(map[*openapi3.Schema]schema.Type),
		builtIns: make(map[schema.BuiltInKind]*schema.BuiltIn),
	}

	var components openapi3.Schemas
	if doc.Components != nil {
		components = doc.Components.Schemas
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &schema.Document{}
	for _, name := range names {
		sr := components[name]
		node, err := imp.convert(sr, name)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", name, err)
		}
		resourceName, ok := stringExtension(sr, ExtResourceType)
		if !ok {
			continue
		}
		if _, isObject := node.(*schema.Object); !isObject {
			return nil, fmt.Errorf("component %q: %w: resource body must be an object", name, ErrUnsupportedSchema)
		}
		res := &schema.Resource{Name: resourceName, Body: node}
		imp.nodes = append(imp.nodes, res)
		out.Resources = append(out.Resources, res)
	}
	out.Types = imp.nodes
	return out, nil
}

type importer struct {
	seen     map[*openapi3.Schema]schema.Type
	builtIns map[schema.BuiltInKind]*schema.BuiltIn
	nodes    []schema.Type
}

func (imp *importer) builtIn(kind schema.BuiltInKind) *schema.BuiltIn {
	if n, ok := imp.builtIns[kind]; ok {
		return n
	}
	n := &schema.BuiltIn{Kind: kind}
	imp.builtIns[kind] = n
	imp.nodes = append(imp.nodes, n)
	return n
}

func (imp *importer) track(s *openapi3.Schema, node schema.Type) {
	imp.seen[s] = node
	imp.nodes = append(imp.nodes, node)
}

// convert maps one schema onto a source node. Composite nodes register
// themselves before descending so reference cycles in the document close
// on the same node instance.
func (imp *importer) convert(sr *openapi3.SchemaRef, name string) (schema.Type, error) {
	if sr == nil || sr.Value == nil {
		return imp.builtIn(schema.KindAny), nil
	}
	s := sr.Value
	if node, ok := imp.seen[s]; ok {
		return node, nil
	}

	switch {
	case s.Discriminator != nil && len(s.OneOf) > 0:
		return imp.convertDiscriminated(s, name)
	case len(s.OneOf) > 0:
		return imp.convertUnion(s, s.OneOf)
	case len(s.AnyOf) > 0:
		return imp.convertUnion(s, s.AnyOf)
	case len(s.AllOf) > 0:
		return imp.convertAllOf(s, name)
	case len(s.Enum) > 0:
		return imp.convertEnum(s)
	}

	switch {
	case s.Type == nil:
		return imp.builtIn(schema.KindAny), nil
	case s.Type.Is(openapi3.TypeString):
		return imp.builtIn(schema.KindString), nil
	case s.Type.Is(openapi3.TypeBoolean):
		return imp.builtIn(schema.KindBool), nil
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		// The platform's numeric kind is int; number narrows to it.
		return imp.builtIn(schema.KindInt), nil
	case s.Type.Is(openapi3.TypeNull):
		return imp.builtIn(schema.KindNull), nil
	case s.Type.Is(openapi3.TypeArray):
		return imp.convertArray(s)
	case s.Type.Is(openapi3.TypeObject):
		return imp.convertObject(s, name)
	default:
		return nil, fmt.Errorf("%w: type %v", ErrUnsupportedSchema, s.Type.Slice())
	}
}

func (imp *importer) convertArray(s *openapi3.Schema) (schema.Type, error) {
	node := &schema.Array{}
	imp.track(s, node)
	item, err := imp.convert(s.Items, "")
	if err != nil {
		return nil, err
	}
	node.ItemType = item
	return node, nil
}

func (imp *importer) convertObject(s *openapi3.Schema, name string) (schema.Type, error) {
	if name == "" {
		name = s.Title
	}
	node := &schema.Object{Name: name}
	imp.track(s, node)

	props, err := imp.convertProperties(s.Properties, s.Required)
	if err != nil {
		return nil, err
	}
	node.Properties = props

	if s.AdditionalProperties.Schema != nil {
		ap, err := imp.convert(s.AdditionalProperties.Schema, "")
		if err != nil {
			return nil, err
		}
		node.AdditionalProperties = ap
	} else if s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has {
		node.AdditionalProperties = imp.builtIn(schema.KindAny)
	}
	return node, nil
}

func (imp *importer) convertProperties(properties openapi3.Schemas, required []string) ([]schema.Property, error) {
	names := make([]string, 0, len(properties))
	for n := range properties {
		names = append(names, n)
	}
	sort.Strings(names)

	props := make([]schema.Property, 0, len(names))
	for _, n := range names {
		pr := properties[n]
		t, err := imp.convert(pr, "")
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", n, err)
		}
		props = append(props, schema.Property{Name: n, Type: t, Flags: propertyFlags(pr, n, required)})
	}
	return props, nil
}

func propertyFlags(sr *openapi3.SchemaRef, name string, required []string) schema.PropertyFlags {
	var flags schema.PropertyFlags
	for _, r := range required {
		if r == name {
			flags |= schema.FlagRequired
			break
		}
	}
	if sr == nil || sr.Value == nil {
		return flags
	}
	if sr.Value.ReadOnly {
		flags |= schema.FlagReadOnly
	}
	if sr.Value.WriteOnly {
		flags |= schema.FlagWriteOnly
	}
	if b, ok := sr.Value.Extensions[ExtDeployTimeConstant].(bool); ok && b {
		flags |= schema.FlagDeployTimeConstant
	}
	return flags
}

func (imp *importer) convertUnion(s *openapi3.Schema, refs openapi3.SchemaRefs) (schema.Type, error) {
	node := &schema.Union{}
	imp.track(s, node)
	for _, sub := range refs {
		el, err := imp.convert(sub, "")
		if err != nil {
			return nil, err
		}
		node.Elements = append(node.Elements, el)
	}
	return node, nil
}

// convertAllOf flattens an allOf composition of object schemas into one
// object, later members overriding earlier ones by property name.
func (imp *importer) convertAllOf(s *openapi3.Schema, name string) (schema.Type, error) {
	if name == "" {
		name = s.Title
	}
	node := &schema.Object{Name: name}
	imp.track(s, node)

	index := make(map[string]int)
	for _, sub := range s.AllOf {
		member, err := imp.convert(sub, "")
		if err != nil {
			return nil, err
		}
		obj, ok := member.(*schema.Object)
		if !ok {
			return nil, fmt.Errorf("%w: allOf member is not an object", ErrUnsupportedSchema)
		}
		for _, p := range obj.Properties {
			if i, ok := index[p.Name]; ok {
				node.Properties[i] = p
				continue
			}
			index[p.Name] = len(node.Properties)
			node.Properties = append(node.Properties, p)
		}
		if obj.AdditionalProperties != nil {
			node.AdditionalProperties = obj.AdditionalProperties
		}
	}

	// A composite may declare inline properties alongside its members.
	own, err := imp.convertProperties(s.Properties, s.Required)
	if err != nil {
		return nil, err
	}
	for _, p := range own {
		if i, ok := index[p.Name]; ok {
			node.Properties[i] = p
			continue
		}
		index[p.Name] = len(node.Properties)
		node.Properties = append(node.Properties, p)
	}
	return node, nil
}

func (imp *importer) convertEnum(s *openapi3.Schema) (schema.Type, error) {
	literals := make([]schema.Type, 0, len(s.Enum))
	for _, v := range s.Enum {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string enum value %v", ErrUnsupportedSchema, v)
		}
		lit := &schema.StringLiteral{Value: str}
		imp.nodes = append(imp.nodes, lit)
		literals = append(literals, lit)
	}
	if len(literals) == 1 {
		imp.seen[s] = literals[0]
		return literals[0], nil
	}
	node := &schema.Union{Elements: literals}
	imp.track(s, node)
	return node, nil
}

func (imp *importer) convertDiscriminated(s *openapi3.Schema, name string) (schema.Type, error) {
	if name == "" {
		name = s.Title
	}
	node := &schema.DiscriminatedObject{
		Name:          name,
		Discriminator: s.Discriminator.PropertyName,
	}
	imp.track(s, node)

	base, err := imp.convertProperties(s.Properties, s.Required)
	if err != nil {
		return nil, err
	}
	node.BaseProperties = base

	for _, sub := range s.OneOf {
		key, err := variantKey(s.Discriminator, sub)
		if err != nil {
			return nil, err
		}
		t, err := imp.convert(sub, key)
		if err != nil {
			return nil, err
		}
		node.Variants = append(node.Variants, schema.Variant{Key: key, Type: t})
	}
	return node, nil
}

// variantKey picks the discriminant value for one oneOf arm: an explicit
// discriminator mapping entry wins, then the arm's component name, then
// its title.
func variantKey(disc *openapi3.Discriminator, sub *openapi3.SchemaRef) (string, error) {
	for key, target := range disc.Mapping {
		if target == sub.Ref || refName(target) == refName(sub.Ref) && sub.Ref != "" {
			return key, nil
		}
	}
	if n := refName(sub.Ref); n != "" {
		return n, nil
	}
	if sub.Value != nil && sub.Value.Title != "" {
		return sub.Value.Title, nil
	}
	return "", fmt.Errorf("%w: cannot determine discriminant value for oneOf member", ErrUnsupportedSchema)
}

func stringExtension(sr *openapi3.SchemaRef, key string) (string, bool) {
	if sr == nil || sr.Value == nil {
		return "", false
	}
	v, ok := sr.Value.Extensions[key].(string)
	return v, ok && v != ""
}

func refName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}
