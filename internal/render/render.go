// Package render produces markdown documentation for materialized
// resource types.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/ptoluganti/bicep/pkg/types"
)

//go:embed templates/*.md.tmpl
var templatesFS embed.FS

var resourceTmpl = template.Must(template.New("resource.md.tmpl").
	Funcs(sprig.TxtFuncMap()).
	ParseFS(templatesFS, "templates/resource.md.tmpl"))

// resourceDoc is the template model for one resource type, with every
// property's type already resolved to its display name.
type resourceDoc struct {
	Name          string
	APIVersion    string
	Properties    []propertyDoc
	HasAdditional bool
	Additional    string
}

type propertyDoc struct {
	Name  string
	Type  string
	Flags string
}

// ResourceMarkdown renders one resource type as markdown. Rendering
// resolves every direct property reference; a reference that fails to
// resolve fails the render.
func ResourceMarkdown(rt *types.ResourceType) (string, error) {
	doc := resourceDoc{
		Name:       rt.Name(),
		APIVersion: rt.Reference.APIVersion,
	}
	for _, p := range rt.Properties {
		t, err := p.Type.Resolve()
		if err != nil {
			return "", fmt.Errorf("resolving property %q: %w", p.Name, err)
		}
		doc.Properties = append(doc.Properties, propertyDoc{
			Name:  p.Name,
			Type:  t.Name(),
			Flags: p.Flags.String(),
		})
	}
	if rt.AdditionalProperties != nil {
		t, err := rt.AdditionalProperties.Resolve()
		if err != nil {
			return "", fmt.Errorf("resolving additional properties: %w", err)
		}
		doc.HasAdditional = true
		doc.Additional = t.Name()
	}

	var b strings.Builder
	if err := resourceTmpl.Execute(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}
