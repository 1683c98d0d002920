package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ptoluganti/bicep/pkg/types"
)

type view struct {
	out io.Writer

	header *color.Color
	dim    *color.Color
	flag   *color.Color
}

func newView(out io.Writer) *view {
	return &view{
		out:    out,
		header: color.New(color.FgGreen, color.Bold),
		dim:    color.New(color.FgHiBlack),
		flag:   color.New(color.FgYellow),
	}
}

// printResourceType writes a one-screen summary: the qualified name, then
// each property with its resolved type name and flags.
func (v *view) printResourceType(rt *types.ResourceType) error {
	v.header.Fprintf(v.out, "%s", rt.Name())
	v.dim.Fprintf(v.out, "@%s\n", rt.Reference.APIVersion)

	for _, p := range rt.Properties {
		t, err := p.Type.Resolve()
		if err != nil {
			return fmt.Errorf("resolving property %q: %w", p.Name, err)
		}
		fmt.Fprintf(v.out, "  %s: %s", p.Name, t.Name())
		if p.Flags != types.TypePropertyNone {
			v.flag.Fprintf(v.out, "  [%s]", p.Flags)
		}
		fmt.Fprintln(v.out)
	}

	if rt.AdditionalProperties != nil {
		t, err := rt.AdditionalProperties.Resolve()
		if err != nil {
			return fmt.Errorf("resolving additional properties: %w", err)
		}
		v.dim.Fprintf(v.out, "  *: %s\n", t.Name())
	}
	fmt.Fprintln(v.out)
	return nil
}
