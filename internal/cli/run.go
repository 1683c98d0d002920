// Package cli implements the bicep-types command handlers.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ptoluganti/bicep/internal/render"
	"github.com/ptoluganti/bicep/pkg/config"
	"github.com/ptoluganti/bicep/pkg/materialize"
	"github.com/ptoluganti/bicep/pkg/openapi"
	"github.com/ptoluganti/bicep/pkg/schema"
)

// MaterializeParams drives the materialize command.
type MaterializeParams struct {
	Input    string
	Format   string
	Resource string
}

// ImportParams drives the import command.
type ImportParams struct {
	Input string
	Out   string
}

// DescribeParams drives the describe command.
type DescribeParams struct {
	ConfigPath string
	Input      string
	Format     string
	Resource   string
	OutDir     string
}

// loadSource loads one schema source in the given format.
func loadSource(path, format string) (*schema.Document, error) {
	switch format {
	case "", config.FormatNative:
		return schema.LoadFile(path)
	case config.FormatOpenAPI:
		return openapi.ImportFile(path)
	default:
		return nil, fmt.Errorf("unknown source format %q", format)
	}
}

// RunMaterialize loads a schema source, materializes its resource types
// and prints a summary of each.
func RunMaterialize(p MaterializeParams) error {
	doc, err := loadSource(p.Input, p.Format)
	if err != nil {
		return err
	}

	resources := doc.Resources
	if p.Resource != "" {
		res := doc.Resource(p.Resource)
		if res == nil {
			return fmt.Errorf("resource %q not found in %s", p.Resource, p.Input)
		}
		resources = []*schema.Resource{res}
	}
	if len(resources) == 0 {
		return fmt.Errorf("no resource types in %s", p.Input)
	}

	session := materialize.NewSession()
	view := newView(os.Stdout)
	for _, res := range resources {
		rt, err := session.GetResourceType(res)
		if err != nil {
			return fmt.Errorf("materializing %q: %w", res.Name, err)
		}
		if err := view.printResourceType(rt); err != nil {
			return err
		}
	}
	return nil
}

// RunImport converts an OpenAPI document into the native schema document
// format.
func RunImport(p ImportParams) error {
	doc, err := openapi.ImportFile(p.Input)
	if err != nil {
		return err
	}
	if len(doc.Resources) == 0 {
		return fmt.Errorf("no resource types found in %s (missing %s extensions?)", p.Input, openapi.ExtResourceType)
	}

	if p.Out == "" {
		return schema.Save(os.Stdout, doc)
	}
	f, err := os.Create(p.Out)
	if err != nil {
		return err
	}
	defer f.Close()
	return schema.Save(f, doc)
}

// RunDescribe renders markdown documentation for resource types drawn
// from a config's sources or a single input.
func RunDescribe(p DescribeParams) error {
	sources, describe, err := describeInputs(p)
	if err != nil {
		return err
	}

	written := 0
	for _, src := range sources {
		doc, err := loadSource(src.Path, src.Format)
		if err != nil {
			return err
		}
		session := materialize.NewSession()
		for _, res := range doc.Resources {
			if describe.Resource != "" && res.Name != describe.Resource {
				continue
			}
			rt, err := session.GetResourceType(res)
			if err != nil {
				return fmt.Errorf("materializing %q: %w", res.Name, err)
			}
			md, err := render.ResourceMarkdown(rt)
			if err != nil {
				return fmt.Errorf("rendering %q: %w", res.Name, err)
			}
			if err := writeMarkdown(describe.OutDir, rt.Name(), md); err != nil {
				return err
			}
			written++
		}
	}
	if written == 0 {
		return errors.New("no matching resource types to describe")
	}
	return nil
}

func describeInputs(p DescribeParams) ([]config.Source, config.Describe, error) {
	if p.ConfigPath != "" {
		cfg, err := config.Load(p.ConfigPath)
		if err != nil {
			return nil, config.Describe{}, err
		}
		describe := cfg.Describe
		if p.Resource != "" {
			describe.Resource = p.Resource
		}
		if p.OutDir != "" {
			describe.OutDir = p.OutDir
		}
		return cfg.Sources, describe, nil
	}
	if p.Input == "" {
		return nil, config.Describe{}, errors.New("either --config or an input path must be provided")
	}
	return []config.Source{{Path: p.Input, Format: p.Format}},
		config.Describe{Resource: p.Resource, OutDir: p.OutDir}, nil
}

func writeMarkdown(outDir, resourceName, md string) error {
	if outDir == "" {
		_, err := fmt.Fprintln(os.Stdout, md)
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := strings.ReplaceAll(resourceName, "/", ".") + ".md"
	return os.WriteFile(filepath.Join(outDir, name), []byte(md), 0o644)
}

// RunValidate checks that a schema source loads cleanly.
func RunValidate(input, format string) error {
	if format == config.FormatOpenAPI {
		return openapi.ValidateDocument(input)
	}
	_, err := schema.LoadFile(input)
	return err
}
