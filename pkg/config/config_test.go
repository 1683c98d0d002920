package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bicep-types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
sources:
  - path: schemas/widgets.json
  - path: specs/widgets-openapi.yaml
    format: openapi
describe:
  resource: Acme.Widgets/widgets@2023-05-01
  outDir: docs
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)

	base := filepath.Dir(path)
	assert.Equal(t, filepath.Join(base, "schemas/widgets.json"), cfg.Sources[0].Path)
	assert.Equal(t, FormatNative, cfg.Sources[0].Format)
	assert.Equal(t, FormatOpenAPI, cfg.Sources[1].Format)
	assert.Equal(t, "Acme.Widgets/widgets@2023-05-01", cfg.Describe.Resource)
}

func TestLoadKeepsURLs(t *testing.T) {
	path := writeConfig(t, `
sources:
  - path: https://example.com/openapi.json
    format: openapi
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/openapi.json", cfg.Sources[0].Path)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no sources", `describe: {}`},
		{"missing path", "sources:\n  - format: native"},
		{"unknown format", "sources:\n  - path: x.json\n    format: grpc"},
		{"bad yaml", `sources: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
