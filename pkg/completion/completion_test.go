package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptoluganti/bicep/pkg/types"
)

func TestFormatSnippet(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"no placeholders", "no placeholders"},
		{"name: ${1:name}", "name: name"},
		{"end: ${0}", "end: "},
		{"${1:first} and ${2:second}", "first and second"},
		{"empty name ${3:}", "empty name "},
		{"literal ${notaplaceholder}", "literal ${notaplaceholder}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSnippet(tt.input))
	}
}

func TestKeywordItems(t *testing.T) {
	items := KeywordItems("resource", "param", "var")
	require.Len(t, items, 3)
	assert.Equal(t, "resource", items[0].Label)
	assert.Equal(t, ItemKeyword, items[0].Kind)
}

func TestPrimitiveTypeItems(t *testing.T) {
	items := PrimitiveTypeItems()
	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"any", "bool", "int", "string", "object", "array"}, labels)
}

func TestResourceTypeItem(t *testing.T) {
	ref, err := types.ParseResourceTypeReference("Acme.Widgets/widgets@2023-05-01")
	require.NoError(t, err)

	rt := types.NewResourceType(ref, []types.TypeProperty{
		{Name: "name", Type: types.Resolved(types.String), Flags: types.TypePropertyRequired},
		{Name: "id", Type: types.Resolved(types.String), Flags: types.TypePropertyRequired | types.TypePropertyReadOnly},
		{Name: "tags", Type: types.Resolved(types.Object)},
	}, nil)

	item := ResourceTypeItem(rt)
	assert.Equal(t, "Acme.Widgets/widgets", item.Label)
	assert.Equal(t, "Acme.Widgets/widgets@2023-05-01", item.Detail)

	// Only required, settable properties appear in the snippet.
	assert.Contains(t, item.Snippet, "name: ${1:name}")
	assert.NotContains(t, item.Snippet, "id:")
	assert.NotContains(t, item.Snippet, "tags:")

	// Documentation carries no placeholder markers.
	assert.Contains(t, item.Documentation, "name: name")
	assert.NotContains(t, item.Documentation, "${")
}
