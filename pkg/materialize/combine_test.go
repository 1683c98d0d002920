package materialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptoluganti/bicep/pkg/schema"
	"github.com/ptoluganti/bicep/pkg/types"
)

func stringNode() *schema.BuiltIn { return &schema.BuiltIn{Kind: schema.KindString} }

func discriminatedFixture() *schema.DiscriminatedObject {
	return &schema.DiscriminatedObject{
		Name:          "shape",
		Discriminator: "kind",
		BaseProperties: []schema.Property{
			{Name: "a", Type: stringNode(), Flags: schema.FlagRequired},
			{Name: "id", Type: stringNode(), Flags: schema.FlagReadOnly},
		},
		Variants: []schema.Variant{
			{Key: "circle", Type: &schema.Object{Name: "circleBody", Properties: []schema.Property{
				{Name: "a", Type: stringNode(), Flags: schema.FlagReadOnly},
				{Name: "b", Type: stringNode(), Flags: schema.FlagRequired},
			}}},
			{Key: "square", Type: &schema.Object{Name: "squareBody", Properties: []schema.Property{
				{Name: "side", Type: &schema.BuiltIn{Kind: schema.KindInt}, Flags: schema.FlagRequired},
			}}},
		},
	}
}

func TestDiscriminatedMergePrecedence(t *testing.T) {
	s := NewSession()

	got, err := s.Materialize(discriminatedFixture())
	require.NoError(t, err)
	d := got.(*types.DiscriminatedObjectType)
	assert.Equal(t, "shape", d.Name())
	assert.Equal(t, "kind", d.Discriminator)

	ref, ok := d.Variant("circle")
	require.True(t, ok)
	variant, err := ref.Resolve()
	require.NoError(t, err)
	obj := variant.(*types.NamedObjectType)

	// Variant name is the discriminant key.
	assert.Equal(t, "circle", obj.Name())

	// Base order first, variant override in place, variant-only last.
	require.Len(t, obj.Properties, 3)
	assert.Equal(t, "a", obj.Properties[0].Name)
	assert.Equal(t, types.TypePropertyReadOnly, obj.Properties[0].Flags, "variant definition wins on collision")
	assert.Equal(t, "id", obj.Properties[1].Name)
	assert.Equal(t, "b", obj.Properties[2].Name)
	assert.Equal(t, types.TypePropertyRequired, obj.Properties[2].Flags)
}

func TestVariantsCombineLazily(t *testing.T) {
	s := NewSession()
	fixture := discriminatedFixture()

	got, err := s.Materialize(fixture)
	require.NoError(t, err)
	d := got.(*types.DiscriminatedObjectType)

	circle, _ := d.Variant("circle")
	square, _ := d.Variant("square")
	_, ok := circle.Peek()
	assert.False(t, ok)
	_, ok = square.Peek()
	assert.False(t, ok)

	_, err = square.Resolve()
	require.NoError(t, err)

	_, ok = square.Peek()
	assert.True(t, ok)
	_, ok = circle.Peek()
	assert.False(t, ok, "untouched variant stays unmaterialized")

	first, err := square.Resolve()
	require.NoError(t, err)
	second, err := square.Resolve()
	require.NoError(t, err)
	assert.Same(t, first, second, "variant combines at most once")
}

func TestVariantNodeKeepsPlainMaterialization(t *testing.T) {
	// The same object node referenced both as a discriminated variant and
	// as a plain object must materialize differently on each path,
	// whichever resolves first.
	build := func() (*Session, *schema.DiscriminatedObject) {
		return NewSession(), discriminatedFixture()
	}

	t.Run("plain first", func(t *testing.T) {
		s, fixture := build()

		plain, err := s.Materialize(fixture.Variants[0].Type)
		require.NoError(t, err)
		obj := plain.(*types.NamedObjectType)
		assert.Equal(t, "circleBody", obj.Name())
		require.Len(t, obj.Properties, 2)
		_, ok := obj.Property("id")
		assert.False(t, ok, "plain object has no base properties")

		got, err := s.Materialize(fixture)
		require.NoError(t, err)
		ref, _ := got.(*types.DiscriminatedObjectType).Variant("circle")
		variant, err := ref.Resolve()
		require.NoError(t, err)
		combined := variant.(*types.NamedObjectType)
		assert.Equal(t, "circle", combined.Name())
		_, ok = combined.Property("id")
		assert.True(t, ok, "combined variant carries base properties")
		assert.NotSame(t, plain, variant)
	})

	t.Run("variant first", func(t *testing.T) {
		s, fixture := build()

		got, err := s.Materialize(fixture)
		require.NoError(t, err)
		ref, _ := got.(*types.DiscriminatedObjectType).Variant("circle")
		variant, err := ref.Resolve()
		require.NoError(t, err)
		combined := variant.(*types.NamedObjectType)
		assert.Equal(t, "circle", combined.Name())

		plain, err := s.Materialize(fixture.Variants[0].Type)
		require.NoError(t, err)
		obj := plain.(*types.NamedObjectType)
		assert.Equal(t, "circleBody", obj.Name())
		_, ok := obj.Property("id")
		assert.False(t, ok, "plain object has no base properties")
		assert.NotSame(t, variant, plain)
	})
}

func TestNonObjectVariantIsMalformed(t *testing.T) {
	s := NewSession()

	node := &schema.DiscriminatedObject{
		Name:           "bad",
		Discriminator:  "kind",
		BaseProperties: []schema.Property{},
		Variants:       []schema.Variant{{Key: "oops", Type: stringNode()}},
	}

	got, err := s.Materialize(node)
	require.NoError(t, err, "the discriminated object itself materializes")

	ref, ok := got.(*types.DiscriminatedObjectType).Variant("oops")
	require.True(t, ok)
	_, err = ref.Resolve()
	assert.ErrorIs(t, err, ErrSchemaMalformed)
}

func TestVariantAdditionalProperties(t *testing.T) {
	s := NewSession()

	node := &schema.DiscriminatedObject{
		Name:           "withExtras",
		Discriminator:  "kind",
		BaseProperties: []schema.Property{{Name: "kind", Type: stringNode(), Flags: schema.FlagRequired}},
		Variants: []schema.Variant{
			{Key: "open", Type: &schema.Object{Name: "openBody", AdditionalProperties: stringNode()}},
		},
	}

	got, err := s.Materialize(node)
	require.NoError(t, err)
	ref, _ := got.(*types.DiscriminatedObjectType).Variant("open")
	variant, err := ref.Resolve()
	require.NoError(t, err)

	obj := variant.(*types.NamedObjectType)
	require.NotNil(t, obj.AdditionalProperties)
	additional, err := obj.AdditionalProperties.Resolve()
	require.NoError(t, err)
	assert.Same(t, types.String, additional)
}
