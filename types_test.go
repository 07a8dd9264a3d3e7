package koord_test

import (
	"errors"
	"testing"

	"koord"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type equalsTest struct {
	a, b     koord.Type
	expected bool
}

var equalsTests = []equalsTest{
	{koord.IntType, koord.IntType, true},
	{koord.IntType, koord.FloatType, false},
	{koord.PosType, koord.PosType, true},
	{koord.StreamType, koord.StringType, false},
	{koord.ArrayOf(koord.IntType), koord.ArrayOf(koord.IntType), true},
	{koord.ArrayOf(koord.IntType), koord.ArrayOf(koord.FloatType), false},
	{koord.ArrayOf(koord.ArrayOf(koord.IntType)), koord.ArrayOf(koord.ArrayOf(koord.IntType)), true},
	{koord.ArrayOf(koord.ArrayOf(koord.IntType)), koord.ArrayOf(koord.IntType), false},
	{koord.ArrayOf(koord.IntType), koord.IntType, false},
	{&koord.CustomType{Name: "Point"}, &koord.CustomType{Name: "Point"}, true},
	{&koord.CustomType{Name: "Point"}, &koord.CustomType{Name: "Vec"}, false},
	{&koord.CustomType{Name: "Point"}, koord.PosType, false},
	{koord.Unknown, koord.Unknown, true},
	{koord.Unknown, koord.IntType, false},
}

func TestEquals(t *testing.T) {
	for _, tt := range equalsTests {
		assert.Equal(t, tt.expected, koord.Equals(tt.a, tt.b), "%s == %s", tt.a, tt.b)
		assert.Equal(t, tt.expected, koord.Equals(tt.b, tt.a), "%s == %s", tt.b, tt.a)
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int[][]", koord.ArrayOf(koord.ArrayOf(koord.IntType)).String())
	assert.Equal(t, "Point[]", koord.ArrayOf(&koord.CustomType{Name: "Point"}).String())
	assert.Equal(t, "stream", koord.StreamType.String())
	assert.Equal(t, "unknown", koord.Unknown.String())
}

func TestInnerType(t *testing.T) {
	inner, err := koord.InnerType(koord.ArrayOf(koord.PosType))
	require.NoError(t, err)
	assert.Equal(t, koord.PosType, inner)
	assert.True(t, koord.IsArray(koord.ArrayOf(koord.PosType)))

	_, err = koord.InnerType(koord.PosType)
	assert.True(t, errors.Is(err, koord.ErrNotArray))
	assert.False(t, koord.IsArray(koord.PosType))
}

func TestTypeRegistry(t *testing.T) {
	r := koord.NewTypeRegistry(koord.RejectRedefinition)
	fields := map[string]koord.Type{
		"x": koord.FloatType,
		"y": koord.FloatType,
	}
	require.NoError(t, r.Define("Point", fields))
	fields["z"] = koord.FloatType
	assert.Equal(t, []string{"x", "y"}, r.Fields("Point"))

	typ, ok := r.FieldType("Point", "y")
	assert.True(t, ok)
	assert.Equal(t, koord.FloatType, typ)
	_, ok = r.FieldType("Point", "z")
	assert.False(t, ok)
	_, ok = r.FieldType("Vec", "x")
	assert.False(t, ok)

	err := r.Define("Point", map[string]koord.Type{"r": koord.IntType})
	assert.True(t, errors.Is(err, koord.ErrTypeRedefined))
	assert.Equal(t, []string{"x", "y"}, r.Fields("Point"))
	assert.Equal(t, 1, r.Len())
}

func TestTypeRegistryReplace(t *testing.T) {
	r := koord.NewTypeRegistry(koord.ReplaceRedefinition)
	require.NoError(t, r.Define("Point", map[string]koord.Type{"x": koord.IntType}))
	require.NoError(t, r.Define("Point", map[string]koord.Type{"r": koord.FloatType}))
	assert.Equal(t, []string{"r"}, r.Fields("Point"))
	assert.True(t, r.Defined("Point"))
	assert.False(t, r.Defined("Vec"))
}

func TestParseRedefinitionPolicy(t *testing.T) {
	p, err := koord.ParseRedefinitionPolicy("Replace")
	require.NoError(t, err)
	assert.Equal(t, koord.ReplaceRedefinition, p)
	p, err = koord.ParseRedefinitionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, koord.RejectRedefinition, p)
	_, err = koord.ParseRedefinitionPolicy("merge")
	assert.Error(t, err)
}
