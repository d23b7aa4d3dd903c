package jvstgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectConstructorBuildsASTShape(t *testing.T) {
	s := Object(
		Prop("name", String(MinLength(1))),
		Prop("age", Integer(Minimum(0))),
		Required("name"),
	)

	assert.True(t, s.Types.Has(TypeObject))
	require.Len(t, s.Properties, 2)
	assert.Equal(t, []string{"name"}, s.Required)

	var nameSchema, ageSchema *ASTSchema
	for _, p := range s.Properties {
		switch p.Literal {
		case "name":
			nameSchema = p.Schema
		case "age":
			ageSchema = p.Schema
		}
	}
	require.NotNil(t, nameSchema)
	require.NotNil(t, ageSchema)
	assert.True(t, nameSchema.Kws.Has(KwsMinLength))
	assert.Equal(t, 1, nameSchema.MinLength)
	assert.True(t, ageSchema.Kws.Has(KwsMinimum))
}

func TestConstructorCompiles(t *testing.T) {
	s := Object(
		Prop("id", String()),
		Required("id"),
		MinProperties(1),
	)

	canon, err := BuildCnode(s)
	require.NoError(t, err)
	canon, err = Canonicalize(canon)
	require.NoError(t, err)
	ir, err := Lower(canon)
	require.NoError(t, err)

	out := Dump(ir)
	assert.Contains(t, out, "reqmask")
	assert.Contains(t, out, "num_props")
}

func TestCombinatorConstructors(t *testing.T) {
	allOf := AllOf(String(MinLength(1)), String(MaxLength(10)))
	assert.Equal(t, 2, allOf.SomeOf.Min)
	assert.Equal(t, 2, allOf.SomeOf.Max)

	anyOf := AnyOf(String(), Integer())
	assert.Equal(t, 1, anyOf.SomeOf.Min)
	assert.Equal(t, 2, anyOf.SomeOf.Max)

	oneOf := OneOf(String(), Integer())
	assert.Equal(t, 1, oneOf.SomeOf.Min)
	assert.Equal(t, 1, oneOf.SomeOf.Max)
}

func TestConstEnumConstructors(t *testing.T) {
	c := Const("fixed")
	assert.Equal(t, []any{"fixed"}, c.Enum)

	e := Enum(1, 2, 3)
	assert.Equal(t, []any{1, 2, 3}, e.Enum)
}

func TestRefConstructor(t *testing.T) {
	r := Ref("#/$defs/name")
	assert.Equal(t, "#/$defs/name", r.Ref)
	assert.True(t, r.Kws.Has(KwsHasRef))
}
