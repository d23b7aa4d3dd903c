package jvstgo

// Keyword is a functional option applied to an *ASTSchema under
// construction, adapted from the teacher's constructor.go (its own
// `Keyword func(*Schema)` option type applied by Object/String/...); here
// the option closes over *ASTSchema, the type this pipeline actually
// compiles, instead of the teacher's runtime Schema.
type Keyword func(*ASTSchema)

// Object builds an object schema from a mix of Property entries and
// Keyword options, mirroring the teacher's Object(items ...interface{}).
func Object(items ...any) *ASTSchema {
	s := newTypedSchema("object")
	var props []Property
	for _, item := range items {
		switch v := item.(type) {
		case Property:
			props = append(props, v)
		case Keyword:
			v(s)
		}
	}
	for _, p := range props {
		s.Properties = append(s.Properties, &ASTProperty{Literal: p.Name, Schema: p.Schema})
	}
	return s
}

// Property pairs a literal property name with its subschema for Object.
type Property struct {
	Name   string
	Schema *ASTSchema
}

// Prop creates a property definition for Object.
func Prop(name string, schema *ASTSchema) Property {
	return Property{Name: name, Schema: schema}
}

func newTypedSchema(jsonType string) *ASTSchema {
	s := &ASTSchema{}
	set, err := ParseTypeSet(jsonType)
	if err == nil {
		s.Types = set
	}
	return s
}

func withKeywords(s *ASTSchema, keywords []Keyword) *ASTSchema {
	for _, k := range keywords {
		k(s)
	}
	return s
}

// String builds a string schema.
func String(keywords ...Keyword) *ASTSchema { return withKeywords(newTypedSchema("string"), keywords) }

// Integer builds an integer schema.
func Integer(keywords ...Keyword) *ASTSchema {
	return withKeywords(newTypedSchema("integer"), keywords)
}

// Number builds a number schema.
func Number(keywords ...Keyword) *ASTSchema { return withKeywords(newTypedSchema("number"), keywords) }

// Boolean builds a boolean schema.
func Boolean(keywords ...Keyword) *ASTSchema {
	return withKeywords(newTypedSchema("boolean"), keywords)
}

// Null builds a null schema.
func Null(keywords ...Keyword) *ASTSchema { return withKeywords(newTypedSchema("null"), keywords) }

// Array builds an array schema.
func Array(keywords ...Keyword) *ASTSchema { return withKeywords(newTypedSchema("array"), keywords) }

// Any builds a schema with no type restriction.
func Any(keywords ...Keyword) *ASTSchema { return withKeywords(&ASTSchema{}, keywords) }

// Const builds a const schema (ast.h's "xenum" of exactly one value).
func Const(value any) *ASTSchema {
	return &ASTSchema{Enum: []any{value}}
}

// Enum builds an enum schema.
func Enum(values ...any) *ASTSchema {
	return &ASTSchema{Enum: values}
}

// AllOf/AnyOf/OneOf build the corresponding ASTSomeOf combinator schema.
func AllOf(schemas ...*ASTSchema) *ASTSchema { return someOf(len(schemas), len(schemas), schemas) }
func AnyOf(schemas ...*ASTSchema) *ASTSchema { return someOf(1, len(schemas), schemas) }
func OneOf(schemas ...*ASTSchema) *ASTSchema { return someOf(1, 1, schemas) }

func someOf(min, max int, schemas []*ASTSchema) *ASTSchema {
	return &ASTSchema{SomeOf: &ASTSomeOf{Min: min, Max: max, Set: schemas}}
}

// Not builds a negated schema.
func Not(schema *ASTSchema) *ASTSchema {
	return &ASTSchema{Not: schema}
}

// Ref builds a $ref schema.
func Ref(ref string) *ASTSchema {
	return &ASTSchema{Ref: ref, Kws: KwsHasRef}
}

// --- keyword options ---

// MinLength/MaxLength/Pattern set the corresponding string keywords.
func MinLength(n int) Keyword {
	return func(s *ASTSchema) { s.MinLength = n; s.Kws |= KwsMinLength }
}
func MaxLength(n int) Keyword {
	return func(s *ASTSchema) { s.MaxLength = n; s.Kws |= KwsMaxLength }
}
func Pattern(re string) Keyword {
	return func(s *ASTSchema) { s.Pattern = re }
}

// Minimum/Maximum/ExclusiveMinimum/ExclusiveMaximum/MultipleOf set the
// corresponding numeric keywords, each an independent bound per
// SPEC_FULL.md's Open Question 2 decision (2020-12 semantics).
func Minimum(v any) Keyword {
	return func(s *ASTSchema) { s.Minimum = NewRat(v); s.Kws |= KwsMinimum }
}
func Maximum(v any) Keyword {
	return func(s *ASTSchema) { s.Maximum = NewRat(v); s.Kws |= KwsMaximum }
}
func ExclusiveMinimum(v any) Keyword {
	return func(s *ASTSchema) { s.ExclusiveMinimum = NewRat(v); s.Kws |= KwsExclusiveMinimum }
}
func ExclusiveMaximum(v any) Keyword {
	return func(s *ASTSchema) { s.ExclusiveMaximum = NewRat(v); s.Kws |= KwsExclusiveMaximum }
}
func MultipleOf(v any) Keyword {
	return func(s *ASTSchema) { s.MultipleOf = NewRat(v); s.Kws |= KwsMultipleOf }
}

// Required sets the required property-name list.
func Required(names ...string) Keyword {
	return func(s *ASTSchema) { s.Required = names }
}

// AdditionalProperties sets the additionalProperties subschema.
func AdditionalProperties(schema *ASTSchema) Keyword {
	return func(s *ASTSchema) { s.AdditionalProperties = schema }
}

// MinProperties/MaxProperties set the corresponding count bounds.
func MinProperties(n int) Keyword {
	return func(s *ASTSchema) { s.MinProperties = n; s.Kws |= KwsMinProperties }
}
func MaxProperties(n int) Keyword {
	return func(s *ASTSchema) { s.MaxProperties = n; s.Kws |= KwsMaxProperties }
}

// Items sets the uniform item schema.
func Items(schema *ASTSchema) Keyword {
	return func(s *ASTSchema) { s.Items = schema }
}

// MinItems/MaxItems/UniqueItems set the corresponding array keywords.
func MinItems(n int) Keyword {
	return func(s *ASTSchema) { s.MinItems = n; s.Kws |= KwsMinItems }
}
func MaxItems(n int) Keyword {
	return func(s *ASTSchema) { s.MaxItems = n; s.Kws |= KwsMaxItems }
}
func UniqueItems(unique bool) Keyword {
	return func(s *ASTSchema) { s.UniqueItems = unique }
}
