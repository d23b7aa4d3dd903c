package jvstgo

// ASTKws is the keyword-presence bitmap described in spec.md §3.1: some
// keywords are "present" only if their bit is set here (numeric bounds,
// length/items/property counts), others use a sentinel on the field
// itself (nil pointer, empty map/slice). Implementers must preserve this
// distinction because e.g. Maximum == 0 differs from Maximum absent.
// Grounded 1:1 on original_source/src/ast.h's "enum ast_kws".
type ASTKws uint32

const (
	KwsMultipleOf ASTKws = 1 << iota
	KwsMaximum
	KwsExclusiveMaximum
	KwsMinimum
	KwsExclusiveMinimum
	KwsMinLength
	KwsMaxLength
	KwsMinItems
	KwsMaxItems
	KwsMinContains
	KwsMaxContains
	KwsMinProperties
	KwsMaxProperties
	KwsSingletonItems // "items" present, as one schema or as an array of schemas
	KwsHasRef         // $ref present: every sibling keyword must be ignored
)

// Has reports whether bit is set in k.
func (k ASTKws) Has(bit ASTKws) bool { return k&bit != 0 }

// ASTSomeOf encodes allOf/anyOf/oneOf uniformly, per ast.h's
// "some_of.{min,max,set}": allOf is (n,n), anyOf is (1,n), oneOf is (1,1).
type ASTSomeOf struct {
	Min int
	Max int
	Set []*ASTSchema
}

// ASTProperty pairs a literal-key or pattern-key subschema, used for both
// "properties"/"patternProperties" (ast.h's ast_property_schema) and the
// schema form of "dependencies" / 2020-12 "dependentSchemas".
type ASTProperty struct {
	Pattern string // empty for a literal-key entry
	Literal string // empty for a pattern-key entry
	Schema  *ASTSchema
}

// ASTSchema is the AST node: the verbatim keywords of one JSON Schema
// subschema, gated by the Kws presence bitmap. One variant, as spec.md
// §3.1 describes, translated from original_source/src/ast.h's
// "struct ast_schema".
type ASTSchema struct {
	Kws ASTKws

	// Boolean schemas (`true`/`false`) short-circuit everything else.
	Boolean *bool

	// Document keywords.
	ID          string
	Title       string
	Description string
	Defs        map[string]*ASTSchema

	Ref         string
	ResolvedRef *ASTSchema // filled by resolveRefs; nil until resolved

	// Numeric keywords. Exclusive* are independent bounds in 2020-12 (see
	// DESIGN.md / SPEC_FULL.md open question 2), not a modifier flag on
	// Maximum/Minimum: when both are present on the same side, both
	// conditions apply.
	MultipleOf       *Rat
	Maximum          *Rat
	ExclusiveMaximum *Rat
	Minimum          *Rat
	ExclusiveMinimum *Rat

	// String keywords.
	MaxLength int
	MinLength int
	Pattern   string

	// Array keywords.
	PrefixItems     []*ASTSchema // 2020-12 tuple prefix, or draft-07 array-form "items"
	Items           *ASTSchema   // uniform item schema (2020-12 "items" after PrefixItems, or draft-07 singleton "items")
	AdditionalItems *ASTSchema
	UniqueItems     bool
	Contains        *ASTSchema
	MinItems        int
	MaxItems        int
	MinContains     int
	MaxContains     int

	// Object keywords.
	Properties           []*ASTProperty // literal-key entries (Pattern == "")
	PatternProperties    []*ASTProperty // pattern-key entries (Literal == "")
	AdditionalProperties *ASTSchema
	Required              []string
	DependentRequired     map[string][]string
	DependentSchemas      []*ASTProperty
	PropertyNames         *ASTSchema
	MinProperties         int
	MaxProperties         int

	// Combinators.
	SomeOf      *ASTSomeOf   // allOf/anyOf/oneOf
	extraSomeOf []*ASTSomeOf // additional allOf/anyOf/oneOf on the same node, ANDed in at cnode-build time
	Not         *ASTSchema

	// enum / const, ast.h's "xenum": const is an enum of exactly one value.
	Enum []any

	// "type" keyword.
	Types TypeSet
}

// IsBoolean reports whether this node is a bare `true`/`false` schema.
func (s *ASTSchema) IsBoolean() bool { return s != nil && s.Boolean != nil }
