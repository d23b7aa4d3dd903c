package jvstgo

import "errors"

// === AST / schema ingestion errors ===
var (
	// ErrSchemaUnmarshal is returned when a schema document cannot be decoded.
	ErrSchemaUnmarshal = errors.New("schema unmarshal failed")

	// ErrUnknownSchemaType is returned when a "type" keyword names an unknown JSON type.
	ErrUnknownSchemaType = errors.New("unknown schema type")

	// ErrInvalidKeywordShape is returned when a keyword's JSON shape does not match what the keyword expects.
	ErrInvalidKeywordShape = errors.New("invalid keyword shape")

	// ErrRefUnresolved is returned when a $ref cannot be resolved within the same document.
	ErrRefUnresolved = errors.New("$ref could not be resolved within this document")

	// ErrUnsupportedRatType is returned when a JSON number literal cannot be converted to *big.Rat.
	ErrUnsupportedRatType = errors.New("unsupported type for exact numeric conversion")

	// ErrRatConversion is returned when a numeric literal cannot be parsed as a rational.
	ErrRatConversion = errors.New("rational conversion failed")
)

// === Cnode builder / canonicalizer errors ===
var (
	// ErrUnsupportedCombinator is returned when a combinator appears somewhere the builder does not support it.
	ErrUnsupportedCombinator = errors.New("unsupported combinator for this arm")

	// ErrCanonicalInvariant is returned when canonicalization fails to reach its required fixed-point shape.
	ErrCanonicalInvariant = errors.New("canonical form invariant violated")

	// ErrNotCanonicalized is returned when a stage is handed a cnode tree that was never canonicalized.
	ErrNotCanonicalized = errors.New("cnode tree was not canonicalized")
)

// === DFA compiler errors ===
var (
	// ErrPatternCompile is returned when a regex pattern cannot be parsed into an automaton.
	ErrPatternCompile = errors.New("pattern compile failed")

	// ErrEmptyMatchSwitch is returned when a MATCH_SWITCH is built with no cases.
	ErrEmptyMatchSwitch = errors.New("match switch has no cases")
)

// === IR lowering errors ===
var (
	// ErrLowerInvariant is returned when the lowering stage encounters a cnode shape canonicalization should have removed.
	ErrLowerInvariant = errors.New("lowering invariant violated")

	// ErrNotSwitch is returned when IR lowering is entered on a cnode tree that is not rooted at a SWITCH.
	ErrNotSwitch = errors.New("ir lowering must start at a SWITCH node")

	// ErrMultipleReqmask is returned when an object frame ends up with more than one OBJ_REQMASK.
	ErrMultipleReqmask = errors.New("object frame has more than one reqmask")
)

// === Compiler facade errors ===
var (
	// ErrSchemaNil is returned when Compile is called with a nil schema.
	ErrSchemaNil = errors.New("schema is nil")

	// ErrCompileFailed wraps any failure surfaced from the pipeline as a diagnostic.
	ErrCompileFailed = errors.New("schema compilation failed")
)
