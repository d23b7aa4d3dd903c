package jvstgo

import "strings"

// TokType is a SAX-style JSON token-stream event, the alphabet the IR's
// token-view expressions and the executor described in spec §6.1 operate
// over. Adapted from the teacher's SchemaType (single-vs-array JSON type)
// which plays the analogous "what kind of value is this" role for the
// validator; here it enumerates parser *events* rather than value kinds.
type TokType int

// Token-stream events, in the order original_source/src/validate_ir.c's
// SJP_* enum lists them. Order matters: SWITCH arms (cnode.go) are
// indexed by this enum and must stay dense and total.
const (
	TokNone TokType = iota
	TokNull
	TokTrue
	TokFalse
	TokNumber
	TokString
	TokObjectBeg
	TokObjectEnd
	TokArrayBeg
	TokArrayEnd

	numTokTypes
)

func (t TokType) String() string {
	switch t {
	case TokNone:
		return "NONE"
	case TokNull:
		return "NULL"
	case TokTrue:
		return "TRUE"
	case TokFalse:
		return "FALSE"
	case TokNumber:
		return "NUMBER"
	case TokString:
		return "STRING"
	case TokObjectBeg:
		return "OBJECT_BEG"
	case TokObjectEnd:
		return "OBJECT_END"
	case TokArrayBeg:
		return "ARRAY_BEG"
	case TokArrayEnd:
		return "ARRAY_END"
	default:
		return "UNKNOWN_TOK"
	}
}

// JSONType is a single permitted value type as named by the schema
// "type" keyword.
type JSONType int

const (
	TypeNull JSONType = 1 << iota
	TypeBoolean
	TypeInteger
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// TypeSet is the AST's "types" bitmap (ast.h: "enum json_valuetype types;
// bitmap; 0 for unset"). A zero TypeSet means the "type" keyword is
// absent, i.e. every type is permitted.
type TypeSet int

// Has reports whether t is permitted by the set. An empty set permits
// every type (keyword absent).
func (s TypeSet) Has(t JSONType) bool {
	if s == 0 {
		return true
	}
	return s&TypeSet(t) != 0
}

// Empty reports whether the "type" keyword was absent (no restriction).
func (s TypeSet) Empty() bool { return s == 0 }

var typeNames = map[string]JSONType{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"integer": TypeInteger,
	"number":  TypeNumber,
	"string":  TypeString,
	"array":   TypeArray,
	"object":  TypeObject,
}

// ParseTypeSet builds a TypeSet from one or more schema "type" strings.
func ParseTypeSet(names ...string) (TypeSet, error) {
	var set TypeSet
	for _, n := range names {
		t, ok := typeNames[strings.ToLower(n)]
		if !ok {
			return 0, newASTError("type", ErrUnknownSchemaType, map[string]any{"type": n})
		}
		set |= TypeSet(t)
	}
	return set, nil
}

// tokensForType maps a permitted JSON type to the token(s) that can begin
// a value of that type. "integer" and "number" both begin with
// TokNumber; NUM_INTEGER narrows at cnode-build time (spec §4.1).
func tokensForType(t JSONType) []TokType {
	switch t {
	case TypeNull:
		return []TokType{TokNull}
	case TypeBoolean:
		return []TokType{TokTrue, TokFalse}
	case TypeInteger, TypeNumber:
		return []TokType{TokNumber}
	case TypeString:
		return []TokType{TokString}
	case TypeArray:
		return []TokType{TokArrayBeg}
	case TypeObject:
		return []TokType{TokObjectBeg}
	default:
		return nil
	}
}
