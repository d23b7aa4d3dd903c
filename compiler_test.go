package jvstgo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestSchemaJSON is the fixture style of the teacher's compiler_test.go
// (createTestSchemaJSON helper), narrowed to the keywords this pipeline
// compiles rather than a full validator config.
func createTestSchemaJSON(properties map[string]string, required []string) string {
	var props []string
	for name, typ := range properties {
		props = append(props, `"`+name+`": {"type": "`+typ+`"}`)
	}
	var reqList []string
	for _, r := range required {
		reqList = append(reqList, `"`+r+`"`)
	}
	return `{"type": "object", "properties": {` + strings.Join(props, ", ") +
		`}, "required": [` + strings.Join(reqList, ", ") + `]}`
}

func TestCompileSimpleObject(t *testing.T) {
	schemaJSON := createTestSchemaJSON(map[string]string{"name": "string"}, []string{"name"})

	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Cnode)
	require.NotNil(t, result.IR)
	require.NotNil(t, result.IR.Root)

	out := Dump(result.IR)
	assert.Contains(t, out, "FRAME(")
	assert.Contains(t, out, "LOOP(L_OBJ, 0,")
	assert.Contains(t, out, "BITVECTOR(0, reqmask, 1)")
	assert.Contains(t, out, "MISSING_REQUIRED_PROPERTIES")
}

func TestCompileEmptySchemaIsNil(t *testing.T) {
	_, err := Compile(nil)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, codeOf(ErrSchemaNil), ce.Code)
}

func TestCompileMalformedJSON(t *testing.T) {
	_, err := Compile([]byte(`{"type": `))
	require.Error(t, err)
}

func TestCompileYAML(t *testing.T) {
	schemaYAML := "type: object\nproperties:\n  name:\n    type: string\nrequired:\n  - name\n"

	result, err := CompileYAML([]byte(schemaYAML))
	require.NoError(t, err)
	require.NotNil(t, result)

	jsonResult, err := Compile([]byte(createTestSchemaJSON(map[string]string{"name": "string"}, []string{"name"})))
	require.NoError(t, err)

	assert.Equal(t, Dump(jsonResult.IR), Dump(result.IR))
}

func TestCompileBooleanSchemas(t *testing.T) {
	trueResult, err := Compile([]byte(`true`))
	require.NoError(t, err)
	assert.Contains(t, Dump(trueResult.IR), "VALID")

	falseResult, err := Compile([]byte(`false`))
	require.NoError(t, err)
	assert.Contains(t, Dump(falseResult.IR), "INVALID(")
}

func TestCompileUnknownTypeRaisesDiagnostic(t *testing.T) {
	_, err := Compile([]byte(`{"type": "frobnicate"}`))
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, codeOf(ErrUnknownSchemaType), ce.Code)
}

func TestCompileUnresolvableRef(t *testing.T) {
	_, err := Compile([]byte(`{"$ref": "#/$defs/missing"}`))
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, codeOf(ErrRefUnresolved), ce.Code)
}

func TestCompileLocalRef(t *testing.T) {
	schemaJSON := `{
		"$defs": {"name": {"type": "string", "minLength": 1}},
		"type": "object",
		"properties": {"name": {"$ref": "#/$defs/name"}},
		"required": ["name"]
	}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)
	require.NotNil(t, result.IR.Root)
}

func TestCompileAllOfUnionsRequired(t *testing.T) {
	// Two object schemas merged by allOf each declare their own "required":
	// canonObjectArm must union both into a single OBJ_REQMASK rather than
	// letting the second occurrence silently shadow the first.
	schemaJSON := `{
		"allOf": [
			{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]},
			{"type": "object", "properties": {"b": {"type": "string"}}, "required": ["b"]}
		]
	}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)

	out := Dump(result.IR)
	assert.Equal(t, 1, strings.Count(out, "reqmask"), "expected exactly one reqmask bitvector, got:\n%s", out)
	assert.Contains(t, out, "BITVECTOR(0, reqmask, 2)")
}

func TestCompileArrayKeywordsAreNoOp(t *testing.T) {
	// lower.go's lowerArm NOPs the entire ARRAY_BEG arm unconditionally
	// (only NUMBER and OBJECT are translated), so minItems/maxItems/
	// contains/uniqueItems are parsed and canonicalized but never reach
	// the IR: this pins down that current behavior rather than letting
	// it be silently assumed to work (see DESIGN.md's CArrContains entry).
	schemaJSON := `{"type": "array", "minItems": 2, "maxItems": 2, "uniqueItems": true}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)

	out := Dump(result.IR)
	assert.Contains(t, out, "ISTOK(ARRAY_BEG)")
	assert.Contains(t, out, "NOP\n")
}

func TestCompileDependentRequired(t *testing.T) {
	schemaJSON := `{
		"type": "object",
		"properties": {"cc": {"type": "string"}, "billing": {"type": "string"}},
		"dependentRequired": {"cc": ["billing"]}
	}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)

	out := Dump(result.IR)
	assert.Contains(t, out, "depreqmask")
	assert.Contains(t, out, "MISSING_REQUIRED_PROPERTIES")
}

func TestCompileIntegerRange(t *testing.T) {
	schemaJSON := `{"type": "integer", "minimum": 0, "maximum": 100}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)

	out := Dump(result.IR)
	assert.Contains(t, out, "ISINT(")
	assert.Contains(t, out, "GE(")
	assert.Contains(t, out, "LE(")
}

func TestCompilePropertyCountBounds(t *testing.T) {
	schemaJSON := `{"type": "object", "minProperties": 1, "maxProperties": 3}`
	result, err := Compile([]byte(schemaJSON))
	require.NoError(t, err)

	out := Dump(result.IR)
	assert.Contains(t, out, "COUNTER(0, num_props)")
	assert.Contains(t, out, "TOO_FEW_PROPS")
	assert.Contains(t, out, "TOO_MANY_PROPS")
}
