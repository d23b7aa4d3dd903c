package jvstgo

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Compile runs the full pipeline (spec.md §1: AST -> Cnode Builder ->
// Cnode Canonicalizer -> DFA Compiler -> IR Lowering) over a JSON Schema
// document and returns the lowered IR. Adapted from the teacher's
// Compiler.Compile (newSchema -> initializeSchema -> cache), narrowed to
// a one-shot, stateless compile: this package produces an IR program for
// an external executor, not a cached, mutable Schema object the teacher's
// runtime re-evaluates per instance.
func Compile(schemaJSON []byte) (result *Result, err error) {
	defer func() {
		// spec.md §4.6/§7: a compilation either succeeds or aborts with a
		// diagnostic; an internal invariant violation (a programmer bug
		// surfacing as a panic, e.g. an out-of-range arm index) must still
		// surface as an error, not crash the caller's process.
		if r := recover(); r != nil {
			result = nil
			err = newCompileError("panic", "", ErrCompileFailed, map[string]any{"recovered": fmt.Sprint(r)})
		}
	}()

	if len(schemaJSON) == 0 {
		return nil, newCompileError("ast", "", ErrSchemaNil, nil)
	}

	ast, err := ParseSchema(schemaJSON)
	if err != nil {
		return nil, err
	}
	return compileAST(ast)
}

// CompileYAML compiles a YAML-encoded schema document, grounded on the
// teacher's setupMediaTypes' "application/yaml" handler (goccy/go-yaml):
// decode to the same any-tree ParseSchema builds from JSON, then run the
// identical decodeSchemaValue path so YAML and JSON schemas share every
// downstream stage.
func CompileYAML(schemaYAML []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = newCompileError("panic", "", ErrCompileFailed, map[string]any{"recovered": fmt.Sprint(r)})
		}
	}()

	var raw any
	if err := yaml.Unmarshal(schemaYAML, &raw); err != nil {
		return nil, newCompileError("ast", "", ErrSchemaUnmarshal, map[string]any{"error": err.Error()})
	}
	ast, err := decodeSchemaValue(raw)
	if err != nil {
		return nil, err
	}
	return compileAST(ast)
}

// compileAST runs the pipeline stages after parsing: $ref resolution,
// cnode build, canonicalization, lowering.
func compileAST(ast *ASTSchema) (*Result, error) {
	if err := resolveRefs(ast); err != nil {
		if ce, ok := err.(*CompileError); ok {
			return nil, ce
		}
		return nil, newCompileError("ast", "", ErrRefUnresolved, map[string]any{"error": err.Error()})
	}

	raw, err := BuildCnode(ast)
	if err != nil {
		return nil, err
	}

	canon, err := Canonicalize(raw)
	if err != nil {
		return nil, err
	}

	ir, err := Lower(canon)
	if err != nil {
		return nil, err
	}

	return &Result{Cnode: canon, IR: ir}, nil
}
