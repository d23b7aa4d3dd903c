// Package jvstgo compiles a JSON Schema document into an intermediate
// representation (IR) for driving a streaming, SAX-style JSON validator.
//
// The pipeline runs Schema AST -> Cnode Builder -> Cnode Canonicalizer ->
// DFA Compiler -> IR Lowering. Executing the resulting IR against a live
// token stream is the job of an external executor; this package only
// compiles.
package jvstgo
