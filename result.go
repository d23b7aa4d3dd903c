package jvstgo

import (
	"strings"

	"github.com/kaptinlin/go-i18n"
)

// CompileError is a single diagnostic raised anywhere along the AST ->
// Cnode -> DFA -> IR pipeline. Adapted from the teacher's
// EvaluationError (which reports a runtime validation failure against an
// instance); here it reports a failure to compile a schema document,
// carrying the pipeline Stage instead of an evaluation path.
type CompileError struct {
	Stage   string         `json:"stage"`
	Keyword string         `json:"keyword"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params"`

	cause error
}

// newASTError, newDFAError (dfa.go) and their per-stage siblings build
// CompileError values directly; this constructor covers callers that
// only have a sentinel and params in hand.
func newCompileError(stage, keyword string, cause error, params map[string]any) *CompileError {
	return &CompileError{
		Stage:   stage,
		Keyword: keyword,
		Code:    codeOf(cause),
		Message: cause.Error(),
		Params:  params,
		cause:   cause,
	}
}

// newASTError builds a Stage:"ast" CompileError; ast_unmarshal.go and
// ref.go both produce their diagnostics through this entry point.
func newASTError(keyword string, cause error, params map[string]any) *CompileError {
	return newCompileError("ast", keyword, cause, params)
}

func (e *CompileError) Error() string {
	return replace(e.Message, e.Params)
}

// Unwrap exposes the sentinel underneath, so callers can errors.Is against
// the package's Err* values regardless of which stage raised them.
func (e *CompileError) Unwrap() error { return e.cause }

// Localize returns a localized diagnostic using the provided localizer,
// falling back to Error() when localizer is nil (mirrors the teacher's
// EvaluationError.Localize).
func (e *CompileError) Localize(localizer *i18n.Localizer) string {
	if localizer != nil {
		return localizer.Get(e.Code, i18n.Vars(e.Params))
	}
	return e.Error()
}

// codeOf maps a sentinel error to a stable, localizable code. Every
// sentinel declared in errors.go has an entry here; i18n.go's locale
// files key their translations on these same strings.
func codeOf(cause error) string {
	switch cause {
	case ErrSchemaUnmarshal:
		return "schema_unmarshal"
	case ErrUnknownSchemaType:
		return "unknown_schema_type"
	case ErrInvalidKeywordShape:
		return "invalid_keyword_shape"
	case ErrRefUnresolved:
		return "ref_unresolved"
	case ErrUnsupportedRatType:
		return "unsupported_rat_type"
	case ErrRatConversion:
		return "rat_conversion"
	case ErrUnsupportedCombinator:
		return "unsupported_combinator"
	case ErrCanonicalInvariant:
		return "canonical_invariant"
	case ErrNotCanonicalized:
		return "not_canonicalized"
	case ErrPatternCompile:
		return "pattern_compile"
	case ErrEmptyMatchSwitch:
		return "empty_match_switch"
	case ErrLowerInvariant:
		return "lower_invariant"
	case ErrNotSwitch:
		return "not_switch"
	case ErrMultipleReqmask:
		return "multiple_reqmask"
	case ErrSchemaNil:
		return "schema_nil"
	case ErrCompileFailed:
		return "compile_failed"
	default:
		return "compile_error"
	}
}

// Diagnostics collects several CompileErrors into one error value for
// callers that gather them. Compile and CompileYAML do not use it: they
// stop at the first error and return that *CompileError.
type Diagnostics struct {
	Errors []*CompileError `json:"errors"`
}

// Add appends err to the diagnostics, ignoring a nil err.
func (d *Diagnostics) Add(err *CompileError) {
	if err == nil {
		return
	}
	d.Errors = append(d.Errors, err)
}

// HasErrors reports whether any diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool { return d != nil && len(d.Errors) > 0 }

// Error joins every diagnostic message, so a *Diagnostics satisfies the
// error interface.
func (d *Diagnostics) Error() string {
	if d == nil || len(d.Errors) == 0 {
		return ErrCompileFailed.Error()
	}
	msgs := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Localize joins every diagnostic's localized message.
func (d *Diagnostics) Localize(localizer *i18n.Localizer) string {
	if d == nil || len(d.Errors) == 0 {
		return ErrCompileFailed.Error()
	}
	msgs := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		msgs[i] = e.Localize(localizer)
	}
	return strings.Join(msgs, "; ")
}

// Result is the successful outcome of Compile: the lowered IR program
// plus the canonical cnode tree it was lowered from, kept around for
// Dump (spec.md §6.3) and for tests that assert on canonical shape
// directly rather than on the IR.
type Result struct {
	Cnode *CNode
	IR    *IRProgram
}
