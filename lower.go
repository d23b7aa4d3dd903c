package jvstgo

// Lower is the cnode → IR entry point (spec.md §4.4). canon must already
// be canonicalized (a single top-level SWITCH); Canonicalize enforces
// this shape.
func Lower(canon *CNode) (*IRProgram, error) {
	p := &IRProgram{}
	root, err := lowerSchema(p, canon)
	if err != nil {
		return nil, err
	}
	p.Root = root
	return p, nil
}

// lowerSchema lowers one canonicalized schema to a FRAME statement
// allocated from p's arenas, shared with whatever caller is already
// lowering an enclosing schema (object property constraints, MATCH_SWITCH
// defaults) — every node descends from one arena per spec.md §4.6.
func lowerSchema(p *IRProgram, canon *CNode) (*IRStmt, error) {
	if canon == nil || canon.Kind != CSwitch {
		return nil, &CompileError{
			Stage: "lower", cause: ErrNotSwitch, Message: ErrNotSwitch.Error(),
		}
	}

	frameStmt := p.newStmt(IRFrame)
	frame := &IRFrame{}
	frameStmt.Frame = frame

	body, err := lowerSwitch(p, frame, canon)
	if err != nil {
		return nil, err
	}
	frame.Body = body
	return frameStmt, nil
}

// lowerSwitch builds the TOKEN-read + IF-chain skeleton spec.md §4.4
// describes: a TOKEN read, one IF per arm that disagrees with the chosen
// majority default, terminated by that default's plain verdict.
func lowerSwitch(p *IRProgram, frame *IRFrame, sw *CNode) (*IRStmt, error) {
	var validCount, invalidCount int
	for t := TokType(0); t < numTokTypes; t++ {
		switch sw.Switch[t].Kind {
		case CValid:
			validCount++
		case CInvalid:
			invalidCount++
		}
	}
	defaultInvalid := invalidCount >= validCount

	tok := p.newStmt(IRToken)

	chain, err := buildIfChain(p, frame, sw, defaultInvalid)
	if err != nil {
		return nil, err
	}

	seq := p.newStmt(IRSeq)
	tok.Next = chain
	seq.Next = tok
	return seq, nil
}

// buildIfChain walks arms in TokType order, emitting an IF for every arm
// that is not exactly the chosen default verdict, and terminates with
// that default's plain statement.
func buildIfChain(p *IRProgram, frame *IRFrame, sw *CNode, defaultInvalid bool) (*IRStmt, error) {
	var entries []TokType
	for t := TokType(0); t < numTokTypes; t++ {
		arm := sw.Switch[t]
		if arm.Kind == CValid && !defaultInvalid {
			continue
		}
		if arm.Kind == CInvalid && defaultInvalid {
			continue
		}
		entries = append(entries, t)
	}

	tail := defaultVerdict(p, defaultInvalid)
	for i := len(entries) - 1; i >= 0; i-- {
		t := entries[i]
		branch, err := lowerArm(p, frame, t, sw.Switch[t])
		if err != nil {
			return nil, err
		}
		ifStmt := p.newStmt(IRIf)
		ifStmt.Cond = isTok(p, t)
		ifStmt.True = branch
		ifStmt.False = tail
		tail = ifStmt
	}
	return tail, nil
}

func defaultVerdict(p *IRProgram, invalid bool) *IRStmt {
	if invalid {
		return newInvalid(p, InvalidUnexpectedToken)
	}
	return p.newStmt(IRValid)
}

func isTok(p *IRProgram, t TokType) *IRExpr {
	e := p.newExpr(IRIsTok)
	e.Tok = t
	return e
}

// lowerArm dispatches to the per-type translation. Only NUMBER and OBJECT
// are translated; every other arm that reaches here lowers to NOP. That
// covers non-leaf STRING/ARRAY arms, and also a VALID/INVALID leaf arm of
// any other token type whose verdict differs from the chosen default
// (e.g. a VALID NULL arm under an INVALID default).
func lowerArm(p *IRProgram, frame *IRFrame, t TokType, arm *CNode) (*IRStmt, error) {
	switch t {
	case TokNumber:
		return lowerNumberArm(p, arm)
	case TokObjectBeg:
		return lowerObjectArm(p, arm)
	default:
		return p.newStmt(IRNop), nil
	}
}

// lowerNumberArm implements spec.md §4.4's NUMBER-arm translation table
// exactly: VALID/INVALID pass through, NUM_INTEGER becomes an ISINT
// branch, NUM_RANGE builds lower/upper predicates ANDed together.
// Combinators (AND/OR/XOR/NOT) reaching this arm directly are an internal
// invariant violation: canonicalization folds them into the SWITCH before
// lowering ever sees them.
func lowerNumberArm(p *IRProgram, arm *CNode) (*IRStmt, error) {
	switch arm.Kind {
	case CValid:
		return p.newStmt(IRValid), nil
	case CInvalid:
		return newInvalid(p, InvalidUnexpectedToken), nil
	case CNumInteger:
		return lowerNumInteger(p), nil
	case CNumRange:
		return lowerNumRange(p, arm), nil
	case CNumMultiple:
		// multipleOf is a supplement beyond spec.md §4.4's table; not yet
		// translated, same NOP precedent as STRING/ARRAY (see DESIGN.md).
		return p.newStmt(IRNop), nil
	case CAnd:
		return lowerNumberAndChain(p, flattenAnd(arm))
	default:
		return nil, &CompileError{
			Stage: "lower", Keyword: "number", cause: ErrLowerInvariant,
			Message: ErrLowerInvariant.Error(),
			Params:  map[string]any{"kind": arm.Kind.String()},
		}
	}
}

// flattenAnd recursively flattens a CAnd tree's NUM_RANGE/NUM_INTEGER/
// NUM_MULTIPLE leaves into one slice: buildNumberArm's own NewAnd(parts...)
// can nest buildNumRange's NewAnd(up to 4 NUM_RANGE) as one of its parts
// rather than flattening it, since appendChild does not descend into an
// already-built control node's own Children.
func flattenAnd(n *CNode) []*CNode {
	var out []*CNode
	for _, c := range childList(n.Children) {
		if c.Kind == CAnd {
			out = append(out, flattenAnd(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// lowerNumberAndChain translates the conjunction buildNumberArm produces
// (NUM_INTEGER / NUM_RANGE*4 / NUM_MULTIPLE) into one AND-combined
// IF(cond, VALID, INVALID(NUMBER)), per the §8 worked example
// `{"minimum":0,"exclusiveMaximum":10}` → `IF(AND(GE(...),LT(...)),...)`.
func lowerNumberAndChain(p *IRProgram, parts []*CNode) (*IRStmt, error) {
	var cond *IRExpr
	sawInteger := false
	for _, part := range parts {
		switch part.Kind {
		case CNumInteger:
			sawInteger = true
		case CNumRange:
			cond = andExpr(p, cond, numRangeCond(p, part))
		case CNumMultiple:
			// not yet translated (see lowerNumberArm's CNumMultiple case).
		default:
			return nil, &CompileError{
				Stage: "lower", Keyword: "number", cause: ErrLowerInvariant,
				Message: ErrLowerInvariant.Error(),
				Params:  map[string]any{"kind": part.Kind.String()},
			}
		}
	}

	if sawInteger {
		intCheck := lowerNumInteger(p)
		if cond == nil {
			return intCheck, nil
		}
		rangeBranch := p.newStmt(IRIf)
		rangeBranch.Cond = cond
		rangeBranch.True = p.newStmt(IRValid)
		rangeBranch.False = newInvalid(p, InvalidNumber)

		wrap := p.newStmt(IRIf)
		wrap.Cond = isIntExpr(p)
		wrap.True = rangeBranch
		wrap.False = newInvalid(p, InvalidNotInteger)
		return wrap, nil
	}

	if cond == nil {
		return p.newStmt(IRValid), nil
	}
	ifStmt := p.newStmt(IRIf)
	ifStmt.Cond = cond
	ifStmt.True = p.newStmt(IRValid)
	ifStmt.False = newInvalid(p, InvalidNumber)
	return ifStmt, nil
}

func lowerNumInteger(p *IRProgram) *IRStmt {
	ifStmt := p.newStmt(IRIf)
	ifStmt.Cond = isIntExpr(p)
	ifStmt.True = p.newStmt(IRValid)
	ifStmt.False = newInvalid(p, InvalidNotInteger)
	return ifStmt
}

func isIntExpr(p *IRProgram) *IRExpr {
	e := p.newExpr(IRIsInt)
	e.A = tokNumExpr(p)
	return e
}

func tokNumExpr(p *IRProgram) *IRExpr { return p.newExpr(IRTokNum) }

func lowerNumRange(p *IRProgram, rng *CNode) *IRStmt {
	ifStmt := p.newStmt(IRIf)
	ifStmt.Cond = numRangeCond(p, rng)
	ifStmt.True = p.newStmt(IRValid)
	ifStmt.False = newInvalid(p, InvalidNumber)
	return ifStmt
}

// numRangeCond builds the lower/upper-bound predicate(s) a NUM_RANGE node
// carries, ANDed together when both are present (§4.4: "build lower/upper
// predicates per flags; combine with AND if both").
func numRangeCond(p *IRProgram, rng *CNode) *IRExpr {
	var cond *IRExpr
	if rng.RangeFlags&(RangeMin|RangeExclMin) != 0 {
		op := IRGe
		if rng.RangeFlags&RangeExclMin != 0 {
			op = IRGt
		}
		cond = andExpr(p, cond, cmpExpr(p, op, tokNumExpr(p), numExpr(p, rng.RangeMin)))
	}
	if rng.RangeFlags&(RangeMax|RangeExclMax) != 0 {
		op := IRLe
		if rng.RangeFlags&RangeExclMax != 0 {
			op = IRLt
		}
		// RangeMax is the correct source for the upper bound in both
		// branches — see SPEC_FULL.md's Open Question 3 decision: the
		// original's `.min`-for-upper-bound bug is not reproduced here.
		cond = andExpr(p, cond, cmpExpr(p, op, tokNumExpr(p), numExpr(p, rng.RangeMax)))
	}
	return cond
}

func numExpr(p *IRProgram, v float64) *IRExpr {
	e := p.newExpr(IRNum)
	e.Num = v
	return e
}

func cmpExpr(p *IRProgram, op IRExprKind, a, b *IRExpr) *IRExpr {
	e := p.newExpr(op)
	e.A, e.B = a, b
	return e
}

func andExpr(p *IRProgram, a, b *IRExpr) *IRExpr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return cmpExpr(p, IRAnd, a, b)
}
