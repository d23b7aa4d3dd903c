package jvstgo

// lowerObjectArm builds the object-validation frame spec.md §4.5
// describes: its own FRAME (owning a fresh set of counters/bitvectors/
// the property MATCHER), a loop reading one token-pair per iteration
// until OBJECT_END, and the pre_loop/pre_match/post_match/post_loop
// insertion points each cnode child contributes to.
func lowerObjectArm(p *IRProgram, arm *CNode) (*IRStmt, error) {
	ob := &objBuilder{p: p, frame: &IRFrame{}, reqMaskInd: map[int]int{}, reqMaskWidth: map[int]int{}}

	for _, part := range armParts(arm) {
		if err := ob.addPart(part); err != nil {
			return nil, err
		}
	}

	loop := p.newStmt(IRLoop)
	loop.LoopName = "L_OBJ"
	loop.LoopInd = 0
	ob.frame.NLoops = 1

	loopBody, err := ob.buildLoopBody(loop)
	if err != nil {
		return nil, err
	}
	loop.LoopBody = loopBody

	postLoop, err := ob.buildPostLoop()
	if err != nil {
		return nil, err
	}

	seq := chainSeq(p, append(append([]*IRStmt{}, ob.preLoop...), loop))
	seq = chainSeq(p, []*IRStmt{seq, postLoop})

	ob.frame.Body = seq
	frameStmt := p.newStmt(IRFrame)
	frameStmt.Frame = ob.frame
	return frameStmt, nil
}

// objBuilder accumulates an object frame's declarations and insertion-
// point statement lists while walking the arm's parts — an explicit
// context value passed around rather than package state (spec.md §9:
// "replace [package-level state] with an explicit closure/context
// parameter").
type objBuilder struct {
	p     *IRProgram
	frame *IRFrame

	preLoop, postMatch []*IRStmt

	matchSwitch *CNode // the single post-canonicalization MATCH_SWITCH, if any
	matcherInd  int

	reqMaskInd   map[int]int // ReqMaskID -> bitvector index
	reqMaskWidth map[int]int // ReqMaskID -> highest bit seen + 1
	sawReqMask   bool        // true once a CObjReqMask part has been processed
	checks       []checkSpec // post_loop checks, chained in encounter order
}

// checkSpec is one post_loop gate: if cond fails, the object is invalid
// with failCode; otherwise the chain continues.
type checkSpec struct {
	cond     *IRExpr
	failCode string
}

func (ob *objBuilder) addPart(part *CNode) error {
	switch part.Kind {
	case CMatchSwitch:
		ob.matchSwitch = part
	case CObjReqMask:
		// canonicalize.go's canonObjectArm unions every "required" keyword
		// on an object arm into one CObjReqMask (ReqMaskID 0) before this
		// stage ever runs; seeing a second one here means that invariant
		// broke upstream, not a case this stage can recover from.
		if ob.sawReqMask {
			return &CompileError{
				Stage: "lower", Keyword: "required", cause: ErrMultipleReqmask,
				Message: ErrMultipleReqmask.Error(),
			}
		}
		ob.sawReqMask = true
		ind := ob.bitvec(part.ReqMaskID)
		ob.touchWidth(part.ReqMaskID, part.ReqMaskBits)
		ob.checks = append(ob.checks, checkSpec{cond: btestAll(ob.p, ind), failCode: InvalidMissingRequiredProps})
	case CObjDepRequire:
		ob.addDepRequire(part)
	case CCountRange:
		ob.addCountRange(part)
	case CObjDepSchema:
		// dependentSchemas is a supplement beyond spec.md §4.5's described
		// child list; not yet lowered (same precedent as the STRING/ARRAY
		// NOP arms).
	default:
		return &CompileError{
			Stage: "lower", Keyword: "object", cause: ErrLowerInvariant,
			Message: ErrLowerInvariant.Error(),
			Params:  map[string]any{"kind": part.Kind.String()},
		}
	}
	return nil
}

// bitvec returns the frame-local bitvector index for maskID, allocating it
// (width 0, fixed up later by touchWidth) the first time maskID is seen.
func (ob *objBuilder) bitvec(maskID int) int {
	if ind, ok := ob.reqMaskInd[maskID]; ok {
		return ind
	}
	ind := len(ob.frame.Bitvectors)
	name := "reqmask"
	if maskID != 0 {
		name = "depreqmask"
	}
	ob.frame.Bitvectors = append(ob.frame.Bitvectors, IRBitvecDef{Name: name, Ind: ind})
	ob.reqMaskInd[maskID] = ind
	return ind
}

// touchWidth widens maskID's declared bitvector to cover at least n bits.
func (ob *objBuilder) touchWidth(maskID, n int) {
	if n > ob.reqMaskWidth[maskID] {
		ob.reqMaskWidth[maskID] = n
		ob.frame.Bitvectors[ob.reqMaskInd[maskID]].NBits = n
	}
}

func (ob *objBuilder) addDepRequire(dr *CNode) {
	ind := ob.bitvec(dr.ReqMaskID)
	ob.touchWidth(dr.ReqMaskID, dr.ReqBit+1)
	var allDeps *IRExpr
	for _, bit := range dr.DepBits {
		ob.touchWidth(dr.ReqMaskID, bit+1)
		allDeps = andExpr(ob.p, allDeps, btest(ob.p, ind, bit))
	}
	if allDeps == nil {
		return
	}
	cond := orExpr(ob.p, notExpr(ob.p, btest(ob.p, ind, dr.ReqBit)), allDeps)
	ob.checks = append(ob.checks, checkSpec{cond: cond, failCode: InvalidMissingRequiredProps})
}

func (ob *objBuilder) addCountRange(cr *CNode) {
	ind := len(ob.frame.Counters)
	ob.frame.Counters = append(ob.frame.Counters, IRCounterDef{Name: "num_props", Ind: ind})

	incr := ob.p.newStmt(IRIncr)
	incr.Ind = ind
	ob.postMatch = append(ob.postMatch, incr)

	if cr.CountMin > 0 {
		ob.checks = append(ob.checks, checkSpec{cond: cmpExpr(ob.p, IRGe, countExpr(ob.p, ind), numExpr(ob.p, float64(cr.CountMin))), failCode: InvalidTooFewProps})
	}
	if cr.CountMax >= 0 {
		ob.checks = append(ob.checks, checkSpec{cond: cmpExpr(ob.p, IRLe, countExpr(ob.p, ind), numExpr(ob.p, float64(cr.CountMax))), failCode: InvalidTooManyProps})
	}
}

// buildLoopBody assembles L_OBJ's body: TOKEN, break on OBJECT_END, else
// run the match and its surrounding insertion points.
func (ob *objBuilder) buildLoopBody(loop *IRStmt) (*IRStmt, error) {
	tok := ob.p.newStmt(IRToken)

	brk := ob.p.newStmt(IRBreak)
	brk.BreakTo = loop

	matchBody, err := ob.buildMatch()
	if err != nil {
		return nil, err
	}
	innerSeq := chainSeq(ob.p, append(append([]*IRStmt{}, matchBody), ob.postMatch...))

	ifEnd := ob.p.newStmt(IRIf)
	ifEnd.Cond = isTok(ob.p, TokObjectEnd)
	ifEnd.True = brk
	ifEnd.False = innerSeq

	tok.Next = ifEnd
	seq := ob.p.newStmt(IRSeq)
	seq.Next = tok
	return seq, nil
}

func (ob *objBuilder) buildMatch() (*IRStmt, error) {
	matchStmt := ob.p.newStmt(IRMatch)
	m := &IRMatch{}
	matchStmt.Match = m

	defFrame := ob.p.newStmt(IRFrame)
	defFrame.Frame = &IRFrame{Body: chainSeq(ob.p, []*IRStmt{ob.p.newStmt(IRToken), ob.p.newStmt(IRValid)})}
	m.DefaultCase = defFrame

	if ob.matchSwitch == nil {
		m.DFA = nil
		return matchStmt, nil
	}

	dfa := ob.matchSwitch.MatchDFA.Clone()
	m.DFA = dfa
	ob.matcherInd = len(ob.frame.Matchers)
	ob.frame.Matchers = append(ob.frame.Matchers, IRMatcherDef{Name: "obj_props", Ind: ob.matcherInd, DFA: dfa})
	m.MatcherInd = ob.matcherInd

	if ob.matchSwitch.MatchDefault != nil {
		sub, err := lowerSchema(ob.p, ob.matchSwitch.MatchDefault)
		if err != nil {
			return nil, err
		}
		m.DefaultCase = sub
	}

	num := 0
	var lowerErr error
	dfa.All(func(d *DFA, state int) {
		if lowerErr != nil || !d.IsEnd(state) {
			return
		}
		c, _ := d.GetOpaque(state).(*CNode)
		if c == nil {
			return
		}
		num++
		stmt, err := ob.lowerMatchCase(c)
		if err != nil {
			lowerErr = err
			return
		}
		d.SetOpaque(state, &irMCase{num: num, stmt: stmt})
		m.Cases = append(m.Cases, &IRCase{Num: num, MatchSet: c.MatchSet, Stmt: stmt})
	})
	if lowerErr != nil {
		return nil, lowerErr
	}
	return matchStmt, nil
}

// lowerMatchCase translates one merged MATCH_CASE: its bit side effects
// (non-consuming, prepended) then its value constraint's own FRAME
// (consuming, appended) — spec.md §4.2's FRAME-append/non-FRAME-prepend
// merge rule, applied at lowering since matchcase.go's union step already
// merged same-literal cases at the cnode level.
func (ob *objBuilder) lowerMatchCase(c *CNode) (*IRStmt, error) {
	var stmts []*IRStmt
	for _, sb := range c.SetBits {
		bs := ob.p.newStmt(IRBSet)
		bs.Ind = ob.bitvec(sb.MaskID)
		ob.touchWidth(sb.MaskID, sb.Bit+1)
		bs.Bit = sb.Bit
		stmts = append(stmts, bs)
	}
	if c.Constraint != nil {
		sub, err := lowerSchema(ob.p, c.Constraint)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, sub)
	} else {
		stmts = append(stmts, ob.p.newStmt(IRValid))
	}
	return chainSeq(ob.p, stmts), nil
}

// buildPostLoop folds the accumulated checks into one nested IF chain:
// each gate's br_true arm continues to the next check ("checks chain via
// the br_true arm so all pass or the first fails", spec.md §4.5),
// terminating in VALID once every gate has passed.
func (ob *objBuilder) buildPostLoop() (*IRStmt, error) {
	tail := ob.p.newStmt(IRValid)
	for i := len(ob.checks) - 1; i >= 0; i-- {
		chk := ob.checks[i]
		ifStmt := ob.p.newStmt(IRIf)
		ifStmt.Cond = chk.cond
		ifStmt.True = tail
		ifStmt.False = newInvalid(ob.p, chk.failCode)
		tail = ifStmt
	}
	return tail, nil
}

func btest(p *IRProgram, ind, bit int) *IRExpr {
	e := p.newExpr(IRBTest)
	e.Ind, e.Bit = ind, bit
	return e
}

func btestAll(p *IRProgram, ind int) *IRExpr {
	e := p.newExpr(IRBTestAll)
	e.Ind = ind
	return e
}

func countExpr(p *IRProgram, ind int) *IRExpr {
	e := p.newExpr(IRCount)
	e.Ind = ind
	return e
}

func notExpr(p *IRProgram, a *IRExpr) *IRExpr {
	e := p.newExpr(IRNot)
	e.A = a
	return e
}

func orExpr(p *IRProgram, a, b *IRExpr) *IRExpr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return cmpExpr(p, IROr, a, b)
}

// chainSeq links stmts into one SEQ node's Next-chain, skipping nils and
// collapsing a single survivor to itself directly.
func chainSeq(p *IRProgram, stmts []*IRStmt) *IRStmt {
	var kept []*IRStmt
	for _, s := range stmts {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return p.newStmt(IRValid)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	seq := p.newStmt(IRSeq)
	seq.Next = kept[0]
	for i := 0; i < len(kept)-1; i++ {
		kept[i].Next = kept[i+1]
	}
	kept[len(kept)-1].Next = nil
	return seq
}
