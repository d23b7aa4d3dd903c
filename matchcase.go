package jvstgo

// buildMatchSwitch unions a set of CMatchCase nodes (literal or pattern
// keyed) into one MATCH_SWITCH, per spec.md §4.3: union every case's FSM
// into one NFA, determinize, then for every merged accept state, combine
// the contributing cases' constraints and bit side effects ("merge their
// opaque MATCH_CASE constraints" — concatenate SetBits, AND Constraints).
// defaultArm becomes the switch's fallback for unmatched keys.
func buildMatchSwitch(cases []*CNode, defaultArm *CNode) (*CNode, error) {
	entries := make([]matchSetEntry, len(cases))
	for i, c := range cases {
		e := matchSetEntry{opaque: c}
		if c.IsPattern {
			e.pattern = c.MatchSet[0]
		} else {
			e.literal = c.MatchSet[0]
		}
		entries[i] = e
	}
	dfa, err := compileMatchSet(entries)
	if err != nil {
		return nil, err
	}

	var mergedList *CNode
	dfa.All(func(d *DFA, state int) {
		if !d.IsEnd(state) {
			return
		}
		combined := mergeEndState(d, state)
		if combined == nil {
			return
		}
		d.SetOpaque(state, combined)
		appendChild(&mergedList, combined)
	})

	return &CNode{Kind: CMatchSwitch, MatchDFA: dfa, MatchCases: mergedList, MatchDefault: defaultArm}, nil
}

// mergeEndState folds every original CMatchCase opaque attached to a
// (possibly merged) DFA accept state into one CMatchCase: the literals
// sharing that state, the AND of their constraints, and the union of
// their bit side effects.
func mergeEndState(d *DFA, state int) *CNode {
	var combined *CNode
	var keys []string
	isPattern := false
	for _, nfaIdx := range d.NFAAccepts(state) {
		src, _ := d.NFAOpaque(nfaIdx).(*CNode)
		if src == nil {
			continue
		}
		if combined == nil {
			combined = &CNode{Kind: CMatchCase, Constraint: src.Constraint}
		} else {
			// Both sides are already canonical (SWITCH | leaf): a bare
			// NewAnd would leave a CAnd wrapping them, which lower.go's
			// lowerSchema rejects (it requires its argument's Kind to be
			// CSwitch). collapseAnd re-merges them arm-by-arm into one
			// CSwitch, the same way canonicalize.go folds any other AND
			// of two schemas.
			combined.Constraint = collapseAnd([]*CNode{combined.Constraint, src.Constraint})
		}
		combined.SetBits = append(combined.SetBits, src.SetBits...)
		keys = append(keys, src.MatchSet...)
		isPattern = isPattern || src.IsPattern
	}
	if combined == nil {
		return nil
	}
	combined.MatchSet = keys
	combined.IsPattern = isPattern
	return combined
}

// bitCase synthesizes a MATCH_CASE whose only effect is setting one bit in
// one bitmap when its literal key is seen — no value schema is attached.
func bitCase(literal string, maskID, bit int) *CNode {
	return &CNode{Kind: CMatchCase, MatchSet: []string{literal}, Constraint: NewLeaf(CValid), SetBits: []ReqSet{{MaskID: maskID, Bit: bit}}}
}
