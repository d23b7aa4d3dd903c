package jvstgo

// mergeArm combines two cnodes that sit in the same SWITCH arm (same
// TokType) once canonicalize.go's distribute step has reduced an
// AND/OR-of-SWITCHes down to one SWITCH per spec.md §4.2. For most kinds
// this is just wrapping both sides in a control node; for the numeric and
// count-range leaves, two bounds of the same kind fold into one tighter
// (AND) or looser (OR) bound instead of staying a two-node chain, the way
// original_source's schema-merge step folds numeric bounds pairwise rather
// than keeping both around. A VALID/INVALID leaf on either side is
// absorbed under AND/OR first (AND keeps INVALID and drops VALID, OR the
// dual), so no control node ever wraps a bare verdict leaf.
func mergeArm(op CKind, a, b *CNode) *CNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	switch op {
	case CAnd:
		if a.Kind == CInvalid || b.Kind == CValid {
			return a
		}
		if b.Kind == CInvalid || a.Kind == CValid {
			return b
		}
	case COr:
		if a.Kind == CValid || b.Kind == CInvalid {
			return a
		}
		if b.Kind == CValid || a.Kind == CInvalid {
			return b
		}
	}
	if a.Kind == CNumRange && b.Kind == CNumRange {
		return mergeNumRange(op, a, b)
	}
	if a.Kind == CCountRange && b.Kind == CCountRange {
		return mergeCountRange(op, a, b)
	}
	if op == CAnd && (a.Kind == CAnd || b.Kind == CAnd) {
		// An OBJECT/ARRAY arm is built as one flat CAnd of independent
		// parts (keywords_object.go's buildObjectArm, keywords_array.go's
		// equivalent). NewAnd(a, b) would nest one CAnd inside another
		// instead of concatenating their parts onto one level, and
		// canonObjectArm/canonArrayArm's armParts only flattens a single
		// level, so a nested CAnd's parts (CObjPropSet, CObjRequired, ...)
		// would never be classified and canonicalization would silently
		// return the arm unchanged. Flatten both sides' parts (armParts
		// already treats a bare non-CAnd node as its own one-element
		// list) onto one CAnd instead. A CAnd side's parts are still linked
		// to each other through Next, so they are unlinked before NewAnd
		// relinks them (appendChild walks Next and would otherwise loop).
		var parts []*CNode
		for _, side := range []*CNode{a, b} {
			for _, p := range armParts(side) {
				if side.Kind == CAnd {
					p.Next = nil
				}
				parts = append(parts, p)
			}
		}
		return NewAnd(parts...)
	}
	if op == COr {
		return NewOr(a, b)
	}
	return NewAnd(a, b)
}

// mergeNumRange folds two single-bound NUM_RANGE nodes together. Under AND
// both bounds must hold, so the tighter one wins; under OR either bound
// suffices, so the looser one wins (see mergeMinBound/mergeMaxBound below).
func mergeNumRange(op CKind, a, b *CNode) *CNode {
	if a.RangeFlags&(RangeMin|RangeExclMin) != 0 && b.RangeFlags&(RangeMin|RangeExclMin) != 0 &&
		a.RangeFlags&(RangeMax|RangeExclMax) == 0 && b.RangeFlags&(RangeMax|RangeExclMax) == 0 {
		return mergeMinBound(op, a, b)
	}
	if a.RangeFlags&(RangeMax|RangeExclMax) != 0 && b.RangeFlags&(RangeMax|RangeExclMax) != 0 &&
		a.RangeFlags&(RangeMin|RangeExclMin) == 0 && b.RangeFlags&(RangeMin|RangeExclMin) == 0 {
		return mergeMaxBound(op, a, b)
	}
	if op == COr {
		return NewOr(a, b)
	}
	return NewAnd(a, b)
}

// mergeMinBound picks the tighter (AND) or looser (OR) of two lower bounds.
func mergeMinBound(op CKind, a, b *CNode) *CNode {
	tighter := a.RangeMin > b.RangeMin ||
		(a.RangeMin == b.RangeMin && a.RangeFlags&RangeExclMin != 0 && b.RangeFlags&RangeExclMin == 0)
	if op == COr {
		tighter = !tighter
	}
	if tighter {
		return a
	}
	return b
}

// mergeMaxBound picks the tighter (AND) or looser (OR) of two upper bounds.
func mergeMaxBound(op CKind, a, b *CNode) *CNode {
	tighter := a.RangeMax < b.RangeMax ||
		(a.RangeMax == b.RangeMax && a.RangeFlags&RangeExclMax != 0 && b.RangeFlags&RangeExclMax == 0)
	if op == COr {
		tighter = !tighter
	}
	if tighter {
		return a
	}
	return b
}

// mergeCountRange folds two COUNT_RANGE nodes (minItems/maxItems,
// minProperties/maxProperties, minLength/maxLength all reuse this kind)
// the same tighter-under-AND/looser-under-OR way, per bound independently.
func mergeCountRange(op CKind, a, b *CNode) *CNode {
	out := &CNode{Kind: CCountRange, CountMin: -1, CountMax: -1}
	out.CountMin = mergeIntBound(op, a.CountMin, b.CountMin, true)
	out.CountMax = mergeIntBound(op, a.CountMax, b.CountMax, false)
	return out
}

// mergeIntBound merges a pair of optional (-1 means unset) int bounds,
// tighter under AND and looser under OR; lower is true for min-style
// bounds (bigger is tighter) and false for max-style (smaller is tighter).
func mergeIntBound(op CKind, a, b int, lower bool) int {
	if a == -1 || b == -1 {
		if op == COr {
			return -1
		}
		if a == -1 {
			return b
		}
		return a
	}
	want := a > b
	if !lower {
		want = a < b
	}
	if op == COr {
		want = !want
	}
	if want {
		return a
	}
	return b
}
