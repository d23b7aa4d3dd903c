package jvstgo

import (
	"regexp/syntax"
	"sort"
)

// This file implements the §6.2 FSM library contract (clone, union,
// determinize, all, isend, getopaque/setopaque) directly, rather than
// importing it: no automaton/DFA library appears anywhere in this
// project's retrieved example history (searched every go.mod in the
// corpus). See DESIGN.md's "Standard-library justifications" entry for
// dfa.go. Patterns are parsed with the standard library's regexp/syntax
// (used only for its regex AST, never for runtime matching) and compiled
// by hand into a byte-alphabet Thompson NFA, then subset-constructed into
// a DFA — the classic technique this class of problem requires absent a
// third-party engine.
//
// Pattern matching is full-string (anchored at both ends): a
// patternProperties/pattern regex must match the entire string, not a
// substring. This is a deliberate simplification over JSON Schema's
// "search anywhere" pattern semantics, documented in DESIGN.md, chosen
// because it keeps the union/determinize/merge pipeline in §4.2–§4.3
// simple and because every worked example in spec.md §8 only exercises
// whole-value matches.

type byteRange struct {
	lo, hi byte // inclusive
}

type nfaEdge struct {
	byteRange
	to int
}

type nfaState struct {
	eps    []int
	trans  []nfaEdge
	accept bool
	opaque any
}

// nfa is an internal Thompson-construction automaton used only as an
// intermediate step toward a DFA; spec.md §6.2 names the FSM contract in
// terms of "dfa", so the public surface below is DFA-only.
type nfa struct {
	states []*nfaState
	start  int
}

func newNFA() *nfa {
	return &nfa{}
}

func (n *nfa) addState() int {
	n.states = append(n.states, &nfaState{})
	return len(n.states) - 1
}

func (n *nfa) addEps(from, to int) {
	n.states[from].eps = append(n.states[from].eps, to)
}

func (n *nfa) addTrans(from int, lo, hi byte, to int) {
	n.states[from].trans = append(n.states[from].trans, nfaEdge{byteRange{lo, hi}, to})
}

// fragment is a sub-NFA with one entry and one exit state, the standard
// Thompson-construction building block.
type fragment struct {
	start, end int
}

// compileLiteral builds an NFA fragment accepting exactly s (a single
// literal string key, e.g. one "properties" entry).
func compileLiteral(n *nfa, s string) fragment {
	start := n.addState()
	cur := start
	for i := 0; i < len(s); i++ {
		next := n.addState()
		n.addTrans(cur, s[i], s[i], next)
		cur = next
	}
	return fragment{start, cur}
}

// compilePattern parses a regexp (Perl syntax, the dialect Go's stdlib
// and most JSON Schema implementations use for "pattern") into a byte NFA
// fragment.
func compilePattern(n *nfa, pattern string) (fragment, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return fragment{}, newDFAError(pattern, err)
	}
	re = re.Simplify()
	return buildRegexFragment(n, re), nil
}

func newDFAError(pattern string, err error) error {
	return &CompileError{
		Stage:   "dfa",
		Keyword: "pattern",
		cause:   ErrPatternCompile,
		Message: ErrPatternCompile.Error(),
		Params:  map[string]any{"pattern": pattern, "error": err.Error()},
	}
}

func buildRegexFragment(n *nfa, re *syntax.Regexp) fragment {
	switch re.Op {
	case syntax.OpLiteral:
		start := n.addState()
		cur := start
		for _, r := range re.Rune {
			next := n.addState()
			addRuneTrans(n, cur, r, next)
			cur = next
		}
		return fragment{start, cur}

	case syntax.OpCharClass:
		start := n.addState()
		end := n.addState()
		for i := 0; i+1 < len(re.Rune); i += 2 {
			addRuneRange(n, start, re.Rune[i], re.Rune[i+1], end)
		}
		return fragment{start, end}

	case syntax.OpAnyCharNotNL:
		start := n.addState()
		end := n.addState()
		addUTF8AnyFragment(n, start, end, true)
		return fragment{start, end}

	case syntax.OpAnyChar:
		start := n.addState()
		end := n.addState()
		addUTF8AnyFragment(n, start, end, false)
		return fragment{start, end}

	case syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// Anchors: this engine only ever matches a whole string, so
		// anchors are no-ops (epsilon fragments).
		s := n.addState()
		return fragment{s, s}

	case syntax.OpEmptyMatch:
		s := n.addState()
		return fragment{s, s}

	case syntax.OpCapture:
		return buildRegexFragment(n, re.Sub[0])

	case syntax.OpConcat:
		if len(re.Sub) == 0 {
			s := n.addState()
			return fragment{s, s}
		}
		cur := buildRegexFragment(n, re.Sub[0])
		for _, sub := range re.Sub[1:] {
			next := buildRegexFragment(n, sub)
			n.addEps(cur.end, next.start)
			cur = fragment{cur.start, next.end}
		}
		return cur

	case syntax.OpAlternate:
		start := n.addState()
		end := n.addState()
		for _, sub := range re.Sub {
			f := buildRegexFragment(n, sub)
			n.addEps(start, f.start)
			n.addEps(f.end, end)
		}
		return fragment{start, end}

	case syntax.OpStar:
		return buildStar(n, re.Sub[0])

	case syntax.OpPlus:
		first := buildRegexFragment(n, re.Sub[0])
		star := buildStar(n, re.Sub[0])
		n.addEps(first.end, star.start)
		return fragment{first.start, star.end}

	case syntax.OpQuest:
		inner := buildRegexFragment(n, re.Sub[0])
		start := n.addState()
		end := n.addState()
		n.addEps(start, inner.start)
		n.addEps(inner.end, end)
		n.addEps(start, end)
		return fragment{start, end}

	case syntax.OpRepeat:
		return buildRepeat(n, re)

	case syntax.OpNoMatch:
		start := n.addState()
		end := n.addState()
		return fragment{start, end} // no transitions: never matches
	}

	// Fallback for anything unhandled: an empty (always-matches) fragment
	// is unsafe, so make it unreachable instead.
	start := n.addState()
	end := n.addState()
	return fragment{start, end}
}

func buildStar(n *nfa, sub *syntax.Regexp) fragment {
	start := n.addState()
	end := n.addState()
	inner := buildRegexFragment(n, sub)
	n.addEps(start, inner.start)
	n.addEps(inner.end, end)
	n.addEps(start, end)
	n.addEps(inner.end, inner.start)
	return fragment{start, end}
}

func buildRepeat(n *nfa, re *syntax.Regexp) fragment {
	min, max := re.Min, re.Max
	var frags []fragment
	for i := 0; i < min; i++ {
		frags = append(frags, buildRegexFragment(n, re.Sub[0]))
	}
	if max == -1 {
		frags = append(frags, buildStar(n, re.Sub[0]))
	} else {
		for i := min; i < max; i++ {
			inner := buildRegexFragment(n, re.Sub[0])
			start := n.addState()
			end := n.addState()
			n.addEps(start, inner.start)
			n.addEps(inner.end, end)
			n.addEps(start, end)
			frags = append(frags, fragment{start, end})
		}
	}
	if len(frags) == 0 {
		s := n.addState()
		return fragment{s, s}
	}
	cur := frags[0]
	for _, f := range frags[1:] {
		n.addEps(cur.end, f.start)
		cur = fragment{cur.start, f.end}
	}
	return cur
}

// addRuneTrans adds transitions for one literal rune, UTF-8 encoding it.
func addRuneTrans(n *nfa, from int, r rune, to int) {
	var buf [4]byte
	w := encodeRune(buf[:], r)
	cur := from
	for i := 0; i < w; i++ {
		if i == w-1 {
			n.addTrans(cur, buf[i], buf[i], to)
		} else {
			next := n.addState()
			n.addTrans(cur, buf[i], buf[i], next)
			cur = next
		}
	}
}

func encodeRune(buf []byte, r rune) int {
	// minimal UTF-8 encoder, avoiding a utf8.EncodeRune surprise-free
	// dependency on rune validity beyond what regexp/syntax already gives us.
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r&0x3F)
		return 2
	case r < 0x10000:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte((r>>6)&0x3F)
		buf[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte((r>>12)&0x3F)
		buf[2] = 0x80 | byte((r>>6)&0x3F)
		buf[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}

// addRuneRange adds byte-level transitions accepting any rune in [lo,hi],
// splitting the range at UTF-8 encoded-length boundaries and recursing on
// the byte-range structure. This is the standard "Unicode range to byte
// automaton" construction.
func addRuneRange(n *nfa, from, lo, hi rune, to int) {
	const (
		max1 = 0x7F
		max2 = 0x7FF
		max3 = 0xFFFF
		max4 = 0x10FFFF
	)
	if lo > hi {
		return
	}
	boundaries := []rune{max1, max2, max3, max4}
	start := lo
	for _, b := range boundaries {
		if start > hi {
			return
		}
		if start <= b {
			end := hi
			if end > b {
				end = b
			}
			addRuneRangeSameLen(n, from, start, end, to)
			start = b + 1
		}
	}
}

func addRuneRangeSameLen(n *nfa, from int, lo, hi rune, to int) {
	var loBuf, hiBuf [4]byte
	w := encodeRune(loBuf[:], lo)
	encodeRune(hiBuf[:], hi)
	addByteRange(n, from, loBuf[:w], hiBuf[:w], to)
}

// addByteRange adds transitions accepting any byte sequence of len(lo)
// bytes, lexicographically between lo and hi inclusive, from "from" to
// "to". Classic recursive range-automaton construction: walk the common
// prefix, then at the first differing byte, emit a low-edge path, a
// high-edge path, and (when the bytes in between admit it) a middle
// "any full byte range" fragment.
func addByteRange(n *nfa, from int, lo, hi []byte, to int) {
	if len(lo) == 0 {
		n.addEps(from, to)
		return
	}
	if lo[0] == hi[0] {
		if len(lo) == 1 {
			n.addTrans(from, lo[0], lo[0], to)
			return
		}
		mid := n.addState()
		n.addTrans(from, lo[0], lo[0], mid)
		addByteRange(n, mid, lo[1:], hi[1:], to)
		return
	}

	// lo[0] < hi[0]. Continuation bytes range over 0x80..0xBF.
	if len(lo) == 1 {
		n.addTrans(from, lo[0], hi[0], to)
		return
	}

	loMid := n.addState()
	n.addTrans(from, lo[0], lo[0], loMid)
	addByteRange(n, loMid, lo[1:], maxTail(len(lo)-1), to)

	hiMid := n.addState()
	n.addTrans(from, hi[0], hi[0], hiMid)
	addByteRange(n, hiMid, minTail(len(hi)-1), hi[1:], to)

	if hi[0]-lo[0] > 1 {
		midMid := n.addState()
		n.addTrans(from, lo[0]+1, hi[0]-1, midMid)
		addByteRange(n, midMid, minTail(len(lo)-1), maxTail(len(lo)-1), to)
	}
}

func minTail(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0x80
	}
	return b
}

func maxTail(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xBF
	}
	return b
}

// addUTF8AnyFragment wires the standard "any single UTF-8-encoded rune"
// sub-automaton between start and end, optionally excluding '\n' (for "." ).
func addUTF8AnyFragment(n *nfa, start, end int, excludeNL bool) {
	if excludeNL {
		n.addTrans(start, 0x00, '\n'-1, end)
		n.addTrans(start, '\n'+1, 0x7F, end)
	} else {
		n.addTrans(start, 0x00, 0x7F, end)
	}
	// 2-byte sequences.
	s2 := n.addState()
	n.addTrans(start, 0xC2, 0xDF, s2)
	n.addTrans(s2, 0x80, 0xBF, end)
	// 3-byte sequences.
	s3 := n.addState()
	s3b := n.addState()
	n.addTrans(start, 0xE0, 0xEF, s3)
	n.addTrans(s3, 0x80, 0xBF, s3b)
	n.addTrans(s3b, 0x80, 0xBF, end)
	// 4-byte sequences.
	s4 := n.addState()
	s4b := n.addState()
	s4c := n.addState()
	n.addTrans(start, 0xF0, 0xF4, s4)
	n.addTrans(s4, 0x80, 0xBF, s4b)
	n.addTrans(s4b, 0x80, 0xBF, s4c)
	n.addTrans(s4c, 0x80, 0xBF, end)
}

// ===== Union =====

// unionFragments combines N NFA fragments (each already built into the
// same nfa) into one automaton whose accept states are exactly each
// input fragment's end state, each carrying that fragment's opaque.
func unionFragments(n *nfa, frags []fragment, opaques []any) {
	start := n.addState()
	n.start = start
	for i, f := range frags {
		n.addEps(start, f.start)
		n.states[f.end].accept = true
		n.states[f.end].opaque = opaques[i]
	}
}

// ===== epsilon closure =====

func epsClosure(n *nfa, states []int) []int {
	seen := make(map[int]bool, len(states))
	stack := append([]int(nil), states...)
	for _, s := range states {
		seen[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.states[s].eps {
			if !seen[e] {
				seen[e] = true
				stack = append(stack, e)
			}
		}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func setKey(states []int) string {
	b := make([]byte, 0, len(states)*5)
	for i, s := range states {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, []byte(itoa(s))...)
	}
	return string(b)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ===== DFA =====

// DFAState is one subset-construction state.
type DFAState struct {
	trans   []nfaEdge // byte-range edges to other DFA state indices
	accept  bool
	opaque  any
	nfaSet  []int // the originating NFA accept-state indices (for match-case merging, §4.3 step 3)
}

// DFA is the deterministic automaton described by spec.md §6.2's FSM
// contract. It is built only by determinize; callers construct patterns
// via compileMatchSet below.
type DFA struct {
	states []*DFAState
	start  int
	src    *nfa // pre-determinize NFA, kept for NFAOpaque lookups
}

// determinize runs subset construction over n, producing a DFA whose
// byte alphabet is partitioned into the minimal set of disjoint ranges
// needed to distinguish transitions (spec.md §4.3: "Determinize to a
// DFA").
func determinize(n *nfa) *DFA {
	d := &DFA{src: n}
	startSet := epsClosure(n, []int{n.start})
	startKey := setKey(startSet)

	indexOf := map[string]int{}
	queue := [][]int{startSet}
	indexOf[startKey] = 0
	d.states = append(d.states, buildDFAState(n, startSet))
	d.start = 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curKey := setKey(cur)
		curIdx := indexOf[curKey]

		boundaries := collectBoundaries(n, cur)
		for i := 0; i+1 < len(boundaries); i++ {
			lo := boundaries[i]
			hi := boundaries[i+1] - 1
			if lo > hi {
				continue
			}
			target := stepSet(n, cur, lo)
			if len(target) == 0 {
				continue
			}
			closure := epsClosure(n, target)
			key := setKey(closure)
			idx, ok := indexOf[key]
			if !ok {
				idx = len(d.states)
				indexOf[key] = idx
				d.states = append(d.states, buildDFAState(n, closure))
				queue = append(queue, closure)
			}
			d.states[curIdx].trans = append(d.states[curIdx].trans, nfaEdge{byteRange{lo, hi}, idx})
		}
	}
	return d
}

func buildDFAState(n *nfa, set []int) *DFAState {
	st := &DFAState{}
	for _, s := range set {
		if n.states[s].accept {
			st.accept = true
			st.nfaSet = append(st.nfaSet, s)
		}
	}
	return st
}

func collectBoundaries(n *nfa, set []int) []int {
	bset := map[int]bool{}
	bset[0] = true
	bset[256] = true
	for _, s := range set {
		for _, e := range n.states[s].trans {
			bset[int(e.lo)] = true
			bset[int(e.hi)+1] = true
		}
	}
	out := make([]int, 0, len(bset))
	for b := range bset {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

func stepSet(n *nfa, set []int, b int) []int {
	var out []int
	for _, s := range set {
		for _, e := range n.states[s].trans {
			if int(e.lo) <= b && b <= int(e.hi) {
				out = append(out, e.to)
			}
		}
	}
	return out
}

// Clone returns a deep copy of d whose states can have their opaques
// replaced independently of the original (spec.md §4.5: "clone its DFA,
// replace end-state opaques with fresh IR_MCASE nodes"). The read-only
// pre-determinize NFA is shared, so NFAOpaque works on the copy too.
func (d *DFA) Clone() *DFA {
	out := &DFA{start: d.start, src: d.src}
	out.states = make([]*DFAState, len(d.states))
	for i, s := range d.states {
		cp := &DFAState{
			accept: s.accept,
			opaque: s.opaque,
			nfaSet: append([]int(nil), s.nfaSet...),
			trans:  append([]nfaEdge(nil), s.trans...),
		}
		out.states[i] = cp
	}
	return out
}

// All calls visit once for every state in d, in index order, matching
// the FSM library's fsm_all(dfa, visitor) contract (spec.md §6.2); the
// visitor is responsible for filtering on IsEnd itself.
func (d *DFA) All(visit func(d *DFA, state int)) {
	for i := range d.states {
		visit(d, i)
	}
}

// IsEnd reports whether state is an accepting state.
func (d *DFA) IsEnd(state int) bool { return d.states[state].accept }

// GetOpaque returns the opaque pointer on state (nil if none set).
func (d *DFA) GetOpaque(state int) any { return d.states[state].opaque }

// SetOpaque sets the opaque pointer on state.
func (d *DFA) SetOpaque(state int, v any) { d.states[state].opaque = v }

// NFAAccepts returns the indices, in the pre-determinize NFA, of the
// accept states folded into this DFA state — used by matchcase.go to
// find every original MatchCase contributing to one merged end-state.
func (d *DFA) NFAAccepts(state int) []int { return d.states[state].nfaSet }

// NFAOpaque returns the opaque value attached to a pre-determinize NFA
// accept state (an index from NFAAccepts), letting callers recover every
// original matchSetEntry.opaque folded into one merged DFA accept state.
func (d *DFA) NFAOpaque(nfaState int) any { return d.src.states[nfaState].opaque }

// Start returns the DFA's start-state index.
func (d *DFA) Start() int { return d.start }

// NumStates returns the number of states in d.
func (d *DFA) NumStates() int { return len(d.states) }

// Step follows the transition from state on byte b, returning (-1,false)
// if no transition matches (used by the §6.1 MATCH statement's executor
// contract, and directly by tests exercising the DFA in isolation).
func (d *DFA) Step(state int, b byte) (int, bool) {
	for _, e := range d.states[state].trans {
		if e.lo <= b && b <= e.hi {
			return e.to, true
		}
	}
	return -1, false
}

// matchSetEntry is one literal/pattern source feeding compileMatchSet,
// paired with the opaque value (a *CNode match case) its accept state
// should carry.
type matchSetEntry struct {
	literal string // "" if Pattern is set
	pattern string // "" if literal key
	opaque  any
}

// compileMatchSet unions every entry's automaton into one DFA, per
// spec.md §4.3: "Start with a fresh NFA that unions all per-case FSMs.
// Determinize to a DFA."
func compileMatchSet(entries []matchSetEntry) (*DFA, error) {
	n := newNFA()
	frags := make([]fragment, 0, len(entries))
	opaques := make([]any, 0, len(entries))
	for _, e := range entries {
		var f fragment
		var err error
		if e.pattern != "" {
			f, err = compilePattern(n, e.pattern)
		} else {
			f = compileLiteral(n, e.literal)
		}
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
		opaques = append(opaques, e.opaque)
	}
	unionFragments(n, frags, opaques)
	return determinize(n), nil
}
