package jvstgo

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders an IRProgram as the textual format spec.md §6.3 describes:
// `TYPE(args…)`, two-space indent per nesting level, MATCH printing
// default_case then each numbered `CASE(n, matchset, stmt)` in order.
func Dump(p *IRProgram) string {
	var b strings.Builder
	if p == nil || p.Root == nil {
		return ""
	}
	dumpStmt(&b, p.Root, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func dumpStmt(b *strings.Builder, s *IRStmt, depth int) {
	if s == nil {
		indent(b, depth)
		b.WriteString("NOP\n")
		return
	}
	indent(b, depth)
	switch s.Kind {
	case IRValid, IRInvalid, IRNop, IRToken, IRConsume, IRBreak:
		b.WriteString(dumpLeafStmt(s))
		b.WriteString("\n")
	case IRSeq:
		b.WriteString("SEQ(\n")
		for child := s.Next; child != nil; child = child.Next {
			dumpStmt(b, child, depth+1)
		}
		indent(b, depth)
		b.WriteString(")\n")
	case IRIf:
		b.WriteString(fmt.Sprintf("IF(%s,\n", dumpExpr(s.Cond)))
		dumpStmt(b, s.True, depth+1)
		dumpStmt(b, s.False, depth+1)
		indent(b, depth)
		b.WriteString(")\n")
	case IRFrame:
		b.WriteString("FRAME(\n")
		dumpFrame(b, s.Frame, depth+1)
		indent(b, depth)
		b.WriteString(")\n")
	case IRLoop:
		b.WriteString(fmt.Sprintf("LOOP(%s, %d,\n", s.LoopName, s.LoopInd))
		dumpStmt(b, s.LoopBody, depth+1)
		indent(b, depth)
		b.WriteString(")\n")
	case IRMatch:
		b.WriteString("MATCH(\n")
		dumpMatch(b, s.Match, depth+1)
		indent(b, depth)
		b.WriteString(")\n")
	case IRIncr, IRDecr, IRBSet, IRBClear:
		b.WriteString(dumpLeafStmt(s))
		b.WriteString("\n")
	default:
		b.WriteString(s.Kind.String())
		b.WriteString("\n")
	}
}

func dumpLeafStmt(s *IRStmt) string {
	switch s.Kind {
	case IRValid, IRNop, IRToken, IRConsume:
		return s.Kind.String()
	case IRInvalid:
		return fmt.Sprintf("INVALID(%s)", s.Code)
	case IRBreak:
		name := ""
		if s.BreakTo != nil {
			name = s.BreakTo.LoopName
		}
		return fmt.Sprintf("BREAK(%s)", name)
	case IRIncr:
		return fmt.Sprintf("INCR(%d)", s.Ind)
	case IRDecr:
		return fmt.Sprintf("DECR(%d)", s.Ind)
	case IRBSet:
		return fmt.Sprintf("BSET(%d, %d)", s.Ind, s.Bit)
	case IRBClear:
		return fmt.Sprintf("BCLEAR(%d, %d)", s.Ind, s.Bit)
	default:
		return s.Kind.String()
	}
}

func dumpFrame(b *strings.Builder, f *IRFrame, depth int) {
	if f == nil {
		return
	}
	for _, c := range f.Counters {
		indent(b, depth)
		b.WriteString(fmt.Sprintf("COUNTER(%d, %s)\n", c.Ind, c.Name))
	}
	for _, bv := range f.Bitvectors {
		indent(b, depth)
		b.WriteString(fmt.Sprintf("BITVECTOR(%d, %s, %d)\n", bv.Ind, bv.Name, bv.NBits))
	}
	for _, m := range f.Matchers {
		indent(b, depth)
		b.WriteString(fmt.Sprintf("MATCHER(%d, %s)\n", m.Ind, m.Name))
	}
	dumpStmt(b, f.Body, depth)
}

func dumpMatch(b *strings.Builder, m *IRMatch, depth int) {
	if m == nil {
		return
	}
	indent(b, depth)
	b.WriteString("default_case:\n")
	dumpStmt(b, m.DefaultCase, depth+1)
	for _, c := range m.Cases {
		indent(b, depth)
		b.WriteString(fmt.Sprintf("CASE(%d, %s,\n", c.Num, dumpMatchSet(c.MatchSet)))
		dumpStmt(b, c.Stmt, depth+1)
		indent(b, depth)
		b.WriteString(")\n")
	}
}

func dumpMatchSet(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func dumpExpr(e *IRExpr) string {
	if e == nil {
		return "TRUE"
	}
	switch e.Kind {
	case IRNum:
		return strconv.FormatFloat(e.Num, 'g', -1, 64)
	case IRSize:
		return strconv.Itoa(e.Size)
	case IRBool:
		return strconv.FormatBool(e.Bool)
	case IRTokType, IRTokNum, IRTokComplete, IRTokLen:
		return e.Kind.String()
	case IRIsTok:
		return fmt.Sprintf("ISTOK(%s)", e.Tok.String())
	case IRIsInt:
		return fmt.Sprintf("ISINT(%s)", dumpExpr(e.A))
	case IRCount:
		return fmt.Sprintf("COUNT(%d)", e.Ind)
	case IRBTest:
		return fmt.Sprintf("BTEST(%d, %d)", e.Ind, e.Bit)
	case IRBTestAll:
		return fmt.Sprintf("BTESTALL(%d)", e.Ind)
	case IRAnd, IROr, IRNe, IRLt, IRLe, IREq, IRGe, IRGt:
		return fmt.Sprintf("%s(%s, %s)", e.Kind.String(), dumpExpr(e.A), dumpExpr(e.B))
	case IRNot:
		return fmt.Sprintf("NOT(%s)", dumpExpr(e.A))
	case IRSplit:
		parts := make([]string, len(e.Frames))
		for i, f := range e.Frames {
			var fb strings.Builder
			dumpStmt(&fb, f, 0)
			parts[i] = strings.TrimRight(fb.String(), "\n")
		}
		return "SPLIT(" + strings.Join(parts, "; ") + ")"
	default:
		return e.Kind.String()
	}
}
