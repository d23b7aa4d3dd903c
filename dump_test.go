package jvstgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpNilProgram(t *testing.T) {
	assert.Equal(t, "", Dump(nil))
	assert.Equal(t, "", Dump(&IRProgram{}))
}

func TestDumpLeafStmts(t *testing.T) {
	p := &IRProgram{}
	p.Root = p.newStmt(IRValid)
	assert.Equal(t, "VALID\n", Dump(p))

	p2 := &IRProgram{}
	p2.Root = newInvalid(p2, InvalidNotInteger)
	assert.Equal(t, "INVALID(NOT_INTEGER)\n", Dump(p2))
}

func TestDumpIfAndExpr(t *testing.T) {
	p := &IRProgram{}
	cond := isTok(p, TokNumber)
	ifStmt := p.newStmt(IRIf)
	ifStmt.Cond = cond
	ifStmt.True = p.newStmt(IRValid)
	ifStmt.False = newInvalid(p, InvalidUnexpectedToken)
	p.Root = ifStmt

	out := Dump(p)
	assert.Contains(t, out, "IF(ISTOK(NUMBER),")
	assert.Contains(t, out, "  VALID\n")
	assert.Contains(t, out, "  INVALID(UNEXPECTED_TOKEN)\n")
}

func TestDumpFrameWithDeclarations(t *testing.T) {
	p := &IRProgram{}
	frameStmt := p.newStmt(IRFrame)
	frameStmt.Frame = &IRFrame{
		Counters:   []IRCounterDef{{Name: "num_props", Ind: 0}},
		Bitvectors: []IRBitvecDef{{Name: "reqmask", Ind: 0, NBits: 2}},
		Body:       p.newStmt(IRValid),
	}
	p.Root = frameStmt

	out := Dump(p)
	assert.Contains(t, out, "COUNTER(0, num_props)")
	assert.Contains(t, out, "BITVECTOR(0, reqmask, 2)")
}

func TestDumpMatchCases(t *testing.T) {
	p := &IRProgram{}
	matchStmt := p.newStmt(IRMatch)
	matchStmt.Match = &IRMatch{
		DefaultCase: newInvalid(p, InvalidUnexpectedToken),
		Cases: []*IRCase{
			{Num: 1, MatchSet: []string{"name"}, Stmt: p.newStmt(IRValid)},
		},
	}
	p.Root = matchStmt

	out := Dump(p)
	assert.Contains(t, out, "default_case:\n")
	assert.Contains(t, out, `CASE(1, ["name"],`)
}

func TestDumpExprOperators(t *testing.T) {
	p := &IRProgram{}
	a := numExpr(p, 1)
	b := numExpr(p, 2)
	assert.Equal(t, "GE(1, 2)", dumpExpr(cmpExpr(p, IRGe, a, b)))
	assert.Equal(t, "NOT(1)", dumpExpr(notExpr(p, a)))
	assert.Equal(t, "TRUE", dumpExpr(nil))
}
