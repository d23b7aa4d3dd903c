package jvstgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A hand-built arm with two CObjReqMask parts should never occur once
// canonicalize.go's canonObjectArm unions "required" keywords onto one
// mask; lower_object.go's objBuilder is expected to refuse it outright
// rather than silently keep one and drop the other.
func TestLowerObjectArmRejectsDuplicateReqMask(t *testing.T) {
	arm := NewAnd(
		&CNode{Kind: CObjReqMask, ReqMaskBits: 1, ReqMaskID: 0},
		&CNode{Kind: CObjReqMask, ReqMaskBits: 1, ReqMaskID: 0},
	)

	p := &IRProgram{}
	_, err := lowerObjectArm(p, arm)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, ce, ErrMultipleReqmask)
}

func TestLowerObjectArmRequiredOnly(t *testing.T) {
	arm := &CNode{Kind: CObjReqMask, ReqMaskBits: 2, ReqMaskID: 0}

	p := &IRProgram{}
	stmt, err := lowerObjectArm(p, arm)
	require.NoError(t, err)
	require.NotNil(t, stmt)
	assert.Equal(t, IRFrame, stmt.Kind)

	require.NotNil(t, stmt.Frame)
	require.Len(t, stmt.Frame.Bitvectors, 1)
	assert.Equal(t, "reqmask", stmt.Frame.Bitvectors[0].Name)
	assert.Equal(t, 2, stmt.Frame.Bitvectors[0].NBits)
}

// dependentRequired's bitvector has no explicit width declaration node
// (unlike OBJ_REQMASK's ReqMaskBits) -- objBuilder.touchWidth must widen
// it incrementally from the highest ReqBit/DepBits index actually seen.
func TestLowerObjectArmDepRequireWidensBitvector(t *testing.T) {
	arm := &CNode{
		Kind:           CObjDepRequire,
		ReqMaskID:      1,
		ReqBit:         0,
		DepBits:        []int{1, 2},
		DepTrigger:     "cc",
		DepTargetNames: []string{"billing", "name"},
	}

	p := &IRProgram{}
	stmt, err := lowerObjectArm(p, arm)
	require.NoError(t, err)
	require.Len(t, stmt.Frame.Bitvectors, 1)
	assert.Equal(t, "depreqmask", stmt.Frame.Bitvectors[0].Name)
	assert.Equal(t, 3, stmt.Frame.Bitvectors[0].NBits)
}

func TestLowerObjectArmCountRange(t *testing.T) {
	arm := &CNode{Kind: CCountRange, CountMin: 1, CountMax: 3}

	p := &IRProgram{}
	stmt, err := lowerObjectArm(p, arm)
	require.NoError(t, err)
	require.Len(t, stmt.Frame.Counters, 1)
	assert.Equal(t, "num_props", stmt.Frame.Counters[0].Name)
}

func TestLowerObjectArmUnknownKindIsInvariantError(t *testing.T) {
	arm := &CNode{Kind: CSwitch}

	p := &IRProgram{}
	_, err := lowerObjectArm(p, arm)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLowerInvariant)
}
