package jvstgo

// BuildCnode is the AST -> raw cnode entry point (spec.md §4.1): for each
// schema it emits a SWITCH node whose arms are the per-JSON-type
// constraints, ANDed with whatever allOf/anyOf/oneOf/not/enum constrain
// the value as a whole.
func BuildCnode(ast *ASTSchema) (*CNode, error) {
	b := &cnodeBuilder{building: make(map[*ASTSchema]bool)}
	return b.buildSwitch(ast)
}

// cnodeBuilder carries the cycle-detection guard across the recursive
// descent. A fresh builder per top-level BuildCnode call keeps this
// explicit and scoped to one compilation, per spec.md §9's "no
// package-level builder state" design note (see DESIGN.md).
type cnodeBuilder struct {
	building map[*ASTSchema]bool
}

func (b *cnodeBuilder) buildSwitch(ast *ASTSchema) (*CNode, error) {
	if ast == nil {
		return NewLeaf(CValid), nil
	}

	if ast.IsBoolean() {
		if *ast.Boolean {
			return NewLeaf(CValid), nil
		}
		return NewLeaf(CInvalid), nil
	}

	if ast.Kws.Has(KwsHasRef) {
		if b.building[ast] {
			return nil, newCanonError("recursive $ref cycle is not supported by this compiler")
		}
		b.building[ast] = true
		defer delete(b.building, ast)
		return b.buildSwitch(ast.ResolvedRef)
	}

	sw := NewSwitch()

	numberArm, err := b.wrapArm(ast, TokNumber, buildNumberArm(ast), nil)
	if err != nil {
		return nil, err
	}
	sw.Switch[TokNumber] = numberArm

	stringArm, err := buildStringArm(ast)
	if err != nil {
		return nil, err
	}
	sw.Switch[TokString], err = b.wrapArm(ast, TokString, stringArm, nil)
	if err != nil {
		return nil, err
	}

	arrayArm, err := b.buildArmFor(ast, TokArrayBeg, b.buildArrayArm)
	if err != nil {
		return nil, err
	}
	sw.Switch[TokArrayBeg] = arrayArm

	objectArm, err := b.buildArmFor(ast, TokObjectBeg, b.buildObjectArm)
	if err != nil {
		return nil, err
	}
	sw.Switch[TokObjectBeg] = objectArm

	sw.Switch[TokNull] = leafForType(ast, TypeNull)
	sw.Switch[TokTrue] = leafForType(ast, TypeBoolean)
	sw.Switch[TokFalse] = leafForType(ast, TypeBoolean)

	result := sw

	if combo, err := b.buildCombinators(ast); err != nil {
		return nil, err
	} else if combo != nil {
		result = NewAnd(result, combo)
	}

	if en := buildEnum(ast); en != nil {
		result = NewAnd(result, en)
	}

	return result, nil
}

// wrapArm gates a built arm by the "type" keyword: if this type isn't
// permitted at all, the arm is INVALID regardless of what its own
// keywords would otherwise allow. "integer" alone still permits NUMBER
// tokens; buildNumberArm narrows them with NUM_INTEGER.
func (b *cnodeBuilder) wrapArm(ast *ASTSchema, t TokType, arm *CNode, err error) (*CNode, error) {
	if err != nil {
		return nil, err
	}
	jt := jsonTypeFor(t)
	if jt != 0 && !ast.Types.Has(jt) && !(t == TokNumber && ast.Types.Has(TypeInteger)) {
		return NewLeaf(CInvalid), nil
	}
	return arm, nil
}

func (b *cnodeBuilder) buildArmFor(ast *ASTSchema, t TokType, build func(*ASTSchema) (*CNode, error)) (*CNode, error) {
	arm, err := build(ast)
	return b.wrapArm(ast, t, arm, err)
}

func leafForType(ast *ASTSchema, jt JSONType) *CNode {
	if !ast.Types.Has(jt) {
		return NewLeaf(CInvalid)
	}
	return NewLeaf(CValid)
}

func jsonTypeFor(t TokType) JSONType {
	switch t {
	case TokNumber:
		return TypeNumber
	case TokString:
		return TypeString
	case TokArrayBeg:
		return TypeArray
	case TokObjectBeg:
		return TypeObject
	default:
		return 0
	}
}

