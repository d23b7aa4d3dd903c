package jvstgo

// buildCombinators builds AND/OR/XOR/NOT above the type SWITCH from
// allOf/anyOf/oneOf/not (spec.md §4.1: "Combinators allOf/anyOf/oneOf/not
// produce AND/OR/XOR/NOT above the type SWITCH").
func (b *cnodeBuilder) buildCombinators(ast *ASTSchema) (*CNode, error) {
	var parts []*CNode

	someOfs := ast.extraSomeOf
	if ast.SomeOf != nil {
		someOfs = append([]*ASTSomeOf{ast.SomeOf}, someOfs...)
	}
	for _, some := range someOfs {
		children := make([]*CNode, len(some.Set))
		for i, sub := range some.Set {
			c, err := b.buildSwitch(sub)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		switch {
		case some.Min == len(some.Set) && some.Max == len(some.Set):
			parts = append(parts, NewAnd(children...)) // allOf
		case some.Min == 1 && some.Max == 1:
			parts = append(parts, NewXor(children...)) // oneOf
		default:
			parts = append(parts, NewOr(children...)) // anyOf
		}
	}

	if ast.Not != nil {
		notSub, err := b.buildSwitch(ast.Not)
		if err != nil {
			return nil, err
		}
		parts = append(parts, NewNot(notSub))
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return NewAnd(parts...), nil
}

// buildEnum builds enum/const as a single CEnum node (spec.md §4.1's
// "OR of EQ-to-literal leaves", collapsed to one node; see cnode.go's
// CEnum doc comment).
func buildEnum(ast *ASTSchema) *CNode {
	if len(ast.Enum) == 0 {
		return nil
	}
	return &CNode{Kind: CEnum, EnumValues: append([]any(nil), ast.Enum...)}
}
