package jvstgo

// buildArrayArm builds the ARRAY_BEG token arm's constraint: prefixItems
// (2020-12) or draft-07's array-form "items" (both land in
// ASTSchema.PrefixItems per ast_unmarshal.go), a uniform trailing
// item/additionalItems schema, uniqueItems, contains/minContains/
// maxContains (a supplement: original_source only stubs this field;
// built here as one CArrContains node holding the element schema and the
// match-count bounds), and minItems/maxItems.
func (b *cnodeBuilder) buildArrayArm(s *ASTSchema) (*CNode, error) {
	var parts []*CNode

	if len(s.PrefixItems) > 0 {
		var head, tail *CNode
		for i, item := range s.PrefixItems {
			sub, err := b.buildSwitch(item)
			if err != nil {
				return nil, err
			}
			n := &CNode{Kind: CArrItem, ItemIndex: i, ItemSchema: sub}
			if head == nil {
				head = n
			} else {
				tail.Next = n
			}
			tail = n
		}
		parts = append(parts, head)
	}

	trailing := s.Items
	if trailing == nil {
		trailing = s.AdditionalItems
	}
	if trailing != nil {
		sub, err := b.buildSwitch(trailing)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &CNode{Kind: CArrAdditional, Additional: sub})
	}

	if s.UniqueItems {
		parts = append(parts, &CNode{Kind: CArrUnique, UniqueItems: true})
	}

	if s.Contains != nil {
		sub, err := b.buildSwitch(s.Contains)
		if err != nil {
			return nil, err
		}
		n := &CNode{Kind: CArrContains, Constraint: sub, CountMin: 1, CountMax: -1}
		if s.Kws.Has(KwsMinContains) {
			n.CountMin = s.MinContains
		}
		if s.Kws.Has(KwsMaxContains) {
			n.CountMax = s.MaxContains
		}
		parts = append(parts, n)
	}

	if s.Kws.Has(KwsMinItems) || s.Kws.Has(KwsMaxItems) {
		n := &CNode{Kind: CCountRange, CountMin: -1, CountMax: -1}
		if s.Kws.Has(KwsMinItems) {
			n.CountMin = s.MinItems
		}
		if s.Kws.Has(KwsMaxItems) {
			n.CountMax = s.MaxItems
		}
		parts = append(parts, n)
	}

	if len(parts) == 0 {
		return NewLeaf(CValid), nil
	}
	return NewAnd(parts...), nil
}
