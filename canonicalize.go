package jvstgo

// Canonicalize rewrites a raw cnode tree (as built by BuildCnode) to the
// normal form the lowering stage requires (spec.md §4.2): one SWITCH per
// schema, no naked AND/OR/XOR/NOT of SWITCHes above it, and object arms
// folded into a single MATCH_SWITCH plus REQMASK/DEPREQUIRE end-checks
// instead of separate OBJ_PROP_SET/OBJ_REQUIRED nodes.
//
// The tree built by BuildCnode never nests a SWITCH node inside another
// SWITCH's own arm tree — combinators only ever combine whole schemas, and
// a schema's arms are built directly from its own keywords — so collapsing
// AND/OR/XOR/NOT down to one SWITCH is a single bottom-up pass: each node's
// children are already resolved to (SWITCH | leaf) by the time the node
// itself is folded, so there is nothing left for a second pass to rewrite.
func Canonicalize(root *CNode) (*CNode, error) {
	return canonSchema(root)
}

// canonSchema folds n to one top-level SWITCH (wrapping a bare leaf into
// a totalizing one) and recursively canonicalizes every nested schema it
// references.
func canonSchema(n *CNode) (*CNode, error) {
	n = collapseToSwitch(n)

	switch n.Kind {
	case CValid, CInvalid:
		return wrapLeafAsSwitch(n), nil
	case CSwitch:
		objArm, err := canonObjectArm(n.Switch[TokObjectBeg])
		if err != nil {
			return nil, err
		}
		n.Switch[TokObjectBeg] = objArm

		arrArm, err := canonArrayArm(n.Switch[TokArrayBeg])
		if err != nil {
			return nil, err
		}
		n.Switch[TokArrayBeg] = arrArm

		return n, nil
	default:
		return nil, newCanonError("canonicalize did not reach a single top-level SWITCH")
	}
}

func newCanonError(reason string) error {
	return &CompileError{
		Stage: "cnode", Keyword: "", cause: ErrCanonicalInvariant,
		Message: ErrCanonicalInvariant.Error(),
		Params:  map[string]any{"reason": reason},
	}
}

// wrapLeafAsSwitch turns a bare VALID/INVALID result (every combinator
// cancelled out) into a total SWITCH repeating that verdict in every arm,
// so every schema lowering sees presents one uniform shape.
func wrapLeafAsSwitch(leaf *CNode) *CNode {
	sw := &CNode{Kind: CSwitch}
	for i := range sw.Switch {
		sw.Switch[i] = NewLeaf(leaf.Kind)
	}
	return sw
}

// collapseToSwitch folds AND/OR/XOR/NOT of (SWITCH | leaf) children, each
// already collapsed by recursion, into one SWITCH (or a bare leaf where
// VALID/INVALID absorption applies), per spec.md §4.2's simplification and
// distribute-over-type rules.
func collapseToSwitch(n *CNode) *CNode {
	if n == nil {
		return NewLeaf(CValid)
	}
	switch n.Kind {
	case CValid, CInvalid, CSwitch:
		return n
	case CAnd:
		return collapseAnd(childList(n.Children))
	case COr:
		return collapseOr(childList(n.Children))
	case CXor:
		return collapseXor(childList(n.Children))
	case CNot:
		return collapseNot(n.Children)
	default:
		return n
	}
}

func collapseAnd(children []*CNode) *CNode {
	var kept []*CNode
	var enumValues []any
	for _, c := range children {
		if c.Kind == CEnum {
			enumValues = append(enumValues, c.EnumValues...)
			continue
		}
		c = collapseToSwitch(c)
		if c.Kind == CInvalid {
			return NewLeaf(CInvalid)
		}
		if c.Kind == CValid {
			continue
		}
		kept = append(kept, c)
	}

	var result *CNode
	switch {
	case len(kept) == 0:
		result = NewLeaf(CValid)
	case len(kept) == 1:
		result = kept[0]
	default:
		result = kept[0]
		for _, c := range kept[1:] {
			result = mergeSwitches(CAnd, result, c)
		}
	}

	if len(enumValues) > 0 {
		if result.Kind != CSwitch {
			result = wrapLeafAsSwitch(result)
		}
		result.EnumValues = enumValues
	}
	return result
}

func collapseOr(children []*CNode) *CNode {
	var kept []*CNode
	for _, c := range children {
		c = collapseToSwitch(c)
		if c.Kind == CValid {
			return NewLeaf(CValid)
		}
		if c.Kind == CInvalid {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return NewLeaf(CInvalid)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	result := kept[0]
	for _, c := range kept[1:] {
		result = mergeSwitches(COr, result, c)
	}
	return result
}

// collapseXor has no VALID/INVALID absorption rule in spec.md §4.2 (only
// AND/OR get one); it merges arm-wise unconditionally.
func collapseXor(children []*CNode) *CNode {
	var kept []*CNode
	for _, c := range children {
		kept = append(kept, collapseToSwitch(c))
	}
	if len(kept) == 0 {
		return NewLeaf(CValid)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	result := kept[0]
	for _, c := range kept[1:] {
		result = mergeSwitches(CXor, result, c)
	}
	return result
}

func collapseNot(child *CNode) *CNode {
	c := collapseToSwitch(child)
	switch c.Kind {
	case CValid:
		return NewLeaf(CInvalid)
	case CInvalid:
		return NewLeaf(CValid)
	default: // CSwitch
		out := &CNode{Kind: CSwitch}
		for i, arm := range c.Switch {
			out.Switch[i] = NewNot(arm)
		}
		return out
	}
}

// mergeSwitches combines two (SWITCH | leaf) nodes arm-by-arm under op
// (CAnd/COr/CXor). A leaf operand contributes the same verdict to every
// arm (VALID/INVALID absorption already ran in the caller for AND/OR, so
// a leaf reaching here only happens for XOR).
func mergeSwitches(op CKind, a, b *CNode) *CNode {
	aArms := armsOf(a)
	bArms := armsOf(b)
	out := &CNode{Kind: CSwitch}
	for i := range out.Switch {
		out.Switch[i] = mergeArm(op, aArms[i], bArms[i])
	}
	return out
}

func armsOf(n *CNode) [numTokTypes]*CNode {
	if n.Kind == CSwitch {
		return n.Switch
	}
	var arms [numTokTypes]*CNode
	for i := range arms {
		arms[i] = NewLeaf(n.Kind)
	}
	return arms
}

// armParts flattens an arm built as NewAnd(...) (or a single bare node,
// when NewAnd collapsed a one-element list) back into its parts.
func armParts(n *CNode) []*CNode {
	if n == nil {
		return nil
	}
	if n.Kind == CAnd {
		return childList(n.Children)
	}
	return []*CNode{n}
}

// canonArrayArm recurses into every nested schema an array arm holds
// (prefix/trailing items, contains) without otherwise restructuring the
// arm: its ARR_* parts are already a flat AND-list, and each index/role
// is independent of the others.
func canonArrayArm(arm *CNode) (*CNode, error) {
	for _, p := range armParts(arm) {
		switch p.Kind {
		case CArrItem:
			sub, err := canonSchema(p.ItemSchema)
			if err != nil {
				return nil, err
			}
			p.ItemSchema = sub
		case CArrAdditional:
			sub, err := canonSchema(p.Additional)
			if err != nil {
				return nil, err
			}
			p.Additional = sub
		case CArrContains:
			sub, err := canonSchema(p.Constraint)
			if err != nil {
				return nil, err
			}
			p.Constraint = sub
		}
	}
	return arm, nil
}

// canonObjectArm is spec.md §4.2's object-arm normalization: it recurses
// into every nested property/pattern/additionalProperties/dependentSchemas
// schema, then replaces OBJ_PROP_SET + OBJ_REQUIRED + OBJ_DEPREQUIRE with
// one MATCH_SWITCH (unioning every literal/pattern key's FSM, per §4.3)
// plus the REQMASK/DEPREQUIRE end-of-object checks that read the bits the
// switch's matched cases set.
func canonObjectArm(arm *CNode) (*CNode, error) {
	var propSet *CNode
	var requireds []*CNode
	var depRequires, depSchemas []*CNode
	var countRange *CNode

	for _, p := range armParts(arm) {
		switch p.Kind {
		case CObjPropSet:
			propSet = p
		case CObjRequired:
			requireds = append(requireds, p)
		case CObjDepRequire:
			depRequires = append(depRequires, p)
		case CObjDepSchema:
			depSchemas = append(depSchemas, p)
		case CCountRange:
			countRange = p
		}
	}

	if propSet != nil {
		for c := propSet.MatchCases; c != nil; c = c.Next {
			sub, err := canonSchema(c.Constraint)
			if err != nil {
				return nil, err
			}
			c.Constraint = sub
		}
		if propSet.MatchDefault != nil {
			sub, err := canonSchema(propSet.MatchDefault)
			if err != nil {
				return nil, err
			}
			propSet.MatchDefault = sub
		}
	}
	for _, ds := range depSchemas {
		sub, err := canonSchema(ds.Constraint)
		if err != nil {
			return nil, err
		}
		ds.Constraint = sub
	}

	if propSet == nil && len(requireds) == 0 && len(depRequires) == 0 {
		return arm, nil
	}

	var cases []*CNode
	if propSet != nil {
		cases = append(cases, childList(propSet.MatchCases)...)
	}

	// Every object frame gets at most one OBJ_REQMASK (ReqMaskID 0): an
	// allOf of several "required" keywords ANDs their obligations, so the
	// union of every list's names shares one bitvector rather than each
	// occurrence claiming its own mask (which lower_object.go's addPart
	// treats as ErrMultipleReqmask, an invariant it should never see).
	var reqMask *CNode
	if len(requireds) > 0 {
		seen := map[string]bool{}
		var names []string
		for _, r := range requireds {
			for _, name := range r.PropNames {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		reqMask = &CNode{Kind: CObjReqMask, ReqMaskBits: len(names), ReqMaskID: 0}
		for i, name := range names {
			cases = append(cases, bitCase(name, 0, i))
		}
	}
	for _, dr := range depRequires {
		cases = append(cases, bitCase(dr.DepTrigger, dr.ReqMaskID, dr.ReqBit))
		for i, name := range dr.DepTargetNames {
			cases = append(cases, bitCase(name, dr.ReqMaskID, dr.DepBits[i]))
		}
	}

	var defaultArm *CNode
	if propSet != nil {
		defaultArm = propSet.MatchDefault
	}
	matchSwitch, err := buildMatchSwitch(cases, defaultArm)
	if err != nil {
		return nil, err
	}

	var parts []*CNode
	parts = append(parts, matchSwitch)
	if reqMask != nil {
		parts = append(parts, reqMask)
	}
	parts = append(parts, depRequires...)
	parts = append(parts, depSchemas...)
	if countRange != nil {
		parts = append(parts, countRange)
	}
	return NewAnd(parts...), nil
}
