package jvstgo

// buildObjectArm builds the OBJECT_BEG token arm's pre-canonical
// constraint: properties/patternProperties collapse into one OBJ_PROP_SET
// of match cases (unioned into a single MATCH_SWITCH by canonicalize.go,
// per spec.md §4.2), required becomes OBJ_REQUIRED (rewritten to
// REQBIT/REQMASK by canonicalize.go), and minProperties/maxProperties
// becomes a COUNT_RANGE over the property count. dependentRequired/
// dependentSchemas are supplements beyond the distilled arm list: the
// former is modeled as a conditional reqmask implication sharing the
// object frame's bit-tracking machinery; the latter is built into the
// tree but, like the STRING/ARRAY/scalar NOP arms (spec.md §9.4), is not
// yet translated by the lowering stage.
func (b *cnodeBuilder) buildObjectArm(s *ASTSchema) (*CNode, error) {
	var parts []*CNode

	propSet, err := b.buildObjPropSet(s)
	if err != nil {
		return nil, err
	}
	if propSet != nil {
		parts = append(parts, propSet)
	}

	if len(s.Required) > 0 {
		parts = append(parts, &CNode{Kind: CObjRequired, PropNames: append([]string(nil), s.Required...)})
	}

	if dep, err := buildDependentRequired(s); err != nil {
		return nil, err
	} else if dep != nil {
		parts = append(parts, dep)
	}

	for _, d := range s.DependentSchemas {
		sub, err := b.buildSwitch(d.Schema)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &CNode{Kind: CObjDepSchema, DepTrigger: d.Literal, Constraint: sub})
	}

	if s.Kws.Has(KwsMinProperties) || s.Kws.Has(KwsMaxProperties) {
		n := &CNode{Kind: CCountRange, CountMin: -1, CountMax: -1}
		if s.Kws.Has(KwsMinProperties) {
			n.CountMin = s.MinProperties
		}
		if s.Kws.Has(KwsMaxProperties) {
			n.CountMax = s.MaxProperties
		}
		parts = append(parts, n)
	}

	if len(parts) == 0 {
		return NewLeaf(CValid), nil
	}
	return NewAnd(parts...), nil
}

// buildObjPropSet collapses properties + patternProperties +
// additionalProperties into one pre-canonical OBJ_PROP_SET: a list of
// CMatchCase entries (one per literal or pattern key) plus a default arm
// from additionalProperties. canonicalize.go turns this into a
// MATCH_SWITCH with a unioned DFA (spec.md §4.2/§4.3).
func (b *cnodeBuilder) buildObjPropSet(s *ASTSchema) (*CNode, error) {
	if len(s.Properties) == 0 && len(s.PatternProperties) == 0 && s.AdditionalProperties == nil {
		return nil, nil
	}

	set := &CNode{Kind: CObjPropSet}
	for _, p := range s.Properties {
		sub, err := b.buildSwitch(p.Schema)
		if err != nil {
			return nil, err
		}
		appendChild(&set.MatchCases, &CNode{Kind: CMatchCase, MatchSet: []string{p.Literal}, Constraint: sub})
	}
	for _, p := range s.PatternProperties {
		sub, err := b.buildSwitch(p.Schema)
		if err != nil {
			return nil, err
		}
		appendChild(&set.MatchCases, &CNode{Kind: CMatchCase, MatchSet: []string{p.Pattern}, IsPattern: true, Constraint: sub})
	}
	if s.AdditionalProperties != nil {
		def, err := b.buildSwitch(s.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		set.MatchDefault = def
	}
	return set, nil
}

// buildDependentRequired translates dependentRequired into one
// OBJ_DEPREQUIRE per trigger property, all reading/writing a shared
// bitmap distinct from the `required` keyword's mask (ReqMaskID 1):
// when the trigger's bit is set by a MATCH_CASE at runtime, the frame's
// OBJECT_END check additionally requires every dependent bit be set.
func buildDependentRequired(s *ASTSchema) (*CNode, error) {
	if len(s.DependentRequired) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(s.DependentRequired))
	for trigger := range s.DependentRequired {
		names = append(names, trigger)
		names = append(names, s.DependentRequired[trigger]...)
	}
	bitOf := assignBits(names)

	var head, tail *CNode
	triggers := make([]string, 0, len(s.DependentRequired))
	for trigger := range s.DependentRequired {
		triggers = append(triggers, trigger)
	}
	sortStrings(triggers)
	for _, trigger := range triggers {
		targets := s.DependentRequired[trigger]
		bits := make([]int, len(targets))
		for i, t := range targets {
			bits[i] = bitOf[t]
		}
		n := &CNode{
			Kind: CObjDepRequire, ReqMaskID: 1, ReqBit: bitOf[trigger], DepTrigger: trigger,
			DepBits: bits, DepTargetNames: append([]string(nil), targets...),
		}
		if head == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
	}
	return head, nil
}

func assignBits(names []string) map[string]int {
	bitOf := make(map[string]int)
	next := 0
	for _, n := range names {
		if _, ok := bitOf[n]; !ok {
			bitOf[n] = next
			next++
		}
	}
	return bitOf
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
