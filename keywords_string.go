package jvstgo

// buildStringArm builds the STRING token arm's constraint from
// minLength/maxLength (counted in Unicode code points, matching
// original_source/src/ast.h's ast_count over json_string) and pattern,
// compiled once into a single-pattern DFA shared with the
// patternProperties machinery in keywords_object.go.
func buildStringArm(s *ASTSchema) (*CNode, error) {
	var parts []*CNode

	if s.Kws.Has(KwsMinLength) || s.Kws.Has(KwsMaxLength) {
		n := &CNode{Kind: CCountRange}
		if s.Kws.Has(KwsMinLength) {
			n.CountMin = s.MinLength
		} else {
			n.CountMin = -1
		}
		if s.Kws.Has(KwsMaxLength) {
			n.CountMax = s.MaxLength
		} else {
			n.CountMax = -1
		}
		parts = append(parts, n)
	}

	if s.Pattern != "" {
		dfa, err := compileMatchSet([]matchSetEntry{{pattern: s.Pattern}})
		if err != nil {
			return nil, err
		}
		parts = append(parts, &CNode{Kind: CStrMatch, StrDFA: dfa})
	}

	if len(parts) == 0 {
		return NewLeaf(CValid), nil
	}
	return NewAnd(parts...), nil
}
