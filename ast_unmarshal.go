package jvstgo

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// ParseSchema decodes a JSON Schema document into an ASTSchema. This is
// the ambient "schema JSON parser" spec.md §1 treats as an external
// collaborator for the core compile pipeline; it lives in its own file so
// the boundary stays visible. Modeled on the teacher's newSchema/
// UnmarshalJSON flow (schema.go), using the same primary JSON library
// (go-json-experiment/json).
func ParseSchema(data []byte) (*ASTSchema, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newASTError("", ErrSchemaUnmarshal, map[string]any{"error": err.Error()})
	}
	return decodeSchemaValue(raw)
}

// decodeSchemaValue turns one decoded JSON value into an ASTSchema,
// handling the boolean-schema and object-schema forms JSON Schema allows
// anywhere a subschema is expected.
func decodeSchemaValue(v any) (*ASTSchema, error) {
	switch t := v.(type) {
	case bool:
		b := t
		return &ASTSchema{Boolean: &b}, nil
	case map[string]any:
		return decodeSchemaObject(t)
	case nil:
		// A missing subschema slot; callers should not hit this for
		// keywords that require a value, only for absent optional ones.
		return nil, nil
	default:
		return nil, newASTError("", ErrInvalidKeywordShape, map[string]any{"got": fmt.Sprintf("%T", v)})
	}
}

func decodeSchemaObject(m map[string]any) (*ASTSchema, error) {
	s := &ASTSchema{}

	if ref, ok := stringField(m, "$ref"); ok {
		s.Ref = ref
		s.Kws |= KwsHasRef
		// ast.h: "$ref" presence means ignore every other keyword, but we
		// still decode $id/title/description for document bookkeeping,
		// matching the teacher's initializeSchemaCore which resolves
		// $id/anchors before looking at $ref.
		s.ID, _ = stringField(m, "$id")
		s.Title, _ = stringField(m, "title")
		s.Description, _ = stringField(m, "description")
		return s, nil
	}

	s.ID, _ = stringField(m, "$id")
	s.Title, _ = stringField(m, "title")
	s.Description, _ = stringField(m, "description")

	if defs, ok := m["$defs"]; ok {
		if err := decodeDefs(defs, &s.Defs); err != nil {
			return nil, err
		}
	} else if defs, ok := m["definitions"]; ok { // draft-07 compatibility
		if err := decodeDefs(defs, &s.Defs); err != nil {
			return nil, err
		}
	}

	if err := decodeNumericKeywords(m, s); err != nil {
		return nil, err
	}
	if err := decodeStringKeywords(m, s); err != nil {
		return nil, err
	}
	if err := decodeArrayKeywords(m, s); err != nil {
		return nil, err
	}
	if err := decodeObjectKeywords(m, s); err != nil {
		return nil, err
	}
	if err := decodeCombinatorKeywords(m, s); err != nil {
		return nil, err
	}

	if rawType, ok := m["type"]; ok {
		types, err := decodeTypes(rawType)
		if err != nil {
			return nil, err
		}
		s.Types = types
	}

	return s, nil
}

func decodeDefs(v any, out *map[string]*ASTSchema) error {
	m, ok := v.(map[string]any)
	if !ok {
		return newASTError("$defs", ErrInvalidKeywordShape, nil)
	}
	defs := make(map[string]*ASTSchema, len(m))
	for k, raw := range m {
		child, err := decodeSchemaValue(raw)
		if err != nil {
			return err
		}
		defs[k] = child
	}
	*out = defs
	return nil
}

func decodeTypes(v any) (TypeSet, error) {
	switch t := v.(type) {
	case string:
		return ParseTypeSet(t)
	case []any:
		names := make([]string, 0, len(t))
		for _, e := range t {
			name, ok := e.(string)
			if !ok {
				return 0, newASTError("type", ErrInvalidKeywordShape, nil)
			}
			names = append(names, name)
		}
		return ParseTypeSet(names...)
	default:
		return 0, newASTError("type", ErrInvalidKeywordShape, nil)
	}
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	}
	return 0, false
}

func boolField(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func decodeNumericKeywords(m map[string]any, s *ASTSchema) error {
	if v, ok := m["multipleOf"]; ok {
		r := NewRat(v)
		if r == nil {
			return newASTError("multipleOf", ErrInvalidKeywordShape, nil)
		}
		s.MultipleOf = r
		s.Kws |= KwsMultipleOf
	}
	if v, ok := m["maximum"]; ok {
		r := NewRat(v)
		if r == nil {
			return newASTError("maximum", ErrInvalidKeywordShape, nil)
		}
		s.Maximum = r
		s.Kws |= KwsMaximum
	}
	if v, ok := m["minimum"]; ok {
		r := NewRat(v)
		if r == nil {
			return newASTError("minimum", ErrInvalidKeywordShape, nil)
		}
		s.Minimum = r
		s.Kws |= KwsMinimum
	}
	// exclusiveMaximum/exclusiveMinimum are numeric keywords in 2020-12
	// (not the draft-04 boolean modifier); both forms are accepted so a
	// draft-07-ish boolean flag degrades to "use maximum/minimum as the
	// exclusive bound" rather than being rejected outright.
	if v, ok := m["exclusiveMaximum"]; ok {
		switch t := v.(type) {
		case bool:
			if t && s.Maximum != nil {
				s.ExclusiveMaximum = s.Maximum
				s.Maximum = nil
				s.Kws &^= KwsMaximum
				s.Kws |= KwsExclusiveMaximum
			}
		default:
			r := NewRat(v)
			if r == nil {
				return newASTError("exclusiveMaximum", ErrInvalidKeywordShape, nil)
			}
			s.ExclusiveMaximum = r
			s.Kws |= KwsExclusiveMaximum
		}
	}
	if v, ok := m["exclusiveMinimum"]; ok {
		switch t := v.(type) {
		case bool:
			if t && s.Minimum != nil {
				s.ExclusiveMinimum = s.Minimum
				s.Minimum = nil
				s.Kws &^= KwsMinimum
				s.Kws |= KwsExclusiveMinimum
			}
		default:
			r := NewRat(v)
			if r == nil {
				return newASTError("exclusiveMinimum", ErrInvalidKeywordShape, nil)
			}
			s.ExclusiveMinimum = r
			s.Kws |= KwsExclusiveMinimum
		}
	}
	return nil
}

func decodeStringKeywords(m map[string]any, s *ASTSchema) error {
	if n, ok := intField(m, "maxLength"); ok {
		s.MaxLength = n
		s.Kws |= KwsMaxLength
	}
	if n, ok := intField(m, "minLength"); ok {
		s.MinLength = n
		s.Kws |= KwsMinLength
	}
	if p, ok := stringField(m, "pattern"); ok {
		s.Pattern = p
	}
	return nil
}

func decodeArrayKeywords(m map[string]any, s *ASTSchema) error {
	if v, ok := m["prefixItems"]; ok {
		list, ok := v.([]any)
		if !ok {
			return newASTError("prefixItems", ErrInvalidKeywordShape, nil)
		}
		for _, raw := range list {
			child, err := decodeSchemaValue(raw)
			if err != nil {
				return err
			}
			s.PrefixItems = append(s.PrefixItems, child)
		}
	}
	if v, ok := m["items"]; ok {
		switch t := v.(type) {
		case []any:
			// draft-07 tuple form: "items" is itself the ordered sequence.
			for _, raw := range t {
				child, err := decodeSchemaValue(raw)
				if err != nil {
					return err
				}
				s.PrefixItems = append(s.PrefixItems, child)
			}
			s.Kws |= KwsSingletonItems // array form still single keyword occurrence
		default:
			child, err := decodeSchemaValue(v)
			if err != nil {
				return err
			}
			s.Items = child
			s.Kws |= KwsSingletonItems
		}
	}
	if v, ok := m["additionalItems"]; ok {
		child, err := decodeSchemaValue(v)
		if err != nil {
			return err
		}
		s.AdditionalItems = child
	}
	if b, ok := boolField(m, "uniqueItems"); ok {
		s.UniqueItems = b
	}
	if v, ok := m["contains"]; ok {
		child, err := decodeSchemaValue(v)
		if err != nil {
			return err
		}
		s.Contains = child
	}
	if n, ok := intField(m, "minItems"); ok {
		s.MinItems = n
		s.Kws |= KwsMinItems
	}
	if n, ok := intField(m, "maxItems"); ok {
		s.MaxItems = n
		s.Kws |= KwsMaxItems
	}
	if n, ok := intField(m, "minContains"); ok {
		s.MinContains = n
		s.Kws |= KwsMinContains
	}
	if n, ok := intField(m, "maxContains"); ok {
		s.MaxContains = n
		s.Kws |= KwsMaxContains
	}
	return nil
}

func decodeObjectKeywords(m map[string]any, s *ASTSchema) error {
	if v, ok := m["properties"]; ok {
		props, ok := v.(map[string]any)
		if !ok {
			return newASTError("properties", ErrInvalidKeywordShape, nil)
		}
		for name, raw := range props {
			child, err := decodeSchemaValue(raw)
			if err != nil {
				return err
			}
			s.Properties = append(s.Properties, &ASTProperty{Literal: name, Schema: child})
		}
	}
	if v, ok := m["patternProperties"]; ok {
		props, ok := v.(map[string]any)
		if !ok {
			return newASTError("patternProperties", ErrInvalidKeywordShape, nil)
		}
		for pattern, raw := range props {
			child, err := decodeSchemaValue(raw)
			if err != nil {
				return err
			}
			s.PatternProperties = append(s.PatternProperties, &ASTProperty{Pattern: pattern, Schema: child})
		}
	}
	if v, ok := m["additionalProperties"]; ok {
		child, err := decodeSchemaValue(v)
		if err != nil {
			return err
		}
		s.AdditionalProperties = child
	}
	if v, ok := m["required"]; ok {
		list, ok := v.([]any)
		if !ok {
			return newASTError("required", ErrInvalidKeywordShape, nil)
		}
		for _, raw := range list {
			name, ok := raw.(string)
			if !ok {
				return newASTError("required", ErrInvalidKeywordShape, nil)
			}
			s.Required = append(s.Required, name)
		}
	}
	if v, ok := m["dependentRequired"]; ok {
		depMap, ok := v.(map[string]any)
		if !ok {
			return newASTError("dependentRequired", ErrInvalidKeywordShape, nil)
		}
		s.DependentRequired = make(map[string][]string, len(depMap))
		for prop, raw := range depMap {
			list, ok := raw.([]any)
			if !ok {
				return newASTError("dependentRequired", ErrInvalidKeywordShape, nil)
			}
			names := make([]string, 0, len(list))
			for _, n := range list {
				name, ok := n.(string)
				if !ok {
					return newASTError("dependentRequired", ErrInvalidKeywordShape, nil)
				}
				names = append(names, name)
			}
			s.DependentRequired[prop] = names
		}
	}
	// "dependencies" (draft-07): string-list form merges into
	// DependentRequired, schema form merges into DependentSchemas.
	if v, ok := m["dependencies"]; ok {
		depMap, ok := v.(map[string]any)
		if !ok {
			return newASTError("dependencies", ErrInvalidKeywordShape, nil)
		}
		for prop, raw := range depMap {
			switch t := raw.(type) {
			case []any:
				if s.DependentRequired == nil {
					s.DependentRequired = make(map[string][]string)
				}
				names := make([]string, 0, len(t))
				for _, n := range t {
					name, ok := n.(string)
					if !ok {
						return newASTError("dependencies", ErrInvalidKeywordShape, nil)
					}
					names = append(names, name)
				}
				s.DependentRequired[prop] = names
			default:
				child, err := decodeSchemaValue(raw)
				if err != nil {
					return err
				}
				s.DependentSchemas = append(s.DependentSchemas, &ASTProperty{Literal: prop, Schema: child})
			}
		}
	}
	if v, ok := m["dependentSchemas"]; ok {
		depMap, ok := v.(map[string]any)
		if !ok {
			return newASTError("dependentSchemas", ErrInvalidKeywordShape, nil)
		}
		for prop, raw := range depMap {
			child, err := decodeSchemaValue(raw)
			if err != nil {
				return err
			}
			s.DependentSchemas = append(s.DependentSchemas, &ASTProperty{Literal: prop, Schema: child})
		}
	}
	if v, ok := m["propertyNames"]; ok {
		child, err := decodeSchemaValue(v)
		if err != nil {
			return err
		}
		s.PropertyNames = child
	}
	if n, ok := intField(m, "minProperties"); ok {
		s.MinProperties = n
		s.Kws |= KwsMinProperties
	}
	if n, ok := intField(m, "maxProperties"); ok {
		s.MaxProperties = n
		s.Kws |= KwsMaxProperties
	}
	return nil
}

func decodeCombinatorKeywords(m map[string]any, s *ASTSchema) error {
	if err := decodeSomeOf(m, "allOf", 0, s); err != nil {
		return err
	}
	if err := decodeSomeOf(m, "anyOf", 1, s); err != nil {
		return err
	}
	if err := decodeSomeOf(m, "oneOf", 2, s); err != nil {
		return err
	}
	if v, ok := m["not"]; ok {
		child, err := decodeSchemaValue(v)
		if err != nil {
			return err
		}
		s.Not = child
	}
	if v, ok := m["enum"]; ok {
		list, ok := v.([]any)
		if !ok {
			return newASTError("enum", ErrInvalidKeywordShape, nil)
		}
		s.Enum = list
	}
	if v, ok := m["const"]; ok {
		s.Enum = []any{v}
	}
	return nil
}

// decodeSomeOf decodes one of allOf(kind=0)/anyOf(kind=1)/oneOf(kind=2)
// into s.SomeOf, merging with any combinator already decoded onto s the
// way ast.h's single "some_of" slot does not allow more than one
// combinator per schema node simultaneously represented this way; a
// schema using more than one of allOf/anyOf/oneOf gets one ASTSomeOf per
// call merged at cnode-build time via AND, see keywords_combinators.go.
func decodeSomeOf(m map[string]any, key string, kind int, s *ASTSchema) error {
	v, ok := m[key]
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return newASTError(key, ErrInvalidKeywordShape, nil)
	}
	schemas := make([]*ASTSchema, 0, len(list))
	for _, raw := range list {
		child, err := decodeSchemaValue(raw)
		if err != nil {
			return err
		}
		schemas = append(schemas, child)
	}

	var min, max int
	switch kind {
	case 0: // allOf
		min, max = len(schemas), len(schemas)
	case 1: // anyOf
		min, max = 1, len(schemas)
	case 2: // oneOf
		min, max = 1, 1
	}

	someOf := &ASTSomeOf{Min: min, Max: max, Set: schemas}
	if s.SomeOf == nil {
		s.SomeOf = someOf
		return nil
	}
	// more than one combinator keyword on one node: the first stays in
	// SomeOf and the rest go to extraSomeOf, which keywords_combinators.go's
	// buildCombinators reads alongside SomeOf at cnode-build time.
	s.extraSomeOf = append(s.extraSomeOf, someOf)
	return nil
}
