package jvstgo

import (
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// resolveRefs walks the AST resolving every $ref that points within this
// same document (a JSON Pointer fragment, or "#") into ResolvedRef.
// Cross-document resolution is out of scope (spec.md §1: reference
// resolution is assumed complete before entry); a $ref that is not a
// local fragment is left unresolved and reported as ErrRefUnresolved at
// compile time. Grounded on the teacher's ref.go (resolveRef/
// resolveAnchor), narrowed to the single-document case.
func resolveRefs(root *ASTSchema) error {
	seen := make(map[*ASTSchema]bool)
	return resolveRefsIn(root, root, seen)
}

func resolveRefsIn(node, root *ASTSchema, seen map[*ASTSchema]bool) error {
	if node == nil || node.IsBoolean() || seen[node] {
		return nil
	}
	seen[node] = true

	if node.Kws.Has(KwsHasRef) {
		target, err := resolveRef(root, node.Ref)
		if err != nil {
			return err
		}
		node.ResolvedRef = target
		// ast.h: "$Ref" presence means ignore every other keyword; do not
		// descend into this node's other fields.
		return resolveRefsIn(target, root, seen)
	}

	for _, child := range node.Defs {
		if err := resolveRefsIn(child, root, seen); err != nil {
			return err
		}
	}
	for _, p := range node.Properties {
		if err := resolveRefsIn(p.Schema, root, seen); err != nil {
			return err
		}
	}
	for _, p := range node.PatternProperties {
		if err := resolveRefsIn(p.Schema, root, seen); err != nil {
			return err
		}
	}
	for _, p := range node.DependentSchemas {
		if err := resolveRefsIn(p.Schema, root, seen); err != nil {
			return err
		}
	}
	if err := resolveRefsIn(node.AdditionalProperties, root, seen); err != nil {
		return err
	}
	if err := resolveRefsIn(node.PropertyNames, root, seen); err != nil {
		return err
	}
	for _, item := range node.PrefixItems {
		if err := resolveRefsIn(item, root, seen); err != nil {
			return err
		}
	}
	if err := resolveRefsIn(node.Items, root, seen); err != nil {
		return err
	}
	if err := resolveRefsIn(node.AdditionalItems, root, seen); err != nil {
		return err
	}
	if err := resolveRefsIn(node.Contains, root, seen); err != nil {
		return err
	}
	if err := resolveRefsIn(node.Not, root, seen); err != nil {
		return err
	}
	if node.SomeOf != nil {
		for _, s := range node.SomeOf.Set {
			if err := resolveRefsIn(s, root, seen); err != nil {
				return err
			}
		}
	}
	for _, extra := range node.extraSomeOf {
		for _, s := range extra.Set {
			if err := resolveRefsIn(s, root, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveRef resolves a $ref string against root. Only "#" (whole
// document) and "#/a/b/c" (JSON Pointer) forms are supported; anything
// else is a cross-document reference and rejected, matching spec.md §1's
// scope boundary.
func resolveRef(root *ASTSchema, ref string) (*ASTSchema, error) {
	if ref == "#" {
		return root, nil
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, newASTError("$ref", ErrRefUnresolved, map[string]any{"ref": ref})
	}

	pointer := ref[1:]
	tokens, err := jsonpointer.Parse(pointer)
	if err != nil {
		return nil, newASTError("$ref", ErrRefUnresolved, map[string]any{"ref": ref})
	}

	node := root
	for _, tok := range tokens {
		next, ok := stepSchema(node, tok)
		if !ok {
			return nil, newASTError("$ref", ErrRefUnresolved, map[string]any{"ref": ref})
		}
		node = next
	}
	return node, nil
}

// stepSchema advances one JSON-Pointer token into the subschema it names,
// covering the containers a $ref realistically points into ($defs,
// definitions, properties, and numeric array indices into PrefixItems).
func stepSchema(node *ASTSchema, tok string) (*ASTSchema, bool) {
	if node == nil {
		return nil, false
	}
	if child, ok := node.Defs[tok]; ok {
		return child, true
	}
	for _, p := range node.Properties {
		if p.Literal == tok {
			return p.Schema, true
		}
	}
	switch tok {
	case "properties", "$defs", "definitions", "items", "additionalProperties",
		"prefixItems", "contains", "propertyNames", "not":
		// A bare container token by itself does not name a subschema;
		// the following token does. Signal "stay put" so the caller's
		// next step resolves against the right container. Handled by
		// returning node unchanged only when tok is a pure container
		// name with no matching child above.
		return node, true
	}
	return nil, false
}
