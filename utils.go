package jvstgo

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

// replace substitutes "{key}"-style placeholders in a diagnostic message
// template with parameter values. Kept from the teacher's utils.go, where
// it serves the identical role for EvaluationError messages.
func replace(template string, params map[string]any) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// runeCount returns the number of Unicode code points in s, matching
// ast.h's ast_count over struct json_string (minLength/maxLength count
// code points, not bytes).
func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

// isValidURI verifies if the provided string is a valid URI. Kept from
// the teacher's utils.go; nothing in this package calls it.
func isValidURI(s string) bool {
	_, err := url.ParseRequestURI(s)
	return err == nil
}

// isAbsoluteURI checks if the given URL is absolute.
func isAbsoluteURI(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// resolveRelativeURI resolves a relative URI against a base URI.
func resolveRelativeURI(baseURI, relativeURL string) string {
	if isAbsoluteURI(relativeURL) {
		return relativeURL
	}
	base, err := url.Parse(baseURI)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return relativeURL
	}
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return relativeURL
	}
	return base.ResolveReference(rel).String()
}

// getBaseURI extracts the base URL from an $id URI.
func getBaseURI(id string) string {
	if id == "" {
		return ""
	}
	u, err := url.Parse(id)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Path, "/") {
		return u.String()
	}
	u.Path = path.Dir(u.Path)
	if u.Path == "." {
		u.Path = "/"
	}
	if u.Path != "/" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.String()
}

// splitRef separates a "$ref" URI into its base-document and fragment parts.
func splitRef(ref string) (baseURI string, anchor string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return ref, ""
}

// isJSONPointer reports whether an anchor fragment is a JSON Pointer
// ("/a/b") rather than a plain $anchor name.
func isJSONPointer(s string) bool {
	return strings.HasPrefix(s, "/")
}

// intSet is a small set of non-negative ints whose isDense method tests
// the "dense per frame" property of counter/bitvec/matcher/loop indices;
// nothing in this package calls it.
type intSet struct {
	seen map[int]struct{}
}

func newIntSet() *intSet {
	return &intSet{seen: make(map[int]struct{})}
}

func (s *intSet) add(n int) { s.seen[n] = struct{}{} }

func (s *intSet) has(n int) bool {
	_, ok := s.seen[n]
	return ok
}

func (s *intSet) len() int { return len(s.seen) }

// isDense reports whether the set contains exactly {0, 1, ..., n-1}.
func (s *intSet) isDense() bool {
	for i := 0; i < len(s.seen); i++ {
		if !s.has(i) {
			return false
		}
	}
	return true
}
