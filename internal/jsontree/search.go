package jsontree

import (
	"regexp"
	"strings"
	"unicode"
)

// MatchField says which part of a node a match landed in.
type MatchField uint8

const (
	FieldKey MatchField = iota
	FieldValue
)

// Match is one search hit: the node, the field, and the byte range
// within that field's text (the key without quotes, or ScalarText for
// values).
type Match struct {
	Node  int
	Field MatchField
	Start int
	End   int
}

// CompilePattern compiles a search pattern with smart case: the match
// is case-insensitive unless the pattern contains an uppercase letter.
// caseSensitive forces exact case.
func CompilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive && !hasUpper(pattern) {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func hasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

// Search scans every node's textual content in document order,
// independent of collapse state, and returns the ordered match list.
// Keys match without their quotes; scalar values match their display
// text.
func (t *Tree) Search(re *regexp.Regexp) []Match {
	var matches []Match
	for _, r := range t.roots {
		matches = t.searchNode(matches, re, r)
	}
	return matches
}

func (t *Tree) searchNode(matches []Match, re *regexp.Regexp, n int) []Match {
	nd := &t.nodes[n]
	if nd.HasKey {
		for _, m := range re.FindAllStringIndex(nd.Key, -1) {
			matches = append(matches, Match{Node: n, Field: FieldKey, Start: m[0], End: m[1]})
		}
	}
	if nd.Kind.IsContainer() {
		for _, c := range nd.Children {
			matches = t.searchNode(matches, re, c)
		}
		return matches
	}
	for _, m := range re.FindAllStringIndex(nd.Raw, -1) {
		matches = append(matches, Match{Node: n, Field: FieldValue, Start: m[0], End: m[1]})
	}
	return matches
}
