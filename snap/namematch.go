package snap

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// foldCaser performs Unicode-correct case folding, the same
// golang.org/x/text dependency the sibling pack repo
// (fredericrous-cluster-vision) already carries for locale-aware text
// handling.
var foldCaser = cases.Fold()

// normalizeName case-folds s, strips punctuation, and collapses
// whitespace, per spec.md §4.D step 4.
func normalizeName(s string) string {
	folded := foldCaser.String(s)

	var b strings.Builder
	lastWasSpace := true // trim leading space
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// drop punctuation entirely
		default:
			b.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// tokenSetSimilarity computes the Jaccard similarity of the two names'
// normalized token sets, used for the fuzzy name-match class.
func tokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersection int
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

func tokenSet(name string) map[string]struct{} {
	norm := normalizeName(name)
	if norm == "" {
		return nil
	}
	tokens := strings.Fields(norm)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}

	return set
}

// matchName classifies barrierName against flowlineName per spec.md §4.D
// step 4: exact after normalization, fuzzy above threshold, else none.
// Absent names (either side empty) yield none.
func matchName(barrierName, flowlineName string, threshold float64) NameMatch {
	if barrierName == "" || flowlineName == "" {
		return NameNone
	}
	if normalizeName(barrierName) == normalizeName(flowlineName) {
		return NameExact
	}
	if tokenSetSimilarity(barrierName, flowlineName) >= threshold {
		return NameFuzzy
	}

	return NameNone
}
