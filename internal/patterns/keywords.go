package patterns

import (
	"sort"
	"strings"
	"unicode"
)

// #region stopwords

// stopwords contains common English words excluded from theme tracking.
var stopwords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "nor": true,
	"was": true, "were": true, "are": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "shall": true, "must": true, "not": true,
	"this": true, "that": true, "these": true, "those": true, "there": true,
	"then": true, "than": true, "with": true, "from": true, "into": true,
	"about": true, "out": true, "just": true, "very": true, "really": true,
	"what": true, "which": true, "who": true, "whom": true, "how": true,
	"when": true, "where": true, "why": true, "you": true, "your": true,
	"yours": true, "they": true, "them": true, "their": true, "she": true,
	"her": true, "him": true, "his": true, "its": true, "our": true,
	"ours": true, "all": true, "any": true, "some": true, "too": true,
	"also": true, "like": true, "get": true, "got": true, "feel": true,
	"feels": true, "felt": true, "feeling": true, "think": true, "know": true,
	"want": true, "dont": true, "cant": true, "ive": true, "youre": true,
	"thing": true, "things": true, "something": true, "because": true,
}

// #endregion stopwords

// #region extract

// ExtractKeywords derives the theme keyword set for a message: lower-case,
// punctuation stripped, whitespace split, stopwords and tokens of length
// <= 2 dropped, de-duplicated in first-seen order. Pure: identical input
// always yields identical output.
func ExtractKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) <= 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// #endregion extract

// #region shared

// sharedKeywords returns the tokens present in both sets, in b's order.
func sharedKeywords(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	var shared []string
	for _, t := range b {
		if set[t] {
			shared = append(shared, t)
		}
	}
	return shared
}

// #endregion shared

// #region signature

// Signature canonicalizes a keyword set for stuck-point grouping: sorted
// and joined, so two records with the same themes compare equal regardless
// of word order in the input.
func Signature(keywords []string) string {
	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// #endregion signature
