package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.Scorer = (*Scorer)(nil)

// minTokenLen is the shortest token that takes part in scoring. It is also
// the shortest query token credited as a full match when it prefixes a
// candidate token ("temp" for "temporary").
const minTokenLen = 3

// strongMatch is the similarity at least one query token must reach in the
// candidate for token coverage to count at all.
const strongMatch = 0.8

// Weights of query and candidate coverage in the token score. Candidate
// coverage keeps a single shared word from carrying a long description.
const (
	queryWeight     = 0.6
	candidateWeight = 0.4
)

// stopWords never count toward a match.
var stopWords = map[string]struct{}{
	"all": {}, "and": {}, "any": {}, "are": {}, "for": {}, "from": {},
	"into": {}, "its": {}, "our": {}, "that": {}, "the": {}, "this": {},
	"with": {}, "your": {},
}

// Scorer implements driven.Scorer.
//
// Both strings are split into lowercase word tokens (CamelCase, snake_case
// and punctuation all separate words), dropping stop words and tokens shorter
// than three runes. The result is the better of a whole string similarity
// and a token coverage score that blends how much of the query is found in
// the candidate with how much of the candidate the query accounts for.
type Scorer struct{}

// NewScorer creates a new Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns a similarity in [0, 1].
func (s *Scorer) Score(query, text string) float64 {
	qt := significant(Tokenize(query))
	ct := significant(Tokenize(text))
	if len(qt) == 0 || len(ct) == 0 {
		return 0
	}

	compact := similarity(strings.Join(qt, ""), strings.Join(ct, ""))
	if compact == 1 {
		return 1
	}

	queryCov, strongest := coverage(qt, ct, true)
	if strongest < strongMatch {
		return compact
	}
	candidateCov, _ := coverage(ct, qt, false)
	return max(compact, queryWeight*queryCov+candidateWeight*candidateCov)
}

// significant filters out stop words and short tokens.
func significant(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, stop := stopWords[t]; stop || utf8.RuneCountInString(t) < minTokenLen {
			continue
		}
		out = append(out, t)
	}
	return out
}

// coverage averages, over from, the best match each token finds in to. It
// also returns the single best of those matches.
func coverage(from, to []string, allowPrefix bool) (avg, strongest float64) {
	var sum float64
	for _, f := range from {
		best := 0.0
		for _, t := range to {
			var sc float64
			if allowPrefix && strings.HasPrefix(t, f) {
				sc = 1
			} else {
				sc = similarity(f, t)
			}
			if sc > best {
				best = sc
				if best == 1 {
					break
				}
			}
		}
		sum += best
		strongest = max(strongest, best)
	}
	return sum / float64(len(from)), strongest
}

// similarity is 1 - distance/longest, in runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Tokenize splits s into lowercase words at case changes, letter/digit
// boundaries and any non-alphanumeric rune.
func Tokenize(s string) []string {
	runes := []rune(s)
	var (
		tokens []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && boundary(runes, i) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// boundary reports whether a new word starts at runes[i].
func boundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsDigit(prev) != unicode.IsDigit(r):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(r):
		// "HTTPServer": the S starts a word because a lowercase rune follows.
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}
