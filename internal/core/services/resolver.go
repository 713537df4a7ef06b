package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Ensure Resolver implements the interface.
var _ driving.NameResolver = (*Resolver)(nil)

// Resolution thresholds, as similarities in [0, 1].
const (
	// AcceptThreshold is the minimum similarity for a query to resolve on its own.
	AcceptThreshold = 0.7

	// CandidateThreshold is the minimum similarity for an operation to be a candidate at all.
	CandidateThreshold = 0.4

	// SuggestionThreshold is the minimum name similarity for a "did you mean" suggestion.
	SuggestionThreshold = 0.4

	// AmbiguityMargin is the lead over the runner-up that the best candidate
	// must exceed to resolve on its own.
	AmbiguityMargin = 0.05

	// MaxSuggestions caps the candidates listed in a resolution failure.
	MaxSuggestions = 3
)

// ResolveError is returned when an operation name or query cannot be resolved.
// Err is domain.ErrNotFound, domain.ErrNoMatch or domain.ErrAmbiguous.
type ResolveError struct {
	Err        error
	Input      string
	Candidates []driving.OperationMatch
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Input != "" {
		fmt.Fprintf(&b, ": %q", e.Input)
	}

	if len(e.Candidates) == 0 {
		return b.String()
	}

	ambiguous := errors.Is(e.Err, domain.ErrAmbiguous)
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		if ambiguous {
			names[i] = fmt.Sprintf("%s (%d%%)", c.Name, percent(c.Similarity))
		} else {
			names[i] = c.Name
		}
	}

	if ambiguous {
		fmt.Fprintf(&b, "; candidates: %s; pass toolName to choose one", strings.Join(names, ", "))
	} else {
		fmt.Fprintf(&b, "; did you mean: %s?", strings.Join(names, ", "))
	}
	return b.String()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

func percent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

// Resolver maps an exact operation name or a free-text query to one
// registered operation.
type Resolver struct {
	registry driven.OperationRegistry
	scorer   driven.Scorer
}

// NewResolver creates a resolver over registry using scorer for fuzzy matching.
func NewResolver(registry driven.OperationRegistry, scorer driven.Scorer) *Resolver {
	return &Resolver{registry: registry, scorer: scorer}
}

// Resolve returns the operation name for exactly one of exactName or query.
func (r *Resolver) Resolve(exactName, query string) (string, error) {
	exactName = strings.TrimSpace(exactName)
	query = strings.TrimSpace(query)

	switch {
	case exactName != "" && query != "":
		return "", fmt.Errorf("%w: toolName and toolQuery are mutually exclusive", domain.ErrInvalidInput)
	case exactName == "" && query == "":
		return "", fmt.Errorf("%w: one of toolName or toolQuery is required", domain.ErrInvalidInput)
	case exactName != "":
		return r.resolveExact(exactName)
	default:
		return r.resolveQuery(query)
	}
}

func (r *Resolver) resolveExact(name string) (string, error) {
	if r.registry.Has(name) {
		return name, nil
	}

	var suggestions []driving.OperationMatch
	for _, op := range r.registry.List() {
		if s := r.scorer.Score(name, op.Name); s >= SuggestionThreshold {
			suggestions = append(suggestions, driving.OperationMatch{OperationInfo: op, Similarity: s})
		}
	}
	rank(suggestions)

	return "", &ResolveError{
		Err:        domain.ErrNotFound,
		Input:      name,
		Candidates: limitMatches(suggestions, MaxSuggestions),
	}
}

func (r *Resolver) resolveQuery(query string) (string, error) {
	var candidates []driving.OperationMatch
	for _, m := range r.score(query) {
		if m.Similarity >= CandidateThreshold {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return "", &ResolveError{Err: domain.ErrNoMatch, Input: query}
	}

	best := candidates[0]
	clearLead := len(candidates) == 1 || best.Similarity-candidates[1].Similarity > AmbiguityMargin
	if best.Similarity >= AcceptThreshold && clearLead {
		return best.Name, nil
	}

	return "", &ResolveError{
		Err:        domain.ErrAmbiguous,
		Input:      query,
		Candidates: limitMatches(candidates, MaxSuggestions),
	}
}

// Candidates returns up to limit operations ranked by similarity to query.
// A non-positive limit returns MaxSuggestions results.
func (r *Resolver) Candidates(query string, limit int) []driving.OperationMatch {
	if limit <= 0 {
		limit = MaxSuggestions
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var matches []driving.OperationMatch
	for _, m := range r.score(query) {
		if m.Similarity > 0 {
			matches = append(matches, m)
		}
	}
	return limitMatches(matches, limit)
}

// score rates every operation by the better of its name and description.
func (r *Resolver) score(query string) []driving.OperationMatch {
	ops := r.registry.List()
	matches := make([]driving.OperationMatch, 0, len(ops))
	for _, op := range ops {
		s := r.scorer.Score(query, op.Name)
		if op.Description != "" {
			s = max(s, r.scorer.Score(query, op.Description))
		}
		matches = append(matches, driving.OperationMatch{OperationInfo: op, Similarity: s})
	}
	rank(matches)
	return matches
}

// rank sorts by similarity descending, then name for a stable order.
func rank(matches []driving.OperationMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Name < matches[j].Name
	})
}

func limitMatches(matches []driving.OperationMatch, n int) []driving.OperationMatch {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
