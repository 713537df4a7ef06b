package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// tableScorer returns fixed similarities keyed by "query|text".
type tableScorer map[string]float64

func (s tableScorer) Score(query, text string) float64 {
	return s[query+"|"+text]
}

var _ driven.Scorer = tableScorer(nil)

func newResolverFixture(t *testing.T, scores tableScorer) *Resolver {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("CleanAppCaches", "Remove application caches", echoHandler))
	require.NoError(t, r.Register("CleanTempFiles", "Remove temporary files", echoHandler))
	require.NoError(t, r.Register("ScanLargeFiles", "Find large files on disk", echoHandler))
	return NewResolver(r, scores)
}

func TestResolver_Resolve_ArgumentValidation(t *testing.T) {
	res := newResolverFixture(t, tableScorer{})

	tests := []struct {
		name  string
		exact string
		query string
	}{
		{"both set", "CleanAppCaches", "clean caches"},
		{"neither set", "", ""},
		{"only whitespace", "  ", "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := res.Resolve(tt.exact, tt.query)
			assert.Empty(t, name)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestResolver_Resolve_ExactName(t *testing.T) {
	res := newResolverFixture(t, tableScorer{})

	name, err := res.Resolve("CleanTempFiles", "")

	require.NoError(t, err)
	assert.Equal(t, "CleanTempFiles", name)
}

func TestResolver_Resolve_ExactNameNotFoundSuggests(t *testing.T) {
	res := newResolverFixture(t, tableScorer{
		"CleanTmpFiles|CleanTempFiles": 0.9,
		"CleanTmpFiles|CleanAppCaches": 0.5,
		"CleanTmpFiles|ScanLargeFiles": 0.3,
		// Descriptions are never consulted for exact-name suggestions.
		"CleanTmpFiles|Find large files on disk": 1,
	})

	_, err := res.Resolve("CleanTmpFiles", "")

	require.ErrorIs(t, err, domain.ErrNotFound)
	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr))
	require.Len(t, rerr.Candidates, 2)
	assert.Equal(t, "CleanTempFiles", rerr.Candidates[0].Name)
	assert.Equal(t, "CleanAppCaches", rerr.Candidates[1].Name)
	assert.Contains(t, err.Error(), "did you mean: CleanTempFiles, CleanAppCaches?")
	assert.NotContains(t, err.Error(), "%")
}

func TestResolver_Resolve_Query(t *testing.T) {
	tests := []struct {
		name     string
		scores   tableScorer
		wantName string
		wantErr  error
	}{
		{
			name:     "strong unique match on name",
			scores:   tableScorer{"q|CleanAppCaches": 0.95, "q|CleanTempFiles": 0.5},
			wantName: "CleanAppCaches",
		},
		{
			name:     "strong match on description",
			scores:   tableScorer{"q|Find large files on disk": 0.8},
			wantName: "ScanLargeFiles",
		},
		{
			name:    "nothing above candidate threshold",
			scores:  tableScorer{"q|CleanAppCaches": 0.39},
			wantErr: domain.ErrNoMatch,
		},
		{
			name:    "best below acceptance threshold",
			scores:  tableScorer{"q|CleanAppCaches": 0.69},
			wantErr: domain.ErrAmbiguous,
		},
		{
			name:    "tie between two strong matches",
			scores:  tableScorer{"q|CleanAppCaches": 0.9, "q|CleanTempFiles": 0.89},
			wantErr: domain.ErrAmbiguous,
		},
		{
			name:    "lead within the ambiguity margin",
			scores:  tableScorer{"q|CleanAppCaches": 0.9, "q|CleanTempFiles": 0.86},
			wantErr: domain.ErrAmbiguous,
		},
		{
			name:     "clear lead over strong runner-up",
			scores:   tableScorer{"q|CleanAppCaches": 0.9, "q|CleanTempFiles": 0.8},
			wantName: "CleanAppCaches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newResolverFixture(t, tt.scores)

			name, err := res.Resolve("", "q")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestResolver_Resolve_AmbiguousListsPercentages(t *testing.T) {
	res := newResolverFixture(t, tableScorer{
		"clean|CleanAppCaches": 0.6,
		"clean|CleanTempFiles": 0.55,
		"clean|ScanLargeFiles": 0.41,
	})

	_, err := res.Resolve("", "clean")

	require.ErrorIs(t, err, domain.ErrAmbiguous)
	assert.Contains(t, err.Error(), "CleanAppCaches (60%), CleanTempFiles (55%), ScanLargeFiles (41%)")
}

func TestResolver_Resolve_AmbiguousCapsCandidates(t *testing.T) {
	r := NewRegistry()
	scores := tableScorer{}
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, r.Register(n, "", echoHandler))
		scores["q|"+n] = 0.5
	}
	res := NewResolver(r, scores)

	_, err := res.Resolve("", "q")

	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr))
	assert.Len(t, rerr.Candidates, MaxSuggestions)
}

func TestResolver_Resolve_EmptyRegistry(t *testing.T) {
	res := NewResolver(NewRegistry(), tableScorer{})

	_, err := res.Resolve("", "anything")

	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestResolver_Candidates(t *testing.T) {
	res := newResolverFixture(t, tableScorer{
		"files|CleanTempFiles":          0.5,
		"files|Find large files on disk": 0.7,
	})

	t.Run("ranked and filtered", func(t *testing.T) {
		got := res.Candidates("files", 10)
		require.Len(t, got, 2)
		assert.Equal(t, "ScanLargeFiles", got[0].Name)
		assert.InDelta(t, 0.7, got[0].Similarity, 1e-9)
		assert.Equal(t, "CleanTempFiles", got[1].Name)
	})

	t.Run("limited", func(t *testing.T) {
		assert.Len(t, res.Candidates("files", 1), 1)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Nil(t, res.Candidates("  ", 3))
	})
}
