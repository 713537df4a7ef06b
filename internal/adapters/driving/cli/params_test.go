package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		rawJSON string
		pairs   []string
		want    domain.Params
	}{
		{name: "empty", want: domain.Params{}},
		{name: "json object", rawJSON: `{"path":"/tmp","limit":5}`, want: domain.Params{"path": "/tmp", "limit": float64(5)}},
		{name: "typed pairs", pairs: []string{"limit=5", "deep=true", "tags=[\"a\"]"},
			want: domain.Params{"limit": float64(5), "deep": true, "tags": []any{"a"}}},
		{name: "string pair", pairs: []string{"pattern=**/*.log"}, want: domain.Params{"pattern": "**/*.log"}},
		{name: "value with equals", pairs: []string{"message=a=b"}, want: domain.Params{"message": "a=b"}},
		{name: "pairs override json", rawJSON: `{"path":"/a"}`, pairs: []string{"path=/b"}, want: domain.Params{"path": "/b"}},
		{name: "json null", rawJSON: "null", want: domain.Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.rawJSON, tt.pairs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParams_Errors(t *testing.T) {
	_, err := parseParams("{not json", nil)
	assert.ErrorContains(t, err, "invalid --params JSON")

	_, err = parseParams("", []string{"=value"})
	assert.ErrorContains(t, err, "expected key=value")
}
