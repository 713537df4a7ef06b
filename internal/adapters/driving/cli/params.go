package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// parseParams builds operation params from a JSON object and key=value
// pairs. Pair values that parse as JSON keep their type ("true", "3",
// "[1,2]"); anything else is a string. Pairs override the JSON object.
func parseParams(rawJSON string, pairs []string) (domain.Params, error) {
	params := domain.Params{}

	if strings.TrimSpace(rawJSON) != "" {
		if err := json.Unmarshal([]byte(rawJSON), &params); err != nil {
			return nil, fmt.Errorf("invalid --params JSON: %w", err)
		}
		if params == nil {
			params = domain.Params{}
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = value
		}
	}
	return params, nil
}
