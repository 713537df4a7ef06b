package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// GlobName is the registered name of Glob.
const GlobName = "Files_Glob"

// Glob limits.
const (
	DefaultGlobLimit = 100
	MaxGlobLimit     = 1000
)

// Glob lists regular files matching params["pattern"] below params["path"]
// (default: working directory), newest first, one relative path per line.
func Glob(ctx context.Context, params domain.Params) (*domain.OperationResult, error) {
	pattern, ok := stringParam(params, "pattern")
	if !ok || strings.TrimSpace(pattern) == "" {
		return domain.ErrorResult("pattern is required"), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return domain.ErrorResult(fmt.Sprintf("invalid glob pattern %q", pattern)), nil
	}

	limit, err := intParam(params, "limit", DefaultGlobLimit)
	if err != nil {
		return domain.ErrorResult(err.Error()), nil
	}
	if limit <= 0 || limit > MaxGlobLimit {
		limit = MaxGlobLimit
	}

	base, _ := stringParam(params, "path")
	if base == "" {
		if base, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(base, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	type fileInfo struct {
		path    string
		modTime int64
	}
	files := make([]fileInfo, 0, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(base, match)
		if err != nil {
			rel = match
		}
		files = append(files, fileInfo{path: rel, modTime: info.ModTime().UnixNano()})
	}

	if len(files) == 0 {
		return domain.TextResult("No files found matching pattern"), nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime > files[j].modTime
		}
		return files[i].path < files[j].path
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d file(s)", len(files))
	if len(files) > limit {
		fmt.Fprintf(&sb, ", showing %d", limit)
		files = files[:limit]
	}
	sb.WriteString("\n")
	for _, f := range files {
		sb.WriteString(f.path)
		sb.WriteString("\n")
	}
	return domain.TextResult(strings.TrimRight(sb.String(), "\n")), nil
}
