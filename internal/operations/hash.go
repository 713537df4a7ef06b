package operations

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// HashName is the registered name of HashFile.
const HashName = "Hash_File"

// HashFile returns "<hex digest>  <path>" in sha256sum format.
func HashFile(ctx context.Context, params domain.Params) (*domain.OperationResult, error) {
	path, ok := stringParam(params, "path")
	if !ok || strings.TrimSpace(path) == "" {
		return domain.ErrorResult("path is required"), nil
	}

	algo, _ := stringParam(params, "algorithm")
	var h hash.Hash
	switch strings.ToLower(strings.TrimSpace(algo)) {
	case "", "sha256":
		h = sha256.New()
	case "sha512":
		h = sha512.New()
	default:
		return domain.ErrorResult(fmt.Sprintf("unsupported algorithm %q (use sha256 or sha512)", algo)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, contextReader{ctx: ctx, r: f}); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.TextResult(hex.EncodeToString(h.Sum(nil)) + "  " + path), nil
}

// contextReader stops a long read once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
