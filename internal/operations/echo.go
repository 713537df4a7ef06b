package operations

import (
	"context"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// EchoName is the registered name of Echo.
const EchoName = "System_Echo"

// Echo returns params["message"] as text.
func Echo(_ context.Context, params domain.Params) (*domain.OperationResult, error) {
	msg, ok := stringParam(params, "message")
	if !ok {
		return domain.ErrorResult("message is required and must be a string"), nil
	}
	return domain.TextResult(msg), nil
}
