package metrics

import (
	"context"
	"errors"

	apperrors "github.com/agbru/primepipe/internal/errors"
)

func outcome(err error) string {
	var ve apperrors.ValidationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case apperrors.IsInvariantError(err):
		return "invariant"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
