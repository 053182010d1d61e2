package out

import (
	"context"

	"ttrack/internal/modules/sync/domain"
	syncout "ttrack/internal/modules/sync/port/out"
	apperrors "ttrack/internal/platform/errors"
)

// UnconfiguredGateway stands in when no tracker credentials are
// configured. Every submission fails permanent so entries stay queued
// and the operator sees what is missing.
type UnconfiguredGateway struct {
	reason error
}

func NewUnconfiguredGateway(reason error) syncout.WorklogGateway {
	return &UnconfiguredGateway{reason: reason}
}

func (g *UnconfiguredGateway) Submit(_ context.Context, _ domain.Submission) (string, error) {
	return "", apperrors.NewRemoteError(apperrors.RemotePermanent, g.reason)
}
