package out

import (
	"context"

	"ttrack/internal/modules/sync/domain"
)

// WorklogGateway submits one work log to the remote tracker. Failures
// carry an apperrors.RemoteError so the engine can classify them as
// transient, permanent or duplicate.
type WorklogGateway interface {
	Submit(ctx context.Context, submission domain.Submission) (remoteRef string, err error)
}
