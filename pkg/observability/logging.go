package observability

import (
	"log/slog"

	"github.com/aretw0/graft/pkg/domain"
)

// LogHooks returns CommitHooks that log every commit and mount effect.
func LogHooks(logger *slog.Logger) domain.CommitHooks {
	return domain.CommitHooks{
		OnCommit: func(e *domain.CommitEvent) {
			logger.Info("commit",
				"container", e.Container,
				"sequence", e.Sequence,
				"mutations", e.Mutations,
				"duration", e.Duration,
			)
		},
		OnMount: func(e *domain.MountEvent) {
			logger.Debug("mount", "instance", e.Instance, "type", e.Type)
		},
	}
}
