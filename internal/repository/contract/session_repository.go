// FILE: internal/repository/contract/session_repository.go
package contract

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
)

// StatusPatch is the authoritative slice of a transition: status, the history
// entry appended in the same UPDATE, and the columns the transition sets.
type StatusPatch struct {
	NewStatus    entity.SessionStatus
	History      entity.StatusChange
	ActualStart  bool
	ActualEnd    bool
	Points       *entity.PointsAward
	Cancellation *entity.SessionCancellation
}

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateStatus applies the patch with a conditional write:
	// UPDATE ... WHERE id = ? AND status IN (from). The returned bool is false
	// when zero rows matched, i.e. a concurrent writer already moved the
	// status; the caller re-reads to distinguish AlreadyCompleted from
	// InvalidTransition. Status column and history append land in one
	// statement so no reader observes one without the other.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.SessionStatus, patch StatusPatch) (bool, error)

	// CountByStatus groups all sessions by status (admin analytics).
	CountByStatus(ctx context.Context) (map[entity.SessionStatus]int64, error)
	// CountByCategory groups all sessions by skill category.
	CountByCategory(ctx context.Context) (map[entity.SkillCategory]int64, error)
}
