// FILE: internal/repository/contract/achievement_repository.go
package contract

import (
	"context"

	"peerlearn-be/internal/entity"

	"github.com/google/uuid"
)

type AchievementRepository interface {
	FindCatalog(ctx context.Context) ([]*entity.Achievement, error)
	UpsertCatalog(ctx context.Context, achievements []*entity.Achievement) error

	// Grant inserts a grant row with ON CONFLICT DO NOTHING on (user, code).
	// Returns true only when the row was newly inserted, so a retried or
	// concurrent grant of the same achievement is a no-op.
	Grant(ctx context.Context, userId uuid.UUID, code string) (bool, error)
	FindGrants(ctx context.Context, userId uuid.UUID) ([]*entity.AchievementGrant, error)
	GrantedCodes(ctx context.Context, userId uuid.UUID) (map[string]bool, error)
}
