package contract

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindBySessionAndReviewer(ctx context.Context, sessionId, reviewerId uuid.UUID) (*entity.Review, error)
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
}
