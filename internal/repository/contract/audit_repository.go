package contract

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"
)

type AuditRepository interface {
	Append(ctx context.Context, event *entity.AuditEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
