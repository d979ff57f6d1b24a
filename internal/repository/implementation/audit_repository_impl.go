// FILE: internal/repository/implementation/audit_repository_impl.go
package implementation

import (
	"context"
	"encoding/json"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/model"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type auditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) contract.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

func (r *auditRepositoryImpl) Append(ctx context.Context, event *entity.AuditEvent) error {
	var meta datatypes.JSON
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		meta = datatypes.JSON(raw)
	}

	m := &model.AuditEvent{
		Id:          event.Id,
		ActorId:     event.ActorId,
		Action:      event.Action,
		Category:    string(event.Category),
		Description: event.Description,
		TargetType:  event.TargetType,
		TargetId:    event.TargetId,
		Metadata:    meta,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *auditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEvent, error) {
	var ms []*model.AuditEvent
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	events := make([]*entity.AuditEvent, 0, len(ms))
	for _, m := range ms {
		e := &entity.AuditEvent{
			Id:          m.Id,
			ActorId:     m.ActorId,
			Action:      m.Action,
			Category:    entity.AuditCategory(m.Category),
			Description: m.Description,
			TargetType:  m.TargetType,
			TargetId:    m.TargetId,
			CreatedAt:   m.CreatedAt,
		}
		if len(m.Metadata) > 0 {
			var meta map[string]interface{}
			if err := json.Unmarshal(m.Metadata, &meta); err == nil {
				e.Metadata = meta
			}
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *auditRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.AuditEvent{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Count(&count).Error
	return count, err
}
