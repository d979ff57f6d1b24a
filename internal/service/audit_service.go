// FILE: internal/service/audit_service.go
package service

import (
	"context"
	"time"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"
	"peerlearn-be/pkg/events"
	pktNats "peerlearn-be/pkg/nats"

	"github.com/google/uuid"
)

// IAuditService is the audit sink. Record is fire-and-forget: every failure
// is swallowed and logged so the triggering operation is never blocked.
type IAuditService interface {
	Record(ctx context.Context, event entity.AuditEvent)
	GetLog(ctx context.Context, category string, limit, offset int) (*dto.AuditLogResponse, error)
}

type auditService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IAuditService {
	return &auditService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *auditService) Record(ctx context.Context, event entity.AuditEvent) {
	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditRepository().Append(ctx, &event); err != nil {
		s.logger.Error("Audit", "Failed to append audit event", map[string]interface{}{
			"action": event.Action,
			"error":  err.Error(),
		})
	}

	if s.eventPublisher == nil {
		return
	}
	payload := map[string]interface{}{
		"action":      event.Action,
		"category":    string(event.Category),
		"description": event.Description,
		"target_type": event.TargetType,
		"timestamp":   event.CreatedAt.Format(time.RFC3339),
	}
	if event.ActorId != nil {
		payload["actor_id"] = event.ActorId.String()
	}
	if event.TargetId != nil {
		payload["target_id"] = event.TargetId.String()
	}
	evt := events.BaseEvent{
		Type:       event.Action,
		Data:       payload,
		OccurredAt: event.CreatedAt,
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Audit", "Failed to publish audit event", map[string]interface{}{
			"action": event.Action,
			"error":  err.Error(),
		})
	}
}

func (s *auditService) GetLog(ctx context.Context, category string, limit, offset int) (*dto.AuditLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if category != "" {
		specs = append(specs, specification.Filter("category", category))
	}

	total, err := uow.AuditRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	rows, err := uow.AuditRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.AuditEventDTO, 0, len(rows))
	for _, e := range rows {
		dtos = append(dtos, &dto.AuditEventDTO{
			Id:          e.Id,
			ActorId:     e.ActorId,
			Action:      e.Action,
			Category:    string(e.Category),
			Description: e.Description,
			TargetType:  e.TargetType,
			TargetId:    e.TargetId,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		})
	}

	return &dto.AuditLogResponse{
		Events: dtos,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
