// FILE: internal/service/admin_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"
	"peerlearn-be/pkg/admin/dashboard"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	ListUsers(ctx context.Context, limit, offset int) (*dto.AdminUserListResponse, error)
	ModerateUser(ctx context.Context, adminId, userId uuid.UUID, req *dto.AdminModerateUserRequest) error
	ModerateReview(ctx context.Context, adminId, reviewId uuid.UUID, req *dto.AdminModerateReviewRequest) error
	GetAuditLog(ctx context.Context, category string, limit, offset int) (*dto.AuditLogResponse, error)
	GetSystemLogs(level string, limit, offset int) ([]logger.LogEntry, error)
	GetSystemLog(id string) (*logger.LogEntry, error)
}

type adminService struct {
	uowFactory   unitofwork.RepositoryFactory
	aggregator   *dashboard.Aggregator
	auditService IAuditService
	logger       logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	aggregator *dashboard.Aggregator,
	auditService IAuditService,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:   uowFactory,
		aggregator:   aggregator,
		auditService: auditService,
		logger:       log,
	}
}

func (s *adminService) GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.aggregator.GetStats(ctx, uow)
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) (*dto.AdminUserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 25
	}

	total, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	profiles := make([]*dto.UserProfileResponse, 0, len(users))
	for _, user := range users {
		skills, err := uow.UserRepository().FindSkills(ctx, user.Id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, mapProfile(user, skills, true))
	}
	return &dto.AdminUserListResponse{
		Users:  profiles,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *adminService) ModerateUser(ctx context.Context, adminId, userId uuid.UUID, req *dto.AdminModerateUserRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}
	if user.Role == entity.UserRoleAdmin {
		return errors.New("admins cannot be moderated")
	}

	var status entity.UserStatus
	switch req.Action {
	case "suspend":
		status = entity.UserStatusSuspended
	case "reactivate":
		status = entity.UserStatusActive
	default:
		return fmt.Errorf("unknown moderation action %q", req.Action)
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}
	s.aggregator.Invalidate()

	s.auditService.Record(ctx, entity.AuditEvent{
		ActorId:     &adminId,
		Action:      fmt.Sprintf("USER_%s", status),
		Category:    entity.AuditCategoryAdmin,
		Description: fmt.Sprintf("User %s moderated: %s", user.Email, req.Action),
		TargetType:  "user",
		TargetId:    &userId,
		Metadata: map[string]interface{}{
			"action": req.Action,
			"reason": req.Reason,
		},
	})
	return nil
}

func (s *adminService) ModerateReview(ctx context.Context, adminId, reviewId uuid.UUID, req *dto.AdminModerateReviewRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	review, err := uow.ReviewRepository().FindOne(ctx, specification.ByID{ID: reviewId})
	if err != nil {
		return err
	}
	if review == nil {
		return errors.New("review not found")
	}

	if err := uow.ReviewRepository().SetHidden(ctx, reviewId, req.Hidden); err != nil {
		return err
	}

	action := "REVIEW_UNHIDDEN"
	if req.Hidden {
		action = "REVIEW_HIDDEN"
	}
	s.auditService.Record(ctx, entity.AuditEvent{
		ActorId:     &adminId,
		Action:      action,
		Category:    entity.AuditCategoryAdmin,
		Description: fmt.Sprintf("Review %s moderated", reviewId),
		TargetType:  "review",
		TargetId:    &reviewId,
		Metadata: map[string]interface{}{
			"hidden": req.Hidden,
			"reason": req.Reason,
		},
	})
	return nil
}

func (s *adminService) GetAuditLog(ctx context.Context, category string, limit, offset int) (*dto.AuditLogResponse, error) {
	return s.auditService.GetLog(ctx, category, limit, offset)
}

// GetSystemLogs reads application log files for the admin dashboard.
// Separate from the audit log: this is operational output, not domain events.
func (s *adminService) GetSystemLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.logger.GetLogs(level, limit, offset)
}

func (s *adminService) GetSystemLog(id string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(id)
}
