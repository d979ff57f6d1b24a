// FILE: internal/service/review_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/lifecycle"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReviewService interface {
	CreateReview(ctx context.Context, reviewerId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetReviewsForUser(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	uowFactory         unitofwork.RepositoryFactory
	achievementService IAchievementService
	auditService       IAuditService
	logger             logger.ILogger
}

func NewReviewService(
	uowFactory unitofwork.RepositoryFactory,
	achievementService IAchievementService,
	auditService IAuditService,
	log logger.ILogger,
) IReviewService {
	return &reviewService{
		uowFactory:         uowFactory,
		achievementService: achievementService,
		auditService:       auditService,
		logger:             log,
	}
}

// CreateReview accepts one review per participant per completed session. The
// reviewee's rating aggregate is bumped with database-side arithmetic so
// concurrent reviews cannot lose counts.
func (s *reviewService) CreateReview(ctx context.Context, reviewerId uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, lifecycle.ErrNotFound
	}
	if !session.IsParticipant(reviewerId) {
		return nil, errors.New("only session participants may leave a review")
	}
	if session.Status != entity.SessionStatusCompleted {
		return nil, errors.New("reviews are only allowed on completed sessions")
	}

	existing, err := uow.ReviewRepository().FindBySessionAndReviewer(ctx, req.SessionId, reviewerId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("you already reviewed this session")
	}

	review := &entity.Review{
		Id:         uuid.New(),
		SessionId:  req.SessionId,
		ReviewerId: reviewerId,
		RevieweeId: session.OtherParticipant(reviewerId),
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := uow.ReviewRepository().Create(ctx, review); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().ApplyRating(ctx, review.RevieweeId, review.Rating); err != nil {
		s.logger.Error("Review", "Failed to apply rating aggregate", map[string]interface{}{
			"review_id":   review.Id,
			"reviewee_id": review.RevieweeId,
			"error":       err.Error(),
		})
	}
	if _, err := s.achievementService.EvaluateAndGrant(ctx, review.RevieweeId); err != nil {
		s.logger.Warn("Review", "Achievement evaluation failed", map[string]interface{}{
			"reviewee_id": review.RevieweeId,
			"error":       err.Error(),
		})
	}

	rid := review.Id
	s.auditService.Record(ctx, entity.AuditEvent{
		ActorId:     &reviewerId,
		Action:      "REVIEW_CREATED",
		Category:    entity.AuditCategoryReview,
		Description: fmt.Sprintf("Review with rating %d left on session %s", review.Rating, review.SessionId),
		TargetType:  "review",
		TargetId:    &rid,
		Metadata: map[string]interface{}{
			"session_id":  review.SessionId.String(),
			"reviewee_id": review.RevieweeId.String(),
			"rating":      review.Rating,
		},
	})

	return mapReview(review), nil
}

func (s *reviewService) GetReviewsForUser(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ReviewListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	base := []specification.Specification{
		specification.Filter("reviewee_id", userId),
		specification.Filter("hidden", false),
	}

	total, err := uow.ReviewRepository().Count(ctx, base...)
	if err != nil {
		return nil, err
	}

	reviews, err := uow.ReviewRepository().FindAll(ctx, append(base,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	average := 0.0
	if user != nil {
		average = user.Stats.AverageRating()
	}

	dtos := make([]*dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		dtos = append(dtos, mapReview(review))
	}
	return &dto.ReviewListResponse{
		Reviews:       dtos,
		Total:         total,
		AverageRating: average,
	}, nil
}

func mapReview(r *entity.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		Id:         r.Id,
		SessionId:  r.SessionId,
		ReviewerId: r.ReviewerId,
		RevieweeId: r.RevieweeId,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
