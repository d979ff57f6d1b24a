package implementation

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/model"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) contract.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

func (r *reviewRepositoryImpl) Create(ctx context.Context, review *entity.Review) error {
	m := &model.Review{
		Id:         review.Id,
		SessionId:  review.SessionId,
		ReviewerId: review.ReviewerId,
		RevieweeId: review.RevieweeId,
		Rating:     review.Rating,
		Comment:    review.Comment,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	review.Id = m.Id
	review.CreatedAt = m.CreatedAt
	return nil
}

func (r *reviewRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error) {
	var m model.Review
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&m), nil
}

func (r *reviewRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	var ms []*model.Review
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	reviews := make([]*entity.Review, 0, len(ms))
	for _, m := range ms {
		reviews = append(reviews, r.mapToEntity(m))
	}
	return reviews, nil
}

func (r *reviewRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Review{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *reviewRepositoryImpl) FindBySessionAndReviewer(ctx context.Context, sessionId, reviewerId uuid.UUID) (*entity.Review, error) {
	var m model.Review
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND reviewer_id = ?", sessionId, reviewerId).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&m), nil
}

func (r *reviewRepositoryImpl) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	return r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ?", id).
		Update("hidden", hidden).Error
}

func (r *reviewRepositoryImpl) mapToEntity(m *model.Review) *entity.Review {
	return &entity.Review{
		Id:         m.Id,
		SessionId:  m.SessionId,
		ReviewerId: m.ReviewerId,
		RevieweeId: m.RevieweeId,
		Rating:     m.Rating,
		Comment:    m.Comment,
		Hidden:     m.Hidden,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
