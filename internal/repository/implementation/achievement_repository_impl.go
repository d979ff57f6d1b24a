package implementation

import (
	"context"
	"time"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/model"
	"peerlearn-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type achievementRepositoryImpl struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) contract.AchievementRepository {
	return &achievementRepositoryImpl{db: db}
}

func (r *achievementRepositoryImpl) FindCatalog(ctx context.Context) ([]*entity.Achievement, error) {
	var ms []*model.Achievement
	if err := r.db.WithContext(ctx).Order("points ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	achievements := make([]*entity.Achievement, 0, len(ms))
	for _, m := range ms {
		achievements = append(achievements, &entity.Achievement{
			Id:          m.Id,
			Code:        m.Code,
			Name:        m.Name,
			Description: m.Description,
			Points:      m.Points,
			CreatedAt:   m.CreatedAt,
		})
	}
	return achievements, nil
}

func (r *achievementRepositoryImpl) UpsertCatalog(ctx context.Context, achievements []*entity.Achievement) error {
	for _, a := range achievements {
		m := &model.Achievement{
			Id:          uuid.New(),
			Code:        a.Code,
			Name:        a.Name,
			Description: a.Description,
			Points:      a.Points,
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description", "points"}),
			}).
			Create(m).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Grant is idempotent: the unique (user_id, code) index plus DO NOTHING means
// a duplicate grant affects zero rows and reports false.
func (r *achievementRepositoryImpl) Grant(ctx context.Context, userId uuid.UUID, code string) (bool, error) {
	m := &model.AchievementGrant{
		Id:        uuid.New(),
		UserId:    userId,
		Code:      code,
		GrantedAt: time.Now(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *achievementRepositoryImpl) FindGrants(ctx context.Context, userId uuid.UUID) ([]*entity.AchievementGrant, error) {
	var ms []*model.AchievementGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("granted_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	grants := make([]*entity.AchievementGrant, 0, len(ms))
	for _, m := range ms {
		grants = append(grants, &entity.AchievementGrant{
			Id:        m.Id,
			UserId:    m.UserId,
			Code:      m.Code,
			GrantedAt: m.GrantedAt,
		})
	}
	return grants, nil
}

func (r *achievementRepositoryImpl) GrantedCodes(ctx context.Context, userId uuid.UUID) (map[string]bool, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&model.AchievementGrant{}).
		Where("user_id = ?", userId).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set, nil
}
