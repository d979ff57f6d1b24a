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

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := &model.User{
		Id:           user.Id,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Bio:          user.Bio,
		Role:         string(user.Role),
		Status:       string(user.Status),
		AvatarURL:    user.AvatarURL,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.Id = m.Id
	user.CreatedAt = m.CreatedAt
	return nil
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
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

func (r *userRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var ms []*model.User
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, r.mapToEntity(m))
	}
	return users, nil
}

func (r *userRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.User{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]interface{}{
			"full_name":  user.FullName,
			"bio":        user.Bio,
			"avatar_url": user.AvatarURL,
		}).Error
}

func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *userRepositoryImpl) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": gorm.Expr("now()"),
			"status":            string(entity.UserStatusActive),
		}).Error
}

// IncrementStats applies each nonzero delta as SET x = x + ?. Lost updates
// under concurrent completions are impossible because the arithmetic happens
// in the database.
func (r *userRepositoryImpl) IncrementStats(ctx context.Context, id uuid.UUID, deltas contract.StatDeltas) error {
	updates := map[string]interface{}{}
	if deltas.SessionsHosted != 0 {
		updates["sessions_hosted"] = gorm.Expr("sessions_hosted + ?", deltas.SessionsHosted)
	}
	if deltas.SessionsCompleted != 0 {
		updates["sessions_completed"] = gorm.Expr("sessions_completed + ?", deltas.SessionsCompleted)
	}
	if deltas.TotalPoints != 0 {
		updates["total_points"] = gorm.Expr("total_points + ?", deltas.TotalPoints)
	}
	if deltas.HoursTaught != 0 {
		updates["hours_taught"] = gorm.Expr("hours_taught + ?", deltas.HoursTaught)
	}
	if deltas.HoursLearned != 0 {
		updates["hours_learned"] = gorm.Expr("hours_learned + ?", deltas.HoursLearned)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *userRepositoryImpl) ApplyRating(ctx context.Context, id uuid.UUID, rating int) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_count": gorm.Expr("rating_count + 1"),
			"rating_total": gorm.Expr("rating_total + ?", rating),
		}).Error
}

func (r *userRepositoryImpl) AddSkill(ctx context.Context, skill *entity.UserSkill) error {
	m := &model.UserSkill{
		Id:       skill.Id,
		UserId:   skill.UserId,
		Name:     skill.Name,
		Category: string(skill.Category),
		Kind:     string(skill.Kind),
		Level:    skill.Level,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	skill.Id = m.Id
	skill.CreatedAt = m.CreatedAt
	return nil
}

func (r *userRepositoryImpl) RemoveSkill(ctx context.Context, userId, skillId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", skillId, userId).
		Delete(&model.UserSkill{}).Error
}

func (r *userRepositoryImpl) FindSkills(ctx context.Context, userId uuid.UUID) ([]*entity.UserSkill, error) {
	var ms []*model.UserSkill
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Find(&ms).Error; err != nil {
		return nil, err
	}

	skills := make([]*entity.UserSkill, 0, len(ms))
	for _, m := range ms {
		skills = append(skills, &entity.UserSkill{
			Id:        m.Id,
			UserId:    m.UserId,
			Name:      m.Name,
			Category:  entity.SkillCategory(m.Category),
			Kind:      entity.SkillKind(m.Kind),
			Level:     m.Level,
			CreatedAt: m.CreatedAt,
		})
	}
	return skills, nil
}

func (r *userRepositoryImpl) CreateVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	m := &model.EmailVerificationToken{
		Id:        token.Id,
		UserId:    token.UserId,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *userRepositoryImpl) FindVerificationToken(ctx context.Context, token string) (*entity.EmailVerificationToken, error) {
	var m model.EmailVerificationToken
	if err := r.db.WithContext(ctx).Scopes(specification.ByToken{Token: token}.Apply).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity.EmailVerificationToken{
		Id:        m.Id,
		UserId:    m.UserId,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *userRepositoryImpl) DeleteVerificationToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.EmailVerificationToken{}, id).Error
}

func (r *userRepositoryImpl) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	m := &model.UserRefreshToken{
		Id:        token.Id,
		UserId:    token.UserId,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		Revoked:   token.Revoked,
		IpAddress: token.IpAddress,
		UserAgent: token.UserAgent,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *userRepositoryImpl) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error) {
	var m model.UserRefreshToken
	if err := r.db.WithContext(ctx).Scopes(specification.ByTokenHash{Hash: hash}.Apply).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity.UserRefreshToken{
		Id:        m.Id,
		UserId:    m.UserId,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		IpAddress: m.IpAddress,
		UserAgent: m.UserAgent,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *userRepositoryImpl) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.UserRefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (r *userRepositoryImpl) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	m := &model.PasswordResetToken{
		Id:        token.Id,
		UserId:    token.UserId,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Used:      token.Used,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *userRepositoryImpl) FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var m model.PasswordResetToken
	if err := r.db.WithContext(ctx).Scopes(specification.ByToken{Token: token}.Apply).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity.PasswordResetToken{
		Id:        m.Id,
		UserId:    m.UserId,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *userRepositoryImpl) MarkResetTokenUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepositoryImpl) mapToEntity(m *model.User) *entity.User {
	return &entity.User{
		Id:              m.Id,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FullName:        m.FullName,
		Bio:             m.Bio,
		Role:            entity.UserRole(m.Role),
		Status:          entity.UserStatus(m.Status),
		EmailVerified:   m.EmailVerified,
		EmailVerifiedAt: m.EmailVerifiedAt,
		AvatarURL:       m.AvatarURL,
		Stats: entity.UserStats{
			SessionsHosted:    m.SessionsHosted,
			SessionsCompleted: m.SessionsCompleted,
			TotalPoints:       m.TotalPoints,
			HoursTaught:       m.HoursTaught,
			HoursLearned:      m.HoursLearned,
			RatingCount:       m.RatingCount,
			RatingTotal:       m.RatingTotal,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
