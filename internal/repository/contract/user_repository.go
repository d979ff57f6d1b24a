package contract

import (
	"context"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
)

// StatDeltas is applied as atomic SET x = x + ? increments, never
// read-modify-write, so concurrent completions cannot lose updates.
type StatDeltas struct {
	SessionsHosted    int
	SessionsCompleted int
	TotalPoints       int
	HoursTaught       float64
	HoursLearned      float64
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	IncrementStats(ctx context.Context, id uuid.UUID, deltas StatDeltas) error
	ApplyRating(ctx context.Context, id uuid.UUID, rating int) error

	// Skills
	AddSkill(ctx context.Context, skill *entity.UserSkill) error
	RemoveSkill(ctx context.Context, userId, skillId uuid.UUID) error
	FindSkills(ctx context.Context, userId uuid.UUID) ([]*entity.UserSkill, error)

	// Tokens
	CreateVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindVerificationToken(ctx context.Context, token string) (*entity.EmailVerificationToken, error)
	DeleteVerificationToken(ctx context.Context, id uuid.UUID) error
	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
