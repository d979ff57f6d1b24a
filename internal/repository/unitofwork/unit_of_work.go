package unitofwork

import (
	"context"

	"peerlearn-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	ReviewRepository() contract.ReviewRepository
	ConversationRepository() contract.ConversationRepository
	AchievementRepository() contract.AchievementRepository
	AuditRepository() contract.AuditRepository
}
