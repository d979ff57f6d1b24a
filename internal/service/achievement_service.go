package service

import (
	"context"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"
	"peerlearn-be/pkg/events"

	"github.com/google/uuid"
)

// achievementRule maps a code to a predicate over current aggregates.
// Predicates are thresholds (>=), not equality checks, so a counter that
// skipped a value (retried increment) still fires the milestone.
type achievementRule struct {
	Code   string
	Earned func(stats entity.UserStats) bool
}

var achievementRules = []achievementRule{
	{entity.AchievementFirstSessionTutor, func(s entity.UserStats) bool { return s.SessionsHosted >= 1 }},
	{entity.AchievementFirstSessionStudent, func(s entity.UserStats) bool { return s.SessionsCompleted >= 1 }},
	{entity.AchievementSessions10, func(s entity.UserStats) bool { return s.SessionsHosted+s.SessionsCompleted >= 10 }},
	{entity.AchievementSessions25, func(s entity.UserStats) bool { return s.SessionsHosted+s.SessionsCompleted >= 25 }},
	{entity.AchievementHours10, func(s entity.UserStats) bool { return s.HoursTaught+s.HoursLearned >= 10 }},
	{entity.AchievementFirstReview, func(s entity.UserStats) bool { return s.RatingCount >= 1 }},
	{entity.AchievementTopRated, func(s entity.UserStats) bool { return s.RatingCount >= 5 && s.AverageRating() >= 4.5 }},
}

type IAchievementService interface {
	// EvaluateAndGrant reads the user's current aggregates and grants every
	// earned-but-missing achievement. Idempotent per (user, code): re-running
	// after a retry or concurrent completion grants nothing twice.
	EvaluateAndGrant(ctx context.Context, userId uuid.UUID) ([]string, error)
	GetUserAchievements(ctx context.Context, userId uuid.UUID) ([]dto.AchievementDTO, error)
}

type achievementService struct {
	uowFactory unitofwork.RepositoryFactory
	bus        *events.BusPublisher
	logger     logger.ILogger
}

func NewAchievementService(uowFactory unitofwork.RepositoryFactory, bus *events.BusPublisher, log logger.ILogger) IAchievementService {
	return &achievementService{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     log,
	}
}

func (s *achievementService) EvaluateAndGrant(ctx context.Context, userId uuid.UUID) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	granted, err := uow.AchievementRepository().GrantedCodes(ctx, userId)
	if err != nil {
		return nil, err
	}

	var newCodes []string
	for _, rule := range achievementRules {
		if granted[rule.Code] || !rule.Earned(user.Stats) {
			continue
		}
		// The unique index makes this a no-op when another completion for the
		// same user races us; only the actual inserter records the grant.
		inserted, err := uow.AchievementRepository().Grant(ctx, userId, rule.Code)
		if err != nil {
			return newCodes, err
		}
		if inserted {
			newCodes = append(newCodes, rule.Code)
		}
	}

	for _, code := range newCodes {
		s.notify(userId, code)
	}
	return newCodes, nil
}

func (s *achievementService) notify(userId uuid.UUID, code string) {
	if s.bus == nil {
		return
	}
	n := events.Notification{
		Id:      uuid.New(),
		UserId:  userId,
		Type:    "ACHIEVEMENT_GRANTED",
		Title:   "Achievement unlocked!",
		Message: "You earned a new achievement.",
		Metadata: map[string]interface{}{
			"code": code,
		},
	}
	if err := s.bus.Publish(events.TopicAchievement, n); err != nil {
		s.logger.Warn("Achievement", "Failed to publish achievement notification", map[string]interface{}{
			"user_id": userId,
			"code":    code,
			"error":   err.Error(),
		})
	}
}

func (s *achievementService) GetUserAchievements(ctx context.Context, userId uuid.UUID) ([]dto.AchievementDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	grants, err := uow.AchievementRepository().FindGrants(ctx, userId)
	if err != nil {
		return nil, err
	}
	catalog, err := uow.AchievementRepository().FindCatalog(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*entity.Achievement, len(catalog))
	for _, a := range catalog {
		byCode[a.Code] = a
	}

	result := make([]dto.AchievementDTO, 0, len(grants))
	for _, g := range grants {
		d := dto.AchievementDTO{
			Code:      g.Code,
			GrantedAt: g.GrantedAt,
		}
		if a, ok := byCode[g.Code]; ok {
			d.Name = a.Name
			d.Description = a.Description
			d.Points = a.Points
		}
		result = append(result, d)
	}
	return result, nil
}

// CatalogSeed returns the default achievement catalog for cmd/migrate.
func CatalogSeed() []*entity.Achievement {
	return []*entity.Achievement{
		{Code: entity.AchievementFirstSessionTutor, Name: "First Lesson Taught", Description: "Completed your first session as a tutor", Points: 10},
		{Code: entity.AchievementFirstSessionStudent, Name: "First Lesson Learned", Description: "Completed your first session as a student", Points: 10},
		{Code: entity.AchievementSessions10, Name: "Regular", Description: "Completed 10 sessions", Points: 25},
		{Code: entity.AchievementSessions25, Name: "Veteran", Description: "Completed 25 sessions", Points: 50},
		{Code: entity.AchievementHours10, Name: "Ten Hours In", Description: "Accrued 10 hours of tutoring", Points: 25},
		{Code: entity.AchievementFirstReview, Name: "First Impression", Description: "Received your first review", Points: 10},
		{Code: entity.AchievementTopRated, Name: "Top Rated", Description: "Average rating of 4.5+ over at least 5 reviews", Points: 50},
	}
}
