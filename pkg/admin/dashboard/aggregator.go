package dashboard

import (
	"context"
	"time"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

const statsCacheKey = "dashboard_stats"

// Aggregator builds the platform analytics snapshot. Snapshots are cached
// for a short TTL because every count is a full-table aggregate.
type Aggregator struct {
	cache  *cache.Cache
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(log logger.ILogger) *Aggregator {
	return &Aggregator{
		cache:  cache.New(1*time.Minute, 10*time.Minute),
		logger: log,
	}
}

// GetStats returns the cached snapshot when fresh, otherwise recomputes.
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardResponse, error) {
	if x, found := a.cache.Get(statsCacheKey); found {
		return x.(*dto.AdminDashboardResponse), nil
	}

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := uow.UserRepository().Count(ctx, specification.ActiveUsers{})
	if err != nil {
		return nil, err
	}
	totalSessions, err := uow.SessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := uow.SessionRepository().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := uow.SessionRepository().CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	totalReviews, err := uow.ReviewRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	topTutors, err := a.topTutors(ctx, uow)
	if err != nil {
		a.logger.Warn("Dashboard", "Top tutor ranking failed", map[string]interface{}{
			"error": err.Error(),
		})
		topTutors = nil
	}

	statusMap := make(map[string]int64, len(byStatus))
	for status, count := range byStatus {
		statusMap[string(status)] = count
	}
	categoryMap := make(map[string]int64, len(byCategory))
	for category, count := range byCategory {
		categoryMap[string(category)] = count
	}

	stats := &dto.AdminDashboardResponse{
		TotalUsers:         totalUsers,
		ActiveUsers:        activeUsers,
		TotalSessions:      totalSessions,
		SessionsByStatus:   statusMap,
		SessionsByCategory: categoryMap,
		TotalReviews:       totalReviews,
		TopTutors:          topTutors,
		GeneratedAt:        time.Now(),
	}
	a.cache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (a *Aggregator) Invalidate() {
	a.cache.Delete(statsCacheKey)
}

func (a *Aggregator) topTutors(ctx context.Context, uow unitofwork.UnitOfWork) ([]dto.TopTutorDTO, error) {
	users, err := uow.UserRepository().FindAll(ctx,
		specification.ActiveUsers{},
		specification.OrderBy{Field: "sessions_hosted", Desc: true},
		specification.Pagination{Limit: 5},
	)
	if err != nil {
		return nil, err
	}

	tutors := make([]dto.TopTutorDTO, 0, len(users))
	for _, user := range users {
		if user.Stats.SessionsHosted == 0 {
			continue
		}
		tutors = append(tutors, dto.TopTutorDTO{
			UserId:         user.Id,
			FullName:       user.FullName,
			SessionsHosted: user.Stats.SessionsHosted,
			AverageRating:  user.Stats.AverageRating(),
		})
	}
	return tutors, nil
}
