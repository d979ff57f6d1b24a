package service

import (
	"context"
	"testing"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAchievementRepo struct {
	contract.AchievementRepository
	grants map[uuid.UUID]map[string]bool
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{grants: map[uuid.UUID]map[string]bool{}}
}

func (r *fakeAchievementRepo) Grant(ctx context.Context, userId uuid.UUID, code string) (bool, error) {
	if r.grants[userId] == nil {
		r.grants[userId] = map[string]bool{}
	}
	if r.grants[userId][code] {
		return false, nil
	}
	r.grants[userId][code] = true
	return true, nil
}

func (r *fakeAchievementRepo) GrantedCodes(ctx context.Context, userId uuid.UUID) (map[string]bool, error) {
	out := map[string]bool{}
	for code := range r.grants[userId] {
		out[code] = true
	}
	return out, nil
}

type fakeAchievementUow struct {
	unitofwork.UnitOfWork
	users        *fakeUserRepo
	achievements *fakeAchievementRepo
}

func (u *fakeAchievementUow) UserRepository() contract.UserRepository { return u.users }
func (u *fakeAchievementUow) AchievementRepository() contract.AchievementRepository {
	return u.achievements
}

type fakeAchievementFactory struct{ uow *fakeAchievementUow }

func (f *fakeAchievementFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newAchievementFixture(stats entity.UserStats) (IAchievementService, *fakeAchievementRepo, uuid.UUID) {
	users := newFakeUserRepo()
	userId := uuid.New()
	users.users[userId] = &entity.User{Id: userId, Status: entity.UserStatusActive, Stats: stats}

	repo := newFakeAchievementRepo()
	factory := &fakeAchievementFactory{uow: &fakeAchievementUow{users: users, achievements: repo}}
	return NewAchievementService(factory, nil, nopLogger{}), repo, userId
}

func TestEvaluateAndGrant(t *testing.T) {
	ctx := context.Background()

	t.Run("first completed session grants both firsts", func(t *testing.T) {
		svc, _, userId := newAchievementFixture(entity.UserStats{
			SessionsHosted:    1,
			SessionsCompleted: 1,
			HoursTaught:       1,
		})

		codes, err := svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			entity.AchievementFirstSessionTutor,
			entity.AchievementFirstSessionStudent,
		}, codes)
	})

	t.Run("re-evaluation grants nothing new", func(t *testing.T) {
		svc, repo, userId := newAchievementFixture(entity.UserStats{SessionsHosted: 1})

		first, err := svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		assert.Empty(t, second)
		assert.Len(t, repo.grants[userId], len(first))
	})

	t.Run("thresholds fire on crossing not equality", func(t *testing.T) {
		svc, _, userId := newAchievementFixture(entity.UserStats{
			SessionsHosted:    7,
			SessionsCompleted: 5, // total 12, skipped exactly 10
			HoursTaught:       11.5,
		})

		codes, err := svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		assert.Contains(t, codes, entity.AchievementSessions10)
		assert.Contains(t, codes, entity.AchievementHours10)
		assert.NotContains(t, codes, entity.AchievementSessions25)
	})

	t.Run("top rated needs volume and quality", func(t *testing.T) {
		// 4 ratings averaging 5.0: quality without volume.
		svc, _, userId := newAchievementFixture(entity.UserStats{RatingCount: 4, RatingTotal: 20})
		codes, err := svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		assert.NotContains(t, codes, entity.AchievementTopRated)

		// 5 ratings averaging 4.6.
		svc, _, userId = newAchievementFixture(entity.UserStats{RatingCount: 5, RatingTotal: 23})
		codes, err = svc.EvaluateAndGrant(ctx, userId)
		require.NoError(t, err)
		assert.Contains(t, codes, entity.AchievementTopRated)
	})

	t.Run("unknown user is a quiet no-op", func(t *testing.T) {
		svc, _, _ := newAchievementFixture(entity.UserStats{})
		codes, err := svc.EvaluateAndGrant(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, codes)
	})
}
