package service

import (
	"context"
	"testing"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/lifecycle"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	contract.ReviewRepository
	reviews []*entity.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	cp := *review
	r.reviews = append(r.reviews, &cp)
	return nil
}

func (r *fakeReviewRepo) FindBySessionAndReviewer(ctx context.Context, sessionId, reviewerId uuid.UUID) (*entity.Review, error) {
	for _, review := range r.reviews {
		if review.SessionId == sessionId && review.ReviewerId == reviewerId {
			cp := *review
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	out := make([]*entity.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		cp := *review
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeReviewRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.reviews)), nil
}

type reviewFixture struct {
	svc          IReviewService
	sessions     *fakeSessionRepo
	users        *fakeUserRepo
	reviews      *fakeReviewRepo
	achievements *fakeAchievementService
	audit        *fakeAuditService
	tutorId      uuid.UUID
	studentId    uuid.UUID
	sessionId    uuid.UUID
}

func newReviewFixture(t *testing.T, status entity.SessionStatus) *reviewFixture {
	t.Helper()

	f := &reviewFixture{
		sessions:     newFakeSessionRepo(),
		users:        newFakeUserRepo(),
		reviews:      &fakeReviewRepo{},
		achievements: &fakeAchievementService{},
		audit:        &fakeAuditService{},
		tutorId:      uuid.New(),
		studentId:    uuid.New(),
		sessionId:    uuid.New(),
	}
	f.users.users[f.tutorId] = &entity.User{Id: f.tutorId, Status: entity.UserStatusActive}
	f.users.users[f.studentId] = &entity.User{Id: f.studentId, Status: entity.UserStatusActive}
	f.sessions.sessions[f.sessionId] = &entity.Session{
		Id:        f.sessionId,
		TutorId:   f.tutorId,
		StudentId: f.studentId,
		Title:     "Calculus review",
		Status:    status,
	}

	factory := &fakeFactory{uow: &fakeUow{sessions: f.sessions, users: f.users, reviews: f.reviews}}
	f.svc = NewReviewService(factory, f.achievements, f.audit, nopLogger{})
	return f
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("student reviews tutor after completion", func(t *testing.T) {
		f := newReviewFixture(t, entity.SessionStatusCompleted)

		res, err := f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{
			SessionId: f.sessionId,
			Rating:    5,
			Comment:   "Great explanations",
		})
		require.NoError(t, err)

		assert.Equal(t, f.studentId, res.ReviewerId)
		assert.Equal(t, f.tutorId, res.RevieweeId)
		assert.Equal(t, 5, res.Rating)

		// Rating lands on the reviewee's aggregate.
		tutor := f.users.users[f.tutorId]
		assert.Equal(t, 1, tutor.Stats.RatingCount)
		assert.Equal(t, 5, tutor.Stats.RatingTotal)

		assert.Equal(t, []uuid.UUID{f.tutorId}, f.achievements.evaluated)
		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "REVIEW_CREATED", f.audit.events[0].Action)
	})

	t.Run("tutor reviews student symmetrically", func(t *testing.T) {
		f := newReviewFixture(t, entity.SessionStatusCompleted)

		res, err := f.svc.CreateReview(ctx, f.tutorId, &dto.CreateReviewRequest{
			SessionId: f.sessionId,
			Rating:    4,
		})
		require.NoError(t, err)
		assert.Equal(t, f.studentId, res.RevieweeId)
	})

	t.Run("second review for same session is rejected", func(t *testing.T) {
		f := newReviewFixture(t, entity.SessionStatusCompleted)

		_, err := f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 5})
		require.NoError(t, err)

		_, err = f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already reviewed")

		// Both sides reviewing once is still fine.
		_, err = f.svc.CreateReview(ctx, f.tutorId, &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 4})
		require.NoError(t, err)
	})

	t.Run("non-participant cannot review", func(t *testing.T) {
		f := newReviewFixture(t, entity.SessionStatusCompleted)
		_, err := f.svc.CreateReview(ctx, uuid.New(), &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "participants")
	})

	t.Run("uncompleted session cannot be reviewed", func(t *testing.T) {
		for _, status := range []entity.SessionStatus{
			entity.SessionStatusPending,
			entity.SessionStatusConfirmed,
			entity.SessionStatusInProgress,
			entity.SessionStatusCancelled,
		} {
			f := newReviewFixture(t, status)
			_, err := f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 5})
			require.Error(t, err, "status %s", status)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newReviewFixture(t, entity.SessionStatusCompleted)
		_, err := f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{SessionId: uuid.New(), Rating: 5})
		require.ErrorIs(t, err, lifecycle.ErrNotFound)
	})
}

func TestGetReviewsForUser(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t, entity.SessionStatusCompleted)

	_, err := f.svc.CreateReview(ctx, f.studentId, &dto.CreateReviewRequest{SessionId: f.sessionId, Rating: 4})
	require.NoError(t, err)

	res, err := f.svc.GetReviewsForUser(ctx, f.tutorId, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Reviews, 1)
	assert.InDelta(t, 4.0, res.AverageRating, 0.001)
}
