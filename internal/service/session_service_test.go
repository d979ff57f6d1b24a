package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/lifecycle"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes -----------------------------------------------------------------

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
	// beforeUpdate runs at the top of UpdateStatus, simulating a concurrent
	// writer that slips in between the service's read and its write.
	beforeUpdate func()
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	cp := *s
	cp.CreatedAt = time.Now()
	r.sessions[s.Id] = &cp
	s.CreatedAt = cp.CreatedAt
	return nil
}

func (r *fakeSessionRepo) match(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.ByTutor:
			if s.TutorId != sp.UserID {
				return false
			}
		case specification.ByStudent:
			if s.StudentId != sp.UserID {
				return false
			}
		case specification.ByParticipant:
			if !s.IsParticipant(sp.UserID) {
				return false
			}
		case specification.ByStatus:
			if string(s.Status) != sp.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, s := range r.sessions {
		if r.match(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, s := range r.sessions {
		if r.match(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if r.match(s, specs) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.SessionStatus, patch contract.StatusPatch) (bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	legal := false
	for _, f := range from {
		if s.Status == f {
			legal = true
			break
		}
	}
	if !legal {
		return false, nil
	}
	s.Status = patch.NewStatus
	s.StatusHistory = append(s.StatusHistory, patch.History)
	now := patch.History.ChangedAt
	if patch.ActualStart {
		s.ActualStartTime = &now
	}
	if patch.ActualEnd {
		s.ActualEndTime = &now
	}
	if patch.Points != nil {
		p := *patch.Points
		s.PointsAwarded = &p
	}
	if patch.Cancellation != nil {
		c := *patch.Cancellation
		s.Cancellation = &c
	}
	s.UpdatedAt = now
	return true, nil
}

func (r *fakeSessionRepo) CountByStatus(ctx context.Context) (map[entity.SessionStatus]int64, error) {
	out := map[entity.SessionStatus]int64{}
	for _, s := range r.sessions {
		out[s.Status]++
	}
	return out, nil
}

func (r *fakeSessionRepo) CountByCategory(ctx context.Context) (map[entity.SkillCategory]int64, error) {
	out := map[entity.SkillCategory]int64{}
	for _, s := range r.sessions {
		out[s.SkillCategory]++
	}
	return out, nil
}

type fakeUserRepo struct {
	contract.UserRepository
	users        map[uuid.UUID]*entity.User
	incrementErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if u, found := r.users[byID.ID]; found {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) IncrementStats(ctx context.Context, id uuid.UUID, deltas contract.StatDeltas) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Stats.SessionsHosted += deltas.SessionsHosted
	u.Stats.SessionsCompleted += deltas.SessionsCompleted
	u.Stats.TotalPoints += deltas.TotalPoints
	u.Stats.HoursTaught += deltas.HoursTaught
	u.Stats.HoursLearned += deltas.HoursLearned
	return nil
}

func (r *fakeUserRepo) ApplyRating(ctx context.Context, id uuid.UUID, rating int) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Stats.RatingCount++
	u.Stats.RatingTotal += rating
	return nil
}

type fakeUow struct {
	sessions *fakeSessionRepo
	users    *fakeUserRepo
	reviews  contract.ReviewRepository
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUow) SessionRepository() contract.SessionRepository         { return u.sessions }
func (u *fakeUow) ReviewRepository() contract.ReviewRepository           { return u.reviews }
func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return nil
}
func (u *fakeUow) AchievementRepository() contract.AchievementRepository { return nil }
func (u *fakeUow) AuditRepository() contract.AuditRepository             { return nil }

type fakeFactory struct{ uow *fakeUow }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeMessageService struct {
	IMessageService
	posts   []string
	postErr error
}

func (m *fakeMessageService) PostSystemMessage(ctx context.Context, a, b uuid.UUID, text string, relatedSessionId uuid.UUID) error {
	if m.postErr != nil {
		return m.postErr
	}
	m.posts = append(m.posts, text)
	return nil
}

type fakeAchievementService struct {
	IAchievementService
	evaluated []uuid.UUID
}

func (a *fakeAchievementService) EvaluateAndGrant(ctx context.Context, userId uuid.UUID) ([]string, error) {
	a.evaluated = append(a.evaluated, userId)
	return nil, nil
}

type fakeAuditService struct {
	IAuditService
	events []entity.AuditEvent
}

func (a *fakeAuditService) Record(ctx context.Context, event entity.AuditEvent) {
	a.events = append(a.events, event)
}

// --- Fixture ---------------------------------------------------------------

type sessionFixture struct {
	svc          ISessionService
	sessions     *fakeSessionRepo
	users        *fakeUserRepo
	messages     *fakeMessageService
	achievements *fakeAchievementService
	audit        *fakeAuditService
	tutorId      uuid.UUID
	studentId    uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		sessions:     newFakeSessionRepo(),
		users:        newFakeUserRepo(),
		messages:     &fakeMessageService{},
		achievements: &fakeAchievementService{},
		audit:        &fakeAuditService{},
		tutorId:      uuid.New(),
		studentId:    uuid.New(),
	}
	f.users.users[f.tutorId] = &entity.User{Id: f.tutorId, FullName: "Tutor", Status: entity.UserStatusActive}
	f.users.users[f.studentId] = &entity.User{Id: f.studentId, FullName: "Student", Status: entity.UserStatusActive}

	factory := &fakeFactory{uow: &fakeUow{sessions: f.sessions, users: f.users}}
	f.svc = NewSessionService(factory, f.messages, f.achievements, f.audit, nopLogger{})
	return f
}

func (f *sessionFixture) seedSession(status entity.SessionStatus) uuid.UUID {
	id := uuid.New()
	f.sessions.sessions[id] = &entity.Session{
		Id:              id,
		TutorId:         f.tutorId,
		StudentId:       f.studentId,
		Title:           "Intro to Goroutines",
		SkillName:       "Go",
		SkillCategory:   entity.SkillCategoryTechnology,
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Format:          entity.SessionFormatVirtual,
		Status:          status,
		StatusHistory: []entity.StatusChange{
			{Status: entity.SessionStatusPending, ChangedAt: time.Now(), ChangedBy: f.studentId},
		},
		CreatedAt: time.Now(),
	}
	return id
}

func validRequest(tutorId uuid.UUID) *dto.RequestSessionRequest {
	return &dto.RequestSessionRequest{
		TutorId:         tutorId,
		Title:           "Intro to Goroutines",
		SkillName:       "Go",
		SkillCategory:   "technology",
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Format:          "virtual",
	}
}

// --- Tests -----------------------------------------------------------------

func TestRequestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending session with creation history entry", func(t *testing.T) {
		f := newSessionFixture(t)

		res, err := f.svc.RequestSession(ctx, f.studentId, validRequest(f.tutorId))
		require.NoError(t, err)

		assert.Equal(t, "pending", res.Status)
		require.Len(t, res.StatusHistory, 1)
		assert.Equal(t, "pending", res.StatusHistory[0].Status)
		assert.Equal(t, f.studentId, res.StatusHistory[0].ChangedBy)
		assert.Empty(t, res.Warnings)

		require.Len(t, f.messages.posts, 1)
		assert.Contains(t, f.messages.posts[0], "New session request")
		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "SESSION_REQUESTED", f.audit.events[0].Action)
	})

	t.Run("rejects booking yourself", func(t *testing.T) {
		f := newSessionFixture(t)
		_, err := f.svc.RequestSession(ctx, f.studentId, validRequest(f.studentId))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yourself")
	})

	t.Run("rejects unknown skill category", func(t *testing.T) {
		f := newSessionFixture(t)
		req := validRequest(f.tutorId)
		req.SkillCategory = "astrology"
		_, err := f.svc.RequestSession(ctx, f.studentId, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("rejects out of range duration", func(t *testing.T) {
		f := newSessionFixture(t)
		req := validRequest(f.tutorId)
		req.DurationMinutes = 10
		_, err := f.svc.RequestSession(ctx, f.studentId, req)
		require.Error(t, err)

		req.DurationMinutes = 240
		_, err = f.svc.RequestSession(ctx, f.studentId, req)
		require.Error(t, err)
	})

	t.Run("rejects suspended tutor", func(t *testing.T) {
		f := newSessionFixture(t)
		f.users.users[f.tutorId].Status = entity.UserStatusSuspended
		_, err := f.svc.RequestSession(ctx, f.studentId, validRequest(f.tutorId))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not accepting")
	})

	t.Run("failed notification surfaces as warning not error", func(t *testing.T) {
		f := newSessionFixture(t)
		f.messages.postErr = errors.New("broker down")

		res, err := f.svc.RequestSession(ctx, f.studentId, validRequest(f.tutorId))
		require.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "notify")
	})
}

func TestConfirmSession(t *testing.T) {
	ctx := context.Background()

	t.Run("tutor confirms pending session", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusPending)

		res, err := f.svc.ConfirmSession(ctx, id, f.tutorId)
		require.NoError(t, err)

		assert.Equal(t, "confirmed", res.Status)
		require.Len(t, res.StatusHistory, 2)
		assert.Equal(t, "confirmed", res.StatusHistory[1].Status)
		assert.Equal(t, f.tutorId, res.StatusHistory[1].ChangedBy)

		require.Len(t, f.messages.posts, 1)
		assert.Contains(t, f.messages.posts[0], "confirmed")
		require.Len(t, f.audit.events, 1)
		assert.Equal(t, "SESSION_confirmed", f.audit.events[0].Action)
	})

	t.Run("student cannot confirm", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusPending)

		_, err := f.svc.ConfirmSession(ctx, id, f.studentId)
		var unauthorized *lifecycle.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("outsider cannot act at all", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusPending)

		_, err := f.svc.ConfirmSession(ctx, id, uuid.New())
		var unauthorized *lifecycle.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("unknown session id", func(t *testing.T) {
		f := newSessionFixture(t)
		_, err := f.svc.ConfirmSession(ctx, uuid.New(), f.tutorId)
		require.ErrorIs(t, err, lifecycle.ErrNotFound)
	})
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	id := f.seedSession(entity.SessionStatusConfirmed)

	res, err := f.svc.StartSession(ctx, id, f.studentId)
	require.NoError(t, err)

	assert.Equal(t, "in-progress", res.Status)
	require.NotNil(t, res.ActualStartTime)
	// Starting is a quiet transition: no notice, no counters.
	assert.Empty(t, f.messages.posts)
	assert.Empty(t, f.achievements.evaluated)
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("default points and counters", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusInProgress)

		res, err := f.svc.CompleteSession(ctx, id, f.tutorId, nil)
		require.NoError(t, err)

		assert.Equal(t, "completed", res.Status)
		require.NotNil(t, res.ActualEndTime)
		require.NotNil(t, res.PointsAwarded)
		assert.Equal(t, entity.DefaultTutorPoints, res.PointsAwarded.Tutor)
		assert.Equal(t, entity.DefaultStudentPoints, res.PointsAwarded.Student)

		tutor := f.users.users[f.tutorId]
		assert.Equal(t, 1, tutor.Stats.SessionsHosted)
		assert.Equal(t, 0, tutor.Stats.SessionsCompleted)
		assert.Equal(t, entity.DefaultTutorPoints, tutor.Stats.TotalPoints)
		assert.InDelta(t, 1.0, tutor.Stats.HoursTaught, 0.001)

		student := f.users.users[f.studentId]
		assert.Equal(t, 1, student.Stats.SessionsCompleted)
		assert.Equal(t, 0, student.Stats.SessionsHosted)
		assert.Equal(t, entity.DefaultStudentPoints, student.Stats.TotalPoints)
		assert.InDelta(t, 1.0, student.Stats.HoursLearned, 0.001)

		// Both participants get an achievement evaluation.
		assert.ElementsMatch(t, []uuid.UUID{f.tutorId, f.studentId}, f.achievements.evaluated)
	})

	t.Run("explicit point override", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusInProgress)

		res, err := f.svc.CompleteSession(ctx, id, f.tutorId, &dto.CompleteSessionRequest{
			TutorPoints:   50,
			StudentPoints: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, 50, res.PointsAwarded.Tutor)
		assert.Equal(t, 30, res.PointsAwarded.Student)
		assert.Equal(t, 50, f.users.users[f.tutorId].Stats.TotalPoints)
	})

	t.Run("complete directly from confirmed", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusConfirmed)

		res, err := f.svc.CompleteSession(ctx, id, f.studentId, nil)
		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
	})

	t.Run("second completion is rejected and awards nothing twice", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusInProgress)

		_, err := f.svc.CompleteSession(ctx, id, f.tutorId, nil)
		require.NoError(t, err)

		_, err = f.svc.CompleteSession(ctx, id, f.studentId, nil)
		var invalid *lifecycle.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)

		assert.Equal(t, entity.DefaultTutorPoints, f.users.users[f.tutorId].Stats.TotalPoints)
		assert.Equal(t, 1, f.users.users[f.tutorId].Stats.SessionsHosted)
	})

	t.Run("concurrent completion loses cleanly", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusInProgress)

		// The racing writer completes the session after our read but before
		// our conditional write.
		f.sessions.beforeUpdate = func() {
			f.sessions.beforeUpdate = nil
			s := f.sessions.sessions[id]
			s.Status = entity.SessionStatusCompleted
		}

		_, err := f.svc.CompleteSession(ctx, id, f.studentId, nil)
		var already *lifecycle.AlreadyCompletedError
		require.ErrorAs(t, err, &already)

		// The loser applies no side effects.
		assert.Equal(t, 0, f.users.users[f.tutorId].Stats.TotalPoints)
		assert.Empty(t, f.achievements.evaluated)
	})

	t.Run("counter failure keeps completed status with warning", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusInProgress)
		f.users.incrementErr = errors.New("db timeout")

		res, err := f.svc.CompleteSession(ctx, id, f.tutorId, nil)
		require.NoError(t, err)

		assert.Equal(t, "completed", res.Status)
		require.NotEmpty(t, res.Warnings)
		assert.Contains(t, res.Warnings[0], "counters")
	})
}

func TestCancelSession(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel records who and why", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusConfirmed)

		res, err := f.svc.CancelSession(ctx, id, f.studentId, "schedule conflict")
		require.NoError(t, err)

		assert.Equal(t, "cancelled", res.Status)
		require.NotNil(t, res.Cancellation)
		assert.Equal(t, f.studentId, res.Cancellation.CancelledBy)
		assert.Equal(t, "schedule conflict", res.Cancellation.Reason)

		require.Len(t, f.messages.posts, 1)
		assert.Contains(t, f.messages.posts[0], "schedule conflict")

		// Cancellation never awards points.
		assert.Equal(t, 0, f.users.users[f.tutorId].Stats.TotalPoints)
		assert.Empty(t, f.achievements.evaluated)
	})

	t.Run("cannot cancel a completed session", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusCompleted)

		_, err := f.svc.CancelSession(ctx, id, f.tutorId, "")
		var invalid *lifecycle.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("cannot cancel twice", func(t *testing.T) {
		f := newSessionFixture(t)
		id := f.seedSession(entity.SessionStatusPending)

		_, err := f.svc.CancelSession(ctx, id, f.tutorId, "first")
		require.NoError(t, err)

		_, err = f.svc.CancelSession(ctx, id, f.studentId, "second")
		var invalid *lifecycle.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	id := f.seedSession(entity.SessionStatusPending)

	res, err := f.svc.GetSession(ctx, id, f.studentId)
	require.NoError(t, err)
	assert.Equal(t, id, res.Id)

	// Non-participants see not-found, not forbidden.
	_, err = f.svc.GetSession(ctx, id, uuid.New())
	require.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	asTutor := f.seedSession(entity.SessionStatusPending)
	asTutor2 := f.seedSession(entity.SessionStatusCompleted)
	_ = asTutor
	_ = asTutor2

	// A session where the fixture tutor is nobody.
	other := uuid.New()
	f.sessions.sessions[uuid.New()] = &entity.Session{
		Id: uuid.New(), TutorId: other, StudentId: other,
		Status: entity.SessionStatusPending,
	}

	t.Run("participant default sees own sessions only", func(t *testing.T) {
		res, err := f.svc.ListSessions(ctx, f.tutorId, SessionListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		assert.Len(t, res.Sessions, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := f.svc.ListSessions(ctx, f.tutorId, SessionListFilter{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
	})

	t.Run("student role filter excludes tutor side", func(t *testing.T) {
		res, err := f.svc.ListSessions(ctx, f.tutorId, SessionListFilter{Role: "student"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Total)
	})
}
