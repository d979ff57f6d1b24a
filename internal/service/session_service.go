// FILE: internal/service/session_service.go
// Session lifecycle orchestrator. The pure transition rules live in
// internal/lifecycle; this service loads state, persists decisions through
// the conditional status write, and runs the best-effort side effect chain
// (counters, achievements, conversation notice, audit) in that order.
package service

import (
	"context"
	"fmt"
	"time"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/lifecycle"
	"peerlearn-be/internal/pkg/logger"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type SessionListFilter struct {
	Role     string // "", "tutor", "student"
	Status   string
	Category string
	Upcoming bool // only sessions scheduled from now on
	Limit    int
	Offset   int
}

type ISessionService interface {
	RequestSession(ctx context.Context, studentId uuid.UUID, req *dto.RequestSessionRequest) (*dto.SessionResponse, error)
	ConfirmSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error)
	StartSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error)
	CompleteSession(ctx context.Context, sessionId, actorId uuid.UUID, req *dto.CompleteSessionRequest) (*dto.SessionResponse, error)
	CancelSession(ctx context.Context, sessionId, actorId uuid.UUID, reason string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID, filter SessionListFilter) (*dto.SessionListResponse, error)
}

type sessionService struct {
	uowFactory         unitofwork.RepositoryFactory
	messageService     IMessageService
	achievementService IAchievementService
	auditService       IAuditService
	logger             logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	messageService IMessageService,
	achievementService IAchievementService,
	auditService IAuditService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:         uowFactory,
		messageService:     messageService,
		achievementService: achievementService,
		auditService:       auditService,
		logger:             log,
	}
}

func (s *sessionService) RequestSession(ctx context.Context, studentId uuid.UUID, req *dto.RequestSessionRequest) (*dto.SessionResponse, error) {
	if req.TutorId == studentId {
		return nil, fmt.Errorf("cannot request a session with yourself")
	}
	category := entity.SkillCategory(req.SkillCategory)
	if !entity.ValidSkillCategory(category) {
		return nil, fmt.Errorf("unknown skill category %q", req.SkillCategory)
	}
	if req.DurationMinutes < entity.SessionDurationMin || req.DurationMinutes > entity.SessionDurationMax {
		return nil, fmt.Errorf("duration must be between %d and %d minutes", entity.SessionDurationMin, entity.SessionDurationMax)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	tutor, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.TutorId})
	if err != nil {
		return nil, err
	}
	if tutor == nil {
		return nil, fmt.Errorf("tutor not found")
	}
	if tutor.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("tutor is not accepting sessions")
	}

	session := &entity.Session{
		Id:              uuid.New(),
		TutorId:         req.TutorId,
		StudentId:       studentId,
		Title:           req.Title,
		Description:     req.Description,
		SkillName:       req.SkillName,
		SkillCategory:   category,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		Format:          entity.SessionFormat(req.Format),
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		Status:          entity.SessionStatusPending,
	}
	// History starts with the creation entry so its length is always
	// 1 + successful transitions.
	session.StatusHistory = []entity.StatusChange{{
		Status:    entity.SessionStatusPending,
		ChangedBy: studentId,
	}}

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	session.StatusHistory[0].ChangedAt = session.CreatedAt

	var warnings []string
	if err := s.messageService.PostSystemMessage(ctx, session.TutorId, session.StudentId,
		fmt.Sprintf("New session request: %q on %s", session.Title, session.ScheduledDate.Format("Jan 2, 15:04")),
		session.Id); err != nil {
		warnings = s.warn(warnings, session.Id, "notify", err)
	}

	sid := session.Id
	s.auditService.Record(ctx, entity.AuditEvent{
		ActorId:     &studentId,
		Action:      "SESSION_REQUESTED",
		Category:    entity.AuditCategorySession,
		Description: fmt.Sprintf("Session %q requested", session.Title),
		TargetType:  "session",
		TargetId:    &sid,
		Metadata: map[string]interface{}{
			"tutor_id":   session.TutorId.String(),
			"student_id": session.StudentId.String(),
			"skill":      session.SkillName,
		},
	})

	resp := mapSession(session)
	resp.Warnings = warnings
	return resp, nil
}

func (s *sessionService) ConfirmSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionId, actorId, lifecycle.Request{Op: lifecycle.OpConfirm})
}

func (s *sessionService) StartSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionId, actorId, lifecycle.Request{Op: lifecycle.OpStart})
}

func (s *sessionService) CompleteSession(ctx context.Context, sessionId, actorId uuid.UUID, req *dto.CompleteSessionRequest) (*dto.SessionResponse, error) {
	lr := lifecycle.Request{Op: lifecycle.OpComplete}
	if req != nil {
		lr.TutorPoints = req.TutorPoints
		lr.StudentPoints = req.StudentPoints
	}
	return s.transition(ctx, sessionId, actorId, lr)
}

func (s *sessionService) CancelSession(ctx context.Context, sessionId, actorId uuid.UUID, reason string) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionId, actorId, lifecycle.Request{Op: lifecycle.OpCancel, Reason: reason})
}

// transition is the single path every status change takes: decide, apply the
// authoritative conditional write, then run effects. A failed effect never
// rolls the status back; it is logged and reported as a warning.
func (s *sessionService) transition(ctx context.Context, sessionId, actorId uuid.UUID, req lifecycle.Request) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()

	session, err := sessions.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, lifecycle.ErrNotFound
	}

	req.ActorId = actorId
	req.Role = lifecycle.RoleOf(session, actorId)

	decision, err := lifecycle.Decide(session.Status, req)
	if err != nil {
		return nil, err
	}

	patch := contract.StatusPatch{
		NewStatus:    decision.NewStatus,
		History:      decision.History,
		ActualStart:  decision.SetActualStart,
		ActualEnd:    decision.SetActualEnd,
		Points:       decision.Points,
		Cancellation: decision.Cancellation,
	}
	applied, err := sessions.UpdateStatus(ctx, sessionId, lifecycle.AllowedFrom(req.Op), patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent writer moved the status between our read and write.
		current, err := sessions.FindOne(ctx, specification.ByID{ID: sessionId})
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, lifecycle.ErrNotFound
		}
		if req.Op == lifecycle.OpComplete && current.Status == entity.SessionStatusCompleted {
			return nil, &lifecycle.AlreadyCompletedError{SessionId: sessionId.String()}
		}
		return nil, &lifecycle.InvalidTransitionError{
			Current:     current.Status,
			Op:          req.Op,
			AllowedFrom: lifecycle.AllowedFrom(req.Op),
		}
	}

	updated, err := sessions.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil || updated == nil {
		// The write succeeded; fall back to the stale copy with the decision
		// applied rather than failing the whole operation.
		s.logger.Warn("Session", "Re-read after transition failed", map[string]interface{}{
			"session_id": sessionId,
		})
		updated = session
		updated.Status = decision.NewStatus
		updated.StatusHistory = append(updated.StatusHistory, decision.History)
	}

	warnings := s.runEffects(ctx, uow, updated, decision, req)

	resp := mapSession(updated)
	resp.Warnings = warnings
	return resp, nil
}

func (s *sessionService) runEffects(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, decision *lifecycle.Decision, req lifecycle.Request) []string {
	var warnings []string

	for _, effect := range decision.Effects {
		switch effect {
		case lifecycle.EffectCounters:
			if err := s.applyCounters(ctx, uow, session, decision); err != nil {
				warnings = s.warn(warnings, session.Id, "counters", err)
			}
		case lifecycle.EffectAchievements:
			for _, userId := range []uuid.UUID{session.TutorId, session.StudentId} {
				if _, err := s.achievementService.EvaluateAndGrant(ctx, userId); err != nil {
					warnings = s.warn(warnings, session.Id, "achievements", err)
				}
			}
		case lifecycle.EffectNotify:
			if err := s.messageService.PostSystemMessage(ctx, session.TutorId, session.StudentId,
				statusNotice(session, req), session.Id); err != nil {
				warnings = s.warn(warnings, session.Id, "notify", err)
			}
		case lifecycle.EffectAudit:
			sid := session.Id
			actor := req.ActorId
			s.auditService.Record(ctx, entity.AuditEvent{
				ActorId:     &actor,
				Action:      fmt.Sprintf("SESSION_%s", string(decision.NewStatus)),
				Category:    entity.AuditCategorySession,
				Description: fmt.Sprintf("Session %q moved to %s", session.Title, decision.NewStatus),
				TargetType:  "session",
				TargetId:    &sid,
				Metadata: map[string]interface{}{
					"operation": string(req.Op),
					"status":    string(decision.NewStatus),
				},
			})
		}
	}
	return warnings
}

func (s *sessionService) applyCounters(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, decision *lifecycle.Decision) error {
	points := decision.Points
	if points == nil {
		return nil
	}
	hours := session.DurationHours()

	if err := uow.UserRepository().IncrementStats(ctx, session.TutorId, contract.StatDeltas{
		SessionsHosted: 1,
		TotalPoints:    points.Tutor,
		HoursTaught:    hours,
	}); err != nil {
		return fmt.Errorf("tutor counters: %w", err)
	}
	if err := uow.UserRepository().IncrementStats(ctx, session.StudentId, contract.StatDeltas{
		SessionsCompleted: 1,
		TotalPoints:       points.Student,
		HoursLearned:      hours,
	}); err != nil {
		return fmt.Errorf("student counters: %w", err)
	}
	return nil
}

func (s *sessionService) warn(warnings []string, sessionId uuid.UUID, step string, err error) []string {
	df := &lifecycle.DependencyFailure{Step: step, Err: err}
	s.logger.Error("Session", "Side effect failed after status write", map[string]interface{}{
		"session_id": sessionId,
		"step":       step,
		"error":      err.Error(),
	})
	return append(warnings, df.Error())
}

func statusNotice(session *entity.Session, req lifecycle.Request) string {
	switch req.Op {
	case lifecycle.OpConfirm:
		return fmt.Sprintf("Session %q was confirmed by the tutor.", session.Title)
	case lifecycle.OpComplete:
		return fmt.Sprintf("Session %q was completed. Points have been awarded.", session.Title)
	case lifecycle.OpCancel:
		if req.Reason != "" {
			return fmt.Sprintf("Session %q was cancelled: %s", session.Title, req.Reason)
		}
		return fmt.Sprintf("Session %q was cancelled.", session.Title)
	default:
		return fmt.Sprintf("Session %q is now %s.", session.Title, session.Status)
	}
}

func (s *sessionService) GetSession(ctx context.Context, sessionId, actorId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsParticipant(actorId) {
		return nil, lifecycle.ErrNotFound
	}
	return mapSession(session), nil
}

func (s *sessionService) ListSessions(ctx context.Context, userId uuid.UUID, filter SessionListFilter) (*dto.SessionListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	switch filter.Role {
	case "tutor":
		specs = append(specs, specification.ByTutor{UserID: userId})
	case "student":
		specs = append(specs, specification.ByStudent{UserID: userId})
	default:
		specs = append(specs, specification.ByParticipant{UserID: userId})
	}
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: filter.Status})
	}
	if filter.Category != "" {
		specs = append(specs, specification.ByCategory{Category: filter.Category})
	}
	if filter.Upcoming {
		specs = append(specs, specification.ScheduledAfter{At: time.Now()})
	}

	total, err := uow.SessionRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	specs = append(specs,
		specification.OrderBy{Field: "scheduled_date", Desc: true},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	)
	sessions, err := uow.SessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		dtos = append(dtos, mapSession(sess))
	}
	return &dto.SessionListResponse{
		Sessions: dtos,
		Total:    total,
		Limit:    limit,
		Offset:   filter.Offset,
	}, nil
}

func mapSession(s *entity.Session) *dto.SessionResponse {
	history := make([]dto.StatusChangeDTO, 0, len(s.StatusHistory))
	for _, h := range s.StatusHistory {
		history = append(history, dto.StatusChangeDTO{
			Status:    string(h.Status),
			ChangedAt: h.ChangedAt,
			ChangedBy: h.ChangedBy,
			Reason:    h.Reason,
		})
	}

	resp := &dto.SessionResponse{
		Id:              s.Id,
		TutorId:         s.TutorId,
		StudentId:       s.StudentId,
		Title:           s.Title,
		Description:     s.Description,
		SkillName:       s.SkillName,
		SkillCategory:   string(s.SkillCategory),
		ScheduledDate:   s.ScheduledDate,
		DurationMinutes: s.DurationMinutes,
		Format:          string(s.Format),
		Location:        s.Location,
		MeetingLink:     s.MeetingLink,
		Status:          string(s.Status),
		StatusHistory:   history,
		ActualStartTime: s.ActualStartTime,
		ActualEndTime:   s.ActualEndTime,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Cancellation != nil {
		resp.Cancellation = &dto.CancellationDTO{
			CancelledBy: s.Cancellation.CancelledBy,
			Reason:      s.Cancellation.Reason,
			CancelledAt: s.Cancellation.CancelledAt,
		}
	}
	if s.PointsAwarded != nil {
		resp.PointsAwarded = &dto.PointsAwardDTO{
			Tutor:   s.PointsAwarded.Tutor,
			Student: s.PointsAwarded.Student,
		}
	}
	return resp
}
