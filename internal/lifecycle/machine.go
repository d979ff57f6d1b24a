// Pure session status state machine. Decide validates a requested transition
// against current state and returns the decision to apply plus the side
// effects it implies; it never touches storage. The orchestrator in
// internal/service executes decisions.
package lifecycle

import (
	"time"

	"peerlearn-be/internal/entity"

	"github.com/google/uuid"
)

type Operation string

const (
	OpConfirm  Operation = "confirm"
	OpStart    Operation = "start"
	OpComplete Operation = "complete"
	OpCancel   Operation = "cancel"
)

// Role of the acting user relative to the session.
type Role int

const (
	RoleNone Role = iota
	RoleTutor
	RoleStudent
)

// RoleOf resolves the actor's role on a session.
func RoleOf(s *entity.Session, actorId uuid.UUID) Role {
	switch actorId {
	case s.TutorId:
		return RoleTutor
	case s.StudentId:
		return RoleStudent
	default:
		return RoleNone
	}
}

// allowedFrom is the legal-source table. An operation attempted from any
// other status yields InvalidTransitionError.
var allowedFrom = map[Operation][]entity.SessionStatus{
	OpConfirm:  {entity.SessionStatusPending},
	OpStart:    {entity.SessionStatusConfirmed},
	OpComplete: {entity.SessionStatusConfirmed, entity.SessionStatusInProgress},
	OpCancel:   {entity.SessionStatusPending, entity.SessionStatusConfirmed},
}

var target = map[Operation]entity.SessionStatus{
	OpConfirm:  entity.SessionStatusConfirmed,
	OpStart:    entity.SessionStatusInProgress,
	OpComplete: entity.SessionStatusCompleted,
	OpCancel:   entity.SessionStatusCancelled,
}

// AllowedFrom exposes the legal source statuses for an operation. The
// repository's conditional update uses the same list, so the in-memory check
// and the database write can never disagree.
func AllowedFrom(op Operation) []entity.SessionStatus {
	return allowedFrom[op]
}

// Effect names the follow-up work a transition implies. The authoritative
// status write is not an effect; it is the transition itself.
type Effect string

const (
	EffectCounters     Effect = "counters"
	EffectAchievements Effect = "achievements"
	EffectNotify       Effect = "notify"
	EffectAudit        Effect = "audit"
)

// Request carries everything Decide needs about the attempted transition.
type Request struct {
	Op            Operation
	ActorId       uuid.UUID
	Role          Role
	Reason        string
	TutorPoints   int // 0 means default
	StudentPoints int
	Now           time.Time
}

// Decision describes the state change to persist and the effects to run.
type Decision struct {
	NewStatus      entity.SessionStatus
	History        entity.StatusChange
	SetActualStart bool
	SetActualEnd   bool
	Points         *entity.PointsAward
	Cancellation   *entity.SessionCancellation
	Effects        []Effect
}

// Decide validates the transition and computes its decision. It returns
// UnauthorizedError or InvalidTransitionError without mutating anything;
// callers must only persist a returned decision.
func Decide(current entity.SessionStatus, req Request) (*Decision, error) {
	if req.Role == RoleNone {
		return nil, &UnauthorizedError{Op: req.Op, Required: "session participant"}
	}
	if req.Op == OpConfirm && req.Role != RoleTutor {
		return nil, &UnauthorizedError{Op: req.Op, Required: "tutor"}
	}

	sources, ok := allowedFrom[req.Op]
	if !ok {
		return nil, &InvalidTransitionError{Current: current, Op: req.Op}
	}
	legal := false
	for _, s := range sources {
		if s == current {
			legal = true
			break
		}
	}
	if !legal {
		return nil, &InvalidTransitionError{Current: current, Op: req.Op, AllowedFrom: sources}
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	d := &Decision{
		NewStatus: target[req.Op],
		History: entity.StatusChange{
			Status:    target[req.Op],
			ChangedAt: now,
			ChangedBy: req.ActorId,
			Reason:    req.Reason,
		},
	}

	switch req.Op {
	case OpConfirm:
		d.Effects = []Effect{EffectNotify, EffectAudit}
	case OpStart:
		d.SetActualStart = true
	case OpComplete:
		d.SetActualEnd = true
		points := &entity.PointsAward{
			Tutor:   entity.DefaultTutorPoints,
			Student: entity.DefaultStudentPoints,
		}
		if req.TutorPoints > 0 {
			points.Tutor = req.TutorPoints
		}
		if req.StudentPoints > 0 {
			points.Student = req.StudentPoints
		}
		d.Points = points
		d.Effects = []Effect{EffectCounters, EffectAchievements, EffectNotify, EffectAudit}
	case OpCancel:
		d.Cancellation = &entity.SessionCancellation{
			CancelledBy: req.ActorId,
			Reason:      req.Reason,
			CancelledAt: now,
		}
		d.Effects = []Effect{EffectNotify, EffectAudit}
	}

	return d, nil
}
