package lifecycle

import (
	"testing"
	"time"

	"peerlearn-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideTransitions(t *testing.T) {
	tutor := uuid.New()

	tests := []struct {
		name       string
		current    entity.SessionStatus
		op         Operation
		role       Role
		wantStatus entity.SessionStatus
		wantErr    string // "", "invalid", "unauthorized"
	}{
		{name: "confirm from pending by tutor", current: entity.SessionStatusPending, op: OpConfirm, role: RoleTutor, wantStatus: entity.SessionStatusConfirmed},
		{name: "confirm by student rejected", current: entity.SessionStatusPending, op: OpConfirm, role: RoleStudent, wantErr: "unauthorized"},
		{name: "confirm by outsider rejected", current: entity.SessionStatusPending, op: OpConfirm, role: RoleNone, wantErr: "unauthorized"},
		{name: "confirm from confirmed rejected", current: entity.SessionStatusConfirmed, op: OpConfirm, role: RoleTutor, wantErr: "invalid"},
		{name: "start from confirmed", current: entity.SessionStatusConfirmed, op: OpStart, role: RoleStudent, wantStatus: entity.SessionStatusInProgress},
		{name: "start from pending rejected", current: entity.SessionStatusPending, op: OpStart, role: RoleTutor, wantErr: "invalid"},
		{name: "complete from in-progress", current: entity.SessionStatusInProgress, op: OpComplete, role: RoleTutor, wantStatus: entity.SessionStatusCompleted},
		{name: "complete directly from confirmed", current: entity.SessionStatusConfirmed, op: OpComplete, role: RoleStudent, wantStatus: entity.SessionStatusCompleted},
		{name: "complete from pending rejected", current: entity.SessionStatusPending, op: OpComplete, role: RoleStudent, wantErr: "invalid"},
		{name: "complete from completed rejected", current: entity.SessionStatusCompleted, op: OpComplete, role: RoleTutor, wantErr: "invalid"},
		{name: "cancel from pending", current: entity.SessionStatusPending, op: OpCancel, role: RoleStudent, wantStatus: entity.SessionStatusCancelled},
		{name: "cancel from confirmed", current: entity.SessionStatusConfirmed, op: OpCancel, role: RoleTutor, wantStatus: entity.SessionStatusCancelled},
		{name: "cancel from completed rejected", current: entity.SessionStatusCompleted, op: OpCancel, role: RoleTutor, wantErr: "invalid"},
		{name: "cancel from cancelled rejected", current: entity.SessionStatusCancelled, op: OpCancel, role: RoleStudent, wantErr: "invalid"},
		{name: "cancel from no-show rejected", current: entity.SessionStatusNoShow, op: OpCancel, role: RoleTutor, wantErr: "invalid"},
		{name: "start from in-progress rejected", current: entity.SessionStatusInProgress, op: OpStart, role: RoleTutor, wantErr: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decide(tt.current, Request{Op: tt.op, ActorId: tutor, Role: tt.role})

			switch tt.wantErr {
			case "invalid":
				require.Error(t, err)
				var ite *InvalidTransitionError
				require.ErrorAs(t, err, &ite)
				assert.Equal(t, tt.current, ite.Current)
				assert.Equal(t, tt.op, ite.Op)
				assert.Nil(t, d)
			case "unauthorized":
				require.Error(t, err)
				var ue *UnauthorizedError
				require.ErrorAs(t, err, &ue)
				assert.Nil(t, d)
			default:
				require.NoError(t, err)
				require.NotNil(t, d)
				assert.Equal(t, tt.wantStatus, d.NewStatus)
				assert.Equal(t, tt.wantStatus, d.History.Status)
			}
		})
	}
}

func TestDecideConfirmEffects(t *testing.T) {
	d, err := Decide(entity.SessionStatusPending, Request{Op: OpConfirm, ActorId: uuid.New(), Role: RoleTutor})
	require.NoError(t, err)

	assert.ElementsMatch(t, []Effect{EffectNotify, EffectAudit}, d.Effects)
	assert.False(t, d.SetActualStart)
	assert.Nil(t, d.Points)
}

func TestDecideStartRecordsActualStart(t *testing.T) {
	d, err := Decide(entity.SessionStatusConfirmed, Request{Op: OpStart, ActorId: uuid.New(), Role: RoleStudent})
	require.NoError(t, err)

	assert.True(t, d.SetActualStart)
	assert.Empty(t, d.Effects)
}

func TestDecideCompletePoints(t *testing.T) {
	actor := uuid.New()

	t.Run("defaults", func(t *testing.T) {
		d, err := Decide(entity.SessionStatusInProgress, Request{Op: OpComplete, ActorId: actor, Role: RoleStudent})
		require.NoError(t, err)
		require.NotNil(t, d.Points)
		assert.Equal(t, entity.DefaultTutorPoints, d.Points.Tutor)
		assert.Equal(t, entity.DefaultStudentPoints, d.Points.Student)
		assert.True(t, d.SetActualEnd)
		assert.ElementsMatch(t, []Effect{EffectCounters, EffectAchievements, EffectNotify, EffectAudit}, d.Effects)
	})

	t.Run("caller override", func(t *testing.T) {
		d, err := Decide(entity.SessionStatusConfirmed, Request{Op: OpComplete, ActorId: actor, Role: RoleTutor, TutorPoints: 50, StudentPoints: 25})
		require.NoError(t, err)
		assert.Equal(t, 50, d.Points.Tutor)
		assert.Equal(t, 25, d.Points.Student)
	})
}

func TestDecideCancelPopulatesCancellation(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	d, err := Decide(entity.SessionStatusPending, Request{
		Op:      OpCancel,
		ActorId: actor,
		Role:    RoleStudent,
		Reason:  "schedule conflict",
		Now:     now,
	})
	require.NoError(t, err)

	require.NotNil(t, d.Cancellation)
	assert.Equal(t, actor, d.Cancellation.CancelledBy)
	assert.Equal(t, "schedule conflict", d.Cancellation.Reason)
	assert.Equal(t, now, d.Cancellation.CancelledAt)
	assert.Equal(t, "schedule conflict", d.History.Reason)
	assert.Equal(t, now, d.History.ChangedAt)
}

func TestRoleOf(t *testing.T) {
	tutor := uuid.New()
	student := uuid.New()
	s := &entity.Session{TutorId: tutor, StudentId: student}

	assert.Equal(t, RoleTutor, RoleOf(s, tutor))
	assert.Equal(t, RoleStudent, RoleOf(s, student))
	assert.Equal(t, RoleNone, RoleOf(s, uuid.New()))
}

func TestAllowedFromMatchesDecide(t *testing.T) {
	// The conditional update in the repository relies on the same source list
	// Decide validates against.
	all := []entity.SessionStatus{
		entity.SessionStatusPending, entity.SessionStatusConfirmed,
		entity.SessionStatusInProgress, entity.SessionStatusCompleted,
		entity.SessionStatusCancelled, entity.SessionStatusNoShow,
	}
	for _, op := range []Operation{OpConfirm, OpStart, OpComplete, OpCancel} {
		sources := AllowedFrom(op)
		for _, st := range all {
			_, err := Decide(st, Request{Op: op, ActorId: uuid.New(), Role: RoleTutor})
			legal := false
			for _, s := range sources {
				if s == st {
					legal = true
				}
			}
			if legal {
				assert.NoError(t, err, "%s from %s", op, st)
			} else {
				assert.Error(t, err, "%s from %s", op, st)
			}
		}
	}
}
