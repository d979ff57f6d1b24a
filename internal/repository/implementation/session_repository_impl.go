// FILE: internal/repository/implementation/session_repository_impl.go
package implementation

import (
	"context"
	"encoding/json"
	"time"

	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/model"
	"peerlearn-be/internal/repository/contract"
	"peerlearn-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	historyJSON, err := json.Marshal(session.StatusHistory)
	if err != nil {
		return err
	}

	m := &model.Session{
		Id:              session.Id,
		TutorId:         session.TutorId,
		StudentId:       session.StudentId,
		Title:           session.Title,
		Description:     session.Description,
		SkillName:       session.SkillName,
		SkillCategory:   string(session.SkillCategory),
		ScheduledDate:   session.ScheduledDate,
		DurationMinutes: session.DurationMinutes,
		Format:          string(session.Format),
		Location:        session.Location,
		MeetingLink:     session.MeetingLink,
		Status:          string(session.Status),
		StatusHistory:   datatypes.JSON(historyJSON),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	session.Id = m.Id
	session.CreatedAt = m.CreatedAt
	session.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *sessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&m)
}

func (r *sessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var ms []*model.Session
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, 0, len(ms))
	for _, m := range ms {
		s, err := r.mapToEntity(m)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *sessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Session{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Count(&count).Error
	return count, err
}

// UpdateStatus serializes concurrent transitions on one session: the write is
// guarded by the expected source statuses, and the history entry is appended
// to the JSONB array in the same statement as the status column.
func (r *sessionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.SessionStatus, patch contract.StatusPatch) (bool, error) {
	entryJSON, err := json.Marshal(patch.History)
	if err != nil {
		return false, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         string(patch.NewStatus),
		"status_history": gorm.Expr("status_history || ?::jsonb", string(entryJSON)),
		"updated_at":     now,
	}
	if patch.ActualStart {
		updates["actual_start_time"] = now
	}
	if patch.ActualEnd {
		updates["actual_end_time"] = now
	}
	if patch.Points != nil {
		updates["points_tutor"] = patch.Points.Tutor
		updates["points_student"] = patch.Points.Student
	}
	if patch.Cancellation != nil {
		updates["cancelled_by"] = patch.Cancellation.CancelledBy
		updates["cancel_reason"] = patch.Cancellation.Reason
		updates["cancelled_at"] = patch.Cancellation.CancelledAt
	}

	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status IN ?", id, fromStrs).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepositoryImpl) CountByStatus(ctx context.Context) (map[entity.SessionStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[entity.SessionStatus]int64, len(rows))
	for _, rw := range rows {
		result[entity.SessionStatus(rw.Status)] = rw.Count
	}
	return result, nil
}

func (r *sessionRepositoryImpl) CountByCategory(ctx context.Context) (map[entity.SkillCategory]int64, error) {
	type row struct {
		SkillCategory string
		Count         int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Select("skill_category, count(*) as count").
		Group("skill_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[entity.SkillCategory]int64, len(rows))
	for _, rw := range rows {
		result[entity.SkillCategory(rw.SkillCategory)] = rw.Count
	}
	return result, nil
}

func (r *sessionRepositoryImpl) mapToEntity(m *model.Session) (*entity.Session, error) {
	var history []entity.StatusChange
	if len(m.StatusHistory) > 0 {
		if err := json.Unmarshal(m.StatusHistory, &history); err != nil {
			return nil, err
		}
	}

	s := &entity.Session{
		Id:              m.Id,
		TutorId:         m.TutorId,
		StudentId:       m.StudentId,
		Title:           m.Title,
		Description:     m.Description,
		SkillName:       m.SkillName,
		SkillCategory:   entity.SkillCategory(m.SkillCategory),
		ScheduledDate:   m.ScheduledDate,
		DurationMinutes: m.DurationMinutes,
		Format:          entity.SessionFormat(m.Format),
		Location:        m.Location,
		MeetingLink:     m.MeetingLink,
		Status:          entity.SessionStatus(m.Status),
		StatusHistory:   history,
		ActualStartTime: m.ActualStartTime,
		ActualEndTime:   m.ActualEndTime,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.CancelledBy != nil {
		s.Cancellation = &entity.SessionCancellation{
			CancelledBy: *m.CancelledBy,
			Reason:      m.CancelReason,
		}
		if m.CancelledAt != nil {
			s.Cancellation.CancelledAt = *m.CancelledAt
		}
	}
	if m.PointsTutor != nil && m.PointsStudent != nil {
		s.PointsAwarded = &entity.PointsAward{
			Tutor:   *m.PointsTutor,
			Student: *m.PointsStudent,
		}
	}
	return s, nil
}
