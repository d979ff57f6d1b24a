package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditCategory string

const (
	AuditCategorySession AuditCategory = "session"
	AuditCategoryReview  AuditCategory = "review"
	AuditCategoryUser    AuditCategory = "user"
	AuditCategoryAuth    AuditCategory = "auth"
	AuditCategoryAdmin   AuditCategory = "admin"
)

// AuditEvent is a write-only structured record of a platform action. The core
// only appends; it is read back exclusively by the admin log browser.
type AuditEvent struct {
	Id          uuid.UUID
	ActorId     *uuid.UUID
	Action      string
	Category    AuditCategory
	Description string
	TargetType  string
	TargetId    *uuid.UUID
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
