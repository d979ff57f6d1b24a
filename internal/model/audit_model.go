package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditEvent is append-only. The lifecycle core only writes; the admin log
// browser reads.
type AuditEvent struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorId     *uuid.UUID `gorm:"type:uuid;index"`
	Action      string     `gorm:"type:varchar(100);not null;index"`
	Category    string     `gorm:"type:varchar(50);not null;index"`
	Description string     `gorm:"type:text"`
	TargetType  string     `gorm:"type:varchar(50)"`
	TargetId    *uuid.UUID `gorm:"type:uuid;index"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"default:now();not null;index"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
