package model

import (
	"time"

	"github.com/google/uuid"
)

// Achievement catalog row, seeded at migration time.
type Achievement struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Points      int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementGrant links a user to an earned achievement. The unique index on
// (user_id, code) makes granting idempotent: a duplicate insert with
// ON CONFLICT DO NOTHING affects zero rows.
type AchievementGrant struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_achievement_grants_user_code"`
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_achievement_grants_user_code"`
	GrantedAt time.Time `gorm:"not null;default:now()"`
}

func (AchievementGrant) TableName() string {
	return "achievement_grants"
}
