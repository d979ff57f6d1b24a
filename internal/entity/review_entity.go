package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a rating+comment a session participant leaves about the other
// participant. Uniqueness: one review per (session, reviewer) pair.
type Review struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	ReviewerId uuid.UUID
	RevieweeId uuid.UUID
	Rating     int
	Comment    string
	Hidden     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
