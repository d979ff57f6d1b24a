package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

type ReviewResponse struct {
	Id         uuid.UUID `json:"id"`
	SessionId  uuid.UUID `json:"session_id"`
	ReviewerId uuid.UUID `json:"reviewer_id"`
	RevieweeId uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews       []*ReviewResponse `json:"reviews"`
	Total         int64             `json:"total"`
	AverageRating float64           `json:"average_rating"`
}
