package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type CreateReviewRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=donor bloodbank"`
	TargetId   int64  `json:"target_id" validate:"required,min=1"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
}

type ReviewResponse struct {
	Id           int64     `json:"id"`
	ReviewerId   int64     `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	TargetType   string    `json:"target_type"`
	TargetId     int64     `json:"target_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewReviewResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		Id:           r.Id,
		ReviewerId:   r.ReviewerId,
		ReviewerName: r.ReviewerName,
		TargetType:   string(r.TargetType),
		TargetId:     r.TargetId,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func NewReviewResponses(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

type ReviewSummaryResponse struct {
	TargetType    string  `json:"target_type"`
	TargetId      int64   `json:"target_id"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}
