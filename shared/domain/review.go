package domain

import "time"

type ReviewTarget string

const (
	ReviewTargetDonor     ReviewTarget = "donor"
	ReviewTargetBloodBank ReviewTarget = "bloodbank"
)

func (t ReviewTarget) Valid() bool {
	return t == ReviewTargetDonor || t == ReviewTargetBloodBank
}

type Review struct {
	Id           ReviewId
	ReviewerId   UserId
	ReviewerName string
	TargetType   ReviewTarget
	TargetId     int64
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

type ReviewSummary struct {
	TargetType    ReviewTarget
	TargetId      int64
	AverageRating float64
	Count         int
}
