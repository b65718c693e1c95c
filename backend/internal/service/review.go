package service

import (
	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

const maxReviewCommentLength = 1000

type ReviewService interface {
	Create(caller domain.User, review domain.Review) (domain.Review, error)
	List(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error)
	Summary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error)
	Delete(caller domain.User, id domain.ReviewId) error
}

type ReviewStorage interface {
	SaveReview(r domain.Review) (domain.ReviewId, error)
	Review(id domain.ReviewId) (domain.Review, error)
	ListReviews(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error)
	ReviewSummary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error)
	DeleteReview(id domain.ReviewId) error
}

type Reviews struct {
	storage ReviewStorage
	donors  DonorLookup
	banks   BankLookup
}

func NewReviews(storage ReviewStorage, donors DonorLookup, banks BankLookup) *Reviews {
	return &Reviews{storage: storage, donors: donors, banks: banks}
}

// Create stores one review per reviewer and target. Reviewing your own donor
// or blood bank profile is refused.
func (s *Reviews) Create(caller domain.User, review domain.Review) (domain.Review, error) {
	if !review.TargetType.Valid() {
		return domain.Review{}, errors.BadRequest("Invalid target type %q", review.TargetType)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Review{}, errors.BadRequest("Rating must be between 1 and 5")
	}
	review.Comment = utils.SanitizeText(review.Comment)
	if utils.TextLength(review.Comment) > maxReviewCommentLength {
		return domain.Review{}, errors.BadRequest("Comment is longer than %d characters", maxReviewCommentLength)
	}

	owner, err := s.targetOwner(review.TargetType, review.TargetId)
	if err != nil {
		return domain.Review{}, err
	}
	if owner == caller.Id {
		return domain.Review{}, errors.BadRequest("You cannot review yourself")
	}

	review.ReviewerId = caller.Id
	id, err := s.storage.SaveReview(review)
	if err != nil {
		return domain.Review{}, err
	}
	return s.storage.Review(id)
}

func (s *Reviews) List(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error) {
	if !target.Valid() {
		return nil, 0, errors.BadRequest("Invalid target type %q", target)
	}
	return s.storage.ListReviews(target, targetId, page)
}

func (s *Reviews) Summary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error) {
	if !target.Valid() {
		return domain.ReviewSummary{}, errors.BadRequest("Invalid target type %q", target)
	}
	return s.storage.ReviewSummary(target, targetId)
}

func (s *Reviews) Delete(caller domain.User, id domain.ReviewId) error {
	review, err := s.storage.Review(id)
	if err != nil {
		return err
	}
	if review.ReviewerId != caller.Id && !caller.Role.IsAdmin() {
		return errors.Forbidden("You can only delete your own reviews")
	}
	return s.storage.DeleteReview(id)
}

func (s *Reviews) targetOwner(target domain.ReviewTarget, id int64) (domain.UserId, error) {
	if target == domain.ReviewTargetDonor {
		donor, err := s.donors.Donor(id)
		if err != nil {
			return 0, err
		}
		return donor.UserId, nil
	}
	bank, err := s.banks.Get(id)
	if err != nil {
		return 0, err
	}
	return bank.UserId, nil
}
