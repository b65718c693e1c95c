package pg

import (
	"database/sql"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

const reviewSelect = `
	SELECT r.id, r.reviewer_id, u.name, r.target_type, r.target_id, r.rating, r.comment, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.reviewer_id`

// SaveReview inserts a review. A reviewer may review a target once, otherwise 409.
func (s *Storage) SaveReview(r domain.Review) (domain.ReviewId, error) {
	var id domain.ReviewId
	err := s.db.QueryRow(`
		INSERT INTO reviews (reviewer_id, target_type, target_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		r.ReviewerId, string(r.TargetType), r.TargetId, r.Rating, r.Comment,
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, errors.Conflict("You have already reviewed this %s", r.TargetType)
		}
		return 0, sharedpg.MapError(err, "Review")
	}
	return id, nil
}

func (s *Storage) Review(id domain.ReviewId) (domain.Review, error) {
	r, err := scanReview(s.db.QueryRow(reviewSelect+" WHERE r.id = $1", id))
	if err != nil {
		return domain.Review{}, sharedpg.MapError(err, "Review")
	}
	return r, nil
}

// ListReviews returns the target's reviews, newest first.
func (s *Storage) ListReviews(target domain.ReviewTarget, targetId int64, page domain.Page) ([]domain.Review, int, error) {
	f := &filter{}
	f.add("r.target_type = $%d", string(target))
	f.add("r.target_id = $%d", targetId)
	total, err := s.count(s.db, "reviews r", f)
	if err != nil {
		return nil, 0, err
	}

	limit, args := f.page(page.Limit, page.Offset())
	rows, err := s.db.Query(reviewSelect+f.where()+" ORDER BY r.created_at DESC, r.id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *Storage) ReviewSummary(target domain.ReviewTarget, targetId int64) (domain.ReviewSummary, error) {
	summary := domain.ReviewSummary{TargetType: target, TargetId: targetId}
	var avg sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT AVG(rating)::float8, COUNT(*)
		FROM reviews
		WHERE target_type = $1 AND target_id = $2`,
		string(target), targetId,
	).Scan(&avg, &summary.Count)
	if err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	summary.AverageRating = avg.Float64
	return summary, nil
}

func (s *Storage) DeleteReview(id domain.ReviewId) error {
	res, err := s.db.Exec("DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return checkAffected(res, errors.NotFound("Review not found"))
}

func scanReview(row scanner) (domain.Review, error) {
	var r domain.Review
	var target string
	if err := row.Scan(&r.Id, &r.ReviewerId, &r.ReviewerName, &target, &r.TargetId, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
		return domain.Review{}, err
	}
	r.TargetType = domain.ReviewTarget(target)
	return r, nil
}
