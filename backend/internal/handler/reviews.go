package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReviewRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	review, err := h.reviews.Create(caller(r), domain.Review{
		TargetType: domain.ReviewTarget(req.TargetType),
		TargetId:   req.TargetId,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Review posted", api.NewReviewResponse(review))
}

// reviewTarget reads the target_type and target_id query parameters.
func reviewTarget(r *http.Request) (domain.ReviewTarget, int64, error) {
	target := domain.ReviewTarget(r.URL.Query().Get("target_type"))
	if !target.Valid() {
		return "", 0, errors.BadRequest("target_type must be donor or bloodbank")
	}
	id, err := queryId(r, "target_id")
	if err != nil {
		return "", 0, err
	}
	if id == 0 {
		return "", 0, errors.BadRequest("target_id is required")
	}
	return target, id, nil
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	target, targetId, err := reviewTarget(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reviews, total, err := h.reviews.List(target, targetId, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewReviewResponses(reviews), page, total)
}

func (h *Handler) ReviewSummary(w http.ResponseWriter, r *http.Request) {
	target, targetId, err := reviewTarget(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	s, err := h.reviews.Summary(target, targetId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.ReviewSummaryResponse{
		TargetType:    string(s.TargetType),
		TargetId:      s.TargetId,
		AverageRating: s.AverageRating,
		Count:         s.Count,
	})
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.reviews.Delete(caller(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Review deleted", nil)
}
