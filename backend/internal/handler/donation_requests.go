package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

// CreateDonationRequest handles POST /api/donation-requests. blood_bank_id
// is honored for admins only; banks always send on their own behalf.
func (h *Handler) CreateDonationRequest(w http.ResponseWriter, r *http.Request) {
	var req api.CreateDonationRequestRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	created, err := h.requests.Create(caller(r), domain.DonationRequest{
		DonorId:     req.DonorId,
		PatientId:   req.PatientId,
		BloodBankId: req.BloodBankId,
		Message:     req.Message,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Donation request sent", api.NewDonationRequestResponse(created))
}

func (h *Handler) ListDonationRequests(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	status := domain.DonationRequestStatus(r.URL.Query().Get("status"))
	requests, total, err := h.requests.List(caller(r), status, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewDonationRequestResponses(requests), page, total)
}

func (h *Handler) GetDonationRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	req, err := h.requests.Get(caller(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewDonationRequestResponse(req))
}

func (h *Handler) UpdateDonationRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.StatusRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	updated, err := h.requests.UpdateStatus(caller(r), id, domain.DonationRequestStatus(body.Status))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Status updated", api.NewDonationRequestResponse(updated))
}

// BookDonationRequest handles POST /api/donation-requests/{id}/book
func (h *Handler) BookDonationRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.BookSlotRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	date, err := parseDate(body.Date, "date")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	booking, err := h.requests.Book(caller(r), id, date, body.Time)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Slot booked", api.NewBookingResponse(booking))
}
