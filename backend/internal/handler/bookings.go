package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookingRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	booking, err := h.bookings.Create(caller(r).Id, domain.Booking{
		BloodBankId: req.BloodBankId,
		Date:        date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Booking created", api.NewBookingResponse(booking))
}

// ListBookings handles GET /api/bookings?status=&date=. Scoping by role
// happens in the service.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	q := r.URL.Query()
	date, err := parseOptionalDate(q.Get("date"), "date")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	filter := domain.BookingFilter{Status: domain.BookingStatus(q.Get("status")), Date: date}

	bookings, total, err := h.bookings.List(caller(r), filter, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewBookingResponses(bookings), page, total)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	booking, err := h.bookings.Get(caller(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewBookingResponse(booking))
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
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

	booking, err := h.bookings.UpdateStatus(caller(r), id, domain.BookingStatus(body.Status))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Status updated", api.NewBookingResponse(booking))
}

// Slots handles GET /api/bookings/slots?blood_bank_id=&date=
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bankId, err := queryId(r, "blood_bank_id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if bankId == 0 {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest("blood_bank_id is required"))
		return
	}
	date, err := parseDate(q.Get("date"), "date")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	taken, err := h.bookings.Slots(bankId, date)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if taken == nil {
		taken = []int{}
	}
	utils.WriteJSON(w, http.StatusOK, "", api.SlotsResponse{
		BloodBankId: bankId,
		Date:        date.Format(api.DateLayout),
		TakenTokens: taken,
		FreeCount:   domain.TokenMax - domain.TokenMin + 1 - len(taken),
	})
}
