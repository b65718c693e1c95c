package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func (h *Handler) CreateTaxi(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaxiRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	taxi, err := h.taxi.Create(caller(r), domain.TaxiBooking{
		BookingId:     req.BookingId,
		PickupAddress: req.PickupAddress,
		DropAddress:   req.DropAddress,
		DistanceKm:    req.DistanceKm,
		PickupTime:    req.PickupTime,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Taxi requested", api.NewTaxiResponse(taxi))
}

func (h *Handler) ListTaxis(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	taxis, total, err := h.taxi.List(caller(r), page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewTaxiResponses(taxis), page, total)
}

func (h *Handler) GetTaxi(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	taxi, err := h.taxi.Get(caller(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewTaxiResponse(taxi))
}

func (h *Handler) UpdateTaxiStatus(w http.ResponseWriter, r *http.Request) {
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

	taxi, err := h.taxi.UpdateStatus(caller(r), id, domain.TaxiStatus(body.Status))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Status updated", api.NewTaxiResponse(taxi))
}

// CreatePaymentOrder handles POST /api/taxi/{id}/payment/order
func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	order, keyId, err := h.taxi.CreatePaymentOrder(caller(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Payment order created", api.PaymentOrderResponse{
		OrderId:  order.OrderId,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyId:    keyId,
	})
}

// VerifyPayment handles POST /api/taxi/{id}/payment/verify
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.VerifyPaymentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	taxi, err := h.taxi.VerifyPayment(caller(r), id, req.OrderId, req.PaymentId, req.Signature)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Payment verified", api.NewTaxiResponse(taxi))
}
