package handler

import (
	"net/http"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func bankFromRequest(req api.BloodBankRequest) domain.BloodBank {
	return domain.BloodBank{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              req.Phone,
		Address:            req.Address.Domain(),
	}
}

func (h *Handler) RegisterBloodBank(w http.ResponseWriter, r *http.Request) {
	var req api.BloodBankRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	bank, err := h.banks.Register(caller(r).Id, bankFromRequest(req))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Blood bank registered, awaiting approval", api.NewBloodBankResponse(bank))
}

// ListBloodBanks handles GET /api/bloodbanks?city=&status=. The status
// filter only applies to admins; everyone else sees approved banks.
func (h *Handler) ListBloodBanks(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	q := r.URL.Query()
	filter := domain.BloodBankFilter{
		City:   strings.TrimSpace(q.Get("city")),
		Status: domain.BloodBankStatus(q.Get("status")),
	}

	banks, total, err := h.banks.List(caller(r), filter, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewBloodBankResponses(banks), page, total)
}

func (h *Handler) MyBloodBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.banks.Mine(caller(r).Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewBloodBankResponse(bank))
}

func (h *Handler) GetBloodBank(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	bank, err := h.banks.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewBloodBankResponse(bank))
}

func (h *Handler) UpdateBloodBank(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.BloodBankRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	bank := bankFromRequest(req)
	bank.Id = id

	updated, err := h.banks.Update(caller(r), bank)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Blood bank updated", api.NewBloodBankResponse(updated))
}

func (h *Handler) SetBloodBankStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.BloodBankStatusRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.banks.SetStatus(id, domain.BloodBankStatus(req.Status)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Blood bank "+req.Status, nil)
}

func (h *Handler) BlockBloodBank(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.BlockRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.banks.SetBlock(id, *req.Blocked, req.Message); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	msg := "Blood bank unblocked"
	if *req.Blocked {
		msg = "Blood bank blocked"
	}
	utils.WriteJSON(w, http.StatusOK, msg, nil)
}

func (h *Handler) SuspendBloodBank(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.SuspendRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.banks.SetSuspension(id, *req.Suspended, req.Until, req.Message); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	msg := "Suspension lifted"
	if *req.Suspended {
		msg = "Blood bank suspended"
	}
	utils.WriteJSON(w, http.StatusOK, msg, nil)
}
