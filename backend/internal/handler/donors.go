package handler

import (
	"net/http"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func donorFromRequest(req api.DonorRequest) (domain.Donor, error) {
	dob, err := parseOptionalDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return domain.Donor{}, err
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return domain.Donor{
		Name:        req.Name,
		BloodGroup:  domain.BloodGroup(req.BloodGroup),
		Phone:       req.Phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Address:     req.Address.Domain(),
		DateOfBirth: dob,
		IsAvailable: available,
	}, nil
}

func (h *Handler) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	var req api.DonorRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	donor, err := donorFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	created, err := h.donors.Register(caller(r).Id, donor)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Donor profile created", api.NewDonorResponse(created))
}

// ListDonors handles GET /api/donors?blood_group=&city=&available=
func (h *Handler) ListDonors(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	available, err := queryBool(r, "available")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	q := r.URL.Query()
	filter := domain.DonorFilter{
		BloodGroup: domain.BloodGroup(strings.TrimSpace(q.Get("blood_group"))),
		City:       strings.TrimSpace(q.Get("city")),
		Available:  available,
	}

	donors, total, err := h.donors.List(filter, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewDonorResponses(donors), page, total)
}

func (h *Handler) MyDonorProfile(w http.ResponseWriter, r *http.Request) {
	donor, err := h.donors.Mine(caller(r).Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewDonorResponse(donor))
}

func (h *Handler) GetDonor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	donor, err := h.donors.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewDonorResponse(donor))
}

func (h *Handler) UpdateDonor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.DonorRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	donor, err := donorFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	donor.Id = id

	updated, err := h.donors.Update(caller(r), donor)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Donor profile updated", api.NewDonorResponse(updated))
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req api.AvailabilityRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	donor, err := h.donors.SetAvailability(caller(r).Id, *req.Available)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Availability updated", api.NewDonorResponse(donor))
}

// RecordDonation handles POST /api/donors/{id}/donations
func (h *Handler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.RecordDonationRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	rec := domain.DonationRecord{Units: req.Units, Notes: req.Notes}
	if req.Date != "" {
		if rec.Date, err = parseDate(req.Date, "date"); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	donor, err := h.donors.RecordDonation(caller(r), id, rec)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Donation recorded", api.NewDonorResponse(donor))
}

func (h *Handler) DeleteDonor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.donors.Delete(id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Donor deleted", nil)
}
