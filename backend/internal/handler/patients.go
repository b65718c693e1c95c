package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func patientFromRequest(req api.PatientRequest) (domain.Patient, error) {
	needed, err := parseDate(req.DateNeeded, "date_needed")
	if err != nil {
		return domain.Patient{}, err
	}
	return domain.Patient{
		Name:          req.Name,
		Address:       req.Address,
		MRID:          req.MRID,
		Phone:         req.Phone,
		BloodGroup:    domain.BloodGroup(req.BloodGroup),
		UnitsRequired: req.UnitsRequired,
		DateNeeded:    needed,
	}, nil
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req api.PatientRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	patient, err := patientFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	created, err := h.patients.Create(caller(r).Id, patient)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Patient created", api.NewPatientResponse(created))
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	patients, total, err := h.patients.List(caller(r).Id, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewPatientResponses(patients), page, total)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	patient, err := h.patients.Get(caller(r).Id, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewPatientResponse(patient))
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.PatientRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	patient, err := patientFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	patient.Id = id

	updated, err := h.patients.Update(caller(r).Id, patient)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Patient updated", api.NewPatientResponse(updated))
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.patients.Delete(caller(r).Id, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Patient deleted", nil)
}
