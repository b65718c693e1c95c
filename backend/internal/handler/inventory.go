package handler

import (
	"net/http"
	"strconv"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func inventoryFromRequest(req api.InventoryRequest) (domain.Inventory, error) {
	expiry, err := parseDate(req.ExpiryDate, "expiry_date")
	if err != nil {
		return domain.Inventory{}, err
	}
	return domain.Inventory{
		BloodGroup:        domain.BloodGroup(req.BloodGroup),
		FirstSerialNumber: *req.FirstSerialNumber,
		LastSerialNumber:  *req.LastSerialNumber,
		ExpiryDate:        expiry,
		Status:            domain.InventoryStatus(req.Status),
	}, nil
}

func (h *Handler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var req api.InventoryRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	inv, err := inventoryFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	created, err := h.inventory.Create(caller(r).Id, inv)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Inventory added", api.NewInventoryResponse(created))
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	q := r.URL.Query()
	filter := domain.InventoryFilter{
		Status:     domain.InventoryStatus(q.Get("status")),
		BloodGroup: domain.BloodGroup(q.Get("blood_group")),
	}

	items, total, err := h.inventory.List(caller(r).Id, filter, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewInventoryResponses(items), page, total)
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	inv, err := h.inventory.Get(caller(r).Id, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewInventoryResponse(inv))
}

func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.InventoryRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	inv, err := inventoryFromRequest(req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	inv.Id = id

	updated, err := h.inventory.Update(caller(r).Id, inv)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Inventory updated", api.NewInventoryResponse(updated))
}

func (h *Handler) SetInventoryStatus(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.inventory.SetStatus(caller(r).Id, id, domain.InventoryStatus(body.Status))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Status updated", api.NewInventoryResponse(inv))
}

func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.inventory.Delete(caller(r).Id, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Inventory deleted", nil)
}

// InventorySummary handles GET /api/inventory/summary: units per blood
// group and status.
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventory.Summary(caller(r).Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", summary)
}

// ExpiringInventory handles GET /api/inventory/expiring?days=N
func (h *Handler) ExpiringInventory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, errors.BadRequest("invalid days: must be an integer"))
			return
		}
		days = n
	}

	items, err := h.inventory.Expiring(caller(r).Id, days)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewInventoryResponses(items))
}

// ExportInventory handles GET /api/inventory/export and streams an XLSX file.
func (h *Handler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.inventory.Export(caller(r).Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
