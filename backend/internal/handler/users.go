package handler

import (
	stderrors "errors"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
	"github.com/bloodlink-dev/bloodlink/shared/validation"
)

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.users.UpdateProfile(caller(r).Id, domain.UserProfileUpdate{
		Name:             req.Name,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Profile updated", api.NewUserResponse(user))
}

// UploadAvatar handles POST /api/users/me/avatar with a multipart "avatar" field.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.Public.MaxAvatarSize
	if err := validation.ValidateAndParseMultipart(r, w, validation.CalculateMaxRequestSize(maxSize, 1<<20)); err != nil {
		utils.WriteError(w, http.StatusRequestEntityTooLarge,
			"Avatar exceeds the limit of "+formatMB(maxSize)+" MB")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["avatar"]
	if len(files) != 1 {
		utils.WriteError(w, http.StatusBadRequest, "Exactly one file is expected in the avatar field")
		return
	}

	pending, err := validation.ValidateAvatar(files[0], h.cfg.Public.AllowedImageMimeTypes, maxSize)
	if err != nil {
		switch {
		case stderrors.Is(err, validation.ErrPayloadTooLarge):
			utils.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
		case stderrors.Is(err, validation.ErrInvalidMimeType):
			utils.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	defer pending.Data.Close()

	user, err := h.users.SetAvatar(caller(r).Id, pending)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Avatar updated", api.NewUserResponse(user))
}

func (h *Handler) Avatar(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	f, name, err := h.users.Avatar(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, path.Base(name), time.Time{}, f)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	users, total, err := h.users.List(domain.UserFilter{Role: domain.Role(r.URL.Query().Get("role"))}, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewUserResponses(users), page, total)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.users.Get(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewUserResponse(user))
}

// BlockUser handles POST /api/users/{id}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.BlockUserRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Block(caller(r).Id, userId, req.Message); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "User blocked", nil)
}

// UnblockUser handles DELETE /api/users/{id}/block
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Unblock(caller(r).Id, userId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "User unblocked", nil)
}

// SuspendUser handles POST /api/users/{id}/suspend. A missing "until"
// suspends until lifted manually.
func (h *Handler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var req api.SuspendUserRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Suspend(caller(r).Id, userId, req.Until, req.Message); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "User suspended", nil)
}

func (h *Handler) UnsuspendUser(w http.ResponseWriter, r *http.Request) {
	userId, err := idParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Unsuspend(caller(r).Id, userId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Suspension lifted", nil)
}

func formatMB(bytes int64) string {
	return strconv.FormatFloat(validation.FormatSizeMB(bytes), 'f', 1, 64)
}
