package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req api.StartConversationRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	conv, err := h.chat.Start(caller(r), req.ParticipantId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewConversationResponse(conv))
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.chat.Conversations(caller(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "", api.NewConversationResponses(convs))
}

// ListMessages handles GET /api/chat/conversations/{id}/messages, newest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msgs, total, err := h.chat.Messages(caller(r), chi.URLParam(r, "id"), page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteList(w, api.NewChatMessageResponses(msgs), page, total)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req api.SendMessageRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msg, err := h.chat.Send(caller(r), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Message sent", api.NewChatMessageResponse(msg))
}

func (h *Handler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.chat.MarkRead(caller(r), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Marked as read", map[string]int64{"updated": n})
}
