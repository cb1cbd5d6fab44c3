package friendship

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	var body struct {
		ReceiverID string `json:"receiver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ReceiverID == "" {
		return httpx.BadRequest("receiver_id required")
	}
	req, err := h.svc.SendRequest(r.Context(), uid, body.ReceiverID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, req, http.StatusCreated)
	return nil
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.svc.AcceptRequest, "accepted")
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.svc.RejectRequest, "rejected")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) error {
	return h.resolve(w, r, h.svc.CancelRequest, "cancelled")
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, op func(context.Context, string, uint64) error, status string) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad request id")
	}
	if err := op(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": status}, http.StatusOK)
	return nil
}

func (h *Handler) Unfriend(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	other := r.PathValue("id")
	if other == "" {
		return httpx.BadRequest("missing user id")
	}
	if err := h.svc.Unfriend(r.Context(), uid, other); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "unfriended"}, http.StatusOK)
	return nil
}

func (h *Handler) Sent(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	items, err := h.svc.SentRequests(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"requests": items}, http.StatusOK)
	return nil
}

func (h *Handler) Received(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	items, err := h.svc.ReceivedRequests(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"requests": items}, http.StatusOK)
	return nil
}

func (h *Handler) Friends(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "" {
		var err error
		id, err = httpx.UserFromCtx(r)
		if err != nil {
			return httpx.Unauthorized("auth required")
		}
	}
	items, err := h.svc.FriendsOf(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"friends": items}, http.StatusOK)
	return nil
}
