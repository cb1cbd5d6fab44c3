package notification

import (
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.svc.ListFor(r.Context(), uid, limit)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"notifications": items}, http.StatusOK)
	return nil
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad id")
	}
	if err := h.svc.MarkRead(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	if err := h.svc.MarkAllRead(r.Context(), uid); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad id")
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	return nil
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	count, err := h.svc.UnreadCount(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]int64{"unread": count}, http.StatusOK)
	return nil
}
