package story

import (
	"encoding/json"
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	var body struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return httpx.BadRequest("bad json")
	}
	st, err := h.svc.Create(r.Context(), uid, body.ImageURL)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, st, http.StatusCreated)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	items, err := h.svc.ListActive(r.Context())
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"stories": items}, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad story id")
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	return nil
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) error {
	n, err := h.svc.Sweep(r.Context())
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]int64{"deleted": n}, http.StatusOK)
	return nil
}
