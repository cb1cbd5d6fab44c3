package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("bad json")
	}
	resp, err := h.svc.Register(r.Context(), req.Username, req.Name, req.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, resp, http.StatusCreated)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("bad json")
	}
	resp, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, resp, http.StatusOK)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "" {
		return httpx.BadRequest("missing id")
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, u, http.StatusOK)
	return nil
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"users": items}, http.StatusOK)
	return nil
}
