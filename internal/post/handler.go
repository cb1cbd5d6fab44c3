package post

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
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("bad json")
	}
	view, err := h.svc.Create(r.Context(), uid, req)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, view, http.StatusCreated)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, view, http.StatusOK)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	items, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"posts": items}, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	return nil
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	postID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.BadRequest("bad json")
	}
	view, err := h.svc.CreateComment(r.Context(), uid, postID, req.Content)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, view, http.StatusCreated)
	return nil
}

func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) error {
	postID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	items, err := h.svc.Comments(r.Context(), postID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"comments": items}, http.StatusOK)
	return nil
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad comment id")
	}
	if err := h.svc.DeleteComment(r.Context(), uid, id); err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	return nil
}
