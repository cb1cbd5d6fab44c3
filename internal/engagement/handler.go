package engagement

import (
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, KindPostLike)
}

func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, KindCommentLike)
}

func (h *Handler) SavePost(w http.ResponseWriter, r *http.Request) error {
	return h.toggle(w, r, KindSave)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, kind Kind) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad target id")
	}
	res, err := h.svc.Toggle(r.Context(), uid, kind, id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}

func (h *Handler) SavedPosts(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	items, err := h.svc.SavedPosts(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"posts": items}, http.StatusOK)
	return nil
}

func (h *Handler) PostLikers(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	items, err := h.svc.PostLikers(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"likers": items}, http.StatusOK)
	return nil
}
