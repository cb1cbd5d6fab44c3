package poll

import (
	"encoding/json"
	"net/http"
	"strconv"

	"engagement-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return httpx.Unauthorized("auth required")
	}
	postID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	var body struct {
		OptionID uint64 `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OptionID == 0 {
		return httpx.BadRequest("option_id required")
	}
	view, err := h.svc.Vote(r.Context(), uid, postID, body.OptionID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, view, http.StatusOK)
	return nil
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) error {
	postID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return httpx.BadRequest("bad post id")
	}
	res, err := h.svc.Results(r.Context(), postID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, res, http.StatusOK)
	return nil
}
