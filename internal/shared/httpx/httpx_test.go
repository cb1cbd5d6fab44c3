package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"engagement-service/internal/apperr"
	"engagement-service/internal/shared/jwt"
)

func TestWrapStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperr.NotFound("post_not_found", "post not found"), http.StatusNotFound, "post_not_found"},
		{"conflict", apperr.Conflict("duplicate_request", "already sent"), http.StatusConflict, "duplicate_request"},
		{"invalid state", apperr.InvalidState("poll_expired", "poll has expired"), http.StatusUnprocessableEntity, "poll_expired"},
		{"self reference", apperr.SelfReference("self_request", "no self requests"), http.StatusBadRequest, "self_request"},
		{"bad request helper", BadRequest("invalid id"), http.StatusBadRequest, ""},
		{"unauthorized helper", Unauthorized("who are you"), http.StatusUnauthorized, ""},
		{"opaque", errors.New("pq: connection refused"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Wrap(func(w http.ResponseWriter, r *http.Request) error { return tc.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tc.status {
				t.Fatalf("status: want %d, got %d", tc.status, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body: %v", err)
			}
			if tc.code != "" && body["code"] != tc.code {
				t.Fatalf("code: want %q, got %q", tc.code, body["code"])
			}
		})
	}
}

func TestWrapOpaqueErrorHidesDetail(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("pq: password authentication failed for user postgres")
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal error" {
		t.Fatalf("internal detail leaked: %q", body["error"])
	}
}

func TestWrapNilError(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		WriteJSON(w, map[string]string{"ok": "yes"}, http.StatusOK)
		return nil
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	signer := jwt.New("test-secret")
	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromCtx(r)
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware(signer, next)

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}

	// garbage token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}

	// valid token flows the user id through
	tok, err := signer.Sign("user-123")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid token: %d", rec.Code)
	}
	if gotUser != "user-123" {
		t.Fatalf("user id: %q", gotUser)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := BearerToken(req); got != "" {
		t.Fatalf("no header: %q", got)
	}
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := BearerToken(req); got != "" {
		t.Fatalf("non-bearer: %q", got)
	}
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := BearerToken(req); got != "abc.def.ghi" {
		t.Fatalf("bearer: %q", got)
	}
}
