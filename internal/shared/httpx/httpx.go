package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"engagement-service/internal/apperr"
	"engagement-service/internal/shared/jwt"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap adapts an error-returning handler and maps typed service errors to
// status codes. Unknown errors become 500 without leaking internals.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			WriteError(w, http.StatusNotFound, err)
		case apperr.KindConflict:
			WriteError(w, http.StatusConflict, err)
		case apperr.KindInvalidState:
			WriteError(w, http.StatusUnprocessableEntity, err)
		case apperr.KindSelfReference:
			WriteError(w, http.StatusBadRequest, err)
		default:
			var he httpErr
			if errors.As(err, &he) {
				WriteJSON(w, map[string]string{"error": he.msg}, he.code)
				return
			}
			WriteJSON(w, map[string]string{"error": "internal error"}, http.StatusInternalServerError)
		}
	})
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, err error) {
	WriteJSON(w, map[string]string{"error": err.Error(), "code": apperr.CodeOf(err)}, code)
}

type httpErr struct {
	msg  string
	code int
}

func (e httpErr) Error() string { return e.msg }

func BadRequest(m string) error   { return httpErr{m, http.StatusBadRequest} }
func Unauthorized(m string) error { return httpErr{m, http.StatusUnauthorized} }

type ctxKey string

const userKey ctxKey = "user_id"

var ErrNoUser = errors.New("no user in context")

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func AuthMiddleware(signer *jwt.Signer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			WriteJSON(w, map[string]string{"error": "missing token"}, http.StatusUnauthorized)
			return
		}
		uid, err := signer.Parse(tok)
		if err != nil || uid == "" {
			WriteJSON(w, map[string]string{"error": "invalid token"}, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser is used by tests and internal callers to stamp a user id.
func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

func UserFromCtx(r *http.Request) (string, error) {
	uid, _ := r.Context().Value(userKey).(string)
	if uid == "" {
		return "", ErrNoUser
	}
	return uid, nil
}
