package server

import (
	"mime"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const passcodeHeader = "X-Reset-Passcode"

// passcodeMiddleware rejects requests whose X-Reset-Passcode header does not
// match hash. An empty hash lets every request through.
func passcodeMiddleware(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passcode := r.Header.Get(passcodeHeader)
			if passcode == "" {
				writeError(w, http.StatusUnauthorized, "passcode required")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid passcode")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireJSONMiddleware rejects POST, PUT and PATCH requests whose
// Content-Type is not application/json with 415, including bodiless ones.
func requireJSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requiresJSON(r.Method) {
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func requiresJSON(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
