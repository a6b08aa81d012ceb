// Package auth holds the request authorization seam and credential encoding
package auth

import (
	"errors"
	"net/http"
)

// ErrForbidden is returned by a Policy that rejects a request
var ErrForbidden = errors.New("access denied")

// Policy decides whether a request may reach the API handlers.
// Implementations return nil to allow the request.
type Policy interface {
	Authorize(r *http.Request) error
}

// PermitAll allows every request. It stands in until credential checking exists.
type PermitAll struct{}

// Authorize always allows the request
func (PermitAll) Authorize(*http.Request) error {
	return nil
}

// Middleware enforces the policy and answers 403 when it refuses a request
func Middleware(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.Authorize(r); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success":false,"message":"access denied"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
