package api

import (
	"context"
	"net/http"

	"github.com/sandyspace/catalog-manager/models"
)

// PINHeader carries the app PIN on every gated request.
const PINHeader = "X-App-Pin"

type PINVerifier interface {
	VerifyPIN(ctx context.Context, pin string) bool
}

// RequirePIN rejects requests whose PIN header does not match the stored PIN.
// POST /pin/verify stays open so the lock screen can check a PIN.
func RequirePIN(verifier PINVerifier, rs *Responder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/pin/verify" {
			next.ServeHTTP(w, r)
			return
		}
		pin := r.Header.Get(PINHeader)
		if pin == "" || !verifier.VerifyPIN(r.Context(), pin) {
			rs.Error(w, r, models.ErrPINIncorrect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
