package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	SignatureHeader = "X-Goog-Signature"

	maxSignedBody = 1 << 20
)

type ctxKey string

const verifiedKey ctxKey = "signature_verified"

// VerifySignature:
// - Si secret == "" => modo dev: el request sigue sin validar.
// - Si no => HMAC-SHA512(secret, body) en base64 debe coincidir con X-Goog-Signature.
// - Firma ausente o inválida => 401 y el handler no corre.
// El body se re-inyecta para que el handler lo pueda leer.
func VerifySignature(secret string) func(http.Handler) http.Handler {
	secret = strings.TrimSpace(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := strings.TrimSpace(r.Header.Get(SignatureHeader))
			if got == "" {
				unauthorized(w, "missing signature")
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxSignedBody))
			if err != nil {
				unauthorized(w, "unreadable body")
				return
			}
			_ = r.Body.Close()

			if !hmac.Equal([]byte(got), []byte(Sign(secret, body))) {
				unauthorized(w, "invalid signature")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r.WithContext(withVerified(r.Context())))
		})
	}
}

// Sign calcula la firma que espera VerifySignature.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
