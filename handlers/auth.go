package handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const devUserHeader = "X-User-Id"

// CallerId resolves the authenticated caller identity. With an auth secret
// configured, the identity provider's HS256 Bearer token is required and the
// subject claim is the caller id. Without one the dev header is trusted
// as-is. Returns "" when no identity can be established.
func (h *HTTPHandler) CallerId(r *http.Request) string {
	if h.AuthSecret == "" {
		return r.Header.Get(devUserHeader)
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return ""
	}
	token, err := jwt.Parse(
		strings.TrimSpace(auth[len("bearer "):]),
		func(t *jwt.Token) (interface{}, error) {
			return []byte(h.AuthSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return ""
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return subject
}
