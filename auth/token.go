// Package auth issues and checks the HS256 bearer tokens that guard the
// REST API.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/log"
)

const issuer = "quickdraw"

var ErrUnauthorized = errors.New("unauthorized")

// Issue signs a token for subject valid for ttl.
func Issue(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "can't sign token")
	}
	return token, nil
}

// Verify checks signature, algorithm and expiry, and returns the subject.
func Verify(secret []byte, token string) (string, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", errors.Wrap(ErrUnauthorized, err.Error())
	}
	if !parsed.Valid || claims.Issuer != issuer {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token. An empty secret
// disables the check.
func Middleware(secret []byte, next http.Handler) http.Handler {
	if len(secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}
		subject, err := Verify(secret, token)
		if err != nil {
			log.Trace.Printf("auth: %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w, "invalid token")
			return
		}
		log.Trace.Printf("auth: %s %s by %s", r.Method, r.URL.Path, subject)
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="quickdraw"`)
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
