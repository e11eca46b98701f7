package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("s3cret")

func TestIssueVerify(t *testing.T) {
	token, err := Issue(secret, "player1", time.Hour)
	require.NoError(t, err)

	subject, err := Verify(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "player1", subject)

	_, err = Verify([]byte("other"), token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestVerifyExpired(t *testing.T) {
	token, err := Issue(secret, "player1", -time.Minute)
	require.NoError(t, err)

	_, err = Verify(secret, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{Issuer: issuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(secret, token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(secret, ok)

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/model-info", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	token, err := Issue(secret, "player1", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, do("Bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer junk"))
	assert.Equal(t, http.StatusUnauthorized, do(token))

	open := Middleware(nil, ok)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
