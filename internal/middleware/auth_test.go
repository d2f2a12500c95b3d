package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bnb/internal/middleware"
)

var testSecret = []byte("test-secret")

// echoUserHandler writes the authenticated user ID as the response body.
var echoUserHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(id.String()))
})

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/spots", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticator_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := middleware.IssueToken(testSecret, userID, time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	middleware.NewAuthenticator(testSecret)(echoUserHandler).ServeHTTP(rec, authRequest(token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestAuthenticator_Rejects(t *testing.T) {
	userID := uuid.New()
	otherSecret, err := middleware.IssueToken([]byte("other"), userID, time.Hour)
	require.NoError(t, err)
	expired, err := middleware.IssueToken(testSecret, userID, -time.Minute)
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: userID.String(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", otherSecret},
		{"expired", expired},
		{"subject not a uuid", badSubject},
		{"no expiry", noExpiry},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			middleware.NewAuthenticator(testSecret)(echoUserHandler).ServeHTTP(rec, authRequest(tc.token))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Authentication required"}`, rec.Body.String())
		})
	}
}

func TestUserIDFrom_Missing(t *testing.T) {
	_, ok := middleware.UserIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
