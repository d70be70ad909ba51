package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho(admin adminMiddleware) http.Handler {
	return admin.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminMiddlewareStaticToken(t *testing.T) {
	admin := newAdminMiddleware("secret-token", "")
	handler := protectedEcho(admin)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer secret-token", http.StatusOK},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic secret-token", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/data/sync", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAdminMiddlewareUnconfiguredRejectsEverything(t *testing.T) {
	admin := newAdminMiddleware("", "")
	handler := protectedEcho(admin)

	req := httptest.NewRequest(http.MethodPost, "/api/data/sync", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func signTestJWT(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminMiddlewareJWT(t *testing.T) {
	admin := newAdminMiddleware("secret-token", "jwt-secret")
	handler := protectedEcho(admin)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid jwt", signTestJWT(t, "jwt-secret", time.Now().Add(time.Hour)), http.StatusOK},
		{"expired jwt", signTestJWT(t, "jwt-secret", time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"wrong secret", signTestJWT(t, "other-secret", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"static token still works", "secret-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/data/sync", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMintTokenRoundTrip(t *testing.T) {
	handler := newAuthHandler(map[string]string{
		"ADMIN_TOKEN":      "secret-token",
		"ADMIN_JWT_SECRET": "jwt-secret",
	})

	body, _ := json.Marshal(tokenRequest{Token: "secret-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.mintToken().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// the minted token must pass the gate
	admin := newAdminMiddleware("secret-token", "jwt-secret")
	gateReq := httptest.NewRequest(http.MethodPost, "/api/data/sync", nil)
	gateReq.Header.Set("Authorization", "Bearer "+resp.Token)
	gateRec := httptest.NewRecorder()
	protectedEcho(admin).ServeHTTP(gateRec, gateReq)
	assert.Equal(t, http.StatusOK, gateRec.Code)
}

func TestMintTokenWrongCredential(t *testing.T) {
	handler := newAuthHandler(map[string]string{
		"ADMIN_TOKEN":      "secret-token",
		"ADMIN_JWT_SECRET": "jwt-secret",
	})

	body, _ := json.Marshal(tokenRequest{Token: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.mintToken().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMintTokenDisabledWithoutSecret(t *testing.T) {
	handler := newAuthHandler(map[string]string{"ADMIN_TOKEN": "secret-token"})

	body, _ := json.Marshal(tokenRequest{Token: "secret-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.mintToken().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
