package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestHMACVerifier_Verify(t *testing.T) {
	cfg := config.IdentityConfig{HMACSecret: testSecret, Issuer: "https://id.example.com", Audience: "quizhub"}
	v := NewHMACVerifier(cfg)

	valid := tokenClaims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth-1",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name    string
		token   func() string
		wantErr bool
	}{
		{name: "valid", token: func() string { return signHS256(t, valid, testSecret) }},
		{name: "wrong secret", token: func() string { return signHS256(t, valid, "other") }, wantErr: true},
		{name: "expired", token: func() string {
			c := valid
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			return signHS256(t, c, testSecret)
		}, wantErr: true},
		{name: "missing expiry", token: func() string {
			c := valid
			c.ExpiresAt = nil
			return signHS256(t, c, testSecret)
		}, wantErr: true},
		{name: "wrong issuer", token: func() string {
			c := valid
			c.Issuer = "https://evil.example.com"
			return signHS256(t, c, testSecret)
		}, wantErr: true},
		{name: "missing subject", token: func() string {
			c := valid
			c.Subject = ""
			return signHS256(t, c, testSecret)
		}, wantErr: true},
		{name: "garbage", token: func() string { return "not-a-jwt" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tt.token())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "auth-1", claims.AuthID)
			assert.Equal(t, "alice@example.com", claims.Email)
		})
	}
}

func TestNewJWTVerifier_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTVerifier(context.Background(), config.IdentityConfig{})
	assert.Error(t, err)
}

func TestJWKSVerifier_Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "key-1",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	defer srv.Close()

	v, err := NewJWTVerifier(context.Background(), config.IdentityConfig{JWKSURL: srv.URL})
	require.NoError(t, err)
	defer v.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, tokenClaims{
		Email: "bob@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "auth-2", claims.AuthID)

	// HS256 tokens must not be accepted by an RS256 verifier.
	_, err = v.Verify(context.Background(), signHS256(t, jwt.RegisteredClaims{
		Subject:   "auth-2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "whatever"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// adminServer fakes the provider: a client-credentials token endpoint and the accounts API.
func adminServer(t *testing.T, accounts []string, pageSize int) (*httptest.Server, *int32) {
	t.Helper()
	var deleted int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"admin-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodDelete, r.Method)
		switch strings.TrimPrefix(r.URL.Path, "/accounts/") {
		case "gone":
			w.WriteHeader(http.StatusNotFound)
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("backend unavailable"))
		default:
			atomic.AddInt32(&deleted, 1)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/accounts:batchDelete", func(w http.ResponseWriter, r *http.Request) {
		var req batchDeleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		atomic.AddInt32(&deleted, int32(len(req.IDs)))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		start := 0
		if tok := r.URL.Query().Get("pageToken"); tok != "" {
			start, _ = strconv.Atoi(tok)
		}
		end := start + pageSize
		if end > len(accounts) {
			end = len(accounts)
		}
		resp := map[string]interface{}{}
		list := []map[string]string{}
		for _, id := range accounts[start:end] {
			list = append(list, map[string]string{"id": id, "email": id + "@example.com"})
		}
		resp["accounts"] = list
		if end < len(accounts) {
			resp["nextPageToken"] = strconv.Itoa(end)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(mux), &deleted
}

func newTestAdmin(srv *httptest.Server) *AdminClient {
	return NewAdminClient(context.Background(), config.IdentityConfig{
		AdminBaseURL:      srv.URL,
		TokenURL:          srv.URL + "/token",
		ClientID:          "quizhub",
		ClientSecret:      "secret",
		RequestsPerSecond: 1000,
	})
}

func TestAdminClient_DeleteAccount(t *testing.T) {
	srv, deleted := adminServer(t, nil, 10)
	defer srv.Close()
	admin := newTestAdmin(srv)
	ctx := context.Background()

	assert.NoError(t, admin.DeleteAccount(ctx, "auth-1"))
	assert.EqualValues(t, 1, atomic.LoadInt32(deleted))

	assert.ErrorIs(t, admin.DeleteAccount(ctx, "gone"), domain.ErrIdentityAccountNotFound)

	err := admin.DeleteAccount(ctx, "boom")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "backend unavailable", apiErr.Body)
}

func TestAdminClient_DeleteAccounts_Batches(t *testing.T) {
	srv, deleted := adminServer(t, nil, 10)
	defer srv.Close()
	admin := newTestAdmin(srv)

	ids := make([]string, 2500)
	for i := range ids {
		ids[i] = "auth-" + strconv.Itoa(i)
	}
	require.NoError(t, admin.DeleteAccounts(context.Background(), ids))
	assert.EqualValues(t, 2500, atomic.LoadInt32(deleted))
}

func TestListAllAccounts_FollowsPageTokens(t *testing.T) {
	accounts := []string{"a1", "a2", "a3", "a4", "a5"}
	srv, _ := adminServer(t, accounts, 2)
	defer srv.Close()
	admin := newTestAdmin(srv)

	all, err := ListAllAccounts(context.Background(), admin, 2)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, a := range all {
		assert.Equal(t, accounts[i], a.AuthID)
		assert.Equal(t, accounts[i]+"@example.com", a.Email)
	}
}
