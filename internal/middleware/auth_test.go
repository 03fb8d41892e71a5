package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/server"
)

func TestRequireAuth_EnriqueceLoggerComCliente(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}}
	srv := &server.Server{Config: cfg, Logger: &log}

	clienteID := uuid.New()
	now := time.Now()
	token, err := IssueToken(&cfg.Auth, clienteID, now.Unix(), now.Add(time.Hour).Unix())
	require.NoError(t, err)

	enhancer := NewContextEnhancer(srv)
	auth := NewAuth(&cfg.Auth)

	var actorInContext uuid.UUID
	handler := enhancer.EnhanceContext(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorInContext = GetActorID(r.Context())
		GetLogger(r.Context()).Info().Msg("handled")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clienteID, actorInContext)
	assert.Contains(t, buf.String(), `"cliente_id":"`+clienteID.String()+`"`)
}

func TestRequireAuth_TokenInvalido(t *testing.T) {
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	auth := NewAuth(cfg)

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
