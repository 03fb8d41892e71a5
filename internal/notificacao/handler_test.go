package notificacao

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Criar(ctx context.Context, n *model.Notificacao) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) ListarPorCliente(ctx context.Context, clienteID uuid.UUID, apenasNaoLidas bool) ([]model.Notificacao, error) {
	args := m.Called(ctx, clienteID, apenasNaoLidas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notificacao), args.Error(1)
}

func (m *MockRepository) ContarNaoLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clienteID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarcarLida(ctx context.Context, id, clienteID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, clienteID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MarcarTodasLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clienteID)
	return args.Get(0).(int64), args.Error(1)
}

func setupRouter(repo Repository) (*chi.Mux, *config.AuthConfig) {
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	auth := middleware.NewAuth(cfg)

	h := NewHandler(NewService(repo))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/notificacoes", h.Listar)
		r.Get("/notificacoes/nao-lidas", h.ContarNaoLidas)
		r.Put("/notificacoes/ler-todas", h.MarcarTodasLidas)
		r.Put("/notificacoes/{notificacaoId}/ler", h.MarcarLida)
	})
	return r, cfg
}

func bearerFor(t *testing.T, cfg *config.AuthConfig, clienteID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	token, err := middleware.IssueToken(cfg, clienteID, now.Unix(), now.Add(cfg.TokenTTL).Unix())
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandler_Listar_DevolveFeedDoCliente(t *testing.T) {
	clienteID := uuid.New()
	repo := new(MockRepository)
	repo.On("ListarPorCliente", mock.Anything, clienteID, false).
		Return([]model.Notificacao{
			{ID: uuid.New(), ClienteID: clienteID, Tipo: "pedido_recebido", Titulo: "Novo pedido"},
			{ID: uuid.New(), ClienteID: clienteID, Tipo: "mensagem_recebida", Titulo: "Nova mensagem", Lida: true},
		}, nil)

	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/notificacoes", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, clienteID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Notificacao
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "pedido_recebido", got[0].Tipo)
	repo.AssertExpectations(t)
}

func TestHandler_Listar_FiltraNaoLidas(t *testing.T) {
	clienteID := uuid.New()
	repo := new(MockRepository)
	repo.On("ListarPorCliente", mock.Anything, clienteID, true).
		Return([]model.Notificacao{}, nil)

	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/notificacoes?nao_lidas=true", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, clienteID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestHandler_SemToken_NaoAutorizado(t *testing.T) {
	repo := new(MockRepository)
	router, _ := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/notificacoes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "ListarPorCliente", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ContarNaoLidas(t *testing.T) {
	clienteID := uuid.New()
	repo := new(MockRepository)
	repo.On("ContarNaoLidas", mock.Anything, clienteID).Return(int64(3), nil)

	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/notificacoes/nao-lidas", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, clienteID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got["nao_lidas"])
}

func TestHandler_MarcarLida_DeOutroCliente_NaoEncontrada(t *testing.T) {
	clienteID := uuid.New()
	notificacaoID := uuid.New()
	repo := new(MockRepository)
	repo.On("MarcarLida", mock.Anything, notificacaoID, clienteID).Return(false, nil)

	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/notificacoes/"+notificacaoID.String()+"/ler", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, clienteID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MarcarLida_IDInvalido(t *testing.T) {
	repo := new(MockRepository)
	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/notificacoes/nao-e-uuid/ler", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "MarcarLida", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_MarcarTodasLidas(t *testing.T) {
	clienteID := uuid.New()
	repo := new(MockRepository)
	repo.On("MarcarTodasLidas", mock.Anything, clienteID).Return(int64(5), nil)

	router, cfg := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/notificacoes/ler-todas", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, clienteID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(5), got["marcadas"])
}
