package avaliacao

import (
	"context"
	"testing"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Criar(ctx context.Context, a *model.Avaliacao) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) ListarPorAvaliado(ctx context.Context, avaliadoID uuid.UUID) ([]model.Avaliacao, error) {
	args := m.Called(ctx, avaliadoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Avaliacao), args.Error(1)
}

func (m *MockRepository) ObterReputacao(ctx context.Context, clienteID uuid.UUID) (*types.ReputacaoResponse, error) {
	args := m.Called(ctx, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ReputacaoResponse), args.Error(1)
}

type MockTransacoes struct {
	mock.Mock
}

func (m *MockTransacoes) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Transacao, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transacao), args.Error(1)
}

func transacaoConcluida() *model.Transacao {
	return &model.Transacao{
		ID:          uuid.New(),
		CompradorID: uuid.New(),
		VendedorID:  uuid.New(),
		Estado:      model.TransacaoConcluida,
	}
}

func TestCriar_CompradorAvaliaVendedor(t *testing.T) {
	repo := new(MockRepository)
	transacoes := new(MockTransacoes)
	tr := transacaoConcluida()

	transacoes.On("ObterPorID", mock.Anything, tr.ID).Return(tr, nil)
	repo.On("Criar", mock.Anything, mock.AnythingOfType("*model.Avaliacao")).Return(nil)

	s := NewService(repo, transacoes)

	a, err := s.Criar(context.Background(), tr.CompradorID, &types.CriarAvaliacaoRequest{
		TransacaoID: tr.ID,
		Nota:        5,
		Comentario:  "excelente",
	})

	require.NoError(t, err)
	assert.Equal(t, tr.VendedorID, a.AvaliadoID)
	assert.Equal(t, tr.CompradorID, a.AvaliadorID)
	repo.AssertExpectations(t)
}

func TestCriar_VendedorAvaliaComprador(t *testing.T) {
	repo := new(MockRepository)
	transacoes := new(MockTransacoes)
	tr := transacaoConcluida()

	transacoes.On("ObterPorID", mock.Anything, tr.ID).Return(tr, nil)
	repo.On("Criar", mock.Anything, mock.AnythingOfType("*model.Avaliacao")).Return(nil)

	s := NewService(repo, transacoes)

	a, err := s.Criar(context.Background(), tr.VendedorID, &types.CriarAvaliacaoRequest{TransacaoID: tr.ID, Nota: 4})

	require.NoError(t, err)
	assert.Equal(t, tr.CompradorID, a.AvaliadoID)
}

func TestCriar_TerceiroNaoAvalia(t *testing.T) {
	repo := new(MockRepository)
	transacoes := new(MockTransacoes)
	tr := transacaoConcluida()

	transacoes.On("ObterPorID", mock.Anything, tr.ID).Return(tr, nil)

	s := NewService(repo, transacoes)

	_, err := s.Criar(context.Background(), uuid.New(), &types.CriarAvaliacaoRequest{TransacaoID: tr.ID, Nota: 3})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	repo.AssertNotCalled(t, "Criar", mock.Anything, mock.Anything)
}

func TestCriar_TransacaoNaoConcluida(t *testing.T) {
	transacoes := new(MockTransacoes)
	tr := transacaoConcluida()
	tr.Estado = model.TransacaoPendente

	transacoes.On("ObterPorID", mock.Anything, tr.ID).Return(tr, nil)

	s := NewService(new(MockRepository), transacoes)

	_, err := s.Criar(context.Background(), tr.CompradorID, &types.CriarAvaliacaoRequest{TransacaoID: tr.ID, Nota: 3})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCriar_AvaliacaoDuplicada(t *testing.T) {
	repo := new(MockRepository)
	transacoes := new(MockTransacoes)
	tr := transacaoConcluida()

	transacoes.On("ObterPorID", mock.Anything, tr.ID).Return(tr, nil)
	repo.On("Criar", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23505"})

	s := NewService(repo, transacoes)

	_, err := s.Criar(context.Background(), tr.CompradorID, &types.CriarAvaliacaoRequest{TransacaoID: tr.ID, Nota: 3})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
