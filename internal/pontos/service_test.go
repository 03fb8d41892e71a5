package pontos

import (
	"context"
	"testing"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Adicionar(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	args := m.Called(ctx, clienteID, pontos, transacaoID)
	return args.Error(0)
}

func (m *MockRepository) Remover(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	args := m.Called(ctx, clienteID, pontos, transacaoID)
	return args.Error(0)
}

func (m *MockRepository) ObterPontos(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clienteID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ObterHistorico(ctx context.Context, clienteID uuid.UUID) ([]types.MovimentoDetalhe, error) {
	args := m.Called(ctx, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MovimentoDetalhe), args.Error(1)
}

func TestRemoverPontos_SaldoInsuficiente(t *testing.T) {
	repo := new(MockRepository)
	clienteID := uuid.New()

	repo.On("Remover", mock.Anything, clienteID, int64(50), (*uuid.UUID)(nil)).
		Return(ErrSaldoInsuficiente)

	s := NewService(repo)

	err := s.RemoverPontos(context.Background(), clienteID, 50, nil)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientBalance))
}

func TestRemoverPontos_QuantidadeInvalida(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo)

	err := s.RemoverPontos(context.Background(), uuid.New(), 0, nil)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	repo.AssertNotCalled(t, "Remover", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdicionarPontos_QuantidadeInvalida(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo)

	err := s.AdicionarPontos(context.Background(), uuid.New(), -10, nil)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestObterPontos_SaldoDerivado(t *testing.T) {
	repo := new(MockRepository)
	clienteID := uuid.New()

	repo.On("ObterPontos", mock.Anything, clienteID).Return(int64(120), nil)

	s := NewService(repo)

	saldo, err := s.ObterPontos(context.Background(), clienteID)

	require.NoError(t, err)
	assert.Equal(t, int64(120), saldo)
}
