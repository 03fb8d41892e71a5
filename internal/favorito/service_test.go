package favorito

import (
	"context"
	"testing"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Alternar(ctx context.Context, clienteID, anuncioID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clienteID, anuncioID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error) {
	args := m.Called(ctx, anuncioID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Favorito, error) {
	args := m.Called(ctx, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Favorito), args.Error(1)
}

type MockAnuncios struct {
	mock.Mock
}

func (m *MockAnuncios) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Anuncio), args.Error(1)
}

func TestAlternarFavorito_AdicionaERemove(t *testing.T) {
	repo := new(MockRepository)
	anuncios := new(MockAnuncios)
	clienteID := uuid.New()
	anuncioID := uuid.New()

	anuncios.On("ObterPorID", mock.Anything, anuncioID).
		Return(&model.Anuncio{ID: anuncioID}, nil).Twice()
	repo.On("Alternar", mock.Anything, clienteID, anuncioID).Return(true, nil).Once()
	repo.On("ContarPorAnuncio", mock.Anything, anuncioID).Return(int64(3), nil).Once()

	s := NewService(repo, anuncios)

	res, err := s.AlternarFavorito(context.Background(), clienteID, anuncioID)
	require.NoError(t, err)
	assert.True(t, res.Favorito)
	assert.Equal(t, int64(3), res.Total)

	// same call again undoes the favorite
	repo.On("Alternar", mock.Anything, clienteID, anuncioID).Return(false, nil).Once()
	repo.On("ContarPorAnuncio", mock.Anything, anuncioID).Return(int64(2), nil).Once()

	res, err = s.AlternarFavorito(context.Background(), clienteID, anuncioID)
	require.NoError(t, err)
	assert.False(t, res.Favorito)
	assert.Equal(t, int64(2), res.Total)
	repo.AssertExpectations(t)
}

func TestAlternarFavorito_AnuncioInexistente(t *testing.T) {
	repo := new(MockRepository)
	anuncios := new(MockAnuncios)
	anuncioID := uuid.New()

	anuncios.On("ObterPorID", mock.Anything, anuncioID).Return(nil, anuncio.ErrNaoEncontrado)

	s := NewService(repo, anuncios)

	_, err := s.AlternarFavorito(context.Background(), uuid.New(), anuncioID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	repo.AssertNotCalled(t, "Alternar", mock.Anything, mock.Anything, mock.Anything)
}
