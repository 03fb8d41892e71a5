package anuncio

import (
	"context"
	"testing"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Criar(ctx context.Context, a *model.Anuncio) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Anuncio), args.Error(1)
}

func (m *MockRepository) Listar(ctx context.Context, filtro *types.FiltroAnuncios) ([]model.Anuncio, error) {
	args := m.Called(ctx, filtro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Anuncio), args.Error(1)
}

func (m *MockRepository) ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.Anuncio, error) {
	args := m.Called(ctx, vendedorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Anuncio), args.Error(1)
}

func (m *MockRepository) AtualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	args := m.Called(ctx, id, estado)
	return args.Error(0)
}

type MockCatalogo struct {
	mock.Mock
}

func (m *MockCatalogo) ObterOuCriarLivro(ctx context.Context, isbn, titulo, autor string) (*model.Livro, error) {
	args := m.Called(ctx, isbn, titulo, autor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Livro), args.Error(1)
}

func (m *MockCatalogo) ObterLivro(ctx context.Context, isbn string) (*model.Livro, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Livro), args.Error(1)
}

type MockFavoritos struct {
	mock.Mock
}

func (m *MockFavoritos) ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error) {
	args := m.Called(ctx, anuncioID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCriar_DoacaoComPreco(t *testing.T) {
	s := NewService(new(MockRepository), new(MockCatalogo), new(MockFavoritos))

	_, err := s.Criar(context.Background(), uuid.New(), &types.CriarAnuncioRequest{
		TipoAnuncio: model.AnuncioDoacao,
		Preco:       100,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCriar_VendaSemPreco(t *testing.T) {
	s := NewService(new(MockRepository), new(MockCatalogo), new(MockFavoritos))

	_, err := s.Criar(context.Background(), uuid.New(), &types.CriarAnuncioRequest{
		TipoAnuncio: model.AnuncioVenda,
		Preco:       0,
	})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCriar_ResolveLivroPeloISBN(t *testing.T) {
	repo := new(MockRepository)
	catalogo := new(MockCatalogo)
	vendedor := uuid.New()

	catalogo.On("ObterOuCriarLivro", mock.Anything, "9780134190440", "", "").
		Return(&model.Livro{ISBN: "9780134190440", Titulo: "The Go Programming Language"}, nil)
	repo.On("Criar", mock.Anything, mock.AnythingOfType("*model.Anuncio")).Return(nil)

	s := NewService(repo, catalogo, new(MockFavoritos))

	a, err := s.Criar(context.Background(), vendedor, &types.CriarAnuncioRequest{
		LivroISBN:   "9780134190440",
		TipoAnuncio: model.AnuncioVenda,
		Preco:       2500,
	})

	require.NoError(t, err)
	assert.Equal(t, model.AnuncioAtivo, a.EstadoAnuncio)
	assert.Equal(t, vendedor, a.VendedorID)
	repo.AssertExpectations(t)
}

func TestAtualizarEstado_ApenasVendedor(t *testing.T) {
	repo := new(MockRepository)
	a := &model.Anuncio{ID: uuid.New(), VendedorID: uuid.New(), EstadoAnuncio: model.AnuncioAtivo}

	repo.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(repo, new(MockCatalogo), new(MockFavoritos))

	_, err := s.AtualizarEstado(context.Background(), a.ID, uuid.New(), model.AnuncioIndisponivel)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestAtualizarEstado_VendidoEImutavel(t *testing.T) {
	repo := new(MockRepository)
	a := &model.Anuncio{ID: uuid.New(), VendedorID: uuid.New(), EstadoAnuncio: model.AnuncioVendido}

	repo.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(repo, new(MockCatalogo), new(MockFavoritos))

	_, err := s.AtualizarEstado(context.Background(), a.ID, a.VendedorID, model.AnuncioAtivo)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestAtualizarEstado_VendidoNaoSeAtribui(t *testing.T) {
	repo := new(MockRepository)
	a := &model.Anuncio{ID: uuid.New(), VendedorID: uuid.New(), EstadoAnuncio: model.AnuncioAtivo}

	repo.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(repo, new(MockCatalogo), new(MockFavoritos))

	_, err := s.AtualizarEstado(context.Background(), a.ID, a.VendedorID, model.AnuncioVendido)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	repo.AssertNotCalled(t, "AtualizarEstado", mock.Anything, mock.Anything, mock.Anything)
}
