package pedido

import (
	"context"
	"testing"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
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

func (m *MockRepository) Criar(ctx context.Context, p *model.PedidoTransacao, evento outbox.Pending) error {
	args := m.Called(ctx, p, evento)
	return args.Error(0)
}

func (m *MockRepository) ObterPorID(ctx context.Context, id uuid.UUID) (*model.PedidoTransacao, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PedidoTransacao), args.Error(1)
}

func (m *MockRepository) ObterPendenteEntre(ctx context.Context, remetenteID, destinatarioID, anuncioID uuid.UUID) (*model.PedidoTransacao, error) {
	args := m.Called(ctx, remetenteID, destinatarioID, anuncioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PedidoTransacao), args.Error(1)
}

func (m *MockRepository) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PedidoTransacao, error) {
	args := m.Called(ctx, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PedidoTransacao), args.Error(1)
}

func (m *MockRepository) Aceitar(ctx context.Context, id uuid.UUID, evento outbox.Pending) ([]uuid.UUID, error) {
	args := m.Called(ctx, id, evento)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRepository) Fechar(ctx context.Context, id uuid.UUID, novoEstado string, evento *outbox.Pending) error {
	args := m.Called(ctx, id, novoEstado, evento)
	return args.Error(0)
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

type MockConversas struct {
	mock.Mock
}

func (m *MockConversas) ObterOuCriarConversa(ctx context.Context, anuncioID, compradorID, vendedorID uuid.UUID) (*model.Conversa, error) {
	args := m.Called(ctx, anuncioID, compradorID, vendedorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversa), args.Error(1)
}

func (m *MockConversas) ObterConversa(ctx context.Context, id uuid.UUID) (*model.Conversa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversa), args.Error(1)
}

func anuncioAtivo(vendedor uuid.UUID, tipo string) *model.Anuncio {
	return &model.Anuncio{
		ID:            uuid.New(),
		VendedorID:    vendedor,
		TipoAnuncio:   tipo,
		EstadoAnuncio: model.AnuncioAtivo,
	}
}

func TestCriar_ValorNaoPositivo(t *testing.T) {
	for _, valor := range []int64{0, -500} {
		repo := new(MockRepository)
		anuncios := new(MockAnuncios)

		s := NewService(repo, anuncios, new(MockConversas))

		_, err := s.Criar(context.Background(), uuid.New(), &types.CriarPedidoRequest{
			AnuncioID:     uuid.New(),
			ValorProposto: valor,
		})

		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		repo.AssertNotCalled(t, "Criar", mock.Anything, mock.Anything, mock.Anything)
		anuncios.AssertNotCalled(t, "ObterPorID", mock.Anything, mock.Anything)
	}
}

func TestCriar_CompradorAbreConversa(t *testing.T) {
	repo := new(MockRepository)
	anuncios := new(MockAnuncios)
	conversas := new(MockConversas)

	vendedor := uuid.New()
	comprador := uuid.New()
	a := anuncioAtivo(vendedor, model.AnuncioVenda)
	c := &model.Conversa{ID: uuid.New(), AnuncioID: a.ID, CompradorID: comprador, VendedorID: vendedor}

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)
	conversas.On("ObterOuCriarConversa", mock.Anything, a.ID, comprador, vendedor).Return(c, nil)
	repo.On("Criar", mock.Anything, mock.AnythingOfType("*model.PedidoTransacao"), mock.Anything).Return(nil)

	s := NewService(repo, anuncios, conversas)

	p, err := s.Criar(context.Background(), comprador, &types.CriarPedidoRequest{AnuncioID: a.ID, ValorProposto: 2500})

	require.NoError(t, err)
	assert.Equal(t, comprador, p.CompradorID)
	assert.Equal(t, vendedor, p.VendedorID)
	assert.Equal(t, comprador, p.RemetenteID)
	assert.Equal(t, vendedor, p.DestinatarioID)
	assert.Equal(t, c.ID, p.ConversaID)
	repo.AssertExpectations(t)
}

func TestCriar_VendedorContrapropoeNaConversa(t *testing.T) {
	repo := new(MockRepository)
	anuncios := new(MockAnuncios)
	conversas := new(MockConversas)

	vendedor := uuid.New()
	comprador := uuid.New()
	a := anuncioAtivo(vendedor, model.AnuncioVenda)
	c := &model.Conversa{ID: uuid.New(), AnuncioID: a.ID, CompradorID: comprador, VendedorID: vendedor}

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)
	conversas.On("ObterConversa", mock.Anything, c.ID).Return(c, nil)
	repo.On("Criar", mock.Anything, mock.AnythingOfType("*model.PedidoTransacao"), mock.Anything).Return(nil)

	s := NewService(repo, anuncios, conversas)

	p, err := s.Criar(context.Background(), vendedor, &types.CriarPedidoRequest{
		AnuncioID:     a.ID,
		ValorProposto: 2000,
		ConversaID:    &c.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, vendedor, p.RemetenteID)
	assert.Equal(t, comprador, p.DestinatarioID)
	assert.Equal(t, comprador, p.CompradorID)
}

func TestCriar_VendedorSemConversa(t *testing.T) {
	anuncios := new(MockAnuncios)
	vendedor := uuid.New()
	a := anuncioAtivo(vendedor, model.AnuncioVenda)

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(new(MockRepository), anuncios, new(MockConversas))

	_, err := s.Criar(context.Background(), vendedor, &types.CriarPedidoRequest{AnuncioID: a.ID, ValorProposto: 2000})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCriar_AnuncioInativo(t *testing.T) {
	anuncios := new(MockAnuncios)
	a := anuncioAtivo(uuid.New(), model.AnuncioVenda)
	a.EstadoAnuncio = model.AnuncioIndisponivel

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(new(MockRepository), anuncios, new(MockConversas))

	_, err := s.Criar(context.Background(), uuid.New(), &types.CriarPedidoRequest{AnuncioID: a.ID, ValorProposto: 2000})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCriar_AluguerExigeDias(t *testing.T) {
	anuncios := new(MockAnuncios)
	a := anuncioAtivo(uuid.New(), model.AnuncioAluguer)

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)

	s := NewService(new(MockRepository), anuncios, new(MockConversas))

	_, err := s.Criar(context.Background(), uuid.New(), &types.CriarPedidoRequest{AnuncioID: a.ID, ValorProposto: 500})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCriar_PropostaDuplicada(t *testing.T) {
	repo := new(MockRepository)
	anuncios := new(MockAnuncios)
	conversas := new(MockConversas)

	vendedor := uuid.New()
	comprador := uuid.New()
	a := anuncioAtivo(vendedor, model.AnuncioVenda)
	c := &model.Conversa{ID: uuid.New(), AnuncioID: a.ID, CompradorID: comprador, VendedorID: vendedor}

	anuncios.On("ObterPorID", mock.Anything, a.ID).Return(a, nil)
	conversas.On("ObterOuCriarConversa", mock.Anything, a.ID, comprador, vendedor).Return(c, nil)
	repo.On("Criar", mock.Anything, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505"})

	s := NewService(repo, anuncios, conversas)

	_, err := s.Criar(context.Background(), comprador, &types.CriarPedidoRequest{AnuncioID: a.ID, ValorProposto: 2500})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestAceitar_ApenasDestinatario(t *testing.T) {
	repo := new(MockRepository)
	p := &model.PedidoTransacao{
		ID:             uuid.New(),
		RemetenteID:    uuid.New(),
		DestinatarioID: uuid.New(),
		Estado:         model.PedidoPendente,
	}

	repo.On("ObterPorID", mock.Anything, p.ID).Return(p, nil)

	s := NewService(repo, new(MockAnuncios), new(MockConversas))

	_, err := s.Aceitar(context.Background(), p.ID, p.RemetenteID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	repo.AssertNotCalled(t, "Aceitar", mock.Anything, mock.Anything, mock.Anything)
}

func TestAceitar_TransitaEstado(t *testing.T) {
	repo := new(MockRepository)
	p := &model.PedidoTransacao{
		ID:             uuid.New(),
		RemetenteID:    uuid.New(),
		DestinatarioID: uuid.New(),
		Estado:         model.PedidoPendente,
	}

	repo.On("ObterPorID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Aceitar", mock.Anything, p.ID, mock.Anything).Return([]uuid.UUID{uuid.New()}, nil)

	s := NewService(repo, new(MockAnuncios), new(MockConversas))

	res, err := s.Aceitar(context.Background(), p.ID, p.DestinatarioID)

	require.NoError(t, err)
	assert.Equal(t, model.PedidoAceite, res.Estado)
	repo.AssertExpectations(t)
}

func TestAceitar_CorridaPerdida(t *testing.T) {
	repo := new(MockRepository)
	p := &model.PedidoTransacao{
		ID:             uuid.New(),
		RemetenteID:    uuid.New(),
		DestinatarioID: uuid.New(),
		Estado:         model.PedidoPendente,
	}

	repo.On("ObterPorID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Aceitar", mock.Anything, p.ID, mock.Anything).Return(nil, ErrEstadoInvalido)

	s := NewService(repo, new(MockAnuncios), new(MockConversas))

	_, err := s.Aceitar(context.Background(), p.ID, p.DestinatarioID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCancelar_ApenasRemetente(t *testing.T) {
	repo := new(MockRepository)
	p := &model.PedidoTransacao{
		ID:             uuid.New(),
		RemetenteID:    uuid.New(),
		DestinatarioID: uuid.New(),
		Estado:         model.PedidoPendente,
	}

	repo.On("ObterPorID", mock.Anything, p.ID).Return(p, nil)

	s := NewService(repo, new(MockAnuncios), new(MockConversas))

	_, err := s.Cancelar(context.Background(), p.ID, p.DestinatarioID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestRejeitar_PedidoJaFechado(t *testing.T) {
	repo := new(MockRepository)
	p := &model.PedidoTransacao{
		ID:             uuid.New(),
		RemetenteID:    uuid.New(),
		DestinatarioID: uuid.New(),
		Estado:         model.PedidoCancelado,
	}

	repo.On("ObterPorID", mock.Anything, p.ID).Return(p, nil)

	s := NewService(repo, new(MockAnuncios), new(MockConversas))

	_, err := s.Rejeitar(context.Background(), p.ID, p.DestinatarioID)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	repo.AssertNotCalled(t, "Fechar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
