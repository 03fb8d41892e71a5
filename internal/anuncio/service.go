package anuncio

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

// Catalogo resolves the livro referenced by a new listing. Satisfied by the
// catalogo service.
type Catalogo interface {
	ObterOuCriarLivro(ctx context.Context, isbn, titulo, autor string) (*model.Livro, error)
	ObterLivro(ctx context.Context, isbn string) (*model.Livro, error)
}

// FavoritoContador reads the favorite count aggregate. Satisfied by the
// favorito service.
type FavoritoContador interface {
	ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error)
}

type Service struct {
	repo      Repository
	catalogo  Catalogo
	favoritos FavoritoContador
}

func NewService(repo Repository, catalogo Catalogo, favoritos FavoritoContador) *Service {
	return &Service{
		repo:      repo,
		catalogo:  catalogo,
		favoritos: favoritos,
	}
}

func (s *Service) Criar(ctx context.Context, vendedorID uuid.UUID, req *types.CriarAnuncioRequest) (*model.Anuncio, error) {
	logger := middleware.GetLogger(ctx)

	if req.TipoAnuncio == model.AnuncioDoacao && req.Preco != 0 {
		return nil, apperr.Validation("anuncio de doacao nao pode ter preco")
	}
	if req.TipoAnuncio != model.AnuncioDoacao && req.Preco <= 0 {
		return nil, apperr.Validation("preco deve ser positivo")
	}

	livro, err := s.catalogo.ObterOuCriarLivro(ctx, req.LivroISBN, req.Titulo, req.Autor)
	if err != nil {
		return nil, err
	}

	a := &model.Anuncio{
		VendedorID:    vendedorID,
		CategoriaID:   req.CategoriaID,
		LivroISBN:     livro.ISBN,
		Preco:         req.Preco,
		EstadoLivro:   req.EstadoLivro,
		TipoAnuncio:   req.TipoAnuncio,
		EstadoAnuncio: model.AnuncioAtivo,
		Descricao:     req.Descricao,
	}
	if err := s.repo.Criar(ctx, a); err != nil {
		return nil, apperr.Internal(err, "failed to create anuncio")
	}

	logger.Info().Str("anuncio_id", a.ID.String()).Str("isbn", a.LivroISBN).Msg("Anuncio created")
	return a, nil
}

func (s *Service) ObterDetalhe(ctx context.Context, id uuid.UUID) (*types.AnuncioDetalheResponse, error) {
	a, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}

	livro, err := s.catalogo.ObterLivro(ctx, a.LivroISBN)
	if err != nil {
		return nil, err
	}
	total, err := s.favoritos.ContarPorAnuncio(ctx, id)
	if err != nil {
		return nil, err
	}

	return &types.AnuncioDetalheResponse{Anuncio: *a, Livro: *livro, Favoritos: total}, nil
}

func (s *Service) Listar(ctx context.Context, filtro *types.FiltroAnuncios) ([]model.Anuncio, error) {
	anuncios, err := s.repo.Listar(ctx, filtro)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list anuncios")
	}
	return anuncios, nil
}

func (s *Service) ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.Anuncio, error) {
	anuncios, err := s.repo.ListarPorVendedor(ctx, vendedorID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list anuncios do vendedor")
	}
	return anuncios, nil
}

// AtualizarEstado lets the owner pause or reactivate a listing. Sold
// listings stay sold; the settlement flow owns that transition.
func (s *Service) AtualizarEstado(ctx context.Context, id, actorID uuid.UUID, estado string) (*model.Anuncio, error) {
	a, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.VendedorID != actorID {
		return nil, apperr.Forbidden("apenas o vendedor pode alterar o anuncio")
	}
	if a.EstadoAnuncio == model.AnuncioVendido {
		return nil, apperr.InvalidState("anuncio vendido nao pode mudar de estado")
	}
	if estado == model.AnuncioVendido {
		return nil, apperr.Validation("estado vendido e atribuido pela transacao")
	}

	if err := s.repo.AtualizarEstado(ctx, id, estado); err != nil {
		return nil, apperr.Internal(err, "failed to update anuncio estado")
	}
	a.EstadoAnuncio = estado
	return a, nil
}

func (s *Service) obter(ctx context.Context, id uuid.UUID) (*model.Anuncio, error) {
	a, err := s.repo.ObterPorID(ctx, id)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("anuncio nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up anuncio")
	}
	return a, nil
}
