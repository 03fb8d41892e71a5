package catalogo

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/isbn"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
)

// MetadataLookup resolves book metadata for an unknown ISBN. Satisfied by
// the isbn client; nil disables external lookups.
type MetadataLookup interface {
	Lookup(ctx context.Context, isbn string) (*isbn.Metadata, error)
}

type Service struct {
	repo   Repository
	lookup MetadataLookup
}

func NewService(repo Repository, lookup MetadataLookup) *Service {
	return &Service{repo: repo, lookup: lookup}
}

func (s *Service) ListarCategorias(ctx context.Context) ([]model.Categoria, error) {
	categorias, err := s.repo.ListarCategorias(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list categorias")
	}
	return categorias, nil
}

func (s *Service) ObterLivro(ctx context.Context, isbnCode string) (*model.Livro, error) {
	l, err := s.repo.ObterLivro(ctx, isbnCode)
	if errors.Is(err, ErrLivroNaoEncontrado) {
		return nil, apperr.NotFound("livro nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up livro")
	}
	return l, nil
}

// ObterOuCriarLivro returns the stored livro for the ISBN, creating it on
// first sight. External metadata is best-effort: a lookup failure falls back
// to the caller-supplied titulo/autor and never blocks listing creation.
func (s *Service) ObterOuCriarLivro(ctx context.Context, isbnCode, titulo, autor string) (*model.Livro, error) {
	logger := middleware.GetLogger(ctx)

	l, err := s.repo.ObterLivro(ctx, isbnCode)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ErrLivroNaoEncontrado) {
		return nil, apperr.Internal(err, "failed to look up livro")
	}

	novo := &model.Livro{ISBN: isbnCode, Titulo: titulo, Autor: autor}
	if s.lookup != nil {
		if meta, err := s.lookup.Lookup(ctx, isbnCode); err == nil {
			novo.Titulo = meta.Titulo
			novo.Autor = meta.Autor
			novo.Editora = meta.Editora
			novo.Ano = meta.Ano
		} else {
			logger.Warn().Err(err).Str("isbn", isbnCode).Msg("ISBN metadata lookup failed, using manual fields")
		}
	}

	if novo.Titulo == "" {
		return nil, apperr.Validation("titulo obrigatorio quando o ISBN e desconhecido")
	}

	if err := s.repo.CriarLivro(ctx, novo); err != nil {
		return nil, apperr.Internal(err, "failed to create livro")
	}
	return novo, nil
}
