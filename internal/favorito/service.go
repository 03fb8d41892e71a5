package favorito

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

// AnuncioLookup verifies the listing exists before toggling. Satisfied by
// the anuncio repository.
type AnuncioLookup interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error)
}

type Service struct {
	repo     Repository
	anuncios AnuncioLookup
}

func NewService(repo Repository, anuncios AnuncioLookup) *Service {
	return &Service{repo: repo, anuncios: anuncios}
}

func (s *Service) AlternarFavorito(ctx context.Context, clienteID, anuncioID uuid.UUID) (*types.AlternarFavoritoResponse, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.anuncios.ObterPorID(ctx, anuncioID); err != nil {
		if errors.Is(err, anuncio.ErrNaoEncontrado) {
			return nil, apperr.NotFound("anuncio nao encontrado")
		}
		return nil, apperr.Internal(err, "failed to look up anuncio")
	}

	favorito, err := s.repo.Alternar(ctx, clienteID, anuncioID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to toggle favorito")
	}
	total, err := s.repo.ContarPorAnuncio(ctx, anuncioID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to count favoritos")
	}

	logger.Info().
		Str("anuncio_id", anuncioID.String()).
		Bool("favorito", favorito).
		Msg("Favorito toggled")

	return &types.AlternarFavoritoResponse{Favorito: favorito, Total: total}, nil
}

func (s *Service) ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error) {
	total, err := s.repo.ContarPorAnuncio(ctx, anuncioID)
	if err != nil {
		return 0, apperr.Internal(err, "failed to count favoritos")
	}
	return total, nil
}

func (s *Service) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Favorito, error) {
	favoritos, err := s.repo.ListarPorCliente(ctx, clienteID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list favoritos")
	}
	return favoritos, nil
}
