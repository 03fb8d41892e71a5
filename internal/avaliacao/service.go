package avaliacao

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/transacao"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

// Transacoes resolves the concluded settlement being rated. Satisfied by the
// transacao repository.
type Transacoes interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Transacao, error)
}

type Service struct {
	repo       Repository
	transacoes Transacoes
}

func NewService(repo Repository, transacoes Transacoes) *Service {
	return &Service{repo: repo, transacoes: transacoes}
}

// Criar lets each party of a concluded settlement rate the other, once.
func (s *Service) Criar(ctx context.Context, avaliadorID uuid.UUID, req *types.CriarAvaliacaoRequest) (*model.Avaliacao, error) {
	logger := middleware.GetLogger(ctx)

	t, err := s.transacoes.ObterPorID(ctx, req.TransacaoID)
	if errors.Is(err, transacao.ErrNaoEncontrado) {
		return nil, apperr.NotFound("transacao nao encontrada")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up transacao")
	}
	if avaliadorID != t.CompradorID && avaliadorID != t.VendedorID {
		return nil, apperr.Forbidden("apenas as partes da transacao podem avaliar")
	}
	if t.Estado != model.TransacaoConcluida {
		return nil, apperr.InvalidState("apenas transacoes concluidas podem ser avaliadas")
	}

	avaliadoID := t.VendedorID
	if avaliadorID == t.VendedorID {
		avaliadoID = t.CompradorID
	}

	a := &model.Avaliacao{
		TransacaoID: t.ID,
		AvaliadorID: avaliadorID,
		AvaliadoID:  avaliadoID,
		Nota:        req.Nota,
		Comentario:  req.Comentario,
	}
	if err := s.repo.Criar(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("transacao ja avaliada por este cliente")
		}
		return nil, apperr.Internal(err, "failed to create avaliacao")
	}

	logger.Info().Str("avaliacao_id", a.ID.String()).Int("nota", a.Nota).Msg("Avaliacao created")
	return a, nil
}

func (s *Service) ListarPorAvaliado(ctx context.Context, avaliadoID uuid.UUID) ([]model.Avaliacao, error) {
	avaliacoes, err := s.repo.ListarPorAvaliado(ctx, avaliadoID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list avaliacoes")
	}
	return avaliacoes, nil
}

func (s *Service) ObterReputacao(ctx context.Context, clienteID uuid.UUID) (*types.ReputacaoResponse, error) {
	rep, err := s.repo.ObterReputacao(ctx, clienteID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load reputacao")
	}
	return rep, nil
}
