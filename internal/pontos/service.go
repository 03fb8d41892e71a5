package pontos

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AdicionarPontos(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	if pontos <= 0 {
		return apperr.Validation("pontos a adicionar devem ser positivos")
	}
	if err := s.repo.Adicionar(ctx, clienteID, pontos, transacaoID); err != nil {
		return apperr.Internal(err, "failed to add points")
	}
	return nil
}

func (s *Service) RemoverPontos(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	if pontos <= 0 {
		return apperr.Validation("pontos a remover devem ser positivos")
	}
	err := s.repo.Remover(ctx, clienteID, pontos, transacaoID)
	if errors.Is(err, ErrSaldoInsuficiente) {
		logger.Warn().Str("cliente_id", clienteID.String()).Int64("pontos", pontos).Msg("Points debit exceeds balance")
		return apperr.InsufficientBalance("saldo de pontos insuficiente")
	}
	if err != nil {
		return apperr.Internal(err, "failed to remove points")
	}
	return nil
}

func (s *Service) ObterPontos(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	saldo, err := s.repo.ObterPontos(ctx, clienteID)
	if err != nil {
		return 0, apperr.Internal(err, "failed to read points balance")
	}
	return saldo, nil
}

func (s *Service) ObterHistorico(ctx context.Context, clienteID uuid.UUID) ([]types.MovimentoDetalhe, error) {
	historico, err := s.repo.ObterHistorico(ctx, clienteID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to read points history")
	}
	return historico, nil
}
