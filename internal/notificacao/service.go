package notificacao

import (
	"context"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Criar materializes an outbox event as an in-app notification. Called by the
// notification worker, not by any HTTP handler.
func (s *Service) Criar(ctx context.Context, n *model.Notificacao) error {
	if err := s.repo.Criar(ctx, n); err != nil {
		return apperr.Internal(err, "failed to create notificacao")
	}
	return nil
}

func (s *Service) Listar(ctx context.Context, clienteID uuid.UUID, apenasNaoLidas bool) ([]model.Notificacao, error) {
	notificacoes, err := s.repo.ListarPorCliente(ctx, clienteID, apenasNaoLidas)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list notificacoes")
	}
	return notificacoes, nil
}

func (s *Service) ContarNaoLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	total, err := s.repo.ContarNaoLidas(ctx, clienteID)
	if err != nil {
		return 0, apperr.Internal(err, "failed to count notificacoes")
	}
	return total, nil
}

func (s *Service) MarcarLida(ctx context.Context, id, clienteID uuid.UUID) error {
	ok, err := s.repo.MarcarLida(ctx, id, clienteID)
	if err != nil {
		return apperr.Internal(err, "failed to mark notificacao")
	}
	if !ok {
		return apperr.NotFound("notificacao nao encontrada")
	}
	return nil
}

func (s *Service) MarcarTodasLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	total, err := s.repo.MarcarTodasLidas(ctx, clienteID)
	if err != nil {
		return 0, apperr.Internal(err, "failed to mark notificacoes")
	}
	return total, nil
}
