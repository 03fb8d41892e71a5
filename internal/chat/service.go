package chat

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
)

// AnuncioLookup resolves the listing a conversation is about. Satisfied by
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

// IniciarConversa opens (or returns) the conversation between the actor and
// the listing's seller.
func (s *Service) IniciarConversa(ctx context.Context, actorID, anuncioID uuid.UUID) (*model.Conversa, error) {
	a, err := s.anuncios.ObterPorID(ctx, anuncioID)
	if errors.Is(err, anuncio.ErrNaoEncontrado) {
		return nil, apperr.NotFound("anuncio nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up anuncio")
	}
	if a.VendedorID == actorID {
		return nil, apperr.Validation("vendedor nao pode iniciar conversa consigo proprio")
	}

	c, err := s.repo.ObterOuCriarConversa(ctx, anuncioID, actorID, a.VendedorID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to open conversa")
	}
	return c, nil
}

func (s *Service) EnviarMensagem(ctx context.Context, remetenteID, conversaID uuid.UUID, conteudo string) (*model.Mensagem, error) {
	logger := middleware.GetLogger(ctx)

	c, err := s.obterConversa(ctx, conversaID)
	if err != nil {
		return nil, err
	}

	destinatarioID, err := contraparte(c, remetenteID)
	if err != nil {
		return nil, err
	}

	m := &model.Mensagem{
		ConversaID:  conversaID,
		RemetenteID: remetenteID,
		Conteudo:    conteudo,
	}
	if err := s.repo.CriarMensagem(ctx, m, destinatarioID); err != nil {
		return nil, apperr.Internal(err, "failed to store mensagem")
	}

	logger.Info().Str("conversa_id", conversaID.String()).Msg("Mensagem sent")
	return m, nil
}

func (s *Service) ListarMensagens(ctx context.Context, actorID, conversaID uuid.UUID) ([]model.Mensagem, error) {
	c, err := s.obterConversa(ctx, conversaID)
	if err != nil {
		return nil, err
	}
	if _, err := contraparte(c, actorID); err != nil {
		return nil, err
	}

	mensagens, err := s.repo.ListarMensagens(ctx, conversaID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list mensagens")
	}
	return mensagens, nil
}

func (s *Service) ListarConversas(ctx context.Context, clienteID uuid.UUID) ([]model.Conversa, error) {
	conversas, err := s.repo.ListarConversas(ctx, clienteID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list conversas")
	}
	return conversas, nil
}

func (s *Service) obterConversa(ctx context.Context, id uuid.UUID) (*model.Conversa, error) {
	c, err := s.repo.ObterConversa(ctx, id)
	if errors.Is(err, ErrConversaNaoEncontrada) {
		return nil, apperr.NotFound("conversa nao encontrada")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up conversa")
	}
	return c, nil
}

// contraparte returns the other participant, or a forbidden error when the
// actor is not part of the conversation.
func contraparte(c *model.Conversa, actorID uuid.UUID) (uuid.UUID, error) {
	switch actorID {
	case c.CompradorID:
		return c.VendedorID, nil
	case c.VendedorID:
		return c.CompradorID, nil
	default:
		return uuid.Nil, apperr.Forbidden("cliente nao participa na conversa")
	}
}
