package pedido

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/chat"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

// Anuncios resolves the listing an offer targets. Satisfied by the anuncio
// repository.
type Anuncios interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error)
}

// Conversas anchors every offer to a conversation between the two parties.
// Satisfied by the chat repository.
type Conversas interface {
	ObterOuCriarConversa(ctx context.Context, anuncioID, compradorID, vendedorID uuid.UUID) (*model.Conversa, error)
	ObterConversa(ctx context.Context, id uuid.UUID) (*model.Conversa, error)
}

type Service struct {
	repo      Repository
	anuncios  Anuncios
	conversas Conversas
}

func NewService(repo Repository, anuncios Anuncios, conversas Conversas) *Service {
	return &Service{
		repo:      repo,
		anuncios:  anuncios,
		conversas: conversas,
	}
}

// Criar registers an offer on a listing. Buyers may send one cold, in which
// case the conversation is created on the fly; sellers counter inside an
// existing conversation. Either way at most one offer per direction stays
// pendente on a listing.
func (s *Service) Criar(ctx context.Context, remetenteID uuid.UUID, req *types.CriarPedidoRequest) (*model.PedidoTransacao, error) {
	logger := middleware.GetLogger(ctx)

	if req.ValorProposto <= 0 {
		return nil, apperr.Validation("valor proposto deve ser positivo")
	}

	a, err := s.anuncios.ObterPorID(ctx, req.AnuncioID)
	if errors.Is(err, anuncio.ErrNaoEncontrado) {
		return nil, apperr.NotFound("anuncio nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up anuncio")
	}
	if a.EstadoAnuncio != model.AnuncioAtivo {
		return nil, apperr.InvalidState("anuncio nao esta ativo")
	}
	if a.TipoAnuncio == model.AnuncioAluguer && req.DiasDeAluguel == nil {
		return nil, apperr.Validation("anuncio de aluguer requer dias_de_aluguel")
	}
	if a.TipoAnuncio != model.AnuncioAluguer && req.DiasDeAluguel != nil {
		return nil, apperr.Validation("dias_de_aluguel so se aplica a alugueres")
	}

	var conversa *model.Conversa
	if req.ConversaID != nil {
		conversa, err = s.conversas.ObterConversa(ctx, *req.ConversaID)
		if errors.Is(err, chat.ErrConversaNaoEncontrada) {
			return nil, apperr.NotFound("conversa nao encontrada")
		}
		if err != nil {
			return nil, apperr.Internal(err, "failed to look up conversa")
		}
		if conversa.AnuncioID != a.ID {
			return nil, apperr.Validation("conversa nao pertence ao anuncio")
		}
		if remetenteID != conversa.CompradorID && remetenteID != conversa.VendedorID {
			return nil, apperr.Forbidden("apenas participantes da conversa podem propor")
		}
	} else {
		if remetenteID == a.VendedorID {
			return nil, apperr.Validation("vendedor contrapropoe dentro da conversa")
		}
		conversa, err = s.conversas.ObterOuCriarConversa(ctx, a.ID, remetenteID, a.VendedorID)
		if err != nil {
			return nil, apperr.Internal(err, "failed to open conversa")
		}
	}

	destinatarioID := conversa.VendedorID
	if remetenteID == conversa.VendedorID {
		destinatarioID = conversa.CompradorID
	}
	if remetenteID == destinatarioID {
		return nil, apperr.Validation("nao pode propor a si proprio")
	}

	p := &model.PedidoTransacao{
		AnuncioID:      a.ID,
		ConversaID:     conversa.ID,
		RemetenteID:    remetenteID,
		DestinatarioID: destinatarioID,
		CompradorID:    conversa.CompradorID,
		VendedorID:     conversa.VendedorID,
		ValorProposto:  req.ValorProposto,
		DiasDeAluguel:  req.DiasDeAluguel,
	}

	evento := outbox.Pending{
		EventType: kafka.EventPedidoRecebido,
		Event: outbox.NotificacaoEvent{
			ClienteID: destinatarioID,
			Tipo:      "pedido_recebido",
			Titulo:    "Nova proposta recebida",
		},
	}
	if err := s.repo.Criar(ctx, p, evento); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("ja existe uma proposta pendente neste anuncio")
		}
		return nil, apperr.Internal(err, "failed to create pedido")
	}

	logger.Info().
		Str("pedido_id", p.ID.String()).
		Str("anuncio_id", a.ID.String()).
		Int64("valor_proposto", p.ValorProposto).
		Msg("Pedido created")
	return p, nil
}

// Aceitar moves the offer to aceite; every other pending offer on the listing
// is voided in the same transaction so only one settlement can follow.
func (s *Service) Aceitar(ctx context.Context, id, actorID uuid.UUID) (*model.PedidoTransacao, error) {
	logger := middleware.GetLogger(ctx)

	p, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.DestinatarioID != actorID {
		return nil, apperr.Forbidden("apenas o destinatario pode aceitar")
	}
	if p.Estado != model.PedidoPendente {
		return nil, apperr.InvalidState("pedido ja nao esta pendente")
	}

	evento := outbox.Pending{
		EventType: kafka.EventPedidoAceite,
		Event: outbox.NotificacaoEvent{
			ClienteID:    p.RemetenteID,
			Tipo:         "pedido_aceite",
			Titulo:       "Proposta aceite",
			ReferenciaID: p.ID,
		},
	}
	cancelados, err := s.repo.Aceitar(ctx, id, evento)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("pedido ja nao esta pendente")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to accept pedido")
	}

	p.Estado = model.PedidoAceite
	logger.Info().
		Str("pedido_id", p.ID.String()).
		Int("pedidos_cancelados", len(cancelados)).
		Msg("Pedido accepted")
	return p, nil
}

func (s *Service) Rejeitar(ctx context.Context, id, actorID uuid.UUID) (*model.PedidoTransacao, error) {
	p, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.DestinatarioID != actorID {
		return nil, apperr.Forbidden("apenas o destinatario pode rejeitar")
	}
	evento := &outbox.Pending{
		EventType: kafka.EventPedidoRejeitado,
		Event: outbox.NotificacaoEvent{
			ClienteID:    p.RemetenteID,
			Tipo:         "pedido_rejeitado",
			Titulo:       "Proposta rejeitada",
			ReferenciaID: p.ID,
		},
	}
	return s.fechar(ctx, p, model.PedidoRejeitado, evento)
}

func (s *Service) Cancelar(ctx context.Context, id, actorID uuid.UUID) (*model.PedidoTransacao, error) {
	p, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.RemetenteID != actorID {
		return nil, apperr.Forbidden("apenas o remetente pode cancelar")
	}
	return s.fechar(ctx, p, model.PedidoCancelado, nil)
}

func (s *Service) fechar(ctx context.Context, p *model.PedidoTransacao, novoEstado string, evento *outbox.Pending) (*model.PedidoTransacao, error) {
	if p.Estado != model.PedidoPendente {
		return nil, apperr.InvalidState("pedido ja nao esta pendente")
	}
	err := s.repo.Fechar(ctx, p.ID, novoEstado, evento)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("pedido ja nao esta pendente")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to close pedido")
	}
	p.Estado = novoEstado
	return p, nil
}

// ObterPendenteEntre answers whether the actor already has an offer in
// flight towards the other party on a listing.
func (s *Service) ObterPendenteEntre(ctx context.Context, remetenteID, destinatarioID, anuncioID uuid.UUID) (*model.PedidoTransacao, error) {
	p, err := s.repo.ObterPendenteEntre(ctx, remetenteID, destinatarioID, anuncioID)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("sem proposta pendente")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up pedido pendente")
	}
	return p, nil
}

func (s *Service) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PedidoTransacao, error) {
	pedidos, err := s.repo.ListarPorCliente(ctx, clienteID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list pedidos")
	}
	return pedidos, nil
}

func (s *Service) obter(ctx context.Context, id uuid.UUID) (*model.PedidoTransacao, error) {
	p, err := s.repo.ObterPorID(ctx, id)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("pedido nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up pedido")
	}
	return p, nil
}
