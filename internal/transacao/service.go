package transacao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/bookflaz/bookflaz/internal/pedido"
	"github.com/bookflaz/bookflaz/internal/redis"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
)

const idempotencyTTL = 24 * time.Hour

// Pedidos resolves the accepted offer being settled. Satisfied by the pedido
// repository.
type Pedidos interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.PedidoTransacao, error)
}

// Anuncios tells the settlement flow which kind of listing it is closing.
// Satisfied by the anuncio repository.
type Anuncios interface {
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error)
}

type Service struct {
	repo     Repository
	pedidos  Pedidos
	anuncios Anuncios
	redis    *redis.Client
	cfg      *config.PontosConfig
}

func NewService(repo Repository, pedidos Pedidos, anuncios Anuncios, redis *redis.Client, cfg *config.PontosConfig) *Service {
	return &Service{
		repo:     repo,
		pedidos:  pedidos,
		anuncios: anuncios,
		redis:    redis,
		cfg:      cfg,
	}
}

// Criar settles an accepted offer. The discount policy lives here and only
// here: each point is worth cfg.ValorPonto centimos and the total discount
// never exceeds cfg.DescontoMaximo percent of the agreed value. The debit and
// the transacao row commit together, so a failed debit leaves no settlement.
func (s *Service) Criar(ctx context.Context, actorID uuid.UUID, req *types.CriarTransacaoRequest, idempotencyKey string) (*model.Transacao, error) {
	logger := middleware.GetLogger(ctx)

	if idempotencyKey != "" {
		cached, err := s.redis.CheckAndSetIdempotency(ctx, idempotencyKey, idempotencyTTL)
		if cached != nil {
			logger.Info().Msg("Returning cached transacao due to idempotency key")
			var t model.Transacao
			if err := json.Unmarshal(cached, &t); err == nil {
				return &t, nil
			}
		}
		if errors.Is(err, redis.ErrKeyExists) {
			return nil, apperr.Conflict("pedido em processamento com a mesma chave")
		}
		if err != nil {
			return nil, apperr.Internal(err, "idempotency check failed")
		}
	}

	t, err := s.criar(ctx, actorID, req)
	if idempotencyKey != "" {
		if err != nil {
			s.redis.MarkIdempotencyFailed(ctx, idempotencyKey)
		} else if body, merr := json.Marshal(t); merr == nil {
			s.redis.MarkIdempotencyComplete(ctx, idempotencyKey, body, idempotencyTTL)
		}
	}
	return t, err
}

func (s *Service) criar(ctx context.Context, actorID uuid.UUID, req *types.CriarTransacaoRequest) (*model.Transacao, error) {
	logger := middleware.GetLogger(ctx)

	p, err := s.pedidos.ObterPorID(ctx, req.PedidoID)
	if errors.Is(err, pedido.ErrNaoEncontrado) {
		return nil, apperr.NotFound("pedido nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up pedido")
	}
	if p.CompradorID != actorID {
		return nil, apperr.Forbidden("apenas o comprador pode liquidar o pedido")
	}
	if p.Estado != model.PedidoAceite {
		return nil, apperr.InvalidState("pedido nao esta aceite")
	}

	if req.PontosUsados < 0 {
		return nil, apperr.Validation("pontos_usados nao pode ser negativo")
	}
	desconto := req.PontosUsados * s.cfg.ValorPonto
	limite := p.ValorProposto * s.cfg.DescontoMaximo / 100
	if desconto > limite {
		return nil, apperr.Validation("desconto de %d centimos excede o limite de %d%% do valor", desconto, s.cfg.DescontoMaximo)
	}

	t := &model.Transacao{
		PedidoID:      p.ID,
		AnuncioID:     p.AnuncioID,
		CompradorID:   p.CompradorID,
		VendedorID:    p.VendedorID,
		ValorFinal:    p.ValorProposto - desconto,
		PontosUsados:  req.PontosUsados,
		ValorDesconto: desconto,
	}

	evento := outbox.Pending{
		EventType: kafka.EventTransacaoCriada,
		Event: outbox.NotificacaoEvent{
			ClienteID: p.VendedorID,
			Tipo:      "transacao_criada",
			Titulo:    "Transacao iniciada",
		},
	}
	err = s.repo.CriarComDebito(ctx, t, evento)
	switch {
	case errors.Is(err, ErrPedidoNaoAceite):
		return nil, apperr.InvalidState("pedido nao esta aceite")
	case errors.Is(err, ErrSaldoInsuficiente):
		return nil, apperr.InsufficientBalance("saldo de pontos insuficiente para usar %d pontos", req.PontosUsados)
	case database.IsUniqueViolation(err):
		return nil, apperr.Conflict("pedido ja tem transacao")
	case err != nil:
		return nil, apperr.Internal(err, "failed to create transacao")
	}

	logger.Info().
		Str("transacao_id", t.ID.String()).
		Int64("valor_final", t.ValorFinal).
		Int64("pontos_usados", t.PontosUsados).
		Msg("Transacao created")
	return t, nil
}

// ConfirmarRececao is the buyer acknowledging the book arrived. Sales and
// donations conclude here and the seller earns points; rentals move to the
// return leg instead.
func (s *Service) ConfirmarRececao(ctx context.Context, id, actorID uuid.UUID) (*model.Transacao, error) {
	t, a, err := s.obterComAnuncio(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CompradorID != actorID {
		return nil, apperr.Forbidden("apenas o comprador pode confirmar a rececao")
	}
	if t.Estado != model.TransacaoPendente {
		return nil, apperr.InvalidState("transacao ja nao esta pendente")
	}

	novoEstado := model.TransacaoConcluida
	estadoAnuncio := model.AnuncioVendido
	var credito *CreditoPontos
	if a.TipoAnuncio == model.AnuncioAluguer {
		novoEstado = model.TransacaoConfirmadaComprador
		estadoAnuncio = ""
	} else if ganho := s.pontosGanho(t.ValorFinal); ganho > 0 {
		credito = &CreditoPontos{ClienteID: t.VendedorID, Pontos: ganho}
	}

	evento := outbox.Pending{
		EventType: kafka.EventTransacaoConfirmada,
		Event: outbox.NotificacaoEvent{
			ClienteID:    t.VendedorID,
			Tipo:         "transacao_confirmada",
			Titulo:       "Rececao confirmada",
			ReferenciaID: t.ID,
		},
	}
	err = s.repo.ConfirmarRececao(ctx, t, novoEstado, estadoAnuncio, credito, evento)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("transacao ja nao esta pendente")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to confirm rececao")
	}
	return t, nil
}

// SolicitarDevolucao starts the rental return.
func (s *Service) SolicitarDevolucao(ctx context.Context, id, actorID uuid.UUID) (*model.Devolucao, error) {
	t, a, err := s.obterComAnuncio(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CompradorID != actorID {
		return nil, apperr.Forbidden("apenas o comprador pode devolver")
	}
	if a.TipoAnuncio != model.AnuncioAluguer {
		return nil, apperr.InvalidState("apenas alugueres tem devolucao")
	}
	if t.Estado != model.TransacaoConfirmadaComprador {
		return nil, apperr.InvalidState("transacao nao esta confirmada pelo comprador")
	}

	evento := outbox.Pending{
		EventType: kafka.EventDevolucaoSolicitada,
		Event: outbox.NotificacaoEvent{
			ClienteID:    t.VendedorID,
			Tipo:         "devolucao_solicitada",
			Titulo:       "Devolucao a caminho",
			ReferenciaID: t.ID,
		},
	}
	d, err := s.repo.RegistarDevolucao(ctx, t, actorID, evento)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("transacao nao esta confirmada pelo comprador")
	}
	if database.IsUniqueViolation(err) {
		return nil, apperr.Conflict("devolucao ja registada")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to register devolucao")
	}
	return d, nil
}

// ConfirmarDevolucao is the seller acknowledging the book came back. The
// rental concludes, the seller earns the points and the listing goes back up.
func (s *Service) ConfirmarDevolucao(ctx context.Context, id, actorID uuid.UUID) (*model.Transacao, error) {
	t, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.VendedorID != actorID {
		return nil, apperr.Forbidden("apenas o vendedor pode confirmar a devolucao")
	}
	if t.Estado != model.TransacaoDevolvida {
		return nil, apperr.InvalidState("sem devolucao por confirmar")
	}

	var credito *CreditoPontos
	if ganho := s.pontosGanho(t.ValorFinal); ganho > 0 {
		credito = &CreditoPontos{ClienteID: t.VendedorID, Pontos: ganho}
	}
	evento := outbox.Pending{
		EventType: kafka.EventDevolucaoConfirmada,
		Event: outbox.NotificacaoEvent{
			ClienteID:    t.CompradorID,
			Tipo:         "devolucao_confirmada",
			Titulo:       "Devolucao confirmada",
			ReferenciaID: t.ID,
		},
	}
	err = s.repo.ConfirmarDevolucao(ctx, t, credito, evento)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("sem devolucao por confirmar")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to confirm devolucao")
	}
	return t, nil
}

// Cancelar voids a settlement the buyer never confirmed. Spent points go back
// to the buyer as a new ledger movement.
func (s *Service) Cancelar(ctx context.Context, id, actorID uuid.UUID) (*model.Transacao, error) {
	t, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CompradorID != actorID && t.VendedorID != actorID {
		return nil, apperr.Forbidden("apenas as partes podem cancelar")
	}
	if t.Estado != model.TransacaoPendente {
		return nil, apperr.InvalidState("apenas transacoes pendentes podem ser canceladas")
	}

	var reembolso *CreditoPontos
	if t.PontosUsados > 0 {
		reembolso = &CreditoPontos{ClienteID: t.CompradorID, Pontos: t.PontosUsados}
	}
	err = s.repo.Cancelar(ctx, t, reembolso)
	if errors.Is(err, ErrEstadoInvalido) {
		return nil, apperr.InvalidState("apenas transacoes pendentes podem ser canceladas")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to cancel transacao")
	}
	return t, nil
}

// Obter returns the settlement to one of its parties.
func (s *Service) Obter(ctx context.Context, id, actorID uuid.UUID) (*model.Transacao, error) {
	t, err := s.obter(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CompradorID != actorID && t.VendedorID != actorID {
		return nil, apperr.Forbidden("transacao pertence a outras partes")
	}
	return t, nil
}

func (s *Service) ObterDevolucao(ctx context.Context, id, actorID uuid.UUID) (*model.Devolucao, error) {
	if _, err := s.Obter(ctx, id, actorID); err != nil {
		return nil, err
	}
	d, err := s.repo.ObterDevolucao(ctx, id)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("sem devolucao registada")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up devolucao")
	}
	return d, nil
}

func (s *Service) ObterRegisto(ctx context.Context, clienteID uuid.UUID, filtro *types.FiltroRegisto) ([]types.RegistoItem, error) {
	registo, err := s.repo.ObterRegisto(ctx, clienteID, filtro)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load registo")
	}
	return registo, nil
}

// pontosGanho converts a settled value into the seller's points: RacioGanho
// points per euro, truncated.
func (s *Service) pontosGanho(valorFinal int64) int64 {
	return valorFinal / 100 * s.cfg.RacioGanho
}

func (s *Service) obter(ctx context.Context, id uuid.UUID) (*model.Transacao, error) {
	t, err := s.repo.ObterPorID(ctx, id)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("transacao nao encontrada")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up transacao")
	}
	return t, nil
}

func (s *Service) obterComAnuncio(ctx context.Context, id uuid.UUID) (*model.Transacao, *model.Anuncio, error) {
	t, err := s.obter(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	a, err := s.anuncios.ObterPorID(ctx, t.AnuncioID)
	if errors.Is(err, anuncio.ErrNaoEncontrado) {
		return nil, nil, apperr.NotFound("anuncio nao encontrado")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to look up anuncio")
	}
	return t, a, nil
}
