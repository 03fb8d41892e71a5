package pedido

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNaoEncontrado  = errors.New("pedido nao encontrado")
	ErrEstadoInvalido = errors.New("pedido ja nao esta pendente")
)

const pedidoColumns = `id, anuncio_id, conversa_id, remetente_id, destinatario_id,
	comprador_id, vendedor_id, valor_proposto, dias_de_aluguel, estado, created_at, updated_at`

type Repository interface {
	Criar(ctx context.Context, p *model.PedidoTransacao, evento outbox.Pending) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.PedidoTransacao, error)
	ObterPendenteEntre(ctx context.Context, remetenteID, destinatarioID, anuncioID uuid.UUID) (*model.PedidoTransacao, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PedidoTransacao, error)
	Aceitar(ctx context.Context, id uuid.UUID, evento outbox.Pending) ([]uuid.UUID, error)
	Fechar(ctx context.Context, id uuid.UUID, novoEstado string, evento *outbox.Pending) error
}

type Repo struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repo {
	return &Repo{db: db}
}

func scanPedido(row pgx.Row) (*model.PedidoTransacao, error) {
	var p model.PedidoTransacao
	err := row.Scan(&p.ID, &p.AnuncioID, &p.ConversaID, &p.RemetenteID, &p.DestinatarioID,
		&p.CompradorID, &p.VendedorID, &p.ValorProposto, &p.DiasDeAluguel, &p.Estado,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Criar inserts the offer and queues the counterparty notification in one
// transaction. Unique violations on the pending index bubble up to the
// service, which maps them to a conflict.
func (r *Repo) Criar(ctx context.Context, p *model.PedidoTransacao, evento outbox.Pending) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO pedidos_transacao
			(anuncio_id, conversa_id, remetente_id, destinatario_id,
			 comprador_id, vendedor_id, valor_proposto, dias_de_aluguel)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, estado, created_at, updated_at
	`, p.AnuncioID, p.ConversaID, p.RemetenteID, p.DestinatarioID,
		p.CompradorID, p.VendedorID, p.ValorProposto, p.DiasDeAluguel).
		Scan(&p.ID, &p.Estado, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	evento.Event.ReferenciaID = p.ID
	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.PedidoTransacao, error) {
	return scanPedido(r.db.QueryRow(ctx, `
		SELECT `+pedidoColumns+` FROM pedidos_transacao WHERE id = $1
	`, id))
}

func (r *Repo) ObterPendenteEntre(ctx context.Context, remetenteID, destinatarioID, anuncioID uuid.UUID) (*model.PedidoTransacao, error) {
	return scanPedido(r.db.QueryRow(ctx, `
		SELECT `+pedidoColumns+` FROM pedidos_transacao
		WHERE remetente_id = $1 AND destinatario_id = $2 AND anuncio_id = $3
			AND estado = 'pendente'
	`, remetenteID, destinatarioID, anuncioID))
}

func (r *Repo) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PedidoTransacao, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pedidoColumns+` FROM pedidos_transacao
		WHERE remetente_id = $1 OR destinatario_id = $1
		ORDER BY created_at DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pedidos []model.PedidoTransacao
	for rows.Next() {
		var p model.PedidoTransacao
		if err := rows.Scan(&p.ID, &p.AnuncioID, &p.ConversaID, &p.RemetenteID, &p.DestinatarioID,
			&p.CompradorID, &p.VendedorID, &p.ValorProposto, &p.DiasDeAluguel, &p.Estado,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pedidos = append(pedidos, p)
	}
	return pedidos, rows.Err()
}

// Aceitar moves a pending offer to aceite and voids every other pending offer
// on the same listing, all in one transaction. The row lock makes the
// transition a compare-and-swap: a concurrent accept or cancel that got there
// first leaves the row non-pendente and we report ErrEstadoInvalido.
func (r *Repo) Aceitar(ctx context.Context, id uuid.UUID, evento outbox.Pending) ([]uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var estado string
	var anuncioID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT estado, anuncio_id FROM pedidos_transacao WHERE id = $1 FOR UPDATE
	`, id).Scan(&estado, &anuncioID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if estado != model.PedidoPendente {
		return nil, ErrEstadoInvalido
	}

	_, err = tx.Exec(ctx, `
		UPDATE pedidos_transacao SET estado = 'aceite', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		UPDATE pedidos_transacao SET estado = 'cancelado', updated_at = NOW()
		WHERE anuncio_id = $1 AND estado = 'pendente' AND id <> $2
		RETURNING id
	`, anuncioID, id)
	if err != nil {
		return nil, err
	}
	var cancelados []uuid.UUID
	for rows.Next() {
		var cid uuid.UUID
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return nil, err
		}
		cancelados = append(cancelados, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cancelados, nil
}

// Fechar performs the rejeitar/cancelar transitions. Only pending offers move.
func (r *Repo) Fechar(ctx context.Context, id uuid.UUID, novoEstado string, evento *outbox.Pending) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE pedidos_transacao SET estado = $1, updated_at = NOW()
		WHERE id = $2 AND estado = 'pendente'
	`, novoEstado, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEstadoInvalido
	}

	if evento != nil {
		if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
