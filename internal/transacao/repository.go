package transacao

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNaoEncontrado     = errors.New("transacao nao encontrada")
	ErrEstadoInvalido    = errors.New("transacao nao permite esta transicao")
	ErrPedidoNaoAceite   = errors.New("pedido nao esta aceite")
	ErrSaldoInsuficiente = errors.New("saldo de pontos insuficiente")
)

const transacaoColumns = `id, pedido_id, anuncio_id, comprador_id, vendedor_id,
	valor_final, pontos_usados, valor_desconto, estado, data_transacao, created_at, updated_at`

// CreditoPontos is a ledger movement to apply inside a settlement transition.
type CreditoPontos struct {
	ClienteID uuid.UUID
	Pontos    int64
}

type Repository interface {
	CriarComDebito(ctx context.Context, t *model.Transacao, evento outbox.Pending) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Transacao, error)
	ConfirmarRececao(ctx context.Context, t *model.Transacao, novoEstado, estadoAnuncio string, credito *CreditoPontos, evento outbox.Pending) error
	RegistarDevolucao(ctx context.Context, t *model.Transacao, clienteID uuid.UUID, evento outbox.Pending) (*model.Devolucao, error)
	ConfirmarDevolucao(ctx context.Context, t *model.Transacao, credito *CreditoPontos, evento outbox.Pending) error
	Cancelar(ctx context.Context, t *model.Transacao, reembolso *CreditoPontos) error
	ObterDevolucao(ctx context.Context, transacaoID uuid.UUID) (*model.Devolucao, error)
	ObterRegisto(ctx context.Context, clienteID uuid.UUID, filtro *types.FiltroRegisto) ([]types.RegistoItem, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// CriarComDebito settles an accepted offer: it locks the pedido, appends the
// points debit, inserts the transacao and takes the listing off the market,
// all in one database transaction. The unique index on pedido_id is the
// backstop against two settlements racing past the lock.
func (r *Repo) CriarComDebito(ctx context.Context, t *model.Transacao, evento outbox.Pending) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var estadoPedido string
	err = tx.QueryRow(ctx, `
		SELECT estado FROM pedidos_transacao WHERE id = $1 FOR UPDATE
	`, t.PedidoID).Scan(&estadoPedido)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPedidoNaoAceite
	}
	if err != nil {
		return err
	}
	if estadoPedido != model.PedidoAceite {
		return ErrPedidoNaoAceite
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO transacoes
			(pedido_id, anuncio_id, comprador_id, vendedor_id,
			 valor_final, pontos_usados, valor_desconto)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, estado, data_transacao, created_at, updated_at
	`, t.PedidoID, t.AnuncioID, t.CompradorID, t.VendedorID,
		t.ValorFinal, t.PontosUsados, t.ValorDesconto).
		Scan(&t.ID, &t.Estado, &t.DataTransacao, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}

	if t.PontosUsados > 0 {
		res, err := tx.Exec(ctx, `
			INSERT INTO movimento_pontos (cliente_id, transacao_id, quantidade, tipo_movimento)
			SELECT $1, $2, -$3, 'gasto'
			WHERE (SELECT COALESCE(SUM(quantidade), 0) FROM movimento_pontos WHERE cliente_id = $1) >= $3
		`, t.CompradorID, t.ID, t.PontosUsados)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return ErrSaldoInsuficiente
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE anuncios SET estado_anuncio = 'indisponivel', updated_at = NOW() WHERE id = $1
	`, t.AnuncioID)
	if err != nil {
		return err
	}

	evento.Event.ReferenciaID = t.ID
	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Transacao, error) {
	var t model.Transacao
	err := r.db.QueryRow(ctx, `
		SELECT `+transacaoColumns+` FROM transacoes WHERE id = $1
	`, id).Scan(&t.ID, &t.PedidoID, &t.AnuncioID, &t.CompradorID, &t.VendedorID,
		&t.ValorFinal, &t.PontosUsados, &t.ValorDesconto, &t.Estado, &t.DataTransacao,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConfirmarRececao moves a pending settlement forward once the buyer confirms
// the book arrived. Sales conclude and credit the seller; rentals wait for
// the return leg, so novoEstado and the side effects come from the service.
func (r *Repo) ConfirmarRececao(ctx context.Context, t *model.Transacao, novoEstado, estadoAnuncio string, credito *CreditoPontos, evento outbox.Pending) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.transitar(ctx, tx, t.ID, model.TransacaoPendente, novoEstado); err != nil {
		return err
	}
	if estadoAnuncio != "" {
		_, err = tx.Exec(ctx, `
			UPDATE anuncios SET estado_anuncio = $1, updated_at = NOW() WHERE id = $2
		`, estadoAnuncio, t.AnuncioID)
		if err != nil {
			return err
		}
	}
	if err := r.creditar(ctx, tx, t.ID, credito); err != nil {
		return err
	}
	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	t.Estado = novoEstado
	return nil
}

// RegistarDevolucao opens the return leg of a rental.
func (r *Repo) RegistarDevolucao(ctx context.Context, t *model.Transacao, clienteID uuid.UUID, evento outbox.Pending) (*model.Devolucao, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := r.transitar(ctx, tx, t.ID, model.TransacaoConfirmadaComprador, model.TransacaoDevolvida); err != nil {
		return nil, err
	}

	d := &model.Devolucao{TransacaoID: t.ID, ClienteID: clienteID}
	err = tx.QueryRow(ctx, `
		INSERT INTO devolucoes (transacao_id, cliente_id)
		VALUES ($1, $2)
		RETURNING id, estado, solicitada_em
	`, t.ID, clienteID).Scan(&d.ID, &d.Estado, &d.SolicitadaEm)
	if err != nil {
		return nil, err
	}

	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	t.Estado = model.TransacaoDevolvida
	return d, nil
}

// ConfirmarDevolucao concludes a rental: the seller confirms the book came
// back, earns the points and the listing returns to the market.
func (r *Repo) ConfirmarDevolucao(ctx context.Context, t *model.Transacao, credito *CreditoPontos, evento outbox.Pending) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.transitar(ctx, tx, t.ID, model.TransacaoDevolvida, model.TransacaoConcluida); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE devolucoes SET estado = 'confirmada', confirmada_em = NOW() WHERE transacao_id = $1
	`, t.ID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE anuncios SET estado_anuncio = 'ativo', updated_at = NOW() WHERE id = $1
	`, t.AnuncioID)
	if err != nil {
		return err
	}
	if err := r.creditar(ctx, tx, t.ID, credito); err != nil {
		return err
	}
	if err := outbox.Enqueue(ctx, tx, evento.EventType, evento.Event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	t.Estado = model.TransacaoConcluida
	return nil
}

// Cancelar voids a settlement that never got confirmed, refunding the points
// the buyer spent and putting the listing back on the market.
func (r *Repo) Cancelar(ctx context.Context, t *model.Transacao, reembolso *CreditoPontos) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.transitar(ctx, tx, t.ID, model.TransacaoPendente, model.TransacaoCancelada); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE anuncios SET estado_anuncio = 'ativo', updated_at = NOW() WHERE id = $1
	`, t.AnuncioID)
	if err != nil {
		return err
	}
	if err := r.creditar(ctx, tx, t.ID, reembolso); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	t.Estado = model.TransacaoCancelada
	return nil
}

func (r *Repo) ObterDevolucao(ctx context.Context, transacaoID uuid.UUID) (*model.Devolucao, error) {
	var d model.Devolucao
	err := r.db.QueryRow(ctx, `
		SELECT id, transacao_id, cliente_id, estado, solicitada_em, confirmada_em
		FROM devolucoes WHERE transacao_id = $1
	`, transacaoID).Scan(&d.ID, &d.TransacaoID, &d.ClienteID, &d.Estado, &d.SolicitadaEm, &d.ConfirmadaEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ObterRegisto projects the client's transaction history tagged with the role
// the client played in each row.
func (r *Repo) ObterRegisto(ctx context.Context, clienteID uuid.UUID, filtro *types.FiltroRegisto) ([]types.RegistoItem, error) {
	query := `
		SELECT t.id, t.pedido_id, t.anuncio_id, t.comprador_id, t.vendedor_id,
		       t.valor_final, t.pontos_usados, t.valor_desconto, t.estado,
		       t.data_transacao, t.created_at, t.updated_at,
		       CASE WHEN t.comprador_id = $1 THEN 'COMPRADOR' ELSE 'VENDEDOR' END,
		       a.tipo_anuncio, COALESCE(l.titulo, '')
		FROM transacoes t
		JOIN anuncios a ON a.id = t.anuncio_id
		LEFT JOIN livros l ON l.isbn = a.livro_isbn
		WHERE (t.comprador_id = $1 OR t.vendedor_id = $1)`
	args := []any{clienteID}

	switch filtro.Papel {
	case types.PapelComprador:
		query += " AND t.comprador_id = $1"
	case types.PapelVendedor:
		query += " AND t.vendedor_id = $1"
	}
	if filtro.Estado != "" {
		args = append(args, filtro.Estado)
		query += fmt.Sprintf(" AND t.estado = $%d", len(args))
	}
	if filtro.Tipo != "" {
		args = append(args, filtro.Tipo)
		query += fmt.Sprintf(" AND a.tipo_anuncio = $%d", len(args))
	}
	if filtro.De != nil {
		args = append(args, *filtro.De)
		query += fmt.Sprintf(" AND t.data_transacao >= $%d", len(args))
	}
	if filtro.Ate != nil {
		args = append(args, *filtro.Ate)
		query += fmt.Sprintf(" AND t.data_transacao <= $%d", len(args))
	}
	query += " ORDER BY t.data_transacao DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registo []types.RegistoItem
	for rows.Next() {
		var item types.RegistoItem
		t := &item.Transacao
		if err := rows.Scan(&t.ID, &t.PedidoID, &t.AnuncioID, &t.CompradorID, &t.VendedorID,
			&t.ValorFinal, &t.PontosUsados, &t.ValorDesconto, &t.Estado, &t.DataTransacao,
			&t.CreatedAt, &t.UpdatedAt,
			&item.Papel, &item.TipoAnuncio, &item.TituloLivro); err != nil {
			return nil, err
		}
		registo = append(registo, item)
	}
	return registo, rows.Err()
}

// transitar is the compare-and-swap every lifecycle step goes through.
func (r *Repo) transitar(ctx context.Context, tx pgx.Tx, id uuid.UUID, de, para string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transacoes SET estado = $1, updated_at = NOW() WHERE id = $2 AND estado = $3
	`, para, id, de)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEstadoInvalido
	}
	return nil
}

func (r *Repo) creditar(ctx context.Context, tx pgx.Tx, transacaoID uuid.UUID, credito *CreditoPontos) error {
	if credito == nil || credito.Pontos <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO movimento_pontos (cliente_id, transacao_id, quantidade, tipo_movimento)
		VALUES ($1, $2, $3, 'ganho')
	`, credito.ClienteID, transacaoID, credito.Pontos)
	return err
}
