package pontos

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSaldoInsuficiente is returned when a debit would drive the running
// balance negative.
var ErrSaldoInsuficiente = errors.New("saldo de pontos insuficiente")

type Repository interface {
	Adicionar(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error
	Remover(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error
	ObterPontos(ctx context.Context, clienteID uuid.UUID) (int64, error)
	ObterHistorico(ctx context.Context, clienteID uuid.UUID) ([]types.MovimentoDetalhe, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Adicionar(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO movimento_pontos (cliente_id, transacao_id, quantidade, tipo_movimento)
		VALUES ($1, $2, $3, 'ganho')
	`, clienteID, transacaoID, pontos)
	return err
}

// Remover appends a gasto movement. The balance check and the append are a
// single statement so a concurrent spend cannot drive the balance negative.
func (r *Repo) Remover(ctx context.Context, clienteID uuid.UUID, pontos int64, transacaoID *uuid.UUID) error {
	res, err := r.db.Exec(ctx, `
		INSERT INTO movimento_pontos (cliente_id, transacao_id, quantidade, tipo_movimento)
		SELECT $1, $2, -$3, 'gasto'
		WHERE (SELECT COALESCE(SUM(quantidade), 0) FROM movimento_pontos WHERE cliente_id = $1) >= $3
	`, clienteID, transacaoID, pontos)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrSaldoInsuficiente
	}
	return nil
}

func (r *Repo) ObterPontos(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	var saldo int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantidade), 0) FROM movimento_pontos WHERE cliente_id = $1
	`, clienteID).Scan(&saldo)
	return saldo, err
}

func (r *Repo) ObterHistorico(ctx context.Context, clienteID uuid.UUID) ([]types.MovimentoDetalhe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.cliente_id, m.transacao_id, m.quantidade, m.tipo_movimento, m.data,
		       COALESCE(l.titulo, ''), t.valor_final
		FROM movimento_pontos m
		LEFT JOIN transacoes t ON t.id = m.transacao_id
		LEFT JOIN anuncios a ON a.id = t.anuncio_id
		LEFT JOIN livros l ON l.isbn = a.livro_isbn
		WHERE m.cliente_id = $1
		ORDER BY m.data DESC, m.id DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var historico []types.MovimentoDetalhe
	for rows.Next() {
		var d types.MovimentoDetalhe
		if err := rows.Scan(
			&d.Movimento.ID,
			&d.Movimento.ClienteID,
			&d.Movimento.TransacaoID,
			&d.Movimento.Quantidade,
			&d.Movimento.TipoMovimento,
			&d.Movimento.Data,
			&d.TituloLivro,
			&d.ValorFinal,
		); err != nil {
			return nil, err
		}
		historico = append(historico, d)
	}
	return historico, rows.Err()
}
