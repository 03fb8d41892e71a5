package notificacao

import (
	"context"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Criar(ctx context.Context, n *model.Notificacao) error
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID, apenasNaoLidas bool) ([]model.Notificacao, error)
	ContarNaoLidas(ctx context.Context, clienteID uuid.UUID) (int64, error)
	MarcarLida(ctx context.Context, id, clienteID uuid.UUID) (bool, error)
	MarcarTodasLidas(ctx context.Context, clienteID uuid.UUID) (int64, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Criar(ctx context.Context, n *model.Notificacao) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notificacoes (cliente_id, tipo, titulo, corpo)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lida, created_at
	`, n.ClienteID, n.Tipo, n.Titulo, n.Corpo).Scan(&n.ID, &n.Lida, &n.CreatedAt)
}

func (r *Repo) ListarPorCliente(ctx context.Context, clienteID uuid.UUID, apenasNaoLidas bool) ([]model.Notificacao, error) {
	query := `
		SELECT id, cliente_id, tipo, titulo, corpo, lida, created_at
		FROM notificacoes WHERE cliente_id = $1`
	if apenasNaoLidas {
		query += " AND lida = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notificacoes []model.Notificacao
	for rows.Next() {
		var n model.Notificacao
		var corpo *string
		if err := rows.Scan(&n.ID, &n.ClienteID, &n.Tipo, &n.Titulo, &corpo, &n.Lida, &n.CreatedAt); err != nil {
			return nil, err
		}
		if corpo != nil {
			n.Corpo = *corpo
		}
		notificacoes = append(notificacoes, n)
	}
	return notificacoes, rows.Err()
}

func (r *Repo) ContarNaoLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notificacoes WHERE cliente_id = $1 AND lida = FALSE
	`, clienteID).Scan(&total)
	return total, err
}

// MarcarLida flips the flag only when the notification belongs to the caller.
func (r *Repo) MarcarLida(ctx context.Context, id, clienteID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notificacoes SET lida = TRUE WHERE id = $1 AND cliente_id = $2
	`, id, clienteID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) MarcarTodasLidas(ctx context.Context, clienteID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notificacoes SET lida = TRUE WHERE cliente_id = $1 AND lida = FALSE
	`, clienteID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
