package avaliacao

import (
	"context"

	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Criar(ctx context.Context, a *model.Avaliacao) error
	ListarPorAvaliado(ctx context.Context, avaliadoID uuid.UUID) ([]model.Avaliacao, error)
	ObterReputacao(ctx context.Context, clienteID uuid.UUID) (*types.ReputacaoResponse, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Criar stores the rating and queues the rated party's notification in the
// same transaction. The unique pair (transacao, avaliador) bubbles up as a
// unique violation.
func (r *Repo) Criar(ctx context.Context, a *model.Avaliacao) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO avaliacoes (transacao_id, avaliador_id, avaliado_id, nota, comentario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.TransacaoID, a.AvaliadorID, a.AvaliadoID, a.Nota, a.Comentario).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return err
	}

	err = outbox.Enqueue(ctx, tx, kafka.EventAvaliacaoRecebida, outbox.NotificacaoEvent{
		ClienteID:    a.AvaliadoID,
		Tipo:         "avaliacao_recebida",
		Titulo:       "Nova avaliacao",
		ReferenciaID: a.ID,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) ListarPorAvaliado(ctx context.Context, avaliadoID uuid.UUID) ([]model.Avaliacao, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, transacao_id, avaliador_id, avaliado_id, nota, comentario, created_at
		FROM avaliacoes WHERE avaliado_id = $1 ORDER BY created_at DESC
	`, avaliadoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var avaliacoes []model.Avaliacao
	for rows.Next() {
		var a model.Avaliacao
		if err := rows.Scan(&a.ID, &a.TransacaoID, &a.AvaliadorID, &a.AvaliadoID,
			&a.Nota, &a.Comentario, &a.CreatedAt); err != nil {
			return nil, err
		}
		avaliacoes = append(avaliacoes, a)
	}
	return avaliacoes, rows.Err()
}

func (r *Repo) ObterReputacao(ctx context.Context, clienteID uuid.UUID) (*types.ReputacaoResponse, error) {
	rep := &types.ReputacaoResponse{ClienteID: clienteID}
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(nota), 0), COUNT(*)
		FROM avaliacoes WHERE avaliado_id = $1
	`, clienteID).Scan(&rep.Media, &rep.Total)
	if err != nil {
		return nil, err
	}
	return rep, nil
}
