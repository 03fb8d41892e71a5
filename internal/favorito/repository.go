package favorito

import (
	"context"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Alternar(ctx context.Context, clienteID, anuncioID uuid.UUID) (bool, error)
	ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Favorito, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Alternar removes the row when present, inserts it otherwise, and reports
// the resulting membership. The delete and the conditional insert run in one
// statement so the pair stays idempotent under concurrent toggles.
func (r *Repo) Alternar(ctx context.Context, clienteID, anuncioID uuid.UUID) (bool, error) {
	var favorito bool
	err := r.db.QueryRow(ctx, `
		WITH removido AS (
			DELETE FROM favoritos WHERE cliente_id = $1 AND anuncio_id = $2 RETURNING 1
		), inserido AS (
			INSERT INTO favoritos (cliente_id, anuncio_id)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removido)
			ON CONFLICT DO NOTHING
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM inserido)
	`, clienteID, anuncioID).Scan(&favorito)
	return favorito, err
}

func (r *Repo) ContarPorAnuncio(ctx context.Context, anuncioID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favoritos WHERE anuncio_id = $1`, anuncioID).Scan(&total)
	return total, err
}

func (r *Repo) ListarPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Favorito, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cliente_id, anuncio_id, created_at
		FROM favoritos WHERE cliente_id = $1 ORDER BY created_at DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favoritos []model.Favorito
	for rows.Next() {
		var f model.Favorito
		if err := rows.Scan(&f.ClienteID, &f.AnuncioID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favoritos = append(favoritos, f)
	}
	return favoritos, rows.Err()
}
