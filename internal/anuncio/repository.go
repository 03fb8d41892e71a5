package anuncio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNaoEncontrado = errors.New("anuncio nao encontrado")

type Repository interface {
	Criar(ctx context.Context, a *model.Anuncio) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error)
	Listar(ctx context.Context, filtro *types.FiltroAnuncios) ([]model.Anuncio, error)
	ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.Anuncio, error)
	AtualizarEstado(ctx context.Context, id uuid.UUID, estado string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const anuncioColumns = `id, vendedor_id, categoria_id, livro_isbn, preco, estado_livro,
	tipo_anuncio, estado_anuncio, COALESCE(descricao, ''), created_at, updated_at`

func scanAnuncio(row pgx.Row, a *model.Anuncio) error {
	return row.Scan(&a.ID, &a.VendedorID, &a.CategoriaID, &a.LivroISBN, &a.Preco,
		&a.EstadoLivro, &a.TipoAnuncio, &a.EstadoAnuncio, &a.Descricao,
		&a.CreatedAt, &a.UpdatedAt)
}

func (r *Repo) Criar(ctx context.Context, a *model.Anuncio) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO anuncios (vendedor_id, categoria_id, livro_isbn, preco, estado_livro, tipo_anuncio, estado_anuncio, descricao)
		VALUES ($1, $2, $3, $4, $5, $6, 'ativo', NULLIF($7, ''))
		RETURNING id, created_at, updated_at
	`, a.VendedorID, a.CategoriaID, a.LivroISBN, a.Preco, a.EstadoLivro, a.TipoAnuncio, a.Descricao).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *Repo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Anuncio, error) {
	var a model.Anuncio
	err := scanAnuncio(r.db.QueryRow(ctx, `SELECT `+anuncioColumns+` FROM anuncios WHERE id = $1`, id), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Listar(ctx context.Context, filtro *types.FiltroAnuncios) ([]model.Anuncio, error) {
	query := `SELECT ` + anuncioColumns + ` FROM anuncios WHERE 1=1`
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filtro.CategoriaID != nil {
		add(" AND categoria_id = $%d", *filtro.CategoriaID)
	}
	if filtro.TipoAnuncio != "" {
		add(" AND tipo_anuncio = $%d", filtro.TipoAnuncio)
	}
	if filtro.Estado != "" {
		add(" AND estado_anuncio = $%d", filtro.Estado)
	}
	if filtro.PrecoMin != nil {
		add(" AND preco >= $%d", *filtro.PrecoMin)
	}
	if filtro.PrecoMax != nil {
		add(" AND preco <= $%d", *filtro.PrecoMax)
	}
	if texto := strings.TrimSpace(filtro.Texto); texto != "" {
		args = append(args, texto)
		n := len(args)
		query += fmt.Sprintf(" AND livro_isbn IN (SELECT isbn FROM livros WHERE titulo ILIKE '%%' || $%d || '%%' OR autor ILIKE '%%' || $%d || '%%')", n, n)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anuncios []model.Anuncio
	for rows.Next() {
		var a model.Anuncio
		if err := scanAnuncio(rows, &a); err != nil {
			return nil, err
		}
		anuncios = append(anuncios, a)
	}
	return anuncios, rows.Err()
}

func (r *Repo) ListarPorVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.Anuncio, error) {
	rows, err := r.db.Query(ctx, `SELECT `+anuncioColumns+` FROM anuncios WHERE vendedor_id = $1 ORDER BY created_at DESC`, vendedorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anuncios []model.Anuncio
	for rows.Next() {
		var a model.Anuncio
		if err := scanAnuncio(rows, &a); err != nil {
			return nil, err
		}
		anuncios = append(anuncios, a)
	}
	return anuncios, rows.Err()
}

func (r *Repo) AtualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE anuncios SET estado_anuncio = $1, updated_at = NOW() WHERE id = $2
	`, estado, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNaoEncontrado
	}
	return nil
}
