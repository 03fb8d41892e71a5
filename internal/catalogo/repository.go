package catalogo

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLivroNaoEncontrado = errors.New("livro nao encontrado")

type Repository interface {
	ListarCategorias(ctx context.Context) ([]model.Categoria, error)
	ObterLivro(ctx context.Context, isbn string) (*model.Livro, error)
	CriarLivro(ctx context.Context, l *model.Livro) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ListarCategorias(ctx context.Context) ([]model.Categoria, error) {
	rows, err := r.db.Query(ctx, `SELECT id, nome FROM categorias ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categorias []model.Categoria
	for rows.Next() {
		var c model.Categoria
		if err := rows.Scan(&c.ID, &c.Nome); err != nil {
			return nil, err
		}
		categorias = append(categorias, c)
	}
	return categorias, rows.Err()
}

func (r *Repo) ObterLivro(ctx context.Context, isbn string) (*model.Livro, error) {
	var l model.Livro
	err := r.db.QueryRow(ctx, `
		SELECT isbn, titulo, autor, COALESCE(editora, ''), COALESCE(ano, 0), created_at, updated_at
		FROM livros WHERE isbn = $1
	`, isbn).Scan(&l.ISBN, &l.Titulo, &l.Autor, &l.Editora, &l.Ano, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLivroNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) CriarLivro(ctx context.Context, l *model.Livro) error {
	// Concurrent listing creation can race on the same ISBN; the upsert keeps
	// the first writer's metadata.
	return r.db.QueryRow(ctx, `
		INSERT INTO livros (isbn, titulo, autor, editora, ano)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, 0))
		ON CONFLICT (isbn) DO UPDATE SET updated_at = NOW()
		RETURNING created_at, updated_at
	`, l.ISBN, l.Titulo, l.Autor, l.Editora, l.Ano).Scan(&l.CreatedAt, &l.UpdatedAt)
}
