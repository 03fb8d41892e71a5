package cliente

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNaoEncontrado = errors.New("cliente nao encontrado")

type Repository interface {
	Criar(ctx context.Context, c *model.Cliente) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ObterPorEmail(ctx context.Context, email string) (*model.Cliente, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Criar(ctx context.Context, c *model.Cliente) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO clientes (nome, email, password_hash, localidade)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Nome, c.Email, c.PasswordHash, c.Localidade).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repo) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.QueryRow(ctx, `
		SELECT id, nome, email, password_hash, COALESCE(localidade, ''), created_at, updated_at
		FROM clientes WHERE id = $1
	`, id).Scan(&c.ID, &c.Nome, &c.Email, &c.PasswordHash, &c.Localidade, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ObterPorEmail(ctx context.Context, email string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.QueryRow(ctx, `
		SELECT id, nome, email, password_hash, COALESCE(localidade, ''), created_at, updated_at
		FROM clientes WHERE email = $1
	`, email).Scan(&c.ID, &c.Nome, &c.Email, &c.PasswordHash, &c.Localidade, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
