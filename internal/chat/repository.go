package chat

import (
	"context"
	"errors"

	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConversaNaoEncontrada = errors.New("conversa nao encontrada")

type Repository interface {
	ObterOuCriarConversa(ctx context.Context, anuncioID, compradorID, vendedorID uuid.UUID) (*model.Conversa, error)
	ObterConversa(ctx context.Context, id uuid.UUID) (*model.Conversa, error)
	ListarConversas(ctx context.Context, clienteID uuid.UUID) ([]model.Conversa, error)
	CriarMensagem(ctx context.Context, m *model.Mensagem, destinatarioID uuid.UUID) error
	ListarMensagens(ctx context.Context, conversaID uuid.UUID) ([]model.Mensagem, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ObterOuCriarConversa(ctx context.Context, anuncioID, compradorID, vendedorID uuid.UUID) (*model.Conversa, error) {
	var c model.Conversa
	err := r.db.QueryRow(ctx, `
		INSERT INTO conversas (anuncio_id, comprador_id, vendedor_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (anuncio_id, comprador_id, vendedor_id)
			DO UPDATE SET updated_at = NOW()
		RETURNING id, anuncio_id, comprador_id, vendedor_id, created_at, updated_at
	`, anuncioID, compradorID, vendedorID).
		Scan(&c.ID, &c.AnuncioID, &c.CompradorID, &c.VendedorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ObterConversa(ctx context.Context, id uuid.UUID) (*model.Conversa, error) {
	var c model.Conversa
	err := r.db.QueryRow(ctx, `
		SELECT id, anuncio_id, comprador_id, vendedor_id, created_at, updated_at
		FROM conversas WHERE id = $1
	`, id).Scan(&c.ID, &c.AnuncioID, &c.CompradorID, &c.VendedorID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConversaNaoEncontrada
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListarConversas(ctx context.Context, clienteID uuid.UUID) ([]model.Conversa, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, anuncio_id, comprador_id, vendedor_id, created_at, updated_at
		FROM conversas
		WHERE comprador_id = $1 OR vendedor_id = $1
		ORDER BY updated_at DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversas []model.Conversa
	for rows.Next() {
		var c model.Conversa
		if err := rows.Scan(&c.ID, &c.AnuncioID, &c.CompradorID, &c.VendedorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversas = append(conversas, c)
	}
	return conversas, rows.Err()
}

// CriarMensagem stores the message and queues the counterparty notification
// in the same transaction.
func (r *Repo) CriarMensagem(ctx context.Context, m *model.Mensagem, destinatarioID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO mensagens (conversa_id, remetente_id, conteudo)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.ConversaID, m.RemetenteID, m.Conteudo).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE conversas SET updated_at = NOW() WHERE id = $1`, m.ConversaID)
	if err != nil {
		return err
	}

	err = outbox.Enqueue(ctx, tx, kafka.EventMensagemRecebida, outbox.NotificacaoEvent{
		ClienteID:    destinatarioID,
		Tipo:         "mensagem_recebida",
		Titulo:       "Nova mensagem",
		ReferenciaID: m.ConversaID,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) ListarMensagens(ctx context.Context, conversaID uuid.UUID) ([]model.Mensagem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, conversa_id, remetente_id, conteudo, created_at
		FROM mensagens WHERE conversa_id = $1 ORDER BY created_at ASC
	`, conversaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mensagens []model.Mensagem
	for rows.Next() {
		var m model.Mensagem
		if err := rows.Scan(&m.ID, &m.ConversaID, &m.RemetenteID, &m.Conteudo, &m.CreatedAt); err != nil {
			return nil, err
		}
		mensagens = append(mensagens, m)
	}
	return mensagens, rows.Err()
}
