package pedido

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/outbox"
)

func TestAceitar_CancelaOutrosPendentesNaMesmaTransacao(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	pedidoID := uuid.New()
	anuncioID := uuid.New()
	irmaoA := uuid.New()
	irmaoB := uuid.New()
	remetenteID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT estado, anuncio_id FROM pedidos_transacao WHERE id = $1 FOR UPDATE")).
		WithArgs(pedidoID).
		WillReturnRows(pgxmock.NewRows([]string{"estado", "anuncio_id"}).AddRow(model.PedidoPendente, anuncioID))
	mock.ExpectExec(regexp.QuoteMeta("SET estado = 'aceite'")).
		WithArgs(pedidoID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SET estado = 'cancelado'")).
		WithArgs(anuncioID, pedidoID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(irmaoA).AddRow(irmaoB))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notificacao_outbox")).
		WithArgs(kafka.EventPedidoAceite, pgxmock.AnyArg(), remetenteID.String()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewRepository(mock)

	cancelados, err := repo.Aceitar(context.Background(), pedidoID, outbox.Pending{
		EventType: kafka.EventPedidoAceite,
		Event: outbox.NotificacaoEvent{
			ClienteID:    remetenteID,
			Tipo:         "pedido_aceite",
			Titulo:       "Proposta aceite",
			ReferenciaID: pedidoID,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{irmaoA, irmaoB}, cancelados)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAceitar_NaoPendenteNaoAlteraNada(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	pedidoID := uuid.New()
	anuncioID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT estado, anuncio_id FROM pedidos_transacao WHERE id = $1 FOR UPDATE")).
		WithArgs(pedidoID).
		WillReturnRows(pgxmock.NewRows([]string{"estado", "anuncio_id"}).AddRow(model.PedidoAceite, anuncioID))
	mock.ExpectRollback()

	repo := NewRepository(mock)

	_, err = repo.Aceitar(context.Background(), pedidoID, outbox.Pending{EventType: kafka.EventPedidoAceite})

	assert.ErrorIs(t, err, ErrEstadoInvalido)
	assert.NoError(t, mock.ExpectationsWereMet())
}
