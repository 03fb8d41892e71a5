package outbox

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookflaz/bookflaz/internal/database"
)

type stubPublisher struct {
	err       error
	published int
}

func (p *stubPublisher) Publish(_ context.Context, _ string, _, _ []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published++
	return nil
}

func newTestRelay(db database.Querier, pub Publisher) *Relay {
	log := zerolog.Nop()
	return NewRelay(db, pub, &log)
}

func TestProcessBatch_MarcaPublicadosComoProcessados(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM notificacao_outbox")).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "event_type", "payload", "partition_key"}).
			AddRow(int64(7), "bookflaz.pedido.aceite", []byte(`{}`), "a").
			AddRow(int64(8), "bookflaz.pedido.recebido", []byte(`{}`), "b"))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'processed'")).
		WithArgs([]int64{7, 8}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	pub := &stubPublisher{}
	relay := newTestRelay(mock, pub)

	require.NoError(t, relay.processBatch(context.Background()))
	assert.Equal(t, 2, pub.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessBatch_FalhaDePublicacaoContaRetry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM notificacao_outbox")).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "event_type", "payload", "partition_key"}).
			AddRow(int64(7), "bookflaz.pedido.aceite", []byte(`{}`), "a"))
	mock.ExpectExec(regexp.QuoteMeta("SET retry_count = retry_count + 1")).
		WithArgs(int64(7), "kafka indisponivel", 5).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	relay := newTestRelay(mock, &stubPublisher{err: errors.New("kafka indisponivel")})

	require.NoError(t, relay.processBatch(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
