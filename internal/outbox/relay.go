package outbox

import (
	"context"
	"time"

	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/rs/zerolog"
)

// Publisher is what the relay needs from the Kafka producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Relay struct {
	db          database.Querier
	publisher   Publisher
	logger      *zerolog.Logger
	batchSize   int
	interval    time.Duration
	maxAttempts int
}

func NewRelay(db database.Querier, publisher Publisher, logger *zerolog.Logger) *Relay {
	return &Relay{
		db:          db,
		publisher:   publisher,
		logger:      logger,
		batchSize:   100,
		interval:    10 * time.Second,
		maxAttempts: 5,
	}
}

func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info().Msg("Starting Outbox Relay")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Stopping Outbox Relay")
			return nil
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error().Err(err).Msg("Failed to process batch")
			}
		}
	}
}

func (r *Relay) processBatch(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, event_type, payload, partition_key
		FROM notificacao_outbox
		WHERE status = 'pending'
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batchSize)
	if err != nil {
		return err
	}

	var events []model.NotificacaoOutbox
	for rows.Next() {
		var e model.NotificacaoOutbox
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.PartitionKey); err != nil {
			rows.Close()
			return err
		}
		events = append(events, e)
	}
	rows.Close()

	if len(events) == 0 {
		return nil
	}

	r.logger.Info().Int("count", len(events)).Msg("Fetched outbox events")

	var processedIDs []int64
	type failure struct {
		id  int64
		msg string
	}
	var failures []failure
	for _, e := range events {
		err := r.publisher.Publish(ctx, kafka.TopicNotificacaoPending, []byte(e.PartitionKey), e.Payload)
		if err != nil {
			r.logger.Error().Err(err).Int64("event_id", e.ID).Str("event_type", e.EventType).Msg("Failed to publish event to Kafka")
			failures = append(failures, failure{id: e.ID, msg: err.Error()})
			continue
		}
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE notificacao_outbox
			SET status = 'processed', updated_at = NOW()
			WHERE id = ANY($1)
		`, processedIDs)
		if err != nil {
			return err
		}
	}

	// Failed publishes stay pending and are retried on later batches until
	// the attempt budget runs out, then they park as 'failed' for operators.
	for _, f := range failures {
		_, err = tx.Exec(ctx, `
			UPDATE notificacao_outbox
			SET retry_count = retry_count + 1,
			    last_error = $2,
			    status = CASE WHEN retry_count + 1 >= $3 THEN 'failed' ELSE 'pending' END,
			    updated_at = NOW()
			WHERE id = $1
		`, f.id, f.msg, r.maxAttempts)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
