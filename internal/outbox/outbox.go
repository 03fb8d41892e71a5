package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NotificacaoEvent is the payload stored in the outbox and later consumed by
// the notification worker. ClienteID is the recipient.
type NotificacaoEvent struct {
	ClienteID    uuid.UUID `json:"cliente_id"`
	Tipo         string    `json:"tipo"`
	Titulo       string    `json:"titulo"`
	Corpo        string    `json:"corpo,omitempty"`
	ReferenciaID uuid.UUID `json:"referencia_id"`
}

// Pending pairs an event with its type so services can hand repositories the
// notifications to enqueue inside the workflow transaction.
type Pending struct {
	EventType string
	Event     NotificacaoEvent
}

// Enqueue appends an event to the outbox inside the caller's transaction so
// the event commits or rolls back together with the state change.
func Enqueue(ctx context.Context, tx pgx.Tx, eventType string, event NotificacaoEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox event: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notificacao_outbox (event_type, payload, partition_key, status)
		VALUES ($1, $2, $3, 'pending')
	`, eventType, payload, event.ClienteID.String())
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}
