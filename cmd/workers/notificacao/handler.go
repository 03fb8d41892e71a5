package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bookflaz/bookflaz/internal/kafka"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/internal/notificacao"
	"github.com/bookflaz/bookflaz/internal/outbox"
	"github.com/bookflaz/bookflaz/internal/redis"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func notificacaoHandler(repo notificacao.Repository, redis *redis.Client, log *zerolog.Logger) kafka.Handler {
	return func(ctx context.Context, msg *kafka.Message) error {
		log.Info().Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("Processing notificacao event")

		var event outbox.NotificacaoEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal notificacao message")
			return err
		}

		if event.ClienteID == uuid.Nil || event.Tipo == "" {
			log.Warn().
				Int64("offset", msg.Offset).
				Str("tipo", event.Tipo).
				Msg("Skipping invalid notificacao payload")
			return nil
		}

		// Serialize writes per recipient so a client's feed stays ordered
		lock, err := redis.AcquireLock(ctx, "notificacao:"+event.ClienteID.String(), 10*time.Second)
		if err != nil {
			log.Error().Err(err).Str("cliente_id", event.ClienteID.String()).Msg("Failed to acquire notificacao lock")
			return err
		}
		defer lock.Release(ctx)

		n := &model.Notificacao{
			ClienteID: event.ClienteID,
			Tipo:      event.Tipo,
			Titulo:    event.Titulo,
			Corpo:     event.Corpo,
		}
		if err := repo.Criar(ctx, n); err != nil {
			log.Error().Err(err).Str("cliente_id", event.ClienteID.String()).Msg("Failed to store notificacao")
			return err
		}

		log.Info().
			Str("notificacao_id", n.ID.String()).
			Str("cliente_id", n.ClienteID.String()).
			Str("tipo", n.Tipo).
			Msg("Notificacao stored")
		return nil
	}
}
