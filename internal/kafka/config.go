package kafka

import (
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Topic names for all Kafka topics used in the application
const (
	TopicNotificacaoPending = "bookflaz.notificacao.pending"
	TopicDLQ                = "bookflaz.dlq"
)

// Event types carried by the notification outbox. Each workflow state
// transition that must reach the counterparty is published as one of these.
const (
	EventPedidoRecebido      = "bookflaz.pedido.recebido"
	EventPedidoAceite        = "bookflaz.pedido.aceite"
	EventPedidoRejeitado     = "bookflaz.pedido.rejeitado"
	EventTransacaoCriada     = "bookflaz.transacao.criada"
	EventTransacaoConfirmada = "bookflaz.transacao.confirmada"
	EventDevolucaoSolicitada = "bookflaz.devolucao.solicitada"
	EventDevolucaoConfirmada = "bookflaz.devolucao.confirmada"
	EventMensagemRecebida    = "bookflaz.mensagem.recebida"
	EventAvaliacaoRecebida   = "bookflaz.avaliacao.recebida"
)

// ConsumerGroup names for the Kafka consumers
const (
	GroupNotificacaoWorker = "bookflaz.notificacao.worker"
)

type Config struct {
	Brokers           []string
	ProducerTimeout   time.Duration
	RequiredAcks      kgo.Acks
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	MaxPollRecords    int
	MaxRetries        int
	RetryBackoff      time.Duration
}

func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers:           brokers,
		ProducerTimeout:   10 * time.Second,
		RequiredAcks:      kgo.AllISRAcks(),
		SessionTimeout:    10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		MaxPollRecords:    100,
		MaxRetries:        5,
		RetryBackoff:      1 * time.Second,
	}
}
