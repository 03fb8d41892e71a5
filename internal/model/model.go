package model

import (
	"time"

	"github.com/google/uuid"
)

type Model struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Estados do pedido de transacao
const (
	PedidoPendente  = "pendente"
	PedidoAceite    = "aceite"
	PedidoRejeitado = "rejeitado"
	PedidoCancelado = "cancelado"
)

// Estados da transacao
const (
	TransacaoPendente            = "pendente"
	TransacaoConfirmadaComprador = "confirmada_comprador"
	TransacaoDevolvida           = "devolvida"
	TransacaoConfirmadaDevolucao = "confirmada_devolucao"
	TransacaoCancelada           = "cancelada"
	TransacaoConcluida           = "concluida"
)

// Estados da devolucao
const (
	DevolucaoSolicitada = "solicitada"
	DevolucaoConfirmada = "confirmada"
)

// Tipos de anuncio
const (
	AnuncioVenda   = "venda"
	AnuncioAluguer = "aluguer"
	AnuncioDoacao  = "doacao"
)

// Estados do anuncio
const (
	AnuncioAtivo        = "ativo"
	AnuncioIndisponivel = "indisponivel"
	AnuncioVendido      = "vendido"
)

// Tipos de movimento de pontos
const (
	MovimentoGanho = "ganho"
	MovimentoGasto = "gasto"
)

type Cliente struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome" validate:"required,min=2,max=100"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Localidade   string    `json:"localidade,omitempty"`
	Model
}

type Categoria struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome" validate:"required,min=2,max=60"`
}

type Livro struct {
	ISBN    string `json:"isbn" validate:"required,min=10,max=13"`
	Titulo  string `json:"titulo" validate:"required"`
	Autor   string `json:"autor"`
	Editora string `json:"editora,omitempty"`
	Ano     int    `json:"ano,omitempty"`
	Model
}

type Anuncio struct {
	ID            uuid.UUID `json:"id"`
	VendedorID    uuid.UUID `json:"vendedor_id" validate:"required"`
	CategoriaID   uuid.UUID `json:"categoria_id" validate:"required"`
	LivroISBN     string    `json:"livro_isbn" validate:"required"`
	Preco         int64     `json:"preco" validate:"gte=0"` // centimos
	EstadoLivro   string    `json:"estado_livro" validate:"required,oneof=novo como_novo usado danificado"`
	TipoAnuncio   string    `json:"tipo_anuncio" validate:"required,oneof=venda aluguer doacao"`
	EstadoAnuncio string    `json:"estado_anuncio" validate:"required,oneof=ativo indisponivel vendido"`
	Descricao     string    `json:"descricao,omitempty"`
	Model
}

type Favorito struct {
	ClienteID uuid.UUID `json:"cliente_id" validate:"required"`
	AnuncioID uuid.UUID `json:"anuncio_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversa struct {
	ID          uuid.UUID `json:"id"`
	AnuncioID   uuid.UUID `json:"anuncio_id" validate:"required"`
	CompradorID uuid.UUID `json:"comprador_id" validate:"required"`
	VendedorID  uuid.UUID `json:"vendedor_id" validate:"required"`
	Model
}

type Mensagem struct {
	ID          uuid.UUID `json:"id"`
	ConversaID  uuid.UUID `json:"conversa_id" validate:"required"`
	RemetenteID uuid.UUID `json:"remetente_id" validate:"required"`
	Conteudo    string    `json:"conteudo" validate:"required,max=2000"`
	CreatedAt   time.Time `json:"created_at"`
}

type PedidoTransacao struct {
	ID             uuid.UUID `json:"id"`
	AnuncioID      uuid.UUID `json:"anuncio_id" validate:"required"`
	ConversaID     uuid.UUID `json:"conversa_id" validate:"required"`
	RemetenteID    uuid.UUID `json:"remetente_id" validate:"required"`
	DestinatarioID uuid.UUID `json:"destinatario_id" validate:"required"`
	CompradorID    uuid.UUID `json:"comprador_id" validate:"required"`
	VendedorID     uuid.UUID `json:"vendedor_id" validate:"required"`
	ValorProposto  int64     `json:"valor_proposto" validate:"gt=0"`
	DiasDeAluguel  *int      `json:"dias_de_aluguel,omitempty"`
	Estado         string    `json:"estado" validate:"required,oneof=pendente aceite rejeitado cancelado"`
	Model
}

type Transacao struct {
	ID            uuid.UUID `json:"id"`
	PedidoID      uuid.UUID `json:"pedido_id" validate:"required"`
	AnuncioID     uuid.UUID `json:"anuncio_id" validate:"required"`
	CompradorID   uuid.UUID `json:"comprador_id" validate:"required"`
	VendedorID    uuid.UUID `json:"vendedor_id" validate:"required"`
	ValorFinal    int64     `json:"valor_final" validate:"gte=0"`
	PontosUsados  int64     `json:"pontos_usados" validate:"gte=0"`
	ValorDesconto int64     `json:"valor_desconto" validate:"gte=0"`
	Estado        string    `json:"estado" validate:"required"`
	DataTransacao time.Time `json:"data_transacao"`
	Model
}

type Devolucao struct {
	ID           uuid.UUID  `json:"id"`
	TransacaoID  uuid.UUID  `json:"transacao_id" validate:"required"`
	ClienteID    uuid.UUID  `json:"cliente_id" validate:"required"`
	Estado       string     `json:"estado" validate:"required,oneof=solicitada confirmada"`
	SolicitadaEm time.Time  `json:"solicitada_em"`
	ConfirmadaEm *time.Time `json:"confirmada_em,omitempty"`
}

type MovimentoPontos struct {
	ID            int64      `json:"id"`
	ClienteID     uuid.UUID  `json:"cliente_id" validate:"required"`
	TransacaoID   *uuid.UUID `json:"transacao_id,omitempty"` // fica nil quando a transacao referida e apagada
	Quantidade    int64      `json:"quantidade" validate:"required"`
	TipoMovimento string     `json:"tipo_movimento" validate:"required,oneof=ganho gasto"`
	Data          time.Time  `json:"data"`
}

type Avaliacao struct {
	ID          uuid.UUID `json:"id"`
	TransacaoID uuid.UUID `json:"transacao_id" validate:"required"`
	AvaliadorID uuid.UUID `json:"avaliador_id" validate:"required"`
	AvaliadoID  uuid.UUID `json:"avaliado_id" validate:"required"`
	Nota        int       `json:"nota" validate:"required,gte=1,lte=5"`
	Comentario  string    `json:"comentario,omitempty" validate:"max=1000"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notificacao struct {
	ID        uuid.UUID `json:"id"`
	ClienteID uuid.UUID `json:"cliente_id" validate:"required"`
	Tipo      string    `json:"tipo" validate:"required"`
	Titulo    string    `json:"titulo" validate:"required"`
	Corpo     string    `json:"corpo,omitempty"`
	Lida      bool      `json:"lida"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificacaoOutbox struct {
	ID           int64  `json:"id"`
	EventType    string `json:"event_type" validate:"required"`
	Payload      []byte `json:"payload" validate:"required"`
	PartitionKey string `json:"partition_key" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=pending processed failed"`
	RetryCount   int    `json:"retry_count" validate:"gte=0"`
	LastError    string `json:"last_error,omitempty"`
	Model
}
