package types

import (
	"time"

	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/google/uuid"
)

// Papel values returned by the transaction register projection.
const (
	PapelComprador = "COMPRADOR"
	PapelVendedor  = "VENDEDOR"
)

type RegistoClienteRequest struct {
	Nome       string `json:"nome" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Localidade string `json:"localidade,omitempty" validate:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ClienteID uuid.UUID `json:"cliente_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PerfilResponse struct {
	Cliente    model.Cliente `json:"cliente"`
	Pontos     int64         `json:"pontos"`
	Reputacao  float64       `json:"reputacao"`
	Avaliacoes int64         `json:"avaliacoes"`
}

type CriarAnuncioRequest struct {
	CategoriaID uuid.UUID `json:"categoria_id" validate:"required"`
	LivroISBN   string    `json:"livro_isbn" validate:"required,min=10,max=13"`
	Titulo      string    `json:"titulo,omitempty" validate:"max=300"`
	Autor       string    `json:"autor,omitempty" validate:"max=200"`
	Preco       int64     `json:"preco" validate:"gte=0"`
	EstadoLivro string    `json:"estado_livro" validate:"required,oneof=novo como_novo usado danificado"`
	TipoAnuncio string    `json:"tipo_anuncio" validate:"required,oneof=venda aluguer doacao"`
	Descricao   string    `json:"descricao,omitempty" validate:"max=3000"`
}

type AtualizarEstadoAnuncioRequest struct {
	EstadoAnuncio string `json:"estado_anuncio" validate:"required,oneof=ativo indisponivel vendido"`
}

type FiltroAnuncios struct {
	CategoriaID *uuid.UUID
	TipoAnuncio string
	Estado      string
	PrecoMin    *int64
	PrecoMax    *int64
	Texto       string
}

type AnuncioDetalheResponse struct {
	Anuncio   model.Anuncio `json:"anuncio"`
	Livro     model.Livro   `json:"livro"`
	Favoritos int64         `json:"favoritos"`
}

type AlternarFavoritoResponse struct {
	Favorito bool  `json:"favorito"`
	Total    int64 `json:"total"`
}

type CriarMensagemRequest struct {
	ConversaID uuid.UUID `json:"conversa_id" validate:"required"`
	Conteudo   string    `json:"conteudo" validate:"required,max=2000"`
}

type CriarConversaRequest struct {
	AnuncioID uuid.UUID `json:"anuncio_id" validate:"required"`
}

type CriarPedidoRequest struct {
	AnuncioID     uuid.UUID `json:"anuncio_id" validate:"required"`
	ValorProposto int64     `json:"valor_proposto" validate:"required,gt=0"`
	DiasDeAluguel *int      `json:"dias_de_aluguel,omitempty" validate:"omitempty,gt=0"`
	// ConversaID carries the existing conversation for counter-offers made
	// by the seller; buyers may omit it and a conversation is created.
	ConversaID *uuid.UUID `json:"conversa_id,omitempty"`
}

type CriarTransacaoRequest struct {
	PedidoID     uuid.UUID `json:"pedido_id" validate:"required"`
	PontosUsados int64     `json:"pontos_usados" validate:"gte=0"`
}

// FiltroRegisto narrows the role-tagged transaction register.
type FiltroRegisto struct {
	Papel  string
	Estado string
	Tipo   string
	De     *time.Time
	Ate    *time.Time
}

type RegistoItem struct {
	Transacao   model.Transacao `json:"transacao"`
	Papel       string          `json:"papel"`
	TipoAnuncio string          `json:"tipo_anuncio"`
	TituloLivro string          `json:"titulo_livro"`
}

type MovimentoDetalhe struct {
	Movimento   model.MovimentoPontos `json:"movimento"`
	TituloLivro string                `json:"titulo_livro,omitempty"`
	ValorFinal  *int64                `json:"valor_final,omitempty"`
}

type SaldoPontosResponse struct {
	ClienteID uuid.UUID `json:"cliente_id"`
	Pontos    int64     `json:"pontos"`
}

type CriarAvaliacaoRequest struct {
	TransacaoID uuid.UUID `json:"transacao_id" validate:"required"`
	Nota        int       `json:"nota" validate:"required,gte=1,lte=5"`
	Comentario  string    `json:"comentario,omitempty" validate:"max=1000"`
}

type ReputacaoResponse struct {
	ClienteID uuid.UUID `json:"cliente_id"`
	Media     float64   `json:"media"`
	Total     int64     `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
