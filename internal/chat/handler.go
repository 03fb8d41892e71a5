package chat

import (
	"encoding/json"
	"net/http"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/respond"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

var validate = validator.New()

func (h *Handler) Iniciar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.CriarConversaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	c, err := h.service.IniciarConversa(ctx, middleware.GetActorID(ctx), req.AnuncioID)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to open conversa")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversas, err := h.service.ListarConversas(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, conversas)
}

func (h *Handler) EnviarMensagem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.CriarMensagemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	m, err := h.service.EnviarMensagem(ctx, middleware.GetActorID(ctx), req.ConversaID, req.Conteudo)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to send mensagem")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

func (h *Handler) ListarMensagens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conversaID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("conversa id invalido"))
		return
	}

	mensagens, err := h.service.ListarMensagens(ctx, middleware.GetActorID(ctx), conversaID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mensagens)
}
