package pedido

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
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

func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.CriarPedidoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	p, err := h.service.Criar(ctx, middleware.GetActorID(ctx), &req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create pedido")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

func (h *Handler) Aceitar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.Aceitar)
}

func (h *Handler) Rejeitar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.Rejeitar)
}

func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.Cancelar)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pedidos, err := h.service.ListarPorCliente(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, pedidos)
}

// ObterPendente answers whether the actor already has an open offer towards
// another party on a listing. Used by the frontend to disable the offer form.
func (h *Handler) ObterPendente(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	anuncioID, err := uuid.Parse(r.URL.Query().Get("anuncio_id"))
	if err != nil {
		respond.Error(w, apperr.Validation("anuncio_id invalido"))
		return
	}
	destinatarioID, err := uuid.Parse(r.URL.Query().Get("destinatario_id"))
	if err != nil {
		respond.Error(w, apperr.Validation("destinatario_id invalido"))
		return
	}

	p, err := h.service.ObterPendenteEntre(ctx, middleware.GetActorID(ctx), destinatarioID, anuncioID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) transicao(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, actorID uuid.UUID) (*model.PedidoTransacao, error)) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "pedidoId"))
	if err != nil {
		respond.Error(w, apperr.Validation("pedido id invalido"))
		return
	}

	p, err := fn(ctx, id, middleware.GetActorID(ctx))
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to transition pedido")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
