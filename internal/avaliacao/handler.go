package avaliacao

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

func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.CriarAvaliacaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	a, err := h.service.Criar(ctx, middleware.GetActorID(ctx), &req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create avaliacao")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, a)
}

func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clienteID, err := uuid.Parse(chi.URLParam(r, "clienteId"))
	if err != nil {
		respond.Error(w, apperr.Validation("cliente id invalido"))
		return
	}

	avaliacoes, err := h.service.ListarPorAvaliado(ctx, clienteID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, avaliacoes)
}

func (h *Handler) ObterReputacao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clienteID, err := uuid.Parse(chi.URLParam(r, "clienteId"))
	if err != nil {
		respond.Error(w, apperr.Validation("cliente id invalido"))
		return
	}

	rep, err := h.service.ObterReputacao(ctx, clienteID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}
