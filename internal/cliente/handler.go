package cliente

import (
	"encoding/json"
	"net/http"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/respond"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

var validate = validator.New()

func (h *Handler) Registar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.RegistoClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	c, err := h.service.Registar(ctx, &req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register cliente")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	res, err := h.service.Login(ctx, &req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) ObterPerfil(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := middleware.GetActorID(ctx)
	if raw := chi.URLParam(r, "id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respond.Error(w, apperr.Validation("id invalido"))
			return
		}
		id = parsed
	}

	perfil, err := h.service.ObterPerfil(ctx, id)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to load perfil")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, perfil)
}
