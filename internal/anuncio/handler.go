package anuncio

import (
	"encoding/json"
	"net/http"
	"strconv"

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

	var req types.CriarAnuncioRequest
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
		logger.Error().Err(err).Msg("Failed to create anuncio")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, a)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filtro, err := parseFiltro(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	anuncios, err := h.service.Listar(ctx, filtro)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to list anuncios")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, anuncios)
}

func (h *Handler) ObterDetalhe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id invalido"))
		return
	}

	detalhe, err := h.service.ObterDetalhe(ctx, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, detalhe)
}

func (h *Handler) ListarMeus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	anuncios, err := h.service.ListarPorVendedor(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, anuncios)
}

func (h *Handler) AtualizarEstado(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id invalido"))
		return
	}

	var req types.AtualizarEstadoAnuncioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	a, err := h.service.AtualizarEstado(ctx, id, middleware.GetActorID(ctx), req.EstadoAnuncio)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

func parseFiltro(r *http.Request) (*types.FiltroAnuncios, error) {
	q := r.URL.Query()
	filtro := &types.FiltroAnuncios{
		TipoAnuncio: q.Get("tipo"),
		Estado:      q.Get("estado"),
		Texto:       q.Get("q"),
	}

	if raw := q.Get("categoria"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperr.Validation("categoria invalida")
		}
		filtro.CategoriaID = &id
	}
	if raw := q.Get("preco_min"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.Validation("preco_min invalido")
		}
		filtro.PrecoMin = &v
	}
	if raw := q.Get("preco_max"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.Validation("preco_max invalido")
		}
		filtro.PrecoMax = &v
	}
	return filtro, nil
}
