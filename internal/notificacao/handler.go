package notificacao

import (
	"net/http"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apenasNaoLidas := r.URL.Query().Get("nao_lidas") == "true"
	notificacoes, err := h.service.Listar(ctx, middleware.GetActorID(ctx), apenasNaoLidas)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, notificacoes)
}

func (h *Handler) ContarNaoLidas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.service.ContarNaoLidas(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"nao_lidas": total})
}

func (h *Handler) MarcarLida(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "notificacaoId"))
	if err != nil {
		respond.Error(w, apperr.Validation("notificacao id invalido"))
		return
	}

	if err := h.service.MarcarLida(ctx, id, middleware.GetActorID(ctx)); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"lida": true})
}

func (h *Handler) MarcarTodasLidas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.service.MarcarTodasLidas(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"marcadas": total})
}
