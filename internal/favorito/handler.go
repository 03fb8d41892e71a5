package favorito

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

func (h *Handler) Alternar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	anuncioID, err := uuid.Parse(chi.URLParam(r, "anuncioId"))
	if err != nil {
		respond.Error(w, apperr.Validation("anuncio id invalido"))
		return
	}

	res, err := h.service.AlternarFavorito(ctx, middleware.GetActorID(ctx), anuncioID)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to toggle favorito")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) ListarMeus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	favoritos, err := h.service.ListarPorCliente(ctx, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, favoritos)
}
