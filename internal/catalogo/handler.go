package catalogo

import (
	"net/http"

	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/respond"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListarCategorias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categorias, err := h.service.ListarCategorias(ctx)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to list categorias")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, categorias)
}

func (h *Handler) ObterLivro(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	l, err := h.service.ObterLivro(ctx, chi.URLParam(r, "isbn"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, l)
}
