package pontos

import (
	"net/http"

	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/respond"
	"github.com/bookflaz/bookflaz/pkg/types"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ObterSaldo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clienteID := middleware.GetActorID(ctx)

	saldo, err := h.service.ObterPontos(ctx, clienteID)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to read points balance")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, types.SaldoPontosResponse{ClienteID: clienteID, Pontos: saldo})
}

func (h *Handler) ObterHistorico(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clienteID := middleware.GetActorID(ctx)

	historico, err := h.service.ObterHistorico(ctx, clienteID)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to read points history")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, historico)
}
