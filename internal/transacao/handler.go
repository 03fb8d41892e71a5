package transacao

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

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

	var req types.CriarTransacaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("payload invalido"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validacao falhou: %v", err))
		return
	}

	t, err := h.service.Criar(ctx, middleware.GetActorID(ctx), &req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create transacao")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

func (h *Handler) ConfirmarRececao(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.ConfirmarRececao)
}

func (h *Handler) ConfirmarDevolucao(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.ConfirmarDevolucao)
}

func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, h.service.Cancelar)
}

func (h *Handler) SolicitarDevolucao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	d, err := h.service.SolicitarDevolucao(ctx, id, middleware.GetActorID(ctx))
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to register devolucao")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, d)
}

func (h *Handler) ObterDevolucao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	d, err := h.service.ObterDevolucao(ctx, id, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) Obter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := h.service.Obter(ctx, id, middleware.GetActorID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

// ObterRegisto serves the client's transaction history, each row tagged with
// the role the client played in it.
func (h *Handler) ObterRegisto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filtro, err := parseFiltroRegisto(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	registo, err := h.service.ObterRegisto(ctx, middleware.GetActorID(ctx), filtro)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, registo)
}

func (h *Handler) transicao(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, actorID uuid.UUID) (*model.Transacao, error)) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := fn(ctx, id, middleware.GetActorID(ctx))
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("Failed to transition transacao")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "transacaoId"))
	if err != nil {
		return uuid.Nil, apperr.Validation("transacao id invalido")
	}
	return id, nil
}

func parseFiltroRegisto(r *http.Request) (*types.FiltroRegisto, error) {
	q := r.URL.Query()
	filtro := &types.FiltroRegisto{
		Papel:  q.Get("papel"),
		Estado: q.Get("estado"),
		Tipo:   q.Get("tipo"),
	}
	if filtro.Papel != "" && filtro.Papel != types.PapelComprador && filtro.Papel != types.PapelVendedor {
		return nil, apperr.Validation("papel deve ser COMPRADOR ou VENDEDOR")
	}

	for param, dst := range map[string]**time.Time{"de": &filtro.De, "ate": &filtro.Ate} {
		if raw := q.Get(param); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, apperr.Validation("%s deve ser RFC3339", param)
			}
			*dst = &ts
		}
	}
	return filtro, nil
}
