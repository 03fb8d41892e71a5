package cliente

import (
	"context"
	"errors"
	"time"

	"github.com/bookflaz/bookflaz/internal/apperr"
	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/model"
	"github.com/bookflaz/bookflaz/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SaldoLeitor reads the derived points balance. Satisfied by the pontos
// service.
type SaldoLeitor interface {
	ObterPontos(ctx context.Context, clienteID uuid.UUID) (int64, error)
}

// ReputacaoLeitor reads the rating aggregate. Satisfied by the avaliacao
// service.
type ReputacaoLeitor interface {
	ObterReputacao(ctx context.Context, clienteID uuid.UUID) (*types.ReputacaoResponse, error)
}

type Service struct {
	repo      Repository
	saldo     SaldoLeitor
	reputacao ReputacaoLeitor
	authCfg   *config.AuthConfig
}

func NewService(repo Repository, saldo SaldoLeitor, reputacao ReputacaoLeitor, authCfg *config.AuthConfig) *Service {
	return &Service{
		repo:      repo,
		saldo:     saldo,
		reputacao: reputacao,
		authCfg:   authCfg,
	}
}

func (s *Service) Registar(ctx context.Context, req *types.RegistoClienteRequest) (*model.Cliente, error) {
	logger := middleware.GetLogger(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	c := &model.Cliente{
		Nome:         req.Nome,
		Email:        req.Email,
		PasswordHash: string(hash),
		Localidade:   req.Localidade,
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("email ja registado")
		}
		return nil, apperr.Internal(err, "failed to create cliente")
	}

	logger.Info().Str("cliente_id", c.ID.String()).Msg("Cliente registered")
	return c, nil
}

func (s *Service) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	c, err := s.repo.ObterPorEmail(ctx, req.Email)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.Unauthorized("credenciais invalidas")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up cliente")
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("credenciais invalidas")
	}

	now := time.Now()
	expires := now.Add(s.authCfg.TokenTTL)
	token, err := middleware.IssueToken(s.authCfg, c.ID, now.Unix(), expires.Unix())
	if err != nil {
		return nil, apperr.Internal(err, "failed to sign token")
	}

	return &types.LoginResponse{Token: token, ClienteID: c.ID, ExpiresAt: expires}, nil
}

func (s *Service) ObterPerfil(ctx context.Context, clienteID uuid.UUID) (*types.PerfilResponse, error) {
	c, err := s.repo.ObterPorID(ctx, clienteID)
	if errors.Is(err, ErrNaoEncontrado) {
		return nil, apperr.NotFound("cliente nao encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up cliente")
	}

	saldo, err := s.saldo.ObterPontos(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	rep, err := s.reputacao.ObterReputacao(ctx, clienteID)
	if err != nil {
		return nil, err
	}

	return &types.PerfilResponse{
		Cliente:    *c,
		Pontos:     saldo,
		Reputacao:  rep.Media,
		Avaliacoes: rep.Total,
	}, nil
}
