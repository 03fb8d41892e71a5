package middleware

import (
	"github.com/bookflaz/bookflaz/internal/redis"
	"github.com/bookflaz/bookflaz/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type Middlewares struct {
	Global          *Global
	ContextEnhancer *ContextEnhancer
	Tracing         *Tracing
	Auth            *Auth
	RateLimiter     *RateLimiter
}

func NewMiddlewares(s *server.Server, redisClient *redis.Client) *Middlewares {

	var nrApp *newrelic.Application

	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobal(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracing(nrApp),
		Auth:            NewAuth(&s.Config.Auth),
		RateLimiter:     NewRateLimiter(redisClient),
	}
}
