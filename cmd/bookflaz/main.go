package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/avaliacao"
	"github.com/bookflaz/bookflaz/internal/catalogo"
	"github.com/bookflaz/bookflaz/internal/chat"
	"github.com/bookflaz/bookflaz/internal/cliente"
	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/bookflaz/bookflaz/internal/database"
	"github.com/bookflaz/bookflaz/internal/favorito"
	"github.com/bookflaz/bookflaz/internal/isbn"
	"github.com/bookflaz/bookflaz/internal/logger"
	"github.com/bookflaz/bookflaz/internal/notificacao"
	"github.com/bookflaz/bookflaz/internal/pedido"
	"github.com/bookflaz/bookflaz/internal/pontos"
	"github.com/bookflaz/bookflaz/internal/redis"
	"github.com/bookflaz/bookflaz/internal/router"
	"github.com/bookflaz/bookflaz/internal/server"
	"github.com/bookflaz/bookflaz/internal/transacao"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.New(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	db, err := database.New(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	redisClient, err := redis.New(&log, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis client")
	}

	srv, err := server.NewServer(cfg, &log, loggerService, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	clienteRepo := cliente.NewRepository(db.Pool)
	catalogoRepo := catalogo.NewRepository(db.Pool)
	anuncioRepo := anuncio.NewRepository(db.Pool)
	favoritoRepo := favorito.NewRepository(db.Pool)
	chatRepo := chat.NewRepository(db.Pool)
	pedidoRepo := pedido.NewRepository(db.Pool)
	transacaoRepo := transacao.NewRepository(db.Pool)
	pontosRepo := pontos.NewRepository(db.Pool)
	avaliacaoRepo := avaliacao.NewRepository(db.Pool)
	notificacaoRepo := notificacao.NewRepository(db.Pool)

	var metadataLookup catalogo.MetadataLookup
	if cfg.Isbn.Enabled {
		metadataLookup = isbn.NewClient(&cfg.Isbn)
	}

	catalogoService := catalogo.NewService(catalogoRepo, metadataLookup)
	favoritoService := favorito.NewService(favoritoRepo, anuncioRepo)
	anuncioService := anuncio.NewService(anuncioRepo, catalogoService, favoritoService)
	chatService := chat.NewService(chatRepo, anuncioRepo)
	pedidoService := pedido.NewService(pedidoRepo, anuncioRepo, chatRepo)
	transacaoService := transacao.NewService(transacaoRepo, pedidoRepo, anuncioRepo, redisClient, &cfg.Pontos)
	pontosService := pontos.NewService(pontosRepo)
	avaliacaoService := avaliacao.NewService(avaliacaoRepo, transacaoRepo)
	notificacaoService := notificacao.NewService(notificacaoRepo)
	clienteService := cliente.NewService(clienteRepo, pontosService, avaliacaoService, &cfg.Auth)

	handlers := &router.Handlers{
		Cliente:     cliente.NewHandler(clienteService),
		Catalogo:    catalogo.NewHandler(catalogoService),
		Anuncio:     anuncio.NewHandler(anuncioService),
		Favorito:    favorito.NewHandler(favoritoService),
		Chat:        chat.NewHandler(chatService),
		Pedido:      pedido.NewHandler(pedidoService),
		Transacao:   transacao.NewHandler(transacaoService),
		Pontos:      pontos.NewHandler(pontosService),
		Avaliacao:   avaliacao.NewHandler(avaliacaoService),
		Notificacao: notificacao.NewHandler(notificacaoService),
	}

	r := router.NewRouter(srv, redisClient, handlers)

	srv.SetupHTTPServer(r)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
