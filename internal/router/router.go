package router

import (
	"net/http"
	"time"

	"github.com/bookflaz/bookflaz/internal/anuncio"
	"github.com/bookflaz/bookflaz/internal/avaliacao"
	"github.com/bookflaz/bookflaz/internal/catalogo"
	"github.com/bookflaz/bookflaz/internal/chat"
	"github.com/bookflaz/bookflaz/internal/cliente"
	"github.com/bookflaz/bookflaz/internal/favorito"
	"github.com/bookflaz/bookflaz/internal/middleware"
	"github.com/bookflaz/bookflaz/internal/notificacao"
	"github.com/bookflaz/bookflaz/internal/pedido"
	"github.com/bookflaz/bookflaz/internal/pontos"
	"github.com/bookflaz/bookflaz/internal/redis"
	"github.com/bookflaz/bookflaz/internal/server"
	"github.com/bookflaz/bookflaz/internal/transacao"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Cliente     *cliente.Handler
	Catalogo    *catalogo.Handler
	Anuncio     *anuncio.Handler
	Favorito    *favorito.Handler
	Chat        *chat.Handler
	Pedido      *pedido.Handler
	Transacao   *transacao.Handler
	Pontos      *pontos.Handler
	Avaliacao   *avaliacao.Handler
	Notificacao *notificacao.Handler
}

func NewRouter(s *server.Server, redisClient *redis.Client, h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	mw := middleware.NewMiddlewares(s, redisClient)

	// Apply middleware in order
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.Config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(mw.Tracing.NewRelicMiddleware())
	r.Use(mw.Tracing.EnhanceTracing)
	r.Use(mw.ContextEnhancer.EnhanceContext)
	r.Use(mw.Global.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimiter.Limit(10, time.Minute))
			r.Post("/clientes/registar", h.Cliente.Registar)
			r.Post("/clientes/login", h.Cliente.Login)
		})
		r.Get("/categorias", h.Catalogo.ListarCategorias)
		r.Get("/livros/{isbn}", h.Catalogo.ObterLivro)
		r.Get("/anuncios", h.Anuncio.Listar)
		r.Get("/anuncios/{id}", h.Anuncio.ObterDetalhe)
		r.Get("/clientes/{clienteId}/avaliacoes", h.Avaliacao.ListarPorCliente)
		r.Get("/clientes/{clienteId}/reputacao", h.Avaliacao.ObterReputacao)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth.RequireAuth)

			r.Get("/clientes/perfil", h.Cliente.ObterPerfil)
			r.Get("/clientes/{id}/perfil", h.Cliente.ObterPerfil)

			r.Post("/anuncios", h.Anuncio.Criar)
			r.Get("/anuncios/meus", h.Anuncio.ListarMeus)
			r.Put("/anuncios/{id}/estado", h.Anuncio.AtualizarEstado)

			r.Put("/favoritos/{anuncioId}", h.Favorito.Alternar)
			r.Get("/favoritos", h.Favorito.ListarMeus)

			r.Route("/conversas", func(r chi.Router) {
				r.Post("/", h.Chat.Iniciar)
				r.Get("/", h.Chat.Listar)
				r.Post("/mensagens", h.Chat.EnviarMensagem)
				r.Get("/{id}/mensagens", h.Chat.ListarMensagens)
			})

			r.Route("/pedidos", func(r chi.Router) {
				r.Post("/", h.Pedido.Criar)
				r.Get("/", h.Pedido.Listar)
				r.Get("/pendente", h.Pedido.ObterPendente)
				r.Put("/{pedidoId}/aceitar", h.Pedido.Aceitar)
				r.Put("/{pedidoId}/rejeitar", h.Pedido.Rejeitar)
				r.Put("/{pedidoId}/cancelar", h.Pedido.Cancelar)
			})

			r.Route("/transacoes", func(r chi.Router) {
				r.Post("/", h.Transacao.Criar)
				r.Get("/registo", h.Transacao.ObterRegisto)
				r.Get("/{transacaoId}", h.Transacao.Obter)
				r.Put("/{transacaoId}/confirmar-rececao", h.Transacao.ConfirmarRececao)
				r.Post("/{transacaoId}/devolucao", h.Transacao.SolicitarDevolucao)
				r.Get("/{transacaoId}/devolucao", h.Transacao.ObterDevolucao)
				r.Put("/{transacaoId}/confirmar-devolucao", h.Transacao.ConfirmarDevolucao)
				r.Put("/{transacaoId}/cancelar", h.Transacao.Cancelar)
			})

			r.Route("/pontos", func(r chi.Router) {
				r.Get("/saldo", h.Pontos.ObterSaldo)
				r.Get("/historico", h.Pontos.ObterHistorico)
			})

			r.Post("/avaliacoes", h.Avaliacao.Criar)

			r.Route("/notificacoes", func(r chi.Router) {
				r.Get("/", h.Notificacao.Listar)
				r.Get("/nao-lidas", h.Notificacao.ContarNaoLidas)
				r.Put("/ler-todas", h.Notificacao.MarcarTodasLidas)
				r.Put("/{notificacaoId}/ler", h.Notificacao.MarcarLida)
			})
		})
	})

	return r
}
