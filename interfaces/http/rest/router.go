// Package rest wires the HTTP surface: route tree, middleware chain and
// operational endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stackmap-backend/infrastructure/config"
	"stackmap-backend/interfaces/http/rest/handlers"
	custommw "stackmap-backend/interfaces/http/rest/middleware"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
	"stackmap-backend/pkg/observability"
)

// Handlers bundles the API handlers the router mounts
type Handlers struct {
	Tools        *handlers.ToolHandler
	Connections  *handlers.ConnectionHandler
	Canvas       *handlers.CanvasHandler
	Comments     *handlers.CommentHandler
	Feed         *handlers.FeedHandler
	Ideas        *handlers.IdeaHandler
	Integrations *handlers.IntegrationHandler
}

// NewRouter builds the chi route tree. Operational endpoints are open;
// everything under /api/v1 requires a valid token.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
	jwtValidator *auth.JWTValidator,
	limiter auth.RateLimiter,
	h Handlers,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Organization-ID", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(custommw.RequestLogger(logger, metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(custommw.Authenticator(jwtValidator, logger))
		if cfg.RateLimit.Enabled {
			api.Use(custommw.RateLimit(limiter))
		}

		api.Route("/projects/{projectID}", func(project chi.Router) {
			project.Get("/tools", h.Tools.GetStack)
			project.Post("/tools", h.Tools.AttachTool)
			project.Delete("/tools/{toolID}", h.Tools.RemoveTool)

			project.Get("/connections", h.Connections.ListConnections)
			project.Post("/connections", h.Connections.CreateConnection)
			project.Delete("/connections/{connectionID}", h.Connections.DeleteConnection)

			project.Get("/canvas", h.Canvas.GetCanvas)
			project.Put("/canvas/positions", h.Canvas.SavePositions)

			project.Route("/chains/{chainID}", func(chain chi.Router) {
				chain.Get("/comments", h.Comments.ListComments)
				chain.Post("/comments", h.Comments.PostComment)
				chain.Delete("/comments/{commentID}", h.Comments.DeleteComment)
				chain.Delete("/tools/{toolID}", h.Connections.RemoveToolFromChain)
			})
		})

		api.Get("/applications/library", h.Tools.ListApplications)

		api.Route("/feed/posts", func(feed chi.Router) {
			feed.Get("/", h.Feed.ListFeed)
			feed.Post("/", h.Feed.CreatePost)
			feed.Post("/{postID}/votes", h.Feed.VotePoll)
			feed.Delete("/{postID}", h.Feed.DeletePost)
		})

		api.Route("/board/ideas", func(board chi.Router) {
			board.Get("/", h.Ideas.ListIdeas)
			board.Post("/", h.Ideas.SubmitIdea)
			board.Post("/{ideaID}/review", h.Ideas.ReviewIdea)
		})

		api.Route("/integrations/{provider}", func(integration chi.Router) {
			integration.Get("/", h.Integrations.Status)
			integration.Get("/connect", h.Integrations.Connect)
			integration.Get("/callback", h.Integrations.Callback)
			integration.Delete("/", h.Integrations.Disconnect)
		})
	})

	return r
}
