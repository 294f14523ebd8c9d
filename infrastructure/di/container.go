package di

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	cmdbus "stackmap-backend/application/commands/bus"
	"stackmap-backend/application/ports"
	querybus "stackmap-backend/application/queries/bus"
	"stackmap-backend/infrastructure/config"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/observability"
)

// Container holds the wired application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Collector
	StackRepo       ports.StackRepository
	PostRepo        ports.PostRepository
	IdeaRepo        ports.IdeaRepository
	CommentRepo     ports.CommentRepository
	IntegrationRepo ports.IntegrationRepository
	Catalog         ports.ApplicationCatalog
	Publisher       ports.EventPublisher
	CommandBus      *cmdbus.CommandBus
	QueryBus        *querybus.QueryBus
	JWTValidator    *auth.JWTValidator
	RateLimiter     auth.RateLimiter
	Router          *chi.Mux
}

// NewContainer wires the application by hand. It mirrors the wire
// provider set so the two stay interchangeable.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	metrics := ProvideCollector()

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dynamoClient := ProvideDynamoDBClient(awsCfg, cfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg, cfg)

	stackRepo := ProvideStackRepository(cfg, dynamoClient, metrics, logger)
	postRepo := ProvidePostRepository(cfg, dynamoClient, metrics, logger)
	ideaRepo := ProvideIdeaRepository(cfg, dynamoClient, metrics, logger)
	commentRepo := ProvideCommentRepository(cfg, dynamoClient, metrics, logger)
	integrationRepo := ProvideIntegrationRepository(cfg, dynamoClient)
	catalog := ProvideCatalog()
	publisher := ProvideEventPublisher(cfg, eventBridgeClient, logger)

	commandBus, err := ProvideCommandBus(stackRepo, postRepo, ideaRepo, commentRepo, publisher, metrics, logger)
	if err != nil {
		return nil, err
	}
	queryBus, err := ProvideQueryBus(stackRepo, postRepo, ideaRepo, commentRepo, catalog, metrics)
	if err != nil {
		return nil, err
	}

	jwtValidator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, err
	}
	limiter := ProvideRateLimiter(cfg)

	integrationsClient := ProvideIntegrationsClient(cfg, logger)
	redirectURIs := ProvideRedirectURIs(cfg)

	h := ProvideHandlers(stackRepo, postRepo, ideaRepo, commentRepo, integrationRepo,
		catalog, publisher, commandBus, queryBus, integrationsClient, redirectURIs, metrics, logger)
	router := ProvideRouter(cfg, logger, metrics, jwtValidator, limiter, h)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Metrics:         metrics,
		StackRepo:       stackRepo,
		PostRepo:        postRepo,
		IdeaRepo:        ideaRepo,
		CommentRepo:     commentRepo,
		IntegrationRepo: integrationRepo,
		Catalog:         catalog,
		Publisher:       publisher,
		CommandBus:      commandBus,
		QueryBus:        queryBus,
		JWTValidator:    jwtValidator,
		RateLimiter:     limiter,
		Router:          router,
	}, nil
}
