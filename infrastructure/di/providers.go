// Package di wires the application together: providers for every
// dependency plus a container the entrypoints consume.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stackmap-backend/application/commands"
	cmdbus "stackmap-backend/application/commands/bus"
	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	querybus "stackmap-backend/application/queries/bus"
	queryhandlers "stackmap-backend/application/queries/handlers"
	"stackmap-backend/infrastructure/config"
	"stackmap-backend/infrastructure/messaging/eventbridge"
	"stackmap-backend/infrastructure/persistence/dynamodb"
	"stackmap-backend/infrastructure/persistence/memory"
	"stackmap-backend/interfaces/http/rest"
	"stackmap-backend/interfaces/http/rest/handlers"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/integrations"
	"stackmap-backend/pkg/observability"
)

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideCollector creates the shared metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("stackmap")
}

// ProvideAWSConfig loads the AWS SDK configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. A configured endpoint
// points local development at DynamoDB Local or LocalStack.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config, cfg *config.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg, func(o *awseventbridge.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
}

// ProvideStackRepository creates the stack repository. Development runs
// against the in-memory store so no AWS resources are required.
func ProvideStackRepository(cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Collector, logger *zap.Logger) ports.StackRepository {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewStackRepository()
	}
	return dynamodb.NewStackRepository(client, cfg.AWS.TableName, metrics, logger)
}

// ProvidePostRepository creates the feed post repository
func ProvidePostRepository(cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Collector, logger *zap.Logger) ports.PostRepository {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewPostRepository()
	}
	return dynamodb.NewPostRepository(client, cfg.AWS.TableName, metrics, logger)
}

// ProvideIdeaRepository creates the idea repository
func ProvideIdeaRepository(cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Collector, logger *zap.Logger) ports.IdeaRepository {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewIdeaRepository()
	}
	return dynamodb.NewIdeaRepository(client, cfg.AWS.TableName, metrics, logger)
}

// ProvideCommentRepository creates the chain comment repository
func ProvideCommentRepository(cfg *config.Config, client *awsdynamodb.Client, metrics *observability.Collector, logger *zap.Logger) ports.CommentRepository {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewCommentRepository()
	}
	return dynamodb.NewCommentRepository(client, cfg.AWS.TableName, metrics, logger)
}

// ProvideIntegrationRepository creates the integration credential store
func ProvideIntegrationRepository(cfg *config.Config, client *awsdynamodb.Client) ports.IntegrationRepository {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewIntegrationRepository()
	}
	return dynamodb.NewIntegrationRepository(client, cfg.AWS.TableName)
}

// ProvideCatalog creates the application catalog
func ProvideCatalog() ports.ApplicationCatalog {
	return memory.NewCatalog()
}

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.Environment == config.EnvDevelopment {
		return memory.NewEventPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.AWS.EventBusName, logger)
}

// ProvideJWTValidator creates the token validator. Development falls
// back to a fixed secret; production requires one via config validation.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = "local-development-secret"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.Auth.JWTIssuer,
		Audience:      []string{cfg.Auth.JWTAudience},
	})
}

// ProvideRateLimiter creates the per-user request rate limiter
func ProvideRateLimiter(cfg *config.Config) auth.RateLimiter {
	return auth.NewUserRateLimiter(cfg.RateLimit.RequestsPerMinute)
}

// ProvideIntegrationsClient creates the OAuth client for chat providers
func ProvideIntegrationsClient(cfg *config.Config, logger *zap.Logger) *integrations.Client {
	providers := map[integrations.Provider]integrations.ProviderConfig{
		integrations.ProviderSlack: {
			ClientID:     cfg.Slack.ClientID,
			ClientSecret: cfg.Slack.ClientSecret,
			AuthorizeURL: "https://slack.com/oauth/v2/authorize",
			TokenURL:     "https://slack.com/api/oauth.v2.access",
			Scopes:       []string{"chat:write", "channels:read"},
		},
		integrations.ProviderTeams: {
			ClientID:     cfg.Teams.ClientID,
			ClientSecret: cfg.Teams.ClientSecret,
			AuthorizeURL: "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
			TokenURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/token",
			Scopes:       []string{"https://graph.microsoft.com/.default"},
		},
	}
	return integrations.NewClient(providers, logger)
}

// ProvideRedirectURIs maps each provider to its configured redirect URI
func ProvideRedirectURIs(cfg *config.Config) map[integrations.Provider]string {
	return map[integrations.Provider]string{
		integrations.ProviderSlack: cfg.Slack.RedirectURI,
		integrations.ProviderTeams: cfg.Teams.RedirectURI,
	}
}

// ProvideCommandBus creates the command bus with every state-changing
// handler registered behind the logging middleware.
func ProvideCommandBus(
	stackRepo ports.StackRepository,
	postRepo ports.PostRepository,
	ideaRepo ports.IdeaRepository,
	commentRepo ports.CommentRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*cmdbus.CommandBus, error) {
	commandBus := cmdbus.NewCommandBus()
	logging := cmdbus.LoggingMiddleware(logger)

	removeTool := commands.NewRemoveToolHandler(stackRepo, publisher, metrics, logger)
	deleteConn := commands.NewDeleteConnectionHandler(stackRepo, publisher, metrics, logger)
	detachTool := commands.NewRemoveToolFromChainHandler(stackRepo, publisher, metrics, logger)
	savePositions := commands.NewSaveNodePositionsHandler(stackRepo)
	votePoll := commands.NewVotePollHandler(postRepo)
	deletePost := commands.NewDeletePostHandler(postRepo)
	reviewIdea := commands.NewReviewIdeaHandler(ideaRepo, publisher, metrics, logger)
	deleteComment := commands.NewDeleteCommentHandler(commentRepo)

	registrations := []struct {
		cmdType cmdbus.Command
		handle  func(context.Context, cmdbus.Command) error
	}{
		{commands.RemoveToolCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return removeTool.Handle(ctx, cmd.(commands.RemoveToolCommand))
		}},
		{commands.DeleteConnectionCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return deleteConn.Handle(ctx, cmd.(commands.DeleteConnectionCommand))
		}},
		{commands.RemoveToolFromChainCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return detachTool.Handle(ctx, cmd.(commands.RemoveToolFromChainCommand))
		}},
		{commands.SaveNodePositionsCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return savePositions.Handle(ctx, cmd.(commands.SaveNodePositionsCommand))
		}},
		{commands.VotePollCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return votePoll.Handle(ctx, cmd.(commands.VotePollCommand))
		}},
		{commands.DeletePostCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return deletePost.Handle(ctx, cmd.(commands.DeletePostCommand))
		}},
		{commands.ReviewIdeaCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return reviewIdea.Handle(ctx, cmd.(commands.ReviewIdeaCommand))
		}},
		{commands.DeleteCommentCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
			return deleteComment.Handle(ctx, cmd.(commands.DeleteCommentCommand))
		}},
	}

	for _, reg := range registrations {
		handler := cmdbus.Wrap(cmdbus.CommandHandlerFunc(reg.handle), logging)
		if err := commandBus.Register(reg.cmdType, handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus with every read handler
// registered behind the metrics middleware.
func ProvideQueryBus(
	stackRepo ports.StackRepository,
	postRepo ports.PostRepository,
	ideaRepo ports.IdeaRepository,
	commentRepo ports.CommentRepository,
	catalog ports.ApplicationCatalog,
	metrics *observability.Collector,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	mw := querybus.NewMetricsMiddleware(metrics)

	registrations := []struct {
		queryType querybus.Query
		handler   querybus.QueryHandler
	}{
		{queries.GetStackQuery{}, queryhandlers.NewGetStackHandler(stackRepo)},
		{queries.GetCanvasQuery{}, queryhandlers.NewGetCanvasHandler(stackRepo)},
		{queries.ListFeedQuery{}, queryhandlers.NewListFeedHandler(postRepo)},
		{queries.ListIdeasQuery{}, queryhandlers.NewListIdeasHandler(ideaRepo)},
		{queries.GetChainCommentsQuery{}, queryhandlers.NewGetChainCommentsHandler(commentRepo)},
		{queries.ListApplicationsQuery{}, queryhandlers.NewListApplicationsHandler(catalog)},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.queryType, mw.Wrap(reg.handler)); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// ProvideHandlers builds the REST handler bundle
func ProvideHandlers(
	stackRepo ports.StackRepository,
	postRepo ports.PostRepository,
	ideaRepo ports.IdeaRepository,
	commentRepo ports.CommentRepository,
	integrationRepo ports.IntegrationRepository,
	catalog ports.ApplicationCatalog,
	publisher ports.EventPublisher,
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	integrationsClient *integrations.Client,
	redirectURIs map[integrations.Provider]string,
	metrics *observability.Collector,
	logger *zap.Logger,
) rest.Handlers {
	return rest.Handlers{
		Tools: handlers.NewToolHandler(
			commands.NewAttachToolHandler(stackRepo, catalog, publisher, metrics, logger),
			commandBus, queryBus, logger),
		Connections: handlers.NewConnectionHandler(
			commands.NewCreateConnectionHandler(stackRepo, publisher, metrics, logger),
			commandBus, queryBus, logger),
		Canvas: handlers.NewCanvasHandler(commandBus, queryBus, logger),
		Comments: handlers.NewCommentHandler(
			commands.NewPostChainCommentHandler(commentRepo),
			commandBus, queryBus, logger),
		Feed: handlers.NewFeedHandler(
			commands.NewCreatePostHandler(postRepo, publisher, metrics, logger),
			commandBus, queryBus, logger),
		Ideas: handlers.NewIdeaHandler(
			commands.NewSubmitIdeaHandler(ideaRepo),
			commandBus, queryBus, logger),
		Integrations: handlers.NewIntegrationHandler(
			integrationsClient, integrationRepo, redirectURIs, logger),
	}
}

// ProvideRouter builds the HTTP route tree
func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
	jwtValidator *auth.JWTValidator,
	limiter auth.RateLimiter,
	h rest.Handlers,
) *chi.Mux {
	return rest.NewRouter(cfg, logger, metrics, jwtValidator, limiter, h)
}
