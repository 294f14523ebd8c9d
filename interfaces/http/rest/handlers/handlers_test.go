package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackmap-backend/application/commands"
	cmdbus "stackmap-backend/application/commands/bus"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	queryhandlers "stackmap-backend/application/queries/handlers"
	"stackmap-backend/domain/canvas"
	"stackmap-backend/infrastructure/persistence/memory"
	"stackmap-backend/interfaces/http/rest/handlers"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
	"stackmap-backend/pkg/observability"
)

type testEnv struct {
	router    *chi.Mux
	stackRepo *memory.StackRepository
	publisher *memory.EventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewCollector("test")
	stackRepo := memory.NewStackRepository()
	catalog := memory.NewCatalog()
	publisher := memory.NewEventPublisher()
	postRepo := memory.NewPostRepository()
	ideaRepo := memory.NewIdeaRepository()
	commentRepo := memory.NewCommentRepository()

	queryBus := bus.NewQueryBus()
	mw := bus.NewMetricsMiddleware(metrics)
	require.NoError(t, queryBus.Register(queries.GetStackQuery{}, mw.Wrap(queryhandlers.NewGetStackHandler(stackRepo))))
	require.NoError(t, queryBus.Register(queries.GetCanvasQuery{}, mw.Wrap(queryhandlers.NewGetCanvasHandler(stackRepo))))
	require.NoError(t, queryBus.Register(queries.ListFeedQuery{}, mw.Wrap(queryhandlers.NewListFeedHandler(postRepo))))
	require.NoError(t, queryBus.Register(queries.ListIdeasQuery{}, mw.Wrap(queryhandlers.NewListIdeasHandler(ideaRepo))))
	require.NoError(t, queryBus.Register(queries.GetChainCommentsQuery{}, mw.Wrap(queryhandlers.NewGetChainCommentsHandler(commentRepo))))
	require.NoError(t, queryBus.Register(queries.ListApplicationsQuery{}, mw.Wrap(queryhandlers.NewListApplicationsHandler(catalog))))

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

	register := func(cmdType cmdbus.Command, handle func(context.Context, cmdbus.Command) error) {
		require.NoError(t, commandBus.Register(cmdType,
			cmdbus.Wrap(cmdbus.CommandHandlerFunc(handle), logging)))
	}
	register(commands.RemoveToolCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return removeTool.Handle(ctx, cmd.(commands.RemoveToolCommand))
	})
	register(commands.DeleteConnectionCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return deleteConn.Handle(ctx, cmd.(commands.DeleteConnectionCommand))
	})
	register(commands.RemoveToolFromChainCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return detachTool.Handle(ctx, cmd.(commands.RemoveToolFromChainCommand))
	})
	register(commands.SaveNodePositionsCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return savePositions.Handle(ctx, cmd.(commands.SaveNodePositionsCommand))
	})
	register(commands.VotePollCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return votePoll.Handle(ctx, cmd.(commands.VotePollCommand))
	})
	register(commands.DeletePostCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return deletePost.Handle(ctx, cmd.(commands.DeletePostCommand))
	})
	register(commands.ReviewIdeaCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return reviewIdea.Handle(ctx, cmd.(commands.ReviewIdeaCommand))
	})
	register(commands.DeleteCommentCommand{}, func(ctx context.Context, cmd cmdbus.Command) error {
		return deleteComment.Handle(ctx, cmd.(commands.DeleteCommentCommand))
	})

	tools := handlers.NewToolHandler(
		commands.NewAttachToolHandler(stackRepo, catalog, publisher, metrics, logger),
		commandBus, queryBus, logger)
	connections := handlers.NewConnectionHandler(
		commands.NewCreateConnectionHandler(stackRepo, publisher, metrics, logger),
		commandBus, queryBus, logger)
	canvasHandler := handlers.NewCanvasHandler(commandBus, queryBus, logger)
	comments := handlers.NewCommentHandler(
		commands.NewPostChainCommentHandler(commentRepo),
		commandBus, queryBus, logger)
	feed := handlers.NewFeedHandler(
		commands.NewCreatePostHandler(postRepo, publisher, metrics, logger),
		commandBus, queryBus, logger)
	ideas := handlers.NewIdeaHandler(
		commands.NewSubmitIdeaHandler(ideaRepo),
		commandBus, queryBus, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userID := req.Header.Get("X-Test-User")
			if userID == "" {
				userID = "user-1"
			}
			user := &auth.UserContext{UserID: userID, OrganizationID: "org-1"}
			next.ServeHTTP(w, req.WithContext(auth.SetUserInContext(req.Context(), user)))
		})
	})

	r.Route("/projects/{projectID}", func(project chi.Router) {
		project.Get("/tools", tools.GetStack)
		project.Post("/tools", tools.AttachTool)
		project.Delete("/tools/{toolID}", tools.RemoveTool)
		project.Get("/connections", connections.ListConnections)
		project.Post("/connections", connections.CreateConnection)
		project.Delete("/connections/{connectionID}", connections.DeleteConnection)
		project.Get("/canvas", canvasHandler.GetCanvas)
		project.Put("/canvas/positions", canvasHandler.SavePositions)
		project.Route("/chains/{chainID}", func(chain chi.Router) {
			chain.Get("/comments", comments.ListComments)
			chain.Post("/comments", comments.PostComment)
			chain.Delete("/comments/{commentID}", comments.DeleteComment)
			chain.Delete("/tools/{toolID}", connections.RemoveToolFromChain)
		})
	})
	r.Get("/applications/library", tools.ListApplications)
	r.Route("/feed/posts", func(fr chi.Router) {
		fr.Get("/", feed.ListFeed)
		fr.Post("/", feed.CreatePost)
		fr.Post("/{postID}/votes", feed.VotePoll)
		fr.Delete("/{postID}", feed.DeletePost)
	})
	r.Route("/board/ideas", func(br chi.Router) {
		br.Get("/", ideas.ListIdeas)
		br.Post("/", ideas.SubmitIdea)
		br.Post("/{ideaID}/review", ideas.ReviewIdea)
	})

	return &testEnv{router: r, stackRepo: stackRepo, publisher: publisher}
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *common.ErrorInfo `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func (e *testEnv) attachTool(t *testing.T, project, applicationID string) queries.ToolView {
	t.Helper()

	rec, env := e.do(t, http.MethodPost, "/projects/"+project+"/tools",
		map[string]interface{}{"application_id": applicationID})
	require.Equal(t, http.StatusCreated, rec.Code, "attach %s: %s", applicationID, rec.Body.String())

	var tool queries.ToolView
	require.NoError(t, json.Unmarshal(env.Data, &tool))
	return tool
}

func (e *testEnv) connect(t *testing.T, project string, body map[string]interface{}) queries.ConnectionView {
	t.Helper()

	rec, env := e.do(t, http.MethodPost, "/projects/"+project+"/connections", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var conn queries.ConnectionView
	require.NoError(t, json.Unmarshal(env.Data, &conn))
	return conn
}

func TestToolEndpoints(t *testing.T) {
	env := newTestEnv(t)

	tool := env.attachTool(t, "proj-1", "github")
	assert.Equal(t, "GitHub", tool.Name, "catalog should fill in the name")
	assert.Equal(t, "engineering", tool.Category)
	assert.Equal(t, "active", tool.Status)
	assert.Equal(t, "user-1", tool.AddedBy)

	rec, _ := env.do(t, http.MethodPost, "/projects/proj-1/tools",
		map[string]interface{}{"application_id": "github"})
	assert.Equal(t, http.StatusConflict, rec.Code, "same application twice")

	rec, envl := env.do(t, http.MethodGet, "/projects/proj-1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stack queries.StackView
	require.NoError(t, json.Unmarshal(envl.Data, &stack))
	require.Len(t, stack.Tools, 1)
	assert.Equal(t, tool.ID, stack.Tools[0].ID)

	rec, _ = env.do(t, http.MethodDelete, "/projects/proj-1/tools/"+tool.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envl = env.do(t, http.MethodGet, "/projects/proj-1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(envl.Data, &stack))
	assert.Empty(t, stack.Tools)
}

func TestListApplications(t *testing.T) {
	env := newTestEnv(t)

	rec, envl := env.do(t, http.MethodGet, "/applications/library?q=communication", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list queries.ApplicationList
	require.NoError(t, json.Unmarshal(envl.Data, &list))
	names := make([]string, 0, len(list.Applications))
	for _, app := range list.Applications {
		names = append(names, app.Name)
	}
	assert.Contains(t, names, "Slack")
	assert.Contains(t, names, "Microsoft Teams")
}

func TestConnectionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.attachTool(t, "proj-1", "github")
	env.attachTool(t, "proj-1", "slack")

	conn := env.connect(t, "proj-1", map[string]interface{}{
		"source_id": "github",
		"target_id": "slack",
		"label":     "notifies",
	})
	assert.Equal(t, conn.ID, conn.ChainID, "first connection starts its own chain")
	assert.Equal(t, "notifies", conn.Label)

	rec, _ := env.do(t, http.MethodPost, "/projects/proj-1/connections", map[string]interface{}{
		"source_id": "github",
		"target_id": "slack",
		"chain_id":  conn.ChainID,
		"extend":    true,
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "duplicate pair in the same chain")

	rec, _ = env.do(t, http.MethodPost, "/projects/proj-1/connections", map[string]interface{}{
		"source_id": "github",
		"target_id": "unknown-app",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, "endpoint must be an attached tool")

	rec, envc := env.do(t, http.MethodGet, "/projects/proj-1/connections", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Connections []queries.ConnectionView `json:"connections"`
	}
	require.NoError(t, json.Unmarshal(envc.Data, &listed))
	require.Len(t, listed.Connections, 1)
	assert.Equal(t, conn.ID, listed.Connections[0].ID)

	rec, _ = env.do(t, http.MethodDelete, "/projects/proj-1/connections/"+conn.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envl := env.do(t, http.MethodGet, "/projects/proj-1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stack queries.StackView
	require.NoError(t, json.Unmarshal(envl.Data, &stack))
	assert.Empty(t, stack.Connections)
}

func TestConnectionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.attachTool(t, "proj-1", "github")

	rec, _ := env.do(t, http.MethodPost, "/projects/proj-1/connections", map[string]interface{}{
		"source_id": "github",
		"target_id": "github",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "self loop rejected before dispatch")

	rec, _ = env.do(t, http.MethodPost, "/projects/proj-1/connections", map[string]interface{}{
		"source_id": "github",
		"target_id": "slack",
		"extend":    true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "extend requires a chain ID")
}

func TestCanvasEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.attachTool(t, "proj-1", "github")
	env.attachTool(t, "proj-1", "slack")
	conn := env.connect(t, "proj-1", map[string]interface{}{
		"source_id": "github",
		"target_id": "slack",
	})

	rec, envl := env.do(t, http.MethodGet, "/projects/proj-1/canvas", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view queries.CanvasView
	require.NoError(t, json.Unmarshal(envl.Data, &view))
	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	require.Len(t, view.Chains, 1)
	assert.Equal(t, canvas.CanvasWidth, view.CanvasWidth)
	assert.Equal(t, canvas.CanvasHeight, view.CanvasHeight)

	nodeID := fmt.Sprintf("%s:%s", conn.ChainID, "github")
	rec, _ = env.do(t, http.MethodPut, "/projects/proj-1/canvas/positions", map[string]interface{}{
		"positions": []map[string]interface{}{
			{"node_id": nodeID, "x": 40.0, "y": 60.0},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, envl = env.do(t, http.MethodGet, "/projects/proj-1/canvas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(envl.Data, &view))

	var found bool
	for _, node := range view.Nodes {
		if node.ID == nodeID {
			found = true
			assert.Equal(t, 40.0, node.X)
			assert.Equal(t, 60.0, node.Y)
		}
	}
	assert.True(t, found, "dragged node should keep its saved position")
}

func TestRemoveToolFromChain(t *testing.T) {
	env := newTestEnv(t)
	env.attachTool(t, "proj-1", "github")
	slack := env.attachTool(t, "proj-1", "slack")
	env.attachTool(t, "proj-1", "jira")

	first := env.connect(t, "proj-1", map[string]interface{}{
		"source_id": "github",
		"target_id": "slack",
	})
	env.connect(t, "proj-1", map[string]interface{}{
		"source_id": "slack",
		"target_id": "jira",
		"chain_id":  first.ChainID,
		"extend":    true,
	})

	path := fmt.Sprintf("/projects/proj-1/chains/%s/tools/%s", first.ChainID, slack.ID)
	rec, _ := env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, envl := env.do(t, http.MethodGet, "/projects/proj-1/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stack queries.StackView
	require.NoError(t, json.Unmarshal(envl.Data, &stack))
	assert.Len(t, stack.Tools, 3, "tool itself stays attached")
	assert.Empty(t, stack.Connections, "both chain connections involved the tool")

	rec, _ = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "nothing left to remove")
}

func TestFeedEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/feed/posts", map[string]interface{}{
		"kind": "note",
		"body": "shipping the canvas this week",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, envl := env.do(t, http.MethodPost, "/feed/posts", map[string]interface{}{
		"kind":    "poll",
		"body":    "which integration next?",
		"options": []string{"Slack", "Teams"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var poll queries.PostView
	require.NoError(t, json.Unmarshal(envl.Data, &poll))
	require.Len(t, poll.Options, 2)

	rec, envl = env.do(t, http.MethodGet, "/feed/posts?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page queries.FeedPage
	require.NoError(t, json.Unmarshal(envl.Data, &page))
	assert.Equal(t, 2, page.TotalCount)

	votePath := "/feed/posts/" + poll.ID + "/votes"
	rec, _ = env.do(t, http.MethodPost, votePath, map[string]interface{}{
		"option_id": poll.Options[0].ID,
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodPost, votePath, map[string]interface{}{
		"option_id": poll.Options[1].ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "one vote per user")

	rec, _ = env.do(t, http.MethodPost, "/feed/posts/missing/votes", map[string]interface{}{
		"option_id": poll.Options[0].ID,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)

	rec, envl := env.do(t, http.MethodPost, "/feed/posts", map[string]interface{}{
		"kind": "note",
		"body": "draft announcement",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post queries.PostView
	require.NoError(t, json.Unmarshal(envl.Data, &post))

	rec, _ = env.do(t, http.MethodDelete, "/feed/posts/"+post.ID, nil,
		map[string]string{"X-Test-User": "user-2"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the author may delete")

	rec, _ = env.do(t, http.MethodDelete, "/feed/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envl = env.do(t, http.MethodGet, "/feed/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page queries.FeedPage
	require.NoError(t, json.Unmarshal(envl.Data, &page))
	assert.Zero(t, page.TotalCount)
}

func TestIdeaEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, envl := env.do(t, http.MethodPost, "/board/ideas", map[string]interface{}{
		"title": "Consolidate chat tools",
		"body":  "We pay for both Slack and Teams.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var idea queries.IdeaView
	require.NoError(t, json.Unmarshal(envl.Data, &idea))
	assert.Equal(t, "submitted", idea.Status)

	reviewPath := "/board/ideas/" + idea.ID + "/review"
	rec, _ = env.do(t, http.MethodPost, reviewPath, map[string]interface{}{
		"decision": "approve",
		"note":     "makes sense",
	}, map[string]string{"X-Test-User": "reviewer-1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodPost, reviewPath, map[string]interface{}{
		"decision": "reject",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "decision is terminal")

	rec, envl = env.do(t, http.MethodGet, "/board/ideas?status=approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page queries.IdeaPage
	require.NoError(t, json.Unmarshal(envl.Data, &page))
	require.Len(t, page.Ideas, 1)
	assert.Equal(t, "reviewer-1", page.Ideas[0].ReviewerID)
	assert.NotEmpty(t, page.Ideas[0].ReviewedAt)
}

func TestCommentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	base := "/projects/proj-1/chains/chain-1/comments"

	rec, envl := env.do(t, http.MethodPost, base, map[string]interface{}{
		"body": "this chain needs an owner",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var comment queries.CommentView
	require.NoError(t, json.Unmarshal(envl.Data, &comment))
	assert.Equal(t, "user-1", comment.AuthorID)

	rec, envl = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list queries.CommentList
	require.NoError(t, json.Unmarshal(envl.Data, &list))
	require.Len(t, list.Comments, 1)

	rec, _ = env.do(t, http.MethodDelete, base+"/"+comment.ID, nil,
		map[string]string{"X-Test-User": "user-2"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the author may delete")

	rec, _ = env.do(t, http.MethodDelete, base+"/"+comment.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envl = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(envl.Data, &list))
	assert.Empty(t, list.Comments)
}

func TestRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, envl := env.do(t, http.MethodPost, "/projects/proj-1/tools",
		map[string]interface{}{"name": "No App"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envl.Error)
	assert.Equal(t, common.StandardErrorCodes.ValidationError, envl.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/projects/proj-1/tools", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec2 := httptest.NewRecorder()
	env.router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)

	rec, _ = env.do(t, http.MethodPost, "/feed/posts", map[string]interface{}{
		"kind": "poll",
		"body": "missing options",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
