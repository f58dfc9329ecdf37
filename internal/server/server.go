package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"aiapi/internal/config"
	"aiapi/internal/endpoint"
	"aiapi/internal/models"
	"aiapi/internal/prompt"
	"aiapi/internal/request"
)

const (
	maxBodyBytes        = 1 << 20 // 1 MiB
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 45 * time.Second
	idleTimeout         = 120 * time.Second
)

// Server exposes prompt composition and request construction over HTTP.
// It never contacts the provider and never returns the raw credential.
type Server struct {
	cfg     config.Config
	builder *request.Builder
	app     *echo.Echo
	address string
}

// New constructs an HTTP server wired with routing and middleware.
func New(cfg config.Config, builder *request.Builder) (*Server, error) {
	if builder == nil {
		return nil, errors.New("request builder must not be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; form-action 'none'",
	}))

	srv := &Server{
		cfg:     cfg,
		builder: builder,
		app:     e,
		address: fmt.Sprintf(":%d", cfg.Server.Port),
	}

	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the routed echo instance, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	printStartupBanner(s.cfg.Server.Port)
	slog.Info("starting server", "addr", s.address)

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		slog.Info("server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.app.GET("/health", s.handleHealth)
	s.app.POST("/v1/prompts/compose", s.handleCompose)
	s.app.POST("/v1/prompts/goal-tree", s.handleGoalTree)
	s.app.POST("/v1/requests/chat", s.handleChatRequest)
	s.app.POST("/v1/requests/completion", s.handleCompletionRequest)
	s.app.GET("/v1/requests/models", s.handleModelsRequest)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type promptResponse struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleCompose(c echo.Context) error {
	var p prompt.Prompt
	if err := decodeRequestBody(c, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promptResponse{Prompt: p.Render()})
}

type goalTreeRequest struct {
	Goal string `json:"goal"`
}

func (s *Server) handleGoalTree(c echo.Context) error {
	var req goalTreeRequest
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Goal) == "" {
		return invalidRequest("goal must not be empty")
	}

	text, err := prompt.GoalTree(req.Goal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promptResponse{Prompt: text})
}

type chatRequestBody struct {
	Prompt      *prompt.Prompt   `json:"prompt"`
	Messages    []models.Message `json:"messages"`
	Model       string           `json:"model"`
	Temperature *float64         `json:"temperature"`
	Version     *uint            `json:"version"`
}

func (s *Server) handleChatRequest(c echo.Context) error {
	var req chatRequestBody
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}

	var messages []models.Message
	switch {
	case req.Prompt != nil && len(req.Messages) > 0:
		return invalidRequest("provide either prompt or messages, not both")
	case req.Prompt != nil:
		messages = models.BuildUserMessage(req.Prompt.Render())
	case len(req.Messages) > 0:
		for _, msg := range req.Messages {
			if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
				return invalidRequest(fmt.Sprintf("message role %q must be %q or %q", msg.Role, models.RoleUser, models.RoleAssistant))
			}
		}
		messages = req.Messages
	default:
		return invalidRequest("prompt or messages is required")
	}

	u, err := s.resolve(endpoint.ChatCompletion, req.Version)
	if err != nil {
		return err
	}

	opts := request.ChatDefaults(s.cfg.Chat)
	if req.Model != "" {
		opts = append(opts, request.WithModel(req.Model))
	}
	if req.Temperature != nil {
		opts = append(opts, request.WithTemperature(*req.Temperature))
	}

	spec := s.builder.Chat(u, messages, opts...)
	return c.JSON(http.StatusOK, spec.Redacted())
}

type completionRequestBody struct {
	Prompt    *prompt.Prompt `json:"prompt"`
	MaxTokens *int           `json:"max_tokens"`
	N         *int           `json:"n"`
	Stop      []string       `json:"stop"`
	Version   *uint          `json:"version"`
}

func (s *Server) handleCompletionRequest(c echo.Context) error {
	var req completionRequestBody
	if err := decodeRequestBody(c, &req); err != nil {
		return err
	}
	if req.Prompt == nil {
		return invalidRequest("prompt is required")
	}

	u, err := s.resolve(endpoint.LegacyCompletion, req.Version)
	if err != nil {
		return err
	}

	opts := request.CompletionDefaults(s.cfg.Completion)
	if req.MaxTokens != nil {
		opts = append(opts, request.WithMaxTokens(*req.MaxTokens))
	}
	if req.N != nil {
		opts = append(opts, request.WithN(*req.N))
	}
	if req.Stop != nil {
		opts = append(opts, request.WithStop(req.Stop...))
	}

	spec := s.builder.LegacyCompletion(u, req.Prompt.Render(), opts...)
	return c.JSON(http.StatusOK, spec.Redacted())
}

func (s *Server) handleModelsRequest(c echo.Context) error {
	spec, err := s.builder.Models()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, spec.Redacted())
}

func (s *Server) resolve(kind endpoint.Kind, version *uint) (*url.URL, error) {
	if version == nil {
		return s.builder.Endpoint(kind)
	}
	return endpoint.NewResolver(s.cfg.Provider.BaseURL).Resolve(kind, *version)
}

func decodeRequestBody[T any](c echo.Context, target *T) error {
	req := c.Request()
	defer req.Body.Close()

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)

	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return invalidRequest("request body is required")
		}
		return invalidRequest(fmt.Sprintf("invalid JSON payload: %v", err))
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return invalidRequest("request body must contain a single JSON object")
	}
	return nil
}

type requestError struct {
	Status  int
	Message string
	Type    string
}

func (e requestError) Error() string {
	return e.Message
}

func invalidRequest(message string) requestError {
	return requestError{
		Status:  http.StatusBadRequest,
		Message: message,
		Type:    "invalid_request_error",
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message, errType string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = errType
	return c.JSON(status, payload)
}

func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = writeError(c, reqErr.Status, reqErr.Message, reqErr.Type)
		return
	}

	if errors.Is(err, endpoint.ErrMalformedURL) || errors.Is(err, endpoint.ErrUnknownKind) {
		slog.Error("resolve endpoint", "err", err)
		_ = writeError(c, http.StatusInternalServerError, err.Error(), "configuration_error")
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = writeError(c, he.Code, fmt.Sprint(he.Message), "invalid_request_error")
		return
	}

	slog.Error("unhandled error", "err", err)
	_ = writeError(c, http.StatusInternalServerError, "internal server error", "server_error")
}

func printStartupBanner(port int) {
	host := "127.0.0.1"
	fmt.Println()
	fmt.Println("aiapi preview server ready")
	fmt.Printf("Listening on http://%s:%d\n", host, port)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /v1/prompts/compose")
	fmt.Println("  POST /v1/prompts/goal-tree")
	fmt.Println("  POST /v1/requests/chat")
	fmt.Println("  POST /v1/requests/completion")
	fmt.Println("  GET  /v1/requests/models")
	fmt.Println("Requests are built and returned with the credential redacted; nothing is sent upstream.")
	fmt.Printf("Example:\n  curl http://%s:%d/v1/requests/chat -H 'Content-Type: application/json' -d '{\"prompt\":{\"instruction\":\"hello\"}}'\n\n", host, port)
}
