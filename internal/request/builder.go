package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"aiapi/internal/config"
	"aiapi/internal/credential"
	"aiapi/internal/endpoint"
	"aiapi/internal/models"
	"aiapi/internal/prompt"
)

const contentTypeJSON = "application/json"

// Builder turns request intent into fully formed RequestSpecs. It keeps no
// per-request state; the credential is read from its Source on every call.
type Builder struct {
	creds    credential.Source
	resolver *endpoint.Resolver
	version  uint
	headers  []models.Header
}

// New creates a Builder addressing the provider described by cfg.
func New(creds credential.Source, cfg config.ProviderConfig) (*Builder, error) {
	if creds == nil {
		return nil, errors.New("credential source must not be nil")
	}
	if err := cfg.Headers.Validate(); err != nil {
		return nil, fmt.Errorf("extra headers: %w", err)
	}

	extra := make([]models.Header, 0, len(cfg.Headers))
	for k, v := range cfg.Headers {
		extra = append(extra, models.Header{Key: http.CanonicalHeaderKey(k), Value: v})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Key < extra[j].Key })

	return &Builder{
		creds:    creds,
		resolver: endpoint.NewResolver(cfg.BaseURL),
		version:  cfg.APIVersion,
		headers:  extra,
	}, nil
}

// Endpoint resolves kind at the configured API version.
func (b *Builder) Endpoint(kind endpoint.Kind) (*url.URL, error) {
	return b.resolver.Resolve(kind, b.version)
}

// Models builds the GET request listing the provider's models.
func (b *Builder) Models() (models.RequestSpec, error) {
	u, err := b.Endpoint(endpoint.ModelListing)
	if err != nil {
		return models.RequestSpec{}, fmt.Errorf("resolve models endpoint: %w", err)
	}
	return b.Build(http.MethodGet, u, nil), nil
}

type completionPayload struct {
	Prompt    string   `json:"prompt"`
	MaxTokens int      `json:"max_tokens"`
	N         int      `json:"n"`
	Stop      []string `json:"stop"`
}

// LegacyCompletion builds a POST against a prompt-style completion endpoint.
// Without options the body asks for 50 tokens, one choice, stopping at "\n".
func (b *Builder) LegacyCompletion(u *url.URL, text string, opts ...CompletionOption) models.RequestSpec {
	params := completionParams{
		maxTokens: DefaultMaxTokens,
		n:         DefaultN,
		stop:      defaultStop(),
	}
	for _, opt := range opts {
		opt(&params)
	}

	stop := params.stop
	if stop == nil {
		stop = []string{}
	}

	return b.Build(http.MethodPost, u, completionPayload{
		Prompt:    text,
		MaxTokens: params.maxTokens,
		N:         params.n,
		Stop:      stop,
	})
}

type chatPayload struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
}

// Chat builds a POST against a chat completion endpoint.
// Without options the body uses gpt-3.5-turbo at temperature 0.7.
func (b *Builder) Chat(u *url.URL, messages []models.Message, opts ...ChatOption) models.RequestSpec {
	params := chatParams{
		model:       DefaultModel,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(&params)
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return b.Build(http.MethodPost, u, chatPayload{
		Model:       params.model,
		Messages:    messages,
		Temperature: params.temperature,
	})
}

// GoalTree builds the chat request asking the model to decompose goal into a task tree.
func (b *Builder) GoalTree(goal string, opts ...ChatOption) (models.RequestSpec, error) {
	u, err := b.Endpoint(endpoint.ChatCompletion)
	if err != nil {
		return models.RequestSpec{}, fmt.Errorf("resolve chat endpoint: %w", err)
	}

	text, err := prompt.GoalTree(goal)
	if err != nil {
		return models.RequestSpec{}, err
	}

	return b.Chat(u, models.BuildUserMessage(text), opts...), nil
}

// Build assembles a request with the standard headers. A nil payload produces
// no body. A payload that cannot be encoded also produces no body: the failure
// is logged and the spec is still returned with its URL, method and headers intact.
func (b *Builder) Build(method string, u *url.URL, payload any) models.RequestSpec {
	spec := models.RequestSpec{
		URL:     cloneURL(u),
		Method:  method,
		Headers: b.newHeaders(),
	}

	if payload == nil {
		return spec
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("encode request body", "method", method, "url", spec.URL, "err", err)
		return spec
	}
	spec.Body = body
	return spec
}

func (b *Builder) newHeaders() []models.Header {
	headers := make([]models.Header, 0, 2+len(b.headers))
	headers = append(headers,
		models.Header{Key: "Authorization", Value: "Bearer " + b.creds.Secret()},
		models.Header{Key: "Content-Type", Value: contentTypeJSON},
	)
	return append(headers, b.headers...)
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
