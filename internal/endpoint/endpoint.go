package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the provider host every endpoint path is appended to.
	DefaultBaseURL = "https://api.openai.com"
	// DefaultVersion is the API version used when callers have no preference.
	DefaultVersion uint = 1
)

// ErrMalformedURL indicates a resolved endpoint could not be parsed as an absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// ErrUnknownKind indicates an endpoint kind outside the supported set.
var ErrUnknownKind = errors.New("unknown endpoint kind")

// Kind identifies the logical target of a call, independent of API version.
type Kind int

const (
	LegacyCompletion Kind = iota
	ChatCompletion
	ModelListing
)

var paths = map[Kind]string{
	LegacyCompletion: "engines/davinci/completions",
	ChatCompletion:   "chat/completions",
	ModelListing:     "models",
}

func (k Kind) String() string {
	switch k {
	case LegacyCompletion:
		return "legacy-completion"
	case ChatCompletion:
		return "chat-completion"
	case ModelListing:
		return "model-listing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the canonical kind names and the short aliases used by
// the endpoint command (completion, davinci, chat, models).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy-completion", "completion", "davinci":
		return LegacyCompletion, nil
	case "chat-completion", "chat":
		return ChatCompletion, nil
	case "model-listing", "models":
		return ModelListing, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MalformedURLError carries the string that failed to parse.
type MalformedURLError struct {
	Raw string
	Err error
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed url %q: %v", e.Raw, e.Err)
}

func (e *MalformedURLError) Unwrap() error {
	return e.Err
}

func (e *MalformedURLError) Is(target error) bool {
	return target == ErrMalformedURL
}

// Resolver maps endpoint kinds and versions onto concrete URLs under a base host.
type Resolver struct {
	baseURL string
}

// NewResolver returns a resolver rooted at baseURL, or DefaultBaseURL when empty.
func NewResolver(baseURL string) *Resolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{baseURL: baseURL}
}

// BaseURL reports the host prefix used for every resolved endpoint.
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// Resolve builds <base>/v<version>/<path-for-kind>.
func (r *Resolver) Resolve(kind Kind, version uint) (*url.URL, error) {
	path, ok := paths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	raw := fmt.Sprintf("%s/v%d/%s", r.baseURL, version, path)
	return parseAbsolute(raw)
}

var defaultResolver = NewResolver(DefaultBaseURL)

// Resolve resolves kind against the default provider host.
func Resolve(kind Kind, version uint) (*url.URL, error) {
	return defaultResolver.Resolve(kind, version)
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &MalformedURLError{Raw: raw, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &MalformedURLError{Raw: raw, Err: errors.New("missing scheme or host")}
	}
	return u, nil
}
