package models

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Role tags who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged unit of chat input.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// BuildUserMessage seeds a conversation with one user message.
func BuildUserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// BuildAssistantMessage seeds a conversation with one assistant message.
func BuildAssistantMessage(content string) []Message {
	return []Message{{Role: RoleAssistant, Content: content}}
}

// Header is a single HTTP header; RequestSpec keeps them in insertion order.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RequestSpec is the transport-agnostic description of one HTTP call.
// Body is nil for requests without a payload and for payloads that could not be encoded.
type RequestSpec struct {
	URL     *url.URL
	Method  string
	Headers []Header
	Body    []byte
}

// Header returns the first value stored under key, compared case-insensitively.
func (r RequestSpec) Header(key string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}

const redactedCredential = "Bearer ***"

// Redacted returns a copy whose Authorization header no longer carries the credential.
func (r RequestSpec) Redacted() RequestSpec {
	headers := make([]Header, len(r.Headers))
	for i, h := range r.Headers {
		if strings.EqualFold(h.Key, "Authorization") {
			h.Value = redactedCredential
		}
		headers[i] = h
	}
	r.Headers = headers
	return r
}

type requestSpecJSON struct {
	URL     string          `json:"url"`
	Method  string          `json:"method"`
	Headers []Header        `json:"headers"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// MarshalJSON embeds a JSON body as-is so previews stay readable.
func (r RequestSpec) MarshalJSON() ([]byte, error) {
	out := requestSpecJSON{
		Method:  r.Method,
		Headers: r.Headers,
	}
	if r.URL != nil {
		out.URL = r.URL.String()
	}
	if out.Headers == nil {
		out.Headers = []Header{}
	}
	if len(r.Body) > 0 && json.Valid(r.Body) {
		out.Body = json.RawMessage(r.Body)
	}
	return json.Marshal(out)
}
