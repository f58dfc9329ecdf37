package request

import "aiapi/internal/config"

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 50
	DefaultN           = 1
)

// defaultStop ends a legacy completion at the first newline.
func defaultStop() []string {
	return []string{"\n"}
}

type completionParams struct {
	maxTokens int
	n         int
	stop      []string
}

// CompletionOption adjusts the body of a legacy completion request.
type CompletionOption func(*completionParams)

// WithMaxTokens caps the number of tokens generated.
func WithMaxTokens(maxTokens int) CompletionOption {
	return func(p *completionParams) {
		p.maxTokens = maxTokens
	}
}

// WithN sets how many completions to return.
func WithN(n int) CompletionOption {
	return func(p *completionParams) {
		p.n = n
	}
}

// WithStop replaces the stop sequences. Calling it with no arguments sends an empty list.
func WithStop(sequences ...string) CompletionOption {
	return func(p *completionParams) {
		p.stop = append([]string{}, sequences...)
	}
}

type chatParams struct {
	model       string
	temperature float64
}

// ChatOption adjusts the body of a chat request.
type ChatOption func(*chatParams)

// WithModel selects the chat model.
func WithModel(model string) ChatOption {
	return func(p *chatParams) {
		p.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ChatOption {
	return func(p *chatParams) {
		p.temperature = temperature
	}
}

// ChatDefaults turns configured chat settings into options.
func ChatDefaults(cfg config.ChatConfig) []ChatOption {
	return []ChatOption{WithModel(cfg.Model), WithTemperature(cfg.Temperature)}
}

// CompletionDefaults turns configured completion settings into options.
func CompletionDefaults(cfg config.CompletionConfig) []CompletionOption {
	return []CompletionOption{WithMaxTokens(cfg.MaxTokens), WithN(cfg.N), WithStop(cfg.Stop...)}
}
