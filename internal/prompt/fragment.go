package prompt

import "strings"

// Fragment is one self-contained, renderable piece of a larger prompt.
// The set of implementations is closed to this package.
type Fragment interface {
	Render() string
	fragment()
}

// Instruction is direct zero-shot instruction text.
type Instruction string

func (i Instruction) Render() string { return string(i) }

func (Instruction) fragment() {}

// Example is an input/output pair used for few-shot demonstration.
type Example struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

func (e Example) Render() string {
	return "Example Input: " + e.Input + "\nExample Output: " + e.Output
}

func (Example) fragment() {}

// ChainOfThought introduces a scenario and the reasoning steps the model should follow.
type ChainOfThought struct {
	Description string   `json:"description" yaml:"description"`
	Steps       []string `json:"steps,omitempty" yaml:"steps,omitempty"`
}

func (c ChainOfThought) Render() string {
	return c.Description + "\n" + strings.Join(c.Steps, "\n")
}

func (ChainOfThought) fragment() {}

// PromptChain is an initial prompt followed by refining prompts.
type PromptChain struct {
	Initial    string   `json:"initial" yaml:"initial"`
	Subsequent []string `json:"subsequent,omitempty" yaml:"subsequent,omitempty"`
}

// Render appends the joined follow-ups directly to Initial, with no separator
// between Initial and the first follow-up. Existing prompt outputs depend on it.
func (c PromptChain) Render() string {
	return c.Initial + strings.Join(c.Subsequent, "\n")
}

func (PromptChain) fragment() {}

// GraphBased grounds reasoning in a described graph.
type GraphBased struct {
	GraphDescription string `json:"graph_description" yaml:"graph_description"`
	Reasoning        string `json:"reasoning" yaml:"reasoning"`
}

func (g GraphBased) Render() string {
	return g.GraphDescription + "\n" + g.Reasoning
}

func (GraphBased) fragment() {}
