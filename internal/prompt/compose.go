package prompt

import "strings"

const separator = "\n"

// Prompt aggregates an instruction, few-shot examples and optional advanced
// fragments into a single prompt.
type Prompt struct {
	Instruction string    `json:"instruction" yaml:"instruction"`
	Examples    []Example `json:"examples,omitempty" yaml:"examples,omitempty"`

	// DontWant describes content the response should exclude. It is carried
	// with the prompt but is not part of the rendered text.
	DontWant *string `json:"dont_want,omitempty" yaml:"dont_want,omitempty"`

	ChainOfThought *ChainOfThought `json:"chain_of_thought,omitempty" yaml:"chain_of_thought,omitempty"`
	Chain          *PromptChain    `json:"prompt_chain,omitempty" yaml:"prompt_chain,omitempty"`
	Graph          *GraphBased     `json:"graph,omitempty" yaml:"graph,omitempty"`
}

// Render joins the non-empty pieces with newlines in the fixed order
// instruction, examples, chain of thought, prompt chain, graph.
func (p Prompt) Render() string {
	examples := make([]string, 0, len(p.Examples))
	for _, ex := range p.Examples {
		examples = append(examples, ex.Render())
	}

	pieces := []string{
		p.Instruction,
		strings.Join(examples, separator),
		renderOptional(p.ChainOfThought),
		renderOptional(p.Chain),
		renderOptional(p.Graph),
	}

	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		out = append(out, piece)
	}
	return strings.Join(out, separator)
}

func (Prompt) fragment() {}

// Compose is the argument-list form of Prompt.Render.
func Compose(instruction string, examples []Example, dontWant *string, cot *ChainOfThought, chain *PromptChain, graph *GraphBased) string {
	return Prompt{
		Instruction:    instruction,
		Examples:       examples,
		DontWant:       dontWant,
		ChainOfThought: cot,
		Chain:          chain,
		Graph:          graph,
	}.Render()
}

type renderable interface {
	ChainOfThought | PromptChain | GraphBased
	Fragment
}

func renderOptional[T renderable](f *T) string {
	if f == nil {
		return ""
	}
	return (*f).Render()
}
