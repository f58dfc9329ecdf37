package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestFragment_Render(t *testing.T) {
	tests := []struct {
		name     string
		fragment Fragment
		want     string
	}{
		{
			name:     "instruction unchanged",
			fragment: Instruction("List three colours."),
			want:     "List three colours.",
		},
		{
			name:     "example",
			fragment: Example{Input: "in1", Output: "out1"},
			want:     "Example Input: in1\nExample Output: out1",
		},
		{
			name:     "chain of thought",
			fragment: ChainOfThought{Description: "Solve it.", Steps: []string{"Read", "Think", "Answer"}},
			want:     "Solve it.\nRead\nThink\nAnswer",
		},
		{
			name:     "chain of thought without steps keeps separator",
			fragment: ChainOfThought{Description: "Solve it."},
			want:     "Solve it.\n",
		},
		{
			name:     "prompt chain has no separator after initial",
			fragment: PromptChain{Initial: "Start.", Subsequent: []string{"Then A.", "Then B."}},
			want:     "Start.Then A.\nThen B.",
		},
		{
			name:     "prompt chain without follow-ups",
			fragment: PromptChain{Initial: "Start."},
			want:     "Start.",
		},
		{
			name:     "graph based",
			fragment: GraphBased{GraphDescription: "A -> B", Reasoning: "A causes B."},
			want:     "A -> B\nA causes B.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fragment.Render())
		})
	}
}

func TestCompose_InstructionOnly(t *testing.T) {
	assert.Equal(t, "Do X", Compose("Do X", nil, nil, nil, nil, nil))
	assert.Equal(t, "Do X", Compose("Do X", []Example{}, nil, nil, nil, nil))
}

func TestCompose_WithExample(t *testing.T) {
	got := Compose("Do X", []Example{{Input: "in1", Output: "out1"}}, nil, nil, nil, nil)
	assert.Equal(t, "Do X\nExample Input: in1\nExample Output: out1", got)
}

func TestCompose_FixedOrder(t *testing.T) {
	got := Compose(
		"Instr",
		[]Example{{Input: "a", Output: "b"}, {Input: "c", Output: "d"}},
		nil,
		&ChainOfThought{Description: "Cot", Steps: []string{"s1"}},
		&PromptChain{Initial: "Init", Subsequent: []string{"n1", "n2"}},
		&GraphBased{GraphDescription: "G", Reasoning: "R"},
	)

	want := "Instr\n" +
		"Example Input: a\nExample Output: b\n" +
		"Example Input: c\nExample Output: d\n" +
		"Cot\ns1\n" +
		"Initn1\nn2\n" +
		"G\nR"
	assert.Equal(t, want, got)
}

func TestCompose_ElidesEmptyPieces(t *testing.T) {
	tests := []struct {
		name   string
		prompt Prompt
		want   string
	}{
		{
			name:   "everything empty",
			prompt: Prompt{},
			want:   "",
		},
		{
			name:   "empty instruction with graph",
			prompt: Prompt{Graph: &GraphBased{GraphDescription: "G", Reasoning: "R"}},
			want:   "G\nR",
		},
		{
			name:   "empty prompt chain dropped",
			prompt: Prompt{Instruction: "I", Chain: &PromptChain{}},
			want:   "I",
		},
		{
			name:   "whitespace instruction kept",
			prompt: Prompt{Instruction: " ", Chain: &PromptChain{Initial: "C"}},
			want:   " \nC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prompt.Render())
		})
	}
}

func TestCompose_DontWantIsNotRendered(t *testing.T) {
	with := Compose("Do X", nil, strPtr("no jargon"), nil, nil, nil)
	without := Compose("Do X", nil, nil, nil, nil, nil)
	assert.Equal(t, without, with)
	assert.NotContains(t, with, "jargon")
}

func TestCompose_Idempotent(t *testing.T) {
	p := Prompt{
		Instruction:    "Plan a trip.",
		Examples:       []Example{{Input: "Paris", Output: "Louvre, Seine"}},
		ChainOfThought: &ChainOfThought{Description: "Consider budget.", Steps: []string{"flights", "hotels"}},
	}
	assert.Equal(t, p.Render(), p.Render())
	assert.Equal(t, p.Render(), Compose(p.Instruction, p.Examples, p.DontWant, p.ChainOfThought, p.Chain, p.Graph))
}

func TestPrompt_IsFragment(t *testing.T) {
	var f Fragment = Prompt{Instruction: "nested"}
	assert.Equal(t, "nested", f.Render())
}
