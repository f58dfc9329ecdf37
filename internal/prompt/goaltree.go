package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed goaltree.tmpl
var goalTreeSource string

var goalTreeTemplate = template.Must(template.New("goaltree").Parse(goalTreeSource))

// GoalTree asks the model to decompose goal into a nested task tree, using a
// worked few-shot example and the JSON schema the answer must satisfy.
func GoalTree(goal string) (string, error) {
	var b strings.Builder
	if err := goalTreeTemplate.Execute(&b, struct{ Goal string }{Goal: goal}); err != nil {
		return "", fmt.Errorf("render goal tree prompt: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
