package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a Prompt definition from a YAML file. Unknown keys are rejected
// so that typos in optional sections do not silently drop fragments.
//
// Example:
//
//	instruction: Summarise the incident report.
//	examples:
//	  - input: disk full on db-1
//	    output: Storage exhaustion on the primary database.
//	chain_of_thought:
//	  description: Work through the timeline.
//	  steps: [Identify the trigger, Identify the impact]
func LoadFile(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt file %q: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return Prompt{}, fmt.Errorf("parse prompt file %q: %w", path, err)
	}
	return p, nil
}

// Parse decodes a single YAML prompt document.
func Parse(data []byte) (Prompt, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Prompt
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Prompt{}, errors.New("prompt document is empty")
		}
		return Prompt{}, err
	}
	return p, nil
}
