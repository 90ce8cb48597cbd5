package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Conceptual-Machines/alpacka-api/pkg/embedded"
)

// Loader parses the embedded prompt templates
type Loader struct {
	system *template.Template
	task   *template.Template
}

func NewPromptLoader() (*Loader, error) {
	system, err := template.New("system_instruction").
		Option("missingkey=error").
		Parse(strings.TrimSpace(string(embedded.SystemInstructionTmpl)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse system instruction template: %w", err)
	}

	task, err := template.New("task_message").
		Option("missingkey=error").
		Parse(strings.TrimSpace(string(embedded.TaskMessageTmpl)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse task message template: %w", err)
	}

	return &Loader{system: system, task: task}, nil
}

// GetSystemInstructionTemplate returns the parsed system instruction template
func (l *Loader) GetSystemInstructionTemplate() *template.Template {
	return l.system
}

// GetTaskMessageTemplate returns the parsed task message template
func (l *Loader) GetTaskMessageTemplate() *template.Template {
	return l.task
}
