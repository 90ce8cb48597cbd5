package embedded

import (
	_ "embed"
)

// Prompt templates for the generation endpoint
//
//go:embed data/prompts/system_instruction.tmpl
var SystemInstructionTmpl []byte

//go:embed data/prompts/task_message.tmpl
var TaskMessageTmpl []byte
