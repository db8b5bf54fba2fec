package brainstorm

import "strings"

// autoDecideMarker is the substring ensureAutoDecidePolicy tests for
// before prepending the policy block, making the operation idempotent.
// Grounded on original_source/src-tauri/src/commands/
// loop_commands.rs::ensure_autodecide_prompt.
const autoDecideMarker = "[Ralph Auto-Decision Policy]"

const autoDecideBlock = autoDecideMarker + `
- Never pause to ask the user interactive questions; make a reasonable decision yourself and proceed.
- Prefer the simplest approach that satisfies the task description.
- When a choice is ambiguous, choose the option least likely to require human follow-up.

`

// EnsureAutoDecidePolicy prepends the auto-decide policy block to
// prompt unless the marker is already present, so repeated calls
// across engine restarts never double the preamble.
func EnsureAutoDecidePolicy(prompt string) string {
	if strings.Contains(prompt, autoDecideMarker) {
		return prompt
	}
	return autoDecideBlock + prompt
}
