package sessionlog

import "regexp"

// secretPatterns mirrors original_source/src-tauri/src/security/mod.rs::sanitize_log:
// API-key-prefixed tokens, vendor-specific env-var assignments, and
// generic password/secret/token assignments.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`key-[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`(?i)api[_-]?key[=:]\s*['"]?[a-zA-Z0-9_-]+['"]?`),
	regexp.MustCompile(`ANTHROPIC_API_KEY=\S+`),
	regexp.MustCompile(`OPENAI_API_KEY=\S+`),
	regexp.MustCompile(`(?i)(password|secret|token)[=:]\s*['"]?[^\s'"]+['"]?`),
}

// Sanitize replaces every match of the secret-shaped patterns with
// "[REDACTED]". All log content destined for UI surfacing passes
// through this function before leaving the process boundary.
func Sanitize(content string) string {
	result := content
	for _, re := range secretPatterns {
		result = re.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}
