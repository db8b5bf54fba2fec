package sessionlog

import (
	"strings"
	"testing"
)

func TestSanitizeApiKeys(t *testing.T) {
	input := "Using key sk-abcdefghijklmnopqrstuvwxyz123456"
	output := Sanitize(input)
	if output == input {
		t.Errorf("expected redaction, got unchanged output")
	}
	if strings.Contains(output, "sk-abcdefghijklmnopqrstuvwxyz123456") {
		t.Errorf("output still contains secret: %q", output)
	}
}

func TestSanitizeEnvVars(t *testing.T) {
	input := "ANTHROPIC_API_KEY=secret123 OPENAI_API_KEY=key456"
	output := Sanitize(input)
	if strings.Count(output, "[REDACTED]") != 2 {
		t.Errorf("expected 2 redactions, got output: %q", output)
	}
}

func TestSanitizeGenericSecret(t *testing.T) {
	input := `password="hunter2"`
	output := Sanitize(input)
	if output == input {
		t.Errorf("expected password assignment to be redacted")
	}
}
