package adapter

import "testing"

func TestParseClaudeLikeLineAssistant(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"text","text":"hello"}]}}`
	parsed := parseClaudeLikeLine(line)
	if !parsed.IsAssistant || parsed.Content != "hello" {
		t.Errorf("got %+v", parsed)
	}
}

func TestParseClaudeLikeLineNonJSONIsTextNotAssistant(t *testing.T) {
	parsed := parseClaudeLikeLine("not json at all")
	if parsed.IsAssistant {
		t.Errorf("expected non-JSON line to be marked non-assistant")
	}
	if parsed.LineType != LineText {
		t.Errorf("expected LineText, got %v", parsed.LineType)
	}
}

func TestParseCodexLineCompletion(t *testing.T) {
	line := `{"type":"item.completed","item":{"type":"agent_message","text":"<done>COMPLETE</done>"}}`
	parsed := parseCodexLine(line)
	if !parsed.IsAssistant || parsed.Content != "<done>COMPLETE</done>" {
		t.Errorf("got %+v", parsed)
	}
}

func TestIsGitRepoCheckError(t *testing.T) {
	line := "Error: Not inside a trusted directory, pass --skip-git-repo-check to continue"
	if !IsGitRepoCheckError(Codex, line) {
		t.Errorf("expected fatal guard match")
	}
	if IsGitRepoCheckError(Claude, line) {
		t.Errorf("fatal guard must be specific to Codex")
	}
	if IsGitRepoCheckError(Codex, "some other stderr line") {
		t.Errorf("expected no match for unrelated stderr")
	}
}

func TestContainsCompletionByLineOnlySearchesAssistantContent(t *testing.T) {
	a := newCodexAdapter()
	text := `{"type":"item.started","item":{"type":"command"}}
{"type":"item.completed","item":{"type":"agent_message","text":"still working"}}`
	if a.ContainsCompletion(text, "<done>COMPLETE</done>") {
		t.Errorf("signal should not be found")
	}

	completedText := `{"type":"item.completed","item":{"type":"agent_message","text":"<done>COMPLETE</done>"}}`
	if !a.ContainsCompletion(completedText, "<done>COMPLETE</done>") {
		t.Errorf("expected signal to be found in assistant content")
	}
}

func TestPlainTextAdapterContainsCompletionIsSubstring(t *testing.T) {
	a := newGeminiAdapter()
	if !a.ContainsCompletion("working...\n<done>COMPLETE</done>\n", "<done>COMPLETE</done>") {
		t.Errorf("expected substring match for plain text adapter")
	}
}
