package brainstorm

import "testing"

func TestParseResponseFencedJSON(t *testing.T) {
	out := "Here you go:\n```json\n{\"question\": \"What next?\", \"options\": [], \"multiSelect\": false, \"allowOther\": false, \"isComplete\": false}\n```\nThanks."
	resp, err := ParseResponse(out)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Question != "What next?" {
		t.Errorf("got question %q", resp.Question)
	}
}

func TestParseResponseGenericFence(t *testing.T) {
	out := "```\n{\"question\": \"ok\", \"options\": [], \"isComplete\": false}\n```"
	resp, err := ParseResponse(out)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Question != "ok" {
		t.Errorf("got question %q", resp.Question)
	}
}

func TestParseResponseBalancedJSONIgnoresTrailingProse(t *testing.T) {
	out := `{"question": "curly braces like { this } inside a string", "options": [], "isComplete": false} and some trailing commentary the agent added`
	resp, err := ParseResponse(out)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	want := "curly braces like { this } inside a string"
	if resp.Question != want {
		t.Errorf("got question %q, want %q", resp.Question, want)
	}
}

func TestParseResponseCompletionFallback(t *testing.T) {
	out := "Great, all set.\n\n<done>COMPLETE</done>\n\nTask Overview: build a thing."
	resp, err := ParseResponse(out)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if !resp.IsComplete {
		t.Errorf("expected IsComplete fallback to trigger")
	}
	if resp.GeneratedPrompt == "" {
		t.Errorf("expected GeneratedPrompt to be populated")
	}
}

func TestParseResponseFreeTextFallback(t *testing.T) {
	out := "What kind of game did you have in mind?"
	resp, err := ParseResponse(out)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Question != out || resp.IsComplete {
		t.Errorf("expected free-text passthrough, got %+v", resp)
	}
}

func TestExtractBalancedJSONIncompleteReportsMissingBraces(t *testing.T) {
	_, err := extractBalancedJSON(`{"question": "ok", "options": [{"label": "a"`)
	if err == nil {
		t.Fatal("expected an error for incomplete JSON")
	}
}

func TestExtractBalancedJSONUnclosedString(t *testing.T) {
	_, err := extractBalancedJSON(`{"question": "unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unclosed string")
	}
}

func TestEnsureAutoDecidePolicyIsIdempotent(t *testing.T) {
	once := EnsureAutoDecidePolicy("build a snake game")
	twice := EnsureAutoDecidePolicy(once)
	if once != twice {
		t.Errorf("expected idempotent prefixing, got:\n%q\nvs\n%q", once, twice)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]language{
		"build me a game":   langEnglish,
		"做一个贪吃蛇游戏":          langChinese,
		"スネークゲームを作って":      langJapanese,
		"스네이크 게임을 만들어줘":    langKorean,
	}
	for text, want := range cases {
		if got := detectLanguage(text); got != want {
			t.Errorf("detectLanguage(%q) = %v, want %v", text, got, want)
		}
	}
}
