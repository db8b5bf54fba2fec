// Package brainstorm drives the structured dialog that elicits a task
// prompt from the user before a project leaves the Brainstorming
// status. Ported from
// original_source/src-tauri/src/engine/ai_brainstorm.rs, with the
// naive rfind('}') extractor replaced by the balanced-JSON walker
// SPEC_FULL.md calls for.
package brainstorm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ralphloop/internal/adapter"
)

// QuestionOption is one selectable answer to a brainstorm question.
type QuestionOption struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

// AiBrainstormResponse is the structured reply the driver expects the
// agent CLI to emit as JSON.
type AiBrainstormResponse struct {
	Question        string           `json:"question"`
	Description      string          `json:"description,omitempty"`
	Options          []QuestionOption `json:"options"`
	MultiSelect      bool             `json:"multiSelect"`
	AllowOther       bool             `json:"allowOther"`
	IsComplete       bool             `json:"isComplete"`
	GeneratedPrompt  string           `json:"generatedPrompt,omitempty"`
}

// ConversationMessage is one turn of the brainstorm dialog.
type ConversationMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const systemPrompt = `You are a thought partner for programming tasks, helping users explore and clarify what they want to accomplish.

## Language Rule
IMPORTANT: Detect and match the user's language automatically. If the user writes in Chinese, respond in Chinese. If in English, respond in English. If in Japanese, respond in Japanese. Always mirror the user's language.

## Core Principles

1. Collaborative Dialogue: you are a thought partner, not a questionnaire. Explore together with the user, don't just mechanically collect information.
2. Intellectual Curiosity: show genuine interest in the user's ideas, ask exploratory questions.
3. Creative Challenge: push the user to think deeper, challenge assumptions, explore "what if..." scenarios.
4. Structured yet Flexible: guide the conversation with purpose, but adapt dynamically based on the user's thinking.

## Workflow

Phase 1 (Understanding Context): open-ended questions about what the user is working on.
Phase 2 (Divergent Exploration): challenge assumptions, cross-domain analogies, constraint thinking.
Phase 3 (Focus on Solution): confirm core features, technical choices, success criteria.
Phase 4 (Generate Prompt): synthesize all information into a complete task description.

## Output Format

Output strictly in JSON, nothing else, matching this schema:
{
  "question": "...",
  "description": "optional",
  "options": [{"label": "...", "description": "optional", "value": "..."}],
  "multiSelect": false,
  "allowOther": true,
  "isComplete": false,
  "generatedPrompt": "optional, only when isComplete is true"
}

## Requirements for the Generated Prompt

When isComplete is true, generatedPrompt must include:
1. Task Overview: one sentence description
2. Background & Goals: why do this, what effect to achieve
3. Core Features: list of must-have features
4. Technical Requirements: tech stack, constraints
5. Success Criteria: how to judge completion
6. Completion Signal: ` + "`<done>COMPLETE</done>`" + `

Remember: match the user's language in all your responses.`

// Driver runs brainstorm turns against one project's chosen adapter.
type Driver struct {
	adapter adapter.Adapter
}

// New returns a Driver bound to the given adapter.
func New(a adapter.Adapter) *Driver {
	return &Driver{adapter: a}
}

// Chat composes one brainstorm turn from the conversation so far and
// runs the adapter's read-only command, parsing the reply into an
// AiBrainstormResponse. Returned errors are descriptive and meant to
// be surfaced to the user without advancing the conversation.
func (d *Driver) Chat(ctx context.Context, workingDir string, conversation []ConversationMessage) (AiBrainstormResponse, error) {
	prompt := buildPrompt(conversation)

	cmd, err := d.adapter.BuildReadonlyCommand(ctx, prompt, workingDir, adapter.CommandOptions{})
	if err != nil {
		return AiBrainstormResponse{}, fmt.Errorf("building brainstorm command: %w", err)
	}

	out, err := cmd.Output()
	if err != nil {
		return AiBrainstormResponse{}, fmt.Errorf("running brainstorm command: %w", err)
	}

	return ParseResponse(string(out))
}

func buildPrompt(conversation []ConversationMessage) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n## Conversation\n\n")
	for _, msg := range conversation {
		if msg.Role == "user" {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with JSON only, per the schema above.")
	return b.String()
}

// ParseResponse extracts and decodes the AiBrainstormResponse from raw
// agent output, per the fallback chain SPEC_FULL.md §4.3 specifies:
// fenced json block, then generic fenced block, then a balanced-brace
// scan, then a completion-signal fallback, then a free-text question.
func ParseResponse(output string) (AiBrainstormResponse, error) {
	trimmed := strings.TrimSpace(output)

	if jsonStr, ok := extractFencedJSON(trimmed); ok {
		return decodeResponse(jsonStr)
	}
	if jsonStr, ok := extractGenericFence(trimmed); ok {
		return decodeResponse(jsonStr)
	}
	if start := strings.IndexByte(trimmed, '{'); start >= 0 {
		jsonStr, err := extractBalancedJSON(trimmed[start:])
		if err == nil {
			return decodeResponse(jsonStr)
		}
	}

	if strings.Contains(trimmed, "<done>COMPLETE</done>") {
		return AiBrainstormResponse{
			Question:        completionLabel(trimmed),
			IsComplete:      true,
			GeneratedPrompt: trimmed,
		}, nil
	}

	return AiBrainstormResponse{
		Question: trimmed,
	}, nil
}

func decodeResponse(jsonStr string) (AiBrainstormResponse, error) {
	var resp AiBrainstormResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return AiBrainstormResponse{}, fmt.Errorf("decoding brainstorm JSON: %w (raw: %s)", err, jsonStr)
	}
	if resp.Options == nil {
		resp.Options = []QuestionOption{}
	}
	return resp, nil
}

// extractFencedJSON returns the body of the first ```json ... ``` block.
func extractFencedJSON(s string) (string, bool) {
	const open = "```json"
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	bodyStart := start + len(open)
	end := strings.Index(s[bodyStart:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(s[bodyStart : bodyStart+end]), true
}

// extractGenericFence returns the body of the first ``` ... ``` block,
// skipping an optional language identifier on the fence's own line.
func extractGenericFence(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	blockStart := start + 3
	bodyStart := blockStart
	if nl := strings.IndexByte(s[blockStart:], '\n'); nl >= 0 {
		bodyStart = blockStart + nl + 1
	}
	end := strings.Index(s[bodyStart:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(s[bodyStart : bodyStart+end]), true
}

// completionLabel picks a summary label in the language the output
// appears to be written in, sniffed by Unicode block.
func completionLabel(text string) string {
	switch detectLanguage(text) {
	case langChinese:
		return "需求收集完成"
	case langJapanese:
		return "要件のヒアリングが完了しました"
	case langKorean:
		return "요구사항 수집이 완료되었습니다"
	default:
		return "Requirements gathering complete"
	}
}

type language int

const (
	langEnglish language = iota
	langChinese
	langJapanese
	langKorean
)

// detectLanguage sniffs the dominant script of text by Unicode block:
// Hangul syllables for Korean, Hiragana/Katakana for Japanese (checked
// before CJK ideographs since Japanese text mixes in kanji), and CJK
// ideographs for Chinese. Anything else defaults to English.
func detectLanguage(text string) language {
	for _, r := range text {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3:
			return langKorean
		case (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF):
			return langJapanese
		case r >= 0x4E00 && r <= 0x9FFF:
			return langChinese
		}
	}
	return langEnglish
}
