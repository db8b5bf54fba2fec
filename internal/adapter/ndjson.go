package adapter

import (
	"bufio"
	"encoding/json"
	"strings"
)

// claudeLikeMsg is the NDJSON shape emitted by Claude and Cursor
// (adapter A's family): {type, role, message:{content:[{type,text}]},
// result, subtype}.
type claudeLikeMsg struct {
	Type    string            `json:"type"`
	Role    string            `json:"role,omitempty"`
	Subtype string            `json:"subtype,omitempty"`
	Message *claudeLikeMessage `json:"message,omitempty"`
	Result  string            `json:"result,omitempty"`
}

type claudeLikeMessage struct {
	Role    string               `json:"role,omitempty"`
	Content []claudeLikeContent `json:"content"`
}

type claudeLikeContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// parseClaudeLikeLine parses one line of Claude/Cursor-family NDJSON
// output into a ParsedLine. role=="assistant" (on the message or the
// top-level event) marks IsAssistant.
func parseClaudeLikeLine(line string) ParsedLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedLine{Content: "", LineType: LineText, IsAssistant: false}
	}

	var msg claudeLikeMsg
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return ParsedLine{Content: trimmed, LineType: LineText, IsAssistant: false}
	}

	switch msg.Type {
	case "assistant":
		var parts []string
		if msg.Message != nil {
			for _, block := range msg.Message.Content {
				if block.Type == "text" && block.Text != "" {
					parts = append(parts, block.Text)
				}
			}
		}
		return ParsedLine{Content: strings.Join(parts, ""), LineType: LineJSON, IsAssistant: true}
	case "result":
		if msg.Subtype == "success" {
			return ParsedLine{Content: msg.Result, LineType: LineJSON, IsAssistant: true}
		}
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	default:
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	}
}

// codexItemMsg is the NDJSON shape adapter B (Codex) emits: events
// carrying an item that completes with agent_message text.
type codexItemMsg struct {
	Type string    `json:"type"`
	Item *codexItem `json:"item,omitempty"`
}

type codexItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// parseCodexLine parses one line of adapter-B NDJSON output. Per
// spec.md §4.1, all emitted text for this adapter is assistant content.
func parseCodexLine(line string) ParsedLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedLine{Content: "", LineType: LineText, IsAssistant: false}
	}

	var msg codexItemMsg
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return ParsedLine{Content: trimmed, LineType: LineText, IsAssistant: false}
	}

	if msg.Type == "item.completed" && msg.Item != nil && msg.Item.Type == "agent_message" {
		return ParsedLine{Content: msg.Item.Text, LineType: LineJSON, IsAssistant: true}
	}
	return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: true}
}

// partMsg is the NDJSON shape opencode/kilo emit for streaming text.
type partMsg struct {
	Type string `json:"type"`
	Part *struct {
		Text string `json:"text"`
	} `json:"part,omitempty"`
	AssistantMessageEvent *struct {
		Type  string `json:"type"`
		Delta string `json:"delta,omitempty"`
	} `json:"assistantMessageEvent,omitempty"`
}

func parsePartLine(line string) ParsedLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedLine{Content: "", LineType: LineText, IsAssistant: false}
	}

	var msg partMsg
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return ParsedLine{Content: trimmed, LineType: LineText, IsAssistant: false}
	}

	switch msg.Type {
	case "text":
		if msg.Part != nil {
			return ParsedLine{Content: msg.Part.Text, LineType: LineJSON, IsAssistant: true}
		}
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	case "message_update":
		if msg.AssistantMessageEvent != nil && msg.AssistantMessageEvent.Type == "text_delta" {
			return ParsedLine{Content: msg.AssistantMessageEvent.Delta, LineType: LineJSON, IsAssistant: true}
		}
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	case "step_finish":
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	default:
		return ParsedLine{Content: "", LineType: LineJSON, IsAssistant: false}
	}
}

// containsCompletionByLine is the shared contains_completion
// implementation: split text into lines, parse each with parseLine,
// and search signal only within assistant content. Plain-text adapters
// (whose parseLine always marks IsAssistant=true) degenerate correctly
// into a whole-text substring test.
func containsCompletionByLine(parseLine func(string) ParsedLine, text, signal string) bool {
	if signal == "" {
		return false
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		parsed := parseLine(scanner.Text())
		if parsed.IsAssistant && strings.Contains(parsed.Content, signal) {
			return true
		}
	}
	return false
}
