package aiscoring

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The model's answer arrives as free text that may wrap the JSON payload in
// a reasoning-trace block, prose, or markdown fences. Extraction is a
// bounded lexical scan, first match wins; any parse failure is total — a
// malformed response is never partially trusted.

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

type parsedProgram struct {
	ProgramID          string   `json:"programId"`
	Score              float64  `json:"score"`
	Eligible           bool     `json:"eligible"`
	Confidence         string   `json:"confidence"`
	Summary            string   `json:"summary"`
	MetRequirements    []string `json:"metRequirements"`
	NotMetRequirements []string `json:"notMetRequirements"`
	Recommendations    []string `json:"recommendations"`
	NextSteps          []string `json:"nextSteps"`
}

type parsedAnalysis struct {
	Programs               []parsedProgram `json:"programs"`
	BestProgram            string          `json:"bestProgram"`
	GeneralRecommendations []string        `json:"generalRecommendations"`
}

func parseResponse(content string) (parsedAnalysis, string, error) {
	thinking, remainder := extractThinking(content)

	payload, ok := extractJSON(remainder)
	if !ok {
		return parsedAnalysis{}, thinking, fmt.Errorf("no JSON object found in response")
	}

	var parsed parsedAnalysis
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return parsedAnalysis{}, thinking, fmt.Errorf("decode analysis: %w", err)
	}
	if len(parsed.Programs) == 0 {
		return parsedAnalysis{}, thinking, fmt.Errorf("response has no program entries")
	}
	return parsed, thinking, nil
}

// extractThinking strips every <think>...</think> pair, returning the
// joined traces and the content with the blocks removed. An unclosed tag
// is left in place.
func extractThinking(content string) (thinking, remainder string) {
	var traces []string
	remainder = content
	for {
		lower := strings.ToLower(remainder)
		open := strings.Index(lower, thinkOpen)
		if open < 0 {
			break
		}
		close := strings.Index(lower[open+len(thinkOpen):], thinkClose)
		if close < 0 {
			break
		}
		start := open + len(thinkOpen)
		end := start + close
		if trace := strings.TrimSpace(remainder[start:end]); trace != "" {
			traces = append(traces, trace)
		}
		remainder = remainder[:open] + remainder[end+len(thinkClose):]
	}
	return strings.Join(traces, "\n\n"), strings.TrimSpace(remainder)
}

// extractJSON prefers a fenced block labeled json; failing that it takes
// the first-to-last brace span of the content.
func extractJSON(content string) (string, bool) {
	if fenced, ok := extractFencedJSON(content); ok {
		return fenced, true
	}
	open := strings.Index(content, "{")
	close := strings.LastIndex(content, "}")
	if open < 0 || close <= open {
		return "", false
	}
	return content[open : close+1], true
}

func extractFencedJSON(content string) (string, bool) {
	lower := strings.ToLower(content)
	start := strings.Index(lower, "```json")
	if start < 0 {
		return "", false
	}
	body := content[start+len("```json"):]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}
