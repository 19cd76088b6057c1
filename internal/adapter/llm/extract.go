package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Structured extraction from free-text reasoning output. The response may
// carry its JSON in a labeled fence, a bare fence, inline, or truncated
// mid-object; candidates are tried in a fixed strategy order and the first
// span that parses wins.

var (
	fencedJSONBlock = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	fencedAnyBlock  = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
	flatObject      = regexp.MustCompile(`\{[^{}]*"[^"]*"[^{}]*:[^{}]*\}`)
)

// ExtractStructured pulls a JSON object out of response text. Strategies,
// in order: labeled fenced block, any fenced block, a flat single-level
// object, then the widest brace-delimited span. Each candidate gets one
// strict parse and, on failure, one repair pass.
func ExtractStructured(text string) (map[string]interface{}, error) {
	for _, candidate := range candidateSpans(text) {
		if parsed, ok := parseCandidate(candidate); ok {
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("no parsable structured span in response")
}

func candidateSpans(text string) []string {
	var spans []string
	for _, m := range fencedJSONBlock.FindAllStringSubmatch(text, -1) {
		spans = append(spans, m[1])
	}
	for _, m := range fencedAnyBlock.FindAllStringSubmatch(text, -1) {
		spans = append(spans, m[1])
	}
	spans = append(spans, flatObject.FindAllString(text, -1)...)
	if wide := widestBraceSpan(text); wide != "" {
		spans = append(spans, wide)
	}
	return spans
}

// widestBraceSpan returns the span from the first opening brace to the last
// closing brace, or to end-of-text when the object was truncated before its
// closing brace.
func widestBraceSpan(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(text, "}")
	if end > start {
		return text[start : end+1]
	}
	return text[start:]
}

func parseCandidate(candidate string) (map[string]interface{}, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		return parsed, true
	}

	// One repair pass: append the minimum closers a truncated span is
	// missing, then retry once.
	repaired := repairBrackets(candidate)
	if repaired == candidate {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err == nil {
		return parsed, true
	}
	return nil, false
}

// repairBrackets appends the missing closing brackets and braces implied by
// counting opens against closes. Quoted brackets are not tracked; this is a
// bounded repair for truncation, not a general JSON fixer.
func repairBrackets(s string) string {
	openBrackets := strings.Count(s, "[") - strings.Count(s, "]")
	openBraces := strings.Count(s, "{") - strings.Count(s, "}")
	if openBrackets > 0 {
		s += strings.Repeat("]", openBrackets)
	}
	if openBraces > 0 {
		s += strings.Repeat("}", openBraces)
	}
	return s
}
