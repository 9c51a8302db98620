// Package jsonparse decodes JSON objects out of free-text model output.
// Models frequently wrap JSON in markdown code fences or surround it with
// prose; Extract strips the wrapping and attempts a strict decode, returning
// a typed error so callers can choose their own fallback.
package jsonparse

import (
	"encoding/json"
	"strings"
)

// DecodeError reports that no valid JSON object could be extracted from raw
// model output.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return "jsonparse: no decodable JSON object in model output: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Extract strips markdown code fences from raw and unmarshals the remainder
// into out. On failure it returns a *DecodeError rather than aborting, so the
// caller can substitute a fallback value.
func Extract(raw string, out interface{}) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &DecodeError{Raw: raw, Err: err}
	}
	return nil
}

// StripFences removes a surrounding ```json ... ``` (or bare ``` ... ```)
// block, returning the inner text trimmed. Text without fences is returned
// trimmed as-is.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+len("```"):]
		// Drop a language tag on the fence line, if any.
		if nl := strings.Index(s, "\n"); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		}
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	return s
}
