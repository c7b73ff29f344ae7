package recommender

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/skillcompass/skillcompass/domain/recommend"
)

// Per-kind JSON schemas for the structured model output. Validation runs
// before decoding so that a shape mismatch produces one precise error
// instead of a silently zero-valued payload.
var (
	trajectorySchema = mustSchema(`{
		"type": "object",
		"required": ["steps"],
		"properties": {
			"steps": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["role", "description", "rationale"],
					"properties": {
						"role": {"type": "string", "minLength": 1},
						"description": {"type": "string"},
						"rationale": {"type": "string"},
						"estimated_months": {"type": "integer", "minimum": 0}
					}
				}
			}
		}
	}`)

	courseCertSchema = mustSchema(`{
		"type": "object",
		"required": ["courses", "certifications"],
		"properties": {
			"courses": {"type": "array", "items": {"$ref": "#/definitions/recommendation"}},
			"certifications": {"type": "array", "items": {"$ref": "#/definitions/recommendation"}}
		},
		"definitions": {
			"recommendation": {
				"type": "object",
				"required": ["name", "rationale"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"rationale": {"type": "string"},
					"match_percent": {"type": "integer", "minimum": 0, "maximum": 100}
				}
			}
		}
	}`)

	roleSchema = mustSchema(`{
		"type": "object",
		"required": ["roles"],
		"properties": {
			"roles": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["name", "rationale"],
					"properties": {
						"name": {"type": "string", "minLength": 1},
						"description": {"type": "string"},
						"rationale": {"type": "string"},
						"match_percent": {"type": "integer", "minimum": 0, "maximum": 100}
					}
				}
			}
		}
	}`)
)

// mustSchema compiles a schema definition at package init.
func mustSchema(definition string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid recommendation schema: %v", err))
	}
	return schema
}

// parsePayload turns raw model output into a validated payload. Code
// fences are stripped first; if the whole text fails, the first balanced
// object substring is tried once before giving up with a
// MalformedResponseError carrying the original text.
func parsePayload[T any](schema *gojsonschema.Schema, text string) (T, error) {
	var zero T

	raw := strings.TrimSpace(stripCodeFences(text))
	value, err := decodeValidated[T](schema, raw)
	if err == nil {
		return value, nil
	}

	if extracted := firstBalancedObject(raw); extracted != "" && extracted != raw {
		if value, retryErr := decodeValidated[T](schema, extracted); retryErr == nil {
			return value, nil
		}
	}

	return zero, recommend.NewMalformedResponseError(text, err)
}

// decodeValidated validates raw against schema and decodes it into T.
func decodeValidated[T any](schema *gojsonschema.Schema, raw string) (T, error) {
	var zero T

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return zero, fmt.Errorf("parse response: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return zero, fmt.Errorf("response failed schema validation: %s", strings.Join(details, "; "))
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return value, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, from the model output.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line, e.g. "json".
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// firstBalancedObject returns the first balanced top-level {...} substring
// of text, or "" when none exists. String literals and escapes are
// respected so braces inside JSON strings do not unbalance the scan.
func firstBalancedObject(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
