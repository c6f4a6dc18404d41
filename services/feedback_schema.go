package services

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	"github.com/xeipuuv/gojsonschema"
)

const feedbackSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["overview", "highlights", "topRecurringMistakes", "improvedPhrases", "nextPractice"],
  "properties": {
    "overview": {
      "type": "object",
      "additionalProperties": false,
      "required": ["estimatedLevel", "confidence", "fluencyNotes"],
      "properties": {
        "estimatedLevel": {
          "type": "string",
          "enum": ["Beginner", "Lower-Intermediate", "Intermediate", "Upper-Intermediate", "Advanced"]
        },
        "confidence": {"type": "number", "minimum": 0, "maximum": 1},
        "fluencyNotes": {"type": "array", "items": {"type": "string"}}
      }
    },
    "highlights": {"type": "array", "items": {"type": "string"}},
    "topRecurringMistakes": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["category", "mistake", "why", "exampleFix"],
        "properties": {
          "category": {"type": "string", "enum": ["particles", "grammar", "vocab", "wording", "pronouns"]},
          "mistake": {"type": "string"},
          "why": {"type": "string"},
          "exampleFix": {"type": "string"}
        }
      }
    },
    "improvedPhrases": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["original", "improved", "explanation", "category"],
        "properties": {
          "original": {"type": "string"},
          "improved": {"type": "string"},
          "explanation": {"type": "string"},
          "category": {"type": "string", "enum": ["naturalness", "grammar", "tone", "clarity"]}
        }
      }
    },
    "nextPractice": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["goal", "drill", "examples"],
        "properties": {
          "goal": {"type": "string"},
          "drill": {"type": "string"},
          "examples": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// FeedbackSchema validates raw generator output before it is decoded.
type FeedbackSchema struct {
	schema *gojsonschema.Schema
}

func NewFeedbackSchema() (*FeedbackSchema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(feedbackSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile feedback schema: %w", err)
	}
	return &FeedbackSchema{schema: schema}, nil
}

// Parse turns raw generator output into feedback content. Output that is not
// JSON is a generation failure; JSON of the wrong shape is a schema failure.
func (s *FeedbackSchema) Parse(raw []byte) (*model.FeedbackContent, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, shared.NewGenerationError(nil, "Feedback generator returned empty output")
	}

	var doc interface{}
	if err := sonic.UnmarshalString(trimmed, &doc); err != nil {
		return nil, shared.NewGenerationError(err, "Feedback generator returned invalid JSON")
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, shared.NewGenerationError(err, "Feedback output could not be checked")
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return nil, shared.NewSchemaValidationError(
			fmt.Errorf("feedback schema: %s", strings.Join(violations, "; ")),
			violations,
		)
	}

	var content model.FeedbackContent
	if err := sonic.UnmarshalString(trimmed, &content); err != nil {
		return nil, shared.NewSchemaValidationError(err, []string{err.Error()})
	}
	return &content, nil
}
