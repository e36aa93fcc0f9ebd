package prompts

import "github.com/yungbote/simple-explain/internal/domain/explain"

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// LessonSchema is the strict response format for the lesson prompt.
func LessonSchema() map[string]any {
	levels := map[string]any{}
	required := make([]string, 0, len(explain.LessonLevels))
	for _, l := range explain.LessonLevels {
		levels[string(l)] = stringSchema()
		required = append(required, string(l))
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"schema_version": map[string]any{"type": "string", "const": explain.LessonSchemaVersion},
			"topic":          stringSchema(),
			"lesson": map[string]any{
				"type":                 "object",
				"properties":           levels,
				"required":             required,
				"additionalProperties": false,
			},
		},
		"required":             []string{"schema_version", "topic", "lesson"},
		"additionalProperties": false,
	}
}
