package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/simple-explain/internal/domain/explain"
)

var (
	ErrInvalidLesson = errors.New("invalid lesson payload")
	ErrInvalidEssay  = errors.New("invalid essay payload")
)

// ValidateLesson checks an untyped decoded JSON value against the lesson
// shape and returns a fresh copy. Any failure rejects the whole payload.
func ValidateLesson(raw any) (explain.Lesson, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return explain.Lesson{}, fmt.Errorf("%w: not an object", ErrInvalidLesson)
	}

	version, ok := firstString(obj, "schema_version", "schemaVersion")
	if !ok {
		return explain.Lesson{}, fmt.Errorf("%w: schema_version required", ErrInvalidLesson)
	}
	topic, ok := nonBlank(obj["topic"])
	if !ok {
		return explain.Lesson{}, fmt.Errorf("%w: topic required", ErrInvalidLesson)
	}

	body, ok := obj["lesson"].(map[string]any)
	if !ok || body == nil {
		return explain.Lesson{}, fmt.Errorf("%w: lesson must be an object", ErrInvalidLesson)
	}
	var texts [3]string
	for i, level := range explain.LessonLevels {
		text, ok := nonBlank(body[string(level)])
		if !ok {
			return explain.Lesson{}, fmt.Errorf("%w: lesson.%s required", ErrInvalidLesson, level)
		}
		texts[i] = text
	}

	return explain.Lesson{
		SchemaVersion: version,
		Topic:         topic,
		Lesson: explain.LessonBody{
			Beginner:     texts[0],
			Intermediate: texts[1],
			Advance:      texts[2],
		},
	}, nil
}

// DecodeLesson parses raw JSON and validates it.
func DecodeLesson(data []byte) (explain.Lesson, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return explain.Lesson{}, fmt.Errorf("%w: %v", ErrInvalidLesson, err)
	}
	return ValidateLesson(raw)
}

// ValidateEssay trims model text and rejects blank essays.
func ValidateEssay(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: essay is empty", ErrInvalidEssay)
	}
	return trimmed, nil
}

// IsShapeError reports whether err came from a rejected payload.
func IsShapeError(err error) bool {
	return errors.Is(err, ErrInvalidLesson) || errors.Is(err, ErrInvalidEssay)
}

func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := nonBlank(obj[k]); ok {
			return v, true
		}
	}
	return "", false
}

// Values are kept as sent; blank is judged after trimming.
func nonBlank(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
