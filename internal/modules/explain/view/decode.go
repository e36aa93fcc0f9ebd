package view

import (
	"encoding/json"
	"fmt"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/modules/explain/validation"
)

// DecodeResult validates a raw generation response body for variant.
// Nothing from the body reaches the model unless this succeeds.
func DecodeResult(variant explain.Variant, body []byte) (history.Payload, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		if variant == explain.VariantEssay {
			return history.Payload{}, fmt.Errorf("%w: body is not an object", validation.ErrInvalidEssay)
		}
		return history.Payload{}, fmt.Errorf("%w: body is not an object", validation.ErrInvalidLesson)
	}

	if variant == explain.VariantEssay {
		text, _ := raw["essay"].(string)
		essay, err := validation.ValidateEssay(text)
		if err != nil {
			return history.Payload{}, err
		}
		level, _ := raw["level"].(string)
		return history.Payload{Essay: &explain.Essay{Text: essay, Level: explain.NormalizeLevel(level)}}, nil
	}

	lesson, err := validation.ValidateLesson(raw["lesson"])
	if err != nil {
		return history.Payload{}, err
	}
	return history.Payload{Lesson: &lesson}, nil
}
