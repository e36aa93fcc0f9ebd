package prompts

import "github.com/yungbote/simple-explain/internal/locale"

func init() {
	RegisterAll()
}

func topicOf(in Input) string { return in.Topic }

// RegisterAll registers every explain prompt.
func RegisterAll() {
	RegisterSpec(Spec{
		Name:       PromptLesson,
		Version:    1,
		SchemaName: "explain_lesson_v1",
		Schema:     LessonSchema,
		System: `You are a patient teacher who explains one topic at three depths.
Keep every level self-contained and factually careful.`,
		User:       func(d *locale.Dictionary) string { return d.LessonPrompt },
		Validators: []Validator{RequireNonEmpty("topic", topicOf)},
	})

	RegisterSpec(Spec{
		Name:       PromptEssay,
		Version:    1,
		System:     `You are a patient teacher who writes short explanatory essays.`,
		User:       func(d *locale.Dictionary) string { return d.Prompt },
		Validators: []Validator{RequireNonEmpty("topic", topicOf)},
	})
}
