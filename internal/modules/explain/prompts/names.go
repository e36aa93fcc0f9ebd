package prompts

type PromptName string

const (
	PromptLesson PromptName = "explain_lesson"
	PromptEssay  PromptName = "explain_essay"
)
