package explain

import "strings"

// Variant selects which payload shape the generator produces.
type Variant string

const (
	VariantLesson Variant = "lesson"
	VariantEssay  Variant = "essay"
)

func (v Variant) Valid() bool {
	return v == VariantLesson || v == VariantEssay
}

// Level is the requested depth for the essay variant.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// NormalizeLevel maps unknown or missing values to intermediate.
func NormalizeLevel(value string) Level {
	switch Level(strings.TrimSpace(value)) {
	case LevelBeginner:
		return LevelBeginner
	case LevelAdvanced:
		return LevelAdvanced
	default:
		return LevelIntermediate
	}
}

// LessonLevel names one section of a structured lesson. The wire key for the
// last level is "advance", not "advanced".
type LessonLevel string

const (
	LessonBeginner     LessonLevel = "beginner"
	LessonIntermediate LessonLevel = "intermediate"
	LessonAdvance      LessonLevel = "advance"
)

var LessonLevels = []LessonLevel{LessonBeginner, LessonIntermediate, LessonAdvance}

func (l LessonLevel) Valid() bool {
	for _, v := range LessonLevels {
		if v == l {
			return true
		}
	}
	return false
}

// Index returns the position of l in LessonLevels, or -1.
func (l LessonLevel) Index() int {
	for i, v := range LessonLevels {
		if v == l {
			return i
		}
	}
	return -1
}

const LessonSchemaVersion = "1.0"

type LessonBody struct {
	Beginner     string `json:"beginner"`
	Intermediate string `json:"intermediate"`
	Advance      string `json:"advance"`
}

func (b LessonBody) Text(level LessonLevel) string {
	switch level {
	case LessonBeginner:
		return b.Beginner
	case LessonIntermediate:
		return b.Intermediate
	case LessonAdvance:
		return b.Advance
	default:
		return ""
	}
}

// Lesson is the structured three-level payload.
type Lesson struct {
	SchemaVersion string     `json:"schema_version"`
	Topic         string     `json:"topic"`
	Lesson        LessonBody `json:"lesson"`
}

// EmptyLesson is the export skeleton for history entries that carry no cached lesson.
func EmptyLesson(topic string) Lesson {
	return Lesson{SchemaVersion: LessonSchemaVersion, Topic: topic}
}

// Essay is the freeform payload plus the level it was generated for.
type Essay struct {
	Text  string `json:"essay"`
	Level Level  `json:"level,omitempty"`
}

type GenerateRequest struct {
	Topic string `json:"topic"`
	Lang  string `json:"lang"`
	Level string `json:"level,omitempty"`
}

type GenerateResponse struct {
	Lesson *Lesson `json:"lesson,omitempty"`
	Essay  *string `json:"essay,omitempty"`
	Level  Level   `json:"level,omitempty"`
}
