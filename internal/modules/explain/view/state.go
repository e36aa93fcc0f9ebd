package view

import (
	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
)

type State int

const (
	StateInput State = iota
	StateLoading
	StateResult
)

func (s State) String() string {
	switch s {
	case StateInput:
		return "input"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

type FontSize int

const (
	FontSmall FontSize = iota
	FontMedium
	FontLarge
)

var fontSizeNames = [...]string{"small", "medium", "large"}

func (f FontSize) Next() FontSize {
	return (f + 1) % FontSize(len(fontSizeNames))
}

func (f FontSize) String() string {
	if f < 0 || int(f) >= len(fontSizeNames) {
		return "medium"
	}
	return fontSizeNames[f]
}

// Model is everything the controller renders from.
type Model struct {
	State   State
	Lang    locale.Lang
	Variant explain.Variant

	// Topic is the input field; Level is the requested essay depth.
	Topic string
	Level explain.Level

	// Seq identifies the outstanding request. Completions carrying any
	// other value are stale.
	Seq          uint64
	PendingTopic string

	Lesson      *LessonView
	Essay       *EssayView
	ActiveLevel explain.LessonLevel
	FontSize    FontSize

	Recent []history.Entry
}

// NewModel returns the initial input-state model.
func NewModel(lang locale.Lang, variant explain.Variant) Model {
	if !variant.Valid() {
		variant = explain.VariantLesson
	}
	return Model{
		State:       StateInput,
		Lang:        locale.Normalize(string(lang)),
		Variant:     variant,
		Level:       explain.LevelIntermediate,
		ActiveLevel: explain.LessonBeginner,
		FontSize:    FontMedium,
		Recent:      []history.Entry{},
	}
}

func (m Model) Dict() *locale.Dictionary {
	return locale.Get(m.Lang)
}

// CurrentLevel is the lesson level on screen.
func (m Model) CurrentLevel() (LevelView, bool) {
	if m.Lesson == nil {
		return LevelView{}, false
	}
	return m.Lesson.Level(m.ActiveLevel), true
}

// CanGenerate mirrors the enabled state of the generate button.
func (m Model) CanGenerate() bool {
	return m.State == StateInput && trimmed(m.Topic) != ""
}
