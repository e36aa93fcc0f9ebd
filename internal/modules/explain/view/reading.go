package view

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
)

const wordsPerMinute = 200

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// ToDisplayParagraphs turns model text into paragraphs. Literal "\n"
// sequences are treated as newlines; blank lines separate paragraphs.
func ToDisplayParagraphs(value string) []string {
	normalized := strings.TrimSpace(strings.ReplaceAll(value, `\n`, "\n"))
	if normalized == "" {
		return []string{}
	}
	parts := paragraphBreak.Split(normalized, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func CountWords(value string) int {
	return len(strings.Fields(value))
}

// ReadingMinutes estimates reading time at 200 words per minute, never
// less than one minute.
func ReadingMinutes(words int) int {
	m := int(math.Ceil(float64(words) / wordsPerMinute))
	if m < 1 {
		return 1
	}
	return m
}

type LevelView struct {
	Key        explain.LessonLevel `json:"key"`
	Label      string              `json:"label"`
	WordCount  int                 `json:"wordCount"`
	Paragraphs []string            `json:"paragraphs"`
}

type LessonView struct {
	Title         string      `json:"title"`
	GeneratedDate string      `json:"generatedDate"`
	TotalWords    int         `json:"totalWords"`
	SchemaVersion string      `json:"schemaVersion"`
	Levels        []LevelView `json:"levels"`
}

func levelLabel(d *locale.Dictionary, l explain.LessonLevel) string {
	switch l {
	case explain.LessonBeginner:
		return d.Lesson.BeginnerLabel
	case explain.LessonIntermediate:
		return d.Lesson.IntermediateLabel
	default:
		return d.Lesson.AdvanceLabel
	}
}

func NewLessonView(l explain.Lesson, generatedAt time.Time, d *locale.Dictionary) LessonView {
	v := LessonView{
		Title:         l.Topic,
		GeneratedDate: d.FormatLongDate(generatedAt),
		SchemaVersion: l.SchemaVersion,
		Levels:        make([]LevelView, 0, len(explain.LessonLevels)),
	}
	for _, key := range explain.LessonLevels {
		text := l.Lesson.Text(key)
		lv := LevelView{
			Key:        key,
			Label:      levelLabel(d, key),
			WordCount:  CountWords(text),
			Paragraphs: ToDisplayParagraphs(text),
		}
		v.TotalWords += lv.WordCount
		v.Levels = append(v.Levels, lv)
	}
	return v
}

// Level returns the view for key, falling back to the first level.
func (v LessonView) Level(key explain.LessonLevel) LevelView {
	for _, lv := range v.Levels {
		if lv.Key == key {
			return lv
		}
	}
	if len(v.Levels) > 0 {
		return v.Levels[0]
	}
	return LevelView{}
}

// LevelAfter returns the level after key and whether there is one.
func LevelAfter(key explain.LessonLevel) (explain.LessonLevel, bool) {
	i := key.Index()
	if i < 0 || i >= len(explain.LessonLevels)-1 {
		return "", false
	}
	return explain.LessonLevels[i+1], true
}

type EssayView struct {
	Title          string        `json:"title"`
	Level          explain.Level `json:"level"`
	Paragraphs     []string      `json:"paragraphs"`
	WordCount      int           `json:"wordCount"`
	ReadingMinutes int           `json:"readingMinutes"`
}

func NewEssayView(topic string, e explain.Essay, d *locale.Dictionary) EssayView {
	words := CountWords(e.Text)
	return EssayView{
		Title:          strings.TrimSpace(d.Article.TitlePrefix + " " + topic),
		Level:          e.Level,
		Paragraphs:     ToDisplayParagraphs(e.Text),
		WordCount:      words,
		ReadingMinutes: ReadingMinutes(words),
	}
}
