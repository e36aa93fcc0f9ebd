package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/modules/explain/view"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("246"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("62"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	articleBox   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// Text width per font size; larger type means fewer columns.
var fontWidths = map[view.FontSize]int{
	view.FontSmall:  100,
	view.FontMedium: 80,
	view.FontLarge:  60,
}

// renderer draws the controller model in a terminal and is its view.Host.
type renderer struct {
	mu        sync.Mutex
	out       io.Writer
	dict      *locale.Dictionary
	size      view.FontSize
	allLevels bool
}

func newRenderer(out io.Writer, lang locale.Lang, allLevels bool) *renderer {
	return &renderer{out: out, dict: locale.Get(lang), size: view.FontMedium, allLevels: allLevels}
}

func (r *renderer) width() int {
	if w, ok := fontWidths[r.size]; ok {
		return w
	}
	return fontWidths[view.FontMedium]
}

func (r *renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, s)
}

func (r *renderer) Notify(message string) {
	r.println(errorStyle.Render(message))
}

func (r *renderer) FocusInput() {
	r.println(hintStyle.Render(r.dict.Input.Placeholder))
}

func (r *renderer) ScrollTop() {}

func (r *renderer) ApplyFontSize(size view.FontSize) {
	r.mu.Lock()
	r.size = size
	r.mu.Unlock()
	r.println(metaStyle.Render(fmt.Sprintf("%s: %s (%d columns)", r.dict.Article.FontSizeTitle, size, r.width())))
}

// Print writes the article without terminal styling.
func (r *renderer) Print(m view.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.out, plainArticle(m, r.allLevels)+"\n")
	return err
}

func (r *renderer) Loading() {
	r.println(hintStyle.Render(r.dict.Loading.Text))
}

func (r *renderer) Header() string {
	return titleStyle.Render(r.dict.Header.Logo) + "  " + metaStyle.Render(r.dict.Header.Tagline)
}

// Recent renders the numbered recent-searches list.
func (r *renderer) Recent(entries []history.Entry) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(r.dict.Recent.Heading))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(metaStyle.Render(r.dict.Recent.Empty))
		return b.String()
	}
	for i, e := range entries {
		marker := " "
		if e.HasPayload() {
			marker = "•"
		}
		fmt.Fprintf(&b, "%2d. %s %s  %s\n", i+1, marker, e.Topic, metaStyle.Render(r.dict.FormatDateTime(e.SearchedAt.Local())))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Article renders the result screen for m.
func (r *renderer) Article(m view.Model) string {
	r.mu.Lock()
	width := r.width()
	r.mu.Unlock()
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	switch {
	case m.Lesson != nil:
		l := m.Lesson
		b.WriteString(titleStyle.Render(l.Title))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(fmt.Sprintf("%s %s · %s %d %s · v%s",
			r.dict.Lesson.GeneratedOn, l.GeneratedDate, r.dict.Lesson.TotalWords, l.TotalWords, r.dict.Lesson.WordsSuffix, l.SchemaVersion)))
		b.WriteString("\n\n")

		tabs := make([]string, 0, len(l.Levels))
		for i, lv := range l.Levels {
			label := strconv.Itoa(i+1) + " " + lv.Label
			if lv.Key == m.ActiveLevel {
				tabs = append(tabs, activeTabStyle.Render(label))
			} else {
				tabs = append(tabs, tabStyle.Render(label))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n\n")

		levels := []view.LevelView{l.Level(m.ActiveLevel)}
		if r.allLevels {
			levels = l.Levels
		}
		for _, lv := range levels {
			if r.allLevels {
				b.WriteString(headingStyle.Render(lv.Label))
				b.WriteString("\n")
			}
			for _, p := range lv.Paragraphs {
				b.WriteString(body.Render(p))
				b.WriteString("\n\n")
			}
		}
		if _, ok := view.LevelAfter(m.ActiveLevel); ok && !r.allLevels {
			b.WriteString(hintStyle.Render("→ " + r.dict.Lesson.ContinueToNext))
		} else {
			b.WriteString(hintStyle.Render(r.dict.Lesson.FinalLevel))
		}
	case m.Essay != nil:
		e := m.Essay
		b.WriteString(titleStyle.Render(e.Title))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(fmt.Sprintf("%s · %d %s · %d %s",
			levelName(r.dict, e.Level), e.WordCount, r.dict.Lesson.WordsSuffix, e.ReadingMinutes, r.dict.Article.MinRead)))
		b.WriteString("\n\n")
		for _, p := range e.Paragraphs {
			b.WriteString(body.Render(p))
			b.WriteString("\n\n")
		}
	default:
		return ""
	}
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(r.dict.Article.Footer))
	return articleBox.Render(b.String())
}

func levelName(d *locale.Dictionary, l explain.Level) string {
	switch l {
	case explain.LevelBeginner:
		return d.Input.BeginnerLevel
	case explain.LevelAdvanced:
		return d.Input.AdvancedLevel
	default:
		return d.Input.IntermediateLevel
	}
}

func plainArticle(m view.Model, allLevels bool) string {
	var b strings.Builder
	switch {
	case m.Lesson != nil:
		b.WriteString(m.Lesson.Title + "\n\n")
		levels := []view.LevelView{m.Lesson.Level(m.ActiveLevel)}
		if allLevels {
			levels = m.Lesson.Levels
		}
		for _, lv := range levels {
			b.WriteString(lv.Label + "\n\n")
			b.WriteString(strings.Join(lv.Paragraphs, "\n\n"))
			b.WriteString("\n\n")
		}
	case m.Essay != nil:
		b.WriteString(m.Essay.Title + "\n\n")
		b.WriteString(strings.Join(m.Essay.Paragraphs, "\n\n"))
	}
	return strings.TrimRight(b.String(), "\n")
}
