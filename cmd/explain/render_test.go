package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/modules/explain/view"
)

func lessonModel(active explain.LessonLevel) view.Model {
	m := view.NewModel(locale.EN, explain.VariantLesson)
	lv := view.NewLessonView(explain.Lesson{
		SchemaVersion: "1.0",
		Topic:         "Black Holes",
		Lesson: explain.LessonBody{
			Beginner:     "Gravity wins.",
			Intermediate: "Mass bends space.\n\nLight cannot escape.",
			Advance:      "Event horizons.",
		},
	}, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), m.Dict())
	m.State = view.StateResult
	m.Lesson = &lv
	m.ActiveLevel = active
	return m
}

func TestRendererFontWidths(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, locale.EN, false)
	if r.width() != 80 {
		t.Fatalf("default width: want=80 got=%d", r.width())
	}
	r.ApplyFontSize(view.FontLarge)
	if r.width() != 60 {
		t.Fatalf("large width: want=60 got=%d", r.width())
	}
	r.ApplyFontSize(view.FontSmall)
	if r.width() != 100 {
		t.Fatalf("small width: want=100 got=%d", r.width())
	}
}

func TestRendererLessonArticle(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, locale.EN, false)
	d := locale.Get(locale.EN)

	out := r.Article(lessonModel(explain.LessonIntermediate))
	for _, want := range []string{"Black Holes", "Mass bends space.", "Light cannot escape.", d.Lesson.ContinueToNext} {
		if !strings.Contains(out, want) {
			t.Fatalf("article missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Gravity wins.") {
		t.Fatalf("article shows an inactive level:\n%s", out)
	}

	out = r.Article(lessonModel(explain.LessonAdvance))
	if !strings.Contains(out, d.Lesson.FinalLevel) {
		t.Fatalf("last level should show the final hint:\n%s", out)
	}
}

func TestRendererAllLevels(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, locale.EN, true)
	out := r.Article(lessonModel(explain.LessonBeginner))
	for _, want := range []string{"Gravity wins.", "Mass bends space.", "Event horizons."} {
		if !strings.Contains(out, want) {
			t.Fatalf("article missing %q:\n%s", want, out)
		}
	}
}

func TestRendererEssayArticle(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, locale.EN, false)
	m := view.NewModel(locale.EN, explain.VariantEssay)
	ev := view.NewEssayView("Tides", explain.Essay{Text: "The moon pulls.\\n\\nOceans bulge.", Level: explain.LevelBeginner}, m.Dict())
	m.State = view.StateResult
	m.Essay = &ev

	out := r.Article(m)
	for _, want := range []string{"Tides", "The moon pulls.", "Oceans bulge.", m.Dict().Input.BeginnerLevel} {
		if !strings.Contains(out, want) {
			t.Fatalf("essay missing %q:\n%s", want, out)
		}
	}
	if got := r.Article(view.NewModel(locale.EN, explain.VariantEssay)); got != "" {
		t.Fatalf("empty model: want empty output got=%q", got)
	}
}

func TestRendererRecent(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, locale.EN, false)
	d := locale.Get(locale.EN)

	if out := r.Recent(nil); !strings.Contains(out, d.Recent.Empty) {
		t.Fatalf("empty list: want %q got=%q", d.Recent.Empty, out)
	}

	at := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	out := r.Recent([]history.Entry{
		{Topic: "Black Holes", SearchedAt: at, Essay: "cached"},
		{Topic: "Tides", SearchedAt: at},
	})
	if !strings.Contains(out, " 1. • Black Holes") {
		t.Fatalf("first entry should be numbered and marked:\n%s", out)
	}
	if !strings.Contains(out, " 2.   Tides") {
		t.Fatalf("second entry should be numbered and unmarked:\n%s", out)
	}
}

func TestRendererPrintIsPlain(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf, locale.EN, false)
	if err := r.Print(lessonModel(explain.LessonBeginner)); err != nil {
		t.Fatalf("Print: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "Black Holes\n\n") || !strings.Contains(got, "Gravity wins.") {
		t.Fatalf("print output: got=%q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("print output contains escape codes: %q", got)
	}
}

func TestParsePosition(t *testing.T) {
	if got, err := parsePosition(" 2 ", 3); err != nil || got != 1 {
		t.Fatalf("parsePosition(2): want=1 got=%d err=%v", got, err)
	}
	for _, arg := range []string{"0", "4", "x", ""} {
		if _, err := parsePosition(arg, 3); err == nil {
			t.Fatalf("parsePosition(%q): want error", arg)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	base := options{lang: "en", variant: "lesson", history: historyLocal, store: "file"}
	if err := base.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	withID := base
	withID.clientID = "laptop_client-01"
	if err := withID.validate(); err != nil {
		t.Fatalf("validate with client id: %v", err)
	}
	bad := map[string]func(o *options){
		"lang":    func(o *options) { o.lang = "fr" },
		"variant": func(o *options) { o.variant = "poem" },
		"history": func(o *options) { o.history = "cloud" },
		"store":   func(o *options) { o.store = "redis" },
		"client":  func(o *options) { o.clientID = "has spaces" },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			o := base
			mutate(&o)
			if err := o.validate(); err == nil {
				t.Fatalf("want error")
			}
		})
	}
}
