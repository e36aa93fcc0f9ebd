package view

import (
	"reflect"
	"testing"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
)

func TestToDisplayParagraphs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"One.", []string{"One."}},
		{"One.\n\nTwo.", []string{"One.", "Two."}},
		{`One.\n\nTwo.`, []string{"One.", "Two."}},
		{"One.\n  \n\nTwo.\nstill two", []string{"One.", "Two.\nstill two"}},
	}
	for _, tc := range cases {
		got := ToDisplayParagraphs(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ToDisplayParagraphs(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestReadingMinutes(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 200: 1, 201: 2, 1000: 5}
	for words, want := range cases {
		if got := ReadingMinutes(words); got != want {
			t.Fatalf("ReadingMinutes(%d): want=%d got=%d", words, want, got)
		}
	}
}

func TestNewLessonView(t *testing.T) {
	l := explain.Lesson{
		SchemaVersion: "1.0",
		Topic:         "Gravity",
		Lesson: explain.LessonBody{
			Beginner:     "Things fall down.",
			Intermediate: "Mass attracts mass.\n\nAlways.",
			Advance:      "Curved spacetime.",
		},
	}
	at := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	v := NewLessonView(l, at, locale.Get(locale.EN))

	if v.Title != "Gravity" || v.SchemaVersion != "1.0" {
		t.Fatalf("header: %+v", v)
	}
	if v.GeneratedDate != "March 5, 2024" {
		t.Fatalf("generated date: want=%q got=%q", "March 5, 2024", v.GeneratedDate)
	}
	if v.TotalWords != 3+4+2 {
		t.Fatalf("total words: want=9 got=%d", v.TotalWords)
	}
	if len(v.Levels) != 3 || v.Levels[2].Key != explain.LessonAdvance {
		t.Fatalf("levels: %+v", v.Levels)
	}
	if got := v.Level(explain.LessonIntermediate).Paragraphs; len(got) != 2 {
		t.Fatalf("intermediate paragraphs: want=2 got=%d", len(got))
	}
	if got := v.Level("bogus").Key; got != explain.LessonBeginner {
		t.Fatalf("unknown level fallback: want=beginner got=%q", got)
	}
}

func TestNewEssayView(t *testing.T) {
	v := NewEssayView("Tides", explain.Essay{Text: "The moon pulls.\n\nWater moves.", Level: explain.LevelBeginner}, locale.Get(locale.EN))
	if v.Title != "Understanding Tides" {
		t.Fatalf("title: want=%q got=%q", "Understanding Tides", v.Title)
	}
	if v.WordCount != 5 || v.ReadingMinutes != 1 || len(v.Paragraphs) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestNextLevel(t *testing.T) {
	if next, ok := LevelAfter(explain.LessonBeginner); !ok || next != explain.LessonIntermediate {
		t.Fatalf("after beginner: got=%q ok=%v", next, ok)
	}
	if _, ok := LevelAfter(explain.LessonAdvance); ok {
		t.Fatalf("advance is the final level")
	}
}
