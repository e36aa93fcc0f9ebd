package view

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
)

const lessonBody = `{"lesson":{"schema_version":"1.0","topic":"Gravity","lesson":{"beginner":"Things fall.","intermediate":"Mass attracts.","advance":"Spacetime curves."}}}`

func mustEffect[T Effect](t *testing.T, effects []Effect, i int) T {
	t.Helper()
	if i >= len(effects) {
		t.Fatalf("effects: want index %d, have %d", i, len(effects))
	}
	e, ok := effects[i].(T)
	if !ok {
		t.Fatalf("effect %d: unexpected type %T", i, effects[i])
	}
	return e
}

func loading(t *testing.T, variant explain.Variant, topic string) (Model, RequestGeneration) {
	t.Helper()
	m := NewModel(locale.EN, variant)
	m, _ = Transition(m, TopicChanged{Topic: topic})
	m, effects := Transition(m, Submit{})
	if m.State != StateLoading {
		t.Fatalf("state: want=loading got=%s", m.State)
	}
	return m, mustEffect[RequestGeneration](t, effects, 0)
}

func TestSubmitBlankTopicRequestsFocus(t *testing.T) {
	m := NewModel(locale.EN, explain.VariantLesson)
	m, _ = Transition(m, TopicChanged{Topic: " \t "})
	next, effects := Transition(m, Submit{})
	if next.State != StateInput || next.Seq != m.Seq {
		t.Fatalf("blank submit changed state: %+v", next)
	}
	mustEffect[FocusInput](t, effects, 0)
	if len(effects) != 1 {
		t.Fatalf("effects: want only focus got=%v", effects)
	}
}

func TestSubmitBuildsRequest(t *testing.T) {
	_, req := loading(t, explain.VariantLesson, "  Gravity ")
	if req.Request.Topic != "Gravity" || req.Request.Lang != "en" || req.Request.Level != "" {
		t.Fatalf("lesson request: %+v", req.Request)
	}

	m := NewModel(locale.VI, explain.VariantEssay)
	m, _ = Transition(m, LevelChanged{Level: explain.LevelAdvanced})
	m, _ = Transition(m, TopicChanged{Topic: "Thủy triều"})
	_, effects := Transition(m, Submit{})
	r := mustEffect[RequestGeneration](t, effects, 0)
	if r.Request.Lang != "vi" || r.Request.Level != "advanced" {
		t.Fatalf("essay request: %+v", r.Request)
	}
}

func TestCompletionShowsResultAndPersists(t *testing.T) {
	m, req := loading(t, explain.VariantLesson, "gravity")
	m.ActiveLevel = explain.LessonAdvance
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	m, effects := Transition(m, GenerationCompleted{Seq: req.Seq, Body: []byte(lessonBody), At: at})
	if m.State != StateResult || m.Lesson == nil {
		t.Fatalf("state: want result with lesson got=%s", m.State)
	}
	if m.ActiveLevel != explain.LessonBeginner {
		t.Fatalf("active level: want beginner got=%q", m.ActiveLevel)
	}
	p := mustEffect[PersistRecent](t, effects, 0)
	if p.Topic != "gravity" || p.Lang != "en" || p.Payload.Lesson == nil {
		t.Fatalf("persist: %+v", p)
	}
	mustEffect[ScrollTop](t, effects, 1)
}

func TestCompletionRejectedByValidator(t *testing.T) {
	m, req := loading(t, explain.VariantLesson, "X")
	bad := `{"lesson":{"schema_version":"1.0","topic":"X","lesson":{"beginner":"","intermediate":"ok","advance":"ok"}}}`
	m, effects := Transition(m, GenerationCompleted{Seq: req.Seq, Body: []byte(bad)})
	if m.State != StateInput || m.Lesson != nil {
		t.Fatalf("state: want input got=%s", m.State)
	}
	n := mustEffect[Notify](t, effects, 0)
	if n.Message != locale.Get(locale.EN).ErrorMessage {
		t.Fatalf("notify: got=%q", n.Message)
	}
	if len(effects) != 1 {
		t.Fatalf("rejected payload must not persist: %v", effects)
	}
}

func TestEssayCompletionBlankRejected(t *testing.T) {
	m, req := loading(t, explain.VariantEssay, "Tides")
	m, effects := Transition(m, GenerationCompleted{Seq: req.Seq, Body: []byte(`{"essay":"   ","level":"beginner"}`)})
	if m.State != StateInput {
		t.Fatalf("state: want input got=%s", m.State)
	}
	mustEffect[Notify](t, effects, 0)
}

func TestFailureReturnsToInput(t *testing.T) {
	m, req := loading(t, explain.VariantLesson, "Gravity")
	m, effects := Transition(m, GenerationFailed{Seq: req.Seq, Err: errors.New("boom")})
	if m.State != StateInput {
		t.Fatalf("state: want input got=%s", m.State)
	}
	mustEffect[Notify](t, effects, 0)
}

func TestCancelMakesCompletionStale(t *testing.T) {
	m, req := loading(t, explain.VariantLesson, "Gravity")
	m, effects := Transition(m, Cancel{})
	if m.State != StateInput {
		t.Fatalf("state: want input got=%s", m.State)
	}
	c := mustEffect[CancelGeneration](t, effects, 0)
	if c.Seq != req.Seq {
		t.Fatalf("cancel seq: want=%d got=%d", req.Seq, c.Seq)
	}

	m, effects = Transition(m, GenerationCompleted{Seq: req.Seq, Body: []byte(lessonBody)})
	if m.State != StateInput || m.Lesson != nil || len(effects) != 0 {
		t.Fatalf("stale completion applied: state=%s effects=%v", m.State, effects)
	}
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	m, req := loading(t, explain.VariantLesson, "Gravity")
	next, effects := Transition(m, Submit{})
	if next.Seq != req.Seq || len(effects) != 0 {
		t.Fatalf("second submit while loading: seq=%d effects=%v", next.Seq, effects)
	}
}

func resultModel(t *testing.T) Model {
	t.Helper()
	m, req := loading(t, explain.VariantLesson, "Gravity")
	m, _ = Transition(m, GenerationCompleted{Seq: req.Seq, Body: []byte(lessonBody)})
	return m
}

func TestLevelNavigation(t *testing.T) {
	m := resultModel(t)
	m, effects := Transition(m, NextLevel{})
	if m.ActiveLevel != explain.LessonIntermediate {
		t.Fatalf("next: want intermediate got=%q", m.ActiveLevel)
	}
	mustEffect[ScrollTop](t, effects, 0)
	m, _ = Transition(m, NextLevel{})
	m, effects = Transition(m, NextLevel{})
	if m.ActiveLevel != explain.LessonAdvance || len(effects) != 0 {
		t.Fatalf("past final level: level=%q effects=%v", m.ActiveLevel, effects)
	}
	m, _ = Transition(m, SelectLevel{Level: explain.LessonBeginner})
	if m.ActiveLevel != explain.LessonBeginner {
		t.Fatalf("select: want beginner got=%q", m.ActiveLevel)
	}
	m, _ = Transition(m, SelectLevel{Level: "advanced"})
	if m.ActiveLevel != explain.LessonBeginner {
		t.Fatalf("invalid select applied: %q", m.ActiveLevel)
	}
}

func TestFontSizeCyclesAndPrint(t *testing.T) {
	m := resultModel(t)
	if m.FontSize != FontMedium {
		t.Fatalf("default font: want medium got=%s", m.FontSize)
	}
	want := []FontSize{FontLarge, FontSmall, FontMedium}
	for _, w := range want {
		var effects []Effect
		m, effects = Transition(m, CycleFontSize{})
		if m.FontSize != w || mustEffect[ApplyFontSize](t, effects, 0).Size != w {
			t.Fatalf("font: want=%s got=%s", w, m.FontSize)
		}
	}
	_, effects := Transition(m, Print{})
	mustEffect[PrintArticle](t, effects, 0)
}

func TestStartOverClearsResult(t *testing.T) {
	m := resultModel(t)
	m, effects := Transition(m, StartOver{})
	if m.State != StateInput || m.Lesson != nil || m.Topic != "" {
		t.Fatalf("start over: %+v", m)
	}
	mustEffect[FocusInput](t, effects, 0)
}

func TestOpenRecentWithoutPayloadRequestsGeneration(t *testing.T) {
	m := NewModel(locale.EN, explain.VariantLesson)
	m, _ = Transition(m, RecentLoaded{Entries: []history.Entry{{Topic: "Old topic", SearchedAt: time.Now()}}})
	m, effects := Transition(m, OpenRecent{Index: 0})
	if m.State != StateLoading {
		t.Fatalf("state: want loading got=%s", m.State)
	}
	if r := mustEffect[RequestGeneration](t, effects, 0); r.Request.Topic != "Old topic" {
		t.Fatalf("request topic: got=%q", r.Request.Topic)
	}
}

func TestExportAndOutOfRange(t *testing.T) {
	m := NewModel(locale.EN, explain.VariantLesson)
	m, _ = Transition(m, RecentLoaded{Entries: []history.Entry{{Topic: "A"}, {Topic: "B"}}})
	_, effects := Transition(m, Export{Index: 1})
	if e := mustEffect[ExportEntry](t, effects, 0); e.Index != 1 || e.Entry.Topic != "B" {
		t.Fatalf("export: %+v", e)
	}
	for _, ev := range []Event{Export{Index: 2}, OpenRecent{Index: -1}} {
		next, effects := Transition(m, ev)
		if len(effects) != 0 || next.State != StateInput {
			t.Fatalf("%T out of range: effects=%v", ev, effects)
		}
	}
}
