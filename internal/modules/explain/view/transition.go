package view

import (
	"strings"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// Transition applies ev to m and returns the next model plus the effects the
// host must run, in order. It performs no I/O.
func Transition(m Model, ev Event) (Model, []Effect) {
	switch e := ev.(type) {
	case TopicChanged:
		if m.State != StateInput {
			return m, nil
		}
		m.Topic = e.Topic
		return m, nil

	case LevelChanged:
		if m.State != StateInput {
			return m, nil
		}
		m.Level = explain.NormalizeLevel(string(e.Level))
		return m, nil

	case Submit:
		if m.State != StateInput {
			return m, nil
		}
		topic := trimmed(m.Topic)
		if topic == "" {
			return m, []Effect{FocusInput{}}
		}
		return startGeneration(m, topic)

	case GenerationCompleted:
		if m.State != StateLoading || e.Seq != m.Seq {
			return m, nil
		}
		payload, err := DecodeResult(m.Variant, e.Body)
		if err != nil {
			return failGeneration(m)
		}
		topic := m.PendingTopic
		m = showPayload(m, topic, payload, e.At)
		return m, []Effect{
			PersistRecent{Lang: string(m.Lang), Topic: topic, Payload: payload},
			ScrollTop{},
		}

	case GenerationFailed:
		if m.State != StateLoading || e.Seq != m.Seq {
			return m, nil
		}
		return failGeneration(m)

	case Cancel:
		if m.State != StateLoading {
			return m, nil
		}
		cancelled := m.Seq
		m.Seq++
		m.State = StateInput
		m.PendingTopic = ""
		return m, []Effect{CancelGeneration{Seq: cancelled}, FocusInput{}}

	case OpenRecent:
		if m.State != StateInput || e.Index < 0 || e.Index >= len(m.Recent) {
			return m, nil
		}
		entry := m.Recent[e.Index]
		m.Topic = entry.Topic
		if !entry.HasPayload() {
			return startGeneration(m, entry.Topic)
		}
		m = showPayload(m, entry.Topic, entryPayload(entry), entry.SearchedAt)
		return m, []Effect{ScrollTop{}}

	case StartOver:
		if m.State != StateResult {
			return m, nil
		}
		m.State = StateInput
		m.Topic = ""
		m.PendingTopic = ""
		m.Lesson = nil
		m.Essay = nil
		m.ActiveLevel = explain.LessonBeginner
		return m, []Effect{FocusInput{}}

	case SelectLevel:
		if m.State != StateResult || m.Lesson == nil || !e.Level.Valid() {
			return m, nil
		}
		m.ActiveLevel = e.Level
		return m, nil

	case NextLevel:
		if m.State != StateResult || m.Lesson == nil {
			return m, nil
		}
		next, ok := LevelAfter(m.ActiveLevel)
		if !ok {
			return m, nil
		}
		m.ActiveLevel = next
		return m, []Effect{ScrollTop{}}

	case CycleFontSize:
		if m.State != StateResult {
			return m, nil
		}
		m.FontSize = m.FontSize.Next()
		return m, []Effect{ApplyFontSize{Size: m.FontSize}}

	case Print:
		if m.State != StateResult {
			return m, nil
		}
		return m, []Effect{PrintArticle{}}

	case Export:
		if m.State != StateInput || e.Index < 0 || e.Index >= len(m.Recent) {
			return m, nil
		}
		return m, []Effect{ExportEntry{Index: e.Index, Entry: m.Recent[e.Index]}}

	case RecentLoaded:
		if e.Entries == nil {
			m.Recent = []history.Entry{}
		} else {
			m.Recent = e.Entries
		}
		return m, nil
	}
	return m, nil
}

func startGeneration(m Model, topic string) (Model, []Effect) {
	m.Seq++
	m.State = StateLoading
	m.PendingTopic = topic
	req := explain.GenerateRequest{Topic: topic, Lang: string(m.Lang)}
	if m.Variant == explain.VariantEssay {
		req.Level = string(m.Level)
	}
	return m, []Effect{RequestGeneration{Seq: m.Seq, Request: req}}
}

func failGeneration(m Model) (Model, []Effect) {
	m.State = StateInput
	m.PendingTopic = ""
	return m, []Effect{Notify{Message: m.Dict().ErrorMessage}}
}

// showPayload builds the view-model first, then switches to the result state.
func showPayload(m Model, topic string, p history.Payload, at time.Time) Model {
	d := m.Dict()
	m.Lesson = nil
	m.Essay = nil
	if p.Lesson != nil {
		v := NewLessonView(*p.Lesson, at, d)
		m.Lesson = &v
	}
	if p.Essay != nil {
		v := NewEssayView(topic, *p.Essay, d)
		m.Essay = &v
	}
	m.State = StateResult
	m.ActiveLevel = explain.LessonBeginner
	m.PendingTopic = ""
	return m
}

func entryPayload(e history.Entry) history.Payload {
	var p history.Payload
	if e.Lesson != nil {
		l := *e.Lesson
		p.Lesson = &l
	}
	if e.Essay != "" {
		p.Essay = &explain.Essay{Text: e.Essay, Level: explain.NormalizeLevel(string(e.Level))}
	}
	return p
}
