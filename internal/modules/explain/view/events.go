package view

import (
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
)

// Event is user input or a completion fed into Transition.
type Event interface{ isEvent() }

type (
	TopicChanged struct{ Topic string }
	LevelChanged struct{ Level explain.Level }
	Submit       struct{}
	// GenerationCompleted carries the raw response body; it is validated
	// by Transition before anything trusts it.
	GenerationCompleted struct {
		Seq  uint64
		Body []byte
		At   time.Time
	}
	GenerationFailed struct {
		Seq uint64
		Err error
	}
	Cancel        struct{}
	OpenRecent    struct{ Index int }
	StartOver     struct{}
	SelectLevel   struct{ Level explain.LessonLevel }
	NextLevel     struct{}
	CycleFontSize struct{}
	Print         struct{}
	Export        struct{ Index int }
	RecentLoaded  struct{ Entries []history.Entry }
)

func (TopicChanged) isEvent()        {}
func (LevelChanged) isEvent()        {}
func (Submit) isEvent()              {}
func (GenerationCompleted) isEvent() {}
func (GenerationFailed) isEvent()    {}
func (Cancel) isEvent()              {}
func (OpenRecent) isEvent()          {}
func (StartOver) isEvent()           {}
func (SelectLevel) isEvent()         {}
func (NextLevel) isEvent()           {}
func (CycleFontSize) isEvent()       {}
func (Print) isEvent()               {}
func (Export) isEvent()              {}
func (RecentLoaded) isEvent()        {}

// Effect is work Transition asks the host to perform, in order.
type Effect interface{ isEffect() }

type (
	RequestGeneration struct {
		Seq     uint64
		Request explain.GenerateRequest
	}
	CancelGeneration struct{ Seq uint64 }
	PersistRecent    struct {
		Lang    string
		Topic   string
		Payload history.Payload
	}
	Notify        struct{ Message string }
	FocusInput    struct{}
	ScrollTop     struct{}
	ApplyFontSize struct{ Size FontSize }
	PrintArticle  struct{}
	ExportEntry   struct {
		Index int
		Entry history.Entry
	}
)

func (RequestGeneration) isEffect() {}
func (CancelGeneration) isEffect()  {}
func (PersistRecent) isEffect()     {}
func (Notify) isEffect()            {}
func (FocusInput) isEffect()        {}
func (ScrollTop) isEffect()         {}
func (ApplyFontSize) isEffect()     {}
func (PrintArticle) isEffect()      {}
func (ExportEntry) isEffect()       {}
