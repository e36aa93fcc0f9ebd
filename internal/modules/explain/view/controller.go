package view

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

// Generator returns the raw response body of a generation request.
type Generator interface {
	Generate(ctx context.Context, req explain.GenerateRequest) ([]byte, error)
}

// Recents is the recent-searches store the controller reads and writes.
// *history.Cache satisfies it.
type Recents interface {
	Lookup(ctx context.Context, lang string) []history.Entry
	Upsert(ctx context.Context, lang string, topic string, p history.Payload) []history.Entry
}

// Host performs the presentation side effects. Implementations must not
// call back into the controller.
type Host interface {
	Notify(message string)
	FocusInput()
	ScrollTop()
	ApplyFontSize(size FontSize)
	Print(m Model) error
}

type NopHost struct{}

func (NopHost) Notify(string)          {}
func (NopHost) FocusInput()            {}
func (NopHost) ScrollTop()             {}
func (NopHost) ApplyFontSize(FontSize) {}
func (NopHost) Print(Model) error      { return nil }

type ControllerConfig struct {
	Lang      locale.Lang
	Variant   explain.Variant
	Generator Generator
	Recents   Recents
	Saver     history.Saver
	Host      Host
	Now       func() time.Time
}

// Controller runs Transition and executes the effects it returns. At most
// one generation is outstanding; its completion is fed back as an event.
type Controller struct {
	log   *logger.Logger
	gen   Generator
	rec   Recents
	saver history.Saver
	host  Host
	now   func() time.Time

	mu       sync.Mutex
	model    Model
	inflight map[uint64]context.CancelFunc
	wg       sync.WaitGroup
}

func NewController(log *logger.Logger, cfg ControllerConfig) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Host == nil {
		cfg.Host = NopHost{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		log:      log.With("service", "ViewController"),
		gen:      cfg.Generator,
		rec:      cfg.Recents,
		saver:    cfg.Saver,
		host:     cfg.Host,
		now:      cfg.Now,
		model:    NewModel(cfg.Lang, cfg.Variant),
		inflight: map[uint64]context.CancelFunc{},
	}
}

// Load reads the recent list for the current language.
func (c *Controller) Load(ctx context.Context) Model {
	var entries []history.Entry
	if c.rec != nil {
		entries = c.rec.Lookup(ctx, string(c.Model().Lang))
	}
	return c.Dispatch(ctx, RecentLoaded{Entries: entries})
}

func (c *Controller) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Wait blocks until no generation is running.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Dispatch applies ev and every event its effects produce, then returns the
// resulting model.
func (c *Controller) Dispatch(ctx context.Context, ev Event) Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		var effects []Effect
		c.model, effects = Transition(c.model, next)
		for _, eff := range effects {
			queue = append(queue, c.run(ctx, eff)...)
		}
	}
	return c.model
}

func (c *Controller) run(ctx context.Context, eff Effect) []Event {
	switch e := eff.(type) {
	case RequestGeneration:
		c.startRequest(ctx, e)
	case CancelGeneration:
		if cancel, ok := c.inflight[e.Seq]; ok {
			cancel()
			delete(c.inflight, e.Seq)
		}
	case PersistRecent:
		if c.rec == nil {
			return nil
		}
		entries := c.rec.Upsert(ctx, e.Lang, e.Topic, e.Payload)
		return []Event{RecentLoaded{Entries: entries}}
	case Notify:
		c.host.Notify(e.Message)
	case FocusInput:
		c.host.FocusInput()
	case ScrollTop:
		c.host.ScrollTop()
	case ApplyFontSize:
		c.host.ApplyFontSize(e.Size)
	case PrintArticle:
		if err := c.host.Print(c.model); err != nil {
			c.log.Warn("print failed", "error", err)
		}
	case ExportEntry:
		c.export(ctx, e)
	}
	return nil
}

func (c *Controller) startRequest(ctx context.Context, e RequestGeneration) {
	if c.gen == nil {
		c.log.Error("no generator configured")
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.Dispatch(context.WithoutCancel(ctx), GenerationFailed{Seq: e.Seq})
		}()
		return
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.inflight[e.Seq] = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		body, err := c.gen.Generate(reqCtx, e.Request)

		c.mu.Lock()
		delete(c.inflight, e.Seq)
		c.mu.Unlock()
		cancel()

		follow := context.WithoutCancel(ctx)
		if err != nil {
			c.log.Warn("generation failed", "topic", e.Request.Topic, "seq", e.Seq, "error", err)
			c.Dispatch(follow, GenerationFailed{Seq: e.Seq, Err: err})
			return
		}
		c.Dispatch(follow, GenerationCompleted{Seq: e.Seq, Body: body, At: c.now()})
	}()
}

func (c *Controller) export(ctx context.Context, e ExportEntry) {
	if c.saver == nil {
		c.log.Warn("export requested without a saver")
		return
	}
	file, err := history.Export(c.model.Variant, string(c.model.Lang), e.Index, e.Entry, c.now())
	if err != nil {
		c.log.Warn("export encode failed", "error", err)
		c.host.Notify(c.model.Dict().ErrorMessage)
		return
	}
	if err := c.saver.Save(ctx, file); err != nil {
		c.log.Warn("export save failed", "file", file.Name, "error", err)
		c.host.Notify(c.model.Dict().ErrorMessage)
	}
}
