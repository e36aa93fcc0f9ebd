package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yungbote/simple-explain/internal/clients/explainapi"
	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/modules/explain/view"
	"github.com/yungbote/simple-explain/internal/platform/ctxutil"
	"github.com/yungbote/simple-explain/internal/platform/kv"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

type options struct {
	server    string
	clientID  string
	lang      string
	variant   string
	level     string
	timeout   time.Duration
	history   string
	store     string
	dataDir   string
	outDir    string
	logMode   string
	allLevels bool
}

const (
	historyLocal  = "local"
	historyServer = "server"
)

// session is one controller plus everything it talks to.
type session struct {
	log      *logger.Logger
	ctrl     *view.Controller
	renderer *renderer
	client   *explainapi.Client
	store    kv.Store
}

func (o *options) validate() error {
	if _, ok := locale.Parse(o.lang); !ok {
		return fmt.Errorf("unsupported language %q (want en or vi)", o.lang)
	}
	if !explain.Variant(o.variant).Valid() {
		return fmt.Errorf("unsupported variant %q (want lesson or essay)", o.variant)
	}
	if o.clientID != "" && !ctxutil.ValidClientID(o.clientID) {
		return fmt.Errorf("invalid client id %q (want 8-64 of A-Z a-z 0-9 _ -)", o.clientID)
	}
	switch o.history {
	case historyLocal, historyServer:
	default:
		return fmt.Errorf("unsupported history mode %q (want local or server)", o.history)
	}
	switch o.store {
	case kv.DriverFile, kv.DriverSQLite:
	default:
		return fmt.Errorf("unsupported store %q (want file or sqlite)", o.store)
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "simple-explain")
	}
	return ".simple-explain"
}

func newSession(ctx context.Context, o *options, out io.Writer) (*session, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	log, err := logger.New(o.logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := explainapi.New(explainapi.Options{
		BaseURL:    o.server,
		ClientID:   o.clientID,
		Timeout:    o.timeout,
		MaxRetries: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	s := &session{log: log, client: client}
	var recents view.Recents
	if o.history == historyServer {
		recents = explainapi.NewRemoteHistory(client, log)
	} else {
		opts := kv.Options{Driver: o.store, Path: o.dataDir}
		if o.store == kv.DriverSQLite {
			if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			opts.Path = filepath.Join(o.dataDir, "history.db")
		}
		store, err := kv.Open(ctx, opts, log)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		s.store = store
		recents = history.New(store, log)
	}

	lang := locale.Normalize(o.lang)
	s.renderer = newRenderer(out, lang, o.allLevels)
	s.ctrl = view.NewController(log, view.ControllerConfig{
		Lang:      lang,
		Variant:   explain.Variant(o.variant),
		Generator: client,
		Recents:   recents,
		Saver:     reportingSaver{inner: history.DirSaver{Dir: o.outDir}, dir: o.outDir, out: out},
		Host:      s.renderer,
	})
	if o.variant == string(explain.VariantEssay) {
		s.ctrl.Dispatch(ctx, view.LevelChanged{Level: explain.NormalizeLevel(o.level)})
	}
	s.ctrl.Load(ctx)
	return s, nil
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("Closing history store failed", "error", err)
		}
	}
	s.log.Sync()
}

// await blocks until the outstanding generation settles. If ctx ends first
// the request is cancelled.
func (s *session) await(ctx context.Context) view.Model {
	done := make(chan struct{})
	go func() {
		s.ctrl.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.ctrl.Dispatch(context.WithoutCancel(ctx), view.Cancel{})
		<-done
	}
	return s.ctrl.Model()
}

// generate submits topic and waits for the outcome.
func (s *session) generate(ctx context.Context, topic string) (view.Model, error) {
	s.ctrl.Dispatch(ctx, view.TopicChanged{Topic: topic})
	m := s.ctrl.Dispatch(ctx, view.Submit{})
	if m.State == view.StateInput {
		return m, fmt.Errorf("topic is empty")
	}
	s.renderer.Loading()
	m = s.await(ctx)
	if m.State != view.StateResult {
		return m, fmt.Errorf("generation failed")
	}
	return m, nil
}

// reportingSaver tells the user where an export went.
type reportingSaver struct {
	inner history.Saver
	dir   string
	out   io.Writer
}

func (r reportingSaver) Save(ctx context.Context, f history.File) error {
	if err := r.inner.Save(ctx, f); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Saved", filepath.Join(r.dir, f.Name))
	return nil
}

func parsePosition(arg string, count int) (int, error) {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(arg), "%d", &n); err != nil {
		return 0, fmt.Errorf("%q is not a number", arg)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("no recent entry %d (have %d)", n, count)
	}
	return n - 1, nil
}
