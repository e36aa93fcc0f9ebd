package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/modules/explain/validation"
	"github.com/yungbote/simple-explain/internal/platform/apierr"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

var (
	ErrUnsupportedLang = errors.New("unsupported language")
	ErrMissingClientID = errors.New("missing client id")
	ErrMissingTopic    = errors.New("missing topic")
	ErrEntryNotFound   = errors.New("recent entry not found")
)

// RecordInput is a finished generation reported by a client. Lesson is
// the raw decoded JSON and is validated before it is stored.
type RecordInput struct {
	Topic  string `json:"topic"`
	Lesson any    `json:"lesson,omitempty"`
	Essay  string `json:"essay,omitempty"`
	Level  string `json:"level,omitempty"`
}

// RecentService exposes the recent-searches cache per client.
type RecentService interface {
	List(ctx context.Context, clientID string, lang string) ([]history.Entry, error)
	Record(ctx context.Context, clientID string, lang string, in RecordInput) ([]history.Entry, error)
	// Export renders the entry at the 1-based position.
	Export(ctx context.Context, clientID string, lang string, position int) (history.File, error)
}

type recentService struct {
	log     *logger.Logger
	cache   *history.Cache
	variant explain.Variant
	now     func() time.Time
}

func NewRecentService(log *logger.Logger, cache *history.Cache, variant explain.Variant) RecentService {
	return &recentService{
		log:     log.With("service", "RecentService"),
		cache:   cache,
		variant: variant,
		now:     time.Now,
	}
}

func (s *recentService) scoped(clientID string, lang string) (*history.Cache, locale.Lang, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, "", apierr.BadRequest(ErrMissingClientID)
	}
	l, ok := locale.Parse(lang)
	if !ok {
		return nil, "", apierr.BadRequest(fmt.Errorf("%w: %q", ErrUnsupportedLang, lang))
	}
	return s.cache.Scoped(clientID), l, nil
}

func (s *recentService) List(ctx context.Context, clientID string, lang string) ([]history.Entry, error) {
	cache, l, err := s.scoped(clientID, lang)
	if err != nil {
		return nil, err
	}
	return cache.Lookup(ctx, string(l)), nil
}

func (s *recentService) Record(ctx context.Context, clientID string, lang string, in RecordInput) ([]history.Entry, error) {
	cache, l, err := s.scoped(clientID, lang)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apierr.BadRequest(ErrMissingTopic)
	}

	var p history.Payload
	if in.Lesson != nil {
		lesson, err := validation.ValidateLesson(in.Lesson)
		if err != nil {
			return nil, apierr.BadRequest(err)
		}
		p.Lesson = &lesson
	}
	if strings.TrimSpace(in.Essay) != "" {
		text, err := validation.ValidateEssay(in.Essay)
		if err != nil {
			return nil, apierr.BadRequest(err)
		}
		p.Essay = &explain.Essay{Text: text, Level: explain.NormalizeLevel(in.Level)}
	}
	entries := cache.Upsert(ctx, string(l), topic, p)
	s.log.Debug("Recent search recorded", "client_id", clientID, "lang", l, "entries", len(entries))
	return entries, nil
}

func (s *recentService) Export(ctx context.Context, clientID string, lang string, position int) (history.File, error) {
	cache, l, err := s.scoped(clientID, lang)
	if err != nil {
		return history.File{}, err
	}
	entries := cache.Lookup(ctx, string(l))
	if position < 1 || position > len(entries) {
		return history.File{}, apierr.NotFound(fmt.Errorf("%w: %d", ErrEntryNotFound, position))
	}
	f, err := history.Export(s.variant, string(l), position-1, entries[position-1], s.now())
	if err != nil {
		return history.File{}, apierr.From(err)
	}
	return f, nil
}
