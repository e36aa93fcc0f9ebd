package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/validation"
	"github.com/yungbote/simple-explain/internal/platform/kv"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

const (
	StorageKey       = "simple-explain-recent-searches-v2"
	LegacyStorageKey = "simple-explain-recent-searches-v1"
	MaxEntries       = 10
)

// Entry is one remembered query. Lesson or Essay holds the cached result
// when one was stored with it.
type Entry struct {
	Topic      string          `json:"topic"`
	SearchedAt time.Time       `json:"searchedAt"`
	Lesson     *explain.Lesson `json:"lesson,omitempty"`
	Essay      string          `json:"essay,omitempty"`
	Level      explain.Level   `json:"level,omitempty"`
}

// HasPayload reports whether the entry can be shown without a new request.
func (e Entry) HasPayload() bool {
	return e.Lesson != nil || e.Essay != ""
}

// Payload is the generated content saved alongside a topic.
type Payload struct {
	Lesson *explain.Lesson
	Essay  *explain.Essay
}

// Store maps a language code to its entries, most recent first.
type Store map[string][]Entry

// Cache is the recent-searches list over a kv.Store. Reads never fail and
// writes are best effort.
type Cache struct {
	kv        kv.Store
	log       *logger.Logger
	now       func() time.Time
	namespace string
	mu        *sync.Mutex
}

type Option func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(store kv.Store, log *logger.Logger, opts ...Option) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	c := &Cache{
		kv:  store,
		log: log.With("service", "RecentHistory"),
		now: time.Now,
		mu:  &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scoped returns a view of the cache whose keys are prefixed with
// namespace. Scoped views share the parent's write lock.
func (c *Cache) Scoped(namespace string) *Cache {
	cp := *c
	cp.namespace = strings.TrimSpace(namespace)
	return &cp
}

func (c *Cache) key(base string) string {
	if c.namespace == "" {
		return base
	}
	return c.namespace + ":" + base
}

// Read loads the whole store. Missing, unreadable or malformed data yields
// an empty store. The legacy key is consulted only when the current key is
// absent.
func (c *Cache) Read(ctx context.Context) Store {
	s, err := c.read(ctx)
	if err != nil {
		c.log.Warn("Recent history read failed", "error", err)
		return Store{}
	}
	return s
}

// read separates a failed backend read from absent or corrupt data, which
// both decode to an empty store.
func (c *Cache) read(ctx context.Context) (Store, error) {
	raw, ok, err := c.kv.Read(ctx, c.key(StorageKey))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key(StorageKey), err)
	}
	if !ok {
		raw, ok, err = c.kv.Read(ctx, c.key(LegacyStorageKey))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.key(LegacyStorageKey), err)
		}
		if !ok {
			return Store{}, nil
		}
	}
	return Decode(raw, c.now()), nil
}

// Write persists the store under the current key. Failures are logged and
// dropped.
func (c *Cache) Write(ctx context.Context, s Store) {
	b, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("Recent history encode failed", "error", err)
		return
	}
	if err := c.kv.Write(ctx, c.key(StorageKey), b); err != nil {
		c.log.Warn("Recent history write failed", "key", c.key(StorageKey), "error", err)
	}
}

// Lookup returns the entries for lang, or an empty slice.
func (c *Cache) Lookup(ctx context.Context, lang string) []Entry {
	entries := c.Read(ctx)[lang]
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// Upsert records topic for lang as the most recent entry, replacing any
// entry whose topic matches case-insensitively. It returns the new list,
// which is valid even when persisting it failed. A blank topic is ignored.
// When the stored blob cannot be read, nothing is written so the existing
// history survives; the returned list then holds only the new entry.
func (c *Cache) Upsert(ctx context.Context, lang string, topic string, p Payload) []Entry {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return c.Lookup(ctx, lang)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	store, readErr := c.read(ctx)
	if readErr != nil {
		c.log.Warn("Recent history read failed, skipping write", "lang", lang, "error", readErr)
		store = Store{}
	}
	fold := locale.Normalize(lang).Fold
	folded := fold(topic)

	entry := Entry{Topic: topic, SearchedAt: c.now().UTC()}
	if p.Lesson != nil {
		l := *p.Lesson
		entry.Lesson = &l
	}
	if p.Essay != nil {
		entry.Essay = p.Essay.Text
		entry.Level = p.Essay.Level
	}

	next := make([]Entry, 0, MaxEntries)
	next = append(next, entry)
	for _, e := range store[lang] {
		if fold(e.Topic) == folded {
			continue
		}
		next = append(next, e)
	}
	next = truncate(next)

	if readErr != nil {
		return next
	}
	store[lang] = next
	c.Write(ctx, store)
	return next
}

func truncate(entries []Entry) []Entry {
	if len(entries) > MaxEntries {
		return entries[:MaxEntries]
	}
	return entries
}

// Decode normalizes a stored blob. Entries that are not objects or have a
// blank topic are dropped; a bad timestamp becomes now; a bad cached payload
// is discarded while the entry is kept.
func Decode(raw []byte, now time.Time) Store {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Store{}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return Store{}
	}
	out := make(Store, len(obj))
	for lang, v := range obj {
		items, ok := v.([]any)
		if !ok {
			continue
		}
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			if e, ok := decodeEntry(item, now); ok {
				entries = append(entries, e)
			}
		}
		out[lang] = truncate(entries)
	}
	return out
}

func decodeEntry(v any, now time.Time) (Entry, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Entry{}, false
	}
	topic, _ := obj["topic"].(string)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Entry{}, false
	}

	e := Entry{Topic: topic, SearchedAt: parseTimestamp(obj["searchedAt"], now)}
	if raw, ok := obj["lesson"]; ok {
		if l, err := validation.ValidateLesson(raw); err == nil {
			e.Lesson = &l
		}
	}
	if s, ok := obj["essay"].(string); ok {
		if text, err := validation.ValidateEssay(s); err == nil {
			e.Essay = text
			if lv, ok := obj["level"].(string); ok {
				e.Level = explain.NormalizeLevel(lv)
			}
		}
	}
	return e, true
}

func parseTimestamp(v any, now time.Time) time.Time {
	s, ok := v.(string)
	if !ok {
		return now.UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}
