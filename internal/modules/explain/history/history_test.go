package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/platform/kv"
)

var fixedNow = time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

func newCache(store kv.Store) *Cache {
	return New(store, nil, WithClock(func() time.Time { return fixedNow }))
}

func sampleLesson(topic string) *explain.Lesson {
	return &explain.Lesson{
		SchemaVersion: "1.0",
		Topic:         topic,
		Lesson:        explain.LessonBody{Beginner: "a", Intermediate: "b", Advance: "c"},
	}
}

func TestReadEmptyWhenAbsent(t *testing.T) {
	c := newCache(kv.NewMemory())
	if got := c.Read(context.Background()); len(got) != 0 {
		t.Fatalf("want empty store got=%v", got)
	}
	if got := c.Lookup(context.Background(), "en"); got == nil || len(got) != 0 {
		t.Fatalf("Lookup: want empty non-nil slice got=%v", got)
	}
}

func TestReadCorruptValueYieldsEmptyStore(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "[]", "null", `"text"`, "42"} {
		store := kv.NewMemory()
		_ = store.Write(ctx, StorageKey, []byte(raw))
		if got := newCache(store).Read(ctx); len(got) != 0 {
			t.Fatalf("raw %q: want empty store got=%v", raw, got)
		}
	}
}

func TestReadFallsBackToLegacyKeyOnlyWhenPrimaryAbsent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Write(ctx, LegacyStorageKey, []byte(`{"en":[{"topic":"Old","searchedAt":"2024-01-01T00:00:00Z"}]}`))
	c := newCache(store)

	got := c.Lookup(ctx, "en")
	if len(got) != 1 || got[0].Topic != "Old" {
		t.Fatalf("legacy read: got=%+v", got)
	}

	c.Upsert(ctx, "en", "New", Payload{})
	legacy, _, _ := store.Read(ctx, LegacyStorageKey)
	if string(legacy) != `{"en":[{"topic":"Old","searchedAt":"2024-01-01T00:00:00Z"}]}` {
		t.Fatalf("legacy key was rewritten: %s", legacy)
	}
	got = c.Lookup(ctx, "en")
	if len(got) != 2 || got[0].Topic != "New" || got[1].Topic != "Old" {
		t.Fatalf("after upsert: got=%+v", got)
	}

	// Corrupt primary does not fall back.
	_ = store.Write(ctx, StorageKey, []byte("garbage"))
	if got := c.Lookup(ctx, "en"); len(got) != 0 {
		t.Fatalf("corrupt primary: want empty got=%+v", got)
	}
}

func TestDecodeNormalizesEntries(t *testing.T) {
	raw := []byte(`{
		"en": [
			"not-an-object",
			{"topic": "   "},
			{"topic": 5},
			{"topic": "  Gravity  ", "searchedAt": "yesterday"},
			{"topic": "Atoms", "searchedAt": "2024-05-06T07:08:09.123Z",
			 "lesson": {"schema_version": "1.0", "topic": "Atoms", "lesson": {"beginner": "", "intermediate": "x", "advance": "y"}}},
			{"topic": "Cells", "lesson": {"schema_version": "1.0", "topic": "Cells", "lesson": {"beginner": "a", "intermediate": "b", "advance": "c"}}}
		],
		"vi": "not-a-list"
	}`)
	got := Decode(raw, fixedNow)
	if _, ok := got["vi"]; ok {
		t.Fatalf("non-array language list should be skipped")
	}
	en := got["en"]
	if len(en) != 3 {
		t.Fatalf("entries: want=3 got=%d (%+v)", len(en), en)
	}
	if en[0].Topic != "Gravity" || !en[0].SearchedAt.Equal(fixedNow) {
		t.Fatalf("bad timestamp entry: %+v", en[0])
	}
	if en[1].Lesson != nil {
		t.Fatalf("invalid nested lesson should be dropped: %+v", en[1].Lesson)
	}
	if en[1].SearchedAt.Year() != 2024 {
		t.Fatalf("timestamp not parsed: %v", en[1].SearchedAt)
	}
	if en[2].Lesson == nil || en[2].Lesson.Lesson.Advance != "c" {
		t.Fatalf("valid nested lesson lost: %+v", en[2])
	}
}

func TestDecodeTruncates(t *testing.T) {
	raw := `{"en":[`
	for i := 0; i < 15; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"topic":"t%d"}`, i)
	}
	raw += `]}`
	got := Decode([]byte(raw), fixedNow)
	if len(got["en"]) != MaxEntries {
		t.Fatalf("want %d entries got=%d", MaxEntries, len(got["en"]))
	}
	if got["en"][0].Topic != "t0" {
		t.Fatalf("truncation must keep the head: %+v", got["en"][0])
	}
}

func TestUpsertDeduplicatesCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	c := newCache(kv.NewMemory())
	c.Upsert(ctx, "en", "photosynthesis", Payload{})
	c.Upsert(ctx, "en", "Gravity", Payload{})
	got := c.Upsert(ctx, "en", "  Photosynthesis ", Payload{Lesson: sampleLesson("Photosynthesis")})

	if len(got) != 2 {
		t.Fatalf("want 2 entries got=%d (%+v)", len(got), got)
	}
	if got[0].Topic != "Photosynthesis" || got[0].Lesson == nil {
		t.Fatalf("head: %+v", got[0])
	}
	if got[1].Topic != "Gravity" {
		t.Fatalf("second: %+v", got[1])
	}
	if !got[0].SearchedAt.Equal(fixedNow) {
		t.Fatalf("timestamp: want=%v got=%v", fixedNow, got[0].SearchedAt)
	}
	if persisted := c.Lookup(ctx, "en"); len(persisted) != 2 || persisted[0].Lesson.Topic != "Photosynthesis" {
		t.Fatalf("persisted: %+v", persisted)
	}
}

func TestUpsertVietnameseFold(t *testing.T) {
	ctx := context.Background()
	c := newCache(kv.NewMemory())
	c.Upsert(ctx, "vi", "Lỗ Đen", Payload{})
	got := c.Upsert(ctx, "vi", "lỗ đen", Payload{})
	if len(got) != 1 || got[0].Topic != "lỗ đen" {
		t.Fatalf("vi fold: %+v", got)
	}
}

func TestUpsertKeepsLanguagesSeparate(t *testing.T) {
	ctx := context.Background()
	c := newCache(kv.NewMemory())
	c.Upsert(ctx, "en", "Gravity", Payload{})
	c.Upsert(ctx, "vi", "Gravity", Payload{})
	store := c.Read(ctx)
	if len(store["en"]) != 1 || len(store["vi"]) != 1 {
		t.Fatalf("store: %+v", store)
	}
}

func TestUpsertBounded(t *testing.T) {
	ctx := context.Background()
	c := newCache(kv.NewMemory())
	for i := 0; i < MaxEntries; i++ {
		c.Upsert(ctx, "en", fmt.Sprintf("topic %d", i), Payload{})
	}
	got := c.Upsert(ctx, "en", "newest", Payload{})
	if len(got) != MaxEntries {
		t.Fatalf("want %d got=%d", MaxEntries, len(got))
	}
	if got[0].Topic != "newest" {
		t.Fatalf("head: %+v", got[0])
	}
	for _, e := range got {
		if e.Topic == "topic 0" {
			t.Fatalf("oldest entry should be dropped")
		}
	}
}

func TestUpsertBlankTopicIsNoop(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := newCache(store)
	if got := c.Upsert(ctx, "en", "   ", Payload{}); len(got) != 0 {
		t.Fatalf("want no entries got=%+v", got)
	}
	if _, ok, _ := store.Read(ctx, StorageKey); ok {
		t.Fatalf("blank topic should not write")
	}
}

func TestUpsertSwallowsWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.FailWrites = true
	c := newCache(store)
	got := c.Upsert(ctx, "en", "Gravity", Payload{Essay: &explain.Essay{Text: "Body", Level: explain.LevelAdvanced}})
	if len(got) != 1 || got[0].Essay != "Body" || got[0].Level != explain.LevelAdvanced {
		t.Fatalf("in-memory result lost: %+v", got)
	}
	if persisted := c.Lookup(ctx, "en"); len(persisted) != 0 {
		t.Fatalf("nothing should be persisted: %+v", persisted)
	}
}

func TestScopedCachesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := newCache(store)
	a := c.Scoped("client-a")
	b := c.Scoped("client-b")
	a.Upsert(ctx, "en", "Gravity", Payload{})
	if got := b.Lookup(ctx, "en"); len(got) != 0 {
		t.Fatalf("client-b sees client-a history: %+v", got)
	}
	if _, ok, _ := store.Read(ctx, "client-a:"+StorageKey); !ok {
		t.Fatalf("scoped key not written")
	}
}

// flakyStore fails the next failReads calls to Read.
type flakyStore struct {
	*kv.Memory
	failReads int
}

func (f *flakyStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failReads > 0 {
		f.failReads--
		return nil, false, errors.New("connection reset")
	}
	return f.Memory.Read(ctx, key)
}

func TestUpsertKeepsHistoryWhenReadFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Memory: kv.NewMemory()}
	c := newCache(store)
	c.Upsert(ctx, "en", "Gravity", Payload{})
	c.Upsert(ctx, "vi", "Quang hợp", Payload{})

	store.failReads = 1
	got := c.Upsert(ctx, "en", "Atoms", Payload{})
	if len(got) != 1 || got[0].Topic != "Atoms" {
		t.Fatalf("in-memory result: %+v", got)
	}

	if en := c.Lookup(ctx, "en"); len(en) != 1 || en[0].Topic != "Gravity" {
		t.Fatalf("en history after failed read: %+v", en)
	}
	if vi := c.Lookup(ctx, "vi"); len(vi) != 1 || vi[0].Topic != "Quang hợp" {
		t.Fatalf("vi history after failed read: %+v", vi)
	}
}

func TestReadFailureLooksEmpty(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Memory: kv.NewMemory()}
	c := newCache(store)
	c.Upsert(ctx, "en", "Gravity", Payload{})

	store.failReads = 1
	if got := c.Lookup(ctx, "en"); len(got) != 0 {
		t.Fatalf("Lookup on failed read: want empty got=%+v", got)
	}
	if got := c.Lookup(ctx, "en"); len(got) != 1 {
		t.Fatalf("Lookup after recovery: want 1 got=%+v", got)
	}
}
