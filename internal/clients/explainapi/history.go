package explainapi

import (
	"context"

	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

// RemoteHistory keeps the recent-searches list on the server. Like the
// local cache, reads never fail and writes are best effort.
type RemoteHistory struct {
	client *Client
	log    *logger.Logger
}

func NewRemoteHistory(client *Client, log *logger.Logger) *RemoteHistory {
	if log == nil {
		log = logger.Nop()
	}
	return &RemoteHistory{client: client, log: log.With("service", "RemoteHistory")}
}

func (h *RemoteHistory) Lookup(ctx context.Context, lang string) []history.Entry {
	entries, err := h.client.Recent(ctx, lang)
	if err != nil {
		h.log.Warn("Remote history read failed", "lang", lang, "error", err)
		return []history.Entry{}
	}
	return entries
}

func (h *RemoteHistory) Upsert(ctx context.Context, lang string, topic string, p history.Payload) []history.Entry {
	req := RecordRequest{Topic: topic, Lesson: p.Lesson}
	if p.Essay != nil {
		req.Essay = p.Essay.Text
		req.Level = string(p.Essay.Level)
	}
	entries, err := h.client.Record(ctx, lang, req)
	if err != nil {
		h.log.Warn("Remote history write failed", "lang", lang, "error", err)
		return h.Lookup(ctx, lang)
	}
	return entries
}
