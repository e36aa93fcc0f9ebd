package explainapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/platform/envutil"
	"github.com/yungbote/simple-explain/internal/platform/httpx"
)

const (
	headerClientID  = "X-Client-Id"
	headerRequestID = "X-Request-Id"
	maxBodyBytes    = 4 << 20
)

type Options struct {
	BaseURL  string
	ClientID string

	// Timeout bounds each request. Generation is never retried; MaxRetries
	// applies to idempotent reads only.
	Timeout    time.Duration
	MaxRetries int

	HTTPClient *http.Client
}

// Client talks to the simple-explain HTTP API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client

	mu       sync.RWMutex
	clientID string
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
		clientID:   strings.TrimSpace(opts.ClientID),
	}, nil
}

func NewFromEnv() (*Client, error) {
	return New(Options{
		BaseURL:    envutil.String("SIMPLE_EXPLAIN_URL", "http://localhost:8080"),
		ClientID:   envutil.String("SIMPLE_EXPLAIN_CLIENT_ID", ""),
		Timeout:    envutil.Seconds("SIMPLE_EXPLAIN_TIMEOUT_SECONDS", 90*time.Second),
		MaxRetries: envutil.Int("SIMPLE_EXPLAIN_MAX_RETRIES", 2),
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

// ClientID is the id sent as X-Client-Id. When none was configured it is
// learned from the first response.
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// Generate posts a generation request and returns the raw response body.
// The body is untrusted; callers validate it before use.
func (c *Client) Generate(ctx context.Context, req explain.GenerateRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/api/generate", req, 0)
}

func (c *Client) Dictionary(ctx context.Context, lang locale.Lang) (*locale.Dictionary, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/dictionary/"+url.PathEscape(string(lang)), nil, c.maxRetries)
	if err != nil {
		return nil, err
	}
	var d locale.Dictionary
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	return &d, nil
}

type recentResponse struct {
	Entries []history.Entry `json:"entries"`
}

// RecordRequest reports a finished generation to the server-side history.
type RecordRequest struct {
	Topic  string          `json:"topic"`
	Lesson *explain.Lesson `json:"lesson,omitempty"`
	Essay  string          `json:"essay,omitempty"`
	Level  string          `json:"level,omitempty"`
}

func (c *Client) Recent(ctx context.Context, lang string) ([]history.Entry, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/recent/"+url.PathEscape(lang), nil, c.maxRetries)
	if err != nil {
		return nil, err
	}
	return decodeEntries(raw)
}

func (c *Client) Record(ctx context.Context, lang string, in RecordRequest) ([]history.Entry, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/recent/"+url.PathEscape(lang), in, 0)
	if err != nil {
		return nil, err
	}
	return decodeEntries(raw)
}

// Export downloads the entry at the 1-based position.
func (c *Client) Export(ctx context.Context, lang string, position int) (history.File, error) {
	path := "/api/recent/" + url.PathEscape(lang) + "/" + strconv.Itoa(position) + "/export"
	resp, raw, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return history.File{}, err
	}
	name := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if i := strings.Index(cd, "filename="); i >= 0 {
			name = strings.Trim(cd[i+len("filename="):], `"`)
		}
	}
	return history.File{Name: name, ContentType: resp.Header.Get("Content-Type"), Data: raw}, nil
}

func decodeEntries(raw []byte) ([]history.Entry, error) {
	var out recentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode recent: %w", err)
	}
	if out.Entries == nil {
		out.Entries = []history.Entry{}
	}
	return out.Entries, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any, retries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		_, raw, err := c.send(ctx, method, path, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if attempt >= retries || !httpx.IsRetryableError(err) {
			break
		}
		if err := httpx.Sleep(ctx, httpx.JitterSleep(250*time.Millisecond<<attempt)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, method string, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if id := c.ClientID(); id != "" {
		req.Header.Set(headerClientID, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, nil, readErr
	}
	c.learnClientID(resp.Header.Get(headerClientID))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, parseHTTPError(resp.StatusCode, raw)
	}
	return resp, raw, nil
}

// learnClientID adopts the id the server echoed. The server replaces ids it
// rejects, so a differing echo wins over the configured one; otherwise every
// request would land under a fresh id.
func (c *Client) learnClientID(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientID = id
}
