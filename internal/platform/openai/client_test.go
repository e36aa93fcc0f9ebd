package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/simple-explain/internal/platform/logger"
)

func outputBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"output": []any{map[string]any{
			"type": "message",
			"role": "assistant",
			"content": []any{map[string]any{
				"type": "output_text",
				"text": text,
			}},
		}},
		"usage": map[string]any{"input_tokens": 12, "output_tokens": 34},
	})
	return string(b)
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *client {
	t.Helper()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL
	c, err := NewClient(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c.(*client)
}

func f64(v float64) *float64 { return &v }

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured got=%v", err)
	}
	c, err := NewClient(logger.Nop(), Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Model() != "gpt-4o-mini" {
		t.Fatalf("default model: got=%q", c.Model())
	}
}

func TestGenerateTextSendsParameters(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("auth header: %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, outputBody("  An essay.  "))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{Temperature: f64(0.7), MaxOutputTokens: 1500})
	text, err := c.GenerateText(context.Background(), "Explain.", "Gravity")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "  An essay.  " {
		t.Fatalf("text: %q", text)
	}
	if got["model"] != "gpt-4o-mini" || got["temperature"] != 0.7 || got["max_output_tokens"] != 1500.0 {
		t.Fatalf("request params: %v", got)
	}
	if _, ok := got["text"]; ok {
		t.Fatalf("text format should be omitted for free text: %v", got["text"])
	}
	input := got["input"].([]any)
	sys := input[0].(map[string]any)["content"].(string)
	if !strings.Contains(sys, "SIMPLE_EXPLAIN_PROMPT_STYLE_V1") {
		t.Fatalf("system prompt not styled: %q", sys)
	}
}

func TestGenerateJSONUsesStrictSchema(t *testing.T) {
	var format map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		format = req["text"].(map[string]any)["format"].(map[string]any)
		_, _ = io.WriteString(w, outputBody(`{"topic":"X"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "explain_lesson_v1", map[string]any{"type": "object"})
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if obj["topic"] != "X" {
		t.Fatalf("obj: %v", obj)
	}
	if format["type"] != "json_schema" || format["strict"] != true || format["name"] != "explain_lesson_v1" {
		t.Fatalf("format: %v", format)
	}
}

func TestGenerateJSONInvalidOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, outputBody(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	if _, err := c.GenerateJSON(context.Background(), "s", "u", "n", map[string]any{}); !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("want ErrInvalidOutput got=%v", err)
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	if _, err := c.GenerateText(context.Background(), "s", "u"); !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("want ErrInvalidOutput got=%v", err)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, outputBody("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 2})
	start := time.Now()
	if _, err := c.GenerateText(context.Background(), "s", "u"); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls: want=2 got=%d", calls)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("retry took too long")
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":{"message":"bad"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	_, err := c.GenerateText(context.Background(), "s", "u")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("want HTTPError 400 got=%v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls: want=1 got=%d", calls)
	}
}

func TestTemperatureFallback(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["temperature"]; ok {
			http.Error(w, `{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`, http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, outputBody("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{Temperature: f64(0.7)})
	if _, err := c.GenerateText(context.Background(), "s", "u"); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !c.modelIsNoTemp("gpt-4o-mini") {
		t.Fatalf("model should be remembered as no-temperature")
	}
	if _, err := c.GenerateText(context.Background(), "s", "u"); err != nil {
		t.Fatalf("second GenerateText: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("calls: want=3 got=%d", calls)
	}
}

func TestCanceledContextStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, outputBody("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GenerateText(ctx, "s", "u"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled got=%v", err)
	}
}

func TestNoTempRules(t *testing.T) {
	models, prefixes := parseNoTempModelRules([]string{" o1-* ", "GPT-5", ""})
	if !models["gpt-5"] || len(prefixes) != 1 || prefixes[0] != "o1" {
		t.Fatalf("rules: %v %v", models, prefixes)
	}
}
