package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/simple-explain/internal/platform/logger"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("OPENAI_API_KEY is not configured")
	// ErrInvalidOutput marks model output that could not be decoded.
	ErrInvalidOutput = errors.New("invalid model output")
)

// Client is the generation surface used by the explain services.
type Client interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Model() string
}

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     *float64
	MaxOutputTokens int
	Timeout         time.Duration
	MaxRetries      int
	// NoTemperatureModels lists models that reject temperature; a trailing
	// "*" matches by prefix, e.g. "o1-*".
	NoTemperatureModels []string
}

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
	noTempTTL      = 24 * time.Hour
)

type client struct {
	log             *logger.Logger
	baseURL         string
	apiKey          string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
	maxRetries      int
	temperature     *float64

	noTempModels   map[string]bool
	noTempPrefixes []string

	// Models that rejected temperature at runtime, remembered for noTempTTL.
	noTempMu   sync.RWMutex
	noTempSeen map[string]time.Time
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	noTempModels, noTempPrefixes := parseNoTempModelRules(cfg.NoTemperatureModels)

	return &client{
		log:             log.With("service", "OpenAIClient"),
		baseURL:         baseURL,
		apiKey:          apiKey,
		model:           model,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: timeout},
		maxRetries:      maxRetries,
		temperature:     cfg.Temperature,
		noTempModels:    noTempModels,
		noTempPrefixes:  noTempPrefixes,
		noTempSeen:      map[string]time.Time{},
	}, nil
}

func (c *client) Model() string { return c.model }

func normalizeModelKey(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

func parseNoTempModelRules(rules []string) (map[string]bool, []string) {
	m := map[string]bool{}
	var prefixes []string
	for _, part := range rules {
		s := normalizeModelKey(part)
		if s == "" {
			continue
		}
		if strings.HasSuffix(s, "*") {
			p := strings.TrimSpace(strings.TrimRight(strings.TrimSuffix(s, "*"), "-_./:"))
			if p != "" {
				prefixes = append(prefixes, p)
			}
			continue
		}
		m[s] = true
	}
	return m, prefixes
}

func (c *client) modelIsNoTemp(model string) bool {
	m := normalizeModelKey(model)
	if m == "" {
		return false
	}
	if c.noTempModels[m] {
		return true
	}
	for _, p := range c.noTempPrefixes {
		if strings.HasPrefix(m, p) {
			return true
		}
	}
	c.noTempMu.RLock()
	ts, ok := c.noTempSeen[m]
	c.noTempMu.RUnlock()
	return ok && time.Since(ts) < noTempTTL
}

func (c *client) noteNoTempModel(model string) {
	m := normalizeModelKey(model)
	if m == "" {
		return
	}
	c.noTempMu.Lock()
	c.noTempSeen[m] = time.Now().UTC()
	c.noTempMu.Unlock()
}

func (c *client) applyTemperature(req *responsesRequest) {
	if req == nil || c.temperature == nil {
		return
	}
	if c.modelIsNoTemp(req.Model) {
		return
	}
	t := *c.temperature
	req.Temperature = &t
}
