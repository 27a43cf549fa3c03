package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const promptTemplate = `Perform a Google Search to check if the Instagram username "%[1]s" has an active profile page.
Specifically look for a result with the URL "https://www.instagram.com/%[1]s/".

If you find a direct profile link that looks active/valid in the search results, the Page is OPEN (Taken).
If the search results suggest the page is "Page Not Found", "Broken Link", or if there is absolutely no trace of this specific handle as a user profile, the Page is CLOSED (Available).

Provide a brief reasoning in 'notes'.`

// contentGenerator is the subset of [genai.Models] used by the classifier.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOpts contains configuration for [NewGeminiClassifier].
type GeminiOpts struct {
	APIKey            string        // Required for any request to be attempted
	Model             string        // Defaults to [DefaultGeminiModel]
	BaseURL           string        // Optional API endpoint override
	RequestsPerSecond float64       // Client-side request ceiling, 0 for unlimited
	Timeout           time.Duration // Per-request timeout, 0 for the transport default
	HTTPClient        *http.Client
	Logger            *log.Logger
}

// GeminiClassifier implements [Classifier] with the Gemini generateContent API.
type GeminiClassifier struct {
	opts    GeminiOpts
	limiter *rate.Limiter
	logger  *log.Logger

	mu        sync.Mutex
	generator contentGenerator
}

// NewGeminiClassifier creates a classifier. The remote client is built lazily on the first request,
// so a missing key only surfaces as [shared.ErrMissingCredentials] from [GeminiClassifier.Classify].
func NewGeminiClassifier(opts GeminiOpts) *GeminiClassifier {
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &GeminiClassifier{
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  shared.WithLogger(opts.Logger, "service", "gemini"),
	}
}

func (g *GeminiClassifier) Name() string { return "Gemini" }

// SetLogger redirects the classifier's diagnostics to l.
func (g *GeminiClassifier) SetLogger(l *log.Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logger = shared.WithLogger(l, "service", "gemini")
}

func (g *GeminiClassifier) currentLogger() *log.Logger {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logger
}

// Classify asks Gemini whether a profile page exists for username.
func (g *GeminiClassifier) Classify(ctx context.Context, username string) (models.ClassifierResult, error) {
	gen, err := g.client(ctx)
	if err != nil {
		return models.ClassifierResult{}, err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return models.ClassifierResult{}, fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	logger := g.currentLogger()
	resp, err := gen.GenerateContent(ctx, g.opts.Model, genai.Text(fmt.Sprintf(promptTemplate, username)), generateConfig())
	if err != nil {
		logger.Error("check failed", "username", username, "err", err)
		return unknownResult(NoteCheckError), nil
	}

	text := responseText(resp)
	if text == "" {
		logger.Warn("empty response", "username", username)
		return unknownResult(NoteNoResponse), nil
	}

	result, err := parseResult(text)
	if err != nil {
		logger.Error("unparsable response", "username", username, "err", err)
		return unknownResult(NoteCheckError), nil
	}

	logger.Debug("checked", "username", username, "page_status", result.PageStatus)
	return result, nil
}

// client returns the generator, creating the genai client on first use.
func (g *GeminiClassifier) client(ctx context.Context) (contentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.generator != nil {
		return g.generator, nil
	}
	if strings.TrimSpace(g.opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: set %s or classifier.api_key", shared.ErrMissingCredentials, shared.APIKeyEnvVars[0])
	}

	httpClient := g.opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: g.opts.Timeout}
	}

	cfg := &genai.ClientConfig{
		APIKey:     g.opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if g.opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.opts.BaseURL}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", shared.ErrServiceUnavailable, err)
	}

	g.generator = c.Models
	return g.generator, nil
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"pageStatus": {
					Type:        genai.TypeString,
					Enum:        []string{"OPEN", "CLOSED"},
					Description: "OPEN if the profile page exists (username taken), CLOSED if not found (username likely available).",
				},
				"notes": {
					Type:        genai.TypeString,
					Description: "A short explanation of why this conclusion was reached based on search snippets.",
				},
				"profileUrl": {
					Type:        genai.TypeString,
					Description: "The URL of the profile if found.",
				},
			},
			Required: []string{"pageStatus", "notes"},
		},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return strings.TrimSpace(resp.Text())
}

type classifierPayload struct {
	PageStatus string `json:"pageStatus"`
	Notes      string `json:"notes"`
	ProfileURL string `json:"profileUrl"`
}

// parseResult decodes the structured answer. A markdown code fence around the JSON is tolerated.
func parseResult(text string) (models.ClassifierResult, error) {
	text = stripCodeFence(text)

	var payload *classifierPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return models.ClassifierResult{}, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if payload == nil {
		return models.ClassifierResult{}, fmt.Errorf("failed to decode classifier response: empty payload")
	}

	page := models.PageClosed
	if strings.ToUpper(strings.TrimSpace(payload.PageStatus)) == string(models.PageOpen) {
		page = models.PageOpen
	}

	return models.ClassifierResult{
		PageStatus: page,
		Notes:      payload.Notes,
		ProfileURL: strings.TrimSpace(payload.ProfileURL),
	}, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func unknownResult(note string) models.ClassifierResult {
	return models.ClassifierResult{PageStatus: models.PageUnknown, Notes: note}
}
