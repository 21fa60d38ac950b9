// Package openai scores text with a hosted language model through the OpenAI
// Responses API, asking for the seven emotion strengths as strict structured
// output.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/sony/gobreaker"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/platform/retry"
)

const instructions = `You rate the emotional content of a short piece of user text.
Return one strength in [0,1] for each of: joy, sadness, anger, fear, surprise, love, neutral.
Strengths are independent and need not sum to 1. Emoji count as part of the text.
Plain factual statements score high on neutral.`

const warmUpText = "I am so happy today!"

// Config configures the remote classifier.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens the
	// breaker. Zero means 5.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open. Zero means 30s.
	BreakerCooldown time.Duration
}

// Classifier implements domain.Classifier on top of the Responses API.
type Classifier struct {
	client  *sdk.Client
	model   string
	timeout time.Duration
	schema  map[string]any
	breaker *gobreaker.CircuitBreaker
}

var _ domain.Classifier = (*Classifier)(nil)

// NewClassifier builds a classifier. m may be nil.
func NewClassifier(cfg Config, m *metrics.AnalysisMetrics) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	schema, err := generateSchema[emotionScores]()
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := sdk.NewClient(opts...)

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	c := &Classifier{
		client:  &client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		schema:  schema,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        c.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})
	if m != nil {
		m.BreakerState.WithLabelValues(c.Name()).Set(float64(gobreaker.StateClosed))
	}
	return c, nil
}

func (c *Classifier) Name() string {
	return "openai:" + c.model
}

// State exposes the breaker state for health reporting.
func (c *Classifier) State() gobreaker.State {
	return c.breaker.State()
}

// Score asks the model for raw label strengths. An open breaker fails fast with
// gobreaker.ErrOpenState.
func (c *Classifier) Score(ctx context.Context, text string) (domain.Scores, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.request(ctx, text)
	})
	if err != nil {
		return domain.Scores{}, fmt.Errorf("openai classifier: %w", err)
	}
	return out.(domain.Scores), nil
}

// WarmUp probes the model once at startup, retrying transient failures under
// the given policy. Authentication and unknown-model errors stop immediately.
func (c *Classifier) WarmUp(ctx context.Context, p retry.Policy) error {
	err := retry.DoVoid(ctx, p, classifyStatus, func(ctx context.Context) error {
		_, err := c.request(ctx, warmUpText)
		return err
	})
	if err != nil {
		return fmt.Errorf("openai warm-up: %w", err)
	}
	return nil
}

func (c *Classifier) request(ctx context.Context, text string) (domain.Scores, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: sdk.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "EmotionScores",
					Schema:      c.schema,
					Strict:      sdk.Bool(true),
					Description: sdk.String("Per-label emotion strengths"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return domain.Scores{}, err
	}
	return decodeScores(resp.OutputText())
}

// decodeScores parses the model output. Missing labels stay zero and values
// are clamped to [0,1].
func decodeScores(output string) (domain.Scores, error) {
	s := strings.TrimSpace(output)
	if s == "" {
		return domain.Scores{}, errors.New("empty model output")
	}
	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start > 0 && end > start {
		s = s[start : end+1]
	}

	var scores domain.Scores
	if err := json.Unmarshal([]byte(s), &scores); err != nil {
		return domain.Scores{}, fmt.Errorf("decode model output: %w", err)
	}
	for i, v := range scores {
		scores[i] = min(max(v, 0), 1)
	}
	if err := scores.Validate(); err != nil {
		return domain.Scores{}, fmt.Errorf("model output: %w", err)
	}
	return scores, nil
}

func classifyStatus(err error) retry.Action {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return retry.Retry
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
		return retry.Stop
	case http.StatusTooManyRequests:
		return retry.After
	default:
		return retry.Retry
	}
}
