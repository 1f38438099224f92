package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/skills"
	"github.com/spigell/jobmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	// maxInputRunes bounds the resume text sent to the model.
	maxInputRunes = 50000
)

// Extractor lists resume skills with a Gemini model. Calls go through a
// circuit breaker that opens after repeated provider failures.
type Extractor struct {
	generator contentGenerator
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.SkillExtractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		generator: generator,
		breaker:   newBreaker(log),
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func newBreaker(log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

type extraction struct {
	Skills []string `json:"skills"`
}

// ExtractSkills returns the skills found in text.
func (e *Extractor) ExtractSkills(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("resume text is required")
	}
	if utf8.RuneCountInString(text) > maxInputRunes {
		text = string([]rune(text)[:maxInputRunes])
	}

	e.logger.Debug("gemini extract skills request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	out, err := e.breaker.Execute(func() (interface{}, error) {
		return e.generator.GenerateContent(ctx, systemPrompt, text)
	})
	if err != nil {
		e.logger.Warn("gemini extract skills failed", zap.Error(err))
		return nil, apperr.Dependency(err, "extraction failed")
	}
	raw, _ := out.(string)

	e.logger.Debug("gemini extract skills response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	found, err := parseResponse(raw)
	if err != nil {
		e.logger.Warn("gemini response not understood", zap.Error(err))
		return nil, apperr.Dependency(err, "extraction failed")
	}

	return found, nil
}

// parseResponse accepts {"skills": [...]} or a bare array, optionally wrapped
// in a markdown code fence.
func parseResponse(raw string) ([]string, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var out extraction
	var input any
	switch v := data.(type) {
	case []any:
		input = map[string]any{"skills": v}
	case map[string]any:
		if _, ok := v["skills"]; !ok {
			return nil, errors.New(`response has no "skills" key`)
		}
		input = v
	default:
		return nil, fmt.Errorf("unexpected response type %T", data)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}

	return skills.Normalize(out.Skills), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
