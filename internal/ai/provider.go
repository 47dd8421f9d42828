package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kiliankoe/spellbee/internal/ai/ollama"
	"github.com/kiliankoe/spellbee/internal/ai/openai"
)

type Provider interface {
	CompleteWithSystem(ctx context.Context, model, systemPrompt, prompt string) (string, error)
}

type Config struct {
	Provider      string
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	OllamaHost    string
}

const (
	MinSuggestions = 1
	MaxSuggestions = 50
)

const systemPrompt = "You help prepare word lists for a spelling bee. Reply with single words only, one per line, no numbering and no commentary."

var ErrNoSuggestions = errors.New("provider returned no usable words")

// Suggester asks a language model for spelling bee word lists.
type Suggester struct {
	provider Provider
	model    string
}

func NewSuggester(p Provider, model string) *Suggester {
	return &Suggester{provider: p, model: model}
}

// FromConfig picks the provider named in cfg. Unknown names fall back to OpenAI.
func FromConfig(cfg Config) *Suggester {
	var p Provider
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		p = ollama.New(cfg.OllamaHost)
	default:
		p = openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	}
	return NewSuggester(p, cfg.Model)
}

// ClampCount bounds a requested suggestion count to what a single prompt
// should ask for.
func ClampCount(n int) int {
	if n < MinSuggestions {
		return MinSuggestions
	}
	if n > MaxSuggestions {
		return MaxSuggestions
	}
	return n
}

// SuggestWords returns up to n distinct words on topic.
func (s *Suggester) SuggestWords(ctx context.Context, topic string, n int) ([]string, error) {
	n = ClampCount(n)
	text, err := s.provider.CompleteWithSystem(ctx, s.model, systemPrompt, buildPrompt(topic, n))
	if err != nil {
		return nil, fmt.Errorf("suggest words: %w", err)
	}
	words := parseWords(text, n)
	if len(words) == 0 {
		return nil, ErrNoSuggestions
	}
	return words, nil
}

func buildPrompt(topic string, n int) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Sprintf("List %d English words of varied difficulty for a spelling bee.", n)
	}
	return fmt.Sprintf("List %d English words of varied difficulty for a spelling bee on the topic %q.", n, topic)
}

// parseWords accepts newline or comma separated output, strips list markers
// and punctuation, and drops repeats and multi-word entries.
func parseWords(text string, limit int) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		if w == "" || strings.ContainsFunc(w, unicode.IsSpace) {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}
