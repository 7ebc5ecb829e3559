// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// defaultExtractionModel is used when the config names no model.
const defaultExtractionModel = "claude-sonnet-4-5-20250929"

// extractionSystemPrompt pins the model to strict JSON output.
const extractionSystemPrompt = "You extract explicit numeric claims about AI's labor-market impact from research summaries. Respond with strict JSON only."

// extractionPromptTmpl renders the prediction-linked papers and the known
// slug set into one extraction request.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Below are research items, each already linked to one or more tracked predictions, followed by the set of valid prediction slugs.

For every explicit numeric claim that directly measures a tracked prediction, emit one record:
- prediction_slug: the matching slug (must be one of the valid slugs)
- value: the number as a float (e.g. "13%" -> 13.0)
- unit: the unit as stated ("percent", "index", "jobs", ...)
- date: the date the claim refers to, ISO format, if stated
- source_title: the exact title of the item the claim came from
- source_url: the item URL
- quote: the sentence containing the claim, verbatim

Only include claims stating a concrete measured number. Skip forecasts phrased as opinions and skip anything not tied to a valid slug.

Respond with a JSON object: {"data_points": [...]}. No text outside the JSON object.

Items:
{{range .Items}}---
title: {{.Title}}
url: {{.URL}}
linked: {{range .LinkedPredictions}}{{.Slug}} {{end}}
abstract: {{.Abstract}}
{{end}}
Valid slugs: {{range .Slugs}}{{.}} {{end}}
`))

// AIBackend abstracts the Generative AI API so tests can supply a mock.
type AIBackend interface {
	Extract(ctx context.Context, prompt string) (string, error)
}

// AnthropicBackend calls the Claude Messages API through the official SDK.
type AnthropicBackend struct {
	messages  anthropicMessager
	model     string
	maxTokens int64
}

// anthropicMessager is the slice of the SDK client the backend needs.
type anthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// NewAnthropicBackend returns nil when no API key is configured, which
// disables the extraction pass entirely.
func NewAnthropicBackend(cfg types.AIConfig) *AnthropicBackend {
	if cfg.APIKey == "" {
		return nil
	}
	model := cfg.Model
	if model == "" {
		model = defaultExtractionModel
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicBackend{messages: &client.Messages, model: model, maxTokens: 4096}
}

func (b *AnthropicBackend) Extract(ctx context.Context, prompt string) (string, error) {
	resp, err := b.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   b.maxTokens,
		System:      []anthropic.TextBlockParam{{Text: extractionSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// extractionResponse is the shape the model is asked to return. Value is a
// pointer so a record missing its number is distinguishable from zero.
type extractionResponse struct {
	DataPoints []rawDataPoint `json:"data_points"`
}

type rawDataPoint struct {
	PredictionSlug string   `json:"prediction_slug"`
	Value          *float64 `json:"value"`
	Unit           string   `json:"unit"`
	Date           string   `json:"date"`
	SourceTitle    string   `json:"source_title"`
	SourceURL      string   `json:"source_url"`
	Quote          string   `json:"quote"`
}

// ExtractDataPoints runs the extraction pass over the papers that carry at
// least one linked prediction. Every failure mode degrades to fewer (or
// zero) suggestions: transport errors and malformed responses are logged and
// swallowed, and each invalid record is dropped individually while its
// siblings survive.
func ExtractDataPoints(ctx context.Context, backend AIBackend, papers []types.ClassifiedItem, slugs map[string]bool, w io.Writer) []types.SuggestedDataPoint {
	if w == nil {
		w = io.Discard
	}

	var linked []types.ClassifiedItem
	for _, p := range papers {
		if len(p.LinkedPredictions) > 0 {
			linked = append(linked, p)
		}
	}
	if len(linked) == 0 {
		return nil
	}

	prompt, err := renderExtractionPrompt(linked, slugs)
	if err != nil {
		fmt.Fprintf(w, "warning: rendering extraction prompt: %v\n", err)
		return nil
	}

	raw, err := backend.Extract(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "warning: extraction call failed: %v\n", err)
		return nil
	}

	var resp extractionResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		fmt.Fprintf(w, "warning: unparsable extraction response: %v\n", err)
		return nil
	}

	var out []types.SuggestedDataPoint
	for _, r := range resp.DataPoints {
		if err := validateDataPoint(r, slugs); err != nil {
			fmt.Fprintf(w, "warning: dropping extracted record: %v\n", err)
			continue
		}
		out = append(out, types.SuggestedDataPoint{
			PredictionSlug: r.PredictionSlug,
			Value:          *r.Value,
			Unit:           r.Unit,
			Date:           r.Date,
			SourceTitle:    r.SourceTitle,
			SourceURL:      r.SourceURL,
			Quote:          r.Quote,
		})
	}
	return out
}

func validateDataPoint(r rawDataPoint, slugs map[string]bool) error {
	if !slugs[r.PredictionSlug] {
		return fmt.Errorf("unknown prediction slug %q", r.PredictionSlug)
	}
	if r.Value == nil {
		return fmt.Errorf("record for %q has no value", r.PredictionSlug)
	}
	if r.SourceTitle == "" {
		return fmt.Errorf("record for %q has no source title", r.PredictionSlug)
	}
	if r.Quote == "" {
		return fmt.Errorf("record for %q has no quote", r.PredictionSlug)
	}
	return nil
}

func renderExtractionPrompt(items []types.ClassifiedItem, slugs map[string]bool) (string, error) {
	slugList := make([]string, 0, len(slugs))
	for s := range slugs {
		slugList = append(slugList, s)
	}
	sort.Strings(slugList)

	var sb strings.Builder
	err := extractionPromptTmpl.Execute(&sb, struct {
		Items []types.ClassifiedItem
		Slugs []string
	}{Items: items, Slugs: slugList})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// stripCodeFences tolerates a model that wraps its JSON in a markdown fence
// despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if parts := strings.SplitN(s, "\n", 2); len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
