package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/pkg/apperr"
)

// Content types accepted per step.
var (
	enhanceTypes  = map[string]bool{"title": true, "subtitle": true, "description": true, "content": true, "general": true}
	listTypes     = map[string]bool{"values": true, "benefits": true, "list": true}
	generateTypes = map[string]bool{"hero": true, "about": true, "values": true}
)

// Handler implements the AI enhancement steps.
type Handler struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewHandler creates an AI handler.
func NewHandler(gateway Gateway, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gateway, logger: logger}
}

type enhancePayload struct {
	Text        string `json:"text"`
	ContentType string `json:"contentType"`
}

// EnhanceText implements ENHANCE_TEXT. Blank input fails before any gateway
// call; the gateway's output is stripped of wrapping quotes and markdown
// markers.
func (h *Handler) EnhanceText(ctx context.Context, req *event.Request) (any, error) {
	var p enhancePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, apperr.Validation("empty text")
	}
	contentType := p.ContentType
	if contentType == "" {
		contentType = "general"
	}
	if !enhanceTypes[contentType] {
		return nil, apperr.Validation("unsupported content type: " + contentType)
	}

	prompt := fmt.Sprintf(
		"Improve the following careers-page %s. Keep the meaning, tighten the wording, and reply with only the improved text, no quotes or markdown.\n\n%s",
		contentType, p.Text,
	)
	raw, err := h.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, apperr.AIService("text enhancement failed", err)
	}
	cleaned := CleanText(raw)
	if cleaned == "" {
		return nil, apperr.AIService("empty AI response", nil)
	}
	return map[string]any{"text": cleaned, "contentType": contentType}, nil
}

type enhanceListPayload struct {
	Items       []string `json:"items"`
	ContentType string   `json:"contentType"`
}

// EnhanceTextList implements ENHANCE_TEXT_LIST. If the gateway's answer
// yields no parseable items the original input is returned unchanged.
func (h *Handler) EnhanceTextList(ctx context.Context, req *event.Request) (any, error) {
	var p enhanceListPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if len(p.Items) == 0 {
		return nil, apperr.Validation("items must be a non-empty list")
	}
	contentType := p.ContentType
	if contentType == "" {
		contentType = "list"
	}
	if !listTypes[contentType] {
		return nil, apperr.Validation("unsupported content type: " + contentType)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Improve each of the following careers-page %s entries. Reply with a numbered list only, one improved entry per line, same number of entries.\n\n", contentType)
	for i, item := range p.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}

	raw, err := h.gateway.Complete(ctx, sb.String())
	if err != nil {
		return nil, apperr.AIService("list enhancement failed", err)
	}
	items := ParseNumberedList(raw)
	if len(items) == 0 {
		h.logger.Warn("list enhancement returned no parseable items, falling back to input",
			zap.String("content_type", contentType))
		items = p.Items
	}
	return map[string]any{"items": items, "contentType": contentType}, nil
}

type generatePayload struct {
	ContentType    string          `json:"contentType"`
	CompanyContext json.RawMessage `json:"companyContext"`
}

// Per-type response shapes for GENERATE_CONTENT.
type heroContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type aboutContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type valuesContent struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// GenerateContent implements GENERATE_CONTENT. The gateway must answer with
// JSON matching the per-type shape.
func (h *Handler) GenerateContent(ctx context.Context, req *event.Request) (any, error) {
	var p generatePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if !generateTypes[p.ContentType] {
		return nil, apperr.Validation("unsupported content type: " + p.ContentType)
	}

	contextStr := "{}"
	if len(p.CompanyContext) > 0 {
		contextStr = string(p.CompanyContext)
	}

	var shape string
	switch p.ContentType {
	case "hero":
		shape = `{"title": "...", "subtitle": "..."}`
	case "about":
		shape = `{"title": "...", "content": "..."}`
	case "values":
		shape = `{"title": "...", "items": ["...", "..."]}`
	}
	prompt := fmt.Sprintf(
		"Generate a careers-page %s section for the company described below. Reply with ONLY valid JSON shaped exactly like %s, no text before or after.\n\nCompany: %s",
		p.ContentType, shape, contextStr,
	)

	raw, err := h.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, apperr.AIService("content generation failed", err)
	}
	cleaned := StripCodeFences(raw)

	var parsed any
	switch p.ContentType {
	case "hero":
		var v heroContent
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, apperr.AIService("invalid AI response format", err)
		}
		parsed = v
	case "about":
		var v aboutContent
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, apperr.AIService("invalid AI response format", err)
		}
		parsed = v
	case "values":
		var v valuesContent
		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			return nil, apperr.AIService("invalid AI response format", err)
		}
		parsed = v
	}
	return map[string]any{"content": parsed, "contentType": p.ContentType}, nil
}

var (
	ordinalPattern  = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s*`)
	headingPattern  = regexp.MustCompile(`^#{1,6}\s*`)
	emphasisPattern = regexp.MustCompile(`(\*\*|__|\*|_)`)
)

// CleanText strips wrapping quotes, markdown emphasis and heading markers
// from a gateway completion.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	s = headingPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseNumberedList extracts list items from a completion: only lines
// carrying an ordinal or bullet marker count, so a prose answer yields zero
// items and the caller can fall back.
func ParseNumberedList(s string) []string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		stripped := ordinalPattern.ReplaceAllString(line, "")
		if stripped == line {
			continue
		}
		stripped = CleanText(stripped)
		if stripped != "" {
			items = append(items, stripped)
		}
	}
	return items
}

// StripCodeFences removes a wrapping markdown code fence, with or without a
// language tag, so fenced JSON still parses.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
