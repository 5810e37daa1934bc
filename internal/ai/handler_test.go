package ai

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/pkg/apperr"
)

type mockGateway struct {
	response string
	err      error
	prompts  []string
}

func (g *mockGateway) Complete(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func request(t *testing.T, payload any) *event.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &event.Request{Payload: raw}
}

func wantCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apperr.Error with code %s, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, e.Code, e.Message)
	}
}

func TestEnhanceText_BlankInputSkipsGateway(t *testing.T) {
	gw := &mockGateway{}
	h := NewHandler(gw, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := h.EnhanceText(context.Background(), request(t, map[string]any{"text": text}))
		wantCode(t, err, apperr.CodeValidation)
	}
	if len(gw.prompts) != 0 {
		t.Fatal("blank input must not reach the gateway")
	}
}

func TestEnhanceText_CleansCompletion(t *testing.T) {
	gw := &mockGateway{response: "\"**Build the future with us**\""}
	h := NewHandler(gw, nil)

	out, err := h.EnhanceText(context.Background(), request(t, map[string]any{
		"text": "come work here", "contentType": "title",
	}))
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	res := out.(map[string]any)
	if res["text"] != "Build the future with us" {
		t.Fatalf("expected cleaned text, got %q", res["text"])
	}
	if res["contentType"] != "title" {
		t.Fatalf("expected contentType echoed, got %q", res["contentType"])
	}
}

func TestEnhanceText_GatewayFailures(t *testing.T) {
	h := NewHandler(&mockGateway{err: ErrGatewayUnavailable}, nil)
	_, err := h.EnhanceText(context.Background(), request(t, map[string]any{"text": "hello"}))
	wantCode(t, err, apperr.CodeAIService)

	h = NewHandler(&mockGateway{response: "  \"\"  "}, nil)
	_, err = h.EnhanceText(context.Background(), request(t, map[string]any{"text": "hello"}))
	wantCode(t, err, apperr.CodeAIService)
}

func TestEnhanceText_UnsupportedContentType(t *testing.T) {
	gw := &mockGateway{}
	h := NewHandler(gw, nil)
	_, err := h.EnhanceText(context.Background(), request(t, map[string]any{
		"text": "hello", "contentType": "haiku",
	}))
	wantCode(t, err, apperr.CodeValidation)
	if len(gw.prompts) != 0 {
		t.Fatal("invalid type must not reach the gateway")
	}
}

func TestEnhanceTextList_ParsesNumberedAnswer(t *testing.T) {
	gw := &mockGateway{response: "1. Integrity first\n2. Ship fast\n3. Own the outcome"}
	h := NewHandler(gw, nil)

	out, err := h.EnhanceTextList(context.Background(), request(t, map[string]any{
		"items": []string{"integrity", "speed", "ownership"}, "contentType": "values",
	}))
	if err != nil {
		t.Fatalf("enhance list: %v", err)
	}
	items := out.(map[string]any)["items"].([]string)
	want := []string{"Integrity first", "Ship fast", "Own the outcome"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("expected %v, got %v", want, items)
	}
}

func TestEnhanceTextList_ProseAnswerFallsBackToInput(t *testing.T) {
	gw := &mockGateway{response: "Here are some thoughts on your values, which I quite like overall."}
	h := NewHandler(gw, nil)

	input := []string{"integrity", "speed"}
	out, err := h.EnhanceTextList(context.Background(), request(t, map[string]any{
		"items": input, "contentType": "values",
	}))
	if err != nil {
		t.Fatalf("enhance list: %v", err)
	}
	items := out.(map[string]any)["items"].([]string)
	if !reflect.DeepEqual(items, input) {
		t.Fatalf("expected fallback to input %v, got %v", input, items)
	}
}

func TestEnhanceTextList_EmptyInput(t *testing.T) {
	h := NewHandler(&mockGateway{}, nil)
	_, err := h.EnhanceTextList(context.Background(), request(t, map[string]any{
		"items": []string{},
	}))
	wantCode(t, err, apperr.CodeValidation)
}

func TestGenerateContent_HeroShape(t *testing.T) {
	gw := &mockGateway{response: "```json\n{\"title\": \"Join Acme\", \"subtitle\": \"We build rockets\"}\n```"}
	h := NewHandler(gw, nil)

	out, err := h.GenerateContent(context.Background(), request(t, map[string]any{
		"contentType":    "hero",
		"companyContext": map[string]any{"name": "Acme"},
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := out.(map[string]any)["content"].(heroContent)
	if content.Title != "Join Acme" || content.Subtitle != "We build rockets" {
		t.Fatalf("unexpected content %+v", content)
	}
}

func TestGenerateContent_ValuesShape(t *testing.T) {
	gw := &mockGateway{response: `{"title": "Our Values", "items": ["Integrity", "Craft"]}`}
	h := NewHandler(gw, nil)

	out, err := h.GenerateContent(context.Background(), request(t, map[string]any{
		"contentType": "values",
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content := out.(map[string]any)["content"].(valuesContent)
	if content.Title != "Our Values" || len(content.Items) != 2 {
		t.Fatalf("unexpected content %+v", content)
	}
}

func TestGenerateContent_InvalidJSONAnswer(t *testing.T) {
	gw := &mockGateway{response: "Sure! Here's a nice hero section for you."}
	h := NewHandler(gw, nil)

	_, err := h.GenerateContent(context.Background(), request(t, map[string]any{
		"contentType": "hero",
	}))
	wantCode(t, err, apperr.CodeAIService)
}

func TestGenerateContent_UnsupportedType(t *testing.T) {
	h := NewHandler(&mockGateway{}, nil)
	_, err := h.GenerateContent(context.Background(), request(t, map[string]any{
		"contentType": "jobs",
	}))
	wantCode(t, err, apperr.CodeValidation)
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"`ticked`", "ticked"},
		{`"'nested'"`, "nested"},
		{"## Heading text", "Heading text"},
		{"**bold** and _italic_", "bold and italic"},
		{"  plain  ", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseNumberedList(t *testing.T) {
	got := ParseNumberedList("1. First\n2) Second\n- Third\n* Fourth\n\nignore this prose line")
	want := []string{"First", "Second", "Third", "Fourth"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if items := ParseNumberedList("no markers at all\njust prose"); items != nil {
		t.Fatalf("prose should yield no items, got %v", items)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
