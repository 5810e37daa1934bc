// Package event implements the single-endpoint step dispatcher. Every API
// operation is a named step posted to /api/event; the dispatcher owns routing,
// the per-step auth policy, and the response envelope. Handlers own everything
// else.
package event

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
	"github.com/careerforge/backend/pkg/response"
)

// Policy declares the dispatcher-level auth requirement for a step.
type Policy int

const (
	// PolicyPublic steps run without identity resolution.
	PolicyPublic Policy = iota
	// PolicyAuth steps require a valid bearer token; the resolved identity
	// is attached to the request before the handler runs.
	PolicyAuth
)

// Request is what a handler receives for one dispatched step.
type Request struct {
	Payload  json.RawMessage
	Identity *models.Identity // nil for public steps without a token
	Token    string           // raw bearer token, when present
}

// Bind unmarshals the payload into v, mapping malformed JSON to a
// ValidationError.
func (r *Request) Bind(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return apperr.Validation("invalid payload: " + err.Error())
	}
	return nil
}

// HandlerFunc processes one step.
type HandlerFunc func(ctx context.Context, req *Request) (any, error)

// TokenVerifier resolves a bearer token into a caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// Dispatcher routes steps to handlers behind a declarative policy table.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	policies map[string]Policy
	aliases  map[string]string
	verifier TokenVerifier
	logger   *zap.Logger
}

// New creates a dispatcher.
func New(verifier TokenVerifier, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		policies: make(map[string]Policy),
		aliases:  make(map[string]string),
		verifier: verifier,
		logger:   logger,
	}
}

// Register adds a step with its auth policy. Registering the same step twice
// is a wiring bug and panics at startup.
func (d *Dispatcher) Register(step string, policy Policy, h HandlerFunc) {
	if _, ok := d.handlers[step]; ok {
		panic("event: duplicate step " + step)
	}
	d.handlers[step] = h
	d.policies[step] = policy
}

// Alias maps a legacy step name onto a registered canonical step.
func (d *Dispatcher) Alias(legacy, canonical string) {
	if _, ok := d.handlers[canonical]; !ok {
		panic("event: alias target not registered: " + canonical)
	}
	d.aliases[legacy] = canonical
}

// Steps returns all registered canonical step names.
func (d *Dispatcher) Steps() []string {
	out := make([]string, 0, len(d.handlers))
	for s := range d.handlers {
		out = append(out, s)
	}
	return out
}

// Resolve normalizes a step name through the alias table.
func (d *Dispatcher) Resolve(step string) (string, bool) {
	if canonical, ok := d.aliases[step]; ok {
		step = canonical
	}
	_, ok := d.handlers[step]
	return step, ok
}

type eventBody struct {
	Step    string          `json:"step"`
	Payload json.RawMessage `json:"payload"`
}

// Handle is the gin handler for POST /api/event.
func (d *Dispatcher) Handle(c *gin.Context) {
	var body eventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, apperr.Validation("invalid request body: expected {step, payload}"))
		return
	}
	if body.Step == "" {
		response.Fail(c, apperr.Validation("step is required"))
		return
	}

	step, ok := d.Resolve(body.Step)
	if !ok {
		response.Fail(c, apperr.UnknownStep(body.Step))
		return
	}

	req := &Request{Payload: body.Payload, Token: bearerToken(c)}

	if d.policies[step] == PolicyAuth {
		if req.Token == "" {
			response.Fail(c, apperr.Unauthorized("missing authorization header"))
			return
		}
		identity, err := d.verifier.Verify(c.Request.Context(), req.Token)
		if err != nil {
			response.Fail(c, apperr.Unauthorized("invalid or expired token"))
			return
		}
		req.Identity = identity
	} else if req.Token != "" && d.verifier != nil {
		// Public steps still get the identity when a valid token rides along.
		if identity, err := d.verifier.Verify(c.Request.Context(), req.Token); err == nil {
			req.Identity = identity
		}
	}

	data, err := d.handlers[step](c.Request.Context(), req)
	if err != nil {
		e := apperr.From(err)
		if e.Status >= 500 {
			d.logger.Error("step failed", zap.String("step", step), zap.Error(err))
		} else {
			d.logger.Debug("step rejected", zap.String("step", step), zap.String("code", string(e.Code)))
		}
		response.Fail(c, e)
		return
	}
	response.OK(c, data)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
