package colloerr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/collomatique/colloml-go/internal/ast"
)

// Report is the canonical structured error type returned across the whole
// public API: checker, evaluator, and ILP builder all surface *Report
// values rather than bare errors, so a caller can always recover a code,
// a phase, a message and the spans involved (a problem-wide ILP report
// may carry none).
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Spans   []ast.Span     `json:"spans"`
	Data    map[string]any `json:"data,omitempty"`
}

const schemaV1 = "colloml.error/v1"

// New builds a Report for the given phase/code/message, attaching spans.
func New(phase, code, message string, spans ...ast.Span) *Report {
	return &Report{Schema: schemaV1, Code: code, Phase: phase, Message: message, Spans: spans}
}

// WithData returns a copy of r with an extra structured-data entry set.
func (r *Report) WithData(key string, value any) *Report {
	cp := *r
	cp.Data = make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		cp.Data[k] = v
	}
	cp.Data[key] = value
	return &cp
}

func (r *Report) Error() string {
	if len(r.Spans) == 0 {
		return fmt.Sprintf("%s: %s", r.Code, r.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Code, r.Message, r.Spans[0])
}

// ToJSON renders the report deterministically (fields in declaration
// order, Data keys sorted).
func (r *Report) ToJSON(indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	out := buf.String()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Warning is a non-fatal diagnostic produced by the semantic analyser.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	Span    ast.Span    `json:"span"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Kind, w.Message, w.Span)
}
