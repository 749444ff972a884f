package calculator

import (
	"errors"
	"fmt"

	"go-chi-calculator/internal/accumulator"
)

// ErrInvalidIntent marks a request whose intents cannot be applied.
var ErrInvalidIntent = errors.New("invalid intent")

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for binary operations. Result is the
// formatted display string, so 1/0 is "Infinity".
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    string  `json:"result"`
}

// IntentPayload is the JSON form of one user intent, e.g.
// {"type":"digit","digit":5}, {"type":"operator","operator":"multiply"} or
// {"type":"sqrt"}.
type IntentPayload struct {
	Type     string `json:"type"`
	Digit    *int   `json:"digit,omitempty"`
	Operator string `json:"operator,omitempty"`
}

// Intent converts the payload to an accumulator intent.
func (p IntentPayload) Intent() (accumulator.Intent, error) {
	kind, err := accumulator.ParseKind(p.Type)
	if err != nil {
		return accumulator.Intent{}, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
	}

	switch kind {
	case accumulator.KindDigit:
		if p.Digit == nil || *p.Digit < 0 || *p.Digit > 9 {
			return accumulator.Intent{}, fmt.Errorf("%w: digit must be between 0 and 9", ErrInvalidIntent)
		}
		return accumulator.Digit(*p.Digit), nil
	case accumulator.KindOperator:
		op, err := accumulator.ParseOperator(p.Operator)
		if err != nil {
			return accumulator.Intent{}, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
		}
		return accumulator.Choose(op), nil
	default:
		// the remaining kinds carry no payload
		return accumulator.Intent{Kind: kind}, nil
	}
}

// IntentsRequest is the JSON body for POST /calculator/evaluate and
// POST /calculator/sessions/{id}/intents. Exactly one of Keys or Intents
// must be set.
type IntentsRequest struct {
	Keys    string          `json:"keys,omitempty"`    // keypad sequence, e.g. "2+3*4="
	Intents []IntentPayload `json:"intents,omitempty"` // structured form
}

// Resolve validates the request and returns its intents in order.
func (r IntentsRequest) Resolve() ([]accumulator.Intent, error) {
	switch {
	case r.Keys != "" && len(r.Intents) > 0:
		return nil, fmt.Errorf("%w: provide keys or intents, not both", ErrInvalidIntent)
	case r.Keys != "":
		intents, err := accumulator.ParseKeys(r.Keys)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
		}
		if len(intents) == 0 {
			return nil, fmt.Errorf("%w: no intents provided", ErrInvalidIntent)
		}
		return intents, nil
	case len(r.Intents) > 0:
		intents := make([]accumulator.Intent, 0, len(r.Intents))
		for i, p := range r.Intents {
			in, err := p.Intent()
			if err != nil {
				return nil, fmt.Errorf("intent %d: %w", i, err)
			}
			intents = append(intents, in)
		}
		return intents, nil
	default:
		return nil, fmt.Errorf("%w: no intents provided", ErrInvalidIntent)
	}
}

// StateResponse is the JSON rendering of a calculator state.
type StateResponse struct {
	SessionID          string  `json:"session_id,omitempty"`
	Display            string  `json:"display"`
	PendingValue       *string `json:"pending_value,omitempty"` // formatted; absent when no operation is pending
	PendingOperator    string  `json:"pending_operator,omitempty"`
	AwaitingFreshEntry bool    `json:"awaiting_fresh_entry"`
	RunningTotal       string  `json:"running_total,omitempty"`
}

func NewStateResponse(sessionID string, s accumulator.State) StateResponse {
	resp := StateResponse{
		SessionID:          sessionID,
		Display:            s.Display,
		PendingOperator:    string(s.PendingOperator),
		AwaitingFreshEntry: s.AwaitingFreshEntry,
		RunningTotal:       s.RunningTotal(),
	}
	if s.HasPendingValue {
		v := accumulator.FormatResult(s.PendingValue)
		resp.PendingValue = &v
	}
	return resp
}

// EvaluateStep records the display after one intent.
type EvaluateStep struct {
	Key          string `json:"key"`
	Display      string `json:"display"`
	RunningTotal string `json:"running_total,omitempty"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps []EvaluateStep `json:"steps"`
	State StateResponse  `json:"state"`
}
