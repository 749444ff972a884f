package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-chi-calculator/internal/accumulator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// ---------------------------------------------------------------------------
// Handlers: binary operations
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, accumulator.Add)
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, accumulator.Subtract)
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, accumulator.Multiply)
}

// Divide handles POST /calculator/divide. Division by zero is not an error:
// the result is reported as "Infinity" (or "NaN" for 0/0), like the keypad.
func Divide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, accumulator.Divide)
}

// handleBinaryOp applies one operator to two operands and answers with the
// formatted display string.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, op accumulator.Operator) {
	opName := string(op)
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	// Operands must be finite; only results may be Infinity or NaN.
	if !isFinite(req.A) || !isFinite(req.B) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", req.A, req.B), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	result := accumulator.Apply(op, req.A, req.B)
	display := accumulator.FormatResult(result)
	elapsed := elapsedMillis(start)

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	recordResult(ctx, result, opName)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", display),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", display))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.String("result", display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    display,
	})
}

// ---------------------------------------------------------------------------
// Handler: key replay (nested spans)
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It replays a key sequence through
// a fresh accumulator, creating a child span for every intent, and reports the
// display after each one.
func Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req IntentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	intents, err := req.Resolve()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("evaluate.intents_count", len(intents)))

	start := time.Now()
	acc := accumulator.New()
	steps := dispatchAll(ctx, acc, intents)
	elapsed := elapsedMillis(start)

	state := acc.State()
	opsHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", "evaluate")))
	recordResult(ctx, accumulator.ParseDisplay(state.Display), "evaluate")

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("display", state.Display),
		attribute.Int("total_steps", len(steps)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence evaluated",
		zap.Int("intents", len(intents)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Steps: steps,
		State: NewStateResponse("", state),
	})
}

// dispatchAll applies intents in order, one child span per intent.
func dispatchAll(ctx context.Context, acc *accumulator.Accumulator, intents []accumulator.Intent) []EvaluateStep {
	steps := make([]EvaluateStep, 0, len(intents))

	for i, in := range intents {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.intent.%d.%s", i, in.Kind),
			trace.WithAttributes(
				attribute.Int("intent.index", i),
				attribute.String("intent.kind", in.Kind.String()),
				attribute.String("intent.key", in.Key()),
				attribute.String("intent.display_before", acc.Display()),
			),
		)

		display := acc.Dispatch(in)
		intentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", in.Kind.String())))
		switch in.Kind {
		case accumulator.KindOperator:
			opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(in.Operator))))
		case accumulator.KindEquals:
			opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "equals")))
		case accumulator.KindNegate, accumulator.KindPercent, accumulator.KindSqrt, accumulator.KindSquare:
			opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", in.Kind.String())))
		}

		stepSpan.SetAttributes(attribute.String("intent.display_after", display))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		steps = append(steps, EvaluateStep{
			Key:          in.Key(),
			Display:      display,
			RunningTotal: acc.RunningTotal(),
		})
	}

	return steps
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// recordResult updates the last-result gauge for finite values only.
func recordResult(ctx context.Context, v float64, opName string) {
	if !isFinite(v) {
		return
	}
	resultGauge.Record(ctx, v, metric.WithAttributes(attribute.String("operation", opName)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
